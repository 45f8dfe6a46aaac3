package option

// Number is the element type of a numeric range.
type Number interface {
	int | float64
}

// RangeValue is a number bounded by [min, max]. Step is a presentation hint
// and is never enforced.
type RangeValue[T Number] struct {
	base
	value        T
	defaultValue T
	min          T
	max          T
	step         T
	alternate    bool

	// defaultAlternate is the unit the option was constructed with.
	defaultAlternate bool
}

// NewRangeOption creates a numeric range option. A value outside [min, max]
// is replaced by min instead of failing. An empty ui defaults to
// UITypeNumberRange; use UITypePlotSize for ranges that toggle between
// percent and pixels.
func NewRangeOption[T Number](c Classifier, value, min, max, step T, ui UIType) *Option {
	if value < min || value > max {
		value = min
	}
	return &Option{value: &RangeValue[T]{
		base:         newBase(c, ui, UITypeNumberRange),
		value:        value,
		defaultValue: value,
		min:          min,
		max:          max,
		step:         step,
	}}
}

func (v *RangeValue[T]) Value() T        { return v.value }
func (v *RangeValue[T]) DefaultValue() T { return v.defaultValue }

// Validate reports whether min <= value <= max.
func (v *RangeValue[T]) Validate(value T) bool {
	return value >= v.min && value <= v.max
}

// SetValue stores value when it lies within the bounds.
func (v *RangeValue[T]) SetValue(value T) error {
	if !v.Validate(value) {
		return v.errorf(ErrInvalidValue, "%v outside [%v, %v]", value, v.min, v.max)
	}
	v.value = value
	return nil
}

// Limits returns the lower bound, upper bound and step.
func (v *RangeValue[T]) Limits() (min, max, step T) {
	return v.min, v.max, v.step
}

// IsAlternate reports whether a plot size is expressed in pixels.
func (v *RangeValue[T]) IsAlternate() bool { return v.alternate }

// SetAlternate switches a plot size between percent (false) and pixels
// (true). Other UI types ignore it.
func (v *RangeValue[T]) SetAlternate(alternate bool) {
	if v.uiType == UITypePlotSize {
		v.alternate = alternate
	}
}

// IsChanged compares the number only; a unit switch alone does not count.
func (v *RangeValue[T]) IsChanged() bool { return v.value != v.defaultValue }

// Differs reports whether the number or the plot-size unit moved away from
// the defaults.
func (v *RangeValue[T]) Differs() bool {
	return v.value != v.defaultValue || v.alternate != v.defaultAlternate
}

func (v *RangeValue[T]) Reset() {
	v.value = v.defaultValue
	v.alternate = v.defaultAlternate
}

func (v *RangeValue[T]) sealed() {}

func (v *RangeValue[T]) Kind() Kind {
	var zero T
	if _, ok := any(zero).(float64); ok {
		return KindRangeFloat
	}
	return KindRangeInt
}
