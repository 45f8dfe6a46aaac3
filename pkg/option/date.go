package option

import (
	"math"
	"slices"
)

const (
	// UnsetTime is the stored timestamp of a date option in relative mode.
	UnsetTime int64 = math.MaxInt64
	// MinTime is 1400-01-01T00:00:00Z. Valid timestamps are strictly greater.
	MinTime int64 = -17987443200
	// MaxTime is 9999-12-31T23:59:59Z. Valid timestamps are strictly less.
	MaxTime int64 = 253402300799
)

// DateValue is either an absolute timestamp (unix seconds) or a relative
// period. A non-empty period set restricts which periods may be selected.
type DateValue struct {
	base
	date          int64
	defaultDate   int64
	period        RelativeDatePeriod
	defaultPeriod RelativeDatePeriod
	periodSet     []RelativeDatePeriod
	resolver      DateResolver
}

// NewDateOption creates an unrestricted date option starting at "today". An
// empty ui defaults to UITypeDate.
func NewDateOption(c Classifier, ui UIType) *Option {
	return &Option{value: newDate(c, ui, UnsetTime, PeriodToday, nil)}
}

// NewAbsoluteDateOption creates a date option holding a fixed timestamp.
func NewAbsoluteDateOption(c Classifier, ui UIType, t int64) (*Option, error) {
	if !validTime(t) {
		return nil, c.errorf(ErrInvalidConstruction, "time %d out of range", t)
	}
	return &Option{value: newDate(c, ui, t, PeriodAbsolute, nil)}, nil
}

// NewRelativeDateOption creates a date option fixed on a relative period.
func NewRelativeDateOption(c Classifier, ui UIType, period RelativeDatePeriod) (*Option, error) {
	if period == PeriodAbsolute || !period.Valid() {
		return nil, c.errorf(ErrInvalidConstruction, "%s is not a relative period", period)
	}
	return &Option{value: newDate(c, ui, UnsetTime, period, nil)}, nil
}

// NewRestrictedDateOption creates a date option limited to the given periods.
// The last period of the set is the initial and default selection.
func NewRestrictedDateOption(c Classifier, ui UIType, set []RelativeDatePeriod) (*Option, error) {
	if len(set) == 0 {
		return nil, c.errorf(ErrInvalidConstruction, "period set is empty")
	}
	for _, p := range set {
		if p == PeriodAbsolute || !p.Valid() {
			return nil, c.errorf(ErrInvalidConstruction, "%s is not a relative period", p)
		}
	}
	return &Option{value: newDate(c, ui, UnsetTime, set[len(set)-1], set)}, nil
}

func newDate(c Classifier, ui UIType, t int64, period RelativeDatePeriod, set []RelativeDatePeriod) *DateValue {
	return &DateValue{
		base:          newBase(c, ui, UITypeDate),
		date:          t,
		defaultDate:   t,
		period:        period,
		defaultPeriod: period,
		periodSet:     slices.Clone(set),
		resolver:      DefaultDateResolver,
	}
}

func validTime(t int64) bool { return t > MinTime && t < MaxTime }

// Value returns the timestamp: the stored one in absolute mode, the resolved
// period otherwise.
func (v *DateValue) Value() int64 {
	if v.period == PeriodAbsolute {
		return v.date
	}
	return v.resolver.Resolve(v.period).Unix()
}

// DefaultValue is Value for the default state.
func (v *DateValue) DefaultValue() int64 {
	if v.defaultPeriod == PeriodAbsolute {
		return v.defaultDate
	}
	return v.resolver.Resolve(v.defaultPeriod).Unix()
}

// Time returns the raw stored timestamp, UnsetTime in relative mode.
func (v *DateValue) Time() int64 { return v.date }

// DefaultTime returns the raw default timestamp.
func (v *DateValue) DefaultTime() int64 { return v.defaultDate }

func (v *DateValue) Period() RelativeDatePeriod        { return v.period }
func (v *DateValue) DefaultPeriod() RelativeDatePeriod { return v.defaultPeriod }

// IsAbsolute reports whether the option currently holds a timestamp.
func (v *DateValue) IsAbsolute() bool { return v.period == PeriodAbsolute }

// PeriodSet returns a copy of the permitted periods, empty when unrestricted.
func (v *DateValue) PeriodSet() []RelativeDatePeriod { return slices.Clone(v.periodSet) }

// SetResolver replaces the resolver used by Value.
func (v *DateValue) SetResolver(r DateResolver) { v.resolver = r }

// ValidateTime reports whether t lies strictly inside (MinTime, MaxTime).
func (v *DateValue) ValidateTime(t int64) bool { return validTime(t) }

// ValidatePeriod reports whether p can be selected.
func (v *DateValue) ValidatePeriod(p RelativeDatePeriod) bool {
	if p == PeriodAbsolute || !p.Valid() {
		return false
	}
	return len(v.periodSet) == 0 || slices.Contains(v.periodSet, p)
}

// SetValue is SetTime, so the option answers the typed int64 setter.
func (v *DateValue) SetValue(t int64) error { return v.SetTime(t) }

// SetTime switches to absolute mode.
func (v *DateValue) SetTime(t int64) error {
	if !v.ValidateTime(t) {
		return v.errorf(ErrInvalidValue, "time %d out of range", t)
	}
	v.period = PeriodAbsolute
	v.date = t
	return nil
}

// SetPeriod switches to relative mode and forgets any stored timestamp.
func (v *DateValue) SetPeriod(p RelativeDatePeriod) error {
	if !v.ValidatePeriod(p) {
		return v.errorf(ErrInvalidValue, "%s is not a permitted period", p)
	}
	v.period = p
	v.date = UnsetTime
	return nil
}

// SetPeriodIndex selects the period at index of the restricted set.
func (v *DateValue) SetPeriodIndex(index int) error {
	if index < 0 || index >= len(v.periodSet) {
		return v.errorf(ErrInvalidValue, "period index %d out of range", index)
	}
	return v.SetPeriod(v.periodSet[index])
}

// PeriodIndex returns the index of the current period in the restricted set,
// or NoIndex.
func (v *DateValue) PeriodIndex() int { return slices.Index(v.periodSet, v.period) }

// DefaultPeriodIndex returns the index of the default period, or NoIndex.
func (v *DateValue) DefaultPeriodIndex() int { return slices.Index(v.periodSet, v.defaultPeriod) }

func (v *DateValue) NumPermissibleValues() int { return len(v.periodSet) }

// PermissibleValueIndex looks a storage spelling up in the restricted set.
func (v *DateValue) PermissibleValueIndex(key string) int {
	for idx, p := range v.periodSet {
		if p.String() == key {
			return idx
		}
	}
	return NoIndex
}

func (v *DateValue) PermissibleValue(index int) string {
	if index < 0 || index >= len(v.periodSet) {
		return ""
	}
	return v.periodSet[index].String()
}

func (v *DateValue) PermissibleValueName(index int) string {
	if index < 0 || index >= len(v.periodSet) {
		return ""
	}
	return v.periodSet[index].DisplayName()
}

func (v *DateValue) PermissibleValueDescription(index int) string {
	if index < 0 || index >= len(v.periodSet) {
		return ""
	}
	return v.periodSet[index].Description()
}

// IsChanged requires both the period and the timestamp to differ from their
// defaults. Every other kind reports a change when the value differs at all,
// so switching from one relative period to another reads as unchanged here.
func (v *DateValue) IsChanged() bool {
	return v.period != v.defaultPeriod && v.date != v.defaultDate
}

// Differs reports whether either the period or the timestamp moved away
// from the defaults. Persistence uses it where IsChanged would miss a
// relative to relative or absolute to absolute edit.
func (v *DateValue) Differs() bool {
	return v.period != v.defaultPeriod || v.date != v.defaultDate
}

func (v *DateValue) Reset() {
	v.period = v.defaultPeriod
	v.date = v.defaultDate
}

func (v *DateValue) Kind() Kind { return KindDate }
func (v *DateValue) sealed()    {}
