package option

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-bookopts/pkg/entity"
)

type valueGetter[T any] interface {
	Value() T
	DefaultValue() T
}

type valueSetter[T any] interface {
	SetValue(T) error
}

type valueValidator[T any] interface {
	Validate(T) bool
}

// Get returns the option's value as T. A T that does not match the option's
// kind yields ErrWrongKind instead of a zero value. Besides each kind's
// natural value type, date options answer RelativeDatePeriod and multichoice
// options answer []int (the selected indices).
func Get[T any](o *Option) (T, error) {
	var zero T
	switch v := o.value.(type) {
	case *DateValue:
		if out, ok := any(v.Period()).(T); ok && isType[T, RelativeDatePeriod]() {
			return out, nil
		}
	case *MultichoiceValue:
		if out, ok := any(v.Multiple()).(T); ok && isType[T, []int]() {
			return out, nil
		}
	}
	if g, ok := o.value.(valueGetter[T]); ok {
		return g.Value(), nil
	}
	return zero, wrongKind[T](o)
}

// GetDefault is Get for the default value.
func GetDefault[T any](o *Option) (T, error) {
	var zero T
	switch v := o.value.(type) {
	case *DateValue:
		if out, ok := any(v.DefaultPeriod()).(T); ok && isType[T, RelativeDatePeriod]() {
			return out, nil
		}
	case *MultichoiceValue:
		if out, ok := any(v.DefaultMultiple()).(T); ok && isType[T, []int]() {
			return out, nil
		}
	}
	if g, ok := o.value.(valueGetter[T]); ok {
		return g.DefaultValue(), nil
	}
	return zero, wrongKind[T](o)
}

// Set stores value through the kind's validating setter. Entity options
// accept any concrete entity handle, date options accept RelativeDatePeriod
// and multichoice options accept an index or a []int of indices.
func Set[T any](o *Option, value T) error {
	switch v := o.value.(type) {
	case *DateValue:
		if p, ok := any(value).(RelativeDatePeriod); ok {
			return v.SetPeriod(p)
		}
	case *MultichoiceValue:
		switch idx := any(value).(type) {
		case []int:
			return v.SetMultiple(idx)
		case int:
			return v.SetIndex(idx)
		}
	case *PlainValue[entity.Entity]:
		if e, ok := entityArg(value); ok {
			return v.SetValue(e)
		}
	case *ValidatedValue[entity.Entity]:
		if e, ok := entityArg(value); ok {
			return v.SetValue(e)
		}
	}
	if s, ok := o.value.(valueSetter[T]); ok {
		return s.SetValue(value)
	}
	return wrongKind[T](o)
}

// Validate asks the option whether value would be accepted without storing
// it.
func Validate[T any](o *Option, value T) (bool, error) {
	switch v := o.value.(type) {
	case *DateValue:
		switch typed := any(value).(type) {
		case RelativeDatePeriod:
			return v.ValidatePeriod(typed), nil
		case int64:
			return v.ValidateTime(typed), nil
		}
	case *MultichoiceValue:
		if idx, ok := any(value).([]int); ok {
			return v.ValidateIndices(idx), nil
		}
	case *PlainValue[entity.Entity]:
		if e, ok := entityArg(value); ok {
			return v.Validate(e), nil
		}
	case *ValidatedValue[entity.Entity]:
		if e, ok := entityArg(value); ok {
			return v.Validate(e), nil
		}
	}
	if val, ok := o.value.(valueValidator[T]); ok {
		return val.Validate(value), nil
	}
	return false, wrongKind[T](o)
}

func entityArg(value any) (entity.Entity, bool) {
	if value == nil {
		return nil, true
	}
	e, ok := value.(entity.Entity)
	return e, ok
}

func isType[T, U any]() bool {
	_, ok := any((*T)(nil)).(*U)
	return ok
}

func wrongKind[T any](o *Option) error {
	typeName := strings.TrimPrefix(fmt.Sprintf("%T", (*T)(nil)), "*")
	return fmt.Errorf("%w: %s/%s holds %s, not %s", ErrWrongKind, o.Section(), o.Name(), o.Kind(), typeName)
}
