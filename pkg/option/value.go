package option

import (
	"github.com/goliatone/go-bookopts/pkg/entity"
)

// Kind names the concrete value variant held by an Option.
type Kind string

const (
	KindString          Kind = "string"
	KindBool            Kind = "bool"
	KindInt             Kind = "int"
	KindEntity          Kind = "entity"
	KindValidatedEntity Kind = "validated-entity"
	KindRangeInt        Kind = "range-int"
	KindRangeFloat      Kind = "range-float"
	KindMultichoice     Kind = "multichoice"
	KindAccount         Kind = "account"
	KindDate            Kind = "date"
)

// Value is implemented only by the variants in this package: *PlainValue
// (string, bool, int64, entity.Entity), *ValidatedValue[entity.Entity],
// *RangeValue (int, float64), *MultichoiceValue, *AccountValue and *DateValue.
// Code that needs kind-specific behaviour type-switches over that set.
type Value interface {
	Section() string
	Name() string
	SortTag() string
	DocString() string
	UIType() UIType
	UIItem() UIItemID
	SetUIItem(UIItemID) error
	ClearUIItem()
	MakeInternal() error
	IsChanged() bool
	Reset()
	Kind() Kind
	sealed()
}

// Scalar lists the plain value types with a value kind of their own. Entity
// handles have dedicated constructors.
type Scalar interface {
	string | bool | int64
}

// PlainValue stores a scalar without validation.
type PlainValue[T comparable] struct {
	base
	kind         Kind
	value        T
	defaultValue T
}

// NewValueOption creates a plain string, bool or int64 option. An empty ui
// defaults to UITypeInternal.
func NewValueOption[T Scalar](c Classifier, value T, ui UIType) *Option {
	return &Option{value: &PlainValue[T]{
		base:         newBase(c, ui, UITypeInternal),
		kind:         scalarKind(value),
		value:        value,
		defaultValue: value,
	}}
}

// NewEntityOption creates a plain option holding an entity handle.
func NewEntityOption(c Classifier, value entity.Entity, ui UIType) *Option {
	return &Option{value: &PlainValue[entity.Entity]{
		base:         newBase(c, ui, UITypeInternal),
		kind:         KindEntity,
		value:        value,
		defaultValue: value,
	}}
}

func scalarKind(value any) Kind {
	switch value.(type) {
	case bool:
		return KindBool
	case int64:
		return KindInt
	default:
		return KindString
	}
}

func (v *PlainValue[T]) Value() T        { return v.value }
func (v *PlainValue[T]) DefaultValue() T { return v.defaultValue }

// SetValue stores value unconditionally.
func (v *PlainValue[T]) SetValue(value T) error {
	v.value = value
	return nil
}

// Validate always accepts.
func (v *PlainValue[T]) Validate(T) bool { return true }

func (v *PlainValue[T]) IsChanged() bool { return v.value != v.defaultValue }
func (v *PlainValue[T]) Reset()          { v.value = v.defaultValue }
func (v *PlainValue[T]) Kind() Kind      { return v.kind }
func (v *PlainValue[T]) sealed()         {}

// ValidatedValue stores a scalar accepted by a caller supplied predicate.
type ValidatedValue[T comparable] struct {
	base
	kind           Kind
	value          T
	defaultValue   T
	validator      func(T) bool
	validationData T
}

// NewValidatedEntityOption creates an entity option guarded by validator. The
// initial value must pass validation.
func NewValidatedEntityOption(c Classifier, value entity.Entity, validator func(entity.Entity) bool, ui UIType) (*Option, error) {
	return newValidatedEntity(c, value, validator, nil, ui)
}

// NewValidatedEntityOptionWithData is NewValidatedEntityOption plus a datum the
// validator's owner can retrieve later, e.g. the reference the validator
// compares against. The UI type is internal.
func NewValidatedEntityOptionWithData(c Classifier, value entity.Entity, validator func(entity.Entity) bool, data entity.Entity) (*Option, error) {
	return newValidatedEntity(c, value, validator, data, UITypeInternal)
}

func newValidatedEntity(c Classifier, value entity.Entity, validator func(entity.Entity) bool, data entity.Entity, ui UIType) (*Option, error) {
	if validator == nil {
		return nil, c.errorf(ErrInvalidConstruction, "validator is required")
	}
	v := &ValidatedValue[entity.Entity]{
		base:           newBase(c, ui, UITypeInternal),
		kind:           KindValidatedEntity,
		value:          value,
		defaultValue:   value,
		validator:      validator,
		validationData: data,
	}
	if !v.Validate(value) {
		return nil, c.errorf(ErrInvalidConstruction, "attempt to create validated option with bad value")
	}
	return &Option{value: v}, nil
}

func (v *ValidatedValue[T]) Value() T          { return v.value }
func (v *ValidatedValue[T]) DefaultValue() T   { return v.defaultValue }
func (v *ValidatedValue[T]) ValidationData() T { return v.validationData }

// Validate runs the predicate.
func (v *ValidatedValue[T]) Validate(value T) bool { return v.validator(value) }

// SetValue stores value when the predicate accepts it.
func (v *ValidatedValue[T]) SetValue(value T) error {
	if !v.Validate(value) {
		return v.errorf(ErrInvalidValue, "validation failed, value not set")
	}
	v.value = value
	return nil
}

func (v *ValidatedValue[T]) IsChanged() bool { return v.value != v.defaultValue }
func (v *ValidatedValue[T]) Reset()          { v.value = v.defaultValue }
func (v *ValidatedValue[T]) Kind() Kind      { return v.kind }
func (v *ValidatedValue[T]) sealed()         {}
