// Package option implements typed, validated configuration values. Each
// Option wraps exactly one value variant for its whole lifetime; the variant
// decides validation, default tracking and which UI control presents it.
package option

import "fmt"

// Option is the uniform handle over the value variants.
type Option struct {
	value Value
}

// Value returns the underlying variant for kind-specific access via a type
// switch.
func (o *Option) Value() Value { return o.value }

func (o *Option) Section() string   { return o.value.Section() }
func (o *Option) Name() string      { return o.value.Name() }
func (o *Option) SortTag() string   { return o.value.SortTag() }
func (o *Option) DocString() string { return o.value.DocString() }
func (o *Option) Kind() Kind        { return o.value.Kind() }
func (o *Option) UIType() UIType    { return o.value.UIType() }
func (o *Option) UIItem() UIItemID  { return o.value.UIItem() }

// SetUIItem attaches a control; it fails with ErrLogic on internal options.
func (o *Option) SetUIItem(id UIItemID) error { return o.value.SetUIItem(id) }

// ClearUIItem detaches the control.
func (o *Option) ClearUIItem() { o.value.ClearUIItem() }

// MakeInternal hides the option from dialogs; it fails with ErrLogic while a
// control is attached.
func (o *Option) MakeInternal() error { return o.value.MakeInternal() }

// IsChanged reports whether the value differs from the default.
func (o *Option) IsChanged() bool { return o.value.IsChanged() }

// Differs reports whether the option holds anything other than its default
// state. It equals IsChanged except for dates, where IsChanged needs both the
// period and the timestamp to move, and plot sizes, where the unit counts
// too. Persistence decides what to store with Differs.
func (o *Option) Differs() bool {
	if d, ok := o.value.(interface{ Differs() bool }); ok {
		return d.Differs()
	}
	return o.value.IsChanged()
}

// Reset restores the default value.
func (o *Option) Reset() { o.value.Reset() }

func (o *Option) String() string {
	return fmt.Sprintf("%s/%s (%s)", o.Section(), o.Name(), o.Kind())
}

// NumPermissibleValues returns the size of the choice table for multichoice
// and restricted date options, and NoIndex for every other kind.
func (o *Option) NumPermissibleValues() int {
	switch v := o.value.(type) {
	case *MultichoiceValue:
		return v.NumPermissibleValues()
	case *DateValue:
		return v.NumPermissibleValues()
	default:
		return NoIndex
	}
}

// PermissibleValueIndex returns the table index of key, or NoIndex.
func (o *Option) PermissibleValueIndex(key string) int {
	switch v := o.value.(type) {
	case *MultichoiceValue:
		return v.PermissibleValueIndex(key)
	case *DateValue:
		return v.PermissibleValueIndex(key)
	default:
		return NoIndex
	}
}

// PermissibleValue returns the key at index, or "".
func (o *Option) PermissibleValue(index int) string {
	switch v := o.value.(type) {
	case *MultichoiceValue:
		return v.PermissibleValue(index)
	case *DateValue:
		return v.PermissibleValue(index)
	default:
		return ""
	}
}

// PermissibleValueName returns the display name at index, or "".
func (o *Option) PermissibleValueName(index int) string {
	switch v := o.value.(type) {
	case *MultichoiceValue:
		return v.PermissibleValueName(index)
	case *DateValue:
		return v.PermissibleValueName(index)
	default:
		return ""
	}
}

// PermissibleValueDescription returns the description at index, or "".
func (o *Option) PermissibleValueDescription(index int) string {
	switch v := o.value.(type) {
	case *MultichoiceValue:
		return v.PermissibleValueDescription(index)
	case *DateValue:
		return v.PermissibleValueDescription(index)
	default:
		return ""
	}
}
