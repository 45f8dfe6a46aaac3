package option

import (
	"slices"
	"strings"
)

const (
	// EmptySelection is the display value of a multichoice with nothing
	// selected.
	EmptySelection = ""
	// MultipleSelection is the display value of a multichoice with more than
	// one selected entry.
	MultipleSelection = "multiple values"
	// NoIndex is returned by index lookups that find nothing.
	NoIndex = -1
)

// Choice is one permissible multichoice entry. Name and Description are meant
// for display and should already be localized.
type Choice struct {
	Key         string
	Name        string
	Description string
}

// MultichoiceValue selects one or more entries from a fixed choice table. The
// selection is stored as indices into the table.
type MultichoiceValue struct {
	base
	value        []int
	defaultValue []int
	choices      []Choice
}

// NewMultichoiceOption creates a single-select option whose initial selection
// is the entry with the given key. An empty key starts with no selection. An
// empty ui defaults to UITypeMultichoice.
func NewMultichoiceOption(c Classifier, key string, choices []Choice, ui UIType) (*Option, error) {
	v, err := newMultichoice(c, choices, ui, UITypeMultichoice)
	if err != nil {
		return nil, err
	}
	if key != "" {
		idx := v.findKey(key)
		if idx == NoIndex {
			return nil, c.errorf(ErrInvalidConstruction, "%q is not a permissible value", key)
		}
		v.value = []int{idx}
		v.defaultValue = []int{idx}
	}
	return &Option{value: v}, nil
}

// NewMultichoiceIndexOption creates a single-select option selecting index.
func NewMultichoiceIndexOption(c Classifier, index int, choices []Choice, ui UIType) (*Option, error) {
	v, err := newMultichoice(c, choices, ui, UITypeMultichoice)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(choices) {
		return nil, c.errorf(ErrInvalidConstruction, "index %d out of range", index)
	}
	v.value = []int{index}
	v.defaultValue = []int{index}
	return &Option{value: v}, nil
}

// NewListOption creates a multi-select option. An empty ui defaults to
// UITypeList.
func NewListOption(c Classifier, indices []int, choices []Choice, ui UIType) (*Option, error) {
	v, err := newMultichoice(c, choices, ui, UITypeList)
	if err != nil {
		return nil, err
	}
	if !v.ValidateIndices(indices) {
		return nil, c.errorf(ErrInvalidConstruction, "one of the supplied indexes was out of range")
	}
	v.value = slices.Clone(indices)
	v.defaultValue = slices.Clone(indices)
	return &Option{value: v}, nil
}

func newMultichoice(c Classifier, choices []Choice, ui, fallback UIType) (*MultichoiceValue, error) {
	seen := make(map[string]struct{}, len(choices))
	for _, choice := range choices {
		if !validChoiceKey(choice.Key) {
			return nil, c.errorf(ErrInvalidConstruction, "choice key %q is not usable", choice.Key)
		}
		if _, dup := seen[choice.Key]; dup {
			return nil, c.errorf(ErrInvalidConstruction, "duplicate choice key %q", choice.Key)
		}
		seen[choice.Key] = struct{}{}
	}
	return &MultichoiceValue{
		base:    newBase(c, ui, fallback),
		choices: slices.Clone(choices),
	}, nil
}

// Keys travel unquoted in both text profiles, so they cannot contain
// separators or list delimiters.
func validChoiceKey(key string) bool {
	if key == "" || key == MultipleSelection {
		return false
	}
	return !strings.ContainsAny(key, " \t\r\n\"'()")
}

// Value returns the selected key, EmptySelection or MultipleSelection.
func (v *MultichoiceValue) Value() string { return v.display(v.value) }

// DefaultValue is Value for the default selection.
func (v *MultichoiceValue) DefaultValue() string { return v.display(v.defaultValue) }

func (v *MultichoiceValue) display(indices []int) string {
	switch len(indices) {
	case 0:
		return EmptySelection
	case 1:
		return v.choices[indices[0]].Key
	default:
		return MultipleSelection
	}
}

// Index returns the first selected index, falling back to the default
// selection and then to 0.
func (v *MultichoiceValue) Index() int {
	if len(v.value) > 0 {
		return v.value[0]
	}
	if len(v.defaultValue) > 0 {
		return v.defaultValue[0]
	}
	return 0
}

// Multiple returns a copy of the selected indices.
func (v *MultichoiceValue) Multiple() []int { return slices.Clone(v.value) }

// DefaultMultiple returns a copy of the default indices.
func (v *MultichoiceValue) DefaultMultiple() []int { return slices.Clone(v.defaultValue) }

// Validate reports whether key names a permissible entry.
func (v *MultichoiceValue) Validate(key string) bool { return v.findKey(key) != NoIndex }

// ValidateIndices reports whether every index is inside the table.
func (v *MultichoiceValue) ValidateIndices(indices []int) bool {
	for _, idx := range indices {
		if idx < 0 || idx >= len(v.choices) {
			return false
		}
	}
	return true
}

// SetValue replaces the selection with the entry matching key.
func (v *MultichoiceValue) SetValue(key string) error {
	idx := v.findKey(key)
	if idx == NoIndex {
		return v.errorf(ErrInvalidValue, "%q is not a valid choice", key)
	}
	v.value = []int{idx}
	return nil
}

// SetIndex replaces the selection with a single index.
func (v *MultichoiceValue) SetIndex(index int) error {
	if index < 0 || index >= len(v.choices) {
		return v.errorf(ErrInvalidValue, "index %d is not a valid choice", index)
	}
	v.value = []int{index}
	return nil
}

// SetMultiple replaces the selection when every index is in range and leaves
// it untouched otherwise.
func (v *MultichoiceValue) SetMultiple(indices []int) error {
	if !v.ValidateIndices(indices) {
		return v.errorf(ErrInvalidValue, "one of the supplied indexes was out of range")
	}
	v.value = slices.Clone(indices)
	return nil
}

// NumPermissibleValues returns the size of the choice table.
func (v *MultichoiceValue) NumPermissibleValues() int { return len(v.choices) }

// PermissibleValueIndex returns the index of key or NoIndex.
func (v *MultichoiceValue) PermissibleValueIndex(key string) int { return v.findKey(key) }

// PermissibleValue returns the key at index, or "" when out of range.
func (v *MultichoiceValue) PermissibleValue(index int) string {
	if c, ok := v.choice(index); ok {
		return c.Key
	}
	return ""
}

// PermissibleValueName returns the display name at index.
func (v *MultichoiceValue) PermissibleValueName(index int) string {
	if c, ok := v.choice(index); ok {
		return c.Name
	}
	return ""
}

// PermissibleValueDescription returns the description at index.
func (v *MultichoiceValue) PermissibleValueDescription(index int) string {
	if c, ok := v.choice(index); ok {
		return c.Description
	}
	return ""
}

// Choices returns a copy of the choice table.
func (v *MultichoiceValue) Choices() []Choice { return slices.Clone(v.choices) }

func (v *MultichoiceValue) choice(index int) (Choice, bool) {
	if index < 0 || index >= len(v.choices) {
		return Choice{}, false
	}
	return v.choices[index], true
}

// Tables are small and UI driven, a linear scan is fine.
func (v *MultichoiceValue) findKey(key string) int {
	for idx, choice := range v.choices {
		if choice.Key == key {
			return idx
		}
	}
	return NoIndex
}

func (v *MultichoiceValue) IsChanged() bool { return !slices.Equal(v.value, v.defaultValue) }
func (v *MultichoiceValue) Reset()          { v.value = slices.Clone(v.defaultValue) }
func (v *MultichoiceValue) Kind() Kind      { return KindMultichoice }
func (v *MultichoiceValue) sealed()         {}
