package option

import (
	"slices"

	"github.com/goliatone/go-bookopts/pkg/entity"
)

// AccountValue holds an ordered list of accounts, optionally restricted to a
// set of account types.
type AccountValue struct {
	base
	value        []*entity.Account
	defaultValue []*entity.Account
	allowed      []entity.AccountType
	multiselect  bool
}

// NewAccountOption creates an account list (multiselect) or account
// selection option. An empty allowed list accepts every account type. The
// initial value must validate.
func NewAccountOption(c Classifier, ui UIType, value []*entity.Account, allowed []entity.AccountType, multiselect bool) (*Option, error) {
	fallback := UITypeAccountList
	if !multiselect {
		fallback = UITypeAccountSel
	}
	v := &AccountValue{
		base:        newBase(c, ui, fallback),
		allowed:     slices.Clone(allowed),
		multiselect: multiselect,
	}
	if !v.Validate(value) {
		return nil, c.errorf(ErrInvalidConstruction, "supplied value not in allowed set")
	}
	v.value = slices.Clone(value)
	v.defaultValue = slices.Clone(value)
	return &Option{value: v}, nil
}

func (v *AccountValue) Value() []*entity.Account        { return slices.Clone(v.value) }
func (v *AccountValue) DefaultValue() []*entity.Account { return slices.Clone(v.defaultValue) }

// AccountTypes returns the allow-list.
func (v *AccountValue) AccountTypes() []entity.AccountType { return slices.Clone(v.allowed) }

// IsMultiselect reports whether more than one account may be selected.
func (v *AccountValue) IsMultiselect() bool { return v.multiselect }

// Validate checks every account against the allow-list. Nil handles never
// validate and a single-select option accepts at most one account.
func (v *AccountValue) Validate(accounts []*entity.Account) bool {
	if !v.multiselect && len(accounts) > 1 {
		return false
	}
	for _, acct := range accounts {
		if acct == nil {
			return false
		}
		if len(v.allowed) > 0 && !slices.Contains(v.allowed, acct.Type) {
			return false
		}
	}
	return true
}

// SetValue replaces the whole list or nothing.
func (v *AccountValue) SetValue(accounts []*entity.Account) error {
	if !v.Validate(accounts) {
		return v.errorf(ErrInvalidValue, "account list rejected by the allowed account types")
	}
	v.value = slices.Clone(accounts)
	return nil
}

// IsChanged compares the lists element by element, order included.
func (v *AccountValue) IsChanged() bool { return !slices.Equal(v.value, v.defaultValue) }
func (v *AccountValue) Reset()          { v.value = slices.Clone(v.defaultValue) }
func (v *AccountValue) Kind() Kind      { return KindAccount }
func (v *AccountValue) sealed()         {}
