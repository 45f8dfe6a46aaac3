package entity

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// AccountType is the subtype used by account option allow-lists.
type AccountType string

const (
	AccountTypeBank       AccountType = "bank"
	AccountTypeCash       AccountType = "cash"
	AccountTypeAsset      AccountType = "asset"
	AccountTypeCredit     AccountType = "credit"
	AccountTypeLiability  AccountType = "liability"
	AccountTypeStock      AccountType = "stock"
	AccountTypeMutual     AccountType = "mutual"
	AccountTypeCurrency   AccountType = "currency"
	AccountTypeIncome     AccountType = "income"
	AccountTypeExpense    AccountType = "expense"
	AccountTypeEquity     AccountType = "equity"
	AccountTypeReceivable AccountType = "receivable"
	AccountTypePayable    AccountType = "payable"
	AccountTypeRoot       AccountType = "root"
	AccountTypeTrading    AccountType = "trading"
)

var accountTypes = []AccountType{
	AccountTypeBank, AccountTypeCash, AccountTypeAsset, AccountTypeCredit,
	AccountTypeLiability, AccountTypeStock, AccountTypeMutual, AccountTypeCurrency,
	AccountTypeIncome, AccountTypeExpense, AccountTypeEquity, AccountTypeReceivable,
	AccountTypePayable, AccountTypeRoot, AccountTypeTrading,
}

// ParseAccountType resolves the lower-case spelling of an account type.
func ParseAccountType(raw string) (AccountType, error) {
	candidate := AccountType(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range accountTypes {
		if known == candidate {
			return known, nil
		}
	}
	return "", fmt.Errorf("entity: unknown account type %q", raw)
}

// Account is a handle to a ledger account.
type Account struct {
	id   uuid.UUID
	Name string
	Type AccountType
}

// NewAccount creates an account with a fresh GUID.
func NewAccount(name string, typ AccountType) *Account {
	return &Account{id: uuid.New(), Name: name, Type: typ}
}

// NewAccountWithGUID creates an account with a known GUID.
func NewAccountWithGUID(id uuid.UUID, name string, typ AccountType) *Account {
	return &Account{id: id, Name: name, Type: typ}
}

func (a *Account) GUID() uuid.UUID  { return a.id }
func (a *Account) EntityKind() Kind { return KindAccount }
func (a *Account) String() string   { return a.Name }
