// Package entity defines the opaque book instances that options can refer to:
// accounts, commodities and a handful of business objects. Options only hold
// handles; ownership and persistence of the instances belong to the host book.
package entity

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Kind identifies the family an entity belongs to.
type Kind string

const (
	KindAccount   Kind = "account"
	KindCommodity Kind = "commodity"
	KindBudget    Kind = "budget"
	KindCustomer  Kind = "customer"
	KindVendor    Kind = "vendor"
	KindEmployee  Kind = "employee"
	KindInvoice   Kind = "invoice"
	KindTaxTable  Kind = "tax-table"
)

// Entity is a handle to an instance owned by the book.
type Entity interface {
	GUID() uuid.UUID
	EntityKind() Kind
}

// GUIDString renders a GUID in the compact 32 hex digit form used by book
// storage.
func GUIDString(id uuid.UUID) string {
	return hex.EncodeToString(id[:])
}

// ParseGUID accepts both the compact and the dashed GUID spellings.
func ParseGUID(text string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(text))
	if err != nil {
		return uuid.Nil, fmt.Errorf("entity: parse guid %q: %w", text, err)
	}
	return id, nil
}

// Instance is a generic named entity used for budgets, owners, invoices and
// tax tables.
type Instance struct {
	id   uuid.UUID
	kind Kind
	Name string
}

// NewInstance creates an instance with a fresh GUID.
func NewInstance(kind Kind, name string) *Instance {
	return &Instance{id: uuid.New(), kind: kind, Name: name}
}

// NewInstanceWithGUID creates an instance with a known GUID.
func NewInstanceWithGUID(id uuid.UUID, kind Kind, name string) *Instance {
	return &Instance{id: id, kind: kind, Name: name}
}

func (i *Instance) GUID() uuid.UUID  { return i.id }
func (i *Instance) EntityKind() Kind { return i.kind }
func (i *Instance) String() string   { return i.Name }
