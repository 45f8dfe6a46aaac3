package entity

import (
	"github.com/google/uuid"
)

// NamespaceCurrency is the implicit namespace of ISO currencies.
const NamespaceCurrency = "CURRENCY"

// Commodity is a handle to a tradable commodity or a currency.
type Commodity struct {
	id        uuid.UUID
	Namespace string
	Mnemonic  string
	FullName  string
}

// NewCommodity creates a commodity with a fresh GUID.
func NewCommodity(namespace, mnemonic, fullName string) *Commodity {
	return &Commodity{id: uuid.New(), Namespace: namespace, Mnemonic: mnemonic, FullName: fullName}
}

// NewCommodityWithGUID creates a commodity with a known GUID.
func NewCommodityWithGUID(id uuid.UUID, namespace, mnemonic, fullName string) *Commodity {
	return &Commodity{id: id, Namespace: namespace, Mnemonic: mnemonic, FullName: fullName}
}

// NewCurrency creates a commodity in the currency namespace.
func NewCurrency(mnemonic, fullName string) *Commodity {
	return NewCommodity(NamespaceCurrency, mnemonic, fullName)
}

func (c *Commodity) GUID() uuid.UUID  { return c.id }
func (c *Commodity) EntityKind() Kind { return KindCommodity }

// IsCurrency reports whether the commodity lives in the currency namespace.
func (c *Commodity) IsCurrency() bool { return c.Namespace == NamespaceCurrency }

// String renders the "namespace:mnemonic" form used by the book.
func (c *Commodity) String() string { return c.Namespace + ":" + c.Mnemonic }
