package entity

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a string does not resolve to a known entity.
	ErrNotFound = errors.New("entity: not found")
	// ErrDuplicate is returned when adding an entity whose GUID is already known.
	ErrDuplicate = errors.New("entity: duplicate guid")
)

// Book is an in-memory registry of entities. It implements the string
// conversion pair used by option serialization.
type Book struct {
	mu          sync.RWMutex
	byGUID      map[uuid.UUID]Entity
	commodities map[string]*Commodity
	order       []uuid.UUID
}

// NewBook returns an empty book.
func NewBook() *Book {
	return &Book{
		byGUID:      make(map[uuid.UUID]Entity),
		commodities: make(map[string]*Commodity),
	}
}

// Add registers an entity. Commodities are additionally indexed by
// namespace and mnemonic.
func (b *Book) Add(e Entity) error {
	if e == nil {
		return errors.New("entity: nil entity")
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	id := e.GUID()
	if _, exists := b.byGUID[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, GUIDString(id))
	}
	if c, ok := e.(*Commodity); ok {
		key := commodityKey(c.Namespace, c.Mnemonic)
		if _, exists := b.commodities[key]; exists {
			return fmt.Errorf("%w: commodity %s", ErrDuplicate, c)
		}
		b.commodities[key] = c
	}
	b.byGUID[id] = e
	b.order = append(b.order, id)
	return nil
}

// Lookup returns the entity with the given GUID.
func (b *Book) Lookup(id uuid.UUID) (Entity, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	e, ok := b.byGUID[id]
	return e, ok
}

// LookupCommodity finds a commodity by namespace and mnemonic.
func (b *Book) LookupCommodity(namespace, mnemonic string) (*Commodity, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	c, ok := b.commodities[commodityKey(namespace, mnemonic)]
	return c, ok
}

// Accounts returns the registered accounts ordered by name.
func (b *Book) Accounts() []*Account {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []*Account
	for _, id := range b.order {
		if acct, ok := b.byGUID[id].(*Account); ok {
			out = append(out, acct)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Commodities returns the registered commodities in registration order. When
// currencyOnly is set only the currency namespace is returned.
func (b *Book) Commodities(currencyOnly bool) []*Commodity {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []*Commodity
	for _, id := range b.order {
		c, ok := b.byGUID[id].(*Commodity)
		if !ok {
			continue
		}
		if currencyOnly && !c.IsCurrency() {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Instances returns the registered entities of a kind in registration order.
func (b *Book) Instances(kind Kind) []Entity {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []Entity
	for _, id := range b.order {
		if e := b.byGUID[id]; e.EntityKind() == kind {
			out = append(out, e)
		}
	}
	return out
}

// ToString renders an entity for storage: commodities as namespace:mnemonic,
// everything else as its compact GUID. A nil entity renders as "".
func (b *Book) ToString(e Entity) string {
	if e == nil {
		return ""
	}
	if c, ok := e.(*Commodity); ok {
		return c.String()
	}
	return GUIDString(e.GUID())
}

// FromString resolves text produced by ToString. When kind is non-empty the
// resolved entity must be of that kind.
func (b *Book) FromString(text string, kind Kind) (Entity, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty reference", ErrNotFound)
	}
	if kind == KindCommodity {
		namespace, mnemonic, ok := strings.Cut(trimmed, ":")
		if !ok {
			return nil, fmt.Errorf("%w: commodity %q lacks a namespace", ErrNotFound, trimmed)
		}
		c, found := b.LookupCommodity(namespace, mnemonic)
		if !found {
			return nil, fmt.Errorf("%w: commodity %q", ErrNotFound, trimmed)
		}
		return c, nil
	}

	id, err := ParseGUID(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	e, found := b.Lookup(id)
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, trimmed)
	}
	if kind != "" && e.EntityKind() != kind {
		return nil, fmt.Errorf("%w: %s is a %s, not a %s", ErrNotFound, trimmed, e.EntityKind(), kind)
	}
	return e, nil
}

func commodityKey(namespace, mnemonic string) string {
	return namespace + ":" + mnemonic
}
