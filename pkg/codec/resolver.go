package codec

import (
	"errors"

	"github.com/goliatone/go-bookopts/pkg/entity"
	"github.com/goliatone/go-bookopts/pkg/option"
)

// Resolver converts entity handles to and from their stored strings. The UI
// type tells FromString which family of entity the text names.
type Resolver interface {
	FromString(text string, ui option.UIType) (entity.Entity, error)
	ToString(e entity.Entity) string
}

// BookResolver resolves strings against an entity.Book.
type BookResolver struct {
	Book *entity.Book
}

// NewBookResolver wraps book.
func NewBookResolver(book *entity.Book) BookResolver {
	return BookResolver{Book: book}
}

func (r BookResolver) FromString(text string, ui option.UIType) (entity.Entity, error) {
	if r.Book == nil {
		return nil, errors.New("codec: book resolver has no book")
	}
	return r.Book.FromString(text, EntityKindFor(ui))
}

func (r BookResolver) ToString(e entity.Entity) string {
	if r.Book == nil {
		return ""
	}
	return r.Book.ToString(e)
}

// EntityKindFor maps a UI type to the entity family it selects. Owner and
// untyped options accept any family and map to "".
func EntityKindFor(ui option.UIType) entity.Kind {
	switch ui {
	case option.UITypeCurrency, option.UITypeCommodity:
		return entity.KindCommodity
	case option.UITypeAccountList, option.UITypeAccountSel:
		return entity.KindAccount
	case option.UITypeBudget:
		return entity.KindBudget
	case option.UITypeCustomer:
		return entity.KindCustomer
	case option.UITypeVendor:
		return entity.KindVendor
	case option.UITypeEmployee:
		return entity.KindEmployee
	case option.UITypeInvoice:
		return entity.KindInvoice
	case option.UITypeTaxTable:
		return entity.KindTaxTable
	default:
		return ""
	}
}
