package option

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidValue signals a proposed value failed the kind's validation
	// rule. The option keeps its previous value.
	ErrInvalidValue = errors.New("option: invalid value")
	// ErrInvalidConstruction signals an option could not be created from the
	// supplied initial value or configuration.
	ErrInvalidConstruction = errors.New("option: invalid construction")
	// ErrParse signals that a textual encoding could not be decoded.
	ErrParse = errors.New("option: parse error")
	// ErrLogic signals structural misuse such as binding a UI item to an
	// internal option.
	ErrLogic = errors.New("option: logic error")
	// ErrWrongKind is returned by the typed accessors when the requested Go
	// type does not match the option's value kind.
	ErrWrongKind = errors.New("option: wrong value kind")
)

func (c Classifier) errorf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s/%s: %s", sentinel, c.section, c.name, fmt.Sprintf(format, args...))
}
