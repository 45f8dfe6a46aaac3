package codec

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-bookopts/pkg/option"
)

var (
	// ErrUnknownProfile is returned for a Profile outside the named profiles.
	ErrUnknownProfile = errors.New("codec: unknown profile")
	// ErrNoResolver is returned when an entity value is encoded or decoded
	// by a codec built without a Resolver.
	ErrNoResolver = errors.New("codec: no entity resolver configured")
	// ErrUnsupported is returned for a value variant the codec cannot handle.
	ErrUnsupported = errors.New("codec: unsupported option kind")
)

// ParseError reports malformed text for an option. It matches
// option.ErrParse with errors.Is.
type ParseError struct {
	Section string
	Name    string
	// Pos is the byte offset of the offending token in the decoded text.
	Pos     int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("codec: %s/%s: offset %d: %s", e.Section, e.Name, e.Pos, e.Message)
}

func (e *ParseError) Unwrap() error { return option.ErrParse }

func newParseErrorf(o *option.Option, pos int, format string, args ...any) *ParseError {
	return &ParseError{
		Section: o.Section(),
		Name:    o.Name(),
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	}
}

// invalidValue wraps option.ErrInvalidValue for well-formed text naming
// something the option cannot hold.
func invalidValue(o *option.Option, format string, args ...any) error {
	return fmt.Errorf("%w: %s/%s: %s", option.ErrInvalidValue, o.Section(), o.Name(), fmt.Sprintf(format, args...))
}
