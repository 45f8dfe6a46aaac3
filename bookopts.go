// Package bookopts re-exports the pieces most callers need to load option
// definitions against a book, read and write option values, and persist them.
package bookopts

import (
	"context"
	"fmt"

	"github.com/goliatone/go-bookopts/pkg/book"
	"github.com/goliatone/go-bookopts/pkg/codec"
	"github.com/goliatone/go-bookopts/pkg/entity"
	"github.com/goliatone/go-bookopts/pkg/optiondb"
	"github.com/goliatone/go-bookopts/pkg/session"
)

// Session aliases session.Session so callers can hold one without importing
// the subpackage.
type Session = session.Session

// SessionOption configures Open.
type SessionOption = session.Option

// Profile selects the text grammar used by the codec.
type Profile = codec.Profile

const (
	ProfileStream = codec.ProfileStream
	ProfileScheme = codec.ProfileScheme
)

// Open opens the store named by driver and path, builds the options declared
// under defsPath and restores their stored values. Extra options are applied
// last.
func Open(ctx context.Context, driver book.Driver, path, defsPath string, opts ...SessionOption) (*Session, error) {
	store, err := book.Open(ctx, driver, path)
	if err != nil {
		return nil, fmt.Errorf("bookopts: %w", err)
	}
	all := append([]SessionOption{session.WithStore(store), session.WithDefinitionsPath(defsPath)}, opts...)
	s, err := session.Open(ctx, all...)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("bookopts: %w", err)
	}
	return s, nil
}

// NewCodec returns a codec that resolves entity references against b.
func NewCodec(b *entity.Book) *codec.Codec {
	return codec.New(codec.NewBookResolver(b))
}

// NewOptionDB returns an empty option database whose book round-trips use a
// codec bound to b.
func NewOptionDB(b *entity.Book, opts ...optiondb.Option) *optiondb.DB {
	return optiondb.New(append([]optiondb.Option{optiondb.WithCodec(NewCodec(b))}, opts...)...)
}
