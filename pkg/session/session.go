// Package session wires a book, its option definitions, the codec and a
// persisted store into a single unit the CLI and the dialog work against.
package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"go.uber.org/zap"

	"github.com/goliatone/go-bookopts/pkg/book"
	"github.com/goliatone/go-bookopts/pkg/codec"
	"github.com/goliatone/go-bookopts/pkg/definition"
	"github.com/goliatone/go-bookopts/pkg/entity"
	"github.com/goliatone/go-bookopts/pkg/option"
	"github.com/goliatone/go-bookopts/pkg/optiondb"
)

// Option configures a session before it is opened.
type Option func(*Session)

// WithLogger sets the logger shared with the option database.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStore sets the store values are loaded from and saved to. Without it
// an in-memory store is used.
func WithStore(store book.Store) Option {
	return func(s *Session) {
		if store != nil {
			s.store = store
		}
	}
}

// WithBook supplies a pre-populated book. Definition entities are added to
// it.
func WithBook(b *entity.Book) Option {
	return func(s *Session) {
		if b != nil {
			s.book = b
		}
	}
}

// WithDefinitionsPath loads definitions from a file or directory.
func WithDefinitionsPath(path string) Option {
	return func(s *Session) {
		s.defsPath = path
	}
}

// WithDefinitionsFS loads definitions from every YAML file in fsys.
func WithDefinitionsFS(fsys fs.FS) Option {
	return func(s *Session) {
		s.defsFS = fsys
	}
}

// WithDocuments registers already parsed definition documents.
func WithDocuments(docs ...*definition.Document) Option {
	return func(s *Session) {
		s.docs = append(s.docs, docs...)
	}
}

// Session owns the option database built from definitions and the store it
// persists to.
type Session struct {
	book     *entity.Book
	db       *optiondb.DB
	codec    *codec.Codec
	store    book.Store
	logger   *zap.Logger
	defsPath string
	defsFS   fs.FS
	docs     []*definition.Document
}

// Open builds the option database from the configured definitions and loads
// stored values. Definition problems abort; stored values that no longer
// decode are logged and skipped so one bad slot does not lock the book.
func Open(ctx context.Context, opts ...Option) (*Session, error) {
	s := &Session{
		book:   entity.NewBook(),
		store:  book.NewMemoryStore(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.codec = codec.New(codec.NewBookResolver(s.book))
	s.db = optiondb.New(optiondb.WithCodec(s.codec), optiondb.WithLogger(s.logger))

	docs := append([]*definition.Document(nil), s.docs...)
	if s.defsPath != "" {
		loaded, err := definition.LoadPath(s.defsPath)
		if err != nil {
			return nil, err
		}
		docs = append(docs, loaded...)
	}
	if s.defsFS != nil {
		loaded, err := definition.LoadFS(s.defsFS)
		if err != nil {
			return nil, err
		}
		docs = append(docs, loaded...)
	}
	if err := definition.Apply(s.db, s.book, docs...); err != nil {
		return nil, err
	}

	if err := s.db.LoadFromBook(ctx, s.store); err != nil {
		s.logger.Warn("some stored values were not restored", zap.Error(err))
	}
	s.logger.Debug("session opened",
		zap.Int("documents", len(docs)),
		zap.Int("options", s.db.Len()),
	)
	return s, nil
}

func (s *Session) Book() *entity.Book    { return s.book }
func (s *Session) Options() *optiondb.DB { return s.db }
func (s *Session) Codec() *codec.Codec   { return s.codec }
func (s *Session) Store() book.Store     { return s.store }
func (s *Session) Logger() *zap.Logger   { return s.logger }

// Get encodes the current value of one option.
func (s *Session) Get(section, name string, profile codec.Profile) (string, error) {
	o, err := s.db.Lookup(section, name)
	if err != nil {
		return "", err
	}
	return s.codec.Encode(o, profile)
}

// Set decodes text into one option and saves the book. A rejected value
// leaves both the option and the store untouched.
func (s *Session) Set(ctx context.Context, section, name, text string, profile codec.Profile) error {
	o, err := s.db.Lookup(section, name)
	if err != nil {
		return err
	}
	if err := s.codec.Decode(o, text, profile); err != nil {
		return err
	}
	return s.Save(ctx)
}

// Reset restores one option to its default and saves the book.
func (s *Session) Reset(ctx context.Context, section, name string) error {
	o, err := s.db.Lookup(section, name)
	if err != nil {
		return err
	}
	o.Reset()
	return s.Save(ctx)
}

// ResetAll restores every option and saves the book.
func (s *Session) ResetAll(ctx context.Context) error {
	s.db.ResetDefaults()
	return s.Save(ctx)
}

// Save writes every option that differs from its default to the store.
func (s *Session) Save(ctx context.Context) error {
	return s.db.SaveToBook(ctx, s.store)
}

// RestoreForms returns the restore expression of every option that differs
// from its default, or of every visible option when all is set.
func (s *Session) RestoreForms(all bool) ([]string, error) {
	var (
		forms []string
		errs  []error
	)
	for _, o := range s.db.All() {
		if !all && !o.Differs() {
			continue
		}
		if all && o.UIType() == option.UITypeInternal {
			continue
		}
		form, err := s.codec.RestoreForm(o)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s/%s: %w", o.Section(), o.Name(), err))
			continue
		}
		forms = append(forms, form)
	}
	return forms, errors.Join(errs...)
}

// Close releases the store.
func (s *Session) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}
