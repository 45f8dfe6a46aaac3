// Package optiondb owns a collection of options addressed by section and
// name, and moves their values between the collection and a book store.
package optiondb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-bookopts/pkg/book"
	"github.com/goliatone/go-bookopts/pkg/codec"
	"github.com/goliatone/go-bookopts/pkg/option"
)

var (
	// ErrDuplicateOption is returned when registering a section/name pair twice.
	ErrDuplicateOption = errors.New("optiondb: duplicate option")
	// ErrOptionNotFound is returned by lookups for unknown section/name pairs.
	ErrOptionNotFound = errors.New("optiondb: option not found")
)

// Option customises a DB.
type Option func(*DB)

// WithLogger sets the logger. Nil keeps the no-op default.
func WithLogger(logger *zap.Logger) Option {
	return func(db *DB) {
		if logger != nil {
			db.logger = logger
		}
	}
}

// WithCodec sets the codec used for book persistence.
func WithCodec(c *codec.Codec) Option {
	return func(db *DB) {
		if c != nil {
			db.codec = c
		}
	}
}

// DB holds options keyed by section and name.
type DB struct {
	mu      sync.RWMutex
	options map[book.Key]*option.Option
	codec   *codec.Codec
	logger  *zap.Logger
}

// New creates an empty collection. Without WithCodec entity values cannot be
// persisted.
func New(opts ...Option) *DB {
	db := &DB{
		options: make(map[book.Key]*option.Option),
		codec:   codec.New(nil),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(db)
		}
	}
	return db
}

// Codec returns the codec used for persistence.
func (db *DB) Codec() *codec.Codec { return db.codec }

// Register adds o. Empty names and duplicate section/name pairs fail.
func (db *DB) Register(o *option.Option) error {
	if o == nil {
		return errors.New("optiondb: option is required")
	}
	if strings.TrimSpace(o.Name()) == "" {
		return fmt.Errorf("optiondb: option in section %q has no name", o.Section())
	}
	key := keyOf(o)

	db.mu.Lock()
	defer db.mu.Unlock()
	if _, exists := db.options[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateOption, key)
	}
	db.options[key] = o
	db.logger.Debug("option registered",
		zap.String("section", key.Section),
		zap.String("name", key.Name),
		zap.String("kind", string(o.Kind())),
	)
	return nil
}

// MustRegister is Register for static option tables.
func (db *DB) MustRegister(opts ...*option.Option) {
	for _, o := range opts {
		if err := db.Register(o); err != nil {
			panic(err)
		}
	}
}

// Lookup returns the option registered under section and name.
func (db *DB) Lookup(section, name string) (*option.Option, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	o, ok := db.options[book.Key{Section: section, Name: name}]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrOptionNotFound, section, name)
	}
	return o, nil
}

// Len returns the number of registered options.
func (db *DB) Len() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.options)
}

// Sections returns the section names in lexical order.
func (db *DB) Sections() []string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	seen := make(map[string]struct{})
	var sections []string
	for key := range db.options {
		if _, ok := seen[key.Section]; ok {
			continue
		}
		seen[key.Section] = struct{}{}
		sections = append(sections, key.Section)
	}
	sort.Strings(sections)
	return sections
}

// Options returns the options of section ordered by sort tag, then name.
func (db *DB) Options(section string) []*option.Option {
	db.mu.RLock()
	defer db.mu.RUnlock()
	var out []*option.Option
	for key, o := range db.options {
		if key.Section == section {
			out = append(out, o)
		}
	}
	sortOptions(out)
	return out
}

// All returns every option ordered by section, sort tag and name.
func (db *DB) All() []*option.Option {
	db.mu.RLock()
	defer db.mu.RUnlock()
	out := make([]*option.Option, 0, len(db.options))
	for _, o := range db.options {
		out = append(out, o)
	}
	sortOptions(out)
	return out
}

// Each calls fn for every option in All order and stops at the first error.
func (db *DB) Each(fn func(*option.Option) error) error {
	for _, o := range db.All() {
		if err := fn(o); err != nil {
			return err
		}
	}
	return nil
}

// Changed returns the options that hold anything other than their default
// state, as reported by option.Option.Differs. These are the options
// SaveToBook stores.
func (db *DB) Changed() []*option.Option {
	var out []*option.Option
	for _, o := range db.All() {
		if o.Differs() {
			out = append(out, o)
		}
	}
	return out
}

// ResetDefaults restores every option's default value.
func (db *DB) ResetDefaults() {
	for _, o := range db.All() {
		o.Reset()
	}
}

// SaveToBook writes the scheme encoding of every option that differs from
// its default and removes the slots of options back at their defaults.
// Stores implementing book.Batcher apply the whole save as one unit; on
// other stores a failure part way leaves the earlier writes in place.
func (db *DB) SaveToBook(ctx context.Context, store book.Store) error {
	if store == nil {
		return errors.New("optiondb: store is required")
	}
	var saved, cleared int
	write := func(w book.Writer) error {
		saved, cleared = 0, 0
		for _, o := range db.All() {
			if err := ctx.Err(); err != nil {
				return err
			}
			key := keyOf(o)
			if !o.Differs() {
				if err := w.Delete(ctx, key); err != nil {
					return fmt.Errorf("optiondb: clear %s: %w", key, err)
				}
				cleared++
				continue
			}
			text, err := db.codec.Encode(o, codec.ProfileScheme)
			if err != nil {
				return fmt.Errorf("optiondb: encode %s: %w", key, err)
			}
			if err := w.Save(ctx, key, text); err != nil {
				return fmt.Errorf("optiondb: save %s: %w", key, err)
			}
			saved++
		}
		return nil
	}

	var err error
	if batcher, ok := store.(book.Batcher); ok {
		err = batcher.Batch(ctx, write)
	} else {
		err = write(store)
	}
	if err != nil {
		return err
	}
	db.logger.Info("options saved to book", zap.Int("saved", saved), zap.Int("cleared", cleared))
	return nil
}

// LoadFromBook decodes every stored slot that names a registered option.
// Failing slots are collected and reported together; the remaining options
// still load. Slots without a registered option are ignored.
func (db *DB) LoadFromBook(ctx context.Context, store book.Store) error {
	if store == nil {
		return errors.New("optiondb: store is required")
	}
	keys, err := store.Keys(ctx)
	if err != nil {
		return fmt.Errorf("optiondb: list book slots: %w", err)
	}

	var (
		errs   []error
		loaded int
	)
	for _, key := range keys {
		o, err := db.Lookup(key.Section, key.Name)
		if err != nil {
			db.logger.Debug("ignoring book slot without option", zap.String("key", key.String()))
			continue
		}
		text, ok, err := store.Load(ctx, key)
		if err != nil {
			return fmt.Errorf("optiondb: load %s: %w", key, err)
		}
		if !ok {
			continue
		}
		if err := db.codec.Decode(o, text, codec.ProfileScheme); err != nil {
			db.logger.Warn("book slot rejected", zap.String("key", key.String()), zap.Error(err))
			errs = append(errs, fmt.Errorf("optiondb: load %s: %w", key, err))
			continue
		}
		loaded++
	}
	db.logger.Info("options loaded from book", zap.Int("loaded", loaded), zap.Int("failed", len(errs)))
	return errors.Join(errs...)
}

func keyOf(o *option.Option) book.Key {
	return book.Key{Section: o.Section(), Name: o.Name()}
}

func sortOptions(opts []*option.Option) {
	sort.SliceStable(opts, func(i, j int) bool {
		a, b := opts[i], opts[j]
		if a.Section() != b.Section() {
			return a.Section() < b.Section()
		}
		if a.SortTag() != b.SortTag() {
			return a.SortTag() < b.SortTag()
		}
		return a.Name() < b.Name()
	})
}
