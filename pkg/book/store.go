// Package book persists encoded option values keyed by section and name.
// Stores only move text around; encoding belongs to pkg/codec and ownership
// of the options to pkg/optiondb.
package book

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrClosed is returned by stores used after Close.
var ErrClosed = errors.New("book: store closed")

// Key addresses one option slot.
type Key struct {
	Section string
	Name    string
}

func (k Key) String() string { return k.Section + "/" + k.Name }

// Writer is the mutating half of a Store.
type Writer interface {
	Save(ctx context.Context, key Key, value string) error
	// Delete removes the slot; deleting a missing slot is not an error.
	Delete(ctx context.Context, key Key) error
}

// Store is the persisted key-value surface options are saved to.
type Store interface {
	Writer
	// Load returns the stored text and whether the slot exists.
	Load(ctx context.Context, key Key) (string, bool, error)
	// Keys lists every stored slot ordered by section then name.
	Keys(ctx context.Context) ([]Key, error)
	Close() error
}

// Batcher is implemented by stores that can apply several writes as one
// unit. When fn returns an error none of its writes are kept.
type Batcher interface {
	Batch(ctx context.Context, fn func(w Writer) error) error
}

// Driver names a Store implementation.
type Driver string

const (
	DriverMemory Driver = "memory"
	DriverYAML   Driver = "yaml"
	DriverSQLite Driver = "sqlite"
)

// Open builds the store for driver. path is ignored by the memory driver.
func Open(ctx context.Context, driver Driver, path string) (Store, error) {
	switch Driver(strings.ToLower(string(driver))) {
	case DriverMemory, "":
		return NewMemoryStore(), nil
	case DriverYAML:
		return OpenYAMLStore(path)
	case DriverSQLite:
		return OpenSQLiteStore(ctx, path)
	default:
		return nil, fmt.Errorf("book: unknown driver %q", driver)
	}
}

func validateKey(key Key) error {
	if strings.TrimSpace(key.Section) == "" || strings.TrimSpace(key.Name) == "" {
		return fmt.Errorf("book: key %q requires section and name", key)
	}
	return nil
}

func sortKeys(keys []Key) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Section != keys[j].Section {
			return keys[i].Section < keys[j].Section
		}
		return keys[i].Name < keys[j].Name
	})
}
