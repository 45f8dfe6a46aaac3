package book

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// YAMLStore persists slots to a YAML document shaped as
// section: {name: value}. Every mutation rewrites the file through a
// temporary file and a rename.
type YAMLStore struct {
	mu     sync.Mutex
	path   string
	data   map[string]map[string]string
	closed bool
}

// OpenYAMLStore loads path, creating an empty store when the file does not
// exist yet.
func OpenYAMLStore(path string) (*YAMLStore, error) {
	if path == "" {
		return nil, errors.New("book: yaml store requires a path")
	}
	s := &YAMLStore{path: path, data: make(map[string]map[string]string)}
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("book: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("book: decode %s: %w", path, err)
	}
	if s.data == nil {
		s.data = make(map[string]map[string]string)
	}
	return s, nil
}

// Path returns the backing file.
func (s *YAMLStore) Path() string { return s.path }

func (s *YAMLStore) Load(ctx context.Context, key Key) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", false, ErrClosed
	}
	value, ok := s.data[key.Section][key.Name]
	return value, ok, nil
}

func (s *YAMLStore) Save(ctx context.Context, key Key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	section, ok := s.data[key.Section]
	if !ok {
		section = make(map[string]string)
		s.data[key.Section] = section
	}
	previous, existed := section[key.Name]
	section[key.Name] = value
	if err := s.flush(); err != nil {
		if existed {
			section[key.Name] = previous
		} else {
			delete(section, key.Name)
		}
		return err
	}
	return nil
}

func (s *YAMLStore) Delete(ctx context.Context, key Key) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	section, ok := s.data[key.Section]
	if !ok {
		return nil
	}
	previous, existed := section[key.Name]
	if !existed {
		return nil
	}
	delete(section, key.Name)
	if len(section) == 0 {
		delete(s.data, key.Section)
	}
	if err := s.flush(); err != nil {
		if _, ok := s.data[key.Section]; !ok {
			s.data[key.Section] = section
		}
		section[key.Name] = previous
		return err
	}
	return nil
}

func (s *YAMLStore) Keys(ctx context.Context) ([]Key, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	var keys []Key
	for section, names := range s.data {
		for name := range names {
			keys = append(keys, Key{Section: section, Name: name})
		}
	}
	sortKeys(keys)
	return keys, nil
}

// Batch applies fn to a copy of the document and rewrites the file once.
// The in-memory document only changes when fn and the write both succeed.
func (s *YAMLStore) Batch(ctx context.Context, fn func(w Writer) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	staged := make(slotWriter)
	for section, names := range s.data {
		for name, value := range names {
			staged[Key{Section: section, Name: name}] = value
		}
	}
	if err := fn(staged); err != nil {
		return err
	}
	previous := s.data
	s.data = make(map[string]map[string]string)
	for key, value := range staged {
		section, ok := s.data[key.Section]
		if !ok {
			section = make(map[string]string)
			s.data[key.Section] = section
		}
		section[key.Name] = value
	}
	if err := s.flush(); err != nil {
		s.data = previous
		return err
	}
	return nil
}

func (s *YAMLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *YAMLStore) flush() error {
	raw, err := yaml.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("book: encode %s: %w", s.path, err)
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".bookopts-*.yaml")
	if err != nil {
		return fmt.Errorf("book: write %s: %w", s.path, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("book: write %s: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("book: write %s: %w", s.path, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("book: write %s: %w", s.path, err)
	}
	return nil
}
