package book

import (
	"context"
	"maps"
	"sync"
)

// MemoryStore keeps slots in a map. It is safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	slots  map[Key]string
	closed bool
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[Key]string)}
}

func (s *MemoryStore) Load(ctx context.Context, key Key) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", false, ErrClosed
	}
	value, ok := s.slots[key]
	return value, ok, nil
}

func (s *MemoryStore) Save(ctx context.Context, key Key, value string) error {
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
	s.slots[key] = value
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key Key) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	delete(s.slots, key)
	return nil
}

func (s *MemoryStore) Keys(ctx context.Context) ([]Key, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	keys := make([]Key, 0, len(s.slots))
	for key := range s.slots {
		keys = append(keys, key)
	}
	sortKeys(keys)
	return keys, nil
}

// Batch applies fn to a copy of the slots and swaps it in when fn succeeds.
func (s *MemoryStore) Batch(ctx context.Context, fn func(w Writer) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	staged := maps.Clone(s.slots)
	if err := fn(slotWriter(staged)); err != nil {
		return err
	}
	s.slots = staged
	return nil
}

// slotWriter writes into a staged map while the store lock is held.
type slotWriter map[Key]string

func (w slotWriter) Save(ctx context.Context, key Key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateKey(key); err != nil {
		return err
	}
	w[key] = value
	return nil
}

func (w slotWriter) Delete(ctx context.Context, key Key) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	delete(w, key)
	return nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
