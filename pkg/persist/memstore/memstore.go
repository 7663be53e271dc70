package memstore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrymomot/persistfsm/pkg/persist"
)

// Entry is one stored entity.
type Entry[ID, S comparable] struct {
	ID    ID
	State S
}

func (e Entry[ID, S]) String() string {
	return fmt.Sprintf("Entry [id=%v, state=%v]", e.ID, e.State)
}

// Store keeps entities in insertion order. It implements
// persist.ConditionalStore and is safe for concurrent use.
type Store[ID, S comparable] struct {
	mu      sync.RWMutex
	entries []Entry[ID, S]
	index   map[ID]int
}

// New returns a store seeded with entries. Later duplicates overwrite earlier ones.
func New[ID, S comparable](seed ...Entry[ID, S]) *Store[ID, S] {
	s := &Store[ID, S]{index: make(map[ID]int, len(seed))}
	for _, e := range seed {
		s.put(e.ID, e.State)
	}
	return s
}

// Load returns the state of id, or persist.ErrNotFound.
func (s *Store[ID, S]) Load(ctx context.Context, id ID) (S, error) {
	if err := ctx.Err(); err != nil {
		var zero S
		return zero, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		var zero S
		return zero, persist.ErrNotFound
	}
	return s.entries[i].State, nil
}

// Save overwrites the state of id, appending it when absent.
func (s *Store[ID, S]) Save(ctx context.Context, id ID, state S) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(id, state)
	return nil
}

// SaveIf sets id to next only while it is still in expected.
// Missing entities are persist.ErrNotFound, never created.
func (s *Store[ID, S]) SaveIf(ctx context.Context, id ID, expected, next S) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return persist.ErrNotFound
	}
	if s.entries[i].State != expected {
		return errors.Join(persist.ErrStateConflict,
			fmt.Errorf("entity %v is %v, expected %v", id, s.entries[i].State, expected))
	}
	s.entries[i].State = next
	return nil
}

// Put is Save without a context, for seeding.
func (s *Store[ID, S]) Put(id ID, state S) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(id, state)
}

// Delete removes id and reports whether it existed.
func (s *Store[ID, S]) Delete(id ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.entries = slices.Delete(s.entries, i, i+1)
	delete(s.index, id)
	for j := i; j < len(s.entries); j++ {
		s.index[s.entries[j].ID] = j
	}
	return true
}

// List returns a copy of all entries in insertion order.
func (s *Store[ID, S]) List() []Entry[ID, S] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.entries)
}

func (s *Store[ID, S]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// String renders every entry on one line each, e.g. "Entry [id=1, state=PLACED]".
func (s *Store[ID, S]) String() string {
	entries := s.List()
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.String()
	}
	return strings.Join(lines, "\n")
}

func (s *Store[ID, S]) put(id ID, state S) {
	if i, ok := s.index[id]; ok {
		s.entries[i].State = state
		return
	}
	s.index[id] = len(s.entries)
	s.entries = append(s.entries, Entry[ID, S]{ID: id, State: state})
}
