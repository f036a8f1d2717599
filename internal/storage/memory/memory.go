// Package memory is an in-process storage.Storage, used by tests and by
// the "memory" storage driver for local runs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aanand-mishra/people-api/internal/storage"
	"github.com/aanand-mishra/people-api/internal/types"
)

// Store keeps people in a map guarded by a RWMutex. Ids start at 1.
type Store struct {
	mu     sync.RWMutex
	lastID int64
	byID   map[int64]types.Person
}

var _ storage.Storage = (*Store)(nil)

// New returns an empty Store.
func New() *Store {
	return &Store{byID: make(map[int64]types.Person)}
}

// CreatePerson stores a new person under the next id.
func (s *Store) CreatePerson(_ context.Context, name, email string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// ids are never reused, like AUTOINCREMENT
	s.lastID++
	s.byID[s.lastID] = types.Person{ID: s.lastID, Name: name, Email: email}
	return s.lastID, nil
}

// GetPersonByID returns the person with id or storage.ErrNotFound.
func (s *Store) GetPersonByID(_ context.Context, id int64) (types.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byID[id]
	if !ok {
		return types.Person{}, notFound(id)
	}
	return p, nil
}

// GetPeople returns every person ordered by id.
func (s *Store) GetPeople(_ context.Context) ([]types.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	people := make([]types.Person, 0, len(s.byID))
	for _, p := range s.byID {
		people = append(people, p)
	}
	sort.Slice(people, func(i, j int) bool { return people[i].ID < people[j].ID })
	return people, nil
}

// UpdatePersonByID replaces name and email of an existing person.
func (s *Store) UpdatePersonByID(_ context.Context, id int64, name, email string) (types.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return types.Person{}, notFound(id)
	}
	p := types.Person{ID: id, Name: name, Email: email}
	s.byID[id] = p
	return p, nil
}

// DeletePersonByID removes the person with id.
func (s *Store) DeletePersonByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return notFound(id)
	}
	delete(s.byID, id)
	return nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

func notFound(id int64) error {
	return fmt.Errorf("no person found with id %d: %w", id, storage.ErrNotFound)
}
