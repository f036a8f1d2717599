// Package storage defines the Storage interface: the contract any
// database backend must satisfy to work with this application. Handlers
// depend only on this interface, so a backend can be swapped (or faked in
// tests) without touching them.
//
// The package also owns the persistence mapping for types.Person; see
// PersonTable in schema.go.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aanand-mishra/people-api/internal/types"
)

// ErrNotFound is returned when no person has the requested id.
var ErrNotFound = errors.New("person not found")

// Storage is the database contract.
type Storage interface {
	// CreatePerson inserts a new person and returns the id the database
	// assigned to it.
	CreatePerson(ctx context.Context, name, email string) (int64, error)

	// GetPersonByID fetches a single person by primary key.
	// Returns ErrNotFound if there is no such row.
	GetPersonByID(ctx context.Context, id int64) (types.Person, error)

	// GetPeople returns every person. The slice is empty, not nil, when
	// the table is empty.
	GetPeople(ctx context.Context) ([]types.Person, error)

	// UpdatePersonByID replaces name and email of an existing person and
	// returns the stored record. Returns ErrNotFound if there is no such row.
	UpdatePersonByID(ctx context.Context, id int64, name, email string) (types.Person, error)

	// DeletePersonByID removes a person permanently.
	// Returns ErrNotFound if there is no such row.
	DeletePersonByID(ctx context.Context, id int64) error

	Close() error
}

// RequireRow checks that an UPDATE or DELETE on id touched a row. A driver
// that cannot report the count is an error, not a miss.
func RequireRow(result sql.Result, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("no person found with id %d: %w", id, ErrNotFound)
	}
	return nil
}
