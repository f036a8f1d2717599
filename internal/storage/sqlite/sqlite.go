// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// SQLite stores everything in a single file on disk: no network, no
// separate server process, nothing to install beyond the driver.
//
// The blank import below registers the sqlite3 driver with database/sql.
// The driver's init() function does this automatically when the package
// is loaded; we never call anything from it directly.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aanand-mishra/people-api/internal/storage"
	"github.com/aanand-mishra/people-api/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

var (
	table   = storage.PersonTable
	dialect = storage.SQLite
)

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
// A single *sql.DB is safe for concurrent use by multiple goroutines.
type SQLite struct {
	Db *sql.DB
}

var _ storage.Storage = (*SQLite)(nil)

// New opens the SQLite database at path, creates the person table and
// its indexes if they do not already exist, and returns a ready-to-use
// *SQLite.
func New(path string) (*SQLite, error) {
	// sql.Open does NOT open a real connection yet; it only validates
	// the driver name and data source name.
	db, err := sql.Open(dialect.DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// Every statement is IF NOT EXISTS, so this is safe on each startup.
	for _, stmt := range table.CreateStatements(dialect) {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite.New: create schema: %w", err)
		}
	}

	return &SQLite{Db: db}, nil
}

// CreatePerson inserts a new row into the person table.
//
// Prepared statements send the query and the values separately, so the
// database treats the values as data and never as SQL syntax.
func (s *SQLite) CreatePerson(ctx context.Context, name, email string) (int64, error) {
	stmt, err := s.Db.PrepareContext(ctx, table.InsertSQL(dialect))
	if err != nil {
		return 0, fmt.Errorf("CreatePerson: prepare: %w", err)
	}
	defer stmt.Close()

	// Arguments fill the ? markers in order: name, email.
	result, err := stmt.ExecContext(ctx, name, email)
	if err != nil {
		return 0, fmt.Errorf("CreatePerson: exec: %w", err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("CreatePerson: last insert id: %w", err)
	}

	return lastID, nil
}

// GetPersonByID fetches exactly one row matched by primary key.
//
// QueryRow never returns nil for "no match"; sql.ErrNoRows surfaces when
// Scan is called.
func (s *SQLite) GetPersonByID(ctx context.Context, id int64) (types.Person, error) {
	stmt, err := s.Db.PrepareContext(ctx, table.SelectByIDSQL(dialect))
	if err != nil {
		return types.Person{}, fmt.Errorf("GetPersonByID: prepare: %w", err)
	}
	defer stmt.Close()

	var person types.Person

	// Scan order must match the SELECT column order: id, name, email.
	err = stmt.QueryRowContext(ctx, id).Scan(&person.ID, &person.Name, &person.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Person{}, fmt.Errorf("no person found with id %d: %w", id, storage.ErrNotFound)
		}
		return types.Person{}, fmt.Errorf("GetPersonByID: scan: %w", err)
	}

	return person, nil
}

// GetPeople returns all rows as a slice.
func (s *SQLite) GetPeople(ctx context.Context) ([]types.Person, error) {
	stmt, err := s.Db.PrepareContext(ctx, table.SelectSQL())
	if err != nil {
		return nil, fmt.Errorf("GetPeople: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("GetPeople: query: %w", err)
	}
	defer rows.Close() // releases the connection back to the pool

	// Non-nil so an empty table encodes as [] rather than null.
	people := make([]types.Person, 0)

	for rows.Next() {
		var person types.Person
		if err := rows.Scan(&person.ID, &person.Name, &person.Email); err != nil {
			return nil, fmt.Errorf("GetPeople: scan row: %w", err)
		}
		people = append(people, person)
	}

	// rows.Err() reports errors hit during iteration, separate from Scan.
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetPeople: rows iteration: %w", err)
	}

	return people, nil
}

// UpdatePersonByID replaces a person's data with the provided values and
// returns what is now stored.
func (s *SQLite) UpdatePersonByID(ctx context.Context, id int64, name, email string) (types.Person, error) {
	stmt, err := s.Db.PrepareContext(ctx, table.UpdateByIDSQL(dialect))
	if err != nil {
		return types.Person{}, fmt.Errorf("UpdatePersonByID: prepare: %w", err)
	}
	defer stmt.Close()

	// name, email, id: the same order as the ? markers.
	result, err := stmt.ExecContext(ctx, name, email, id)
	if err != nil {
		return types.Person{}, fmt.Errorf("UpdatePersonByID: exec: %w", err)
	}

	if err := storage.RequireRow(result, id); err != nil {
		return types.Person{}, fmt.Errorf("UpdatePersonByID: %w", err)
	}

	return s.GetPersonByID(ctx, id)
}

// DeletePersonByID removes a row by primary key.
func (s *SQLite) DeletePersonByID(ctx context.Context, id int64) error {
	stmt, err := s.Db.PrepareContext(ctx, table.DeleteByIDSQL(dialect))
	if err != nil {
		return fmt.Errorf("DeletePersonByID: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("DeletePersonByID: exec: %w", err)
	}

	if err := storage.RequireRow(result, id); err != nil {
		return fmt.Errorf("DeletePersonByID: %w", err)
	}

	return nil
}

// Close closes the underlying pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}
