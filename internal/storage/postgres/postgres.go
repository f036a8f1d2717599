// Package postgres implements storage.Storage on Postgres through the
// pgx database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/aanand-mishra/people-api/internal/storage"
	"github.com/aanand-mishra/people-api/internal/types"
)

var (
	table   = storage.PersonTable
	dialect = storage.Postgres
)

// Postgres is storage.Storage over a pooled *sql.DB opened with the pgx
// driver. Ids come from a BIGSERIAL column through RETURNING.
type Postgres struct {
	db *sql.DB
}

var _ storage.Storage = (*Postgres)(nil)

// Open opens a pooled connection to dsn, checks it is reachable and
// makes sure the person table exists.
func Open(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open(dialect.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.Open: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres.Open: ping: %w", err)
	}

	p := New(db)
	if err := p.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return p, nil
}

// New wraps an already opened pool.
func New(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the person table if it is missing.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	for _, stmt := range table.CreateStatements(dialect) {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("EnsureSchema: %w", err)
		}
	}
	return nil
}

// CreatePerson inserts a row and returns the id Postgres assigned.
func (p *Postgres) CreatePerson(ctx context.Context, name, email string) (int64, error) {
	var id int64
	err := p.db.QueryRowContext(ctx, table.InsertSQL(dialect)+" RETURNING id", name, email).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("CreatePerson: %w", err)
	}
	return id, nil
}

// GetPersonByID fetches one row by primary key.
func (p *Postgres) GetPersonByID(ctx context.Context, id int64) (types.Person, error) {
	var person types.Person
	err := p.db.QueryRowContext(ctx, table.SelectByIDSQL(dialect), id).
		Scan(&person.ID, &person.Name, &person.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Person{}, fmt.Errorf("no person found with id %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return types.Person{}, fmt.Errorf("GetPersonByID: %w", err)
	}
	return person, nil
}

// GetPeople returns every row ordered by id.
func (p *Postgres) GetPeople(ctx context.Context) ([]types.Person, error) {
	rows, err := p.db.QueryContext(ctx, table.SelectSQL())
	if err != nil {
		return nil, fmt.Errorf("GetPeople: query: %w", err)
	}
	defer rows.Close()

	people := make([]types.Person, 0)
	for rows.Next() {
		var person types.Person
		if err := rows.Scan(&person.ID, &person.Name, &person.Email); err != nil {
			return nil, fmt.Errorf("GetPeople: scan row: %w", err)
		}
		people = append(people, person)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetPeople: rows iteration: %w", err)
	}
	return people, nil
}

// UpdatePersonByID overwrites name and email of an existing row.
func (p *Postgres) UpdatePersonByID(ctx context.Context, id int64, name, email string) (types.Person, error) {
	res, err := p.db.ExecContext(ctx, table.UpdateByIDSQL(dialect), name, email, id)
	if err != nil {
		return types.Person{}, fmt.Errorf("UpdatePersonByID: %w", err)
	}
	if err := storage.RequireRow(res, id); err != nil {
		return types.Person{}, fmt.Errorf("UpdatePersonByID: %w", err)
	}
	return types.Person{ID: id, Name: name, Email: email}, nil
}

// DeletePersonByID removes a row by primary key.
func (p *Postgres) DeletePersonByID(ctx context.Context, id int64) error {
	res, err := p.db.ExecContext(ctx, table.DeleteByIDSQL(dialect), id)
	if err != nil {
		return fmt.Errorf("DeletePersonByID: %w", err)
	}
	if err := storage.RequireRow(res, id); err != nil {
		return fmt.Errorf("DeletePersonByID: %w", err)
	}
	return nil
}

// Close closes the pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}
