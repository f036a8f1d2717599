package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/people-api/internal/storage"
	"github.com/aanand-mishra/people-api/internal/types"
)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "people.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNew_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.db")

	first, err := New(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := New(path)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestNew_CreatesIndexes(t *testing.T) {
	s := newTestStore(t)

	rows, err := s.Db.Query(`SELECT name FROM sqlite_master WHERE type = 'index' AND tbl_name = 'person' ORDER BY name`)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		require.NoError(t, rows.Scan(&n))
		names = append(names, n)
	}
	require.NoError(t, rows.Err())

	assert.Subset(t, names, []string{"ix_person_email", "ix_person_id", "ix_person_name"})
}

func TestCRUD(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	people, err := s.GetPeople(ctx)
	require.NoError(t, err)
	assert.NotNil(t, people)
	assert.Empty(t, people)

	aliceID, err := s.CreatePerson(ctx, "Alice", "alice@example.com")
	require.NoError(t, err)
	bobID, err := s.CreatePerson(ctx, "Bob", "bob@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, aliceID, bobID)

	alice, err := s.GetPersonByID(ctx, aliceID)
	require.NoError(t, err)
	assert.Equal(t, types.Person{ID: aliceID, Name: "Alice", Email: "alice@example.com"}, alice)

	updated, err := s.UpdatePersonByID(ctx, aliceID, "Alicia", "alicia@example.com")
	require.NoError(t, err)
	assert.True(t, updated.SameAs(alice))
	assert.Equal(t, "Alicia", updated.Name)

	people, err = s.GetPeople(ctx)
	require.NoError(t, err)
	require.Len(t, people, 2)
	assert.Equal(t, aliceID, people[0].ID)
	assert.Equal(t, bobID, people[1].ID)

	require.NoError(t, s.DeletePersonByID(ctx, bobID))
	_, err = s.GetPersonByID(ctx, bobID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDuplicateNamesAndEmailsAllowed(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.CreatePerson(ctx, "Sam", "sam@example.com")
	require.NoError(t, err)
	_, err = s.CreatePerson(ctx, "Sam", "sam@example.com")
	require.NoError(t, err)

	people, err := s.GetPeople(ctx)
	require.NoError(t, err)
	assert.Len(t, people, 2)
}

func TestMissingRows(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.GetPersonByID(ctx, 42)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.UpdatePersonByID(ctx, 42, "x", "y")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = s.DeletePersonByID(ctx, 42)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
