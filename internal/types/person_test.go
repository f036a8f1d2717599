package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPerson_String(t *testing.T) {
	p := Person{ID: 3, Name: "Alice", Email: "alice@example.com"}
	assert.Equal(t, "<Person Alice>", p.String())
}

func TestPerson_Map(t *testing.T) {
	p := Person{ID: 3, Name: "Alice", Email: "alice@example.com"}
	assert.Equal(t, map[string]any{
		"id":    int64(3),
		"name":  "Alice",
		"email": "alice@example.com",
	}, p.Map())
}

func TestPerson_SameAs(t *testing.T) {
	a := Person{ID: 1, Name: "Alice"}
	renamed := Person{ID: 1, Name: "Alicia"}
	other := Person{ID: 2, Name: "Alice"}

	assert.True(t, a.SameAs(renamed))
	assert.False(t, a.SameAs(other))
	assert.False(t, Person{Name: "x"}.SameAs(Person{Name: "x"}))
}
