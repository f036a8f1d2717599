// Package types holds the data shapes shared across the application:
// the persisted Person record and the PersonInput / PersonOutput schemas
// used at the HTTP boundary. Keeping them in one place prevents import
// cycles. Handlers, storage and utils all import types without
// depending on each other.
package types

import "fmt"

// Person is the persisted entity stored in the "person" table.
//
// ID is assigned exactly once, by the storage layer, on insert. A zero
// ID means the record has not been stored yet. No validation happens at
// this layer: any string may be stored as Name or Email.
type Person struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// String returns a short label for logs, e.g. "<Person Alice>".
func (p Person) String() string {
	return fmt.Sprintf("<Person %s>", p.Name)
}

// Map returns the record as a field-name to value mapping.
func (p Person) Map() map[string]any {
	return map[string]any{
		"id":    p.ID,
		"name":  p.Name,
		"email": p.Email,
	}
}

// Assigned reports whether storage has given the record an ID.
func (p Person) Assigned() bool {
	return p.ID != 0
}

// SameAs reports whether p and other are the same stored record.
// Identity is by ID, so two unsaved records are never the same.
func (p Person) SameAs(other Person) bool {
	return p.Assigned() && p.ID == other.ID
}
