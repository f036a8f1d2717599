package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Tags carried by FieldError. TagRequired matches the validator tag of
// the same name so errors from both sources read the same way.
const (
	TagRequired = "required"
	TagType     = "type"
	TagAssigned = "assigned"
)

var (
	// ErrValidation matches every *ValidationError through errors.Is.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyBody is returned by the Decode constructors when the
	// reader holds no JSON value at all.
	ErrEmptyBody = errors.New("request body is empty")
)

// FieldError describes one broken rule on one field.
type FieldError struct {
	Field string
	Tag   string
}

// ValidationError is returned when a schema's required-field or type
// constraints are violated at construction time.
type ValidationError struct {
	Schema string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Tag)
	}
	return fmt.Sprintf("%s: %s", e.Schema, strings.Join(parts, ", "))
}

// Is makes errors.Is(err, ErrValidation) true for any *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// HasField reports whether the error names field with the given tag.
func (e *ValidationError) HasField(field, tag string) bool {
	for _, f := range e.Fields {
		if f.Field == field && f.Tag == tag {
			return true
		}
	}
	return false
}

// fromValidator converts validator.ValidationErrors into a *ValidationError.
// Field names are the json names thanks to the tag-name func registered
// in schema.go.
func fromValidator(schema string, errs validator.ValidationErrors) *ValidationError {
	ve := &ValidationError{Schema: schema}
	for _, e := range errs {
		ve.Fields = append(ve.Fields, FieldError{Field: e.Field(), Tag: e.Tag()})
	}
	return ve
}

// fromTypeError converts a json type mismatch, e.g. a number where a
// string was expected, into a *ValidationError.
func fromTypeError(schema string, err *json.UnmarshalTypeError) *ValidationError {
	field := err.Field
	if field == "" {
		field = "body"
	}
	return &ValidationError{
		Schema: schema,
		Fields: []FieldError{{Field: field, Tag: TagType}},
	}
}
