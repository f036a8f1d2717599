package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var errTrailingData = errors.New("unexpected data after JSON value")

// validate is shared by every schema. A *validator.Validate caches
// struct metadata and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report json names ("email") instead of Go names ("Email") so the
	// client sees the keys it actually sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// PersonInput is the shape of an incoming create or edit request.
// A nil ID asks for a new record; a non-nil ID names the record to edit.
type PersonInput struct {
	ID    *int64 `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// IsEdit reports whether the input targets an existing record.
func (in PersonInput) IsEdit() bool {
	return in.ID != nil
}

// PersonOutput is the shape returned to callers for a stored record.
// Every field is required.
type PersonOutput struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// The payload structs use pointers so that "missing" and "empty" can be
// told apart. With a pointer, validator's required rule only checks that
// the key was present and not null; an empty string is still a value.
type personInputPayload struct {
	ID    *int64  `json:"id"`
	Name  *string `json:"name"  validate:"required"`
	Email *string `json:"email" validate:"required"`
}

type personOutputPayload struct {
	ID    *int64  `json:"id"    validate:"required"`
	Name  *string `json:"name"  validate:"required"`
	Email *string `json:"email" validate:"required"`
}

// DecodePersonInput reads one JSON object from r and builds a PersonInput.
//
// name and email must be present strings; id, when present, must be an
// integer. Violations come back as *ValidationError.
func DecodePersonInput(r io.Reader) (PersonInput, error) {
	var p personInputPayload
	if err := decode("PersonInput", r, &p); err != nil {
		return PersonInput{}, err
	}

	return PersonInput{ID: p.ID, Name: *p.Name, Email: *p.Email}, nil
}

// NewPersonInput builds a PersonInput from Go values. A nil id asks for a
// new record. Failures come back as *ValidationError, like the Decode
// constructors.
func NewPersonInput(id *int64, name, email string) (PersonInput, error) {
	p := personInputPayload{ID: id, Name: &name, Email: &email}
	if err := check("PersonInput", &p); err != nil {
		return PersonInput{}, err
	}

	return PersonInput{ID: p.ID, Name: *p.Name, Email: *p.Email}, nil
}

// ParsePersonInput is DecodePersonInput over a byte slice.
func ParsePersonInput(data []byte) (PersonInput, error) {
	return DecodePersonInput(bytes.NewReader(data))
}

// DecodePersonOutput reads one JSON object from r and builds a
// PersonOutput. Unlike PersonInput, id is required.
func DecodePersonOutput(r io.Reader) (PersonOutput, error) {
	var p personOutputPayload
	if err := decode("PersonOutput", r, &p); err != nil {
		return PersonOutput{}, err
	}

	return PersonOutput{ID: *p.ID, Name: *p.Name, Email: *p.Email}, nil
}

// ParsePersonOutput is DecodePersonOutput over a byte slice.
func ParsePersonOutput(data []byte) (PersonOutput, error) {
	return DecodePersonOutput(bytes.NewReader(data))
}

// NewPersonOutput builds the response shape for a stored record.
// A record without an assigned ID is rejected.
func NewPersonOutput(p Person) (PersonOutput, error) {
	if !p.Assigned() {
		return PersonOutput{}, &ValidationError{
			Schema: "PersonOutput",
			Fields: []FieldError{{Field: "id", Tag: TagAssigned}},
		}
	}

	return PersonOutput{ID: p.ID, Name: p.Name, Email: p.Email}, nil
}

// NewPersonOutputs maps NewPersonOutput over a slice. The result is
// never nil so it encodes as [] rather than null.
func NewPersonOutputs(people []Person) ([]PersonOutput, error) {
	out := make([]PersonOutput, 0, len(people))
	for _, p := range people {
		o, err := NewPersonOutput(p)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

// decode runs the json decoder and then the struct validator, turning
// both kinds of failure into *ValidationError where the client is at fault.
func decode(schema string, r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	err := dec.Decode(dst)
	if errors.Is(err, io.EOF) {
		return ErrEmptyBody
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fromTypeError(schema, typeErr)
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", schema, err)
	}

	// exactly one JSON value per body
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s: %w", schema, errTrailingData)
	}

	return check(schema, dst)
}

// check runs the struct validator over a payload.
func check(schema string, dst any) error {
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fromValidator(schema, verrs)
		}
		return fmt.Errorf("validate %s: %w", schema, err)
	}
	return nil
}
