package types

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePersonInput(t *testing.T) {
	t.Run("create without id", func(t *testing.T) {
		in, err := ParsePersonInput([]byte(`{"name":"Alice","email":"alice@example.com"}`))
		require.NoError(t, err)

		assert.Nil(t, in.ID)
		assert.False(t, in.IsEdit())
		assert.Equal(t, "Alice", in.Name)
		assert.Equal(t, "alice@example.com", in.Email)
	})

	t.Run("edit with id", func(t *testing.T) {
		in, err := ParsePersonInput([]byte(`{"id":7,"name":"Bob","email":"bob@example.com"}`))
		require.NoError(t, err)

		require.NotNil(t, in.ID)
		assert.Equal(t, int64(7), *in.ID)
		assert.True(t, in.IsEdit())
	})

	t.Run("explicit null id is a create", func(t *testing.T) {
		in, err := ParsePersonInput([]byte(`{"id":null,"name":"Bob","email":"b"}`))
		require.NoError(t, err)
		assert.Nil(t, in.ID)
	})

	t.Run("empty strings are present", func(t *testing.T) {
		in, err := ParsePersonInput([]byte(`{"name":"","email":""}`))
		require.NoError(t, err)
		assert.Equal(t, "", in.Name)
	})
}

func TestParsePersonInput_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
		tag   string
	}{
		{"missing name", `{"email":"alice@example.com"}`, "name", TagRequired},
		{"null name", `{"name":null,"email":"alice@example.com"}`, "name", TagRequired},
		{"missing email", `{"name":"Alice"}`, "email", TagRequired},
		{"email not a string", `{"name":"Alice","email":42}`, "email", TagType},
		{"name not a string", `{"name":["Alice"],"email":"a"}`, "name", TagType},
		{"id not an integer", `{"id":1.5,"name":"Alice","email":"a"}`, "id", TagType},
		{"id as string", `{"id":"1","name":"Alice","email":"a"}`, "id", TagType},
		{"body not an object", `[]`, "body", TagType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePersonInput([]byte(tt.body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, "PersonInput", ve.Schema)
			assert.True(t, ve.HasField(tt.field, tt.tag), "got %v", ve.Fields)
		})
	}
}

func TestParsePersonInput_BothRequiredMissing(t *testing.T) {
	_, err := ParsePersonInput([]byte(`{}`))

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Len(t, ve.Fields, 2)
	assert.Equal(t, "PersonInput: name required, email required", ve.Error())
}

func TestDecodePersonInput_Empty(t *testing.T) {
	_, err := DecodePersonInput(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyBody)
	assert.False(t, errors.Is(err, ErrValidation))
}

func TestDecodePersonInput_Malformed(t *testing.T) {
	_, err := DecodePersonInput(strings.NewReader(`{"name":`))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrValidation))
}

func TestParsePersonOutput(t *testing.T) {
	out, err := ParsePersonOutput([]byte(`{"id":1,"name":"Alice","email":"alice@example.com"}`))
	require.NoError(t, err)
	assert.Equal(t, PersonOutput{ID: 1, Name: "Alice", Email: "alice@example.com"}, out)

	encoded, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"name":"Alice","email":"alice@example.com"}`, string(encoded))
}

func TestParsePersonOutput_MissingID(t *testing.T) {
	_, err := ParsePersonOutput([]byte(`{"name":"Alice","email":"alice@example.com"}`))

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "PersonOutput", ve.Schema)
	assert.True(t, ve.HasField("id", TagRequired))
}

func TestParsePersonOutput_ZeroIDIsPresent(t *testing.T) {
	out, err := ParsePersonOutput([]byte(`{"id":0,"name":"A","email":"a"}`))
	require.NoError(t, err)
	assert.Equal(t, int64(0), out.ID)
}

func TestNewPersonOutput(t *testing.T) {
	out, err := NewPersonOutput(Person{ID: 1, Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, PersonOutput{ID: 1, Name: "Alice", Email: "alice@example.com"}, out)

	_, err = NewPersonOutput(Person{Name: "Alice", Email: "alice@example.com"})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.True(t, ve.HasField("id", TagAssigned))
}

func TestNewPersonOutputs(t *testing.T) {
	out, err := NewPersonOutputs(nil)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)

	out, err = NewPersonOutputs([]Person{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}})
	require.NoError(t, err)
	assert.Len(t, out, 2)

	_, err = NewPersonOutputs([]Person{{ID: 1}, {}})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNewPersonInput(t *testing.T) {
	in, err := NewPersonInput(nil, "Alice", "alice@example.com")
	require.NoError(t, err)
	assert.Nil(t, in.ID)
	assert.Equal(t, PersonInput{Name: "Alice", Email: "alice@example.com"}, in)

	id := int64(4)
	in, err = NewPersonInput(&id, "", "")
	require.NoError(t, err)
	require.NotNil(t, in.ID)
	assert.Equal(t, int64(4), *in.ID)
	assert.True(t, in.IsEdit())
}

func TestDecodePersonInput_TrailingData(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"junk", `{"name":"a","email":"b"} junk`},
		{"second object", `{"name":"a","email":"b"}{"name":"c","email":"d"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePersonInput([]byte(tt.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, errTrailingData)
			assert.False(t, errors.Is(err, ErrValidation))
		})
	}

	_, err := ParsePersonInput([]byte("{\"name\":\"a\",\"email\":\"b\"}\n"))
	assert.NoError(t, err, "trailing whitespace is fine")
}
