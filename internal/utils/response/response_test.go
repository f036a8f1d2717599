package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/people-api/internal/types"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	require.NoError(t, WriteJSON(rec, http.StatusCreated, map[string]int64{"id": 1}))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":1}`, rec.Body.String())
}

func TestGeneralError(t *testing.T) {
	assert.Equal(t, Response{Status: StatusError, Error: "boom"}, GeneralError(errors.New("boom")))
}

func TestValidationError(t *testing.T) {
	got := ValidationError(&types.ValidationError{
		Schema: "PersonInput",
		Fields: []types.FieldError{
			{Field: "name", Tag: types.TagRequired},
			{Field: "email", Tag: types.TagType},
			{Field: "id", Tag: types.TagAssigned},
			{Field: "x", Tag: "max"},
		},
	})

	assert.Equal(t, StatusError, got.Status)
	assert.Equal(t, "field name is required, field email has the wrong type, "+
		"field id must be assigned, field x is invalid", got.Error)
}
