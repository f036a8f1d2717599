// Package response provides helpers for writing consistent JSON HTTP
// responses. Every handler sends JSON back to the client, so setting the
// header, the status and encoding the body lives here once.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/aanand-mishra/people-api/internal/types"
)

// Response is the standard envelope returned for error cases.
//
// Success responses may return any JSON shape (a person, a list...).
// Error responses always look like:
//
//	{ "status": "error", "error": "field name is required" }
type Response struct {
	Status string `json:"status"` // "ok" or "error"
	Error  string `json:"error"`  // human-readable error detail
}

// Status string constants, so a typo is caught by the compiler rather
// than silently sending "eroor".
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// Order matters: Header() then WriteHeader() then body writes. Once
// WriteHeader is called, headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	return json.NewEncoder(w).Encode(data)
}

// GeneralError wraps any Go error into the standard Response shape.
//
//	response.WriteJSON(w, http.StatusInternalServerError,
//	    response.GeneralError(err))
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// ValidationError converts every FieldError of err into a plain English
// sentence and joins them with ", ".
//
//	{ "status": "error", "error": "field name is required, field email has the wrong type" }
func ValidationError(err *types.ValidationError) Response {
	var errMessages []string

	for _, e := range err.Fields {
		switch e.Tag {
		case types.TagRequired:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field))
		case types.TagType:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s has the wrong type", e.Field))
		case types.TagAssigned:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be assigned", e.Field))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field))
		}
	}

	return Response{
		Status: StatusError,
		Error:  strings.Join(errMessages, ", "),
	}
}
