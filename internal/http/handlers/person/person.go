// Package person contains the HTTP handlers for the Person resource.
//
// Each exported function is a factory: it is called once at startup with
// its dependencies and returns the http.HandlerFunc that serves every
// request. The returned closure keeps access to storage after the
// factory has returned.
//
//	r.Post("/api/people", person.New(storage))
package person

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aanand-mishra/people-api/internal/storage"
	"github.com/aanand-mishra/people-api/internal/types"
	"github.com/aanand-mishra/people-api/internal/utils/response"
)

var errInvalidID = errors.New("invalid id: must be an integer")

// New handles POST /api/people, the create-or-edit endpoint.
//
// Request body (JSON):
//
//	{ "name": "Alice", "email": "alice@example.com" }            creates
//	{ "id": 3, "name": "Alice", "email": "alice@example.com" }   edits person 3
//
// Responses:
//
//	201 Created      the new person
//	200 OK           the edited person
//	400 Bad Request  empty body, malformed JSON, or failed validation
//	404 Not Found    an edit named an unknown id
//	500 Internal     database error
func New(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, ok := decodeInput(w, r)
		if !ok {
			return
		}

		if in.IsEdit() {
			slog.Info("editing a person", slog.Int64("id", *in.ID))
			update(w, r, storage, *in.ID, in)
			return
		}

		slog.Info("creating a person")

		lastID, err := storage.CreatePerson(r.Context(), in.Name, in.Email)
		if err != nil {
			writeError(w, err)
			return
		}

		slog.Info("person created", slog.Int64("id", lastID))

		person := types.Person{ID: lastID, Name: in.Name, Email: in.Email}
		writePerson(w, http.StatusCreated, person)
	}
}

// GetByID handles GET /api/people/{id}.
func GetByID(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("getting a person", slog.Int64("id", id))

		person, err := storage.GetPersonByID(r.Context(), id)
		if err != nil {
			slog.Error("error getting person",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			writeError(w, err)
			return
		}

		writePerson(w, http.StatusOK, person)
	}
}

// GetList handles GET /api/people. It answers [] rather than null when
// there is nobody stored.
func GetList(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all people")

		people, err := storage.GetPeople(r.Context())
		if err != nil {
			slog.Error("error getting people", slog.String("error", err.Error()))
			writeError(w, err)
			return
		}

		out, err := types.NewPersonOutputs(people)
		if err != nil {
			writeError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, out)
	}
}

// Update handles PUT /api/people/{id}, replacing name and email.
// The body may repeat the id; if it does it must match the path.
func Update(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("updating a person", slog.Int64("id", id))

		in, ok := decodeInput(w, r)
		if !ok {
			return
		}

		if in.IsEdit() && *in.ID != id {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("body id does not match path id")))
			return
		}

		update(w, r, storage, id, in)
	}
}

// Delete handles DELETE /api/people/{id}.
//
//	200 OK  { "status": "deleted" }
func Delete(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("deleting a person", slog.Int64("id", id))

		if err := storage.DeletePersonByID(r.Context(), id); err != nil {
			slog.Error("error deleting person",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			writeError(w, err)
			return
		}

		slog.Info("person deleted", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

func update(w http.ResponseWriter, r *http.Request, storage storage.Storage, id int64, in types.PersonInput) {
	updated, err := storage.UpdatePersonByID(r.Context(), id, in.Name, in.Email)
	if err != nil {
		slog.Error("error updating person",
			slog.Int64("id", id),
			slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	slog.Info("person updated", slog.Int64("id", id))
	writePerson(w, http.StatusOK, updated)
}

// decodeInput writes the 400 itself and reports false when the body is
// not a valid PersonInput.
func decodeInput(w http.ResponseWriter, r *http.Request) (types.PersonInput, bool) {
	in, err := types.DecodePersonInput(r.Body)
	if err == nil {
		return in, true
	}

	var ve *types.ValidationError
	if errors.As(err, &ve) {
		response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(ve))
	} else {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
	}
	return types.PersonInput{}, false
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errInvalidID))
		return 0, false
	}
	return id, true
}

func writePerson(w http.ResponseWriter, status int, p types.Person) {
	out, err := types.NewPersonOutput(p)
	if err != nil {
		writeError(w, err)
		return
	}
	response.WriteJSON(w, status, out)
}

// writeError picks the status for errors coming back from storage or
// from building an output.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, storage.ErrNotFound) {
		status = http.StatusNotFound
	}
	response.WriteJSON(w, status, response.GeneralError(err))
}
