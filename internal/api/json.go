package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/notegenius/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// errorStatuses maps domain errors to HTTP statuses. An empty message means
// the error text is returned to the client.
var errorStatuses = []struct {
	target error
	status int
	msg    string
}{
	{apperr.ErrNotFound, http.StatusNotFound, "not found"},
	{apperr.ErrConflict, http.StatusConflict, "checksum mismatch"},
	{apperr.ErrAlreadyExists, http.StatusConflict, ""},
	{apperr.ErrIndexOutOfRange, http.StatusUnprocessableEntity, ""},
	{apperr.ErrInvalidInput, http.StatusBadRequest, ""},
	{apperr.ErrUnavailable, http.StatusServiceUnavailable, ""},
}

// writeError writes the response for err. Errors outside errorStatuses are
// logged with op and reported as internal.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	for _, e := range errorStatuses {
		if !errors.Is(err, e.target) {
			continue
		}
		msg := e.msg
		if msg == "" {
			msg = err.Error()
		}
		writeJSON(w, e.status, errorBody(msg))
		return
	}
	slog.Error(op+" failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
}

// decode reads a JSON body into v and validates it. On failure it writes a
// 400 response and returns false.
func decode(w http.ResponseWriter, r *http.Request, v validation.Validatable) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	if err := v.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return false
	}
	return true
}
