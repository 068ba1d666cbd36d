package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	applog "recipebook/internal/log"
	"recipebook/internal/recipes"
)

// writeJSON encodes payload before writing the status line, so an
// unencodable payload turns into a 500 instead of a truncated response.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
		status = http.StatusInternalServerError
		body = []byte(`{"error":"internal error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body = append(body, '\n')
	if _, err := w.Write(body); err != nil {
		applog.Debug(context.Background(), "failed to write json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// statusFor maps engine error kinds onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, recipes.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, recipes.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, recipes.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		applog.Error(r.Context(), "recipe engine failure", "path", r.URL.Path, "error", err)
		writeJSONError(w, status, "internal error")
		return
	}
	writeJSONError(w, status, err.Error())
}

// optionalID reads an id query parameter. A missing or blank parameter
// yields nil.
func optionalID(r *http.Request) (*uint, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("id"))
	if raw == "" {
		return nil, nil
	}
	id, err := parseID(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// optionalName distinguishes a name parameter that is absent from one that
// is present but empty.
func optionalName(r *http.Request) *string {
	query := r.URL.Query()
	if !query.Has("name") {
		return nil
	}
	name := query.Get("name")
	return &name
}

func parseID(raw string) (uint, error) {
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return 0, errors.New("id must be a positive integer")
	}
	return uint(value), nil
}

func engineAvailable(w http.ResponseWriter, r *http.Request) bool {
	if engine == nil {
		applog.Debug(r.Context(), "recipe request without engine")
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return false
	}
	return true
}
