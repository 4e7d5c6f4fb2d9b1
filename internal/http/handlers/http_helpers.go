package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rogerio-castellano/pantry-tracker/internal/auth"
)

type MessageResponse struct {
	Message string `json:"message"`
}

// readJSON tries to read the body of a request and converts it into JSON
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1048576 // one megabyte
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must have only a single json value")
	}

	return nil
}

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}

func respond(w http.ResponseWriter, status int, data any, headers ...http.Header) {
	if err := writeJSON(w, status, data, headers...); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	respond(w, status, MessageResponse{Message: message})
}

// serverError logs the cause and answers with a generic 500.
func serverError(w http.ResponseWriter, action string, err error) {
	log.Printf("could not %s: %v", action, err)
	writeMessage(w, http.StatusInternalServerError, "Internal server error.")
}

func writeValidationErrors(w http.ResponseWriter, errs []ValidationError) {
	respond(w, http.StatusBadRequest, ValidationErrorResponse{Message: "Invalid request.", Errors: errs})
}

// currentUserID returns the user put on the context by the auth middleware.
func currentUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := auth.UserIDFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authenticated.")
	}
	return id, ok
}

// uuidParam parses a path parameter, answering 400 when it is not a UUID.
func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		respond(w, http.StatusBadRequest, ValidationErrorResponse{
			Message: "Invalid request.",
			Errors:  []ValidationError{{Field: name, Description: "must be a valid UUID"}},
		})
		return uuid.Nil, false
	}
	return id, true
}

func parseIntPtr(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseUUIDPtr(s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// parseTimePtr parses an RFC3339 query value.
//
// URL query parameters turn + into a space, so 2025-07-03T17:44:03+02:00
// arrives as 2025-07-03T17:44:03 02:00 and the sign is restored first.
func parseTimePtr(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if len(s) == len(time.RFC3339) && s[len(s)-6] == ' ' {
		s = s[:len(s)-6] + "+" + s[len(s)-5:]
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

// pagination reads offset and limit; limit must be positive and offset non-negative.
func pagination(r *http.Request) (offset, limit *int, errs []ValidationError) {
	q := r.URL.Query()

	offset, err := parseIntPtr(q.Get("offset"))
	if err != nil || (offset != nil && *offset < 0) {
		errs = append(errs, ValidationError{Field: "offset", Description: "offset must be zero or positive"})
	}
	limit, err = parseIntPtr(q.Get("limit"))
	if err != nil || (limit != nil && *limit <= 0) {
		errs = append(errs, ValidationError{Field: "limit", Description: "limit must be greater than zero"})
	}
	return offset, limit, errs
}

func now() time.Time {
	return time.Now().UTC()
}
