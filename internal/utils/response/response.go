// Package response provides helpers for writing consistent JSON HTTP
// responses.
//
// Every response is an envelope carrying a success flag. Successful
// responses add a data payload; failures never do, and may carry a
// human-readable error instead:
//
//	{ "success": true,  "data": [ ... ] }
//	{ "success": false, "error": "field Code is required" }
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/records-api/internal/store"
)

// Response is the envelope returned by every handler.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// OK wraps a payload in a success envelope. A nil slice payload should be
// passed as an empty slice so it encodes as [] rather than being omitted.
func OK(data any) Response {
	return Response{Success: true, Data: data}
}

// GeneralError wraps any Go error into a failure envelope.
func GeneralError(err error) Response {
	var verr *store.ValidationError
	if errors.As(err, &verr) {
		return ValidationError(verr.Fields)
	}
	return Response{Success: false, Error: err.Error()}
}

// ValidationError converts validator field errors into a single
// human-readable failure envelope.
//
// Example output:
//
//	{ "success": false, "error": "field Title is required, field Stock is required" }
func ValidationError(errs validator.ValidationErrors) Response {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return Response{
		Success: false,
		Error:   strings.Join(errMessages, ", "),
	}
}

// StatusFor maps a store error kind to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as a failure envelope with the status StatusFor picks.
func Error(w http.ResponseWriter, err error) error {
	return WriteJSON(w, StatusFor(err), GeneralError(err))
}
