package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error kinds. Every error returned by a Store wraps exactly one of these,
// so callers branch with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage failure")
)

// ValidationError reports the required fields a candidate entity is
// missing. It matches ErrValidation under errors.Is.
type ValidationError struct {
	Collection string
	Fields     validator.ValidationErrors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field())
	}
	return fmt.Sprintf("%s: %s: missing required fields: %s",
		ErrValidation, e.Collection, strings.Join(names, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// outcome is the metrics label for err.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "storage"
	}
}
