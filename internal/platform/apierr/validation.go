package apierr

import (
	"net/http"
	"strings"
)

// FieldError is used to indicate an error with a specific payload field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ValidationError is raised before any network call when a form is incomplete.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			parts = append(parts, f.Field+": "+f.Error)
		}
		return strings.Join(parts, "; ")
	}
	return "validation failed"
}

func (e *ValidationError) Unwrap() error { return e.Err }

// HTTPStatusCode is 422 so retry classification treats local validation as final.
func (e *ValidationError) HTTPStatusCode() int { return http.StatusUnprocessableEntity }

// Field returns the message recorded for name, if any.
func (e *ValidationError) Field(name string) (string, bool) {
	if e == nil {
		return "", false
	}
	for _, f := range e.Fields {
		if f.Field == name {
			return f.Error, true
		}
	}
	return "", false
}
