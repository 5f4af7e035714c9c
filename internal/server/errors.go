package server

import (
	"fmt"
	"net/http"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// validationError writes a typed validation failure with its mapped status.
func (s *Server) validationError(w http.ResponseWriter, field, message string) {
	err := &ErrValidation{Field: field, Message: message}
	s.errorResponse(w, HTTPStatus(err), err.Error())
}
