// Package server provides the HTTP REST API over the job-matching core.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/job-matcher/internal/matching"
	"github.com/jonathan/job-matcher/internal/parsing"
	"github.com/jonathan/job-matcher/internal/skills"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrDecode indicates a request body that is not valid JSON for the endpoint.
type ErrDecode struct {
	Cause error
}

func (e *ErrDecode) Error() string {
	return fmt.Sprintf("invalid request body: %v", e.Cause)
}

func (e *ErrDecode) Unwrap() error {
	return e.Cause
}

// ErrNoCorpus indicates an endpoint that needs a reference corpus when none is loaded.
type ErrNoCorpus struct{}

func (e *ErrNoCorpus) Error() string {
	return "no reference corpus loaded"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		maxBytes   *http.MaxBytesError
		tooLong    *skills.InputTooLongError
		validation *ErrValidation
		formErr    *matching.ValidationError
		decode     *ErrDecode
		parseErr   *parsing.ParseError
		noCorpus   *ErrNoCorpus
	)
	switch {
	case errors.As(err, &maxBytes), errors.As(err, &tooLong):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &validation), errors.As(err, &formErr), errors.As(err, &decode):
		return http.StatusBadRequest
	case errors.As(err, &parseErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &noCorpus):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// validationFailure converts the first validator failure into an *ErrValidation.
func validationFailure(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ErrValidation{Field: fe.Field(), Message: describeTag(fe)}
	}
	return &ErrValidation{Field: "request", Message: "invalid request"}
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_without":
		return "is required when " + fe.Param() + " is empty"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}
