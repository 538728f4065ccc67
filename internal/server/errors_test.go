package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/job-matcher/internal/matching"
	"github.com/jonathan/job-matcher/internal/parsing"
	"github.com/jonathan/job-matcher/internal/skills"
)

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "text", Message: "is required"}
	assert.Equal(t, "validation error: text - is required", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestErrDecode(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := &ErrDecode{Cause: cause}
	assert.Equal(t, "invalid request body: unexpected EOF", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "ErrValidation", err: &ErrValidation{Field: "f", Message: "m"}, expected: http.StatusBadRequest},
		{name: "form validation", err: &matching.ValidationError{Field: "skills", Message: "m"}, expected: http.StatusBadRequest},
		{name: "decode", err: &ErrDecode{Cause: errors.New("bad")}, expected: http.StatusBadRequest},
		{name: "body too large", err: &ErrDecode{Cause: &http.MaxBytesError{Limit: 10}}, expected: http.StatusRequestEntityTooLarge},
		{name: "input too long", err: &skills.InputTooLongError{Length: 10, Max: 5}, expected: http.StatusRequestEntityTooLarge},
		{name: "parse error", err: &parsing.ParseError{Message: "bad markup"}, expected: http.StatusUnprocessableEntity},
		{name: "no corpus", err: &ErrNoCorpus{}, expected: http.StatusServiceUnavailable},
		{name: "wrapped", err: fmt.Errorf("handler: %w", &ErrValidation{}), expected: http.StatusBadRequest},
		{name: "unknown", err: errors.New("boom"), expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestValidationFailure(t *testing.T) {
	v := newValidator()

	err := validationFailure(v.Struct(ExtractSkillsRequest{}))
	var ve *ErrValidation
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "text", ve.Field)
	assert.Equal(t, "is required", ve.Message)

	err = validationFailure(v.Struct(CorpusMatchRequest{ResumeSkills: "Go, Docker", Limit: 5000}))
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "limit", ve.Field)
	assert.Equal(t, "must be at most 1000", ve.Message)

	err = validationFailure(errors.New("other"))
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "request", ve.Field)
}
