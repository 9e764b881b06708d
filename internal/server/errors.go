package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/jobtrack/internal/db"
	"github.com/jonathan/jobtrack/internal/llm"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Message
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnauthorized indicates a missing or rejected bearer token
type ErrUnauthorized struct {
	Reason string
}

func (e *ErrUnauthorized) Error() string {
	if e.Reason == "" {
		return "unauthorized"
	}
	return "unauthorized: " + e.Reason
}

// ErrStorage wraps a failure of the application store
type ErrStorage struct {
	Op  string
	Err error
}

func (e *ErrStorage) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *ErrStorage) Unwrap() error {
	return e.Err
}

// ErrNotFound indicates the addressed record does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var chainErr *llm.ChainError
	if errors.As(err, &chainErr) {
		return chainErr.HTTPStatus()
	}
	var failure *llm.Failure
	if errors.As(err, &failure) {
		return failure.HTTPStatus()
	}

	switch err.(type) {
	case *ErrValidation:
		return http.StatusBadRequest
	case *ErrUnauthorized:
		return http.StatusUnauthorized
	case *ErrNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ErrorBody is the JSON shape of every failed response.
type ErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	// Model and Attempts are set when text generation failed.
	Model    string         `json:"model,omitempty"`
	Attempts []*llm.Failure `json:"attempts,omitempty"`
}

// errorBody renders err for clients. Generation failures report the last
// attempt; storage failures pass the store error through as details.
func errorBody(err error) ErrorBody {
	var chainErr *llm.ChainError
	if errors.As(err, &chainErr) && chainErr.Last != nil {
		return ErrorBody{
			Error:    generationMessage(chainErr.Last),
			Details:  chainErr.Last.Detail,
			Model:    chainErr.Last.Model,
			Attempts: chainErr.Failures,
		}
	}

	switch e := err.(type) {
	case *ErrValidation:
		return ErrorBody{Error: "invalid request", Details: e.Error()}
	case *ErrUnauthorized:
		return ErrorBody{Error: "unauthorized", Details: e.Reason}
	case *ErrNotFound:
		return ErrorBody{Error: "not found", Details: e.Error()}
	case *ErrStorage:
		return ErrorBody{Error: "storage error", Details: e.Err.Error()}
	default:
		return ErrorBody{Error: "internal error", Details: err.Error()}
	}
}

func generationMessage(f *llm.Failure) string {
	switch f.Kind {
	case llm.FailureCanceled:
		return "generation timed out"
	case llm.FailureConfig:
		return "generation is not configured"
	case llm.FailureMalformed:
		return "model returned no usable JSON"
	default:
		return "model request failed"
	}
}

// validationError converts validator output into an ErrValidation for the
// first failing field.
func validationError(err error) *ErrValidation {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ErrValidation{Message: err.Error()}
	}

	fe := verrs[0]
	var msg string
	switch fe.Tag() {
	case "required":
		msg = "is required"
	case "max":
		msg = fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		msg = fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		msg = fmt.Sprintf("failed %q validation", fe.Tag())
	}
	return &ErrValidation{Field: fe.Field(), Message: msg}
}

// storageError maps store errors, turning missing records into ErrNotFound.
func storageError(op string, err error) error {
	var notFound *db.ErrApplicationNotFound
	if errors.As(err, &notFound) {
		return &ErrNotFound{Resource: "application", ID: notFound.JobID}
	}
	return &ErrStorage{Op: op, Err: err}
}
