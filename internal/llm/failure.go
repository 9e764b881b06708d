package llm

import (
	"fmt"
	"net/http"
)

// FailureKind classifies why an attempt did not produce a JSON object.
type FailureKind string

// Failure kinds.
const (
	// FailureTransport is a network error or a non-2xx provider response.
	FailureTransport FailureKind = "transport"
	// FailureMalformed is a 2xx response without a parseable JSON object.
	FailureMalformed FailureKind = "malformed"
	// FailureCanceled means the caller's deadline elapsed.
	FailureCanceled FailureKind = "canceled"
	// FailureConfig means the chain could not run at all.
	FailureConfig FailureKind = "config"
)

// Failure is the failed outcome of one provider attempt.
// Status is the provider's HTTP status, or 0 when no response was received.
type Failure struct {
	Model  string      `json:"model"`
	Kind   FailureKind `json:"kind"`
	Status int         `json:"status,omitempty"`
	Detail string      `json:"detail"`
}

func (f *Failure) Error() string {
	if f.Status > 0 {
		return fmt.Sprintf("model %s: %s failure (status %d): %s", f.Model, f.Kind, f.Status, f.Detail)
	}
	return fmt.Sprintf("model %s: %s failure: %s", f.Model, f.Kind, f.Detail)
}

// HTTPStatus returns the status to report to the caller: the provider's error
// status when it sent one, otherwise a gateway status for the failure kind.
func (f *Failure) HTTPStatus() int {
	switch f.Kind {
	case FailureCanceled:
		return http.StatusGatewayTimeout
	case FailureConfig:
		return http.StatusInternalServerError
	}
	if f.Status >= 400 {
		return f.Status
	}
	return http.StatusBadGateway
}

// Attempt is the outcome of one provider call. Exactly one of Object and
// Failure is set.
type Attempt struct {
	Model   string
	Object  map[string]any
	Raw     string
	Failure *Failure
}

// OK reports whether the attempt produced a JSON object.
func (a Attempt) OK() bool {
	return a.Failure == nil
}

// ChainError reports that no provider produced a usable object. Last is the
// failure reported to callers; Failures holds every failed attempt in order.
type ChainError struct {
	Last     *Failure
	Failures []*Failure
}

func (e *ChainError) Error() string {
	return fmt.Sprintf("all %d attempt(s) failed, last: %v", len(e.Failures), e.Last)
}

func (e *ChainError) Unwrap() error {
	return e.Last
}

// HTTPStatus returns the status of the last failure.
func (e *ChainError) HTTPStatus() int {
	return e.Last.HTTPStatus()
}

// Err returns nil for a successful outcome and a *ChainError otherwise.
func (o Outcome) Err() error {
	if o.OK() {
		return nil
	}
	return &ChainError{Last: o.Failure, Failures: o.Failures}
}
