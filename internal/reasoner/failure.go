package reasoner

import (
	"fmt"
)

// FailureKind classifies why the AI path produced no usable batch.
type FailureKind string

const (
	// FailureUnconfigured means no provider or no credentials.
	FailureUnconfigured FailureKind = "unconfigured"
	// FailureUnavailable covers transport errors, bad statuses, timeouts and an open breaker.
	FailureUnavailable FailureKind = "unavailable"
	// FailureMalformed means the response was not a JSON list of suggestions.
	FailureMalformed FailureKind = "malformed"
	// FailureEmpty means no suggestion survived validation and filtering.
	FailureEmpty FailureKind = "empty"
)

// Failure is returned by AttemptAI when the fallback path must be taken.
type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("reasoning %s: %v", f.Kind, f.Err)
	}
	return fmt.Sprintf("reasoning %s", f.Kind)
}

func (f *Failure) Unwrap() error {
	return f.Err
}
