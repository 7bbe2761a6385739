package core

import (
	"errors"
	"fmt"
)

// FailureReason classifies why a dataset load failed.
type FailureReason string

const (
	ReasonNetwork FailureReason = "network"
	ReasonStatus  FailureReason = "status"
	ReasonPayload FailureReason = "payload"
)

var (
	ErrLoadFailure      = errors.New("dataset load failed")
	ErrMalformedPayload = errors.New("malformed dataset payload")
	ErrNotLoaded        = errors.New("dataset not loaded")
	ErrAlreadyLoaded    = errors.New("dataset load already attempted")
)

// LoadError reports a failed dataset load. It matches ErrLoadFailure with errors.Is.
type LoadError struct {
	Source string
	Reason FailureReason
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load dataset from %s (%s): %v", e.Source, e.Reason, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrLoadFailure }

// NewLoadError wraps err as a LoadError unless it already is one.
func NewLoadError(source string, reason FailureReason, err error) error {
	var le *LoadError
	if errors.As(err, &le) {
		return err
	}
	return &LoadError{Source: source, Reason: reason, Err: err}
}

// IsLoadFailure reports whether err is a dataset load failure.
func IsLoadFailure(err error) bool {
	return errors.Is(err, ErrLoadFailure)
}
