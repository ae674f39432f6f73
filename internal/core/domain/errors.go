package domain

import (
	"errors"
	"fmt"
)

// PreconditionError means the caller omitted required input. It maps to a
// 4xx response and is never retried.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return e.Reason
}

// Preconditionf builds a PreconditionError.
func Preconditionf(format string, args ...any) error {
	return &PreconditionError{Reason: fmt.Sprintf(format, args...)}
}

// DependencyError means an upstream RPC, indexer or HTTP fetch was
// unreachable or returned invalid data. It maps to a 502 response.
type DependencyError struct {
	Source string
	Err    error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

// Dependency wraps err as a DependencyError attributed to source.
func Dependency(source string, err error) error {
	if err == nil {
		return nil
	}
	return &DependencyError{Source: source, Err: err}
}

// IsPrecondition reports whether err is (or wraps) a PreconditionError.
func IsPrecondition(err error) bool {
	var p *PreconditionError
	return errors.As(err, &p)
}

// IsDependency reports whether err is (or wraps) a DependencyError.
func IsDependency(err error) bool {
	var d *DependencyError
	return errors.As(err, &d)
}
