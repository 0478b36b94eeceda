package beads

import (
	"errors"
	"fmt"
)

// BackendError wraps a failed backend query.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("beads %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// IsBackendError reports whether err is a *BackendError.
func IsBackendError(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}

// Result holds a query value or the error that prevented it.
type Result[T any] struct {
	Value T
	Err   error
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Fail wraps an error for op.
func Fail[T any](op string, err error) Result[T] {
	return Result[T]{Err: &BackendError{Op: op, Err: err}}
}

// Or returns the value, or def if the query failed.
func (r Result[T]) Or(def T) T {
	if r.Err != nil {
		return def
	}
	return r.Value
}
