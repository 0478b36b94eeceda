package testutil

import (
	"context"
	"testing"
	"time"
)

// Default timeouts for test operations.
const (
	// DefaultCommandTimeout bounds one CLI or backend invocation.
	DefaultCommandTimeout = 30 * time.Second

	// DefaultTestBuffer is the buffer time subtracted from test deadline
	// to allow for cleanup operations before the test times out.
	DefaultTestBuffer = 5 * time.Second
)

// ContextWithTestDeadline creates a context that respects the test's deadline.
// It subtracts a buffer from the test deadline to allow time for cleanup.
// If the test has no deadline, it falls back to the provided fallback duration.
func ContextWithTestDeadline(t *testing.T, fallback time.Duration) (context.Context, context.CancelFunc) {
	t.Helper()
	return ContextWithTestDeadlineBuffer(t, fallback, DefaultTestBuffer)
}

// ContextWithTestDeadlineBuffer creates a context that respects the test's deadline
// with a custom buffer.
//
// If the test has no deadline, it uses the fallback duration.
// If the calculated deadline (test deadline minus buffer) is in the past,
// it uses the fallback instead.
func ContextWithTestDeadlineBuffer(t *testing.T, fallback, buffer time.Duration) (context.Context, context.CancelFunc) {
	t.Helper()

	if deadline, ok := t.Deadline(); ok {
		adjustedDeadline := deadline.Add(-buffer)
		if time.Until(adjustedDeadline) > 0 {
			return context.WithDeadline(context.Background(), adjustedDeadline)
		}
	}

	return context.WithTimeout(context.Background(), fallback)
}

// CommandContext creates a context for a single CLI or backend invocation.
// It respects the test deadline if one is set, otherwise uses
// DefaultCommandTimeout.
func CommandContext(t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()
	return ContextWithTestDeadline(t, DefaultCommandTimeout)
}
