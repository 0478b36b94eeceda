package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestContextWithTestDeadline_WithFallback(t *testing.T) {
	// Under `go test` there may be a test deadline; either way the context
	// must carry a deadline in the future.
	ctx, cancel := ContextWithTestDeadline(t, 100*time.Millisecond)
	defer cancel()

	deadline, ok := ctx.Deadline()
	assert.True(t, ok, "context should have deadline")
	assert.Greater(t, time.Until(deadline).Seconds(), 0.0, "deadline should be in the future")
}

func TestContextWithTestDeadlineBuffer_HugeBufferFallsBack(t *testing.T) {
	fallback := 200 * time.Millisecond

	ctx, cancel := ContextWithTestDeadlineBuffer(t, fallback, 1000*time.Hour)
	defer cancel()

	deadline, ok := ctx.Deadline()
	assert.True(t, ok, "context should have deadline")
	assert.InDelta(t, fallback.Seconds(), time.Until(deadline).Seconds(), 0.1)
}

func TestCommandContext(t *testing.T) {
	ctx, cancel := CommandContext(t)
	defer cancel()

	deadline, ok := ctx.Deadline()
	assert.True(t, ok, "context should have deadline")
	assert.Greater(t, time.Until(deadline).Seconds(), 0.0)
}
