package model

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentloop/core"
)

// -------------------- MockModel Tests --------------------

func TestMockModelScript(t *testing.T) {
	m := NewMockModel("scripted")
	m.Enqueue(Response{Text: "first"})
	m.EnqueueError(errors.New("second fails"))

	resp, err := m.Complete(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "first", resp.Text)

	_, err = m.Complete(context.Background(), Request{})
	assert.EqualError(t, err, "second fails")

	// Script exhausted: echo the last user message.
	resp, err = m.Complete(context.Background(), Request{
		Messages: []core.Message{
			core.NewUserMessage("older"),
			core.NewUserMessage("ping"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: ping", resp.Text)

	assert.Len(t, m.Requests(), 3)
	assert.Equal(t, "mock", m.Info().Provider)
}

func TestMockModelRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewMockModel("m")
	_, err := m.Complete(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, m.Requests())
}

// -------------------- ProviderError Tests --------------------

func TestProviderError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewProviderError("openai", true, cause)

	assert.Contains(t, err.Error(), "openai")
	assert.Contains(t, err.Error(), "retryable")
	assert.ErrorIs(t, err, cause)

	fatal := NewProviderError("openai", false, cause)
	assert.Contains(t, fatal.Error(), "fatal")
}

// -------------------- Retry Tests --------------------

func fastRetry(inner Model, maxRetries uint64) Model {
	return WithRetry(inner, func(o *RetryOptions) {
		o.MaxRetries = maxRetries
		o.InitialInterval = time.Millisecond
		o.MaxInterval = 2 * time.Millisecond
	})
}

func TestRetryRecoversFromTransientErrors(t *testing.T) {
	inner := NewMockModel("flaky")
	inner.EnqueueError(NewProviderError("flaky", true, errors.New("rate limited")))
	inner.EnqueueError(NewProviderError("flaky", true, errors.New("rate limited")))
	inner.Enqueue(Response{Text: "recovered"})

	resp, err := fastRetry(inner, 3).Complete(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "recovered", resp.Text)
	assert.Len(t, inner.Requests(), 3)
}

func TestRetryExhaustion(t *testing.T) {
	inner := NewMockModel("down")
	for i := 0; i < 5; i++ {
		inner.EnqueueError(NewProviderError("down", true, errors.New("unavailable")))
	}

	_, err := fastRetry(inner, 2).Complete(context.Background(), Request{})
	require.Error(t, err)

	var pErr *ProviderError
	assert.ErrorAs(t, err, &pErr)
	// Initial attempt plus two retries.
	assert.Len(t, inner.Requests(), 3)
}

func TestRetrySkipsFatalErrors(t *testing.T) {
	inner := NewMockModel("broken")
	inner.EnqueueError(NewProviderError("broken", false, errors.New("invalid api key")))

	_, err := fastRetry(inner, 3).Complete(context.Background(), Request{})
	require.Error(t, err)
	assert.Len(t, inner.Requests(), 1)
}

func TestRetrySkipsNonProviderErrors(t *testing.T) {
	inner := NewMockModel("odd")
	inner.EnqueueError(errors.New("something else entirely"))

	_, err := fastRetry(inner, 3).Complete(context.Background(), Request{})
	require.Error(t, err)
	assert.Len(t, inner.Requests(), 1)
}

func TestRetryStopsOnCancellation(t *testing.T) {
	inner := NewMockModel("slow")
	for i := 0; i < 10; i++ {
		inner.EnqueueError(NewProviderError("slow", true, errors.New("overloaded")))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fastRetry(inner, 10).Complete(ctx, Request{})
	require.Error(t, err)
	// At most the first attempt ran; cancellation stops the backoff loop.
	assert.LessOrEqual(t, len(inner.Requests()), 1)
}

func TestRetryPreservesInfo(t *testing.T) {
	inner := NewMockModel("wrapped")
	assert.Equal(t, inner.Info(), WithRetry(inner).Info())
}
