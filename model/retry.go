package model

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryOptions tune the backoff applied to retryable provider errors.
type RetryOptions struct {
	// MaxRetries bounds the number of re-attempts after the initial call.
	MaxRetries uint64
	// InitialInterval is the first backoff delay.
	InitialInterval time.Duration
	// MaxInterval caps the exponential growth of the delay.
	MaxInterval time.Duration
}

// retryModel decorates a Model with exponential backoff on retryable
// ProviderErrors. Retry lives entirely at the adapter boundary: the core
// never re-issues model calls itself, it only distinguishes "exhausted, fail
// the run" from "handled below".
type retryModel struct {
	inner Model
	opts  RetryOptions
}

// WithRetry wraps a Model so retryable ProviderErrors are retried with
// exponential backoff before surfacing. Non-retryable errors and context
// cancellation pass through immediately.
func WithRetry(inner Model, optFns ...func(o *RetryOptions)) Model {
	opts := RetryOptions{
		MaxRetries:      3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     10 * time.Second,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &retryModel{inner: inner, opts: opts}
}

// Complete implements Model.
func (m *retryModel) Complete(ctx context.Context, req Request) (*Response, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = m.opts.InitialInterval
	bo.MaxInterval = m.opts.MaxInterval

	var resp *Response
	operation := func() error {
		var err error
		resp, err = m.inner.Complete(ctx, req)
		if err == nil {
			return nil
		}
		var pErr *ProviderError
		if errors.As(err, &pErr) && pErr.Retryable {
			return err
		}
		return backoff.Permanent(err)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, m.opts.MaxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return resp, nil
}

// Info implements Model.
func (m *retryModel) Info() Info { return m.inner.Info() }
