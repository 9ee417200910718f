// Package model defines the provider boundary of the runtime: a normalized
// request/response shape plus the Model interface every provider adapter
// implements. Provider specific request shaping, auth and rate-limit retry
// live behind this boundary (see the openai and anthropic subpackages and
// WithRetry); the core only consumes the contract and a ProviderError signal
// distinguishing retryable from fatal failures.
package model
