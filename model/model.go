package model

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentloop/core"
)

// ToolDefinition declaratively exposes a callable function to the model.
// Parameters is a JSON Schema object (draft agnostic, minimal subset
// expected).
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Request captures the normalized model input assembled by an agent step:
// the resolved directive (system prompt), the context entries produced by
// the memory manager and the tool surface available this turn.
type Request struct {
	Directive string
	Messages  []core.Message
	Tools     []ToolDefinition
}

// TokenUsage captures token accounting for a completion.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the provider-neutral completion shape. Adapters populate Text
// and/or ToolCalls; classification into the closed step outcome set happens
// in the agent layer, not here.
type Response struct {
	Text         string          `json:"text,omitempty"`
	ToolCalls    []core.ToolCall `json:"tool_calls,omitempty"`
	FinishReason string          `json:"finish_reason,omitempty"`
	Usage        *TokenUsage     `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"`
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface required to drive generation. Complete
// blocks until the provider returns a full completion or fails.
// Implementations must be safe for concurrent use across runs.
type Model interface {
	Complete(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// ProviderError signals a failure at the provider boundary. Retryable marks
// rate limits and transient network failures; the retry wrapper (WithRetry)
// exhausts those before the error ever reaches the orchestrator, so a
// ProviderError observed by the core is terminal for the run.
type ProviderError struct {
	Provider  string
	Retryable bool
	Cause     error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	kind := "fatal"
	if e.Retryable {
		kind = "retryable"
	}
	return fmt.Sprintf("provider %s: %s error: %v", e.Provider, kind, e.Cause)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *ProviderError) Unwrap() error { return e.Cause }

// NewProviderError wraps a provider failure.
func NewProviderError(provider string, retryable bool, cause error) *ProviderError {
	return &ProviderError{Provider: provider, Retryable: retryable, Cause: cause}
}
