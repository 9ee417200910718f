// Package tool implements the function calling subsystem that lets agents
// invoke structured capabilities (APIs, computations, side effects) with
// schema validated arguments and consistent error handling.
package tool

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentloop/logging"
)

// Tool defines the interface for extending agent capabilities with external
// functions.
//
// Tool implementations should:
//   - Provide clear, descriptive names and descriptions
//   - Define a proper JSON schema for parameters
//   - Be safe for concurrent use across runs (stateless or internally
//     synchronized)
//   - Fail informatively: a returned error is recorded as a tool result the
//     model can react to, it never aborts the run
type Tool interface {
	// Name returns the unique identifier for this tool within an agent's
	// registry (snake_case recommended).
	Name() string

	// Description returns a human-readable description provided to the LLM
	// so it understands when and how to use the tool.
	Description() string

	// Parameters returns a JSON schema describing the expected argument
	// shape. It is used for validation and for the provider tool surface.
	Parameters() map[string]any

	// Call executes the tool with already validated arguments.
	Call(tc *Context, args map[string]any) (any, error)
}

// Context carries per-call metadata into a tool execution. The embedded
// context.Context controls cancellation and the per-call timeout.
type Context struct {
	context.Context

	RunID     string
	AgentName string
	CallID    string
	Logger    logging.Logger
}

// NewContext builds a tool call context. A nil logger defaults to NoOp.
func NewContext(ctx context.Context, runID, agentName, callID string, logger logging.Logger) *Context {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Context{Context: ctx, RunID: runID, AgentName: agentName, CallID: callID, Logger: logger}
}

// DuplicateToolNameError reports a Register call colliding with an existing
// tool name.
type DuplicateToolNameError struct {
	Name string
}

// Error implements the error interface.
func (e *DuplicateToolNameError) Error() string {
	return fmt.Sprintf("tool %q already registered", e.Name)
}

// NotFoundError reports an invocation of an unregistered tool.
type NotFoundError struct {
	Name string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("tool %q not found", e.Name)
}

// SchemaValidationError reports arguments that do not satisfy the declared
// parameter schema. Field names the offending field.
type SchemaValidationError struct {
	Tool    string
	Field   string
	Message string
}

// Error implements the error interface.
func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("tool %s: validation failed for field %q: %s", e.Tool, e.Field, e.Message)
}

// ExecutionError wraps a failure inside a tool's execute capability. It is
// non-fatal by design: the orchestrator records it as a tool result instead
// of failing the run.
type ExecutionError struct {
	Tool  string
	Cause error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("tool %s execution failed: %v", e.Tool, e.Cause)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *ExecutionError) Unwrap() error { return e.Cause }
