package orchestrator

import (
	"fmt"
	"strings"
)

// UnknownAgentError reports a handoff target (or entry agent) that is not a
// registered member of the run's agent set. It terminates the run.
type UnknownAgentError struct {
	Name  string
	Known []string
}

// Error implements the error interface.
func (e *UnknownAgentError) Error() string {
	return fmt.Sprintf("unknown agent %q (known: %s)", e.Name, strings.Join(e.Known, ", "))
}

// StepLimitExceededError reports a run that consumed its configured step
// budget without reaching a final answer. It is the liveness guard against
// infinite tool or handoff cycles.
type StepLimitExceededError struct {
	Limit int
}

// Error implements the error interface.
func (e *StepLimitExceededError) Error() string {
	return fmt.Sprintf("step limit of %d exceeded without a final answer", e.Limit)
}

// CancelledError reports an externally cancelled run. In-flight but
// uncommitted tool results are discarded; the state snapshot reflects the
// last committed step.
type CancelledError struct {
	Cause error
}

// Error implements the error interface.
func (e *CancelledError) Error() string {
	return fmt.Sprintf("run cancelled: %v", e.Cause)
}

// Unwrap exposes the underlying context error.
func (e *CancelledError) Unwrap() error { return e.Cause }

// BatchTimeoutError reports a tool batch in which every call timed out,
// which fails the step (a partially timed-out batch does not: individual
// timeouts are recorded as tool results).
type BatchTimeoutError struct {
	Agent string
	Calls int
}

// Error implements the error interface.
func (e *BatchTimeoutError) Error() string {
	return fmt.Sprintf("agent %s: all %d tool calls in batch timed out", e.Agent, e.Calls)
}
