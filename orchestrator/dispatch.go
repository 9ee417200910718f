package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hupe1980/agentloop/agent"
	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/tool"
	"golang.org/x/sync/errgroup"
)

// dispatch executes a tool call batch, possibly concurrently, and returns
// one result per call in the order the model requested them regardless of
// completion timing. Tool-level failures (validation, execution, individual
// timeouts, unknown tools) are folded into their result so the model can
// react; dispatch itself only fails when the run was cancelled or every call
// in the batch timed out.
func (o *Orchestrator) dispatch(ctx context.Context, runID string, ag *agent.Agent, calls []core.ToolCall) ([]core.ToolResult, error) {
	results := make([]core.ToolResult, len(calls))
	timedOut := make([]bool, len(calls))

	g := new(errgroup.Group)
	g.SetLimit(o.opts.MaxParallelTools)

	for i, call := range calls {
		g.Go(func() error {
			results[i], timedOut[i] = o.invokeOne(ctx, runID, ag, call)
			return nil
		})
	}
	_ = g.Wait() // goroutines report through the results slice, never error

	// Cancelled before commit: discard in-flight results entirely.
	if err := ctx.Err(); err != nil {
		return nil, &CancelledError{Cause: err}
	}

	allTimedOut := len(calls) > 0
	for _, to := range timedOut {
		allTimedOut = allTimedOut && to
	}
	if allTimedOut {
		return nil, &BatchTimeoutError{Agent: ag.Name(), Calls: len(calls)}
	}

	return results, nil
}

// invokeOne runs a single tool call under its own timeout and renders the
// outcome as a ToolResult. The returned bool reports whether the call timed
// out.
func (o *Orchestrator) invokeOne(ctx context.Context, runID string, ag *agent.Agent, call core.ToolCall) (core.ToolResult, bool) {
	callCtx, cancel := context.WithTimeout(ctx, o.opts.ToolTimeout)
	defer cancel()

	tc := tool.NewContext(callCtx, runID, ag.Name(), call.ID, o.opts.Logger)
	value, err := ag.Tools().Invoke(tc, call.Name, call.Arguments)
	if err != nil {
		expired := errors.Is(err, context.DeadlineExceeded) ||
			(callCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil)
		return core.ToolResult{
			CallID:  call.ID,
			Name:    call.Name,
			Content: err.Error(),
			IsError: true,
		}, expired
	}

	return core.ToolResult{
		CallID:  call.ID,
		Name:    call.Name,
		Content: renderResult(value),
	}, false
}

// renderResult serializes a tool's return value for the transcript.
func renderResult(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		if data, err := json.Marshal(v); err == nil {
			return string(data)
		}
		return fmt.Sprintf("%v", v)
	}
}
