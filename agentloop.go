// Package agentloop provides a high-level façade over the orchestrator and
// its collaborators (agents, tools, memory, models & logging) enabling rapid
// construction of multi-agent reasoning loops. Most applications interact
// with this package by:
//  1. Creating an AgentLoop via New() (optionally tuning step/timeout limits)
//  2. Registering one or more agents with their tools and model bindings
//  3. Submitting user messages via Run and inspecting the returned result
//     and state snapshot
//
// The façade delegates orchestration to orchestrator.Orchestrator while
// keeping setup ergonomics concise. All defaults are safe for local
// development and testing; production deployments typically supply a real
// provider model and a structured logger.
package agentloop

import (
	"context"
	"time"

	"github.com/hupe1980/agentloop/agent"
	"github.com/hupe1980/agentloop/logging"
	"github.com/hupe1980/agentloop/orchestrator"
)

// Options configures the AgentLoop instance.
type Options struct {
	// MaxSteps bounds every run's step loop.
	MaxSteps int
	// ModelTimeout bounds each model invocation.
	ModelTimeout time.Duration
	// ToolTimeout bounds each individual tool call.
	ToolTimeout time.Duration
	// MaxParallelTools limits concurrent dispatch within one tool batch.
	MaxParallelTools int
	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// AgentLoop is the high-level façade aggregating the underlying orchestrator.
type AgentLoop struct {
	orchestrator *orchestrator.Orchestrator
}

// New creates a new AgentLoop instance with optional overrides.
func New(optFns ...func(o *Options)) *AgentLoop {
	opts := Options{
		MaxSteps:         25,
		ModelTimeout:     60 * time.Second,
		ToolTimeout:      15 * time.Second,
		MaxParallelTools: 4,
		Logger:           logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	orch := orchestrator.New(func(o *orchestrator.Options) {
		o.MaxSteps = opts.MaxSteps
		o.ModelTimeout = opts.ModelTimeout
		o.ToolTimeout = opts.ToolTimeout
		o.MaxParallelTools = opts.MaxParallelTools
		o.Logger = opts.Logger
	})

	return &AgentLoop{orchestrator: orch}
}

// RegisterAgent adds agents to the underlying orchestrator.
func (l *AgentLoop) RegisterAgent(agents ...*agent.Agent) error {
	return l.orchestrator.Register(agents...)
}

// Run submits a user message and drives the run to a terminal state,
// returning the result together with the full state snapshot.
func (l *AgentLoop) Run(ctx context.Context, message string, optFns ...func(ro *orchestrator.RunOptions)) (*orchestrator.Result, error) {
	return l.orchestrator.Run(ctx, message, optFns...)
}

// Orchestrator exposes the underlying orchestrator for advanced use.
func (l *AgentLoop) Orchestrator() *orchestrator.Orchestrator { return l.orchestrator }
