package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/agentloop/agent"
	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/logging"
	"github.com/hupe1980/agentloop/memory"
)

// Status is the terminal state of a run.
type Status string

const (
	// StatusCompleted marks a run that produced a final answer.
	StatusCompleted Status = "completed"
	// StatusFailed marks a run terminated by a structural failure.
	StatusFailed Status = "failed"
)

// Snapshot is the full run state returned to the caller so a run can be
// inspected or resumed: the memory instance, the scratchpad and the
// orchestration state at termination time.
type Snapshot struct {
	Memory     *memory.Memory
	Scratchpad *core.Scratchpad
	State      *core.State
}

// Result is the outcome of a run. Err is populated when Status is
// StatusFailed; the snapshot is always populated so callers can inspect
// partial progress after a failure.
type Result struct {
	RunID       string
	Status      Status
	FinalAnswer string
	Err         error
	Steps       int
	State       Snapshot
}

// Options configure an Orchestrator.
type Options struct {
	// MaxSteps bounds the step loop; exceeding it fails the run with
	// StepLimitExceededError.
	MaxSteps int
	// ModelTimeout bounds each model invocation.
	ModelTimeout time.Duration
	// ToolTimeout bounds each individual tool call.
	ToolTimeout time.Duration
	// MaxParallelTools limits concurrent dispatch within one tool batch.
	MaxParallelTools int
	// Logger defaults to NoOp.
	Logger logging.Logger
}

// RunOptions configure a single run.
type RunOptions struct {
	// EntryAgent receives the first step. Defaults to the first registered
	// agent.
	EntryAgent string
	// Memory lets a caller resume a run from a previous snapshot. A fresh
	// Memory is created when nil.
	Memory *memory.Memory
}

// Orchestrator routes control between registered agents and drives runs to
// a terminal state. Registration is expected to complete before runs start;
// both are nevertheless safe to interleave.
type Orchestrator struct {
	mu     sync.RWMutex
	agents map[string]*agent.Agent
	order  []string

	opts Options
}

// New creates an Orchestrator.
func New(optFns ...func(o *Options)) *Orchestrator {
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
	return &Orchestrator{
		agents: make(map[string]*agent.Agent),
		opts:   opts,
	}
}

// Register adds an agent, making it a valid entry point and handoff target.
// Agent names are unique; re-registering a name is an error.
func (o *Orchestrator) Register(agents ...*agent.Agent) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, a := range agents {
		if _, exists := o.agents[a.Name()]; exists {
			return fmt.Errorf("agent %q already registered", a.Name())
		}
		o.agents[a.Name()] = a
		o.order = append(o.order, a.Name())
	}
	return nil
}

// AgentNames returns the registered agent names in registration order.
func (o *Orchestrator) AgentNames() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]string, len(o.order))
	copy(out, o.order)
	return out
}

// Run executes the step loop for one user message until a terminal state.
//
// Run returns an error only when the run cannot start (no agents, unknown
// entry agent). Failures during the run — invalid model responses, unknown
// handoff targets, step limit, cancellation — terminate the run and are
// reported via Result.Status / Result.Err together with the state snapshot
// at failure time.
func (o *Orchestrator) Run(ctx context.Context, initialMessage string, optFns ...func(ro *RunOptions)) (*Result, error) {
	var runOpts RunOptions
	for _, fn := range optFns {
		fn(&runOpts)
	}

	names := o.AgentNames()
	if len(names) == 0 {
		return nil, fmt.Errorf("no agents registered")
	}
	entry := runOpts.EntryAgent
	if entry == "" {
		entry = names[0]
	}
	if _, ok := o.agent(entry); !ok {
		return nil, &UnknownAgentError{Name: entry, Known: names}
	}

	mem := runOpts.Memory
	if mem == nil {
		mem = memory.New()
	}
	pad := core.NewScratchpad()
	state := core.NewState(entry, names)
	runID := core.NewID()
	logger := o.opts.Logger

	mem.Append(core.NewUserMessage(initialMessage))
	logger.Info("run.start", "run_id", runID, "entry_agent", entry, "agents", len(names))

	r := &run{
		orchestrator: o,
		id:           runID,
		mem:          mem,
		pad:          pad,
		state:        state,
		logger:       logger,
	}
	return r.loop(ctx)
}

// agent looks up a registered agent by name.
func (o *Orchestrator) agent(name string) (*agent.Agent, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	a, ok := o.agents[name]
	return a, ok
}

// run carries the per-run state owned exclusively by the orchestrator.
type run struct {
	orchestrator *Orchestrator
	id           string
	mem          *memory.Memory
	pad          *core.Scratchpad
	state        *core.State
	steps        int
	logger       logging.Logger
}

// loop drives steps until a terminal state is reached.
func (r *run) loop(ctx context.Context) (*Result, error) {
	opts := r.orchestrator.opts

	for {
		// Cancellation is checked between steps so a cancelled run never
		// commits partial work from an abandoned step.
		if err := ctx.Err(); err != nil {
			return r.fail(&CancelledError{Cause: err}), nil
		}
		if r.steps >= opts.MaxSteps {
			return r.fail(&StepLimitExceededError{Limit: opts.MaxSteps}), nil
		}
		r.steps++

		current := r.state.CurrentAgentName
		ag, ok := r.orchestrator.agent(current)
		if !ok {
			return r.fail(&UnknownAgentError{Name: current, Known: r.state.AgentNames}), nil
		}

		peers := make([]string, 0, len(r.state.AgentNames)-1)
		for _, name := range r.state.AgentNames {
			if name != current {
				peers = append(peers, name)
			}
		}

		stepCtx, cancel := context.WithTimeout(ctx, opts.ModelTimeout)
		outcome, err := ag.Step(stepCtx, r.mem, r.pad, peers)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return r.fail(&CancelledError{Cause: ctx.Err()}), nil
			}
			return r.fail(err), nil
		}

		switch out := outcome.(type) {
		case core.ToolCallRequest:
			if done, res := r.commitToolBatch(ctx, ag, out.Calls); done {
				return res, nil
			}

		case core.HandoffRequest:
			if !r.state.Knows(out.Target) {
				return r.fail(&UnknownAgentError{Name: out.Target, Known: r.state.AgentNames}), nil
			}
			r.state.NextAgentName = out.Target
			r.pad.AddHandoff(current, out.Target)
			r.state.CurrentAgentName = out.Target
			r.state.NextAgentName = ""
			r.logger.Info("run.handoff", "run_id", r.id, "from", current, "to", out.Target, "step", r.steps)

		case core.FinalAnswer:
			r.mem.Append(core.NewAssistantMessage(out.Content))
			r.logger.Info("run.completed", "run_id", r.id, "steps", r.steps)
			return &Result{
				RunID:       r.id,
				Status:      StatusCompleted,
				FinalAnswer: out.Content,
				Steps:       r.steps,
				State:       r.snapshot(),
			}, nil

		default:
			return r.fail(fmt.Errorf("agent %s returned unsupported outcome %T", current, outcome)), nil
		}
	}
}

// commitToolBatch dispatches a tool call batch and commits the results in
// request order. It returns (true, result) when the run reached a terminal
// state during the batch.
func (r *run) commitToolBatch(ctx context.Context, ag *agent.Agent, calls []core.ToolCall) (bool, *Result) {
	r.mem.Append(core.NewToolCallMessage(calls))

	results, err := r.orchestrator.dispatch(ctx, r.id, ag, calls)
	if err != nil {
		// Cancellation or whole-batch timeout: nothing is committed.
		return true, r.fail(err)
	}

	// Committed in the order the model requested the calls, regardless of
	// completion order, so the transcript is reproducible.
	for _, res := range results {
		r.mem.Append(core.NewToolResultMessage(res))
		r.pad.AddToolResult(ag.Name(), res)
	}
	r.mem.CompactIfNeeded(ctx)
	return false, nil
}

// fail produces the terminal failed result carrying the state snapshot at
// failure time so callers can inspect partial progress.
func (r *run) fail(err error) *Result {
	var cancelled *CancelledError
	if errors.As(err, &cancelled) {
		r.logger.Warn("run.cancelled", "run_id", r.id, "steps", r.steps)
	} else {
		r.logger.Error("run.failed", "run_id", r.id, "steps", r.steps, "error", err.Error())
	}
	return &Result{
		RunID:  r.id,
		Status: StatusFailed,
		Err:    err,
		Steps:  r.steps,
		State:  r.snapshot(),
	}
}

// snapshot exposes the run state to the caller. Memory and scratchpad are
// handed over by reference: after termination the orchestrator no longer
// touches them, transferring ownership to the caller.
func (r *run) snapshot() Snapshot {
	return Snapshot{
		Memory:     r.mem,
		Scratchpad: r.pad,
		State:      r.state.Clone(),
	}
}
