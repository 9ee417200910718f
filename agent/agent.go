package agent

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/logging"
	"github.com/hupe1980/agentloop/memory"
	"github.com/hupe1980/agentloop/model"
	"github.com/hupe1980/agentloop/tool"
)

// InvalidModelResponseError reports a provider completion that could not be
// parsed into one of the three step outcome shapes. It terminates the run.
type InvalidModelResponseError struct {
	Agent  string
	Reason string
}

// Error implements the error interface.
func (e *InvalidModelResponseError) Error() string {
	return fmt.Sprintf("agent %s: invalid model response: %s", e.Agent, e.Reason)
}

// Options configure an Agent instance.
type Options struct {
	// Directive is the agent's behavioral instruction (system prompt).
	Directive Instruction
	// Tools registered into the agent's registry at construction.
	Tools []tool.Tool
	// Logger defaults to NoOp.
	Logger logging.Logger
}

// Agent is a named reasoning unit. It is immutable after construction
// within a run: the tool set, model binding and directive are fixed, and
// Step has no side effects on the memory or scratchpad it reads.
type Agent struct {
	name      string
	llm       model.Model
	directive Instruction
	registry  *tool.Registry
	logger    logging.Logger
}

// New creates an Agent with the given unique name and model binding. Tool
// registration errors (duplicate names, invalid schemas) surface here so a
// misconfigured agent never enters a run.
func New(name string, llm model.Model, optFns ...func(o *Options)) (*Agent, error) {
	if name == "" {
		return nil, fmt.Errorf("agent name must not be empty")
	}
	if llm == nil {
		return nil, fmt.Errorf("agent %s: model binding is required", name)
	}

	opts := Options{
		Directive: NewInstructionFromText(fmt.Sprintf("You are %s, a helpful AI assistant.", name)),
		Logger:    logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	registry := tool.NewRegistry()
	for _, t := range opts.Tools {
		if err := registry.Register(t); err != nil {
			return nil, fmt.Errorf("agent %s: %w", name, err)
		}
	}

	return &Agent{
		name:      name,
		llm:       llm,
		directive: opts.Directive,
		registry:  registry,
		logger:    opts.Logger,
	}, nil
}

// Name returns the agent's unique identifier.
func (a *Agent) Name() string { return a.name }

// Tools returns the agent's tool registry.
func (a *Agent) Tools() *tool.Registry { return a.registry }

// Model returns the agent's model binding.
func (a *Agent) Model() model.Model { return a.llm }

// Step executes one reasoning step: assemble context from memory, add the
// resolved directive and current scratchpad content, invoke the model and
// classify its response into the closed outcome set.
//
// peers names the other agents reachable by handoff this run; when non-empty
// the reserved handoff tool is added to the advertised tool surface.
//
// Step reads but never mutates mem and pad; committing the returned outcome
// is the orchestrator's job.
func (a *Agent) Step(ctx context.Context, mem *memory.Memory, pad *core.Scratchpad, peers []string) (core.StepOutcome, error) {
	vars := Vars{AgentName: a.name, Peers: peers, Tools: a.registry.Names()}
	directive, err := a.directive.Resolve(vars)
	if err != nil {
		return nil, fmt.Errorf("agent %s: failed to resolve directive: %w", a.name, err)
	}

	msgs := mem.AssembleContext(ctx)
	if notes := pad.Render(); notes != "" {
		msgs = append(msgs, core.Message{
			Role:    core.RoleSystem,
			Content: "Working notes from the current run:\n" + notes,
		})
	}

	req := model.Request{
		Directive: directive,
		Messages:  msgs,
		Tools:     a.registry.Definitions(),
	}
	if len(peers) > 0 {
		req.Tools = append(req.Tools, tool.HandoffDefinition(peers))
	}

	a.logger.Debug("agent.step.start", "agent", a.name, "context_entries", len(msgs), "tools", len(req.Tools))

	resp, err := a.llm.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	return a.classify(resp)
}

// classify maps a provider-neutral response onto the closed outcome set. A
// handoff call takes precedence over accompanying tool calls or text; a pure
// text completion is the final answer.
func (a *Agent) classify(resp *model.Response) (core.StepOutcome, error) {
	for _, tc := range resp.ToolCalls {
		if tc.Name != tool.HandoffToolName {
			continue
		}
		target, err := tool.ParseHandoffTarget(tc.Arguments)
		if err != nil {
			return nil, &InvalidModelResponseError{Agent: a.name, Reason: err.Error()}
		}
		return core.HandoffRequest{Target: target}, nil
	}

	if len(resp.ToolCalls) > 0 {
		calls := make([]core.ToolCall, len(resp.ToolCalls))
		for i, tc := range resp.ToolCalls {
			if tc.ID == "" {
				tc.ID = core.NewID()
			}
			calls[i] = tc
		}
		return core.ToolCallRequest{Calls: calls}, nil
	}

	if resp.Text != "" {
		return core.FinalAnswer{Content: resp.Text}, nil
	}

	return nil, &InvalidModelResponseError{
		Agent:  a.name,
		Reason: fmt.Sprintf("completion carries neither text nor tool calls (finish_reason=%q)", resp.FinishReason),
	}
}
