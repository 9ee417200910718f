package agent

import "github.com/hupe1980/agentloop/internal/util"

// Vars are the runtime variables a directive template can reference.
type Vars struct {
	AgentName string
	Peers     []string
	Tools     []string
}

// Provider supplies dynamic directive text at runtime. Implementations can
// derive instructions from environment, clocks, feature flags, etc.
type Provider interface {
	Instruction(vars Vars) (string, error)
}

// Func is a functional adapter to allow ordinary functions to be used as Providers.
type Func func(vars Vars) (string, error)

// Instruction implements Provider.
func (f Func) Instruction(vars Vars) (string, error) { return f(vars) }

// Instruction represents either a static directive string or a dynamic
// provider. Static text may use Go template syntax against Vars, e.g.
// "You are {{.AgentName}}. Peers: {{join .Peers \", \"}}".
type Instruction struct {
	text     string
	provider Provider
}

// NewInstructionFromText creates an Instruction from a static string.
func NewInstructionFromText(text string) Instruction { return Instruction{text: text} }

// NewInstructionFromProvider creates an Instruction from a dynamic provider.
func NewInstructionFromProvider(p Provider) Instruction { return Instruction{provider: p} }

// NewInstructionFromFunc creates an Instruction from a function.
func NewInstructionFromFunc(f func(vars Vars) (string, error)) Instruction {
	return Instruction{provider: Func(f)}
}

// IsStatic returns true if the instruction is backed by a static string.
func (i Instruction) IsStatic() bool { return i.provider == nil }

// Resolve returns the directive text, invoking the provider and rendering
// template variables as needed.
func (i Instruction) Resolve(vars Vars) (string, error) {
	text := i.text
	if i.provider != nil {
		var err error
		if text, err = i.provider.Instruction(vars); err != nil {
			return "", err
		}
	}
	return util.RenderTemplate(text, map[string]any{
		"AgentName": vars.AgentName,
		"Peers":     vars.Peers,
		"Tools":     vars.Tools,
	})
}
