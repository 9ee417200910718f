package core

import "slices"

// State tracks whose turn it is within a run. It is created at run start with
// CurrentAgentName set to the entry agent, mutated only by the orchestrator
// on each step and returned to the caller once the run reaches a terminal
// state. NextAgentName is set when a handoff is requested and cleared as soon
// as it is consumed on the following step.
type State struct {
	CurrentAgentName string   `json:"current_agent_name"`
	NextAgentName    string   `json:"next_agent_name,omitempty"`
	AgentNames       []string `json:"agents"`
}

// NewState creates the orchestration state for a run entering at entry.
// AgentNames is copied; the caller's slice is not retained.
func NewState(entry string, agentNames []string) *State {
	return &State{
		CurrentAgentName: entry,
		AgentNames:       slices.Clone(agentNames),
	}
}

// Knows reports whether name is a registered agent in this run.
func (s *State) Knows(name string) bool {
	return slices.Contains(s.AgentNames, name)
}

// Clone returns an independent copy, used for terminal snapshots.
func (s *State) Clone() *State {
	return &State{
		CurrentAgentName: s.CurrentAgentName,
		NextAgentName:    s.NextAgentName,
		AgentNames:       slices.Clone(s.AgentNames),
	}
}
