package core

import (
	"fmt"
	"strings"
	"time"
)

// NoteKind categorizes scratchpad entries.
type NoteKind string

const (
	// NoteToolResult records a dispatched tool call and its outcome.
	NoteToolResult NoteKind = "tool_result"
	// NoteHandoff marks a transfer of control between agents.
	NoteHandoff NoteKind = "handoff"
	// NoteText is free-form intermediate content.
	NoteText NoteKind = "text"
)

// Note is one ephemeral intermediate artifact produced within the current
// run.
type Note struct {
	Kind      NoteKind    `json:"kind"`
	Agent     string      `json:"agent,omitempty"`
	Text      string      `json:"text,omitempty"`
	Result    *ToolResult `json:"result,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Scratchpad is the ordered per-run working memory. It is owned and mutated
// exclusively by the orchestrator, cleared at run boundaries and never folded
// into long-term memory unless a caller explicitly does so with the returned
// snapshot.
//
// Scratchpad is not safe for concurrent mutation; the single-writer ownership
// rule makes locks unnecessary within one run.
type Scratchpad struct {
	notes []Note
}

// NewScratchpad returns an empty scratchpad.
func NewScratchpad() *Scratchpad { return &Scratchpad{} }

// Add appends a note preserving insertion order.
func (s *Scratchpad) Add(n Note) {
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now().UTC()
	}
	s.notes = append(s.notes, n)
}

// AddToolResult appends a tool result note.
func (s *Scratchpad) AddToolResult(agent string, result ToolResult) {
	s.Add(Note{Kind: NoteToolResult, Agent: agent, Result: &result})
}

// AddHandoff appends a transition marker from one agent to another.
func (s *Scratchpad) AddHandoff(from, to string) {
	s.Add(Note{Kind: NoteHandoff, Agent: from, Text: to})
}

// Notes returns a copy of the recorded notes in insertion order.
func (s *Scratchpad) Notes() []Note {
	out := make([]Note, len(s.notes))
	copy(out, s.notes)
	return out
}

// Len returns the number of recorded notes.
func (s *Scratchpad) Len() int { return len(s.notes) }

// Clear discards all notes. Called by the orchestrator at run boundaries.
func (s *Scratchpad) Clear() { s.notes = nil }

// Render flattens the scratchpad into a compact textual form suitable for
// inclusion in a model prompt. Returns "" when empty.
func (s *Scratchpad) Render() string {
	if len(s.notes) == 0 {
		return ""
	}
	var b strings.Builder
	for _, n := range s.notes {
		switch n.Kind {
		case NoteToolResult:
			status := "ok"
			if n.Result.IsError {
				status = "error"
			}
			fmt.Fprintf(&b, "[tool %s %s] %s\n", n.Result.Name, status, n.Result.Content)
		case NoteHandoff:
			fmt.Fprintf(&b, "[handoff] %s -> %s\n", n.Agent, n.Text)
		default:
			fmt.Fprintf(&b, "%s\n", n.Text)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
