package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------- Message Tests --------------------

func TestMessageConstructors(t *testing.T) {
	user := NewUserMessage("hello")
	assert.Equal(t, RoleUser, user.Role)
	assert.Equal(t, "hello", user.Content)
	assert.False(t, user.Timestamp.IsZero())

	assistant := NewAssistantMessage("hi")
	assert.Equal(t, RoleAssistant, assistant.Role)

	calls := []ToolCall{{ID: "c1", Name: "sum_numbers", Arguments: `{"a":1,"b":2}`}}
	tcMsg := NewToolCallMessage(calls)
	assert.Equal(t, RoleAssistant, tcMsg.Role)
	assert.Empty(t, tcMsg.Content)
	require.Len(t, tcMsg.ToolCalls, 1)
	assert.Equal(t, "sum_numbers", tcMsg.ToolCalls[0].Name)

	resMsg := NewToolResultMessage(ToolResult{CallID: "c1", Name: "sum_numbers", Content: "3"})
	assert.Equal(t, RoleTool, resMsg.Role)
	require.NotNil(t, resMsg.ToolResult)
	assert.Equal(t, "3", resMsg.ToolResult.Content)
}

func TestNewIDUnique(t *testing.T) {
	a, b := NewID(), NewID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

// -------------------- Scratchpad Tests --------------------

func TestScratchpadOrderAndClear(t *testing.T) {
	pad := NewScratchpad()
	assert.Equal(t, 0, pad.Len())
	assert.Empty(t, pad.Render())

	pad.AddToolResult("MathAgent", ToolResult{CallID: "c1", Name: "sum_numbers", Content: "10"})
	pad.AddHandoff("MathAgent", "WeatherAgent")
	pad.Add(Note{Kind: NoteText, Text: "intermediate thought"})

	notes := pad.Notes()
	require.Len(t, notes, 3)
	assert.Equal(t, NoteToolResult, notes[0].Kind)
	assert.Equal(t, NoteHandoff, notes[1].Kind)
	assert.Equal(t, NoteText, notes[2].Kind)
	assert.False(t, notes[0].Timestamp.IsZero())

	// Notes returns a copy; mutating it does not affect the pad.
	notes[0].Text = "mutated"
	assert.NotEqual(t, "mutated", pad.Notes()[0].Text)

	pad.Clear()
	assert.Equal(t, 0, pad.Len())
}

func TestScratchpadRender(t *testing.T) {
	pad := NewScratchpad()
	pad.AddToolResult("A", ToolResult{CallID: "c1", Name: "sum_numbers", Content: "10"})
	pad.AddToolResult("A", ToolResult{CallID: "c2", Name: "divide_numbers", Content: "division by zero", IsError: true})
	pad.AddHandoff("A", "B")

	rendered := pad.Render()
	assert.Contains(t, rendered, "sum_numbers")
	assert.Contains(t, rendered, "10")
	assert.Contains(t, rendered, "error")
	assert.Contains(t, rendered, "A -> B")

	lines := strings.Split(rendered, "\n")
	assert.Len(t, lines, 3)
}

// -------------------- State Tests --------------------

func TestStateKnowsAndClone(t *testing.T) {
	names := []string{"A", "B"}
	state := NewState("A", names)
	assert.Equal(t, "A", state.CurrentAgentName)
	assert.True(t, state.Knows("B"))
	assert.False(t, state.Knows("C"))

	// The caller's slice is not retained.
	names[1] = "Z"
	assert.True(t, state.Knows("B"))

	state.NextAgentName = "B"
	clone := state.Clone()
	clone.CurrentAgentName = "B"
	clone.AgentNames[0] = "X"
	assert.Equal(t, "A", state.CurrentAgentName)
	assert.True(t, state.Knows("A"))
	assert.Equal(t, "B", clone.NextAgentName)
}

// -------------------- Outcome Tests --------------------

func TestStepOutcomeShapes(t *testing.T) {
	outcomes := []StepOutcome{
		ToolCallRequest{Calls: []ToolCall{{Name: "sum_numbers"}}},
		HandoffRequest{Target: "B"},
		FinalAnswer{Content: "done"},
	}

	var tools, handoffs, finals int
	for _, out := range outcomes {
		switch out.(type) {
		case ToolCallRequest:
			tools++
		case HandoffRequest:
			handoffs++
		case FinalAnswer:
			finals++
		}
	}
	assert.Equal(t, 1, tools)
	assert.Equal(t, 1, handoffs)
	assert.Equal(t, 1, finals)
}
