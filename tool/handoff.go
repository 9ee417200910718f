package tool

import (
	"encoding/json"
	"fmt"

	"github.com/hupe1980/agentloop/model"
)

// HandoffToolName is the reserved function name through which models request
// transfer of control to another agent. It is injected into the tool surface
// by the agent layer when peers exist and is never dispatched through a
// Registry: the orchestrator consumes it as a handoff.
const HandoffToolName = "handoff_to_agent"

// HandoffDefinition builds the provider tool definition advertising the
// given peer agents as valid handoff targets.
func HandoffDefinition(peers []string) model.ToolDefinition {
	agentSchema := map[string]any{
		"type":        "string",
		"description": "Name of the agent to receive control",
	}
	if len(peers) > 0 {
		agentSchema["enum"] = peers
	}
	return model.ToolDefinition{
		Name:        HandoffToolName,
		Description: "Transfer control of the conversation to another agent by name. Use when another agent is better suited to continue.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"agent": agentSchema,
			},
			"required": []string{"agent"},
		},
	}
}

// ParseHandoffTarget extracts the target agent name from the raw arguments
// of a handoff_to_agent call.
func ParseHandoffTarget(rawArgs string) (string, error) {
	var args struct {
		Agent string `json:"agent"`
	}
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		return "", fmt.Errorf("malformed handoff arguments: %w", err)
	}
	if args.Agent == "" {
		return "", fmt.Errorf("handoff arguments missing required field 'agent'")
	}
	return args.Agent, nil
}
