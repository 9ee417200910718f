package core

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the conversational author of a Message.
type Role string

const (
	// RoleSystem marks directive / instruction content.
	RoleSystem Role = "system"
	// RoleUser marks caller supplied input.
	RoleUser Role = "user"
	// RoleAssistant marks model generated content (text or tool calls).
	RoleAssistant Role = "assistant"
	// RoleTool marks the result of a dispatched tool call.
	RoleTool Role = "tool"
)

// ToolCall is a single tool invocation requested by the model. Arguments is
// the raw JSON payload exactly as the provider returned it; validation
// happens later in the tool registry.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments,omitempty"`
}

// ToolResult is the recorded outcome of a ToolCall. A failed call is not an
// exceptional condition at this layer: IsError is set and Content carries the
// error text so the model can react to it on the next step.
type ToolResult struct {
	CallID  string `json:"call_id"`
	Name    string `json:"name"`
	Content string `json:"content"`
	IsError bool   `json:"is_error,omitempty"`
}

// Message is one ordered entry of conversational memory. Exactly one of the
// optional payloads is populated beyond Content:
//
//   - RoleAssistant messages may carry ToolCalls when the model requested
//     tool execution instead of (or in addition to) text.
//   - RoleTool messages carry a ToolResult.
//
// Insertion order is significant; Memory preserves it.
type Message struct {
	Role       Role        `json:"role"`
	Content    string      `json:"content,omitempty"`
	ToolCalls  []ToolCall  `json:"tool_calls,omitempty"`
	ToolResult *ToolResult `json:"tool_result,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}

// NewUserMessage creates a user-authored text message.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content, Timestamp: time.Now().UTC()}
}

// NewAssistantMessage creates an assistant text message.
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content, Timestamp: time.Now().UTC()}
}

// NewToolCallMessage records an assistant turn that requested tool execution.
func NewToolCallMessage(calls []ToolCall) Message {
	return Message{Role: RoleAssistant, ToolCalls: calls, Timestamp: time.Now().UTC()}
}

// NewToolResultMessage records the outcome of a previously requested call.
func NewToolResultMessage(result ToolResult) Message {
	return Message{Role: RoleTool, ToolResult: &result, Timestamp: time.Now().UTC()}
}

// NewID generates a unique identifier for runs and tool calls.
func NewID() string { return uuid.NewString() }
