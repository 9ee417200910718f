package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/model"
)

// Compactor folds a run of transcript entries into a single summary string
// when they are evicted from the short-term window.
type Compactor interface {
	Fold(ctx context.Context, entries []core.Message) (string, error)
}

// TruncateCompactor is the deterministic fallback: it flattens the entries
// into "role: content" lines and truncates the result to MaxChars. It never
// fails, which keeps compaction (and therefore the run) live when no
// summarizing model is bound.
type TruncateCompactor struct {
	MaxChars int
}

// Fold implements Compactor.
func (c TruncateCompactor) Fold(_ context.Context, entries []core.Message) (string, error) {
	maxChars := c.MaxChars
	if maxChars <= 0 {
		maxChars = 2000
	}

	var b strings.Builder
	for _, msg := range entries {
		line := flatten(msg)
		if line == "" {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	out := strings.TrimRight(b.String(), "\n")
	if len(out) > maxChars {
		out = out[:maxChars] + "…"
	}
	return out, nil
}

// SummaryCompactor produces a model generated summary of evicted entries.
type SummaryCompactor struct {
	llm model.Model
}

// NewSummaryCompactor binds a compactor to a summarizing model.
func NewSummaryCompactor(llm model.Model) *SummaryCompactor {
	return &SummaryCompactor{llm: llm}
}

// Fold implements Compactor.
func (c *SummaryCompactor) Fold(ctx context.Context, entries []core.Message) (string, error) {
	var b strings.Builder
	for _, msg := range entries {
		if line := flatten(msg); line != "" {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}

	resp, err := c.llm.Complete(ctx, model.Request{
		Directive: "You compress conversation transcripts. Summarize the following exchange in a few sentences, preserving facts, decisions and unresolved questions.",
		Messages:  []core.Message{core.NewUserMessage(b.String())},
	})
	if err != nil {
		return "", fmt.Errorf("summary compaction failed: %w", err)
	}
	if resp.Text == "" {
		return "", fmt.Errorf("summary compaction returned empty text")
	}
	return resp.Text, nil
}

// flatten renders one message as a single summary input line.
func flatten(msg core.Message) string {
	switch {
	case msg.ToolResult != nil:
		status := "ok"
		if msg.ToolResult.IsError {
			status = "error"
		}
		return fmt.Sprintf("tool %s (%s): %s", msg.ToolResult.Name, status, msg.ToolResult.Content)
	case len(msg.ToolCalls) > 0:
		names := make([]string, len(msg.ToolCalls))
		for i, tc := range msg.ToolCalls {
			names[i] = tc.Name
		}
		return fmt.Sprintf("%s requested tools: %s", msg.Role, strings.Join(names, ", "))
	case msg.Content != "":
		return fmt.Sprintf("%s: %s", msg.Role, msg.Content)
	}
	return ""
}
