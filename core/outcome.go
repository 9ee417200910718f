package core

// StepOutcome is the closed set of results a single agent step can produce.
// Concrete outcomes implement the unexported marker so the set cannot be
// extended outside this package; the orchestrator switches exhaustively over
// the three shapes.
type StepOutcome interface{ isStepOutcome() }

// ToolCallRequest asks the orchestrator to dispatch one or more tool calls
// before the agent takes its next step. Calls must be committed to memory in
// the order requested, regardless of completion order.
type ToolCallRequest struct {
	Calls []ToolCall
}

func (ToolCallRequest) isStepOutcome() {}

// HandoffRequest asks the orchestrator to transfer control to another named
// agent. Target must be a registered agent; an unknown name fails the run.
type HandoffRequest struct {
	Target string
}

func (HandoffRequest) isStepOutcome() {}

// FinalAnswer is terminal content for the run.
type FinalAnswer struct {
	Content string
}

func (FinalAnswer) isStepOutcome() {}
