// Package core contains the shared data model of the agentloop runtime:
// conversational messages, tool call / tool result metadata, the closed set
// of step outcomes an agent can produce, the per-run scratchpad and the
// orchestration state snapshot.
//
// The package imports none of the module's other packages so every other
// package can import it without cycles. It defines data, not behavior: the orchestrator
// owns all mutation of Memory, Scratchpad and State for the duration of a
// run; agents and tools only read and propose.
package core
