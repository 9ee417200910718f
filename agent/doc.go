// Package agent implements the named reasoning unit of the runtime. An
// Agent owns a tool registry, a model binding and a behavioral directive,
// and produces exactly one step outcome per invocation: a tool call batch, a
// handoff or a final answer. Agents never mutate memory or the scratchpad;
// they return requests the orchestrator commits.
package agent
