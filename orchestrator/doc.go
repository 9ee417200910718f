// Package orchestrator drives the agent execution loop: one agent step per
// tick, tool batch dispatch, handoff routing between named agents and run
// termination. It exclusively owns Memory, Scratchpad and orchestration
// State for the duration of a run, which serializes all state changes and
// removes the need for locks within a single run. Multiple independent runs
// may execute concurrently on one Orchestrator since each owns its own
// per-run state.
package orchestrator
