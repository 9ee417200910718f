package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/logging"
)

// Block is a compacted segment of older history evicted from the short-term
// window. From/To is the half-open message index range it replaces.
type Block struct {
	ID      string `json:"id"`
	Summary string `json:"summary"`
	Tokens  int    `json:"tokens"`
	From    int    `json:"from"`
	To      int    `json:"to"`
}

// Options configure a Memory instance.
type Options struct {
	// TokenLimit is the maximum token budget for what is sent to the model.
	TokenLimit int
	// ShortTermRatio is the fraction of TokenLimit reserved for the most
	// recent entries kept verbatim; the remainder is available for blocks.
	ShortTermRatio float64
	// Counter estimates token costs. Defaults to HeuristicCounter.
	Counter Counter
	// Compactor folds evicted entries into blocks. Defaults to
	// TruncateCompactor.
	Compactor Compactor
	// Logger records adapter warnings. Defaults to NoOp.
	Logger logging.Logger
}

// Memory maintains the ordered transcript of a run under a token budget.
//
// Invariants maintained across all operations:
//
//   - the token cost of an assembled context never exceeds TokenLimit
//   - the compaction cursor is monotonically non-decreasing and never
//     exceeds the message count
//
// Memory is owned exclusively by the orchestrator for the duration of a run
// and is not synchronized internally; independent runs must each own their
// own instance.
type Memory struct {
	msgs     []core.Message
	blocks   []Block
	cursor   int
	adapters []Adapter

	tokenLimit     int
	shortTermRatio float64
	counter        Counter
	compactor      Compactor
	logger         logging.Logger
}

// New creates an empty Memory with the given budget configuration.
func New(optFns ...func(o *Options)) *Memory {
	opts := Options{
		TokenLimit:     8192,
		ShortTermRatio: 0.75,
		Counter:        HeuristicCounter{},
		Compactor:      TruncateCompactor{},
		Logger:         logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.ShortTermRatio <= 0 || opts.ShortTermRatio > 1 {
		opts.ShortTermRatio = 0.75
	}
	return &Memory{
		tokenLimit:     opts.TokenLimit,
		shortTermRatio: opts.ShortTermRatio,
		counter:        opts.Counter,
		compactor:      opts.Compactor,
		logger:         opts.Logger,
	}
}

// RegisterAdapter appends a context assembly transform. Adapters run in
// registration order; registering a duplicate name is an error.
func (m *Memory) RegisterAdapter(a Adapter) error {
	for _, existing := range m.adapters {
		if existing.Name() == a.Name() {
			return fmt.Errorf("memory adapter %q already registered", a.Name())
		}
	}
	m.adapters = append(m.adapters, a)
	return nil
}

// Adapter returns the registered adapter with the given name.
func (m *Memory) Adapter(name string) (Adapter, bool) {
	for _, a := range m.adapters {
		if a.Name() == name {
			return a, true
		}
	}
	return nil, false
}

// Append adds an entry to the transcript. It advances nothing else;
// compaction is a separate, explicitly triggered step (CompactIfNeeded).
func (m *Memory) Append(msg core.Message) {
	m.msgs = append(m.msgs, msg)
}

// Messages returns a copy of the full transcript in insertion order.
func (m *Memory) Messages() []core.Message {
	return slices.Clone(m.msgs)
}

// Blocks returns a copy of the compacted memory blocks, oldest first.
func (m *Memory) Blocks() []Block {
	return slices.Clone(m.blocks)
}

// Cursor returns how many leading messages have been folded into blocks.
func (m *Memory) Cursor() int { return m.cursor }

// Len returns the number of transcript entries.
func (m *Memory) Len() int { return len(m.msgs) }

// TokenLimit returns the configured budget.
func (m *Memory) TokenLimit() int { return m.tokenLimit }

// shortTermBudget is the token allowance of the verbatim window.
func (m *Memory) shortTermBudget() int {
	return int(float64(m.tokenLimit) * m.shortTermRatio)
}

// cost estimates the token cost of one entry including a small per-message
// role overhead.
func (m *Memory) cost(msg core.Message) int {
	const overhead = 4
	total := overhead + m.counter.Count(msg.Content)
	for _, tc := range msg.ToolCalls {
		total += m.counter.Count(tc.Name) + m.counter.Count(tc.Arguments)
	}
	if msg.ToolResult != nil {
		total += m.counter.Count(msg.ToolResult.Name) + m.counter.Count(msg.ToolResult.Content)
	}
	return total
}

// shortTermCost is the cost of all entries not yet folded into blocks.
func (m *Memory) shortTermCost() int {
	total := 0
	for _, msg := range m.msgs[m.cursor:] {
		total += m.cost(msg)
	}
	return total
}

// NeedsCompaction reports whether the verbatim window exceeds its ratio of
// the budget. Compaction is lazy: nothing happens for short runs.
func (m *Memory) NeedsCompaction() bool {
	return m.shortTermCost() > m.shortTermBudget()
}

// CompactIfNeeded folds the oldest uncompacted entries into a new block when
// the short-term window is over budget. The cursor only ever advances.
//
// A failing compactor is degraded to deterministic truncation rather than
// propagated: losing summary quality is preferable to failing the run.
func (m *Memory) CompactIfNeeded(ctx context.Context) {
	if !m.NeedsCompaction() {
		return
	}

	budget := m.shortTermBudget()

	// Fold the smallest prefix of uncompacted entries that brings the
	// remainder back within the window budget. Always fold at least one.
	fold := 1
	remaining := m.shortTermCost() - m.cost(m.msgs[m.cursor])
	for m.cursor+fold < len(m.msgs) && remaining > budget {
		remaining -= m.cost(m.msgs[m.cursor+fold])
		fold++
	}

	evicted := m.msgs[m.cursor : m.cursor+fold]
	summary, err := m.compactor.Fold(ctx, evicted)
	if err != nil {
		m.logger.Warn("memory.compact.fallback", "error", err.Error(), "entries", fold)
		summary, _ = TruncateCompactor{}.Fold(ctx, evicted)
	}

	block := Block{
		ID:      core.NewID(),
		Summary: summary,
		Tokens:  m.counter.Count(summary),
		From:    m.cursor,
		To:      m.cursor + fold,
	}
	m.blocks = append(m.blocks, block)
	m.cursor += fold

	m.logger.Debug("memory.compacted", "folded", fold, "cursor", m.cursor, "blocks", len(m.blocks))
}

// AssembleContext produces the entry sequence to send to the model:
//
//  1. the most recent uncompacted entries whose cumulative cost fits the
//     short-term allowance, kept verbatim;
//  2. compacted blocks filling the remaining budget up to TokenLimit,
//     omitted oldest first when they cannot fit;
//  3. registered adapters applied in order (a failing adapter is skipped
//     with a warning).
//
// The result never exceeds TokenLimit and the call never fails: memory
// degrades to a smaller context instead. AssembleContext does not mutate
// Memory, so repeated calls without an intervening Append or compaction
// return identical output.
func (m *Memory) AssembleContext(ctx context.Context) []core.Message {
	shortBudget := m.shortTermBudget()

	// Walk the verbatim window newest-first until the allowance is spent.
	start := len(m.msgs)
	used := 0
	for start > m.cursor {
		c := m.cost(m.msgs[start-1])
		if used+c > shortBudget {
			break
		}
		used += c
		start--
	}
	shortTerm := m.msgs[start:]

	// Fill the remaining overall budget with blocks, newest first, so the
	// oldest blocks are the first omitted under pressure.
	remaining := m.tokenLimit - used
	includedFrom := len(m.blocks)
	for includedFrom > 0 {
		b := m.blocks[includedFrom-1]
		if b.Tokens > remaining {
			break
		}
		remaining -= b.Tokens
		includedFrom--
	}

	out := make([]core.Message, 0, len(shortTerm)+len(m.blocks)-includedFrom)
	for _, b := range m.blocks[includedFrom:] {
		out = append(out, core.Message{
			Role:    core.RoleSystem,
			Content: "Summary of earlier conversation: " + b.Summary,
		})
	}
	out = append(out, shortTerm...)

	for _, a := range m.adapters {
		transformed, err := a.Apply(ctx, out)
		if err != nil {
			m.logger.Warn("memory.adapter.skipped", "adapter", a.Name(), "error", err.Error())
			continue
		}
		out = transformed
	}

	// Adapters may inject entries; re-enforce the budget by dropping oldest.
	total := 0
	for _, msg := range out {
		total += m.cost(msg)
	}
	for len(out) > 0 && total > m.tokenLimit {
		total -= m.cost(out[0])
		out = out[1:]
	}

	return out
}
