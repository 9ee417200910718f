package memory

import (
	"context"

	"github.com/hupe1980/agentloop/core"
)

// Adapter is a pluggable transform applied when assembling the prompt
// context, e.g. a retrieval injector. Adapters run in registration order;
// a failing adapter is skipped with a recorded warning, never propagated.
//
// Apply must not mutate the input slice; return a new slice when entries are
// added or removed. Implementations should be deterministic so context
// assembly stays idempotent between memory mutations.
type Adapter interface {
	Name() string
	Apply(ctx context.Context, entries []core.Message) ([]core.Message, error)
}

// AdapterFunc adapts an ordinary function to the Adapter interface.
type AdapterFunc struct {
	AdapterName string
	Fn          func(ctx context.Context, entries []core.Message) ([]core.Message, error)
}

// Name implements Adapter.
func (a AdapterFunc) Name() string { return a.AdapterName }

// Apply implements Adapter.
func (a AdapterFunc) Apply(ctx context.Context, entries []core.Message) ([]core.Message, error) {
	return a.Fn(ctx, entries)
}

// RetrievalAdapter injects recalled context entries from a RecallStore. The
// query is the most recent user message; hits are inserted ahead of the
// conversation as system entries.
type RetrievalAdapter struct {
	store *RecallStore
	limit int
}

// NewRetrievalAdapter builds a retrieval adapter over store returning at
// most limit hits per assembly.
func NewRetrievalAdapter(store *RecallStore, limit int) *RetrievalAdapter {
	if limit <= 0 {
		limit = 3
	}
	return &RetrievalAdapter{store: store, limit: limit}
}

// Name implements Adapter.
func (a *RetrievalAdapter) Name() string { return "retrieval" }

// Apply implements Adapter.
func (a *RetrievalAdapter) Apply(ctx context.Context, entries []core.Message) ([]core.Message, error) {
	var query string
	for _, msg := range entries {
		if msg.Role == core.RoleUser {
			query = msg.Content
		}
	}
	if query == "" {
		return entries, nil
	}

	hits, err := a.store.Search(query, a.limit)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return entries, nil
	}

	out := make([]core.Message, 0, len(entries)+len(hits))
	for _, hit := range hits {
		out = append(out, core.Message{
			Role:    core.RoleSystem,
			Content: "Recalled context: " + hit.Content,
		})
	}
	return append(out, entries...), nil
}
