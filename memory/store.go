package memory

import (
	"fmt"
	"strings"
	"sync"
)

// Recall is a single stored memory returned by RecallStore.Search.
type Recall struct {
	ID       string
	Content  string
	Metadata map[string]any
}

// RecallStore is a naive process-local searchable store backing the
// RetrievalAdapter. Search is a linear scan with substring matching over
// insertion order. Suitable for tests and demos; swap for a vector index
// for production retrieval.
//
// Concurrency: protected by RWMutex, safe across runs.
type RecallStore struct {
	mu      sync.RWMutex
	entries []Recall
}

// NewRecallStore creates an empty store.
func NewRecallStore() *RecallStore { return &RecallStore{} }

// Store appends a new memory generating a simple incremental id.
func (s *RecallStore) Store(content string, metadata map[string]any) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := fmt.Sprintf("mem_%d", len(s.entries))
	s.entries = append(s.entries, Recall{ID: id, Content: content, Metadata: metadata})
	return id
}

// Search returns up to limit entries whose content shares a whitespace
// separated term with the query, in insertion order.
func (s *RecallStore) Search(query string, limit int) ([]Recall, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	terms := strings.Fields(strings.ToLower(query))
	results := make([]Recall, 0, limit)
	for _, e := range s.entries {
		if len(results) >= limit {
			break
		}
		content := strings.ToLower(e.Content)
		for _, term := range terms {
			if strings.Contains(content, term) {
				results = append(results, e)
				break
			}
		}
	}
	return results, nil
}

// Delete removes a stored memory by id.
func (s *RecallStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("memory %s not found", id)
}

// Len returns the number of stored memories.
func (s *RecallStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
