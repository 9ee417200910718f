package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/agentloop/core"
)

// MockModel is a lightweight in-memory Model useful for tests and examples.
// Responses (or errors) are returned in the order they were enqueued; once
// the script is exhausted a canned text completion echoing the last user
// message is produced. All requests are recorded for assertions.
type MockModel struct {
	mu     sync.Mutex
	info   Info
	script []scriptEntry
	calls  []Request
}

type scriptEntry struct {
	resp *Response
	err  error
}

// NewMockModel constructs a MockModel with tool support enabled.
func NewMockModel(name string) *MockModel {
	return &MockModel{
		info: Info{Name: name, Provider: "mock", SupportsTools: true},
	}
}

// Enqueue appends a scripted response.
func (m *MockModel) Enqueue(resp Response) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, scriptEntry{resp: &resp})
	return m
}

// EnqueueError appends a scripted failure.
func (m *MockModel) EnqueueError(err error) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, scriptEntry{err: err})
	return m
}

// Requests returns a copy of every request seen so far.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.calls))
	copy(out, m.calls)
	return out
}

// Complete implements Model.
func (m *MockModel) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, req)

	if len(m.script) > 0 {
		entry := m.script[0]
		m.script = m.script[1:]
		if entry.err != nil {
			return nil, entry.err
		}
		resp := *entry.resp
		return &resp, nil
	}

	var lastUser string
	for _, msg := range req.Messages {
		if msg.Role == core.RoleUser {
			lastUser = msg.Content
		}
	}
	return &Response{
		Text:         fmt.Sprintf("Mock response to: %s", lastUser),
		FinishReason: "stop",
	}, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
