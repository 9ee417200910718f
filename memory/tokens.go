package memory

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates the token cost of a piece of text. Implementations must
// be safe for concurrent use.
type Counter interface {
	Count(text string) int
}

// HeuristicCounter approximates tokens as len/4 rounded up. It is the
// default so Memory works without pulling encoding data; use a
// TiktokenCounter for budget accuracy against a real provider.
type HeuristicCounter struct{}

// Count implements Counter.
func (HeuristicCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + 3) / 4
}

var (
	encodingCache   = make(map[string]*tiktoken.Tiktoken)
	encodingCacheMu sync.RWMutex
)

// TiktokenCounter counts tokens with the tiktoken BPE for a specific model.
type TiktokenCounter struct {
	encoding *tiktoken.Tiktoken
	model    string
}

// NewTiktokenCounter creates a counter for the given model name, falling
// back to the cl100k_base encoding when the model is unknown. Encodings are
// cached process-wide since initialization is expensive.
func NewTiktokenCounter(model string) (*TiktokenCounter, error) {
	encodingCacheMu.RLock()
	cached, ok := encodingCache[model]
	encodingCacheMu.RUnlock()
	if ok {
		return &TiktokenCounter{encoding: cached, model: model}, nil
	}

	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		encoding, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, fmt.Errorf("failed to get encoding: %w", err)
		}
	}

	encodingCacheMu.Lock()
	encodingCache[model] = encoding
	encodingCacheMu.Unlock()

	return &TiktokenCounter{encoding: encoding, model: model}, nil
}

// Count implements Counter.
func (tc *TiktokenCounter) Count(text string) int {
	return len(tc.encoding.Encode(text, nil, nil))
}
