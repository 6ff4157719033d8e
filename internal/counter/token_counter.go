package counter

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter counts tokens with a tiktoken encoding.
type TokenCounter struct {
	encoding *tiktoken.Tiktoken
	name     string
	mu       sync.RWMutex // protects encoding access for thread safety
}

// NewTokenCounter creates a TokenCounter for the named encoding
// (e.g. "r50k_base", "cl100k_base"). An empty name selects DefaultEncoding.
func NewTokenCounter(encodingName string) (*TokenCounter, error) {
	if encodingName == "" {
		encodingName = DefaultEncoding
	}
	slog.Debug("Initializing TokenCounter", "encoding", encodingName)

	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s encoding: %w", encodingName, err)
	}

	return &TokenCounter{
		encoding: encoding,
		name:     encodingName,
	}, nil
}

// Count returns the number of tokens in the given text.
// This can be called concurrently
func (tc *TokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}

	tc.mu.RLock()
	defer tc.mu.RUnlock()

	// nil params mean no special tokens allowed/disallowed
	tokens := tc.encoding.Encode(text, nil, nil)
	return len(tokens)
}

// Name returns the name of this counting method (for logging and debugging).
func (tc *TokenCounter) Name() string {
	return "tokens (" + tc.name + ")"
}
