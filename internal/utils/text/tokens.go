package text

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultTokenEncoding is the BPE used for token estimates.
const DefaultTokenEncoding = "cl100k_base"

// TokenCounter estimates how many model tokens a text occupies.
// The encoding is loaded on first use; loading may need network access,
// so failures are reported rather than fatal.
type TokenCounter struct {
	encodingName string

	once sync.Once
	enc  *tiktoken.Tiktoken
	err  error
}

// NewTokenCounter creates a counter for the named tiktoken encoding.
// An empty name selects DefaultTokenEncoding.
func NewTokenCounter(encodingName string) *TokenCounter {
	if encodingName == "" {
		encodingName = DefaultTokenEncoding
	}
	return &TokenCounter{encodingName: encodingName}
}

// Count returns the number of tokens in text.
func (c *TokenCounter) Count(text string) (int, error) {
	c.once.Do(func() {
		c.enc, c.err = tiktoken.GetEncoding(c.encodingName)
	})
	if c.err != nil {
		return 0, fmt.Errorf("load token encoding %s: %w", c.encodingName, c.err)
	}
	return len(c.enc.Encode(text, nil, nil)), nil
}
