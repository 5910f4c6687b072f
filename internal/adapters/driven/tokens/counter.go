// Package tokens counts model tokens for prompt size accounting.
package tokens

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/ports/driven"
	"github.com/drewgilbert-lab/content-automation-app/internal/logger"
)

// Ensure Counter implements the interface.
var _ driven.TokenCounter = (*Counter)(nil)

// DefaultEncoding is used for every provider. Counts for non-OpenAI models
// are estimates.
const DefaultEncoding = "cl100k_base"

// charsPerToken is the estimate used when no encoding can be loaded.
const charsPerToken = 4

type encoder interface {
	Encode(text string, allowedSpecial, disallowedSpecial []string) []int
}

// Counter counts tokens with a tiktoken encoding. The encoding is loaded
// on first use; if that fails the counter estimates from length instead.
type Counter struct {
	encoding string
	load     func(string) (encoder, error)

	once sync.Once
	enc  encoder
}

// NewCounter creates a counter for the named tiktoken encoding.
func NewCounter(encoding string) *Counter {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	return &Counter{
		encoding: encoding,
		load: func(name string) (encoder, error) {
			return tiktoken.GetEncoding(name)
		},
	}
}

// Count returns the number of tokens in text.
func (c *Counter) Count(text string) int {
	if text == "" {
		return 0
	}
	c.once.Do(func() {
		enc, err := c.load(c.encoding)
		if err != nil {
			logger.Debug("Token encoding %s unavailable, estimating: %v", c.encoding, err)
			return
		}
		c.enc = enc
	})
	if c.enc == nil {
		return (len(text) + charsPerToken - 1) / charsPerToken
	}
	return len(c.enc.Encode(text, nil, nil))
}
