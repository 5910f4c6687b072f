package tokens

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type wordEncoder struct{}

func (wordEncoder) Encode(text string, _, _ []string) []int {
	return make([]int, len(strings.Fields(text)))
}

func TestCounter_UsesEncoding(t *testing.T) {
	c := NewCounter("")
	c.load = func(name string) (encoder, error) {
		assert.Equal(t, DefaultEncoding, name)
		return wordEncoder{}, nil
	}

	assert.Equal(t, 3, c.Count("one two three"))
	assert.Equal(t, 0, c.Count(""))
}

func TestCounter_FallsBackToEstimate(t *testing.T) {
	loads := 0
	c := NewCounter("cl100k_base")
	c.load = func(string) (encoder, error) {
		loads++
		return nil, errors.New("offline")
	}

	assert.Equal(t, 3, c.Count("0123456789"))
	assert.Equal(t, 1, c.Count("ab"))
	assert.Equal(t, 1, loads)
}
