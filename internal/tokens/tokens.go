package tokens

import (
	"fmt"
	"math"

	"github.com/spboyer/bytepair/internal/tokens/bpe"
)

const charsPerToken = 4

// Tokenizer names a Counter implementation.
type Tokenizer string

const (
	TokenizerBPE      Tokenizer = "bpe"
	TokenizerEstimate Tokenizer = "estimate"

	TokenizerDefault = TokenizerBPE
)

// Counter counts tokens in text.
type Counter interface {
	Count(text string) int
}

// NewCounter returns the Counter for the named tokenizer. The BPE counter
// needs a trained engine; the estimating counter ignores it.
func NewCounter(tokenizer Tokenizer, engine *bpe.Engine) (Counter, error) {
	switch tokenizer {
	case TokenizerBPE:
		if engine == nil {
			return nil, fmt.Errorf("tokenizer %q requires a trained engine", tokenizer)
		}
		return &MergeCounter{engine: engine}, nil
	case TokenizerEstimate:
		return NewEstimatingCounter(), nil
	default:
		return nil, fmt.Errorf("unknown tokenizer %q", tokenizer)
	}
}

// MergeCounter counts the symbols an engine encodes text into.
type MergeCounter struct {
	engine *bpe.Engine
}

func (c *MergeCounter) Count(text string) int {
	return len(c.engine.Symbols(text))
}

// EstimatingCounter approximates token count as ~4 characters per token.
type EstimatingCounter struct{}

func NewEstimatingCounter() *EstimatingCounter {
	return &EstimatingCounter{}
}

func (*EstimatingCounter) Count(text string) int {
	return Estimate(text)
}

func Estimate(text string) int {
	return int(math.Ceil(float64(len(text)) / float64(charsPerToken)))
}
