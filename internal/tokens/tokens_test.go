package tokens

import (
	"context"
	"strings"
	"testing"

	"github.com/spboyer/bytepair/internal/tokens/bpe"
	"github.com/stretchr/testify/require"
)

func trainedEngine(t testing.TB) *bpe.Engine {
	t.Helper()
	engine, err := bpe.New()
	require.NoError(t, err)
	require.NoError(t, engine.Train(context.Background(), "lo low lower", 1))
	return engine
}

func TestBPECounter(t *testing.T) {
	counter, err := NewCounter(TokenizerBPE, trainedEngine(t))
	require.NoError(t, err)
	for _, tt := range []struct {
		input string
		want  int
	}{
		{"", 0},
		{"lo", 1},
		{"lower", 4},
		{"lo lower", 5},
		{"abc", 3},
	} {
		require.Equal(t, tt.want, counter.Count(tt.input), "Count(%q)", tt.input)
	}
}

func TestBPECounterRequiresEngine(t *testing.T) {
	_, err := NewCounter(TokenizerBPE, nil)
	require.Error(t, err)
}

func TestUnknownTokenizer(t *testing.T) {
	_, err := NewCounter(Tokenizer("wordpiece"), nil)
	require.ErrorContains(t, err, "wordpiece")
}

func TestEstimatingCounter(t *testing.T) {
	counter, err := NewCounter(TokenizerEstimate, nil)
	require.NoError(t, err)
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"test", 1},
		{"testing", 2},
		{"The quick brown fox jumps over the lazy dog.", 11},
		{string(make([]byte, 100)), 25},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, counter.Count(tt.input), "Count(%q)", tt.input)
	}
}

var benchInput = strings.Repeat("lo low lower lowest ", 100)

func BenchmarkBPECounter(b *testing.B) {
	counter, err := NewCounter(TokenizerBPE, trainedEngine(b))
	require.NoError(b, err)
	b.ResetTimer()
	for b.Loop() {
		counter.Count(benchInput)
	}
}

func BenchmarkEstimatingCounter(b *testing.B) {
	counter := NewEstimatingCounter()
	b.ResetTimer()
	for b.Loop() {
		counter.Count(benchInput)
	}
}
