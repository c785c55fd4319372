package bpe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

const lowCorpus = "low low low low low lower lower newest newest newest newest newest newest widest widest widest"

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(opts...)
	require.NoError(t, err)
	return e
}

func TestEngineScenario(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.Train(context.Background(), "lo low lower", 1))

	require.Equal(t, []MergeRule{{Pair: "lo", Replacement: "_lo_"}}, e.MergeTable().Rules())
	require.Equal(t, Vocabulary{"_lo__": 1, "_lo_w_": 1, "_lo_wer_": 1}, e.Vocabulary())

	require.Equal(t, "_lo_", e.Encode("lo"))
	require.Equal(t, "lo", e.Decode("_lo_"))
	require.Equal(t, "lower", e.Decode(e.Encode("lower")))
}

func TestEngineZeroMerges(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.Train(context.Background(), "lo low lower", 0))

	require.Zero(t, e.MergeTable().Len())
	require.Equal(t, Vocabulary{"lo_": 1, "low_": 1, "lower_": 1}, e.Vocabulary())
	require.Equal(t, "lower", e.Encode("lower"))
}

func TestEngineInclusiveMergeCount(t *testing.T) {
	e := newEngine(t, WithInclusiveMergeCount(true))
	require.Equal(t, 1, e.Steps(0))

	t.Run("zero merges still merges once", func(t *testing.T) {
		require.NoError(t, e.Train(context.Background(), "lo low lower", 0))
		require.Equal(t, []MergeRule{{Pair: "lo", Replacement: "_lo_"}}, e.MergeTable().Rules())
	})

	t.Run("one merge runs two steps", func(t *testing.T) {
		require.NoError(t, e.Train(context.Background(), "lo low lower", 1))
		require.Equal(t, []MergeRule{
			{Pair: "lo", Replacement: "_lo_"},
			{Pair: "low", Replacement: "_low_"},
		}, e.MergeTable().Rules())
		// "low" only exists across a symbol boundary, so no word changes.
		require.Equal(t, Vocabulary{"_lo__": 1, "_lo_w_": 1, "_lo_wer_": 1}, e.Vocabulary())
	})
}

func TestEngineDeterministic(t *testing.T) {
	var tables [][]MergeRule
	for _, workers := range []int{1, 1, 4} {
		e := newEngine(t, WithWorkers(workers))
		require.NoError(t, e.Train(context.Background(), lowCorpus, 10))
		tables = append(tables, e.MergeTable().Rules())
	}
	require.NotEmpty(t, tables[0])
	require.Equal(t, tables[0], tables[1])
	require.Equal(t, tables[0], tables[2])
}

func TestEngineEncodeUsesMerges(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.Train(context.Background(), "lo low lower", 1))

	for _, text := range []string{"lo", "slow", "hello world", "lolo"} {
		require.Contains(t, e.Encode(text), "_lo_", "Encode(%q)", text)
	}
	require.Equal(t, "abc", e.Encode("abc"))
	require.Equal(t, "abc", e.Decode("abc"))
}

func TestEngineRoundTripBreaksOnNestedMerges(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.Train(context.Background(), "lo lo lo", 2))

	// The second merge wraps the first merge's symbol and its trailing
	// marker, so its pair overlaps the first replacement.
	require.Equal(t, []MergeRule{
		{Pair: "lo", Replacement: "_lo_"},
		{Pair: "lo_", Replacement: "_lo__"},
	}, e.MergeTable().Rules())

	encoded := e.Encode("lo")
	require.Equal(t, "__lo__", encoded)
	require.NotEqual(t, "lo", e.Decode(encoded))
	require.Equal(t, "_lo_", e.Decode(encoded))
	require.Equal(t, "lo", e.DecodeReverse(encoded))
}

func TestEngineErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("empty corpus", func(t *testing.T) {
		err := newEngine(t).Train(ctx, "", 1)
		require.ErrorIs(t, err, ErrEmptyVocabulary)
	})

	t.Run("only single symbol words", func(t *testing.T) {
		err := newEngine(t).Train(ctx, "   ", 1)
		require.ErrorIs(t, err, ErrEmptyVocabulary)
	})

	t.Run("empty corpus with zero merges", func(t *testing.T) {
		require.NoError(t, newEngine(t).Train(ctx, "", 0))
	})

	t.Run("marker in corpus", func(t *testing.T) {
		err := newEngine(t).Train(ctx, "snake_case words", 1)
		require.ErrorIs(t, err, ErrMarkerInCorpus)

		e := newEngine(t, WithMarker('|'))
		require.NoError(t, e.Train(ctx, "snake_case words", 1))
	})

	t.Run("negative merges", func(t *testing.T) {
		err := newEngine(t).Train(ctx, "lo low", -1)
		require.ErrorIs(t, err, ErrInvalidMergeCount)
	})

	t.Run("huge merge count on empty corpus", func(t *testing.T) {
		err := newEngine(t).Train(ctx, "", 1<<45)
		require.ErrorIs(t, err, ErrEmptyVocabulary)
	})

	t.Run("inclusive step count overflows", func(t *testing.T) {
		err := newEngine(t, WithInclusiveMergeCount(true)).Train(ctx, "lo low lower", math.MaxInt)
		require.ErrorIs(t, err, ErrInvalidMergeCount)
	})

	t.Run("invalid marker", func(t *testing.T) {
		for _, marker := range []rune{' ', '\n', 'é', 0} {
			_, err := New(WithMarker(marker))
			require.ErrorIs(t, err, ErrInvalidMarker, "marker %q", marker)
		}
	})

	t.Run("failed training keeps previous state", func(t *testing.T) {
		e := newEngine(t)
		require.NoError(t, e.Train(ctx, "lo low lower", 1))

		err := e.Train(ctx, "  ", 3)
		require.ErrorIs(t, err, ErrEmptyVocabulary)
		require.Equal(t, []MergeRule{{Pair: "lo", Replacement: "_lo_"}}, e.MergeTable().Rules())
		require.Equal(t, "_lo_", e.Encode("lo"))
	})

	t.Run("canceled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := newEngine(t).Train(cctx, "lo low lower", 1)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestEngineProgress(t *testing.T) {
	var steps, totals []int
	var pairs []string
	e := newEngine(t, WithProgress(func(step, total int, m Merge) {
		steps = append(steps, step)
		totals = append(totals, total)
		pairs = append(pairs, m.Pair)
	}))
	require.NoError(t, e.Train(context.Background(), "lo low lower", 2))

	require.Equal(t, []int{1, 2}, steps)
	require.Equal(t, []int{2, 2}, totals)
	require.Equal(t, []string{"lo", "low"}, pairs)
}

func TestEngineStep(t *testing.T) {
	e := newEngine(t)
	_, err := e.Step(context.Background())
	require.ErrorIs(t, err, ErrNotTrained)

	require.NoError(t, e.Train(context.Background(), "lo low lower", 1))
	m, err := e.Step(context.Background())
	require.NoError(t, err)
	require.Equal(t, Merge{Pair: "low", Replacement: "_low_", Count: 2}, m)
	require.Equal(t, 2, e.MergeTable().Len())
	require.Equal(t, []Merge{
		{Pair: "lo", Replacement: "_lo_", Count: 3, Rewritten: 3},
		m,
	}, e.History())
}

func TestEngineRetrainResetsCache(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.Train(context.Background(), "lo low lower", 1))
	require.Equal(t, "ab", e.Encode("ab"))

	require.NoError(t, e.Train(context.Background(), "ab ab", 1))
	require.Equal(t, "_ab_", e.Encode("ab"))
	require.Equal(t, "lo", e.Encode("lo"))
}

func TestEngineSymbols(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.Train(context.Background(), "lo low lower", 1))

	require.Equal(t, []string{"lo", "lo", "w", "e", "r"}, e.Symbols("lo lower"))
	require.Empty(t, e.Symbols(""))
}

func TestEngineConcurrentEncode(t *testing.T) {
	e := newEngine(t, WithCacheSize(4))
	require.NoError(t, e.Train(context.Background(), lowCorpus, 8))

	want := e.MergeTable().Encode(lowCorpus)
	eg := errgroup.Group{}
	for range 16 {
		eg.Go(func() error {
			for _, word := range strings.Split(lowCorpus, " ") {
				e.Encode(word)
			}
			if got := e.Encode(lowCorpus); got != want {
				return fmt.Errorf("encode: got %q, want %q", got, want)
			}
			return nil
		})
	}
	require.NoError(t, eg.Wait())
}

func TestEngineLogsMerges(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	e := newEngine(t, WithLogger(logger))
	require.NoError(t, e.Train(context.Background(), "lo low lower", 1))

	var merges []map[string]any
	dec := json.NewDecoder(&buf)
	for dec.More() {
		var entry map[string]any
		require.NoError(t, dec.Decode(&entry))
		if entry["msg"] == "Merge learned" {
			merges = append(merges, entry)
		}
	}
	require.Len(t, merges, 1)
	require.Equal(t, "lo", merges[0]["pair"])
	require.Equal(t, "_lo_", merges[0]["replacement"])
	require.EqualValues(t, 3, merges[0]["count"])
	require.EqualValues(t, 3, merges[0]["rewritten"])
}

func TestMergeToSlogDebugDisabled(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	MergeToSlog(logger, Merge{Pair: "lo", Replacement: "_lo_", Count: 3})
	require.Zero(t, buf.Len())
}

func TestAddIf(t *testing.T) {
	attrs := []any{"existing", "value"}
	require.Equal(t, attrs, addIf(attrs, "missing", 0))
	require.Equal(t, []any{"existing", "value", "number", 7}, addIf(attrs, "number", 7))
}
