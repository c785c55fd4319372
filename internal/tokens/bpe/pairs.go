package bpe

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// CountPairs returns the weighted pair counts across the vocabulary: each
// word's pair counts multiplied by the word's occurrence count, summed over
// every word.
//
// With more than one worker the vocabulary is sharded and each shard is
// counted on its own goroutine; the partial counts are summed afterwards.
func CountPairs(ctx context.Context, vocab Vocabulary, marker byte, workers int) (map[string]int, error) {
	words := make([]string, 0, len(vocab))
	for word := range vocab {
		words = append(words, word)
	}

	if workers <= 1 || len(words) < 2 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return countShard(vocab, words, marker), nil
	}

	shards := min(workers, len(words))
	partials := make([]map[string]int, shards)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range shards {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var shard []string
			for j := i; j < len(words); j += shards {
				shard = append(shard, words[j])
			}
			partials[i] = countShard(vocab, shard, marker)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("counting pairs: %w", err)
	}

	pairs := partials[0]
	for _, partial := range partials[1:] {
		for pair, count := range partial {
			pairs[pair] += count
		}
	}
	return pairs, nil
}

func countShard(vocab Vocabulary, words []string, marker byte) map[string]int {
	pairs := map[string]int{}
	for _, word := range words {
		wordCount := vocab[word]
		for pair, count := range CountPairsInWord(word, marker) {
			pairs[pair] += count * wordCount
		}
	}
	return pairs
}
