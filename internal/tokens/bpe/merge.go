package bpe

import (
	"context"
	"strings"
)

// Merge describes one learned merge.
type Merge struct {
	Pair        string `json:"pair" yaml:"pair"`
	Replacement string `json:"replacement" yaml:"replacement"`
	// Count is the weighted frequency the pair had when it was selected.
	Count int `json:"count" yaml:"count"`
	// Rewritten is the number of distinct words the merge changed.
	Rewritten int `json:"rewritten" yaml:"rewritten"`
}

// SelectMerge picks the pair with the highest weighted count. Ties go to the
// lexicographically smallest pair so that training is reproducible.
func SelectMerge(pairs map[string]int) (string, int, bool) {
	var (
		best      string
		bestCount int
		found     bool
	)
	for pair, count := range pairs {
		if !found || count > bestCount || (count == bestCount && pair < best) {
			best, bestCount, found = pair, count, true
		}
	}
	return best, bestCount, found
}

// ApplyMerge returns a new vocabulary in which every literal occurrence of
// pair is replaced by marker+pair+marker. Words that don't contain the pair
// are carried over unchanged; the input vocabulary is not modified.
func ApplyMerge(vocab Vocabulary, pair string, marker byte) (Vocabulary, Merge) {
	m := Merge{
		Pair:        pair,
		Replacement: string(marker) + pair + string(marker),
	}

	next := make(Vocabulary, len(vocab))
	for word, count := range vocab {
		if strings.Contains(word, pair) {
			word = strings.ReplaceAll(word, pair, m.Replacement)
			m.Rewritten++
		}
		// Two rewritten words may collide; keep the total count intact.
		next[word] += count
	}
	return next, m
}

// SelectAndApplyMerge counts pairs, selects the most frequent one and folds
// it into the vocabulary. It fails with ErrEmptyVocabulary when no word has
// two symbols.
func SelectAndApplyMerge(ctx context.Context, vocab Vocabulary, marker byte, workers int) (Vocabulary, Merge, error) {
	pairs, err := CountPairs(ctx, vocab, marker, workers)
	if err != nil {
		return nil, Merge{}, err
	}

	pair, count, ok := SelectMerge(pairs)
	if !ok {
		return nil, Merge{}, ErrEmptyVocabulary
	}

	next, m := ApplyMerge(vocab, pair, marker)
	m.Count = count
	return next, m, nil
}
