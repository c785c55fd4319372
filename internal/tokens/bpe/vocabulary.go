package bpe

import (
	"maps"
	"strings"
)

// Vocabulary maps a word, in its current marker-delimited form, to the number
// of times it occurs in the corpus.
type Vocabulary map[string]int

// BuildVocabulary splits corpus on the space character and counts each
// piece with the marker appended. Nothing is normalised: empty pieces left
// by consecutive spaces are counted as the bare marker.
func BuildVocabulary(corpus string, marker byte) Vocabulary {
	vocab := Vocabulary{}
	suffix := string(marker)
	for _, piece := range strings.Split(corpus, " ") {
		vocab[piece+suffix]++
	}
	return vocab
}

// Total sums the occurrence counts of every word.
func (v Vocabulary) Total() int {
	total := 0
	for _, count := range v {
		total += count
	}
	return total
}

func (v Vocabulary) Clone() Vocabulary {
	return maps.Clone(v)
}
