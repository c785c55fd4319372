package bpe

import "errors"

var (
	// ErrEmptyVocabulary is returned when a merge is requested but no word in
	// the vocabulary holds two adjacent symbols.
	ErrEmptyVocabulary = errors.New("vocabulary has no symbol pairs to merge")

	// ErrMarkerInCorpus is returned when the corpus contains the end-of-word
	// marker. The marker can't be escaped, so such input is rejected.
	ErrMarkerInCorpus = errors.New("corpus contains the end-of-word marker")

	ErrInvalidMergeCount = errors.New("merge count must not be negative")
	ErrInvalidMarker     = errors.New("marker must be a single non-space ASCII character")
	ErrNotTrained        = errors.New("engine has not been trained")
)
