// Package bpe implements marker-delimited Byte Pair Encoding.
//
// Words are stored as flat strings. Once a pair of symbols has been merged it
// is wrapped in end-of-word markers ("_lo_"), and SymbolAt treats the
// wrapped run as a single symbol in later passes. The learned merges are
// kept in an ordered MergeTable and replayed as plain substring
// replacements to encode and decode text.
package bpe

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

const (
	DefaultMarker    = '_'
	defaultCacheSize = 8192

	// maxHistoryPrealloc bounds the history capacity reserved up front; a
	// large merge count usually stops early with ErrEmptyVocabulary.
	maxHistoryPrealloc = 1024
)

// Option configures an Engine.
type Option func(*Engine)

// WithMarker sets the end-of-word marker. It must be a single non-space
// ASCII character that never appears in the training corpus.
func WithMarker(marker rune) Option {
	return func(e *Engine) {
		e.markerRune = marker
	}
}

// WithWorkers sets how many goroutines count pairs within a merge step.
// Merge steps themselves always run one after another.
func WithWorkers(workers int) Option {
	return func(e *Engine) {
		e.workers = workers
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithInclusiveMergeCount makes Train run merges+1 steps instead of merges,
// so that Train(corpus, 0) still performs one merge.
func WithInclusiveMergeCount(inclusive bool) Option {
	return func(e *Engine) {
		e.inclusive = inclusive
	}
}

// WithCacheSize bounds the number of memoised Encode results. Zero or a
// negative size disables the cache.
func WithCacheSize(size int) Option {
	return func(e *Engine) {
		e.cacheSize = size
	}
}

// WithProgress registers fn to be called after each merge step of Train
// with the 1-based step number and the total number of steps.
func WithProgress(fn func(step, total int, m Merge)) Option {
	return func(e *Engine) {
		e.progress = fn
	}
}

// Engine owns the training vocabulary and the merge table learned from it.
// Encode and Decode may be called concurrently; Train and Step take an
// exclusive lock.
type Engine struct {
	markerRune rune
	marker     byte
	workers    int
	inclusive  bool
	cacheSize  int
	logger     *slog.Logger
	progress   func(step, total int, m Merge)

	mu      sync.RWMutex
	vocab   Vocabulary
	table   *MergeTable
	history []Merge

	cacheMu sync.Mutex
	cache   *LRUCache[string]
}

func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		markerRune: DefaultMarker,
		workers:    1,
		cacheSize:  defaultCacheSize,
		logger:     slog.Default(),
		table:      NewMergeTable(),
	}
	for _, o := range opts {
		o(e)
	}

	if e.markerRune <= 0 || e.markerRune >= utf8.RuneSelf || unicode.IsSpace(e.markerRune) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMarker, e.markerRune)
	}
	e.marker = byte(e.markerRune)
	if e.workers < 1 {
		e.workers = 1
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	e.cache = NewLRUCache[string](e.cacheSize)
	return e, nil
}

func (e *Engine) Marker() rune {
	return e.markerRune
}

// Steps returns how many merge steps Train performs for the given count.
func (e *Engine) Steps(merges int) int {
	if e.inclusive {
		return merges + 1
	}
	return merges
}

// Train builds a fresh vocabulary from corpus and learns merges from it,
// replacing any earlier training. Nothing is changed unless every step
// succeeds.
func (e *Engine) Train(ctx context.Context, corpus string, merges int) error {
	if merges < 0 || (e.inclusive && merges == math.MaxInt) {
		return fmt.Errorf("%w: %d", ErrInvalidMergeCount, merges)
	}
	if strings.IndexByte(corpus, e.marker) >= 0 {
		return fmt.Errorf("%w: %q", ErrMarkerInCorpus, e.markerRune)
	}

	vocab := BuildVocabulary(corpus, e.marker)
	table := NewMergeTable()
	steps := e.Steps(merges)
	history := make([]Merge, 0, min(steps, maxHistoryPrealloc))

	e.logger.Debug("Training started", "words", len(vocab), "occurrences", vocab.Total(), "steps", steps)

	for i := range steps {
		next, m, err := e.step(ctx, vocab)
		if err != nil {
			return fmt.Errorf("merge %d of %d: %w", i+1, steps, err)
		}
		table.Put(m.Pair, m.Replacement)
		history = append(history, m)
		vocab = next
		if e.progress != nil {
			e.progress(i+1, steps, m)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.vocab = vocab
	e.table = table
	e.history = history
	e.resetCache()

	e.logger.Debug("Training finished", "merges", table.Len(), "words", len(vocab))
	return nil
}

// Step performs one more merge on top of the current training state.
func (e *Engine) Step(ctx context.Context) (Merge, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.vocab == nil {
		return Merge{}, ErrNotTrained
	}

	next, m, err := e.step(ctx, e.vocab)
	if err != nil {
		return Merge{}, err
	}
	e.vocab = next
	e.table.Put(m.Pair, m.Replacement)
	e.history = append(e.history, m)
	e.resetCache()
	return m, nil
}

func (e *Engine) step(ctx context.Context, vocab Vocabulary) (Vocabulary, Merge, error) {
	next, m, err := SelectAndApplyMerge(ctx, vocab, e.marker, e.workers)
	if err != nil {
		return nil, Merge{}, err
	}
	MergeToSlog(e.logger, m)
	return next, m, nil
}

// MergeTable returns a copy of the learned merges.
func (e *Engine) MergeTable() *MergeTable {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.table.Clone()
}

// History returns every merge step since the last Train, in order, with the
// count each pair had when it was selected. Unlike the merge table it keeps
// repeated selections of the same pair.
func (e *Engine) History() []Merge {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]Merge(nil), e.history...)
}

// Vocabulary returns a copy of the current training vocabulary, or nil
// before the engine has been trained.
func (e *Engine) Vocabulary() Vocabulary {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.vocab.Clone()
}

// Encode applies every learned merge to text in the order it was learned.
// It never fails: text without any known pair is returned unchanged.
func (e *Engine) Encode(text string) string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	e.cacheMu.Lock()
	cached, ok := e.cache.Get(text)
	e.cacheMu.Unlock()
	if ok {
		return cached
	}

	encoded := e.table.Encode(text)

	e.cacheMu.Lock()
	e.cache.Set(text, encoded)
	e.cacheMu.Unlock()
	return encoded
}

// Decode undoes the learned merges, walking them in the order they were
// learned. It is not a guaranteed inverse of Encode once merges nest.
func (e *Engine) Decode(text string) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.table.Decode(text)
}

// DecodeReverse undoes the learned merges latest-first.
func (e *Engine) DecodeReverse(text string) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.table.DecodeReverse(text)
}

// Symbols encodes text and splits the result into symbols. Spaces separate
// words and are not returned.
func (e *Engine) Symbols(text string) []string {
	encoded := e.Encode(text)
	var out []string
	for _, word := range strings.Split(encoded, " ") {
		out = append(out, splitSymbols(word, e.marker)...)
	}
	return out
}

// resetCache must be called with mu held for writing.
func (e *Engine) resetCache() {
	e.cacheMu.Lock()
	e.cache.Reset()
	e.cacheMu.Unlock()
}
