// Package training wires project configuration, corpus loading and the BPE
// engine together for the command line.
package training

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/spboyer/bytepair/internal/corpus"
	"github.com/spboyer/bytepair/internal/projectconfig"
	"github.com/spboyer/bytepair/internal/tokens/bpe"
)

// ErrNoCorpus is returned when no corpus location was given and there is
// nothing to read on standard input.
var ErrNoCorpus = errors.New("no corpus given: pass a corpus path, set corpus.path in " + projectconfig.FileName + " or pipe text on stdin")

// Request describes one training run.
type Request struct {
	// Location is a corpus path, blob URL or corpus.Stdin.
	Location string
	Merges   int
	// Progress, when set, is called after every merge step.
	Progress func(step, total int, m bpe.Merge)
}

// Report summarises a training run.
type Report struct {
	Corpus      string          `json:"corpus" yaml:"corpus"`
	Words       int             `json:"words" yaml:"words"`
	Occurrences int             `json:"occurrences" yaml:"occurrences"`
	Steps       int             `json:"steps" yaml:"steps"`
	Merges      []bpe.Merge     `json:"merges" yaml:"merges"`
	Table       []bpe.MergeRule `json:"table" yaml:"table"`
	DurationMs  int64           `json:"durationMs" yaml:"duration_ms"`
}

// NewEngine builds an untrained engine from the training section of cfg.
// extra options are applied after the configured ones.
func NewEngine(cfg *projectconfig.ProjectConfig, logger *slog.Logger, extra ...bpe.Option) (*bpe.Engine, error) {
	marker, _ := utf8.DecodeRuneInString(cfg.Training.Marker)

	opts := []bpe.Option{
		bpe.WithMarker(marker),
		bpe.WithWorkers(cfg.Training.Workers),
		bpe.WithLogger(logger),
	}
	if cfg.Training.InclusiveMergeCount != nil {
		opts = append(opts, bpe.WithInclusiveMergeCount(*cfg.Training.InclusiveMergeCount))
	}
	if cfg.Training.CacheSize != nil {
		opts = append(opts, bpe.WithCacheSize(*cfg.Training.CacheSize))
	}
	return bpe.New(append(opts, extra...)...)
}

// Run loads the corpus named by req and trains a new engine on it.
func Run(ctx context.Context, cfg *projectconfig.ProjectConfig, loader *corpus.Loader, req Request, logger *slog.Logger) (*bpe.Engine, *Report, error) {
	if req.Location == "" {
		return nil, nil, ErrNoCorpus
	}

	var extra []bpe.Option
	if req.Progress != nil {
		extra = append(extra, bpe.WithProgress(req.Progress))
	}
	engine, err := NewEngine(cfg, logger, extra...)
	if err != nil {
		return nil, nil, err
	}

	text, err := loader.Load(ctx, req.Location)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Corpus.Flatten == nil || *cfg.Corpus.Flatten {
		text = corpus.Flatten(text)
	}

	vocab := bpe.BuildVocabulary(text, byte(engine.Marker()))
	logger.Info("Training", "corpus", req.Location, "words", len(vocab), "merges", req.Merges)

	start := time.Now()
	if err := engine.Train(ctx, text, req.Merges); err != nil {
		return nil, nil, fmt.Errorf("training on %s: %w", req.Location, err)
	}

	return engine, &Report{
		Corpus:      req.Location,
		Words:       len(vocab),
		Occurrences: vocab.Total(),
		Steps:       engine.Steps(req.Merges),
		Merges:      engine.History(),
		Table:       engine.MergeTable().Rules(),
		DurationMs:  time.Since(start).Milliseconds(),
	}, nil
}
