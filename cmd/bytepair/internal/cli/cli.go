// Package cli holds the flag plumbing shared by the bytepair subcommands.
package cli

import (
	"log/slog"
	"os"

	"github.com/spboyer/bytepair/internal/corpus"
	"github.com/spboyer/bytepair/internal/projectconfig"
	"github.com/spboyer/bytepair/internal/spinner"
	"github.com/spboyer/bytepair/internal/tokens/bpe"
	"github.com/spboyer/bytepair/internal/training"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Flag names shared across commands.
const (
	ConfigFlag = "config"
	SetFlag    = "set"
	CorpusFlag = "corpus"
	MergesFlag = "merges"
)

// AddConfigFlags registers the persistent --config and --set flags.
func AddConfigFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String(ConfigFlag, "", "Path to a "+projectconfig.FileName+" file (default: search upward from the working directory)")
	cmd.PersistentFlags().StringArray(SetFlag, nil, "Override a config value, e.g. training.merges=50 (can be repeated)")
}

// AddTrainingFlags registers --corpus and --merges on commands that train an
// engine before doing their work.
func AddTrainingFlags(cmd *cobra.Command) {
	cmd.Flags().String(CorpusFlag, "", "Corpus to train on: file, .gz/.zst, markdown, blob URL or - for stdin")
	cmd.Flags().Int(MergesFlag, 0, "Number of merges to learn (overrides training.merges)")
}

// LoadConfig loads the project configuration named by --config (if the
// command has it) and applies any --set overrides and an explicit --merges.
func LoadConfig(cmd *cobra.Command) (*projectconfig.ProjectConfig, error) {
	var (
		path      string
		overrides []string
		err       error
	)
	if cmd.Flags().Lookup(ConfigFlag) != nil {
		if path, err = cmd.Flags().GetString(ConfigFlag); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Lookup(SetFlag) != nil {
		if overrides, err = cmd.Flags().GetStringArray(SetFlag); err != nil {
			return nil, err
		}
	}

	cfg, err := training.LoadConfig(path, overrides)
	if err != nil {
		return nil, err
	}

	if f := cmd.Flags().Lookup(MergesFlag); f != nil && f.Changed {
		merges, err := cmd.Flags().GetInt(MergesFlag)
		if err != nil {
			return nil, err
		}
		cfg.Training.Merges = &merges
	}
	return cfg, nil
}

// Train resolves the corpus for cmd and trains an engine on it. location is
// the corpus named on the command line, if any; --corpus is consulted when
// it is empty.
func Train(cmd *cobra.Command, cfg *projectconfig.ProjectConfig, location string) (*bpe.Engine, *training.Report, error) {
	if location == "" && cmd.Flags().Lookup(CorpusFlag) != nil {
		var err error
		if location, err = cmd.Flags().GetString(CorpusFlag); err != nil {
			return nil, nil, err
		}
	}

	location, err := training.ResolveCorpus(location, cfg, cmd.InOrStdin())
	if err != nil {
		return nil, nil, err
	}

	req := training.Request{
		Location: location,
		Merges:   cfg.Training.MergeCount(),
	}
	if f, ok := cmd.ErrOrStderr().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		steps := req.Merges
		if cfg.Training.InclusiveMergeCount != nil && *cfg.Training.InclusiveMergeCount {
			steps++
		}
		progress := spinner.Start(f, "Learning merges", steps)
		defer progress.Stop()
		req.Progress = func(int, int, bpe.Merge) {
			progress.Advance()
		}
	}

	loader := corpus.NewLoader(corpus.WithStdin(cmd.InOrStdin()))
	return training.Run(cmd.Context(), cfg, loader, req, slog.Default())
}
