package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spboyer/bytepair/cmd/bytepair/internal/cli"
	"github.com/spboyer/bytepair/internal/corpus"
	"github.com/spboyer/bytepair/internal/tokens/bpe"
	"github.com/spboyer/bytepair/internal/training"
	"github.com/spf13/cobra"
)

var errStdinTwice = errors.New("stdin can't supply both the corpus and the text; pass the text as arguments or use --corpus")

func newEncodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode [text...]",
		Short: "Train on a corpus and encode text with the learned merges",
		Long: `Train on the corpus given by --corpus (or corpus.path from the project
config) and encode text with the learned merges, in the order they were
learned.

Text is taken from the arguments, joined by spaces, or read from stdin.`,
		Args: cobra.ArbitraryArgs,
		RunE: runEncode,
	}
	cli.AddTrainingFlags(cmd)
	cmd.Flags().Bool("symbols", false, "Print the encoded symbols one per line instead of the encoded text")
	return cmd
}

func newDecodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [text...]",
		Short: "Train on a corpus and decode previously encoded text",
		Long: `Train on the corpus given by --corpus (or corpus.path from the project
config) and decode text with the learned merges.

By default merges are undone in the order they were learned, which does not
always restore the input when merges nest. --reverse undoes them latest
first.`,
		Args: cobra.ArbitraryArgs,
		RunE: runDecode,
	}
	cli.AddTrainingFlags(cmd)
	cmd.Flags().Bool("reverse", false, "Undo merges latest first")
	return cmd
}

func runEncode(cmd *cobra.Command, args []string) error {
	symbols, err := cmd.Flags().GetBool("symbols")
	if err != nil {
		return err
	}
	engine, text, err := codecSetup(cmd, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if symbols {
		for _, s := range engine.Symbols(text) {
			fmt.Fprintln(out, s) //nolint:errcheck
		}
		return nil
	}
	_, err = fmt.Fprintln(out, engine.Encode(text))
	return err
}

func runDecode(cmd *cobra.Command, args []string) error {
	reverse, err := cmd.Flags().GetBool("reverse")
	if err != nil {
		return err
	}
	engine, text, err := codecSetup(cmd, args)
	if err != nil {
		return err
	}

	var decoded string
	if reverse {
		decoded = engine.DecodeReverse(text)
	} else {
		decoded = engine.Decode(text)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), decoded)
	return err
}

// codecSetup trains the engine and collects the text to work on. Unlike
// train, the corpus never falls back to stdin implicitly because stdin
// carries the text when no arguments are given.
func codecSetup(cmd *cobra.Command, args []string) (*bpe.Engine, string, error) {
	cfg, err := cli.LoadConfig(cmd)
	if err != nil {
		return nil, "", err
	}
	location, err := cmd.Flags().GetString(cli.CorpusFlag)
	if err != nil {
		return nil, "", err
	}
	if location == "" {
		location = cfg.CorpusLocation()
	}
	if location == "" {
		return nil, "", training.ErrNoCorpus
	}
	if location == corpus.Stdin && len(args) == 0 {
		return nil, "", errStdinTwice
	}

	engine, _, err := cli.Train(cmd, cfg, location)
	if err != nil {
		return nil, "", err
	}

	if len(args) > 0 {
		return engine, strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, "", fmt.Errorf("reading text: %w", err)
	}
	return engine, strings.TrimRight(string(data), "\r\n"), nil
}
