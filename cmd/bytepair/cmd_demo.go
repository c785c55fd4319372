package main

import (
	"fmt"
	"log/slog"

	"github.com/spboyer/bytepair/cmd/bytepair/internal/cli"
	"github.com/spboyer/bytepair/internal/tokens/bpe"
	"github.com/spboyer/bytepair/internal/training"
	"github.com/spf13/cobra"
)

const (
	demoCorpus = "This is some example text. It is not very long, but it is enough to demonstrate the algorithm."
	demoText   = "This is some example text."
	demoMerges = 10
)

func newDemoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Train on a built-in sentence and encode/decode a sample",
		Long: `Train on a short built-in sentence, then print the merge table together
with the encoded and decoded form of "` + demoText + `".

The demo counts merges inclusively, so 10 merges run 11 merge steps.

Marker and worker settings come from the project config and --set.`,
		Args: cobra.NoArgs,
		RunE: runDemo,
	}
}

func runDemo(cmd *cobra.Command, _ []string) error {
	cfg, err := cli.LoadConfig(cmd)
	if err != nil {
		return err
	}
	engine, err := training.NewEngine(cfg, slog.Default(), bpe.WithInclusiveMergeCount(true))
	if err != nil {
		return err
	}
	if err := engine.Train(cmd.Context(), demoCorpus, demoMerges); err != nil {
		return fmt.Errorf("training demo corpus: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Corpus:  %s\n\n", demoCorpus) //nolint:errcheck
	for i, m := range engine.History() {
		fmt.Fprintf(out, "%2d. %-12q -> %-16q count=%d\n", i+1, m.Pair, m.Replacement, m.Count) //nolint:errcheck
	}

	encoded := engine.Encode(demoText)
	fmt.Fprintf(out, "\nText:    %s\n", demoText)                    //nolint:errcheck
	fmt.Fprintf(out, "Encoded: %s\n", encoded)                       //nolint:errcheck
	fmt.Fprintf(out, "Decoded: %s\n", engine.Decode(encoded))        //nolint:errcheck
	fmt.Fprintf(out, "Reverse: %s\n", engine.DecodeReverse(encoded)) //nolint:errcheck
	return nil
}
