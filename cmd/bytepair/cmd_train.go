package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spboyer/bytepair/cmd/bytepair/internal/cli"
	"github.com/spboyer/bytepair/internal/training"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

var printer = message.NewPrinter(language.English)

func newTrainCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train [corpus]",
		Short: "Learn merges from a corpus and print the merge table",
		Long: `Learn byte pair merges from a corpus and print them in the order they
were learned.

The corpus may be a text file, a .gz or .zst archive, a markdown document,
an Azure Blob Storage URL or - for stdin. Without an argument, --corpus and
then corpus.path from ` + "`.bytepair.yaml`" + ` are used, and finally stdin when
it is not a terminal.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runTrain,
	}
	cli.AddTrainingFlags(cmd)
	cmd.Flags().String("format", "", "Output format: table | json | yaml (default from config)")
	return cmd
}

func runTrain(cmd *cobra.Command, args []string) error {
	cfg, err := cli.LoadConfig(cmd)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if format == "" {
		format = cfg.Output.Format
	}

	var location string
	if len(args) > 0 {
		location = args[0]
	}
	_, report, err := cli.Train(cmd, cfg, location)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	case "table":
		outputTrainTable(out, report)
		return nil
	default:
		return fmt.Errorf("unknown format %q: expected table, json or yaml", format)
	}
}

func outputTrainTable(w io.Writer, report *training.Report) {
	if len(report.Merges) == 0 {
		fmt.Fprintln(w, "No merges learned.") //nolint:errcheck
	} else {
		pairWidth, replWidth := runewidth.StringWidth("Pair"), runewidth.StringWidth("Replacement")
		for _, m := range report.Merges {
			pairWidth = max(pairWidth, runewidth.StringWidth(m.Pair))
			replWidth = max(replWidth, runewidth.StringWidth(m.Replacement))
		}
		stepWidth := max(len("#"), len(strconv.Itoa(len(report.Merges))))

		header := fmt.Sprintf("%*s  %s  %s  %10s  %6s", stepWidth, "#", padRight("Pair", pairWidth), padRight("Replacement", replWidth), "Count", "Words")
		fmt.Fprintln(w, header)                                             //nolint:errcheck
		fmt.Fprintln(w, strings.Repeat("-", runewidth.StringWidth(header))) //nolint:errcheck
		for i, m := range report.Merges {
			fmt.Fprintf(w, "%*d  %s  %s  %10s  %6s\n", stepWidth, i+1, //nolint:errcheck
				padRight(m.Pair, pairWidth), padRight(m.Replacement, replWidth),
				printer.Sprintf("%d", m.Count), printer.Sprintf("%d", m.Rewritten))
		}
	}

	fmt.Fprintln(w)                                                                                                        //nolint:errcheck
	fmt.Fprint(w, printer.Sprintf("%d rule(s) from %d merge step(s) over %d distinct word(s), %d occurrence(s) in %dms\n", //nolint:errcheck
		len(report.Table), report.Steps, report.Words, report.Occurrences, report.DurationMs))
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
