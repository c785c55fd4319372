package tokens

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spboyer/bytepair/cmd/bytepair/internal/cli"
	"github.com/spboyer/bytepair/internal/tokens"
	"github.com/spboyer/bytepair/internal/tokens/bpe"
	"github.com/spf13/cobra"
)

func newCountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count [paths...]",
		Short: "Count tokens in text and markdown files",
		Long: `Count tokens in text and markdown files.

Paths may be files or directories (scanned recursively for .md, .mdx and
.txt files). A relative path is resolved from the working directory; an
absolute path is used as-is. When no path is given, the working directory is
scanned.

The bpe tokenizer first learns merges from --corpus (or corpus.path from the
project config, or stdin) and counts the symbols each file encodes to. The
estimate tokenizer assumes about four characters per token.`,
		Args: cobra.ArbitraryArgs,
		RunE: runCount,
	}
	cli.AddTrainingFlags(cmd)
	cmd.Flags().String("tokenizer", "", "Tokenizer: bpe | estimate (default from config)")
	cmd.Flags().String("format", "table", "Output format: json | table")
	cmd.Flags().String("sort", "path", "Sort table rows by: tokens | name | path")
	cmd.Flags().Int("min-tokens", 0, "Filter files with less than n tokens")
	cmd.Flags().Bool("no-total", false, "Hide total row in table output")
	return cmd
}

type countJSONOutput struct {
	GeneratedAt string                    `json:"generatedAt"`
	Tokenizer   string                    `json:"tokenizer"`
	TotalTokens int                       `json:"totalTokens"`
	TotalFiles  int                       `json:"totalFiles"`
	Files       map[string]countFileEntry `json:"files"`
}

type countFileEntry struct {
	Tokens     int `json:"tokens"`
	Characters int `json:"characters"`
	Lines      int `json:"lines"`
}

// countOptions holds the parsed flags of the count command.
type countOptions struct {
	format    string
	sortBy    string
	tokenizer string
	minTokens int
	noTotal   bool
}

func parseCountOptions(cmd *cobra.Command) (*countOptions, error) {
	flags := cmd.Flags()
	opts := &countOptions{}
	var err error
	if opts.format, err = flags.GetString("format"); err != nil {
		return nil, err
	}
	if opts.sortBy, err = flags.GetString("sort"); err != nil {
		return nil, err
	}
	if opts.tokenizer, err = flags.GetString("tokenizer"); err != nil {
		return nil, err
	}
	if opts.minTokens, err = flags.GetInt("min-tokens"); err != nil {
		return nil, err
	}
	if opts.noTotal, err = flags.GetBool("no-total"); err != nil {
		return nil, err
	}
	if opts.format == "json" {
		if flags.Changed("sort") {
			return nil, errors.New("--sort is only supported with table output")
		}
		if flags.Changed("no-total") {
			return nil, errors.New("--no-total is only supported with table output")
		}
	}
	return opts, nil
}

func runCount(cmd *cobra.Command, args []string) error {
	opts, err := parseCountOptions(cmd)
	if err != nil {
		return err
	}

	cfg, err := cli.LoadConfig(cmd)
	if err != nil {
		return err
	}
	tokenizer := tokens.Tokenizer(opts.tokenizer)
	if tokenizer == "" {
		tokenizer = tokens.Tokenizer(cfg.Output.Tokenizer)
	}

	rootDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}
	files, err := findTextFiles(args, rootDir)
	if err != nil {
		return err
	}

	var engine *bpe.Engine
	if tokenizer == tokens.TokenizerBPE {
		if engine, _, err = cli.Train(cmd, cfg, ""); err != nil {
			return err
		}
	}
	counter, err := tokens.NewCounter(tokenizer, engine)
	if err != nil {
		return err
	}

	var results []FileResult
	for _, f := range files {
		r, err := countFile(counter, f, rootDir)
		if err != nil {
			return err
		}
		if r.Tokens >= opts.minTokens {
			results = append(results, *r)
		}
	}

	sortResults(results, opts.sortBy)

	out := cmd.OutOrStdout()
	if opts.format == "json" {
		return outputCountJSON(out, string(tokenizer), results)
	}
	outputCountTable(out, results, !opts.noTotal)
	return nil
}

func countFile(counter tokens.Counter, filePath, rootDir string) (*FileResult, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filePath, err)
	}

	rel, err := filepath.Rel(rootDir, filePath)
	if err != nil {
		rel = filePath
	}

	text := string(content)
	return &FileResult{
		Path:       filepath.ToSlash(filepath.Clean(rel)),
		Tokens:     counter.Count(text),
		Characters: len(text),
		Lines:      strings.Count(text, "\n") + 1,
	}, nil
}

func sortResults(results []FileResult, by string) {
	slices.SortStableFunc(results, func(a, b FileResult) int {
		switch by {
		case "tokens":
			return cmp.Compare(b.Tokens, a.Tokens)
		case "name":
			return cmp.Compare(strings.ToLower(path.Base(a.Path)), strings.ToLower(path.Base(b.Path)))
		default:
			return cmp.Compare(a.Path, b.Path)
		}
	})
}

func outputCountTable(w io.Writer, results []FileResult, showTotal bool) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No text files found.") //nolint:errcheck
		return
	}

	maxPath := 5
	for _, r := range results {
		if len(r.Path) > maxPath {
			maxPath = len(r.Path)
		}
	}

	header := fmt.Sprintf("%-*s  %8s  %8s  %6s", maxPath, "File", "Tokens", "Chars", "Lines")
	fmt.Fprintln(w, header)                           //nolint:errcheck
	fmt.Fprintln(w, strings.Repeat("-", len(header))) //nolint:errcheck

	for _, r := range results {
		fmt.Fprintf(w, "%-*s  %8d  %8d  %6d\n", maxPath, r.Path, r.Tokens, r.Characters, r.Lines) //nolint:errcheck
	}

	if showTotal {
		fmt.Fprintln(w, strings.Repeat("-", len(header))) //nolint:errcheck
		var totalTokens, totalChars, totalLines int
		for _, r := range results {
			totalTokens += r.Tokens
			totalChars += r.Characters
			totalLines += r.Lines
		}
		fmt.Fprintf(w, "%-*s  %8d  %8d  %6d\n", maxPath, "Total", totalTokens, totalChars, totalLines) //nolint:errcheck
		fmt.Fprintf(w, "\n%d file(s) scanned\n", len(results))                                         //nolint:errcheck
	}
}

func outputCountJSON(w io.Writer, tokenizer string, results []FileResult) error {
	files := make(map[string]countFileEntry, len(results))
	totalTokens := 0
	for _, r := range results {
		totalTokens += r.Tokens
		files[r.Path] = countFileEntry{
			Tokens:     r.Tokens,
			Characters: r.Characters,
			Lines:      r.Lines,
		}
	}

	out := countJSONOutput{
		GeneratedAt: nowISO(),
		Tokenizer:   tokenizer,
		TotalTokens: totalTokens,
		TotalFiles:  len(results),
		Files:       files,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
