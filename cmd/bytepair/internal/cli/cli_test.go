package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spboyer/bytepair/internal/projectconfig"
	"github.com/spboyer/bytepair/internal/training"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestCommand builds a root with a child that records what LoadConfig and
// Train produced.
func newTestCommand(run func(cmd *cobra.Command, args []string) error) *cobra.Command {
	root := &cobra.Command{Use: "root", SilenceUsage: true, SilenceErrors: true}
	AddConfigFlags(root)

	child := &cobra.Command{Use: "child", RunE: run}
	AddTrainingFlags(child)
	root.AddCommand(child)
	return root
}

func TestLoadConfig_FlagsAndOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("training:\n  merges: 4\n"), 0o644))

	var cfg *projectconfig.ProjectConfig
	root := newTestCommand(func(cmd *cobra.Command, _ []string) error {
		var err error
		cfg, err = LoadConfig(cmd)
		return err
	})
	root.SetArgs([]string{"--config", path, "--set", "output.format=yaml", "child", "--merges", "7"})
	require.NoError(t, root.Execute())

	assert.Equal(t, 7, cfg.Training.MergeCount())
	assert.Equal(t, "yaml", cfg.Output.Format)
}

func TestLoadConfig_WithoutConfigFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "bare"}
	cfg, err := LoadConfig(cmd)
	require.NoError(t, err)
	assert.NotNil(t, cfg)
}

func TestTrain_FromStdin(t *testing.T) {
	var rules int
	root := newTestCommand(func(cmd *cobra.Command, _ []string) error {
		cfg, err := LoadConfig(cmd)
		if err != nil {
			return err
		}
		e, _, err := Train(cmd, cfg, "")
		if err != nil {
			return err
		}
		rules = e.MergeTable().Len()
		return nil
	})
	root.SetIn(strings.NewReader("lo low lower"))
	root.SetOut(new(bytes.Buffer))
	root.SetArgs([]string{"child", "--merges", "1"})
	require.NoError(t, root.Execute())
	assert.Equal(t, 1, rules)
}

func TestTrain_CorpusFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.txt")
	require.NoError(t, os.WriteFile(path, []byte("ab ab"), 0o644))

	var report *training.Report
	root := newTestCommand(func(cmd *cobra.Command, _ []string) error {
		cfg, err := LoadConfig(cmd)
		if err != nil {
			return err
		}
		_, report, err = Train(cmd, cfg, "")
		return err
	})
	root.SetArgs([]string{"child", "--corpus", path, "--merges", "1"})
	require.NoError(t, root.Execute())
	assert.Equal(t, path, report.Corpus)
	assert.Equal(t, 2, report.Occurrences)
}
