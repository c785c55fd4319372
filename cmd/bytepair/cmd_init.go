package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spboyer/bytepair/cmd/bytepair/internal/cli"
	"github.com/spboyer/bytepair/internal/projectconfig"
	"github.com/spboyer/bytepair/internal/wizard"
	"github.com/spf13/cobra"
)

func newInitCommand() *cobra.Command {
	var (
		interactive bool
		force       bool
	)

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a " + projectconfig.FileName + " project config",
		Long: `Create a ` + projectconfig.FileName + ` file holding the default training,
corpus and output settings. --set values are written into the file.

Use --interactive to answer a short form for the corpus, marker, merge count
and output format instead.

If no directory is specified, the current directory is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return initCommandE(cmd, args, interactive, force)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Run the guided configuration wizard")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing "+projectconfig.FileName)

	return cmd
}

func initCommandE(cmd *cobra.Command, args []string, interactive, force bool) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	// Create the root directory if it doesn't exist
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, projectconfig.FileName)
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists; use --force to overwrite", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", path, err)
	}

	cfg := projectconfig.New()
	if overrides, err := cmd.Flags().GetStringArray(cli.SetFlag); err == nil {
		if err := cfg.ApplyOverrides(overrides); err != nil {
			return err
		}
	}

	if interactive {
		answers, err := wizard.RunConfigWizard(cmd.InOrStdin(), cmd.OutOrStdout(), cfg)
		if err != nil {
			return err
		}
		answers.Apply(cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	content, err := wizard.GenerateConfigYAML(cfg)
	if err != nil {
		return fmt.Errorf("failed to generate %s: %w", projectconfig.FileName, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", projectconfig.FileName, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path) //nolint:errcheck
	return nil
}
