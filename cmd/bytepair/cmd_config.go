package main

import (
	"fmt"

	"github.com/spboyer/bytepair/cmd/bytepair/internal/cli"
	"github.com/spboyer/bytepair/internal/projectconfig"
	"github.com/spboyer/bytepair/internal/validation"
	"github.com/spf13/cobra"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate " + projectconfig.FileName,
		Long: `Inspect and validate project configuration. Subcommands:
  show      Print the effective configuration after defaults and --set
  validate  Check a config file against the schema`,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "validate [path]",
		Short: "Validate a config file against the schema",
		Long: `Validate a config file against the embedded JSON schema.

If no path is given, ` + projectconfig.FileName + ` in the current directory is checked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runConfigValidate,
	})
	return cmd
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := cli.LoadConfig(cmd)
	if err != nil {
		return err
	}
	data, err := cfg.Marshal()
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	path := projectconfig.FileName
	if len(args) > 0 {
		path = args[0]
	}

	errs, err := validation.ValidateConfigFile(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(errs) > 0 {
		fmt.Fprintf(out, "❌ %s\n", path) //nolint:errcheck
		for _, e := range errs {
			fmt.Fprintf(out, "  - %s\n", e) //nolint:errcheck
		}
		return fmt.Errorf("%s has %d schema error(s)", path, len(errs))
	}
	fmt.Fprintf(out, "✅ %s is valid\n", path) //nolint:errcheck
	return nil
}
