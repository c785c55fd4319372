package main

import (
	"log/slog"

	"github.com/spboyer/bytepair/cmd/bytepair/internal/cli"
	"github.com/spboyer/bytepair/cmd/bytepair/tokens"
	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bytepair",
		Short: "bytepair - byte pair encoding trainer and codec",
		Long: `bytepair learns byte pair merges from a text corpus and uses them to
encode and decode text.

Merged symbols are wrapped in a marker character (default "_"), so the
encoded form stays readable: "low" becomes "_lo_w" after learning "lo".`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging (one record per learned merge)")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}
	cli.AddConfigFlags(cmd)

	// Add subcommands
	cmd.AddCommand(newTrainCommand())
	cmd.AddCommand(newEncodeCommand())
	cmd.AddCommand(newDecodeCommand())
	cmd.AddCommand(newDemoCommand())
	cmd.AddCommand(newInitCommand())
	cmd.AddCommand(newConfigCommand())
	cmd.AddCommand(tokens.NewCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
