package tokens

import (
	"github.com/spf13/cobra"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "Token counting for text and markdown files",
		Long: `Count tokens in text and markdown files. Subcommands:
  count     Count tokens with learned merges or a character estimate`,
	}
	cmd.AddCommand(newCountCmd())
	return cmd
}
