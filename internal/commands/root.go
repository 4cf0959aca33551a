package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tradebook-dev/tradebook/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "tradebook",
		Short:   "Track realized gains and losses from brokerage exports",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newLoadCommand())
	rootCmd.AddCommand(newTransactionsCommand())
	rootCmd.AddCommand(newGainLossCommand())

	return rootCmd
}
