package main

import (
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigFile string
}

// NewRootCommand creates the root command. Without a subcommand it starts the TUI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "filmfinder",
		Short: "filmfinder - discover movies and track the ones you like",
		Long: `filmfinder browses the TMDB catalog from your terminal.

Like movies to build your collection; your likes are synced to the
analytics backend, which reports your top genres, languages and decades.

Run without a subcommand to start the interactive UI.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts, cmd)
		},
	}

	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetVersionTemplate("filmfinder {{.Version}}\n")

	// Global flags
	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "config file (default is ~/.config/filmfinder/config.yaml)")

	// Add subcommands
	cmd.AddCommand(NewPopularCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewLikesCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewSetupCommand(opts))

	return cmd
}
