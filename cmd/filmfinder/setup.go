package main

import (
	"context"
	"fmt"

	"github.com/mmcdole/filmfinder/internal/adapter"
	"github.com/mmcdole/filmfinder/internal/adapter/source"
	"github.com/spf13/cobra"
)

// keyFlow obtains a validated API key
type keyFlow interface {
	Run(ctx context.Context, baseURL string) (string, error)
}

// NewSetupCommand creates the setup command.
func NewSetupCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Configure the TMDB API key",
		Long: `Prompt for a TMDB API key, validate it against the catalog and
save it to the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := adapter.LoadConfig(rootOpts.ConfigFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			logger, closer, err := adapter.SetupLogger(&cfg.Logging)
			if err != nil {
				logger = adapter.NullLogger()
			} else {
				defer closer.Close()
			}

			return runSetup(cmd, rootOpts, cfg, source.NewAuthFlow(logger))
		},
	}
}

func runSetup(cmd *cobra.Command, rootOpts *RootOptions, cfg *adapter.Config, flow keyFlow) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Welcome to filmfinder!")

	key, err := flow.Run(cmd.Context(), cfg.Catalog.BaseURL)
	if err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}

	cfg.Catalog.APIKey = key
	if err := adapter.SaveConfig(cfg, rootOpts.ConfigFile); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "✓ Configuration saved!")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Run filmfinder again to start the application.")
	return nil
}
