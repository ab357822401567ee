package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/filmfinder/internal/adapter"
	"github.com/mmcdole/filmfinder/internal/domain"
	"github.com/mmcdole/filmfinder/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const noAPIKeyNotice = "No TMDB API key configured; run 'filmfinder setup'"

// runTUI starts the interactive UI
func runTUI(opts *RootOptions, cmd *cobra.Command) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the interactive UI needs a terminal; see 'filmfinder --help' for subcommands")
	}

	a, err := openApp(opts, true)
	if err != nil {
		return err
	}
	defer a.Close()

	a.logger.Info("starting filmfinder", "version", Version)

	// Catalog requests fail individually without a key; likes and stats still work
	var notice string
	if !a.cfg.HasAPIKey() {
		notice = noAPIKeyNotice
	}

	progress := make(chan domain.SyncProgress, 16)
	a.syncer.AddObserver(tui.NewChannelObserver(progress))

	model := tui.NewModel(a.discover, a.likes, a.syncer, tui.Options{
		ImageBaseURL: a.cfg.Catalog.ImageBaseURL,
		DefaultView:  tui.ParseView(a.cfg.UI.DefaultView),
		Progress:     progress,
		Opener:       adapter.NewOpener(a.cfg.UI.Browser, a.cfg.UI.BrowserArgs, a.logger),
		Notice:       notice,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	a.logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	a.logger.Info("shutting down")
	return nil
}
