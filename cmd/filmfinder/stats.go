package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mmcdole/filmfinder/internal/domain"
	"github.com/spf13/cobra"
)

const statsBarWidth = 20

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	var recommend bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Sync likes to the analytics backend and show the aggregates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(rootOpts, true)
			if err != nil {
				return err
			}
			defer a.Close()

			// Loading the store triggered the sync; wait for it to settle
			a.syncer.Wait()
			res := a.syncer.Current()
			if res.State == domain.SyncFailed {
				return fmt.Errorf("failed to load stats: %w", res.Err)
			}

			out := cmd.OutOrStdout()
			printStats(out, res.Stats)

			if recommend && res.Stats != nil && len(res.Stats.TopGenres) > 0 {
				genre, movies, err := a.discover.Recommend(cmd.Context(), res.Stats)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\nBecause you like %s\n", genre.Name)
				for _, m := range movies {
					printMovie(out, m, a.likes.IsLiked(m.ID))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recommend, "recommend", "r", false, "also list popular picks from your top genre")
	return cmd
}

func printStats(w io.Writer, stats *domain.Stats) {
	if stats == nil || stats.TotalLikes == 0 || stats.IsEmpty() {
		fmt.Fprintln(w, "Like some movies to see your top genres!")
		return
	}

	fmt.Fprintf(w, "Your Top Genres (%d liked)\n", stats.TotalLikes)
	printSection(w, len(stats.TopGenres), func(i int) (string, int) {
		return stats.TopGenres[i].Name, stats.TopGenres[i].Count
	})

	if len(stats.TopLanguages) > 0 {
		fmt.Fprintln(w, "\nLanguages")
		printSection(w, len(stats.TopLanguages), func(i int) (string, int) {
			return stats.TopLanguages[i].Name, stats.TopLanguages[i].Count
		})
	}

	if len(stats.TopDecades) > 0 {
		fmt.Fprintln(w, "\nDecades")
		printSection(w, len(stats.TopDecades), func(i int) (string, int) {
			return stats.TopDecades[i].Decade, stats.TopDecades[i].Count
		})
	}
}

// printSection renders n entries as bars scaled to the largest count
func printSection(w io.Writer, n int, entry func(i int) (string, int)) {
	top := 0
	for i := 0; i < n; i++ {
		if _, c := entry(i); c > top {
			top = c
		}
	}
	for i := 0; i < n; i++ {
		name, count := entry(i)
		filled := 0
		if top > 0 {
			filled = max(statsBarWidth*count/top, 1)
		}
		bar := strings.Repeat("█", filled) + strings.Repeat("░", statsBarWidth-filled)
		fmt.Fprintf(w, "  %-18s %s %d\n", name, bar, count)
	}
}
