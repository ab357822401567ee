package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mmcdole/filmfinder/internal/discover"
	"github.com/mmcdole/filmfinder/internal/domain"
	"github.com/mmcdole/filmfinder/internal/tui/styles"
	"github.com/spf13/cobra"
)

// NewPopularCommand creates the popular command.
func NewPopularCommand(rootOpts *RootOptions) *cobra.Command {
	var sortName string

	cmd := &cobra.Command{
		Use:   "popular",
		Short: "List popular movies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, ok := discover.ParseSortMode(sortName)
			if !ok {
				return fmt.Errorf("invalid sort %q", sortName)
			}

			a, err := openApp(rootOpts, false)
			if err != nil {
				return err
			}
			defer a.Close()

			listing, err := a.discover.Popular(cmd.Context())
			if err != nil {
				return err
			}
			printListing(cmd.OutOrStdout(), listing.WithSort(mode), a.likes.IsLiked)
			return nil
		},
	}

	cmd.Flags().StringVarP(&sortName, "sort", "s", "default", "sort order (default|rating|rating_low|release_date|release_date_old)")
	return cmd
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	var sortName string

	cmd := &cobra.Command{
		Use:   "search <query>...",
		Short: "Search the catalog by title",
		Long: `Search the catalog by title.

All arguments are joined with spaces to form the query.

Examples:
  filmfinder search the matrix
  filmfinder search "blade runner" --sort release_date`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, ok := discover.ParseSortMode(sortName)
			if !ok {
				return fmt.Errorf("invalid sort %q", sortName)
			}

			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return fmt.Errorf("search query is required")
			}

			a, err := openApp(rootOpts, false)
			if err != nil {
				return err
			}
			defer a.Close()

			listing, err := a.discover.Search(cmd.Context(), query, discover.Listing{})
			if err != nil {
				return err
			}
			printListing(cmd.OutOrStdout(), listing.WithSort(mode), a.likes.IsLiked)
			return nil
		},
	}

	cmd.Flags().StringVarP(&sortName, "sort", "s", "default", "sort order (default|rating|rating_low|release_date|release_date_old)")
	return cmd
}

// printListing writes one movie per line with a like marker
func printListing(w io.Writer, listing discover.Listing, liked func(int64) bool) {
	fmt.Fprintf(w, "%s (%d)\n", listing.Title, listing.Len())
	if listing.Len() == 0 {
		fmt.Fprintln(w, "No movies found.")
		return
	}
	for _, m := range listing.Movies() {
		printMovie(w, m, liked(m.ID))
	}
}

func printMovie(w io.Writer, m domain.Movie, liked bool) {
	heart := styles.UnlikedChar
	if liked {
		heart = styles.LikedChar
	}
	title := m.Title
	if y := m.Year(); y > 0 {
		title = fmt.Sprintf("%s (%d)", m.Title, y)
	}
	fmt.Fprintf(w, "%s %8d  %-50s %s\n", heart, m.ID, styles.Truncate(title, 50), m.FormattedRating())
}

