package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/mmcdole/filmfinder/internal/domain"
	"github.com/mmcdole/filmfinder/internal/tui/styles"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ValidExportFormats defines the allowed export formats.
var ValidExportFormats = []string{"json", "yaml"}

// NewLikesCommand creates the likes command group.
func NewLikesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "likes",
		Short: "Manage liked movies",
	}

	cmd.AddCommand(newLikesListCommand(rootOpts))
	cmd.AddCommand(newLikesAddCommand(rootOpts))
	cmd.AddCommand(newLikesRemoveCommand(rootOpts))
	cmd.AddCommand(newLikesExportCommand(rootOpts))
	return cmd
}

func newLikesListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List liked movies in the order they were liked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(rootOpts, false)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			snapshot := a.likes.Snapshot()
			if len(snapshot) == 0 {
				fmt.Fprintln(out, "No liked movies yet.")
				return nil
			}
			fmt.Fprintf(out, "Likes (%d)\n", len(snapshot))
			for _, m := range snapshot {
				printMovie(out, m, true)
			}
			return nil
		},
	}
}

func newLikesAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <movie-id>",
		Short: "Like a movie by its catalog ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMovieID(args[0])
			if err != nil {
				return err
			}

			a, err := openApp(rootOpts, false)
			if err != nil {
				return err
			}
			defer a.Close()

			movie, err := a.catalog.Movie(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to look up movie %d: %w", id, err)
			}

			out := cmd.OutOrStdout()
			if !a.likes.Add(*movie) {
				fmt.Fprintf(out, "%s is already liked.\n", movie.Title)
				return nil
			}
			if err := a.likes.Flush(cmd.Context()); err != nil {
				return fmt.Errorf("failed to save likes: %w", err)
			}
			fmt.Fprintf(out, "%s Liked %s.\n", styles.LikedChar, movie.Title)
			return nil
		},
	}
}

func newLikesRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <movie-id>",
		Short: "Unlike a movie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMovieID(args[0])
			if err != nil {
				return err
			}

			a, err := openApp(rootOpts, false)
			if err != nil {
				return err
			}
			defer a.Close()

			title := strconv.FormatInt(id, 10)
			for _, m := range a.likes.Snapshot() {
				if m.ID == id {
					title = m.Title
					break
				}
			}

			out := cmd.OutOrStdout()
			if !a.likes.Remove(id) {
				fmt.Fprintf(out, "Movie %d is not liked.\n", id)
				return nil
			}
			if err := a.likes.Flush(cmd.Context()); err != nil {
				return fmt.Errorf("failed to save likes: %w", err)
			}
			fmt.Fprintf(out, "Removed %s from likes.\n", title)
			return nil
		},
	}
}

func newLikesExportCommand(rootOpts *RootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the liked set to stdout as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isValidExportFormat(format) {
				return fmt.Errorf("invalid format %q: must be one of %v", format, ValidExportFormats)
			}

			a, err := openApp(rootOpts, false)
			if err != nil {
				return err
			}
			defer a.Close()

			return exportLikes(cmd.OutOrStdout(), a.likes.Snapshot(), format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format (json|yaml)")
	return cmd
}

// exportLikes writes movies in the persisted record shape
func exportLikes(w io.Writer, movies []domain.Movie, format string) error {
	if movies == nil {
		movies = []domain.Movie{}
	}

	data, err := json.MarshalIndent(movies, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode likes: %w", err)
	}

	if format == "json" {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	// Round-trip through JSON so YAML keys match the stored record fields
	var records []any
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to encode likes: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode likes: %w", err)
	}
	return enc.Close()
}

func parseMovieID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid movie id %q", arg)
	}
	return id, nil
}

func isValidExportFormat(format string) bool {
	for _, f := range ValidExportFormats {
		if f == format {
			return true
		}
	}
	return false
}
