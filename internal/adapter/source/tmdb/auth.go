package tmdb

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

const authTimeout = 30 * time.Second

// AuthFlow prompts for a TMDB API key and validates it against the catalog
type AuthFlow struct {
	logger *slog.Logger
	out    io.Writer

	// readKey reads the key without echo when stdin is a terminal
	readKey func() (string, error)
}

// NewAuthFlow creates a new API key flow reading from stdin
func NewAuthFlow(logger *slog.Logger) *AuthFlow {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthFlow{
		logger:  logger,
		out:     os.Stdout,
		readKey: readStdinKey,
	}
}

// Run prompts for a key, validates it against baseURL and returns it
func (f *AuthFlow) Run(ctx context.Context, baseURL string) (string, error) {
	fmt.Fprintln(f.out)
	fmt.Fprintln(f.out, "TMDB API Key")
	fmt.Fprintln(f.out, "━━━━━━━━━━━━")
	fmt.Fprintln(f.out, "Create one at https://www.themoviedb.org/settings/api")
	fmt.Fprintln(f.out)
	fmt.Fprint(f.out, "API key: ")

	key, err := f.readKey()
	if err != nil {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	fmt.Fprintln(f.out)

	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("API key is required")
	}

	fmt.Fprintln(f.out, "Validating...")

	ctx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	if err := NewClient(baseURL, key, authTimeout, f.logger).Validate(ctx); err != nil {
		f.logger.Error("API key validation failed", "error", err)
		return "", err
	}

	fmt.Fprintln(f.out, "API key is valid!")
	return key, nil
}

func readStdinKey() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return line, nil
}
