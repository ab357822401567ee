package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/mmcdole/filmfinder/internal/adapter"
	"github.com/mmcdole/filmfinder/internal/domain"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// backends fakes the catalog and the analytics service
type backends struct {
	mu        sync.Mutex
	synced    [][]map[string]any
	syncFails bool
}

func (b *backends) lastSync() []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.synced) == 0 {
		return nil
	}
	return b.synced[len(b.synced)-1]
}

func (b *backends) catalog() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /movie/popular", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"results":[
			{"id":1,"title":"Heat","vote_average":7.9,"release_date":"1995-12-15"},
			{"id":2,"title":"Inception","vote_average":8.4,"release_date":"2010-07-15"}
		]}`)
	})
	mux.HandleFunc("GET /search/movie", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"results":[{"id":603,"title":"The Matrix","vote_average":8.2,"release_date":"1999-03-31"}]}`)
	})
	mux.HandleFunc("GET /discover/movie", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"results":[{"id":155,"title":"The Dark Knight","vote_average":8.5}]}`)
	})
	mux.HandleFunc("GET /movie/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "27205" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"status_code":34}`)
			return
		}
		_, _ = io.WriteString(w, `{"id":27205,"title":"Inception","runtime":148,
			"release_date":"2010-07-15","original_language":"en",
			"genres":[{"id":28,"name":"Action"},{"id":878,"name":"Science Fiction"}]}`)
	})
	return mux
}

func (b *backends) analytics() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/sync-likes/", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Likes []map[string]any `json:"likes"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		b.mu.Lock()
		fail := b.syncFails
		b.synced = append(b.synced, body.Likes)
		b.mu.Unlock()

		if fail {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"status":"error","message":"Invalid JSON"}`)
			return
		}
		fmt.Fprintf(w, `{"status":"success","count":%d}`, len(body.Likes))
	})
	mux.HandleFunc("GET /api/top-genres/", func(w http.ResponseWriter, r *http.Request) {
		if len(b.lastSync()) == 0 {
			_, _ = io.WriteString(w, `{"top_genres":[],"message":"No liked movies yet"}`)
			return
		}
		_, _ = io.WriteString(w, `{"top_genres":[{"id":28,"name":"Action","count":1}],"total_likes":1}`)
	})
	mux.HandleFunc("GET /api/top-languages/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"top_languages":[{"code":"en","name":"English","count":1}]}`)
	})
	mux.HandleFunc("GET /api/decade-stats/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"top_decades":[{"decade":"2010s","count":1}]}`)
	})
	return mux
}

// setupTestConfig starts both fakes and writes a config pointing at them
func setupTestConfig(t *testing.T) (string, *backends) {
	t.Helper()

	b := &backends{}
	catalog := httptest.NewServer(b.catalog())
	t.Cleanup(catalog.Close)
	analytics := httptest.NewServer(b.analytics())
	t.Cleanup(analytics.Close)

	dir := t.TempDir()
	cfg := adapter.DefaultConfig()
	cfg.Catalog.BaseURL = catalog.URL
	cfg.Catalog.APIKey = "test-key"
	cfg.Analytics.BaseURL = analytics.URL
	cfg.Analytics.Retries = 0
	cfg.Storage.Path = filepath.Join(dir, "likes.db")
	cfg.Logging.File = ""

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, adapter.SaveConfig(cfg, path))
	return path, b
}

func run(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func TestPopularCommand(t *testing.T) {
	cfg, _ := setupTestConfig(t)

	out, err := run(t, cfg, "popular")
	require.NoError(t, err)
	assert.Contains(t, out, "Popular (2)")
	assert.Contains(t, out, "Heat (1995)")
	assert.Contains(t, out, "Inception (2010)")

	out, err = run(t, cfg, "popular", "--sort", "rating")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "Inception"), strings.Index(out, "Heat"))
}

func TestPopularCommand_InvalidSort(t *testing.T) {
	cfg, _ := setupTestConfig(t)

	_, err := run(t, cfg, "popular", "--sort", "bogus")
	assert.ErrorContains(t, err, "invalid sort")
}

func TestSearchCommand(t *testing.T) {
	cfg, _ := setupTestConfig(t)

	out, err := run(t, cfg, "search", "the", "matrix")
	require.NoError(t, err)
	assert.Contains(t, out, `Results for "the matrix" (1)`)
	assert.Contains(t, out, "The Matrix (1999)")
}

func TestLikesAddListRemove(t *testing.T) {
	cfg, _ := setupTestConfig(t)

	out, err := run(t, cfg, "likes", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No liked movies yet.")

	out, err = run(t, cfg, "likes", "add", "27205")
	require.NoError(t, err)
	assert.Contains(t, out, "Liked Inception.")

	// Persisted across processes
	out, err = run(t, cfg, "likes", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Likes (1)")
	assert.Contains(t, out, "Inception (2010)")

	out, err = run(t, cfg, "likes", "add", "27205")
	require.NoError(t, err)
	assert.Contains(t, out, "already liked")

	out, err = run(t, cfg, "likes", "remove", "27205")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed Inception from likes.")

	out, err = run(t, cfg, "likes", "remove", "27205")
	require.NoError(t, err)
	assert.Contains(t, out, "Movie 27205 is not liked.")
}

func TestLikesAdd_UnknownMovie(t *testing.T) {
	cfg, _ := setupTestConfig(t)

	_, err := run(t, cfg, "likes", "add", "1")
	assert.ErrorIs(t, err, domain.ErrMovieNotFound)

	_, err = run(t, cfg, "likes", "add", "abc")
	assert.ErrorContains(t, err, "invalid movie id")
}

func TestLikesExport(t *testing.T) {
	cfg, _ := setupTestConfig(t)

	out, err := run(t, cfg, "likes", "export")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)

	_, err = run(t, cfg, "likes", "add", "27205")
	require.NoError(t, err)

	out, err = run(t, cfg, "likes", "export", "--format", "json")
	require.NoError(t, err)
	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	assert.Equal(t, float64(27205), records[0]["id"])
	assert.Equal(t, float64(148), records[0]["runtime"])

	out, err = run(t, cfg, "likes", "export", "--format", "yaml")
	require.NoError(t, err)
	var yamlRecords []map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &yamlRecords))
	require.Len(t, yamlRecords, 1)
	assert.Equal(t, "Inception", yamlRecords[0]["title"])

	_, err = run(t, cfg, "likes", "export", "--format", "xml")
	assert.ErrorContains(t, err, "invalid format")
}

func TestStatsCommand(t *testing.T) {
	cfg, b := setupTestConfig(t)

	out, err := run(t, cfg, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Like some movies to see your top genres!")

	_, err = run(t, cfg, "likes", "add", "27205")
	require.NoError(t, err)

	out, err = run(t, cfg, "stats", "--recommend")
	require.NoError(t, err)
	assert.Contains(t, out, "Your Top Genres (1 liked)")
	assert.Contains(t, out, "Action")
	assert.Contains(t, out, "English")
	assert.Contains(t, out, "2010s")
	assert.Contains(t, out, "Because you like Action")
	assert.Contains(t, out, "The Dark Knight")

	synced := b.lastSync()
	require.Len(t, synced, 1)
	assert.Equal(t, float64(27205), synced[0]["id"])
}

func TestStatsCommand_BackendError(t *testing.T) {
	cfg, b := setupTestConfig(t)
	b.syncFails = true

	_, err := run(t, cfg, "stats")
	assert.ErrorIs(t, err, domain.ErrBackend)
	assert.ErrorContains(t, err, "Invalid JSON")
}

type fakeFlow struct {
	key string
	err error
}

func (f fakeFlow) Run(ctx context.Context, baseURL string) (string, error) {
	return f.key, f.err
}

func TestRunSetup(t *testing.T) {
	cfgPath, _ := setupTestConfig(t)
	cfg, err := adapter.LoadConfig(cfgPath)
	require.NoError(t, err)

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	opts := &RootOptions{ConfigFile: cfgPath}
	require.NoError(t, runSetup(cmd, opts, cfg, fakeFlow{key: "new-key"}))
	assert.Contains(t, buf.String(), "Configuration saved!")

	saved, err := adapter.LoadConfig(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "new-key", saved.Catalog.APIKey)

	err = runSetup(cmd, opts, cfg, fakeFlow{err: domain.ErrAuthFailed})
	assert.True(t, errors.Is(err, domain.ErrAuthFailed))
}

func TestVersionFlag(t *testing.T) {
	cmd := NewRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--version"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "filmfinder dev\n", buf.String())
}

func TestRootWithoutTerminal(t *testing.T) {
	cfg, _ := setupTestConfig(t)

	// go test does not attach stdout to a terminal
	_, err := run(t, cfg)
	assert.ErrorContains(t, err, "needs a terminal")
}
