package analytics

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/filmfinder/internal/adapter"
	"github.com/mmcdole/filmfinder/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return NewClient(server.URL, time.Second, adapter.NullLogger())
}

func TestSyncLikes(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+syncPath, func(w http.ResponseWriter, r *http.Request) {
		_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
		assert.NoError(t, err)

		var body struct {
			Likes []map[string]any `json:"likes"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Likes, 1)
		assert.Equal(t, float64(27205), body.Likes[0]["id"])
		assert.Equal(t, "Inception", body.Likes[0]["title"])

		_, _ = io.WriteString(w, `{"status":"success","count":1}`)
	})

	err := newTestClient(t, mux).SyncLikes(context.Background(), []domain.Movie{{ID: 27205, Title: "Inception"}})
	assert.NoError(t, err)
}

func TestSyncLikes_EmptySetSendsArray(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+syncPath, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"likes":[]}`, string(b))
		_, _ = io.WriteString(w, `{"status":"success","count":0}`)
	})

	assert.NoError(t, newTestClient(t, mux).SyncLikes(context.Background(), nil))
}

func TestSyncLikes_BackendError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+syncPath, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"status":"error","message":"Expecting value: line 1 column 1"}`)
	})

	err := newTestClient(t, mux).SyncLikes(context.Background(), []domain.Movie{{ID: 1}})
	require.ErrorIs(t, err, domain.ErrBackend)
	assert.Contains(t, err.Error(), "Expecting value")
}

func TestStats(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+genresPath, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"top_genres":[{"id":28,"name":"Action","count":5},{"id":878,"name":"Science Fiction","count":3}],"total_likes":12}`)
	})
	mux.HandleFunc("GET "+languagesPath, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"top_languages":[{"code":"en","name":"English","count":10}]}`)
	})
	mux.HandleFunc("GET "+decadesPath, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"top_decades":[{"decade":"2010s","count":8},{"decade":"1990s","count":2}]}`)
	})
	client := newTestClient(t, mux)
	ctx := context.Background()

	genres, total, err := client.TopGenres(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, total)
	assert.Equal(t, []domain.GenreStat{{ID: 28, Name: "Action", Count: 5}, {ID: 878, Name: "Science Fiction", Count: 3}}, genres)

	languages, err := client.TopLanguages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.LanguageStat{{Code: "en", Name: "English", Count: 10}}, languages)

	decades, err := client.TopDecades(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.DecadeStat{{Decade: "2010s", Count: 8}, {Decade: "1990s", Count: 2}}, decades)
}

func TestTopGenres_NoLikesYet(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+genresPath, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"top_genres":[],"message":"No liked movies yet"}`)
	})

	genres, total, err := newTestClient(t, mux).TopGenres(context.Background())
	require.NoError(t, err)
	assert.Empty(t, genres)
	assert.NotNil(t, genres)
	assert.Zero(t, total)
}

func TestStats_ServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+decadesPath, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"status":"error","message":"database is locked"}`)
	})

	_, err := newTestClient(t, mux).TopDecades(context.Background())
	require.ErrorIs(t, err, domain.ErrBackend)
	assert.Contains(t, err.Error(), "database is locked")
}

func TestStats_Offline(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	_, err := NewClient(addr, time.Second, adapter.NullLogger()).TopLanguages(context.Background())
	assert.ErrorIs(t, err, domain.ErrServerOffline)
}
