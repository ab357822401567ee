package tmdb

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mmcdole/filmfinder/internal/adapter"
	"github.com/mmcdole/filmfinder/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "key", time.Second, adapter.NullLogger())
}

func listBody(n int) string {
	var buf bytes.Buffer
	buf.WriteString(`{"page":1,"results":[`)
	for i := 1; i <= n; i++ {
		if i > 1 {
			buf.WriteString(",")
		}
		fmt.Fprintf(&buf, `{"id":%d,"title":"Movie %d","vote_average":7.5}`, i, i)
	}
	buf.WriteString(`],"total_pages":1,"total_results":`)
	fmt.Fprintf(&buf, "%d}", n)
	return buf.String()
}

func TestPopular(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/popular", r.URL.Path)
		assert.Equal(t, "key", r.URL.Query().Get("api_key"))
		_, _ = io.WriteString(w, listBody(3))
	})

	movies, err := client.Popular(context.Background())
	require.NoError(t, err)
	require.Len(t, movies, 3)
	assert.Equal(t, int64(1), movies[0].ID)
	assert.Equal(t, "Movie 1", movies[0].Title)
}

func TestSearch(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/movie", r.URL.Path)
		assert.Equal(t, "the matrix", r.URL.Query().Get("query"))
		_, _ = io.WriteString(w, listBody(2))
	})

	movies, err := client.Search(context.Background(), "  the matrix ")
	require.NoError(t, err)
	assert.Len(t, movies, 2)
}

func TestSearch_BlankQuerySkipsRequest(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request")
	})

	movies, err := client.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, movies)
}

func TestDiscover_LimitsResults(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/discover/movie", r.URL.Path)
		assert.Equal(t, "878", r.URL.Query().Get("with_genres"))
		assert.Equal(t, "popularity.desc", r.URL.Query().Get("sort_by"))
		_, _ = io.WriteString(w, listBody(20))
	})

	movies, err := client.Discover(context.Background(), 878)
	require.NoError(t, err)
	assert.Len(t, movies, DiscoverLimit)
}

func TestMovie_MapsGenres(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/27205", r.URL.Path)
		_, _ = io.WriteString(w, `{
			"id": 27205,
			"title": "Inception",
			"runtime": 148,
			"genres": [{"id": 28, "name": "Action"}, {"id": 878, "name": "Science Fiction"}],
			"tagline": "Your mind is the scene of the crime."
		}`)
	})

	movie, err := client.Movie(context.Background(), 27205)
	require.NoError(t, err)
	assert.Equal(t, "Inception", movie.Title)
	assert.Equal(t, 148, movie.Runtime)
	assert.Equal(t, []int{28, 878}, movie.GenreIDs)
	assert.Contains(t, movie.Extra, "tagline")
}

func TestMovie_NotFound(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"status_code":34,"status_message":"The resource you requested could not be found."}`)
	})

	_, err := client.Movie(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrMovieNotFound)
}

func TestMissingAPIKey(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "", time.Second, adapter.NullLogger())

	_, err := client.Popular(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoAPIKey)

	_, err = client.Movie(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrNoAPIKey)
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/authentication", r.URL.Path)
			_, _ = io.WriteString(w, `{"success":true,"status_code":1,"status_message":"Success."}`)
		})
		assert.NoError(t, client.Validate(context.Background()))
	})

	t.Run("rejected", func(t *testing.T) {
		client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"success":false,"status_code":7,"status_message":"Invalid API key"}`)
		})
		assert.ErrorIs(t, client.Validate(context.Background()), domain.ErrAuthFailed)
	})
}

func TestAuthFlow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"success":true}`)
	}))
	defer server.Close()

	newFlow := func(input string) (*AuthFlow, *bytes.Buffer) {
		var out bytes.Buffer
		flow := NewAuthFlow(adapter.NullLogger())
		flow.out = &out
		flow.readKey = func() (string, error) { return input, nil }
		return flow, &out
	}

	flow, out := newFlow(" good\n")
	key, err := flow.Run(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "good", key)
	assert.Contains(t, out.String(), "API key is valid!")

	flow, _ = newFlow("bad")
	_, err = flow.Run(context.Background(), server.URL)
	assert.ErrorIs(t, err, domain.ErrAuthFailed)

	flow, _ = newFlow("")
	_, err = flow.Run(context.Background(), server.URL)
	assert.Error(t, err)
}
