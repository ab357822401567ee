package tui

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/filmfinder/internal/adapter"
	"github.com/mmcdole/filmfinder/internal/discover"
	"github.com/mmcdole/filmfinder/internal/domain"
	"github.com/mmcdole/filmfinder/internal/insights"
	"github.com/mmcdole/filmfinder/internal/likes"
	"github.com/mmcdole/filmfinder/internal/store"
	"github.com/mmcdole/filmfinder/internal/tui/components"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	popular    []domain.Movie
	popularErr error
	results   []domain.Movie
	discover  []domain.Movie
	searchErr error
}

func (f *fakeCatalog) Popular(ctx context.Context) ([]domain.Movie, error) {
	return f.popular, f.popularErr
}

func (f *fakeCatalog) Search(ctx context.Context, query string) ([]domain.Movie, error) {
	return f.results, f.searchErr
}

func (f *fakeCatalog) Discover(ctx context.Context, genreID int) ([]domain.Movie, error) {
	return f.discover, nil
}

func (f *fakeCatalog) Movie(ctx context.Context, id int64) (*domain.Movie, error) {
	return &domain.Movie{ID: id, Title: "Details", Runtime: 120}, nil
}

type trigger struct {
	version uint64
	count   int
}

type fakeSyncer struct {
	mu       sync.Mutex
	result   insights.Result
	triggers []trigger
}

func (f *fakeSyncer) Trigger(version uint64, snapshot []domain.Movie) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.triggers = append(f.triggers, trigger{version: version, count: len(snapshot)})
}

func (f *fakeSyncer) Current() insights.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

func (f *fakeSyncer) set(res insights.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.result = res
}

var popular = []domain.Movie{
	{ID: 1, Title: "Heat", VoteAverage: 7.9, ReleaseDate: "1995-12-15"},
	{ID: 2, Title: "Inception", VoteAverage: 8.4, ReleaseDate: "2010-07-15"},
	{ID: 3, Title: "Alien", VoteAverage: 8.1, ReleaseDate: "1979-05-25"},
}

func newTestModel(t *testing.T, catalog *fakeCatalog, syncer *fakeSyncer) Model {
	t.Helper()

	kv, err := store.Open("")
	require.NoError(t, err)
	likesStore := likes.New(kv, adapter.NullLogger())
	likesStore.Initialize()
	t.Cleanup(func() {
		likesStore.Close()
		kv.Close()
	})

	svc := discover.NewService(catalog, adapter.NullLogger())
	m := NewModel(svc, likesStore, syncer, Options{ImageBaseURL: "https://image.tmdb.org/t/p/w500"})
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return update(t, m, PopularLoadedMsg{Listing: discover.NewListing("Popular", catalog.popular)})
}

func TestModel_MissingAPIKeyKeepsSessionUsable(t *testing.T) {
	kv, err := store.Open("")
	require.NoError(t, err)
	likesStore := likes.New(kv, adapter.NullLogger())
	likesStore.Initialize()
	t.Cleanup(func() {
		likesStore.Close()
		kv.Close()
	})
	likesStore.Add(domain.Movie{ID: 27205, Title: "Inception"})

	svc := discover.NewService(&fakeCatalog{popularErr: domain.ErrNoAPIKey}, adapter.NullLogger())
	notice := "No TMDB API key configured; run 'filmfinder setup'"
	m := NewModel(svc, likesStore, &fakeSyncer{}, Options{Notice: notice})
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	msg := LoadPopularCmd(m.DiscoverSvc)()
	require.IsType(t, ErrMsg{}, msg)
	assert.ErrorIs(t, msg.(ErrMsg).Err, domain.ErrNoAPIKey)

	m = update(t, m, msg)
	assert.False(t, m.Loading)
	assert.True(t, m.StatusIsErr)
	assert.Contains(t, m.StatusMsg, "catalog API key is not configured")
	assert.Contains(t, m.View(), "catalog API key is not configured")

	// The hint stays once the error status clears
	m = update(t, m, ClearStatusMsg{})
	assert.Contains(t, m.View(), "filmfinder setup")

	m, _ = press(t, m, "2")
	assert.Equal(t, ViewLikes, m.CurrentView)
	assert.Contains(t, m.View(), "Inception")

	m, _ = press(t, m, "3")
	assert.Equal(t, ViewStats, m.CurrentView)
	assert.Contains(t, m.View(), "Your Top Genres")
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

// collect runs cmd and flattens batches into their messages
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestModel_PopularLoaded(t *testing.T) {
	m := newTestModel(t, &fakeCatalog{popular: popular}, &fakeSyncer{})

	assert.False(t, m.Loading)
	assert.Equal(t, 3, m.DiscoverList.ItemCount())
	assert.Equal(t, "Popular (3)", m.DiscoverList.Title())
	require.NotNil(t, m.Details.Movie())
	assert.Equal(t, int64(1), m.Details.Movie().ID)
}

func TestModel_ToggleLike(t *testing.T) {
	m := newTestModel(t, &fakeCatalog{popular: popular}, &fakeSyncer{})

	m, _ = press(t, m, "j", "space")
	assert.True(t, m.Likes.IsLiked(2))
	assert.Equal(t, 1, m.LikesList.ItemCount())
	assert.Contains(t, m.StatusMsg, "Liked Inception")

	m, _ = press(t, m, "space")
	assert.False(t, m.Likes.IsLiked(2))
	assert.Equal(t, 0, m.LikesList.ItemCount())
}

func TestModel_UnlikeFromLikesView(t *testing.T) {
	m := newTestModel(t, &fakeCatalog{popular: popular}, &fakeSyncer{})

	m, _ = press(t, m, "space", "j", "space", "2")
	assert.Equal(t, ViewLikes, m.CurrentView)
	assert.Equal(t, 2, m.LikesList.ItemCount())

	m, _ = press(t, m, "space")
	assert.Equal(t, 1, m.LikesList.ItemCount())
	snapshot := m.Likes.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, int64(2), snapshot[0].ID)
}

func TestModel_SortModal(t *testing.T) {
	m := newTestModel(t, &fakeCatalog{popular: popular}, &fakeSyncer{})

	m, _ = press(t, m, "s")
	require.True(t, m.SortModal.IsVisible())

	m, _ = press(t, m, "j", "enter")
	assert.False(t, m.SortModal.IsVisible())
	assert.Equal(t, components.SortOptions()[1], m.Listing.Mode())
	assert.Equal(t, "Inception", m.DiscoverList.Movies()[0].Title)
	// Cursor follows the selected movie
	assert.Equal(t, "Heat", m.DiscoverList.SelectedMovie().Title)
}

func TestModel_SearchReplacesListing(t *testing.T) {
	catalog := &fakeCatalog{
		popular: popular,
		results: []domain.Movie{{ID: 10, Title: "Heat Wave"}},
	}
	m := newTestModel(t, catalog, &fakeSyncer{})

	m, _ = press(t, m, "f")
	require.True(t, m.SearchModal.IsVisible())

	m, _ = press(t, m, "heat")
	m, cmd := press(t, m, "enter")
	require.NotNil(t, cmd)
	assert.False(t, m.SearchModal.IsVisible())
	assert.True(t, m.Loading)

	msgs := collect(cmd)
	require.Len(t, msgs, 1)
	m = update(t, m, msgs[0])

	assert.False(t, m.Loading)
	assert.Equal(t, 1, m.DiscoverList.ItemCount())
	assert.Equal(t, `Results for "heat"`, m.Listing.Title)
}

func TestModel_BlankSearchIsNoOp(t *testing.T) {
	m := newTestModel(t, &fakeCatalog{popular: popular}, &fakeSyncer{})

	m, _ = press(t, m, "f", " ")
	m, cmd := press(t, m, "enter")

	assert.Nil(t, cmd)
	assert.False(t, m.Loading)
	assert.Equal(t, 3, m.DiscoverList.ItemCount())
	assert.True(t, m.SearchModal.IsVisible())
	assert.Contains(t, m.View(), "Type a title to search")
	assert.Empty(t, m.SearchModal.History())
}

func TestModel_SearchHistoryRecall(t *testing.T) {
	catalog := &fakeCatalog{popular: popular, results: []domain.Movie{{ID: 10, Title: "Heat Wave"}}}
	m := newTestModel(t, catalog, &fakeSyncer{})

	for _, q := range []string{"heat", "alien", "HEAT"} {
		m, _ = press(t, m, "f", q, "enter")
	}
	assert.Equal(t, []string{"HEAT", "alien"}, m.SearchModal.History())

	m, _ = press(t, m, "f", "mat", "up")
	assert.Equal(t, "HEAT", m.SearchModal.Query())
	m, _ = press(t, m, "up", "up")
	assert.Equal(t, "alien", m.SearchModal.Query(), "stops at the oldest entry")
	m, _ = press(t, m, "down", "down")
	assert.Equal(t, "mat", m.SearchModal.Query(), "restores the draft")

	m, _ = press(t, m, "up")
	m, cmd := press(t, m, "enter")
	msgs := collect(cmd)
	require.Len(t, msgs, 1)
	m = update(t, m, msgs[0])
	assert.Equal(t, `Results for "HEAT"`, m.Listing.Title)
}

func TestModel_SearchErrorKeepsListing(t *testing.T) {
	catalog := &fakeCatalog{popular: popular, searchErr: errors.New("connection refused")}
	m := newTestModel(t, catalog, &fakeSyncer{})

	m, _ = press(t, m, "f", "matrix")
	m, cmd := press(t, m, "enter")
	msgs := collect(cmd)
	require.Len(t, msgs, 1)
	require.IsType(t, ErrMsg{}, msgs[0])

	m = update(t, m, msgs[0])
	assert.True(t, m.StatusIsErr)
	assert.Contains(t, m.StatusMsg, "failed to search for movies")
	assert.Equal(t, 3, m.DiscoverList.ItemCount())
	assert.Equal(t, "Popular", m.Listing.Title)
}

func TestModel_SyncSuccessLoadsRecommendations(t *testing.T) {
	catalog := &fakeCatalog{
		popular:  popular,
		discover: []domain.Movie{{ID: 20, Title: "Die Hard"}},
	}
	syncer := &fakeSyncer{}
	m := newTestModel(t, catalog, syncer)

	stats := &domain.Stats{
		TopGenres:  []domain.GenreStat{{ID: 28, Name: "Action", Count: 2}},
		TotalLikes: 2,
	}
	syncer.set(insights.Result{Version: 1, State: domain.SyncSuccess, Stats: stats})

	next, cmd := m.Update(SyncProgressMsg{Progress: domain.SyncProgress{Version: 1, State: domain.SyncSuccess}})
	m = next.(Model)

	var recs *RecommendationsMsg
	for _, msg := range collect(cmd) {
		if r, ok := msg.(RecommendationsMsg); ok {
			recs = &r
		}
	}
	require.NotNil(t, recs)
	assert.Equal(t, "Action", recs.Genre.Name)
	require.Len(t, recs.Movies, 1)

	// Same version again does not reload
	_, cmd = m.Update(SyncProgressMsg{Progress: domain.SyncProgress{Version: 1, State: domain.SyncSuccess}})
	assert.Empty(t, collect(cmd))
}

func TestModel_SyncFailureShowsError(t *testing.T) {
	syncer := &fakeSyncer{}
	m := newTestModel(t, &fakeCatalog{popular: popular}, syncer)

	syncer.set(insights.Result{Version: 1, State: domain.SyncFailed, Err: domain.ErrServerOffline})
	m = update(t, m, SyncProgressMsg{Progress: domain.SyncProgress{Version: 1, State: domain.SyncFailed}})
	m, _ = press(t, m, "3")

	assert.Equal(t, domain.SyncFailed, m.Stats.State())
	assert.Contains(t, m.View(), "Failed to load stats")
}

func TestModel_RefreshOnStatsTriggersSync(t *testing.T) {
	syncer := &fakeSyncer{}
	m := newTestModel(t, &fakeCatalog{popular: popular}, syncer)

	m, _ = press(t, m, "space", "3", "r")

	require.Len(t, syncer.triggers, 1)
	assert.Equal(t, m.Likes.Version(), syncer.triggers[0].version)
	assert.Equal(t, 1, syncer.triggers[0].count)
}

func TestModel_FilterTypingSwallowsKeys(t *testing.T) {
	m := newTestModel(t, &fakeCatalog{popular: popular}, &fakeSyncer{})

	m, _ = press(t, m, "/", "q")
	assert.True(t, m.DiscoverList.IsFilterTyping())
	assert.Equal(t, ViewDiscover, m.CurrentView)

	m, _ = press(t, m, "esc")
	assert.False(t, m.DiscoverList.IsFiltering())
	assert.Equal(t, 3, m.DiscoverList.ItemCount())
}

func TestModel_HelpOverlay(t *testing.T) {
	m := newTestModel(t, &fakeCatalog{popular: popular}, &fakeSyncer{})

	m, _ = press(t, m, "?")
	assert.Equal(t, StateHelp, m.State)
	assert.Contains(t, m.View(), "Like/unlike")

	m, _ = press(t, m, "?")
	assert.Equal(t, StateBrowsing, m.State)
}

func TestParseView(t *testing.T) {
	assert.Equal(t, ViewDiscover, ParseView(""))
	assert.Equal(t, ViewLikes, ParseView("Likes"))
	assert.Equal(t, ViewStats, ParseView(" stats "))
	assert.Equal(t, ViewDiscover, ParseView("bogus"))
}

type fakeOpener struct {
	urls []string
	err  error
}

func (f *fakeOpener) Open(url string) error {
	f.urls = append(f.urls, url)
	return f.err
}

func TestModel_OpenInBrowser(t *testing.T) {
	m := newTestModel(t, &fakeCatalog{popular: popular}, &fakeSyncer{})
	opener := &fakeOpener{}
	m.Opener = opener

	m, cmd := press(t, m, "j", "o")
	msgs := collect(cmd)
	require.Len(t, msgs, 1)
	assert.Equal(t, []string{"https://www.themoviedb.org/movie/2"}, opener.urls)
	assert.Equal(t, StatusMsg{Message: "Opened Inception in browser"}, msgs[0])

	opener.err = errors.New("no browser found")
	_, cmd = press(t, m, "o")
	msgs = collect(cmd)
	require.Len(t, msgs, 1)
	assert.IsType(t, ErrMsg{}, msgs[0])
}
