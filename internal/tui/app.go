package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/filmfinder/internal/discover"
	"github.com/mmcdole/filmfinder/internal/domain"
	"github.com/mmcdole/filmfinder/internal/insights"
	"github.com/mmcdole/filmfinder/internal/tui/components"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateHelp
)

// View is one of the top-level tabs
type View int

const (
	ViewDiscover View = iota
	ViewLikes
	ViewStats
)

var viewNames = []string{"discover", "likes", "stats"}

func (v View) String() string {
	if int(v) < len(viewNames) {
		return viewNames[v]
	}
	return "unknown"
}

// Label returns the tab label
func (v View) Label() string {
	switch v {
	case ViewDiscover:
		return "Discover"
	case ViewLikes:
		return "Likes"
	case ViewStats:
		return "Stats"
	}
	return "?"
}

// ParseView maps a config name to a View, defaulting to ViewDiscover
func ParseView(name string) View {
	for i, n := range viewNames {
		if strings.EqualFold(strings.TrimSpace(name), n) {
			return View(i)
		}
	}
	return ViewDiscover
}

// Layout proportions
const (
	ListColumnPercent = 55
	MinColumnWidth    = 20

	// Vertical layout: tab bar + footer
	ChromeHeight = 2
)

const (
	tickInterval  = 100 * time.Millisecond
	statusTimeout = 3 * time.Second
	errorTimeout  = 5 * time.Second
)

// LikesStore is the liked-set the TUI mutates
type LikesStore interface {
	domain.LikesStore
	Toggle(movie domain.Movie) bool
	Version() uint64
}

// Syncer is the analytics sync state machine the TUI reads from
type Syncer interface {
	Trigger(version uint64, snapshot []domain.Movie)
	Current() insights.Result
}

// Opener opens a URL outside the terminal
type Opener interface {
	Open(url string) error
}

// Options configures a Model
type Options struct {
	ImageBaseURL string
	DefaultView  View
	Progress     <-chan domain.SyncProgress // From a ChannelObserver; may be nil
	Opener       Opener                     // May be nil
	Notice       string                     // Persistent footer hint, e.g. a missing API key
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State       ApplicationState
	CurrentView View
	Ready       bool

	// Services
	DiscoverSvc *discover.Service
	Likes       LikesStore
	Syncer      Syncer
	Opener      Opener
	progressCh  <-chan domain.SyncProgress

	// UI Components
	DiscoverList *components.MovieList
	LikesList    *components.MovieList
	Details      components.Details
	Stats        components.StatsPanel
	SearchModal  components.SearchModal
	SortModal    components.SortModal

	// Data
	Listing discover.Listing

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg    string
	StatusIsErr  bool
	Notice       string
	Loading      bool
	SpinnerFrame int

	// Sync version the recommendations were loaded for
	recommendedFor uint64
	pendingCmd     tea.Cmd
}

// NewModel creates a new application model
func NewModel(svc *discover.Service, likes LikesStore, syncer Syncer, opts Options) Model {
	discoverList := components.NewMovieList("Popular", "No movies found")
	discoverList.SetLikedFunc(likes.IsLiked)
	likesList := components.NewMovieList("Likes", "No liked movies yet. Press space on a movie to like it.")
	likesList.SetLikedFunc(likes.IsLiked)

	m := Model{
		State:        StateBrowsing,
		CurrentView:  opts.DefaultView,
		DiscoverSvc:  svc,
		Likes:        likes,
		Syncer:       syncer,
		Opener:       opts.Opener,
		progressCh:   opts.Progress,
		DiscoverList: discoverList,
		LikesList:    likesList,
		Details:      components.NewDetails(opts.ImageBaseURL),
		Stats:        components.NewStatsPanel(),
		SearchModal:  components.NewSearchModal(),
		SortModal:    components.NewSortModal(),
		Notice:       opts.Notice,
		Loading:      true,
	}
	discoverList.SetLoading(true)
	m.refreshLikes()
	m.pendingCmd = m.applySyncResult(0)
	m.focusView()
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		LoadPopularCmd(m.DiscoverSvc),
		TickCmd(tickInterval),
	}
	if m.pendingCmd != nil {
		cmds = append(cmds, m.pendingCmd)
	}
	if cmd := WaitForSyncCmd(m.progressCh); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		m.DiscoverList.SetSpinnerFrame(m.SpinnerFrame)
		m.Stats.SetSpinnerFrame(m.SpinnerFrame)
		return m, TickCmd(tickInterval)

	case PopularLoadedMsg:
		m.Loading = false
		m.setListing(msg.Listing)
		return m, nil

	case SearchResultsMsg:
		m.Loading = false
		m.setListing(msg.Listing)
		m.StatusMsg = fmt.Sprintf("Found %d movies for %q", msg.Listing.Len(), msg.Query)
		m.StatusIsErr = false
		return m, ClearStatusCmd(statusTimeout)

	case DetailsLoadedMsg:
		m.Loading = false
		if cur := m.Details.Movie(); cur != nil && cur.ID == msg.Movie.ID {
			movie := msg.Movie
			m.Details.SetMovie(&movie, m.Likes.IsLiked(movie.ID))
		}
		return m, nil

	case SyncProgressMsg:
		cmd := m.applySyncResult(msg.Progress.Attempt)
		return m, tea.Batch(cmd, WaitForSyncCmd(m.progressCh))

	case RecommendationsMsg:
		m.Stats.SetRecommendations(msg.Genre, msg.Movies, msg.Err)
		return m, nil

	case ErrMsg:
		m.Loading = false
		m.DiscoverList.SetLoading(false)
		m.StatusMsg = msg.Error()
		m.StatusIsErr = true
		return m, ClearStatusCmd(errorTimeout)

	case StatusMsg:
		m.StatusMsg = msg.Message
		m.StatusIsErr = msg.IsError
		return m, ClearStatusCmd(statusTimeout)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	// Forward everything else (cursor blink etc.) to an open search prompt
	if m.SearchModal.IsVisible() {
		var cmd tea.Cmd
		m.SearchModal, cmd, _ = m.SearchModal.Update(msg)
		return m, cmd
	}
	return m, nil
}

// setListing shows listing in the discover view
func (m *Model) setListing(listing discover.Listing) {
	m.Listing = listing
	m.DiscoverList.SetTitle(fmt.Sprintf("%s (%d)", listing.Title, listing.Len()))
	m.DiscoverList.SetMovies(listing.Movies())
	m.updateDetails()
}

// refreshLikes reloads the likes view from the store
func (m *Model) refreshLikes() {
	snapshot := m.Likes.Snapshot()
	m.LikesList.SetTitle(fmt.Sprintf("Likes (%d)", len(snapshot)))
	m.LikesList.SetMovies(snapshot)
}

// applySyncResult renders the syncer's current result. The result is read
// from the syncer rather than the message so a dropped transition is
// never shown stale. Returns a recommendation load on a new success.
func (m *Model) applySyncResult(attempt int) tea.Cmd {
	res := m.Syncer.Current()
	m.Stats.SetSync(res.State, res.Stats, res.Err, attempt)

	if res.State != domain.SyncSuccess || res.Version == m.recommendedFor {
		return nil
	}
	m.recommendedFor = res.Version
	if res.Stats == nil || len(res.Stats.TopGenres) == 0 {
		m.Stats.SetRecommendations(domain.GenreStat{}, nil, nil)
		return nil
	}
	return RecommendCmd(m.DiscoverSvc, res.Stats)
}

// activeList returns the list for the current view, nil on the stats view
func (m Model) activeList() *components.MovieList {
	switch m.CurrentView {
	case ViewDiscover:
		return m.DiscoverList
	case ViewLikes:
		return m.LikesList
	}
	return nil
}

// switchView changes the visible tab
func (m *Model) switchView(v View) {
	m.CurrentView = v
	if v == ViewLikes {
		m.refreshLikes()
	}
	m.focusView()
	m.updateDetails()
}

func (m *Model) focusView() {
	m.DiscoverList.SetFocused(m.CurrentView == ViewDiscover)
	m.LikesList.SetFocused(m.CurrentView == ViewLikes)
}

// updateDetails points the details panel at the active selection
func (m *Model) updateDetails() {
	list := m.activeList()
	if list == nil {
		return
	}
	movie := list.SelectedMovie()
	if movie == nil {
		m.Details.SetMovie(nil, false)
		return
	}
	// Keep already loaded details for the same movie
	if cur := m.Details.Movie(); cur != nil && cur.ID == movie.ID && cur.Runtime > 0 {
		m.Details.SetMovie(cur, m.Likes.IsLiked(movie.ID))
		return
	}
	m.Details.SetMovie(movie, m.Likes.IsLiked(movie.ID))
}

// updateLayout recalculates component sizes
func (m *Model) updateLayout() {
	contentHeight := max(m.Height-ChromeHeight, 3)

	listWidth := max(m.Width*ListColumnPercent/100, MinColumnWidth)
	detailsWidth := max(m.Width-listWidth, 0)

	m.DiscoverList.SetSize(listWidth, contentHeight)
	m.LikesList.SetSize(listWidth, contentHeight)
	m.Details.SetSize(detailsWidth, contentHeight)
	m.Stats.SetSize(m.Width, contentHeight)
}
