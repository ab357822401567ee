// Package likes owns the user's LikedSet: the ordered, id-unique collection of
// liked movies, persisted to a key-value backing store across sessions.
//
// In-memory state is authoritative for the session. Every effective mutation
// schedules a full-snapshot write through a single writer goroutine; a failed
// write is logged and never rolls the mutation back.
package likes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmcdole/filmfinder/internal/domain"
)

// StorageKey is the backing-store key holding the serialized LikedSet
const StorageKey = "likes"

// Change describes the LikedSet after a mutation (or the initial load).
type Change struct {
	Version uint64
	Likes   []domain.Movie
	Initial bool // true for the notification sent by Initialize
}

// Store implements domain.LikesStore.
type Store struct {
	logger *slog.Logger
	writer *writer

	mu      sync.RWMutex
	movies  []domain.Movie
	index   map[int64]int // movie ID -> position in movies
	version uint64

	// notifyMu serializes subscriber callbacks so they observe versions in order
	notifyMu    sync.Mutex
	subscribers []func(Change)
}

var _ domain.LikesStore = (*Store)(nil)

// New creates a Store over kv and starts its persistence writer.
// Call Initialize before use and Close when done.
func New(kv domain.KVStore, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		logger: logger,
		writer: newWriter(kv, StorageKey, logger),
		index:  make(map[int64]int),
	}
}

// Subscribe registers fn to be called after every change, in version order.
// fn runs on the mutating goroutine and must not call back into the Store.
func (s *Store) Subscribe(fn func(Change)) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Initialize loads the LikedSet from the backing store. Anything unreadable
// (missing key, read error, corrupt JSON, records without an id) starts the
// session with an empty set. Subscribers are notified either way.
func (s *Store) Initialize() {
	movies := s.load()

	s.mu.Lock()
	s.movies = movies
	s.reindex()
	s.version++
	change := s.changeLocked()
	change.Initial = true
	s.notifyMu.Lock()
	s.mu.Unlock()

	s.logger.Info("loaded likes", "count", len(movies))
	s.notify(change)
}

// load reads and decodes the stored LikedSet, falling back to empty.
func (s *Store) load() []domain.Movie {
	raw, ok, err := s.writer.kv.Get(StorageKey)
	if err != nil {
		s.logger.Warn("failed to read likes, starting empty", "error", err)
		return nil
	}
	if !ok || raw == "" {
		return nil
	}

	movies, err := decodeLikes(raw)
	if err != nil {
		s.logger.Warn("stored likes are corrupt, starting empty", "error", err)
		return nil
	}
	return movies
}

// decodeLikes parses a serialized LikedSet. Duplicate IDs keep the first entry.
func decodeLikes(raw string) ([]domain.Movie, error) {
	var decoded []domain.Movie
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, err
	}

	seen := make(map[int64]bool, len(decoded))
	movies := make([]domain.Movie, 0, len(decoded))
	for i, m := range decoded {
		if m.ID <= 0 {
			return nil, fmt.Errorf("record %d has no valid id", i)
		}
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		movies = append(movies, m)
	}
	return movies, nil
}

// Add appends movie to the end of the LikedSet.
// A movie that is already liked is left in place and Add returns false.
func (s *Store) Add(movie domain.Movie) bool {
	s.mu.Lock()
	if _, ok := s.index[movie.ID]; ok {
		s.mu.Unlock()
		s.logger.Debug("movie already liked", "id", movie.ID)
		return false
	}
	s.index[movie.ID] = len(s.movies)
	s.movies = append(s.movies, movie.Clone())
	change := s.commitLocked()
	s.notifyMu.Lock()
	s.mu.Unlock()

	s.logger.Debug("liked movie", "id", movie.ID, "title", movie.Title, "version", change.Version)
	s.notify(change)
	return true
}

// Remove drops every entry whose ID equals id. Unknown IDs are a no-op.
func (s *Store) Remove(id int64) bool {
	s.mu.Lock()
	if _, ok := s.index[id]; !ok {
		s.mu.Unlock()
		return false
	}
	kept := make([]domain.Movie, 0, len(s.movies))
	for _, m := range s.movies {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	s.movies = kept
	s.reindex()
	change := s.commitLocked()
	s.notifyMu.Lock()
	s.mu.Unlock()

	s.logger.Debug("unliked movie", "id", id, "version", change.Version)
	s.notify(change)
	return true
}

// Toggle likes movie if it is not liked and unlikes it otherwise.
// Returns whether the movie is liked afterwards.
func (s *Store) Toggle(movie domain.Movie) bool {
	if s.Remove(movie.ID) {
		return false
	}
	s.Add(movie)
	return true
}

func (s *Store) IsLiked(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[id]
	return ok
}

func (s *Store) Snapshot() []domain.Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Len returns the number of liked movies
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.movies)
}

// Version returns the LikedSet version; it increases with every change
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// commitLocked bumps the version and schedules persistence. Callers hold mu,
// so writes are enqueued in mutation order.
func (s *Store) commitLocked() Change {
	s.version++
	change := s.changeLocked()
	s.writer.enqueue(change.Version, change.Likes)
	return change
}

func (s *Store) changeLocked() Change {
	return Change{Version: s.version, Likes: s.snapshotLocked()}
}

// snapshotLocked deep-copies the LikedSet so callers and the writer never
// share GenreIDs or Extra with the store
func (s *Store) snapshotLocked() []domain.Movie {
	out := make([]domain.Movie, len(s.movies))
	for i, m := range s.movies {
		out[i] = m.Clone()
	}
	return out
}

func (s *Store) reindex() {
	s.index = make(map[int64]int, len(s.movies))
	for i, m := range s.movies {
		s.index[m.ID] = i
	}
}

// notify calls subscribers and releases notifyMu, which the caller acquired
// before releasing mu.
func (s *Store) notify(change Change) {
	defer s.notifyMu.Unlock()
	for _, fn := range s.subscribers {
		fn(change)
	}
}

// Flush waits until the current LikedSet has been written to the backing
// store and returns the result of that write.
func (s *Store) Flush(ctx context.Context) error {
	return s.writer.flush(ctx, s.Version())
}

// Close writes any pending snapshot and stops the persistence writer.
// It does not close the backing store.
func (s *Store) Close() error {
	return s.writer.close()
}
