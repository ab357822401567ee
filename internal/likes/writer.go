package likes

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/mmcdole/filmfinder/internal/domain"
)

// writer is the single goroutine allowed to write the LikedSet key.
// Pending snapshots coalesce: only the newest one is written, so the backing
// store always converges on the latest in-memory state.
type writer struct {
	kv     domain.KVStore
	key    string
	logger *slog.Logger

	mu       sync.Mutex
	pending  *snapshot
	enqueued uint64 // highest version handed to the writer
	written  uint64 // highest version attempted
	lastErr  error  // result of the write that produced written
	waiters  []flushWaiter
	closed   bool

	wake chan struct{}
	done chan struct{}
}

type snapshot struct {
	version uint64
	movies  []domain.Movie
}

type flushWaiter struct {
	version uint64
	ch      chan error
}

func newWriter(kv domain.KVStore, key string, logger *slog.Logger) *writer {
	w := &writer{
		kv:     kv,
		key:    key,
		logger: logger,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go w.run()
	return w
}

// enqueue schedules a write of movies as of version.
func (w *writer) enqueue(version uint64, movies []domain.Movie) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		w.logger.Warn("likes changed after close, not persisted", "version", version)
		return
	}
	if w.pending == nil || w.pending.version < version {
		w.pending = &snapshot{version: version, movies: movies}
	}
	if version > w.enqueued {
		w.enqueued = version
	}

	select {
	case w.wake <- struct{}{}:
	default: // Writer already signalled
	}
}

func (w *writer) run() {
	defer close(w.done)
	for range w.wake {
		for w.writeNext() {
		}
	}
	for w.writeNext() {
	}
}

// writeNext writes the pending snapshot, if any. Returns false when idle.
func (w *writer) writeNext() bool {
	w.mu.Lock()
	snap := w.pending
	w.pending = nil
	w.mu.Unlock()
	if snap == nil {
		return false
	}

	err := w.put(snap)

	w.mu.Lock()
	w.written = snap.version
	w.lastErr = err
	w.releaseWaitersLocked()
	w.mu.Unlock()
	return true
}

func (w *writer) put(snap *snapshot) error {
	movies := snap.movies
	if movies == nil {
		movies = []domain.Movie{}
	}
	data, err := json.Marshal(movies)
	if err != nil {
		w.logger.Error("failed to encode likes", "error", err, "version", snap.version)
		return err
	}
	if err := w.kv.Put(w.key, string(data)); err != nil {
		w.logger.Error("failed to persist likes", "error", err, "version", snap.version)
		return err
	}
	w.logger.Debug("persisted likes", "count", len(movies), "version", snap.version)
	return nil
}

func (w *writer) releaseWaitersLocked() {
	kept := w.waiters[:0]
	for _, fw := range w.waiters {
		if fw.version <= w.written {
			fw.ch <- w.lastErr
			continue
		}
		kept = append(kept, fw)
	}
	w.waiters = kept
}

// flush blocks until every snapshot up to version has been written.
// Returns the error of the write that covered version.
func (w *writer) flush(ctx context.Context, version uint64) error {
	w.mu.Lock()
	// Versions that never produced a write (the initial load) are covered
	// by the newest enqueued one.
	if version > w.enqueued {
		version = w.enqueued
	}
	if version == 0 {
		w.mu.Unlock()
		return nil
	}
	if w.written >= version {
		err := w.lastErr
		w.mu.Unlock()
		return err
	}
	ch := make(chan error, 1)
	w.waiters = append(w.waiters, flushWaiter{version: version, ch: ch})
	w.mu.Unlock()

	select {
	case err := <-ch:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close drains pending writes and stops the goroutine.
func (w *writer) close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		<-w.done
		return nil
	}
	w.closed = true
	close(w.wake)
	w.mu.Unlock()

	<-w.done

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}
