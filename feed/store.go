package feed

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Snapshot is one published, sorted version of the feed.
type Snapshot struct {
	Generation uint64
	Changes    []ChangeRecord
	LoadedAt   time.Time
}

// Store holds the current snapshot and notifies subscribers when a new one
// is published. Snapshots are never mutated after publishing.
type Store struct {
	loader *Loader

	mu     sync.RWMutex
	snap   Snapshot
	loaded bool
	subs   []func(Snapshot)
}

// NewStore returns an empty store backed by loader.
func NewStore(loader *Loader) *Store {
	return &Store{loader: loader}
}

// Loader returns the store's loader.
func (s *Store) Loader() *Loader {
	return s.loader
}

// Reload runs a fail-soft fetch and publishes the result. If ctx ends
// before the fetch completes nothing is published and the current snapshot
// is returned.
func (s *Store) Reload(ctx context.Context) Snapshot {
	changes := s.loader.Fetch(ctx)
	if err := ctx.Err(); err != nil {
		slog.Warn("feed reload abandoned", "source", s.loader.Source, "error", err)
		snap, _ := s.Current()
		return snap
	}
	snap := s.Publish(changes)
	slog.Info("feed loaded", "source", s.loader.Source, "changes", len(changes), "generation", snap.Generation)
	return snap
}

// Publish stores changes, which must already be sorted, as a new
// generation and notifies subscribers.
func (s *Store) Publish(changes []ChangeRecord) Snapshot {
	s.mu.Lock()
	s.snap = Snapshot{
		Generation: s.snap.Generation + 1,
		Changes:    changes,
		LoadedAt:   time.Now(),
	}
	s.loaded = true
	snap := s.snap
	subs := append([]func(Snapshot){}, s.subs...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
	return snap
}

// Current returns the latest snapshot. ok is false until the first publish.
func (s *Store) Current() (snap Snapshot, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap, s.loaded
}

// Subscribe registers fn to run after every publish.
func (s *Store) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}
