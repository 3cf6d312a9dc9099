package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"wardpulse/internal/infrastructure"
	"wardpulse/pkg/contracts/domain"
)

// Store caches the loaded dataset and makes the cache lifecycle explicit:
// the dataset is loaded on first use, re-loaded when the source file's
// modification time changes, and can be forced to reload via Reload.
// The cached dataset itself is immutable, so concurrent viewers share it
// without copying.
type Store struct {
	path   string
	loader *Loader
	logger *slog.Logger

	mu      sync.RWMutex
	dataset domain.Dataset
	modTime time.Time
	loaded  bool
}

// NewStore creates a store for the dataset at path.
func NewStore(path string, loader *Loader, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		path:   path,
		loader: loader,
		logger: logger.With(slog.String("component", "dataset_store")),
	}
}

// Dataset returns the cached dataset, loading it on first use and
// reloading when the file's modification time has changed since the
// cached load. Callers must treat the returned slice as read-only.
func (s *Store) Dataset(ctx context.Context) (domain.Dataset, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDataSourceMissing, s.path, err)
	}

	s.mu.RLock()
	if s.loaded && info.ModTime().Equal(s.modTime) {
		ds := s.dataset
		s.mu.RUnlock()
		return ds, nil
	}
	s.mu.RUnlock()

	return s.load(ctx, info.ModTime(), false)
}

// Reload discards the cache and loads the dataset from disk even when the
// source file's modification time has not changed.
func (s *Store) Reload(ctx context.Context) (domain.Dataset, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDataSourceMissing, s.path, err)
	}
	return s.load(ctx, info.ModTime(), true)
}

// Bounds returns the admission-date span of the cached dataset.
func (s *Store) Bounds(ctx context.Context) (domain.DateBounds, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return domain.DateBounds{}, err
	}

	min, max, ok := ds.Bounds()
	if !ok {
		return domain.DateBounds{}, fmt.Errorf("%w: %s: dataset has no rows", ErrDataSourceMissing, s.path)
	}
	return domain.DateBounds{Min: min, Max: max}, nil
}

// Source returns the path the store loads from.
func (s *Store) Source() string {
	return s.path
}

func (s *Store) load(ctx context.Context, modTime time.Time, force bool) (domain.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Another goroutine may have loaded this version while we waited.
	if !force && s.loaded && modTime.Equal(s.modTime) {
		return s.dataset, nil
	}

	ds, err := s.loader.Load(s.path)
	if err != nil {
		return nil, err
	}

	s.dataset = ds
	s.modTime = modTime
	s.loaded = true

	infrastructure.ObserveDatasetLoad(len(ds))
	s.logger.InfoContext(ctx, "dataset cache refreshed",
		slog.String("source", s.path),
		slog.Int("days", len(ds)),
		slog.Time("mod_time", modTime))

	return ds, nil
}
