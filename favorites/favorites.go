// Package favorites keeps the user's persisted set of favorite movies.
package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/s0up4200/reelscout/catalog"
	"github.com/s0up4200/reelscout/storage"
)

// StorageKey is the key holding the JSON favorites list.
const StorageKey = "favorites"

// Store is a set of movies keyed by id that keeps insertion order. Every
// mutation persists the full list before returning.
type Store struct {
	storage storage.Store
	logger  zerolog.Logger

	mu     sync.Mutex
	movies []catalog.Movie
}

// Open hydrates a Store from st. Persisted data that does not parse is
// discarded with a warning; only storage read failures are returned.
func Open(ctx context.Context, st storage.Store, logger zerolog.Logger) (*Store, error) {
	s := &Store{
		storage: st,
		logger:  logger.With().Str("component", "favorites").Logger(),
		movies:  []catalog.Movie{},
	}

	data, ok, err := st.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	if !ok {
		return s, nil
	}

	var movies []catalog.Movie
	if err := json.Unmarshal(data, &movies); err != nil {
		s.logger.Warn().Err(err).Msg("Discarding corrupt favorites data")
		return s, nil
	}
	s.movies = dedupe(movies)

	s.logger.Debug().Int("count", len(s.movies)).Msg("Loaded favorites")
	return s, nil
}

// Add stores a snapshot of m and reports whether it was added. It is a
// no-op when m.ID is already present.
func (s *Store) Add(ctx context.Context, m catalog.Movie) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(m.ID) >= 0 {
		return false, nil
	}
	if err := s.commitLocked(ctx, append(slices.Clone(s.movies), m.Clone())); err != nil {
		return false, err
	}
	return true, nil
}

// Remove deletes id and reports whether it was present.
func (s *Store) Remove(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return false, nil
	}
	if err := s.commitLocked(ctx, slices.Delete(slices.Clone(s.movies), i, i+1)); err != nil {
		return false, err
	}
	return true, nil
}

// Toggle adds m when absent and removes it when present, and reports
// whether m is a favorite afterwards. Check and mutation happen under one
// lock, so concurrent toggles never lose an update.
func (s *Store) Toggle(ctx context.Context, m catalog.Movie) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexLocked(m.ID); i >= 0 {
		if err := s.commitLocked(ctx, slices.Delete(slices.Clone(s.movies), i, i+1)); err != nil {
			return true, err
		}
		return false, nil
	}

	if err := s.commitLocked(ctx, append(slices.Clone(s.movies), m.Clone())); err != nil {
		return false, err
	}
	return true, nil
}

// IsFavorite reports whether id is in the set.
func (s *Store) IsFavorite(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexLocked(id) >= 0
}

// List returns copies of the favorites in insertion order.
func (s *Store) List() []catalog.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]catalog.Movie, 0, len(s.movies))
	for _, m := range s.movies {
		out = append(out, m.Clone())
	}
	return out
}

// Len returns the number of favorites.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.movies)
}

// commitLocked persists next and only then makes it visible, so a failed
// write leaves the set unchanged.
func (s *Store) commitLocked(ctx context.Context, next []catalog.Movie) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode favorites: %w", err)
	}
	if err := s.storage.Set(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("failed to persist favorites: %w", err)
	}
	s.movies = next
	return nil
}

func (s *Store) indexLocked(id int) int {
	return slices.IndexFunc(s.movies, func(m catalog.Movie) bool { return m.ID == id })
}

// dedupe keeps the first occurrence of each id.
func dedupe(movies []catalog.Movie) []catalog.Movie {
	seen := make(map[int]struct{}, len(movies))
	out := make([]catalog.Movie, 0, len(movies))
	for _, m := range movies {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		out = append(out, m)
	}
	return out
}
