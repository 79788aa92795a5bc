package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/reelscout/catalog"
	"github.com/s0up4200/reelscout/storage"
)

func movie(id int, title string) catalog.Movie {
	poster := "https://image.tmdb.org/t/p/w500/poster.jpg"
	return catalog.Movie{ID: id, Title: title, PosterURL: &poster}
}

func openStore(t *testing.T, st storage.Store) *Store {
	t.Helper()
	s, err := Open(context.Background(), st, zerolog.Nop())
	require.NoError(t, err)
	return s
}

// flakyStorage fails writes while failing is set.
type flakyStorage struct {
	*storage.MemoryStore
	mu      sync.Mutex
	failing bool
	readErr error
}

func (f *flakyStorage) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	failing := f.failing
	f.mu.Unlock()
	if failing {
		return errors.New("disk full")
	}
	return f.MemoryStore.Set(ctx, key, value)
}

func (f *flakyStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if f.readErr != nil {
		return nil, false, f.readErr
	}
	return f.MemoryStore.Get(ctx, key)
}

func add(t *testing.T, s *Store, m catalog.Movie) {
	t.Helper()
	_, err := s.Add(context.Background(), m)
	require.NoError(t, err)
}

func TestToggleRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, storage.NewMemoryStore())
	add(t, s, movie(1, "Alien"))
	before := s.List()

	m := movie(603, "The Matrix")
	on, err := s.Toggle(ctx, m)
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, s.IsFavorite(603))

	on, err = s.Toggle(ctx, m)
	require.NoError(t, err)
	assert.False(t, on)
	assert.False(t, s.IsFavorite(603))

	assert.Equal(t, before, s.List())
}

func TestAddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, storage.NewMemoryStore())

	added, err := s.Add(ctx, movie(603, "The Matrix"))
	require.NoError(t, err)
	assert.True(t, added)
	added, err = s.Add(ctx, movie(603, "The Matrix (again)"))
	require.NoError(t, err)
	assert.False(t, added)

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, "The Matrix", s.List()[0].Title)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, storage.NewMemoryStore())

	add(t, s, movie(1, "A"))
	add(t, s, movie(2, "B"))
	add(t, s, movie(3, "C"))

	removed, err := s.Remove(ctx, 2)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = s.Remove(ctx, 42)
	require.NoError(t, err)
	assert.False(t, removed)

	ids := []int{}
	for _, m := range s.List() {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []int{1, 3}, ids)
}

func TestPersistsInInsertionOrder(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemoryStore()
	s := openStore(t, st)

	add(t, s, movie(3, "C"))
	add(t, s, movie(1, "A"))
	add(t, s, movie(2, "B"))

	data, ok, err := st.Get(ctx, StorageKey)
	require.NoError(t, err)
	require.True(t, ok)

	var persisted []catalog.Movie
	require.NoError(t, json.Unmarshal(data, &persisted))
	require.Len(t, persisted, 3)
	assert.Equal(t, []int{3, 1, 2}, []int{persisted[0].ID, persisted[1].ID, persisted[2].ID})

	reopened := openStore(t, st)
	assert.Equal(t, s.List(), reopened.List())
}

func TestOpenCorruptData(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed json", `[{"id": 603, "title": "The Ma`},
		{"wrong shape", `{"id": 603}`},
		{"not json", `favorites`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := storage.NewMemoryStore()
			require.NoError(t, st.Set(context.Background(), StorageKey, []byte(tt.data)))

			s, err := Open(context.Background(), st, zerolog.Nop())
			require.NoError(t, err)
			assert.Zero(t, s.Len())
			assert.NotNil(t, s.List())
		})
	}
}

func TestOpenDedupesPersistedData(t *testing.T) {
	st := storage.NewMemoryStore()
	require.NoError(t, st.Set(context.Background(), StorageKey, []byte(`[{"id":1,"title":"A"},{"id":1,"title":"dup"},{"id":2,"title":"B"}]`)))

	s := openStore(t, st)
	require.Equal(t, 2, s.Len())
	assert.Equal(t, "A", s.List()[0].Title)
}

func TestOpenReadError(t *testing.T) {
	st := &flakyStorage{MemoryStore: storage.NewMemoryStore(), readErr: errors.New("permission denied")}

	_, err := Open(context.Background(), st, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestFailedPersistRollsBack(t *testing.T) {
	ctx := context.Background()
	st := &flakyStorage{MemoryStore: storage.NewMemoryStore()}
	s := openStore(t, st)
	add(t, s, movie(1, "A"))

	st.failing = true

	on, err := s.Toggle(ctx, movie(2, "B"))
	require.Error(t, err)
	assert.False(t, on)
	assert.False(t, s.IsFavorite(2))

	on, err = s.Toggle(ctx, movie(1, "A"))
	require.Error(t, err)
	assert.True(t, on)
	assert.True(t, s.IsFavorite(1))

	removed, err := s.Remove(ctx, 1)
	assert.Error(t, err)
	assert.False(t, removed)
	assert.Equal(t, 1, s.Len())
}

func TestConcurrentTogglesDoNotLoseUpdates(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemoryStore()
	s := openStore(t, st)
	m := movie(603, "The Matrix")

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Toggle(ctx, m)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.False(t, s.IsFavorite(603))
	assert.Zero(t, s.Len())

	reopened := openStore(t, st)
	assert.Zero(t, reopened.Len())
}

func TestListReturnsCopies(t *testing.T) {
	s := openStore(t, storage.NewMemoryStore())
	add(t, s, movie(1, "A"))

	list := s.List()
	*list[0].PosterURL = "mutated"
	list[0].Title = "mutated"

	fresh := s.List()
	assert.Equal(t, "A", fresh[0].Title)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/poster.jpg", *fresh[0].PosterURL)
}
