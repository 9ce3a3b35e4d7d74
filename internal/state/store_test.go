package state

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/snipbox/internal/apperror"
	"github.com/five82/snipbox/internal/snippet"
)

type recordingPersister struct {
	mu    sync.Mutex
	saves [][]snippet.Snippet
	err   error
}

func (p *recordingPersister) Save(items []snippet.Snippet) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.saves = append(p.saves, items)
	return nil
}

func (p *recordingPersister) last() []snippet.Snippet {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.saves) == 0 {
		return nil
	}
	return p.saves[len(p.saves)-1]
}

func (p *recordingPersister) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.saves)
}

func seeded(t *testing.T, p Persister) *Store {
	t.Helper()
	s := New(p, nil)
	s.Restore([]snippet.Snippet{
		{ID: "a", Title: "Alpha", Content: "one", Tags: []string{"x"}, CreatedAt: "2024-01-01T00:00:00.000Z"},
		{ID: "b", Title: "Beta", Content: "two", Tags: []string{}, CreatedAt: "2024-01-02T00:00:00.000Z"},
		{ID: "c", Title: "Gamma", Content: "three", Tags: []string{"y", "z"}, CreatedAt: "2024-01-03T00:00:00.000Z"},
	})
	return s
}

func ids(items []snippet.Snippet) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestStore_CreateInsertsAtFront(t *testing.T) {
	p := &recordingPersister{}
	s := seeded(t, p)

	created, err := s.Create(snippet.Snippet{Title: "  New  ", Content: "body\n", Tags: []string{" go ", ""}})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.CreatedAt)
	assert.Equal(t, "New", created.Title)
	assert.Equal(t, "body\n", created.Content)
	assert.Equal(t, []string{"go"}, created.Tags)

	all := s.All()
	require.Len(t, all, 4)
	assert.Equal(t, created.ID, all[0].ID)
	assert.Equal(t, []string{created.ID, "a", "b", "c"}, ids(all))

	assert.Equal(t, 1, p.count(), "create should write through once")
	assert.Equal(t, all, p.last())
}

func TestStore_CreateKeepsSuppliedIdentity(t *testing.T) {
	s := New(nil, nil)
	created, err := s.Create(snippet.Snippet{ID: "fixed", Title: "T", Content: "C", CreatedAt: "2023-06-01T00:00:00.000Z"})
	require.NoError(t, err)
	assert.Equal(t, "fixed", created.ID)
	assert.Equal(t, "2023-06-01T00:00:00.000Z", created.CreatedAt)
}

func TestStore_CreateRejectsBlankFields(t *testing.T) {
	tests := []struct {
		name  string
		item  snippet.Snippet
		field string
	}{
		{name: "blank title", item: snippet.Snippet{Title: "   ", Content: "x"}, field: "title"},
		{name: "blank content", item: snippet.Snippet{Title: "x", Content: " \n\t "}, field: "content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &recordingPersister{}
			s := seeded(t, p)
			before := s.Snapshot()

			_, err := s.Create(tt.item)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperror.ErrValidation))
			assert.Equal(t, tt.field, apperror.FieldOf(err))

			after := s.Snapshot()
			assert.Equal(t, before.Items, after.Items)
			assert.Equal(t, before.Version, after.Version)
			assert.Zero(t, p.count(), "rejected create must not persist")
		})
	}
}

func TestStore_CreateUniqueIDs(t *testing.T) {
	s := New(nil, nil)
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		created, err := s.Create(snippet.Snippet{Title: "t", Content: "c"})
		require.NoError(t, err)
		require.False(t, seen[created.ID], "duplicate id %s", created.ID)
		seen[created.ID] = true
	}
	assert.Equal(t, 200, s.Len())
}

func TestStore_UpdatePreservesPositionAndCreatedAt(t *testing.T) {
	s := seeded(t, &recordingPersister{})

	updated, err := s.Update("b", snippet.Snippet{ID: "ignored", Title: " Beta 2 ", Content: "new body", Tags: []string{"k"}})
	require.NoError(t, err)

	assert.Equal(t, "b", updated.ID)
	assert.Equal(t, "2024-01-02T00:00:00.000Z", updated.CreatedAt)
	assert.Equal(t, "Beta 2", updated.Title)

	all := s.All()
	assert.Equal(t, []string{"a", "b", "c"}, ids(all))
	assert.Equal(t, "new body", all[1].Content)
	assert.Equal(t, []string{"k"}, all[1].Tags)
}

func TestStore_UpdateUsesSuppliedCreatedAt(t *testing.T) {
	s := seeded(t, nil)
	updated, err := s.Update("a", snippet.Snippet{Title: "A", Content: "B", CreatedAt: "2020-01-01T00:00:00.000Z"})
	require.NoError(t, err)
	assert.Equal(t, "2020-01-01T00:00:00.000Z", updated.CreatedAt)
}

func TestStore_UpdateMissingIsNotFound(t *testing.T) {
	p := &recordingPersister{}
	s := seeded(t, p)

	_, err := s.Update("nope", snippet.Snippet{Title: "t", Content: "c"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
	assert.Zero(t, p.count())
}

func TestStore_UpdateRejectsBlankContent(t *testing.T) {
	s := seeded(t, nil)
	_, err := s.Update("a", snippet.Snippet{Title: "t", Content: "  "})
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	got, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, "one", got.Content)
}

func TestStore_DeleteIsIdempotent(t *testing.T) {
	p := &recordingPersister{}
	s := seeded(t, p)

	assert.True(t, s.Delete("b"))
	first := s.All()
	assert.Equal(t, []string{"a", "c"}, ids(first))

	assert.False(t, s.Delete("b"))
	assert.Equal(t, first, s.All())
	assert.Equal(t, 1, p.count(), "deleting a missing id must not write")
}

func TestStore_DeleteRemovesEveryDuplicate(t *testing.T) {
	p := &recordingPersister{}
	s := seeded(t, p)
	s.Append([]snippet.Snippet{
		{ID: "b", Title: "Beta copy", Content: "two again"},
		{ID: "d", Title: "Delta", Content: "four"},
	})
	writes := p.count()

	assert.True(t, s.Delete("b"))
	first := s.All()
	assert.Equal(t, []string{"a", "c", "d"}, ids(first))

	assert.False(t, s.Delete("b"))
	assert.Equal(t, first, s.All())
	assert.Equal(t, writes+1, p.count())
}

func TestStore_CreateRejectsExistingID(t *testing.T) {
	p := &recordingPersister{}
	s := seeded(t, p)

	_, err := s.Create(snippet.Snippet{ID: "b", Title: "Other", Content: "body"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrValidation))
	assert.Equal(t, "id", apperror.FieldOf(err))
	assert.Equal(t, []string{"a", "b", "c"}, ids(s.All()))
	assert.Equal(t, 0, p.count())
}

func TestStore_AppendKeepsOrderAndDuplicates(t *testing.T) {
	s := seeded(t, nil)
	s.Append([]snippet.Snippet{
		{ID: "a", Title: "Dup", Content: "dup"},
		{ID: "d", Title: "", Content: ""},
	})

	assert.Equal(t, []string{"a", "b", "c", "a", "d"}, ids(s.All()))
	got, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, "Alpha", got.Title, "Get returns the first match")
}

func TestStore_ReplaceAll(t *testing.T) {
	p := &recordingPersister{}
	s := seeded(t, p)

	s.ReplaceAll([]snippet.Snippet{{ID: "z", Title: "Zed", Content: "z"}})
	assert.Equal(t, []string{"z"}, ids(s.All()))
	assert.Equal(t, 1, p.count())

	s.ReplaceAll(nil)
	assert.Equal(t, 0, s.Len())
	assert.NotNil(t, s.All())
}

func TestStore_PersistFailureDoesNotRollBack(t *testing.T) {
	p := &recordingPersister{err: errors.New("disk full")}
	s := seeded(t, p)

	created, err := s.Create(snippet.Snippet{Title: "kept", Content: "anyway"})
	require.NoError(t, err, "persistence failures are not reported to the caller")

	snap := s.Snapshot()
	require.Len(t, snap.Items, 4)
	assert.Equal(t, created.ID, snap.Items[0].ID)
	require.Error(t, snap.LastPersistError)
	assert.Contains(t, snap.LastPersistError.Error(), "disk full")
	assert.True(t, snap.LastSaved.IsZero())

	p.mu.Lock()
	p.err = nil
	p.mu.Unlock()
	require.NoError(t, s.Flush())
	snap = s.Snapshot()
	assert.NoError(t, snap.LastPersistError)
	assert.False(t, snap.LastSaved.IsZero())
	assert.Len(t, p.last(), 4)
}

func TestStore_RestoreDoesNotPersist(t *testing.T) {
	p := &recordingPersister{}
	s := New(p, nil)
	v := s.Version()

	s.Restore([]snippet.Snippet{{ID: "a", Title: "t", Content: "c"}})
	assert.Equal(t, 1, s.Len())
	assert.Greater(t, s.Version(), v)
	assert.Zero(t, p.count())
}

func TestStore_VersionBumpsOnMutation(t *testing.T) {
	s := seeded(t, nil)
	v := s.Version()

	_, err := s.Create(snippet.Snippet{Title: "t", Content: "c"})
	require.NoError(t, err)
	assert.Greater(t, s.Version(), v)

	v = s.Version()
	s.Delete("missing")
	assert.Equal(t, v, s.Version())
}

func TestStore_ReturnsCopies(t *testing.T) {
	s := seeded(t, nil)

	all := s.All()
	all[0].Tags[0] = "mutated"
	all[0].Title = "mutated"

	got, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, "Alpha", got.Title)
	assert.Equal(t, []string{"x"}, got.Tags)

	input := []snippet.Snippet{{ID: "q", Title: "t", Content: "c", Tags: []string{"orig"}}}
	s.Append(input)
	input[0].Tags[0] = "changed"
	got, _ = s.Get("q")
	assert.Equal(t, []string{"orig"}, got.Tags)
}

func TestStore_ConcurrentReaders(t *testing.T) {
	s := seeded(t, &recordingPersister{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = s.Snapshot()
				_ = s.Len()
			}
		}()
	}
	for i := 0; i < 50; i++ {
		_, err := s.Create(snippet.Snippet{Title: "t", Content: "c"})
		require.NoError(t, err)
	}
	wg.Wait()
	assert.Equal(t, 53, s.Len())
}
