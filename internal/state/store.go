package state

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/five82/snipbox/internal/apperror"
	"github.com/five82/snipbox/internal/snippet"
)

// Persister receives the full collection after every mutation.
type Persister interface {
	Save(items []snippet.Snippet) error
}

// Snapshot is a point-in-time copy of the collection for readers.
type Snapshot struct {
	Items            []snippet.Snippet
	Version          uint64
	LastSaved        time.Time
	LastPersistError error
}

// Store owns the ordered snippet collection. Every mutation writes through
// to the Persister before returning; a failed write is logged and recorded
// but the in-memory change stands.
type Store struct {
	mu        sync.RWMutex
	items     []snippet.Snippet
	version   uint64
	lastSaved time.Time
	lastErr   error

	persister Persister
	logger    *slog.Logger
	now       func() time.Time
}

// New creates an empty store. persister may be nil for a purely in-memory store.
func New(persister Persister, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		items:     []snippet.Snippet{},
		persister: persister,
		logger:    logger,
		now:       time.Now,
	}
}

// Create validates item and inserts it at the front, assigning an id and
// creation time when missing. Blank titles or content, or an id already in
// the collection, leave the store untouched.
func (s *Store) Create(item snippet.Snippet) (snippet.Snippet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item = snippet.Normalize(item.Clone())
	if err := snippet.Validate(item); err != nil {
		return snippet.Snippet{}, err
	}
	if item.ID == "" {
		item.ID = snippet.NewID()
	} else if s.indexLocked(item.ID) >= 0 {
		return snippet.Snippet{}, apperror.ValidationFailed("id", "id "+item.ID+" already exists")
	}
	if item.CreatedAt == "" {
		item.CreatedAt = snippet.Timestamp(s.now())
	}

	items := make([]snippet.Snippet, 0, len(s.items)+1)
	items = append(items, item)
	items = append(items, s.items...)
	s.items = items
	s.commitLocked("create", slog.String("id", item.ID))

	return item.Clone(), nil
}

// Update replaces the record with the given id in place. An empty CreatedAt
// keeps the stored value.
func (s *Store) Update(id string, item snippet.Snippet) (snippet.Snippet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return snippet.Snippet{}, apperror.NotFound("snippet", id)
	}

	item = snippet.Normalize(item.Clone())
	if err := snippet.Validate(item); err != nil {
		return snippet.Snippet{}, err
	}
	item.ID = s.items[idx].ID
	if strings.TrimSpace(item.CreatedAt) == "" {
		item.CreatedAt = s.items[idx].CreatedAt
	}

	s.items[idx] = item
	s.commitLocked("update", slog.String("id", id))
	return item.Clone(), nil
}

// Delete removes every record with the given id, so repeating it is a no-op
// even when an import brought in duplicates. The return value reports
// whether anything was removed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]snippet.Snippet, 0, len(s.items))
	for _, item := range s.items {
		if item.ID != id {
			items = append(items, item)
		}
	}
	removed := len(s.items) - len(items)
	if removed == 0 {
		return false
	}
	s.items = items
	s.commitLocked("delete", slog.String("id", id), slog.Int("removed", removed))
	return true
}

// ReplaceAll swaps in a whole collection without validating it.
func (s *Store) ReplaceAll(items []snippet.Snippet) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = snippet.CloneAll(items)
	s.commitLocked("replace", slog.Int("count", len(items)))
}

// Append adds items after the last element, in order, without validating them.
func (s *Store) Append(items []snippet.Snippet) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := make([]snippet.Snippet, 0, len(s.items)+len(items))
	merged = append(merged, s.items...)
	merged = append(merged, snippet.CloneAll(items)...)
	s.items = merged
	s.commitLocked("append", slog.Int("count", len(items)))
}

// Restore installs a collection read from storage without writing it back.
func (s *Store) Restore(items []snippet.Snippet) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = snippet.CloneAll(items)
	s.version++
}

// Get returns the first record with the given id.
func (s *Store) Get(id string) (snippet.Snippet, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return snippet.Snippet{}, false
	}
	return s.items[idx].Clone(), true
}

// All returns a copy of the ordered collection.
func (s *Store) All() []snippet.Snippet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snippet.CloneAll(s.items)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Version increases on every change to the collection.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Items:            snippet.CloneAll(s.items),
		Version:          s.version,
		LastSaved:        s.lastSaved,
		LastPersistError: s.lastErr,
	}
}

// Flush writes the current collection to the Persister.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked()
}

func (s *Store) indexLocked(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) commitLocked(op string, attrs ...any) {
	s.version++
	if err := s.persistLocked(); err != nil {
		args := append([]any{slog.String("op", op), slog.Any("error", err)}, attrs...)
		s.logger.Error("persist snippets failed", args...)
		return
	}
	s.logger.Debug("snippets saved", append([]any{slog.String("op", op), slog.Int("count", len(s.items))}, attrs...)...)
}

func (s *Store) persistLocked() error {
	if s.persister == nil {
		return nil
	}
	if err := s.persister.Save(snippet.CloneAll(s.items)); err != nil {
		s.lastErr = err
		return err
	}
	s.lastErr = nil
	s.lastSaved = s.now()
	return nil
}
