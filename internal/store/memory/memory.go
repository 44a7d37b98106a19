package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/marqsync/marq/internal/domain"
)

// Store is an in-memory scoped record store.
// It backs dev mode when Redis is not configured and doubles as the store
// double in tests: it counts calls and supports fault injection.
type Store struct {
	mu        sync.RWMutex
	bookmarks map[string]map[string]*domain.Bookmark // owner -> id -> bookmark

	now   func() time.Time
	newID func() string

	listCalls   int
	insertCalls int
	deleteCalls int

	listErr   error
	insertErr error
	deleteErr error
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		bookmarks: make(map[string]map[string]*domain.Bookmark),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// SetClock overrides the creation timestamp source. Test hook.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// List returns the owner's bookmarks ordered by creation time descending.
func (s *Store) List(ctx context.Context, owner string) ([]*domain.Bookmark, error) {
	s.mu.Lock()
	s.listCalls++
	err := s.listErr
	s.mu.Unlock()
	if err != nil {
		return nil, &domain.FetchError{Err: err}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]*domain.Bookmark, 0, len(s.bookmarks[owner]))
	for _, bm := range s.bookmarks[owner] {
		cp := *bm
		rows = append(rows, &cp)
	}
	return domain.View(rows, "", domain.SortLatest), nil
}

// Insert stores a new bookmark for owner. ID, owner and createdAt are
// assigned here; the caller only supplies title and url.
func (s *Store) Insert(ctx context.Context, owner, title, url string) (*domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.insertCalls++
	if s.insertErr != nil {
		return nil, &domain.StoreError{Op: "insert", Err: s.insertErr}
	}

	bm := &domain.Bookmark{
		ID:        s.newID(),
		Owner:     owner,
		Title:     title,
		URL:       url,
		CreatedAt: s.now(),
	}

	if s.bookmarks[owner] == nil {
		s.bookmarks[owner] = make(map[string]*domain.Bookmark)
	}
	s.bookmarks[owner][bm.ID] = bm

	cp := *bm
	return &cp, nil
}

// Delete removes the owner's bookmark with the given id. A delete for a row
// the owner does not hold fails with ErrPermissionDenied.
func (s *Store) Delete(ctx context.Context, owner, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleteCalls++
	if s.deleteErr != nil {
		return &domain.StoreError{Op: "delete", Err: s.deleteErr}
	}

	if _, ok := s.bookmarks[owner][id]; !ok {
		return &domain.StoreError{
			Op:  "delete",
			Err: fmt.Errorf("bookmark %s: %w", id, domain.ErrPermissionDenied),
		}
	}

	delete(s.bookmarks[owner], id)
	return nil
}

// Count returns the number of bookmarks held for owner.
func (s *Store) Count(owner string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bookmarks[owner])
}

// ─────────────────────────────────────────────────────────────────
// Test hooks
// ─────────────────────────────────────────────────────────────────

// ListCalls returns how many times List was invoked.
func (s *Store) ListCalls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listCalls
}

// InsertCalls returns how many times Insert was invoked.
func (s *Store) InsertCalls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.insertCalls
}

// DeleteCalls returns how many times Delete was invoked.
func (s *Store) DeleteCalls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deleteCalls
}

// FailList makes subsequent List calls fail with err until cleared with nil.
func (s *Store) FailList(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listErr = err
}

// FailInsert makes subsequent Insert calls fail with err until cleared with nil.
func (s *Store) FailInsert(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertErr = err
}

// FailDelete makes subsequent Delete calls fail with err until cleared with nil.
func (s *Store) FailDelete(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteErr = err
}
