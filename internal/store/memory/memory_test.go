package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/marqsync/marq/internal/domain"
)

func advancingClock() func() time.Time {
	t := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func TestInsertAssignsServerFields(t *testing.T) {
	s := NewStore()
	s.SetClock(advancingClock())

	bm, err := s.Insert(context.Background(), "alice", "Go Docs", "https://go.dev/doc/")
	if err != nil {
		t.Fatalf("Insert() unexpected error: %v", err)
	}
	if bm.ID == "" {
		t.Error("Insert() did not assign an ID")
	}
	if bm.Owner != "alice" {
		t.Errorf("Insert() owner = %q, want %q", bm.Owner, "alice")
	}
	if bm.CreatedAt.IsZero() {
		t.Error("Insert() did not assign CreatedAt")
	}
}

func TestListScopedToOwner(t *testing.T) {
	s := NewStore()
	s.SetClock(advancingClock())
	ctx := context.Background()

	if _, err := s.Insert(ctx, "alice", "A", "https://a.example.com"); err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}
	if _, err := s.Insert(ctx, "bob", "B", "https://b.example.com"); err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}

	rows, err := s.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("List() returned %d rows, want 1", len(rows))
	}
	if rows[0].Owner != "alice" {
		t.Errorf("List() returned row owned by %q, want %q", rows[0].Owner, "alice")
	}
}

func TestListOrderedLatestFirst(t *testing.T) {
	s := NewStore()
	s.SetClock(advancingClock())
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		if _, err := s.Insert(ctx, "alice", title, "https://example.com/"+title); err != nil {
			t.Fatalf("Insert() failed: %v", err)
		}
	}

	rows, err := s.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	wantOrder := []string{"third", "second", "first"}
	for i, title := range wantOrder {
		if rows[i].Title != title {
			t.Errorf("List() order[%d] = %q, want %q", i, rows[i].Title, title)
		}
	}
}

func TestDeleteEnforcesOwnership(t *testing.T) {
	s := NewStore()
	s.SetClock(advancingClock())
	ctx := context.Background()

	bm, err := s.Insert(ctx, "alice", "A", "https://a.example.com")
	if err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}

	// bob cannot delete alice's row
	err = s.Delete(ctx, "bob", bm.ID)
	if !domain.IsPermissionDenied(err) {
		t.Errorf("Delete() by non-owner = %v, want permission denied", err)
	}
	if s.Count("alice") != 1 {
		t.Error("Delete() by non-owner removed the row")
	}

	// alice can
	if err := s.Delete(ctx, "alice", bm.ID); err != nil {
		t.Fatalf("Delete() by owner failed: %v", err)
	}
	if s.Count("alice") != 0 {
		t.Error("Delete() by owner did not remove the row")
	}

	// second delete of the same id fails
	err = s.Delete(ctx, "alice", bm.ID)
	var se *domain.StoreError
	if !errors.As(err, &se) {
		t.Errorf("second Delete() = %v, want StoreError", err)
	}
}

func TestFaultInjection(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	s.FailList(errors.New("unreachable"))
	_, err := s.List(ctx, "alice")
	var fe *domain.FetchError
	if !errors.As(err, &fe) {
		t.Errorf("List() with injected fault = %v, want FetchError", err)
	}

	s.FailList(nil)
	if _, err := s.List(ctx, "alice"); err != nil {
		t.Errorf("List() after clearing fault = %v, want nil", err)
	}

	s.FailInsert(errors.New("rejected"))
	_, err = s.Insert(ctx, "alice", "A", "https://a.example.com")
	var se *domain.StoreError
	if !errors.As(err, &se) {
		t.Errorf("Insert() with injected fault = %v, want StoreError", err)
	}
	if s.Count("alice") != 0 {
		t.Error("failed Insert() must not store a row")
	}
}
