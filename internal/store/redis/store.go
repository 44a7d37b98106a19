package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/marqsync/marq/internal/domain"
	"github.com/marqsync/marq/internal/feed"
)

// Store handles Redis persistence for bookmarks and publishes one mutation
// event per successful insert/delete on the collection's feed channel.
//
// Ownership enforcement lives here: the owner is part of every row key and
// of the index key, so a caller can only ever see or touch its own rows.
// Insert assigns id, owner and createdAt itself, ignoring anything the
// client might have supplied.
type Store struct {
	client *redis.Client
	now    func() time.Time
	newID  func() string
}

// NewStore creates a new Redis-backed bookmark store.
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// List returns all bookmarks owned by owner, creation time descending.
func (s *Store) List(ctx context.Context, owner string) ([]*domain.Bookmark, error) {
	ids, err := s.client.ZRevRange(ctx, OwnerIndexKey(owner), 0, -1).Result()
	if err != nil {
		return nil, &domain.FetchError{Err: fmt.Errorf("failed to read owner index: %w", err)}
	}

	if len(ids) == 0 {
		return []*domain.Bookmark{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = BookmarkKey(owner, id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, &domain.FetchError{Err: fmt.Errorf("failed to read bookmarks: %w", err)}
	}

	bookmarks := make([]*domain.Bookmark, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Index entry without a row (expired or mid-delete). Skip.
			continue
		}
		var bm domain.Bookmark
		if err := json.Unmarshal([]byte(raw), &bm); err != nil {
			continue
		}
		bookmarks = append(bookmarks, &bm)
	}

	return bookmarks, nil
}

// Insert stores a new bookmark for owner and publishes an insert event.
func (s *Store) Insert(ctx context.Context, owner, title, url string) (*domain.Bookmark, error) {
	bm := &domain.Bookmark{
		ID:        s.newID(),
		Owner:     owner,
		Title:     title,
		URL:       url,
		CreatedAt: s.now().UTC(),
	}

	data, err := json.Marshal(bm)
	if err != nil {
		return nil, &domain.StoreError{Op: "insert", Err: fmt.Errorf("failed to marshal bookmark: %w", err)}
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, BookmarkKey(owner, bm.ID), data, 0)
	pipe.ZAdd(ctx, OwnerIndexKey(owner), redis.Z{
		Score:  float64(bm.CreatedAt.UnixNano()),
		Member: bm.ID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, &domain.StoreError{Op: "insert", Err: fmt.Errorf("failed to save bookmark: %w", err)}
	}

	s.publish(ctx, feed.Event{Op: feed.OpInsert, Owner: owner, ID: bm.ID})

	return bm, nil
}

// Delete removes the owner's bookmark with the given id and publishes a
// delete event. An id not present under the owner's scope is treated as an
// ownership mismatch.
func (s *Store) Delete(ctx context.Context, owner, id string) error {
	// Membership in the owner's index is what proves ownership.
	if err := s.client.ZScore(ctx, OwnerIndexKey(owner), id).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return &domain.StoreError{
				Op:  "delete",
				Err: fmt.Errorf("bookmark %s: %w", id, domain.ErrPermissionDenied),
			}
		}
		return &domain.StoreError{Op: "delete", Err: fmt.Errorf("failed to check ownership: %w", err)}
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, BookmarkKey(owner, id))
	pipe.ZRem(ctx, OwnerIndexKey(owner), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return &domain.StoreError{Op: "delete", Err: fmt.Errorf("failed to delete bookmark: %w", err)}
	}

	s.publish(ctx, feed.Event{Op: feed.OpDelete, Owner: owner, ID: id})

	return nil
}

// publish sends a mutation event on the collection feed. Best effort: a
// failed publish only delays sync until the next trigger, it never fails
// the mutation that already committed.
func (s *Store) publish(ctx context.Context, ev feed.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_ = s.client.Publish(ctx, feed.Channel, data).Err()
}
