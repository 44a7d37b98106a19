package store

import (
	"context"

	"github.com/marqsync/marq/internal/domain"
)

// Store is the scoped record store for bookmarks.
//
// Every operation is scoped to an owner identity and the implementation
// enforces that scope: List only returns the owner's rows, Insert assigns
// id, owner and createdAt itself (any client-supplied values are ignored),
// and Delete rejects ids that do not belong to the owner with
// domain.ErrPermissionDenied.
type Store interface {
	// List returns all bookmarks owned by owner, ordered by creation
	// time descending.
	List(ctx context.Context, owner string) ([]*domain.Bookmark, error)

	// Insert creates a bookmark carrying only title and url from the
	// caller; the store assigns everything else. Returns the stored row.
	Insert(ctx context.Context, owner, title, url string) (*domain.Bookmark, error)

	// Delete removes the bookmark with the given id if and only if it is
	// owned by owner.
	Delete(ctx context.Context, owner, id string) error
}
