package domain

import "time"

// Bookmark represents one saved title/URL pair belonging to a single user.
//
// Identity, ownership and creation time are assigned by the store on insert.
// Client-supplied values for those fields are never trusted: the store is the
// sole authority on Owner.
type Bookmark struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the canonical unique identifier, assigned by the store.
	ID string `json:"id"`

	// Owner is the identity of the user the bookmark belongs to.
	// Assigned by the store on insert; never client-settable.
	Owner string `json:"owner"`

	// ─────────────────────────────
	// User-visible content
	// ─────────────────────────────

	// Title is the display name. Non-empty after trimming.
	Title string `json:"title"`

	// URL is the canonicalized absolute URL (http or https).
	URL string `json:"url"`

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	// CreatedAt is assigned by the store at insert time. Immutable.
	CreatedAt time.Time `json:"createdAt"`
}
