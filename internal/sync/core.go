package sync

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/marqsync/marq/internal/domain"
	"github.com/marqsync/marq/internal/logger"
	"github.com/marqsync/marq/internal/notifier"
	"github.com/marqsync/marq/internal/session"
	"github.com/marqsync/marq/internal/store"
)

var (
	// ErrNotSignedIn is returned by operations that need an identity.
	ErrNotSignedIn = errors.New("not signed in")

	// ErrCreateInFlight guards against duplicate submissions while a
	// create request is still pending.
	ErrCreateInFlight = errors.New("create already in flight")

	// ErrNoPendingDelete is returned by ConfirmDelete with nothing pending.
	ErrNoPendingDelete = errors.New("no delete pending")

	// ErrUnknownBookmark is returned by RequestDelete for an id that is
	// not in the current items snapshot.
	ErrUnknownBookmark = errors.New("unknown bookmark")
)

// FeedOpener opens a change-feed subscription for an owner. onReload fires
// once per mutation event, onStatus receives advisory transport errors.
// The returned closer releases the subscription. A nil FeedOpener means no
// feed is available and the tab notifier is the sole cross-session channel.
type FeedOpener func(owner string, onReload func(), onStatus func(error)) io.Closer

// Core is the bookmark synchronization core for one authenticated session.
//
// It owns the authoritative local snapshot of the current user's bookmarks
// and reconciles it against three reload triggers: change-feed events, tab
// broadcasts from sibling sessions, and the session's own mutations. The
// snapshot is always replaced wholesale by a full re-fetch; feed payloads
// are never applied to it.
//
// Reloads may complete out of order. Results are applied last-writer-wins,
// keyed by issue order: a stale success never clobbers a newer one and a
// stale failure never invalidates a newer success.
type Core struct {
	store    store.Store
	provider session.Provider
	hub      *notifier.Hub
	openFeed FeedOpener
	logger   logger.Logger

	mu             sync.Mutex
	state          State
	identity       string
	token          string
	items          []*domain.Bookmark
	pendingDelete  *domain.Bookmark
	lastErr        error
	createInFlight bool

	reloadSeq  uint64 // issue counter
	appliedSeq uint64 // newest issue applied to items

	subscription io.Closer
	listener     *notifier.Listener
}

// NewCore wires a core against its collaborators. hub and openFeed may be
// nil; the core then degrades to whichever sync channels remain.
func NewCore(st store.Store, provider session.Provider, hub *notifier.Hub, openFeed FeedOpener, log logger.Logger) *Core {
	return &Core{
		store:    st,
		provider: provider,
		hub:      hub,
		openFeed: openFeed,
		logger:   log,
		state:    StateAnonymous,
	}
}

// SignIn resolves token to a session, opens the change-feed subscription
// and the tab channel for that identity, and performs the initial reload.
// A failed initial reload is advisory: the sign-in itself still succeeds
// and the core lands in StateError with retry available.
func (c *Core) SignIn(ctx context.Context, token string) error {
	c.mu.Lock()
	if c.state.Authenticated() {
		// Identity change: the old subscription and channel must close
		// before a new pair opens.
		c.teardownLocked()
	}
	c.state = StateAuthenticating
	c.mu.Unlock()

	sess, err := c.provider.Current(ctx, token)
	if err != nil {
		c.mu.Lock()
		c.state = StateAnonymous
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.identity = sess.Identity
	c.token = token
	c.state = StateSyncing
	c.lastErr = nil

	if c.openFeed != nil {
		c.subscription = c.openFeed(sess.Identity, c.feedReload, c.feedStatus)
	}
	c.listener = c.hub.Join(sess.Identity)
	listener := c.listener
	c.mu.Unlock()

	if listener != nil {
		go c.pumpTabEvents(listener)
	}

	c.logger.Info("signed in, syncing bookmarks",
		logger.String("owner", sess.Identity))

	if err := c.Reload(ctx); err != nil {
		c.logger.Warn("initial reload failed, retry available",
			logger.Error(err))
	}
	return nil
}

// SignOut closes the subscription and tab channel, clears the snapshot and
// returns to Anonymous. The provider credential is invalidated best effort.
func (c *Core) SignOut(ctx context.Context) {
	c.mu.Lock()
	token := c.token
	c.teardownLocked()
	c.mu.Unlock()

	if token != "" {
		if err := c.provider.SignOut(ctx, token); err != nil {
			c.logger.Warn("provider sign-out failed", logger.Error(err))
		}
	}
	c.logger.Info("signed out")
}

// teardownLocked releases per-identity resources and resets state.
// Caller holds c.mu.
func (c *Core) teardownLocked() {
	if c.subscription != nil {
		_ = c.subscription.Close()
		c.subscription = nil
	}
	if c.listener != nil {
		c.listener.Close()
		c.listener = nil
	}
	c.identity = ""
	c.token = ""
	c.items = nil
	c.pendingDelete = nil
	c.lastErr = nil
	c.createInFlight = false
	c.state = StateAnonymous
}

// Close releases the feed subscription and tab channel without touching the
// provider. Resource release on teardown, not cancellation: an in-flight
// store request simply has its result dropped.
func (c *Core) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.teardownLocked()
}

// Reload fetches the owner's full bookmark list and replaces the snapshot
// wholesale. No-op without an identity. On failure the previous snapshot
// stays visible (stale-but-available over empty) and a FetchError is
// returned; the core lands in StateError with retry available.
func (c *Core) Reload(ctx context.Context) error {
	c.mu.Lock()
	if c.identity == "" {
		c.mu.Unlock()
		return nil
	}
	owner := c.identity
	c.reloadSeq++
	seq := c.reloadSeq
	c.state = StateSyncing
	c.mu.Unlock()

	rows, err := c.store.List(ctx, owner)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.identity != owner {
		// Signed out (or switched identity) while the fetch was in
		// flight. Drop the result.
		return nil
	}
	if err != nil {
		if seq > c.appliedSeq {
			c.lastErr = err
			c.state = StateError
		}
		return err
	}
	if seq > c.appliedSeq {
		c.appliedSeq = seq
		c.items = rows
		c.lastErr = nil
		c.state = StateIdle
	}
	return nil
}

// Create validates title and url, inserts the bookmark and, on success,
// reloads and notifies sibling sessions. Validation failures never reach
// the store. Only title and the canonicalized url travel with the insert;
// the store assigns id, owner and createdAt.
func (c *Core) Create(ctx context.Context, title, url string) error {
	cleanTitle, canonicalURL, err := domain.ValidateNewBookmark(title, url)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.identity == "" {
		c.mu.Unlock()
		return ErrNotSignedIn
	}
	if c.createInFlight {
		c.mu.Unlock()
		return ErrCreateInFlight
	}
	c.createInFlight = true
	owner := c.identity
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.createInFlight = false
		c.mu.Unlock()
	}()

	bm, err := c.store.Insert(ctx, owner, cleanTitle, canonicalURL)
	if err != nil {
		return err
	}

	c.logger.Info("bookmark created",
		logger.String("id", bm.ID),
		logger.String("owner", owner))

	if err := c.Reload(ctx); err != nil {
		// The insert committed; the snapshot catches up on the next
		// successful trigger.
		c.logger.Warn("reload after create failed", logger.Error(err))
	}
	c.hub.Broadcast(owner)
	return nil
}

// Delete removes the bookmark with the given id. On success the item is
// removed from the local snapshot immediately and sibling sessions are
// notified. On failure the snapshot is unchanged and the error surfaced;
// an ownership mismatch comes back as a StoreError wrapping
// domain.ErrPermissionDenied rather than a silent no-op.
func (c *Core) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.identity == "" {
		c.mu.Unlock()
		return ErrNotSignedIn
	}
	owner := c.identity
	c.mu.Unlock()

	if err := c.store.Delete(ctx, owner, id); err != nil {
		return err
	}

	c.mu.Lock()
	if c.identity == owner {
		kept := c.items[:0:0]
		for _, bm := range c.items {
			if bm.ID != id {
				kept = append(kept, bm)
			}
		}
		c.items = kept
	}
	c.mu.Unlock()

	c.logger.Info("bookmark deleted",
		logger.String("id", id),
		logger.String("owner", owner))

	c.hub.Broadcast(owner)
	return nil
}

// RequestDelete marks the bookmark with the given id for deletion without
// touching the store. At most one bookmark is pending at a time; a second
// request replaces the first.
func (c *Core) RequestDelete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, bm := range c.items {
		if bm.ID == id {
			c.pendingDelete = bm
			return nil
		}
	}
	return ErrUnknownBookmark
}

// ConfirmDelete deletes the pending bookmark and clears the pending mark.
// On failure the mark is kept so the user can retry or cancel.
func (c *Core) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	pending := c.pendingDelete
	c.mu.Unlock()

	if pending == nil {
		return ErrNoPendingDelete
	}
	if err := c.Delete(ctx, pending.ID); err != nil {
		return err
	}

	c.mu.Lock()
	if c.pendingDelete == pending {
		c.pendingDelete = nil
	}
	c.mu.Unlock()
	return nil
}

// CancelDelete clears the pending mark without any store call.
func (c *Core) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingDelete = nil
}

// View derives a filtered, sorted view of the current snapshot. Pure with
// respect to the snapshot it sees; never mutates it.
func (c *Core) View(query string, mode domain.SortMode) []*domain.Bookmark {
	c.mu.Lock()
	items := c.items
	c.mu.Unlock()
	return domain.View(items, query, mode)
}

// State returns the current lifecycle state.
func (c *Core) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Identity returns the authenticated owner identity, or "".
func (c *Core) Identity() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identity
}

// Err returns the advisory error from the most recent failed reload or
// feed degradation, or nil.
func (c *Core) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// PendingDelete returns the bookmark awaiting delete confirmation, or nil.
func (c *Core) PendingDelete() *domain.Bookmark {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingDelete
}

// Len returns the size of the current snapshot.
func (c *Core) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// feedReload handles one change-feed event: exactly one full re-fetch.
func (c *Core) feedReload() {
	if err := c.Reload(context.Background()); err != nil {
		c.logger.Warn("reload from change feed failed", logger.Error(err))
	}
}

// feedStatus records feed transport trouble as advisory degradation. The
// UI keeps working; tab broadcasts remain as the cross-session fallback.
func (c *Core) feedStatus(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = err
}

// pumpTabEvents turns tab broadcasts into reloads until the listener closes.
func (c *Core) pumpTabEvents(l *notifier.Listener) {
	for range l.C() {
		if err := c.Reload(context.Background()); err != nil {
			c.logger.Warn("reload from tab broadcast failed", logger.Error(err))
		}
	}
}
