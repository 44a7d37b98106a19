package notifier

import (
	"sync"
)

// ChannelPrefix names the per-owner broadcast channel. Sessions of the same
// owner converge on the same channel name; different owners never share one.
const ChannelPrefix = "bookmarks-sync-"

// ChannelName returns the broadcast channel name for an owner.
func ChannelName(owner string) string {
	return ChannelPrefix + owner
}

// Hub fans change notifications out to sibling sessions of the same owner.
// It plays the role a same-origin broadcast channel plays between browser
// tabs: a supplement to the change feed, so a mutation made in one session
// reaches the others even when the feed transport is degraded.
//
// A nil *Hub is valid and inert: Broadcast on it is a no-op and Join
// returns nil. Callers feature-detect with a nil check and degrade to
// feed-only sync.
type Hub struct {
	mu        sync.RWMutex
	listeners map[string]map[*Listener]struct{} // channel name -> listeners
}

// Listener receives change notifications for one owner's channel.
type Listener struct {
	hub     *Hub
	channel string
	ch      chan struct{}
	once    sync.Once
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		listeners: make(map[string]map[*Listener]struct{}),
	}
}

// Join registers a listener on the owner's channel. Returns nil on a nil hub.
func (h *Hub) Join(owner string) *Listener {
	if h == nil {
		return nil
	}

	l := &Listener{
		hub:     h,
		channel: ChannelName(owner),
		ch:      make(chan struct{}, 1),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.listeners[l.channel] == nil {
		h.listeners[l.channel] = make(map[*Listener]struct{})
	}
	h.listeners[l.channel][l] = struct{}{}

	return l
}

// Broadcast posts one change notification to every listener on the owner's
// channel, the sender's own listener included (harmless, it just reloads).
// Delivery is non-blocking: a listener that already has a pending
// notification is not queued a second one, a reload covers both.
func (h *Hub) Broadcast(owner string) {
	if h == nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for l := range h.listeners[ChannelName(owner)] {
		select {
		case l.ch <- struct{}{}:
		default:
		}
	}
}

// C returns the notification channel. Nil on a nil listener, which blocks
// forever in a select — the degraded-mode behavior we want.
func (l *Listener) C() <-chan struct{} {
	if l == nil {
		return nil
	}
	return l.ch
}

// Close removes the listener from its channel and closes C, terminating any
// range loop over it. Safe to call more than once. Broadcast and Close hold
// the hub lock in conflicting modes, so a send never races the close.
func (l *Listener) Close() {
	if l == nil {
		return
	}
	l.once.Do(func() {
		l.hub.mu.Lock()
		defer l.hub.mu.Unlock()
		delete(l.hub.listeners[l.channel], l)
		if len(l.hub.listeners[l.channel]) == 0 {
			delete(l.hub.listeners, l.channel)
		}
		close(l.ch)
	})
}
