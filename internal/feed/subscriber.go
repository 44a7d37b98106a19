package feed

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/marqsync/marq/internal/logger"
)

// Subscriber holds one logical subscription to the bookmarks mutation
// stream for a single owner.
//
// Each matching event invokes the reload callback exactly once. The event
// payload is never applied to local state: the callback is expected to
// re-fetch the owner's full list, which also makes the owner filter purely
// defensive — a mis-scoped event can at worst cause a harmless extra fetch.
//
// Transport errors are surfaced through the status callback as advisory
// degradation; the underlying client keeps trying to recover on its own.
type Subscriber struct {
	client   *redis.Client
	owner    string
	onReload func()
	onStatus func(error)
	logger   logger.Logger

	mu        sync.Mutex
	pubsub    *redis.PubSub
	closeOnce sync.Once
}

// NewSubscriber creates a subscriber for one owner. onReload fires on every
// mutation event for that owner; onStatus (optional) receives advisory
// transport errors.
func NewSubscriber(client *redis.Client, owner string, onReload func(), onStatus func(error), log logger.Logger) *Subscriber {
	return &Subscriber{
		client:   client,
		owner:    owner,
		onReload: onReload,
		onStatus: onStatus,
		logger:   log,
	}
}

// Start opens the subscription and consumes events until ctx is done or
// Close is called.
func (s *Subscriber) Start(ctx context.Context) {
	pubsub := s.client.Subscribe(ctx, Channel)

	s.mu.Lock()
	s.pubsub = pubsub
	s.mu.Unlock()

	// Confirm the subscription actually opened. Failure here is advisory:
	// the tab notifier remains as the fallback sync path and go-redis will
	// keep retrying the subscription underneath.
	if _, err := pubsub.Receive(ctx); err != nil {
		s.logger.Warn("change feed degraded, falling back to tab sync",
			logger.Error(err))
		s.advise(err)
	}

	go s.consume(pubsub)
}

func (s *Subscriber) consume(pubsub *redis.PubSub) {
	for msg := range pubsub.Channel() {
		if !MatchesOwner([]byte(msg.Payload), s.owner) {
			continue
		}
		s.logger.Debug("change feed event, triggering reload",
			logger.String("owner", s.owner))
		s.onReload()
	}
}

func (s *Subscriber) advise(err error) {
	if s.onStatus != nil {
		s.onStatus(err)
	}
}

// Close unsubscribes and releases the transport. Safe to call at any time,
// including before the subscription fully opened, and more than once.
func (s *Subscriber) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		pubsub := s.pubsub
		s.mu.Unlock()
		if pubsub != nil {
			_ = pubsub.Close()
		}
	})
	return nil
}

// MatchesOwner reports whether a raw feed payload describes a mutation of
// the given owner's rows. Malformed payloads match: reload is cheap and
// re-fetching by owner is always safe, dropping an event is not.
func MatchesOwner(payload []byte, owner string) bool {
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return true
	}
	if ev.Owner == "" {
		return true
	}
	return ev.Owner == owner
}
