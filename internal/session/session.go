package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNoSession means the presented credentials do not map to a live session.
var ErrNoSession = errors.New("no active session")

// Session is one authenticated session bound to a single user identity.
// The identity is what scopes every bookmark operation.
type Session struct {
	Identity  string    // stable user identifier (token subject)
	Email     string    // informational only
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Provider resolves credentials to sessions. The real implementation sits in
// front of an external OAuth identity provider; tests use StaticProvider.
type Provider interface {
	// Current returns the session for the given credential, or ErrNoSession.
	Current(ctx context.Context, token string) (*Session, error)

	// SignOut invalidates the credential so later Current calls fail.
	SignOut(ctx context.Context, token string) error
}

// StaticProvider maps fixed tokens to identities. Dev-mode and test backend.
type StaticProvider struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStaticProvider creates an empty static provider.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{sessions: make(map[string]*Session)}
}

// Add registers a token for an identity and returns the session.
func (p *StaticProvider) Add(token, identity string) *Session {
	s := &Session{
		Identity:  identity,
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessions[token] = s
	return s
}

func (p *StaticProvider) Current(ctx context.Context, token string) (*Session, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.sessions[token]
	if !ok {
		return nil, ErrNoSession
	}
	if time.Now().After(s.ExpiresAt) {
		return nil, ErrNoSession
	}
	return s, nil
}

func (p *StaticProvider) SignOut(ctx context.Context, token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.sessions, token)
	return nil
}
