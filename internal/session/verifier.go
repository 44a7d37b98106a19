package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier is a Provider backed by provider-issued JWTs (HMAC-signed).
// The token subject becomes the owner identity. Sign-out is tracked in a
// local revocation set: identity issuance and refresh stay with the external
// provider, only the "is this credential still usable here" question is ours.
type Verifier struct {
	secret   []byte
	issuer   string
	audience string
	now      func() time.Time

	mu      sync.RWMutex
	revoked map[string]struct{}
}

// NewVerifier creates a Verifier for tokens signed with secret and carrying
// the given issuer and audience claims.
func NewVerifier(secret []byte, issuer, audience string) *Verifier {
	return &Verifier{
		secret:   secret,
		issuer:   issuer,
		audience: audience,
		now:      time.Now,
		revoked:  make(map[string]struct{}),
	}
}

// SetClock overrides the validation clock. Test hook.
func (v *Verifier) SetClock(now func() time.Time) { v.now = now }

// Current parses and validates token and maps it to a session.
func (v *Verifier) Current(ctx context.Context, token string) (*Session, error) {
	v.mu.RLock()
	_, dead := v.revoked[token]
	v.mu.RUnlock()
	if dead {
		return nil, ErrNoSession
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return v.secret, nil
		},
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithTimeFunc(func() time.Time { return v.now() }),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, ErrNoSession
	}

	s := &Session{Identity: claims.Subject}
	if claims.IssuedAt != nil {
		s.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

// SignOut revokes the credential for this service.
func (v *Verifier) SignOut(ctx context.Context, token string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.revoked[token] = struct{}{}
	return nil
}
