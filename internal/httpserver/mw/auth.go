package mw

import (
	"context"
	"net/http"
	"strings"

	"github.com/marqsync/marq/internal/httpserver/deps"
	"github.com/marqsync/marq/internal/sync"
)

type ctxKey int

const (
	coreKey ctxKey = iota
	tokenKey
)

// Auth resolves the request's bearer token to a signed-in synchronization
// core and rejects requests without one. Sign-in itself happens on the
// session endpoint; everything else requires an existing session.
func Auth(d deps.Deps) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			core, ok := d.Sessions.Get(token)
			if !ok {
				http.Error(w, "not signed in", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), coreKey, core)
			ctx = context.WithValue(ctx, tokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the Authorization bearer token, or "".
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

// CoreFrom returns the request's synchronization core. Only valid behind Auth.
func CoreFrom(ctx context.Context) *sync.Core {
	core, _ := ctx.Value(coreKey).(*sync.Core)
	return core
}

// TokenFrom returns the request's credential. Only valid behind Auth.
func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}
