package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/marqsync/marq/internal/httpserver/deps"
	"github.com/marqsync/marq/internal/httpserver/mw"
	"github.com/marqsync/marq/internal/logger"
	"github.com/marqsync/marq/internal/session"
)

type sessionResponse struct {
	Identity string `json:"identity"`
	State    string `json:"state"`
}

// SignIn exchanges a provider-issued bearer token for a synced session:
// the core signs in, opens its change-feed subscription and tab channel,
// and performs the initial load.
func SignIn(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := mw.BearerToken(r)
		if token == "" {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}

		core, err := d.Sessions.SignIn(r.Context(), token)
		if err != nil {
			if errors.Is(err, session.ErrNoSession) {
				http.Error(w, "sign-in rejected", http.StatusUnauthorized)
				return
			}
			d.Logger.Error("sign-in failed", logger.Error(err))
			http.Error(w, "sign-in failed", http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(sessionResponse{
			Identity: core.Identity(),
			State:    core.State().String(),
		})
	}
}

// SignOut tears the session down: subscription closed, tab channel closed,
// local snapshot cleared, provider credential invalidated.
func SignOut(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Sessions.SignOut(r.Context(), mw.TokenFrom(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	}
}
