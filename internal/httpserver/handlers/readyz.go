package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/marqsync/marq/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready bool   `json:"ready"`
	Store string `json:"store"` // "redis" | "memory"
	Error string `json:"error,omitempty"`
}

// Readyz reports whether the backing store answers. In dev mode (no Redis)
// the in-memory store is always ready.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		resp := readyzResponse{Ready: true, Store: "memory"}
		if d.RedisClient != nil {
			resp.Store = "redis"
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := d.RedisClient.Ping(ctx).Err(); err != nil {
				resp.Ready = false
				resp.Error = err.Error()
			}
		}

		if !resp.Ready {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}
