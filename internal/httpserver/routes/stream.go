package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/marqsync/marq/internal/httpserver/deps"
	"github.com/marqsync/marq/internal/httpserver/handlers"
	"github.com/marqsync/marq/internal/httpserver/mw"
)

func init() { Register(registerStream) }

func registerStream(r chi.Router, d deps.Deps) {
	r.With(mw.Auth(d)).Get("/api/stream", handlers.Stream(d))
}
