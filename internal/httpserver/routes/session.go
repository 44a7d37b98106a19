package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/marqsync/marq/internal/httpserver/deps"
	"github.com/marqsync/marq/internal/httpserver/handlers"
	"github.com/marqsync/marq/internal/httpserver/mw"
)

func init() { Register(registerSession) }

func registerSession(r chi.Router, d deps.Deps) {
	r.Post("/api/session", handlers.SignIn(d))
	r.With(mw.Auth(d)).Delete("/api/session", handlers.SignOut(d))
}
