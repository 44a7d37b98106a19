package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/marqsync/marq/internal/httpserver/deps"
	"github.com/marqsync/marq/internal/httpserver/handlers"
	"github.com/marqsync/marq/internal/httpserver/mw"
)

func init() { Register(registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	r.With(mw.Auth(d)).Route("/api/bookmarks", func(r chi.Router) {
		r.Get("/", handlers.List(d))
		r.Post("/", handlers.Create(d))
		r.Delete("/{id}", handlers.Delete(d))
	})
	r.With(mw.Auth(d)).Route("/api/pending-delete", func(r chi.Router) {
		r.Post("/", handlers.RequestDelete(d))
		r.Post("/confirm", handlers.ConfirmDelete(d))
		r.Delete("/", handlers.CancelDelete(d))
	})
}
