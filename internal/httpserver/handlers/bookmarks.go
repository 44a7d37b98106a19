package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marqsync/marq/internal/domain"
	"github.com/marqsync/marq/internal/httpserver/deps"
	"github.com/marqsync/marq/internal/httpserver/mw"
	"github.com/marqsync/marq/internal/logger"
	"github.com/marqsync/marq/internal/sync"
)

type listResponse struct {
	Items []*domain.Bookmark `json:"items"`
	State string             `json:"state"`
	Error string             `json:"error,omitempty"` // advisory (stale data may be shown)
}

type createRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type pendingDeleteRequest struct {
	ID string `json:"id"`
}

// List serves the derived view: filtered by ?q=, ordered by ?sort=.
// A degraded sync (advisory error) still serves the last-known-good items.
func List(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		core := mw.CoreFrom(r.Context())

		query := r.URL.Query().Get("q")
		mode := domain.ParseSortMode(r.URL.Query().Get("sort"))

		resp := listResponse{
			Items: core.View(query, mode),
			State: core.State().String(),
		}
		if err := core.Err(); err != nil {
			resp.Error = err.Error()
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// Create validates and inserts a bookmark, then answers with the refreshed
// list length so thin clients can spot drift early.
func Create(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		core := mw.CoreFrom(r.Context())

		var req createRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		if err := core.Create(r.Context(), req.Title, req.URL); err != nil {
			writeOperationError(w, d, "create", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(listResponse{
			Items: core.View("", domain.SortLatest),
			State: core.State().String(),
		})
	}
}

// Delete removes one bookmark immediately. Clients wanting the two-step
// confirmation flow use the pending-delete endpoints instead.
func Delete(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		core := mw.CoreFrom(r.Context())
		id := chi.URLParam(r, "id")

		if err := core.Delete(r.Context(), id); err != nil {
			writeOperationError(w, d, "delete", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// RequestDelete marks a bookmark for deletion without touching the store.
func RequestDelete(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		core := mw.CoreFrom(r.Context())

		var req pendingDeleteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		if err := core.RequestDelete(req.ID); err != nil {
			writeOperationError(w, d, "request delete", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ConfirmDelete performs the pending delete and clears the mark.
func ConfirmDelete(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		core := mw.CoreFrom(r.Context())

		if err := core.ConfirmDelete(r.Context()); err != nil {
			writeOperationError(w, d, "confirm delete", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// CancelDelete clears the pending mark. Never reaches the store.
func CancelDelete(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mw.CoreFrom(r.Context()).CancelDelete()
		w.WriteHeader(http.StatusNoContent)
	}
}

// writeOperationError maps the error taxonomy onto HTTP statuses.
func writeOperationError(w http.ResponseWriter, d deps.Deps, op string, err error) {
	switch {
	case domain.IsValidation(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case domain.IsPermissionDenied(err):
		http.Error(w, "not your bookmark", http.StatusForbidden)
	case errors.Is(err, sync.ErrCreateInFlight):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, sync.ErrNoPendingDelete), errors.Is(err, sync.ErrUnknownBookmark):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, sync.ErrNotSignedIn):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	default:
		d.Logger.Error("bookmark operation failed",
			logger.String("op", op),
			logger.Error(err))
		http.Error(w, "store operation failed", http.StatusBadGateway)
	}
}
