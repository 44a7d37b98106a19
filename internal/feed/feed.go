// Package feed carries change notifications for the bookmarks collection.
// The store publishes one Event per successful mutation; subscribers react
// by re-fetching the full list for their owner. Events are reload triggers
// only and are never applied to local state directly.
package feed

// Channel is the mutation stream for the bookmarks collection.
const Channel = "marq:feed:bookmarks"

// Op identifies the kind of mutation an Event describes.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Event is one mutation notification. Owner scopes the event; ID names the
// affected row. Neither field is trusted beyond deciding whether to reload.
type Event struct {
	Op    Op     `json:"op"`
	Owner string `json:"owner"`
	ID    string `json:"id"`
}
