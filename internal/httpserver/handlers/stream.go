package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/marqsync/marq/internal/httpserver/deps"
	"github.com/marqsync/marq/internal/httpserver/mw"
	"github.com/marqsync/marq/internal/logger"
	"github.com/marqsync/marq/internal/utils"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  512,
	WriteBufferSize: 512,
}

type changeMessage struct {
	Type string `json:"type"` // always "changed"
}

// Stream pushes change notifications to a connected browser tab over a
// WebSocket. The tab reacts to each message by re-fetching the list; no
// bookmark data travels on this channel. One hub listener per connection,
// released when the socket goes away.
func Stream(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		core := mw.CoreFrom(r.Context())
		owner := core.Identity()

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			d.Logger.Warn("websocket upgrade failed", logger.Error(err))
			return
		}

		listener := d.Hub.Join(owner)

		d.Logger.Debug("stream opened", logger.String("owner", owner))

		// Read pump: discard client frames, notice the close.
		gone := make(chan struct{})
		go func() {
			defer close(gone)
			conn.SetReadLimit(256)
			_ = conn.SetReadDeadline(time.Now().Add(pongWait))
			conn.SetPongHandler(func(string) error {
				return conn.SetReadDeadline(time.Now().Add(pongWait))
			})
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		go func() {
			defer utils.Close(conn)
			defer listener.Close()

			ping := time.NewTicker(pingPeriod)
			defer ping.Stop()

			for {
				select {
				case _, ok := <-listener.C():
					if !ok {
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
					if err := conn.WriteJSON(changeMessage{Type: "changed"}); err != nil {
						return
					}
				case <-ping.C:
					_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
					if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
						return
					}
				case <-gone:
					return
				}
			}
		}()
	}
}
