package httpserver

import (
	"context"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"storefront/internal/cart"
	"storefront/internal/notifier"
	"storefront/internal/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin is already policed by the CORS layer; the cookie
	// session is what authenticates the socket.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// cartSocketHandler upgrades a tab's connection and attaches a badge to
// it: every cart-updated signal (or poll tick) re-fetches the user's
// count and pushes it down the socket. Closing the tab releases the badge
// subscription — nothing updates after unmount.
func cartSocketHandler(hub *ws.Hub, bus *notifier.Bus, carts *cart.Registry, pollInterval time.Duration, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the HTTP error.
			return
		}

		fetch := func(ctx context.Context) (int, error) {
			return carts.Count(ctx, user.ID)
		}

		var clientRef atomic.Pointer[ws.Client]
		badge := notifier.NewBadge(bus, fetch, pollInterval, func(count int) {
			if client := clientRef.Load(); client != nil {
				client.Send(ws.Event{Op: ws.OpCartUpdated, Count: count})
			}
		}, logger)

		client := hub.Serve(conn, user.ID, badge.Close)
		if client == nil {
			return
		}
		clientRef.Store(client)
		// Seed the tab with the current count right away.
		badge.Refresh(c.Request.Context())
	}
}
