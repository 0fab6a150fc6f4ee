package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	// Inbound frames are ignored; the limit just bounds a misbehaving
	// client.
	maxMessageSize = 512
)

// Client is one browser tab's connection.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string

	sendMu sync.Mutex
	closed bool
	send   chan Event

	onClose func()
}

// Serve registers a connection and starts its read/write pumps. onClose
// runs exactly once when the connection goes away, releasing whatever the
// caller attached to it (the badge subscription). Returns nil when the
// hub is already shut down.
func (h *Hub) Serve(conn *websocket.Conn, userID string, onClose func()) *Client {
	c := &Client{
		hub:     h,
		conn:    conn,
		userID:  userID,
		send:    make(chan Event, 8),
		onClose: onClose,
	}
	if !h.register(c) {
		conn.Close()
		if onClose != nil {
			onClose()
		}
		return nil
	}
	go c.writePump()
	go c.readPump()
	return c
}

// Send enqueues a frame without blocking. Sending to a closed client is a
// no-op; a tab that cannot keep up is disconnected and will reconnect and
// re-fetch.
func (c *Client) Send(ev Event) {
	ev.Seq = c.hub.nextSeq()
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- ev:
	default:
		c.closed = true
		close(c.send)
	}
}

func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		if c.onClose != nil {
			c.onClose()
		}
	}()

	for {
		select {
		case ev, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames; the badge channel is one-way. Its job
// is noticing the close.
func (c *Client) readPump() {
	defer c.hub.unregister(c)
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
