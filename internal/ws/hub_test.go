package ws

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// dial opens a client/server websocket pair, handing the server side to
// the hub.
func dial(t *testing.T, hub *Hub, userID string, onClose func()) (*websocket.Conn, chan *Client) {
	t.Helper()
	served := make(chan *Client, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		served <- hub.Serve(conn, userID, onClose)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn, served
}

func TestServeDeliversFrames(t *testing.T) {
	hub := NewHub(logDiscard())
	conn, served := dial(t, hub, "u1", nil)

	client := <-served
	if client == nil {
		t.Fatal("expected client registered")
	}
	if hub.Connections("u1") != 1 {
		t.Fatalf("expected 1 connection, got %d", hub.Connections("u1"))
	}

	client.Send(Event{Op: OpCartUpdated, Count: 3})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if ev.Op != OpCartUpdated || ev.Count != 3 {
		t.Fatalf("unexpected frame %+v", ev)
	}
	if ev.Seq == 0 {
		t.Fatal("expected a sequence number")
	}
}

func TestSequenceNumbersIncrease(t *testing.T) {
	hub := NewHub(logDiscard())
	conn, served := dial(t, hub, "u1", nil)
	client := <-served

	client.Send(Event{Op: OpCartUpdated, Count: 1})
	client.Send(Event{Op: OpCartUpdated, Count: 2})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var first, second Event
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read first: %v", err)
	}
	if err := conn.ReadJSON(&second); err != nil {
		t.Fatalf("read second: %v", err)
	}
	if second.Seq <= first.Seq {
		t.Fatalf("expected increasing seq, got %d then %d", first.Seq, second.Seq)
	}
}

func TestClientCloseRunsOnCloseAndUnregisters(t *testing.T) {
	hub := NewHub(logDiscard())
	var closed atomic.Int64
	conn, served := dial(t, hub, "u1", func() { closed.Add(1) })
	<-served

	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.Connections("u1") == 0 && closed.Load() == 1 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected unregister and onClose after disconnect, connections=%d closed=%d",
		hub.Connections("u1"), closed.Load())
}

func TestSendAfterCloseIsNoOp(t *testing.T) {
	hub := NewHub(logDiscard())
	conn, served := dial(t, hub, "u1", nil)
	client := <-served

	conn.Close()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && hub.Connections("u1") > 0 {
		time.Sleep(5 * time.Millisecond)
	}

	// Must not panic on the closed send channel.
	client.Send(Event{Op: OpCartUpdated, Count: 1})
}

func TestShutdownRejectsNewConnections(t *testing.T) {
	hub := NewHub(logDiscard())
	var closed atomic.Int64
	hub.Shutdown()

	_, served := dial(t, hub, "u1", func() { closed.Add(1) })
	if client := <-served; client != nil {
		t.Fatal("expected nil client after shutdown")
	}
	if closed.Load() != 1 {
		t.Fatalf("expected onClose for rejected connection, got %d", closed.Load())
	}
}
