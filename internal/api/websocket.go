package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/FocuswithJustin/versefind/internal/logging"
)

const (
	wsWriteWait      = 10 * time.Second
	wsPongWait       = 60 * time.Second
	wsPingPeriod     = 54 * time.Second
	wsMessagesPerSec = 10
)

// liveDetect serves /ws: every text frame a client sends is answered
// with the Detection for that text, as JSON.
type liveDetect struct {
	server   *Server
	upgrader websocket.Upgrader
	clients  map[*wsClient]struct{}
	mu       sync.Mutex
}

// wsClient is one live-detection connection.
type wsClient struct {
	conn   *websocket.Conn
	send   chan []byte
	bucket *tokenBucket
	ip     string
}

func newLiveDetect(s *Server) *liveDetect {
	ld := &liveDetect{
		server:  s,
		clients: make(map[*wsClient]struct{}),
	}
	ld.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			ok := originAllowed(s.cfg.AllowedOrigins, r)
			if !ok {
				logging.SecurityEvent("websocket_origin_rejected", "api",
					"origin", r.Header.Get("Origin"),
					"client_ip", getClientIP(r))
			}
			return ok
		},
	}
	return ld
}

// handle upgrades the request and starts the client pumps.
func (ld *liveDetect) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := ld.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		logging.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}
	conn.SetReadLimit(ld.server.cfg.MaxBodyBytes)

	c := &wsClient{
		conn:   conn,
		send:   make(chan []byte, 4*wsMessagesPerSec),
		bucket: newTokenBucket(2*wsMessagesPerSec, wsMessagesPerSec, time.Now()),
		ip:     getClientIP(r),
	}
	ld.register(c)

	go ld.writePump(c)
	go ld.readPump(c)
}

func (ld *liveDetect) register(c *wsClient) {
	ld.mu.Lock()
	ld.clients[c] = struct{}{}
	n := len(ld.clients)
	ld.mu.Unlock()
	logging.WebSocketEvent("client_connected", n, "client_ip", c.ip)
}

func (ld *liveDetect) unregister(c *wsClient) {
	ld.mu.Lock()
	if _, ok := ld.clients[c]; ok {
		delete(ld.clients, c)
		close(c.send)
	}
	n := len(ld.clients)
	ld.mu.Unlock()
	logging.WebSocketEvent("client_disconnected", n, "client_ip", c.ip)
}

// count returns the number of connected clients.
func (ld *liveDetect) count() int {
	ld.mu.Lock()
	defer ld.mu.Unlock()
	return len(ld.clients)
}

// closeAll sends a going-away close frame to every client and drops the
// connections. The read pumps then unregister them.
func (ld *liveDetect) closeAll() {
	ld.mu.Lock()
	defer ld.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for c := range ld.clients {
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		c.conn.Close()
	}
}

// readPump detects references in each incoming text frame. It is the
// only sender on c.send.
func (ld *liveDetect) readPump(c *wsClient) {
	defer func() {
		ld.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	for {
		kind, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logging.Warn("websocket unexpected close", "error", err, "client_ip", c.ip)
			}
			return
		}

		if ok, _, _ := c.bucket.take(time.Now()); !ok {
			logging.SecurityEvent("websocket_rate_limit_exceeded", "api", "client_ip", c.ip)
			c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "Rate limit exceeded"),
				time.Now().Add(wsWriteWait))
			return
		}
		if kind != websocket.TextMessage {
			continue
		}

		text := string(message)
		d := ld.server.matcher.Detect(text)
		logging.DetectionEvent(context.Background(), "ws", len(text), len(d.References))

		data, err := json.Marshal(d)
		if err != nil {
			logging.Error("failed to marshal detection", "error", err)
			return
		}
		select {
		case c.send <- data:
		default:
			logging.Warn("websocket send buffer full, closing", "client_ip", c.ip)
			return
		}
	}
}

// writePump writes queued detections, one frame each, and keeps the
// connection alive with pings.
func (ld *liveDetect) writePump(c *wsClient) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
