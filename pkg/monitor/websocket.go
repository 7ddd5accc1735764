package monitor

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait bounds a single frame write to a peer.
	writeWait = 10 * time.Second

	// pongWait is how long to wait for a pong before the
	// connection is considered dead.
	pongWait = 60 * time.Second

	// pingPeriod must be shorter than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// sendBuffer is the per-client outbound queue size.
	sendBuffer = 32

	// maxInboundBytes limits frames read from peers; the
	// monitor never expects meaningful input.
	maxInboundBytes = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Dashboard pages may be served from a different origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsClient is one connected WebSocket peer. All frames flow
// through the send channel so only writePump touches the write
// side of the connection.
type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// handleWS upgrades the request and streams run events to the
// peer. The first frame is always the current dashboard
// snapshot.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		return
	}

	client := &wsClient{
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	s.mu.Lock()
	s.ws[client] = struct{}{}
	s.mu.Unlock()

	if data, err := jsonMarshal(s.dashboard.Snapshot()); err == nil {
		client.send <- data
	}

	go client.writePump()
	client.readPump(func() {
		s.mu.Lock()
		delete(s.ws, client)
		s.mu.Unlock()
		close(client.send)
	})
}

// readPump discards inbound frames and keeps the read deadline
// fresh from pongs. It returns once the peer goes away, then
// deregisters the client.
func (c *wsClient) readPump(deregister func()) {
	defer func() {
		deregister()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxInboundBytes)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump serializes frame writes and pings the peer on an
// interval to keep the link alive.
func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
