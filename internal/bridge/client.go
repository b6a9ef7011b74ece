package bridge

import (
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/feltline/cardroom/internal/engine"
)

const (
	// Time allowed to write a frame to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Browsers only ever send
	// a single small action object.
	maxMessageSize = 512
)

// wireAction is the only frame a browser sends.
type wireAction struct {
	Action string `json:"action"`
	Amount int    `json:"amount"`
}

// client is one connected browser.
type client struct {
	srv       *Server
	conn      *websocket.Conn
	out       chan []byte
	closeOnce sync.Once
}

func newClient(srv *Server, conn *websocket.Conn) *client {
	return &client{
		srv:  srv,
		conn: conn,
		out:  make(chan []byte, 256),
	}
}

func (c *client) start() {
	go c.writePump()
	go c.readPump()
}

// close shuts the connection down once. Safe from any goroutine.
func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.out)
		_ = c.conn.Close()
	})
}

// enqueue queues a frame for the write pump. A slow browser that fills
// its buffer loses the frame, not the connection: every push is a full
// state image, so the next one heals the gap.
func (c *client) enqueue(frame []byte) {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed during shutdown.
			c.srv.log.Debug("Dropped frame for closing connection", "error", r)
		}
	}()

	select {
	case c.out <- frame:
	default:
		c.srv.log.Debug("Client buffer full, dropping frame")
	}
}

// readPump parses browser moves until the connection drops. An unknown
// action name is discarded here; the table never sees a malformed move.
func (c *client) readPump() {
	defer func() {
		c.srv.removeClient(c)
		c.close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg wireAction
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.srv.log.Error("WebSocket error", "error", err)
			}
			return
		}

		action, err := engine.ParseAction(strings.ToLower(strings.TrimSpace(msg.Action)))
		if err != nil {
			c.srv.log.Debug("Ignoring unknown action from browser", "action", msg.Action)
			continue
		}

		c.srv.offer(Action{Action: action, Amount: msg.Amount})
	}
}

// writePump writes queued frames and keepalive pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.out:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
