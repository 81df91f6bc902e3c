package ws

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/orderdesk/order-system/internal/core/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

// Client is one authenticated socket connection. The principal is written
// exactly once, at handshake time, and is read-only afterwards.
type Client struct {
	conn      *websocket.Conn
	principal *domain.Principal
	send      chan []byte
}

func newClient(conn *websocket.Conn, principal *domain.Principal) *Client {
	return &Client{
		conn:      conn,
		principal: principal,
		send:      make(chan []byte, sendBuffer),
	}
}

// emit queues a frame for this client only. Drops the frame when the buffer
// is full rather than blocking a broadcast.
func (c *Client) emit(frame []byte) {
	select {
	case c.send <- frame:
	default:
	}
}

// writePump drains the send channel onto the connection and keeps the
// connection alive with pings. One goroutine per connection; it owns all
// writes.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
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
