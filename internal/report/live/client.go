package live

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

// writeWait bounds how long a single write to a subscriber may take before
// the connection is considered dead.
const writeWait = 10 * time.Second

// Client is one connected dashboard subscriber.
type Client struct {
	id       string
	specName string
	conn     *websocket.Conn
	send     chan Report
	hub      *Hub
}

// newClient wraps conn as a hub-managed subscriber, filtered to specName
// (empty means "every spec").
func newClient(hub *Hub, id, specName string, conn *websocket.Conn) *Client {
	return &Client{id: id, specName: specName, conn: conn, send: make(chan Report, 16), hub: hub}
}

// writePump drains c.send to the underlying websocket connection until it
// is closed by the hub (on unregister) or the connection errors out.
func (c *Client) writePump() {
	defer c.conn.Close()
	for report := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		payload, err := json.Marshal(report)
		if err != nil {
			continue
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump discards incoming messages (subscribers are write-only) purely
// to notice disconnects and drive the unregister path.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
