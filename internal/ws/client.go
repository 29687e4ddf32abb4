package ws

import (
	"strings"

	"github.com/gofiber/websocket/v2"
)

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	events map[EventType]bool
	send   chan []byte
}

// parseEvents reads a comma separated subscription list. Empty means every
// event type.
func parseEvents(raw string) map[EventType]bool {
	events := make(map[EventType]bool)
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			events[EventType(part)] = true
		}
	}
	return events
}

func (c *Client) wants(t EventType) bool {
	return len(c.events) == 0 || c.events[t]
}

func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	for {
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}
