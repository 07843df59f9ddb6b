package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// Client represents a single authenticated signaling connection.
type Client struct {
	UserID uint
	Role   string
	Send   chan []byte

	mu     sync.Mutex
	closed bool
}

func NewClient(userID uint, role string) *Client {
	return &Client{
		UserID: userID,
		Role:   role,
		Send:   make(chan []byte, 64),
	}
}

// Close shuts the send channel exactly once. The write pump drains and
// exits when the channel closes.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

// Deliver marshals the message and enqueues it without blocking. Delivery
// is best effort: a full buffer or a closed client drops the message.
func (c *Client) Deliver(msg SignalMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[ws] marshal failed: %v", err)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- data:
	default:
		log.Printf("[ws] send buffer full for user %d, dropping %s", c.UserID, msg.Type)
	}
}
