package ws

import "sync"

// Registry tracks which users currently have a live signaling connection.
// It is a cache of current reachability, never persisted: a process restart
// starts from an empty table.
type Registry interface {
	// Register binds the user to the connection. A later registration for
	// the same user silently replaces the earlier one (new tab, reconnect).
	Register(userID uint, c *Client)
	// Resolve returns the live connection for the user, if any.
	Resolve(userID uint) (*Client, bool)
	// Unregister removes the entry bound to this connection. Idempotent;
	// must be called synchronously on disconnect. Unregistering a
	// connection that was superseded by a newer registration leaves the
	// newer entry in place.
	Unregister(c *Client)
	// IsOnline reports whether the user has a live connection.
	IsOnline(userID uint) bool
}

// MemoryRegistry is the single-process Registry. A reverse index keeps
// unregister O(1) and protects a newer registration from being evicted when
// a superseded connection finally closes.
type MemoryRegistry struct {
	mu     sync.RWMutex
	byUser map[uint]*Client
	byConn map[*Client]uint
	mirror *Mirror // optional, nil when Redis is not configured
}

func NewMemoryRegistry(mirror *Mirror) *MemoryRegistry {
	return &MemoryRegistry{
		byUser: make(map[uint]*Client),
		byConn: make(map[*Client]uint),
		mirror: mirror,
	}
}

func (r *MemoryRegistry) Register(userID uint, c *Client) {
	r.mu.Lock()
	if old, ok := r.byUser[userID]; ok && old != c {
		delete(r.byConn, old)
	}
	r.byUser[userID] = c
	r.byConn[c] = userID
	r.mu.Unlock()
	r.mirror.SetOnline(userID)
}

func (r *MemoryRegistry) Resolve(userID uint) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byUser[userID]
	return c, ok
}

func (r *MemoryRegistry) Unregister(c *Client) {
	r.mu.Lock()
	userID, ok := r.byConn[c]
	if !ok {
		r.mu.Unlock()
		return
	}
	delete(r.byConn, c)
	wentOffline := false
	if r.byUser[userID] == c {
		delete(r.byUser, userID)
		wentOffline = true
	}
	r.mu.Unlock()
	if wentOffline {
		r.mirror.SetOffline(userID)
	}
}

func (r *MemoryRegistry) IsOnline(userID uint) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byUser[userID]
	return ok
}

func (r *MemoryRegistry) OnlineCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser)
}
