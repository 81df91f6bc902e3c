package ws

import (
	"sync"
)

// Hub tracks which clients joined which rooms and fans messages out. Room
// membership is the only shared state; a mutex guards it because joins and
// broadcasts run on different connection goroutines.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]struct{})}
}

// Join adds the client to a room.
func (h *Hub) Join(roomID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]struct{})
	}
	h.rooms[roomID][c] = struct{}{}
}

// Remove drops the client from every room it joined. Called when the
// connection closes.
func (h *Hub) Remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for roomID, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// Broadcast sends a prepared frame to every member of the room. A client
// whose send buffer is full is skipped; its own pump will tear it down.
func (h *Hub) Broadcast(roomID string, frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[roomID] {
		select {
		case c.send <- frame:
		default:
		}
	}
}
