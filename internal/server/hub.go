package server

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// client is one websocket connection. The room/team association is owned by
// the connection's read loop; nothing else writes these fields.
type client struct {
	id   string
	send chan []byte

	roomCode string
	roomID   string
	teamID   string
	nickname string
}

func newClient() *client {
	return &client{
		id:   uuid.NewString(),
		send: make(chan []byte, 16),
	}
}

func (c *client) joined() bool {
	return c.roomCode != "" && c.teamID != ""
}

func (c *client) sendEvent(ev event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	c.trySend(data)
}

func (c *client) trySend(data []byte) {
	select {
	case c.send <- data:
	default:
		// Drop if the connection is slow.
	}
}

// hub groups live connections by room code so events can be pushed to every
// member of a room at once.
type hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*client]struct{}
}

func newHub() *hub {
	return &hub{
		rooms: make(map[string]map[*client]struct{}),
	}
}

func (h *hub) join(roomCode string, c *client) {
	h.mu.Lock()
	if h.rooms[roomCode] == nil {
		h.rooms[roomCode] = make(map[*client]struct{})
	}
	h.rooms[roomCode][c] = struct{}{}
	h.mu.Unlock()
}

func (h *hub) leave(roomCode string, c *client) {
	h.mu.Lock()
	delete(h.rooms[roomCode], c)
	if len(h.rooms[roomCode]) == 0 {
		delete(h.rooms, roomCode)
	}
	h.mu.Unlock()
}

// broadcast sends an event to every connection in the room.
func (h *hub) broadcast(roomCode string, ev event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	h.mu.RLock()
	for c := range h.rooms[roomCode] {
		c.trySend(data)
	}
	h.mu.RUnlock()
}
