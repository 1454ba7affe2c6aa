// server/internal/socket/hub.go
package socket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Camp event types.
const (
	CampCreated  = "camp.created"
	CampUpdated  = "camp.updated"
	CampReplaced = "camp.replaced"
	CampDeleted  = "camp.deleted"
)

// CampEvent is what subscribers receive when a camp changes.
type CampEvent struct {
	Type             string `json:"type"`
	CampID           string `json:"campId"`
	ParticipantCount *int   `json:"participantCount,omitempty"`
}

const (
	// Time allowed to write one message to a subscriber.
	writeWait = 10 * time.Second
	// Events queued per subscriber before it is considered too slow and dropped.
	sendBuffer = 16
)

// Conn is the part of *websocket.Conn the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// client owns the send queue of one subscriber. Only its writePump touches
// conn, which keeps gorilla's one-writer rule.
type client struct {
	conn Conn
	send chan []byte
}

// Hub keeps every live websocket subscriber and fans camp events out to them.
type Hub struct {
	// clients is keyed by a per-connection id; one identity may hold several tabs.
	clients map[string]*client
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*client),
	}
}

func (h *Hub) Register(connID string, conn Conn) {
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if old, ok := h.clients[connID]; ok {
		close(old.send)
	}
	h.clients[connID] = c
	h.mu.Unlock()

	go h.writePump(connID, c)
	log.Debug().Str("conn", connID).Msg("websocket client registered")
}

func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	c, ok := h.clients[connID]
	h.mu.Unlock()
	if ok && h.remove(connID, c) {
		log.Debug().Str("conn", connID).Msg("websocket client unregistered")
	}
}

// Len reports the number of connected subscribers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues ev for every subscriber and returns without waiting on
// the network. A subscriber whose queue is full is dropped; it never fails
// or stalls the caller.
func (h *Hub) Broadcast(ev CampEvent) {
	msg, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Msg("marshal camp event")
		return
	}

	slow := make(map[string]*client)
	h.mu.RLock()
	for id, c := range h.clients {
		select {
		case c.send <- msg:
		default:
			slow[id] = c
		}
	}
	h.mu.RUnlock()

	for id, c := range slow {
		if h.remove(id, c) {
			log.Warn().Str("conn", id).Msg("websocket client too slow, dropping")
			c.conn.Close()
		}
	}
}

func (h *Hub) writePump(connID string, c *client) {
	for msg := range c.send {
		err := c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err == nil {
			err = c.conn.WriteMessage(websocket.TextMessage, msg)
		}
		if err != nil {
			if h.remove(connID, c) {
				log.Warn().Err(err).Str("conn", connID).Msg("websocket write failed, dropping client")
			}
			c.conn.Close()
			return
		}
	}
}

// remove drops c if it is still the subscriber registered under connID and
// closes its queue. It reports whether this call did the removal.
func (h *Hub) remove(connID string, c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cur, ok := h.clients[connID]; !ok || cur != c {
		return false
	}
	delete(h.clients, connID)
	close(c.send)
	return true
}
