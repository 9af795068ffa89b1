package gateway

import (
	"sync"

	"github.com/gorilla/websocket"

	"github.com/matchmates/matchmates-bot/internal/bot"
)

// OutboundMessage is one message delivered to the user's chat client.
type OutboundMessage struct {
	Type    string         `json:"type"` // "reply" | "error"
	Text    string         `json:"text,omitempty"`
	Buttons [][]bot.Button `json:"buttons,omitempty"`
}

// InboundMessage is one user action arriving over the socket.
type InboundMessage struct {
	Kind    string `json:"kind"` // "command" | "text" | "button"
	Payload string `json:"payload"`
}

// Client is one WebSocket connection. A user may hold several (phone and
// desktop); replies fan out to all of them.
type Client struct {
	id     string
	userID string
	conn   *websocket.Conn
	send   chan OutboundMessage
}

// Hub tracks connected clients by user identifier.
type Hub struct {
	mu            sync.RWMutex
	clientsByUser map[string]map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{clientsByUser: make(map[string]map[*Client]bool)}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clientsByUser[c.userID] == nil {
		h.clientsByUser[c.userID] = make(map[*Client]bool)
	}
	h.clientsByUser[c.userID][c] = true
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if peers, ok := h.clientsByUser[c.userID]; ok {
		delete(peers, c)
		if len(peers) == 0 {
			delete(h.clientsByUser, c.userID)
		}
	}
}

// SendToUser delivers msg to every connection the user holds. Messages are
// dropped when a connection's buffer is full rather than blocking the caller.
func (h *Hub) SendToUser(userID string, msg OutboundMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clientsByUser[userID] {
		select {
		case c.send <- msg:
		default:
		}
	}
}
