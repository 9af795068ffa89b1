package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/matchmates/matchmates-bot/internal/bot"
)

const (
	writeWait      = 10 * time.Second
	sendBufferSize = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server is the WebSocket messaging gateway: it authenticates connections,
// translates socket frames into orchestrator events, and delivers the
// replies back to every connection the user holds.
type Server struct {
	hub    *Hub
	orch   *bot.Orchestrator
	secret []byte
	log    *zap.Logger
}

func NewServer(hub *Hub, orch *bot.Orchestrator, secret []byte, log *zap.Logger) *Server {
	return &Server{hub: hub, orch: orch, secret: secret, log: log}
}

// Handler returns the gateway's HTTP surface: the chat socket and a health
// check for the container runtime.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	return mux
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r, s.secret)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed",
			zap.String("user_id", userID), zap.Error(err))
		return
	}

	client := &Client{
		id:     uuid.NewString(),
		userID: userID,
		conn:   conn,
		send:   make(chan OutboundMessage, sendBufferSize),
	}
	s.hub.register(client)
	s.log.Info("client connected",
		zap.String("user_id", userID), zap.String("conn_id", client.id))

	go s.writePump(client)
	s.readPump(r.Context(), client)
}

// readPump consumes frames until the connection drops. Each frame becomes
// one orchestrator event; the orchestrator serializes per user, so frames
// from two devices of the same user cannot interleave mid-transition.
func (s *Server) readPump(ctx context.Context, c *Client) {
	defer func() {
		s.hub.unregister(c)
		c.conn.Close()
		close(c.send)
		s.log.Info("client disconnected",
			zap.String("user_id", c.userID), zap.String("conn_id", c.id))
	}()

	for {
		var in InboundMessage
		if err := c.conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("websocket read error",
					zap.String("user_id", c.userID), zap.Error(err))
			}
			return
		}

		replies, err := s.orch.Handle(ctx, bot.Event{
			UserID:  c.userID,
			Kind:    bot.EventKind(in.Kind),
			Payload: in.Payload,
		})
		if err != nil {
			s.log.Error("event handling failed",
				zap.String("user_id", c.userID),
				zap.String("kind", in.Kind),
				zap.Error(err))
		}
		for _, reply := range replies {
			s.hub.SendToUser(c.userID, OutboundMessage{
				Type:    "reply",
				Text:    reply.Text,
				Buttons: reply.Buttons,
			})
		}
	}
}

func (s *Server) writePump(c *Client) {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		payload, err := json.Marshal(msg)
		if err != nil {
			continue
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
