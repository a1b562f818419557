package ws

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"surq/internal/model"
)

// MessageType defines the type of websocket message.
type MessageType string

const (
	MsgNotification MessageType = "notification"
)

// Message is the websocket envelope format.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans freshly created notifications out to a user's live connections.
// A user may hold several connections (multiple tabs); all of them receive
// every push. Messages to slow connections are dropped rather than buffered
// unboundedly; the stored notification record is the source of truth.
type Hub struct {
	conns map[string]map[*Connection]struct{} // userID -> connections

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	push       chan *pushMessage
}

// Connection represents one websocket connection for one user.
type Connection struct {
	UserID string
	Send   chan []byte
	Hub    *Hub
}

type pushMessage struct {
	UserID  string
	Message *Message
}

// NewHub creates a hub and starts its dispatch loop.
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[string]map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		push:       make(chan *pushMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.UserID] == nil {
				h.conns[conn.UserID] = make(map[*Connection]struct{})
			}
			h.conns[conn.UserID][conn] = struct{}{}
			h.mu.Unlock()
			log.Debug().Str("user_id", conn.UserID).Msg("notification stream connected")

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.conns[conn.UserID]; ok {
				if _, ok := conns[conn]; ok {
					delete(conns, conn)
					close(conn.Send)
					if len(conns) == 0 {
						delete(h.conns, conn.UserID)
					}
				}
			}
			h.mu.Unlock()
			log.Debug().Str("user_id", conn.UserID).Msg("notification stream disconnected")

		case msg := <-h.push:
			data, _ := json.Marshal(msg.Message)
			h.mu.RLock()
			for conn := range h.conns[msg.UserID] {
				select {
				case conn.Send <- data:
				default:
					// Drop for slow consumers.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection.
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection.
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Push sends a notification to all of the user's live connections
// (implements service.NotificationPusher).
func (h *Hub) Push(userID string, notification *model.Notification) {
	payload, _ := json.Marshal(notification)
	h.push <- &pushMessage{
		UserID:  userID,
		Message: &Message{Type: MsgNotification, Payload: payload},
	}
}
