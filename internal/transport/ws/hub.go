package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Server-originated message types besides the live update types
const (
	MsgConnected MessageType = "connected"
	MsgError     MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans live updates out to the dashboards watching each municipality
type Hub struct {
	// municipalityID -> subscribers
	subscribers map[string]map[*Connection]struct{}

	mu sync.RWMutex

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
	stop       chan struct{}
	stopOnce   sync.Once
	done       chan struct{}

	logger *zap.Logger
}

// Connection represents a dashboard WebSocket connection
type Connection struct {
	MunicipalityID string
	SessionID      string
	Send           chan []byte
}

// BroadcastMessage is a message to broadcast
type BroadcastMessage struct {
	MunicipalityID string
	Message        *Message
}

// NewHub creates a hub and starts its loop
func NewHub(logger *zap.Logger) *Hub {
	h := &Hub{
		subscribers: make(map[string]map[*Connection]struct{}),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		broadcast:   make(chan *BroadcastMessage, 256),
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
		logger:      logger,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	defer close(h.done)
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.subscribers[conn.MunicipalityID] == nil {
				h.subscribers[conn.MunicipalityID] = make(map[*Connection]struct{})
			}
			h.subscribers[conn.MunicipalityID][conn] = struct{}{}
			h.mu.Unlock()
			h.logger.Debug("dashboard subscribed", zap.String("municipality", conn.MunicipalityID), zap.String("session", conn.SessionID))

		case conn := <-h.unregister:
			h.mu.Lock()
			if subs, ok := h.subscribers[conn.MunicipalityID]; ok {
				if _, ok := subs[conn]; ok {
					delete(subs, conn)
					close(conn.Send)
					if len(subs) == 0 {
						delete(h.subscribers, conn.MunicipalityID)
					}
				}
			}
			h.mu.Unlock()
			h.logger.Debug("dashboard unsubscribed", zap.String("municipality", conn.MunicipalityID), zap.String("session", conn.SessionID))

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg.Message)
			if err != nil {
				h.logger.Error("encode ws message", zap.Error(err))
				continue
			}
			h.mu.RLock()
			for conn := range h.subscribers[msg.MunicipalityID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()

		case <-h.stop:
			h.mu.Lock()
			for _, subs := range h.subscribers {
				for conn := range subs {
					close(conn.Send)
				}
			}
			h.subscribers = make(map[string]map[*Connection]struct{})
			h.mu.Unlock()
			return
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
		close(conn.Send)
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Subscribers returns how many connections watch the municipality
func (h *Hub) Subscribers(municipalityID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[municipalityID])
}

// BroadcastToMunicipality sends a message to every dashboard of the municipality (implements service.Broadcaster)
func (h *Hub) BroadcastToMunicipality(municipalityID string, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("encode ws payload", zap.String("type", msgType), zap.Error(err))
		return
	}
	select {
	case h.broadcast <- &BroadcastMessage{
		MunicipalityID: municipalityID,
		Message:        &Message{Type: MessageType(msgType), Payload: data},
	}:
	case <-h.done:
	}
}

// Close stops the hub loop and closes every connection's send channel
func (h *Hub) Close() {
	h.stopOnce.Do(func() { close(h.stop) })
	<-h.done
}
