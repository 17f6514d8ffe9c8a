package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"vozgestora/internal/model"
	"vozgestora/internal/service"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Handler handles WebSocket connections
type Handler struct {
	hub      *Hub
	authSvc  *service.AuthService
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewHandler creates a new WebSocket handler. An empty allowedOrigins accepts any origin.
func NewHandler(hub *Hub, authSvc *service.AuthService, allowedOrigins []string, logger *zap.Logger) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Handler{
		hub:     hub,
		authSvc: authSvc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || allowed["*"] || origin == "" || allowed[origin]
			},
		},
		logger: logger,
	}
}

// MunicipalityWS handles GET /v1/ws/municipalities/{id}
func (h *Handler) MunicipalityWS(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	token := r.URL.Query().Get("token")

	if token == "" {
		http.Error(w, `{"error":"missing token"}`, http.StatusUnauthorized)
		return
	}

	session, err := h.authSvc.Validate(r.Context(), token)
	if err != nil {
		http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
		return
	}

	if session.User.MunicipalityID != id {
		http.Error(w, `{"error":"token not valid for this municipality"}`, http.StatusForbidden)
		return
	}
	if !session.User.Role.CanAccess(model.TabDashboard) && !session.User.Role.CanAccess(model.TabFeed) {
		http.Error(w, `{"error":"role cannot watch this dashboard"}`, http.StatusForbidden)
		return
	}

	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	conn := &Connection{
		MunicipalityID: id,
		SessionID:      session.ID,
		Send:           make(chan []byte, 256),
	}
	hello, _ := json.Marshal(&Message{Type: MsgConnected, Payload: json.RawMessage(`{"municipalityId":"` + id + `"}`)})
	conn.Send <- hello
	h.hub.Register(conn)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		// Dashboards only listen; incoming frames are drained for control messages
		if _, _, err := wsConn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("websocket read error", zap.Error(err))
			}
			return
		}
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
