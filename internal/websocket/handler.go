package websocket

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/ifrasafa/docree-project/internal/attendance"
	"github.com/ifrasafa/docree-project/internal/logging"
	"github.com/ifrasafa/docree-project/internal/utils"
)

// TokenValidator checks a raw bearer token and returns its claims.
type TokenValidator func(token string) (*utils.Claims, error)

type ClientInfo struct {
	UserID string
	Role   string
}

type WSMessage struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data,omitempty"`
}

// Hub relays attendance status and roster changes to connected clients and
// accepts attendance commands over the socket. It subscribes to the session
// service's watchers, so every stored change fans out live, including the
// sender's own writes.
type Hub struct {
	svc      *attendance.Service
	validate TokenValidator
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]ClientInfo
	cancels []func()
}

func NewHub(svc *attendance.Service, validate TokenValidator) *Hub {
	return &Hub{
		svc:      svc,
		validate: validate,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // allow all origins for now
			},
		},
		clients: make(map[*websocket.Conn]ClientInfo),
	}
}

// Subscribe attaches the hub to the session service's watchers. The
// returned state lives until Unsubscribe; a detached hub must not keep
// observing (and implicitly closing) sessions.
func (h *Hub) Subscribe(ctx context.Context) error {
	cancelStatus, err := h.svc.WatchStatus(ctx, func(snap attendance.Snapshot) {
		h.Broadcast("SESSION_STATUS", statusData(snap))
	})
	if err != nil {
		return err
	}
	cancelRoster, err := h.svc.WatchRoster(ctx, "", func(date string, students []string) {
		h.Broadcast("ROSTER", map[string]interface{}{
			"date":     date,
			"students": students,
		})
	})
	if err != nil {
		cancelStatus()
		return err
	}
	h.mu.Lock()
	h.cancels = append(h.cancels, cancelStatus, cancelRoster)
	h.mu.Unlock()
	return nil
}

// Unsubscribe detaches the hub from the session service.
func (h *Hub) Unsubscribe() {
	h.mu.Lock()
	cancels := h.cancels
	h.cancels = nil
	h.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
}

func (h *Hub) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(401, gin.H{"error": "token missing"})
		return
	}

	claims, err := h.validate(token)
	if err != nil {
		c.JSON(401, gin.H{"error": "invalid token"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Warnf("ws upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = ClientInfo{UserID: claims.UserID, Role: claims.Role}
	h.mu.Unlock()

	logging.Infof("client connected: %s (%s)", claims.UserID, claims.Role)

	go h.readLoop(conn)
}

func (h *Hub) readLoop(conn *websocket.Conn) {
	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
		logging.Infof("client disconnected")
	}()

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Event {
		case "OPEN_SESSION":
			h.handleOpen(conn, msg)
		case "CLOSE_SESSION":
			h.handleClose(conn)
		case "MARK_PRESENT":
			h.handleMark(conn, msg)
		case "SESSION_STATUS":
			h.handleStatus(conn)
		default:
			h.sendError(conn, "unknown event type")
		}
	}
}

func (h *Hub) handleOpen(conn *websocket.Conn, msg WSMessage) {
	client := h.client(conn)
	seconds, ok := msg.Data["durationSeconds"].(float64)
	if !ok || seconds <= 0 {
		h.sendError(conn, "invalid durationSeconds")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := h.svc.Open(ctx, client.UserID, time.Duration(seconds)*time.Second)
	if err != nil {
		h.sendError(conn, serviceErrorMessage(err))
		return
	}
	// watchers broadcast the new status; nothing else to send here
}

func (h *Hub) handleClose(conn *websocket.Conn) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := h.svc.Close(ctx); err != nil {
		h.sendError(conn, serviceErrorMessage(err))
	}
}

func (h *Hub) handleMark(conn *websocket.Conn, msg WSMessage) {
	client := h.client(conn)
	name, ok := msg.Data["name"].(string)
	if !ok {
		h.sendError(conn, "invalid name")
		return
	}
	date, _ := msg.Data["date"].(string)
	if date == "" {
		date = h.svc.Today()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := h.svc.MarkPresent(ctx, client.UserID, date, name); err != nil {
		h.sendError(conn, serviceErrorMessage(err))
		return
	}
	h.sendToClient(conn, WSMessage{
		Event: "MARKED",
		Data: map[string]interface{}{
			"date": date,
			"name": name,
		},
	})
}

func (h *Hub) handleStatus(conn *websocket.Conn) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	snap, err := h.svc.Status(ctx)
	if err != nil {
		h.sendError(conn, serviceErrorMessage(err))
		return
	}
	h.sendToClient(conn, WSMessage{Event: "SESSION_STATUS", Data: statusData(snap)})
}

// Broadcast sends an event to every connected client.
func (h *Hub) Broadcast(event string, data map[string]interface{}) {
	msg := WSMessage{Event: event, Data: data}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteJSON(msg); err != nil {
			logging.Warnf("broadcast error: %v", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

func (h *Hub) client(conn *websocket.Conn) ClientInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clients[conn]
}

func (h *Hub) sendToClient(conn *websocket.Conn, msg WSMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := conn.WriteJSON(msg); err != nil {
		logging.Warnf("write error: %v", err)
	}
}

func (h *Hub) sendError(conn *websocket.Conn, message string) {
	h.sendToClient(conn, WSMessage{
		Event: "ERROR",
		Data: map[string]interface{}{
			"message": message,
		},
	})
}

func statusData(snap attendance.Snapshot) map[string]interface{} {
	return map[string]interface{}{
		"date":             snap.Date,
		"status":           snap.Status,
		"open":             snap.Open,
		"remainingSeconds": int(snap.Remaining / time.Second),
	}
}

func serviceErrorMessage(err error) string {
	var verr *attendance.ValidationError
	switch {
	case errors.Is(err, attendance.ErrUnauthenticated):
		return "Unauthorized, no identity"
	case errors.Is(err, attendance.ErrUnauthorized):
		return "Forbidden, wrong role for this action"
	case errors.Is(err, attendance.ErrSessionNotOpen):
		return "No open attendance session"
	case errors.Is(err, attendance.ErrSessionExpired):
		return "Attendance session has expired"
	case errors.Is(err, attendance.ErrAlreadyMarked):
		return "Already marked present"
	case errors.As(err, &verr):
		return verr.Error()
	case errors.Is(err, attendance.ErrRemoteUnavailable):
		return "Attendance store unavailable"
	}
	return "Internal error"
}
