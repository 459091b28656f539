package api

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/sortflow/sortflow/internal/auth"
	"github.com/sortflow/sortflow/internal/session"
	ws "github.com/sortflow/sortflow/internal/websocket"
)

// WebSocketHandler handles the /api/v1/ws endpoint, over which clients
// receive controller notifications (sweep results, detail-close signals,
// send confirmations).
type WebSocketHandler struct {
	sessions *session.Store
	hub      *ws.Hub
}

// NewWebSocketHandler creates a new WebSocketHandler instance.
func NewWebSocketHandler(sessions *session.Store, hub *ws.Hub) *WebSocketHandler {
	return &WebSocketHandler{sessions: sessions, hub: hub}
}

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins; the server is expected to sit behind a reverse
		// proxy in a trusted environment.
		return true
	},
}

// Handle upgrades the HTTP connection to a WebSocket and registers it with
// the Hub. Authentication is via query parameter (?token=...) since browsers
// cannot set headers on WebSocket connections; the Authorization header is
// accepted as a fallback for tools that can.
func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		if headerToken, ok := auth.BearerToken(r); ok {
			token = headerToken
		}
	}

	if token == "" {
		log.Printf("WebSocketHandler: No token provided")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	email, err := h.sessions.ValidateToken(r.Context(), token)
	if err != nil {
		log.Printf("WebSocketHandler: Token validation failed: %v", err)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocketHandler: failed to upgrade connection for %s: %v", email, err)
		return
	}

	client := h.hub.Register(email, conn)
	if client == nil {
		log.Printf("WebSocketHandler: Connection rejected for %s (max connections exceeded)", email)
		return
	}

	go h.readLoop(email, client)
}

// readLoop reads from the WebSocket until the connection closes, then
// unregisters the client.
func (h *WebSocketHandler) readLoop(email string, client *ws.Client) {
	conn := client.Conn()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.hub.Unregister(email, client)
}
