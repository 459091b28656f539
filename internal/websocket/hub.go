package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client wraps a WebSocket connection.
type Client struct {
	conn *websocket.Conn
}

// Conn returns the underlying WebSocket connection.
func (c *Client) Conn() *websocket.Conn {
	return c.conn
}

// Hub manages active WebSocket connections per signed-in email. Multiple
// connections per email are supported (multiple tabs).
type Hub struct {
	mu          sync.RWMutex
	clients     map[string]map[*Client]struct{} // email -> set of clients
	maxPerEmail int
}

// NewHub creates a Hub with a per-email connection limit.
func NewHub(maxPerEmail int) *Hub {
	if maxPerEmail <= 0 {
		maxPerEmail = 10
	}
	return &Hub{
		clients:     make(map[string]map[*Client]struct{}),
		maxPerEmail: maxPerEmail,
	}
}

// Register adds a WebSocket connection for the given email. If the per-email
// limit is exceeded, the new connection is closed and nil is returned.
func (h *Hub) Register(email string, conn *websocket.Conn) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	emailClients, ok := h.clients[email]
	if !ok {
		emailClients = make(map[*Client]struct{})
		h.clients[email] = emailClients
	}

	if len(emailClients) >= h.maxPerEmail {
		log.Printf("websocket: %s exceeded max connections (%d), closing new connection", email, h.maxPerEmail)
		_ = conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "too many connections"),
			// Zero deadline - best effort.
			time.Time{},
		)
		_ = conn.Close()
		return nil
	}

	client := &Client{conn: conn}
	emailClients[client] = struct{}{}
	return client
}

// Unregister removes a client for the given email and closes the connection.
func (h *Hub) Unregister(email string, client *Client) {
	if client == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	emailClients, ok := h.clients[email]
	if !ok {
		_ = client.conn.Close()
		return
	}

	delete(emailClients, client)

	if len(emailClients) == 0 {
		delete(h.clients, email)
	}

	_ = client.conn.Close()
}

// Send delivers a message to all active clients for one email.
func (h *Hub) Send(email string, msg []byte) {
	h.mu.RLock()
	emailClients := h.clients[email]
	h.mu.RUnlock()

	for client := range emailClients {
		h.write(email, client, msg)
	}
}

// Broadcast delivers a message to every connected client. The mailbox is a
// single shared store, so store-level notifications (deadline sweeps, trash
// signals) go to everyone.
func (h *Hub) Broadcast(msg []byte) {
	h.mu.RLock()
	flattened := make(map[string][]*Client, len(h.clients))
	for email, emailClients := range h.clients {
		for client := range emailClients {
			flattened[email] = append(flattened[email], client)
		}
	}
	h.mu.RUnlock()

	for email, clients := range flattened {
		for _, client := range clients {
			h.write(email, client, msg)
		}
	}
}

func (h *Hub) write(email string, client *Client, msg []byte) {
	if err := client.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		log.Printf("websocket: failed to write message for %s: %v", email, err)
		// Best-effort cleanup: unregister this client.
		go h.Unregister(email, client)
	}
}

// ActiveConnections returns the number of active connections for an email.
func (h *Hub) ActiveConnections(email string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients[email])
}
