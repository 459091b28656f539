package api

import (
	"encoding/json"
	"log"

	"github.com/sortflow/sortflow/internal/mailbox"
	ws "github.com/sortflow/sortflow/internal/websocket"
)

// EventBroadcaster bridges controller events onto the WebSocket hub. The
// mailbox is one shared store, so every connected client gets every event.
type EventBroadcaster struct {
	hub *ws.Hub
}

// NewEventBroadcaster creates an EventBroadcaster over the hub.
func NewEventBroadcaster(hub *ws.Hub) *EventBroadcaster {
	return &EventBroadcaster{hub: hub}
}

// Notify implements mailbox.Notifier.
func (b *EventBroadcaster) Notify(event mailbox.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("EventBroadcaster: Failed to marshal event: %v", err)
		return
	}
	b.hub.Broadcast(payload)
}
