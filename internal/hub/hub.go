// Package hub fans task change events out to the owner's connected
// websocket clients. Events for user A are never delivered to a client
// authenticated as user B.
package hub

import (
	"log/slog"

	"taskdeck/internal/events"
)

// Hub manages all connected clients, keyed by owning username.
type Hub struct {
	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	publish    chan events.Event
}

// NewHub creates a new hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		publish:    make(chan events.Event, 64),
	}
}

// Run starts the hub loop. It owns the clients map; all access goes
// through the channels.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			if h.clients[client.username] == nil {
				h.clients[client.username] = make(map[*Client]bool)
			}
			h.clients[client.username][client] = true
			slog.Debug("hub: client registered", "username", client.username)

		case client := <-h.unregister:
			if conns, ok := h.clients[client.username]; ok {
				if conns[client] {
					delete(conns, client)
					close(client.send)
					if len(conns) == 0 {
						delete(h.clients, client.username)
					}
				}
			}
			slog.Debug("hub: client unregistered", "username", client.username)

		case event := <-h.publish:
			for client := range h.clients[event.Owner] {
				select {
				case client.send <- event:
				default:
					// Slow consumer; drop the connection rather than
					// block the hub loop.
					delete(h.clients[event.Owner], client)
					close(client.send)
				}
			}
		}
	}
}

// Register attaches a client to the hub.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Publish queues an event for delivery to the owner's clients. It never
// blocks the caller; if the hub is saturated the event is dropped.
func (h *Hub) Publish(event events.Event) {
	select {
	case h.publish <- event:
	default:
		slog.Warn("hub: event dropped, publish queue full", "event", event.Type)
	}
}
