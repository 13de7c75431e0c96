package ws

import (
	"encoding/json"
	"sync"

	"github.com/foodiehub/api/internal/enum"
	"github.com/google/uuid"
)

// Event represents a WebSocket message to be broadcast
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// subjectEvent is an internal struct for routing an event to the customer
// it concerns (owners receive everything)
type subjectEvent struct {
	CustomerID uuid.UUID
	Event      Event
}

// Hub maintains the set of active dashboard connections and broadcasts
// booking/order events to them. Owners see all events; a customer only
// sees events about their own bookings and orders.
type Hub struct {
	// Registered customer clients by profile ID
	rooms map[uuid.UUID]map[*Client]bool

	// Registered owner clients
	owners map[*Client]bool

	// Inbound messages from clients (register/unregister)
	register   chan *Client
	unregister chan *Client

	// Outbound messages to broadcast
	broadcast chan *subjectEvent

	// Mutex for thread-safe room access
	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		owners:     make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *subjectEvent, 256),
	}
}

// Run starts the hub's main loop
// This should be called as a goroutine: go hub.Run()
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if client.role == enum.RoleOwner {
				h.owners[client] = true
			} else {
				if h.rooms[client.profileID] == nil {
					h.rooms[client.profileID] = make(map[*Client]bool)
				}
				h.rooms[client.profileID][client] = true
			}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.removeClient(client)
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.mu.Lock()

			// Marshal event to JSON once
			message, err := json.Marshal(event.Event)
			if err != nil {
				h.mu.Unlock()
				continue
			}

			// Owners receive every event
			for client := range h.owners {
				h.send(client, message)
			}

			// The customer the event concerns receives it too
			for client := range h.rooms[event.CustomerID] {
				h.send(client, message)
			}
			h.mu.Unlock()
		}
	}
}

// send delivers a message to one client, dropping the client when its
// buffer is full. Caller must hold h.mu.
func (h *Hub) send(client *Client, message []byte) {
	select {
	case client.send <- message:
	default:
		h.removeClient(client)
	}
}

// removeClient unregisters a client from whichever set it belongs to.
// Caller must hold h.mu.
func (h *Hub) removeClient(client *Client) {
	if client.role == enum.RoleOwner {
		if _, ok := h.owners[client]; ok {
			delete(h.owners, client)
			close(client.send)
		}
		return
	}
	if clients, ok := h.rooms[client.profileID]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			close(client.send)
			// Clean up empty rooms
			if len(clients) == 0 {
				delete(h.rooms, client.profileID)
			}
		}
	}
}

// Broadcast sends an event about the given customer's booking or order.
// It is delivered to all owner dashboards and to that customer's own
// dashboard connections. This is the public API for handlers.
func (h *Hub) Broadcast(customerID uuid.UUID, event Event) {
	h.broadcast <- &subjectEvent{
		CustomerID: customerID,
		Event:      event,
	}
}
