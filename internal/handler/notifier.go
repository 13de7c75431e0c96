package handler

import (
	"encoding/json"

	"github.com/foodiehub/api/internal/ws"
	"github.com/google/uuid"
)

// Notifier pushes booking/order events to connected dashboards.
// Satisfied by *ws.Hub; narrow interface for testability.
type Notifier interface {
	Broadcast(customerID uuid.UUID, event ws.Event)
}

// notify marshals the payload and broadcasts it. A payload that fails to
// marshal is dropped; event delivery is best-effort and never fails the
// request that triggered it.
func notify(n Notifier, customerID uuid.UUID, eventType string, payload interface{}) {
	if n == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	n.Broadcast(customerID, ws.Event{Type: eventType, Payload: data})
}
