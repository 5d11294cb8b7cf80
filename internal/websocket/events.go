package websocket

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
)

// Publisher fans invoice lifecycle events out to all connected clients.
// It satisfies the service layer's EventPublisher interface.
type Publisher struct {
	hub *Hub
}

func NewPublisher(hub *Hub) *Publisher {
	return &Publisher{hub: hub}
}

// Publish marshals the event and pushes it to the hub's broadcast channel.
// Delivery is fire-and-forget; a slow hub never blocks the request path.
func (p *Publisher) Publish(event string, payload interface{}) {
	msg, err := json.Marshal(map[string]interface{}{
		"event":     event,
		"payload":   payload,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		log.Warn().Err(err).Str("event", event).Msg("failed to marshal websocket event")
		return
	}

	select {
	case p.hub.Broadcast <- msg:
	default:
		log.Warn().Str("event", event).Msg("websocket broadcast channel full, dropping event")
	}
}
