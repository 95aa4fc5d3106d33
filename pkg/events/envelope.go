package events

import (
	"encoding/json"
	"time"
)

type envelope struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// Decode turns a published payload back into an event.
func Decode(payload []byte) (BaseEvent, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return BaseEvent{}, err
	}
	return BaseEvent{Type: env.Type, Data: env.Data, OccurredAt: env.OccurredAt}, nil
}

// Encode is the wire form used by every bus.
func Encode(event Event) ([]byte, error) {
	return json.Marshal(envelope{
		Type:       event.EventType(),
		Data:       event.Payload(),
		OccurredAt: event.Timestamp(),
	})
}
