package eventstore

import (
	"encoding/json"
	"time"
)

// Event is one entry of the build history log.
type Event interface {
	ID() int64
	BuildID() string
	Type() string
	Timestamp() time.Time
	// Payload is the JSON-encoded event body.
	Payload() []byte
	Metadata() map[string]string
}

// BaseEvent is the stored form of an Event.
type BaseEvent struct {
	EventID        int64
	EventBuildID   string
	EventType      string
	EventTimestamp time.Time
	EventPayload   []byte
	EventMetadata  map[string]string
}

func (e *BaseEvent) ID() int64                   { return e.EventID }
func (e *BaseEvent) BuildID() string             { return e.EventBuildID }
func (e *BaseEvent) Type() string                { return e.EventType }
func (e *BaseEvent) Timestamp() time.Time        { return e.EventTimestamp }
func (e *BaseEvent) Payload() []byte             { return e.EventPayload }
func (e *BaseEvent) Metadata() map[string]string { return e.EventMetadata }

// decodePayload unmarshals the payload of e into v, reporting success.
// Malformed payloads are skipped by the projection.
func decodePayload(e Event, v any) bool {
	return json.Unmarshal(e.Payload(), v) == nil
}
