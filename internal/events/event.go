// Package events carries torrent lifecycle notifications between the
// activation transport and the selection pipeline.
package events

import "time"

// Event is the base interface all events implement.
type Event interface {
	EventType() string
	Torrent() string // torrent name, for logging and correlation
	OccurredAt() time.Time
}

// BaseEvent provides common fields for all events.
type BaseEvent struct {
	Type      string    `json:"type"`
	Name      string    `json:"torrent"`
	Timestamp time.Time `json:"occurred_at"`
}

func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) Torrent() string       { return e.Name }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent creates a BaseEvent with the current timestamp.
func NewBaseEvent(eventType, torrent string) BaseEvent {
	return BaseEvent{
		Type:      eventType,
		Name:      torrent,
		Timestamp: time.Now(),
	}
}
