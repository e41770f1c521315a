package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventLoad  EventType = "load"
	EventMatch EventType = "match"
	EventSave  EventType = "save"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// LoadEvent is fired after a resource has been read and decoded.
type LoadEvent struct {
	EventBase
	Path     string        `json:"path"`
	Count    int           `json:"count"`
	Duration time.Duration `json:"duration"`
}

// MatchEvent is fired after the matcher ran.
type MatchEvent struct {
	EventBase
	ModelCount   int           `json:"model_count"`
	SpaceCount   int           `json:"space_count"`
	MatchedCount int           `json:"matched_count"`
	Duration     time.Duration `json:"duration"`
}

// SaveEvent is fired after the matched set has been written.
type SaveEvent struct {
	EventBase
	Path  string `json:"path"`
	Bytes int    `json:"bytes"`
}

// Hooks defines callbacks for engine observability.
type Hooks struct {
	OnLoad  func(context.Context, *LoadEvent)
	OnMatch func(context.Context, *MatchEvent)
	OnSave  func(context.Context, *SaveEvent)
}
