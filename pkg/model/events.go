package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Envelope is the canonical wrapper for events emitted on NATS.
type Envelope struct {
	ID            uuid.UUID       `json:"id"`
	CorrelationID uuid.UUID       `json:"correlation_id"`
	Topic         string          `json:"topic"`
	EventType     string          `json:"event_type"`
	Version       string          `json:"version"`
	Timestamp     time.Time       `json:"timestamp"`
	Payload       json.RawMessage `json:"payload"`
}

// StandingsUpdated is published when a watched league's table changes.
type StandingsUpdated struct {
	LeagueID   int        `json:"league_id"`
	Standings  []Standing `json:"standings"`
	Checksum   string     `json:"checksum"`
	ObservedAt time.Time  `json:"observed_at"`
}
