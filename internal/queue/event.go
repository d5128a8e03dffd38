// Package queue defines the messages the desk exchanges over RabbitMQ and
// the consumer that keeps the override audit log.
package queue

import (
    "time"

    "github.com/iliyamo/stayboard/internal/resolution"
)

// ConflictActionRequested asks a collaborator (reservation service,
// notification service) to carry out an operator action.  The desk does
// not wait for an answer; the outcome shows up in the next classifier run.
type ConflictActionRequested struct {
    resolution.Payload
}

// OverrideAccepted is published after a forced approval is stored.
type OverrideAccepted struct {
    Entry resolution.AuditEntry `json:"entry"`
}

// HoldReleased is published after a hold leaves the active set.
type HoldReleased struct {
    HoldID      string    `json:"hold_id"`
    RoomID      string    `json:"room_id"`
    StartDate   string    `json:"start_date"`
    EndDate     string    `json:"end_date"`
    ReleasedBy  string    `json:"released_by"`
    ReleasedAt  time.Time `json:"released_at"`
    ConflictKey string    `json:"conflict_key,omitempty"`
}
