package model

import (
	"time"
)

// EventType represents the type of booking event.
type EventType string

const (
	EventTypeTurn       EventType = "turn"
	EventTypeHoldPlaced EventType = "hold_placed"
	EventTypeFailed     EventType = "failed"
)

// BookingEvent records the outcome of a conversation turn.
type BookingEvent struct {
	ID            string       `json:"id"`
	SessionID     string       `json:"session_id"`
	Type          EventType    `json:"type"`
	Intent        Intent       `json:"intent"`
	Marker        DialogMarker `json:"marker"`
	Outcome       string       `json:"outcome"`
	BookingNumber string       `json:"booking_number,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}
