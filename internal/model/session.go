// Package model defines data structures for the cruise booking conversation.
package model

import (
	"time"
)

// DialogMarker is the active named state of a conversation. It constrains
// which intents are meaningful on the next turn.
type DialogMarker string

const (
	MarkerNone               DialogMarker = ""
	MarkerBookACruise        DialogMarker = "book-a-cruise"
	MarkerPickASailing       DialogMarker = "pick-a-sailing"
	MarkerProceedWithSailing DialogMarker = "proceed-with-sailing"
	MarkerGetDateOfBirth     DialogMarker = "get-dob"
	MarkerGetPhoneNumber     DialogMarker = "get-phone-number"
	MarkerPickCruiseDeal     DialogMarker = "pick-cruise-deal"
)

// Session is the state of one conversation. It is created on the first turn,
// replaced after every successful turn and discarded when the conversation ends.
type Session struct {
	ID     string       `json:"id"`
	Marker DialogMarker `json:"marker"`

	// Search
	Candidates     []SailingCandidate `json:"candidates,omitempty"`
	NumberOfGuests int                `json:"number_of_guests,omitempty"`
	RateCodes      []string           `json:"rate_codes,omitempty"`
	Deals          []Deal             `json:"deals,omitempty"`

	// Selection and quote
	Selected *SailingCandidate `json:"selected,omitempty"`
	Quote    *PriceQuote       `json:"quote,omitempty"`
	Hold     *HoldAvailability `json:"hold,omitempty"`

	// Identity and finalization
	DateOfBirth   string        `json:"date_of_birth,omitempty"`
	Phone         string        `json:"phone,omitempty"`
	Profile       *GuestProfile `json:"profile,omitempty"`
	BookingNumber string        `json:"booking_number,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession creates an empty session with no active dialog marker.
func NewSession(id string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
