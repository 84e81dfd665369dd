package middleware

import (
	"errors"
	"regexp"
	"unicode/utf8"
)

const maxUtteranceLength = 2000

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_\-:]{1,128}$`)

// ValidateUtterance validates free text sent for intent resolution.
func ValidateUtterance(text string) error {
	if len(text) == 0 {
		return errors.New("text cannot be empty")
	}
	if len(text) > maxUtteranceLength {
		return errors.New("text exceeds maximum length")
	}
	if !utf8.ValidString(text) {
		return errors.New("text must be valid UTF-8")
	}
	return nil
}

// ValidateSessionID validates a session ID. Platforms may supply their own
// IDs, so any short token of letters, digits, '_', '-' and ':' is accepted.
func ValidateSessionID(id string) error {
	if !sessionIDPattern.MatchString(id) {
		return errors.New("invalid session ID format")
	}
	return nil
}
