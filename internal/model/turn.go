package model

// Intent identifies what the user asked for on a turn.
type Intent string

const (
	IntentBookACruise        Intent = "book-a-cruise"
	IntentPickASailing       Intent = "pick-a-sailing"
	IntentProceedWithSailing Intent = "proceed-with-sailing"
	IntentGetDateOfBirth     Intent = "get-dob"
	IntentGetPhoneNumber     Intent = "get-phone-number"
	IntentFindCruiseDeals    Intent = "find-cruise-deals"
	IntentPickCruiseDeal     Intent = "pick-cruise-deal"
)

// TurnRequest is one recognized user turn delivered by the conversational platform.
type TurnRequest struct {
	SessionID string         `json:"session_id"`
	Intent    Intent         `json:"intent"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// TurnResponse is the prompt returned to the platform.
type TurnResponse struct {
	SessionID          string       `json:"session_id"`
	Prompt             string       `json:"prompt"`
	ExpectUserResponse bool         `json:"expect_user_response"`
	Marker             DialogMarker `json:"marker"`
}

// UtteranceRequest carries free text to be resolved into a turn.
type UtteranceRequest struct {
	Text string `json:"text"`
}
