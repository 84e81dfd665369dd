package model

// SailingCandidate is one bookable sailing in the category chosen for the
// guest. Candidates are referenced by their 1-based ordinal position.
type SailingCandidate struct {
	ItineraryCode     string  `json:"itinerary_code"`
	ItineraryName     string  `json:"itinerary_name"`
	SailingDate       string  `json:"sailing_date"`
	Duration          int     `json:"duration"`
	SailingID         string  `json:"sailing_id"`
	CategoryCode      string  `json:"category_code"`
	RateCode          string  `json:"rate_code"`
	DestinationCode   string  `json:"destination_code"`
	DestinationName   string  `json:"destination_name"`
	ShipCode          string  `json:"ship_code"`
	Price             float64 `json:"price"`
	DeparturePortName string  `json:"departure_port_name"`
}

// GuestPrice is the price breakdown for one guest in the stateroom.
type GuestPrice struct {
	CruiseAmount    float64 `json:"cruise_amount"`
	GratuityAmount  float64 `json:"gratuity_amount"`
	InsuranceAmount float64 `json:"insurance_amount"`
	TaxesAmount     float64 `json:"taxes_amount"`
	TotalAmount     float64 `json:"total_amount"`
}

// PriceQuote is the held stateroom selection returned by the pricing service.
type PriceQuote struct {
	DeckCode             string       `json:"deck_code"`
	LocationCode         string       `json:"location_code"`
	CategoryCode         string       `json:"category_code"`
	UpgradeCode          string       `json:"upgrade_code"`
	RateCode             string       `json:"rate_code"`
	DepositAmount        float64      `json:"deposit_amount"`
	FinalPaymentAmount   float64      `json:"final_payment_amount"`
	FinalPaymentDate     string       `json:"final_payment_date,omitempty"`
	IsGratuitiesRequired bool         `json:"is_gratuities_required"`
	StateroomNumber      string       `json:"stateroom_number"`
	StateroomTypeCode    string       `json:"stateroom_type_code"`
	OptionDate           string       `json:"option_date"`
	GuestPrices          []GuestPrice `json:"guest_prices"`
}

// TotalPrice sums the total amount of every guest.
func (q *PriceQuote) TotalPrice() float64 {
	var total float64
	for _, g := range q.GuestPrices {
		total += g.TotalAmount
	}
	return total
}

// HoldAvailability is the courtesy hold configuration for a stateroom.
type HoldAvailability struct {
	DepositHours int    `json:"deposit_hours"`
	Available    bool   `json:"available"`
	Token        string `json:"token"`
}

// GuestProfile is the guest created by the profile service.
type GuestProfile struct {
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Email            string `json:"email"`
	Gender           string `json:"gender"`
	CountryCode      string `json:"country_code"`
	DobDay           int    `json:"dob_day"`
	DobMonth         int    `json:"dob_month"`
	DobYear          int    `json:"dob_year"`
	PhoneCountryCode string `json:"phone_country_code"`
	PhoneAreaCode    string `json:"phone_area_code"`
	PhoneNumber      string `json:"phone_number"`
	LoyaltyNumber    string `json:"loyalty_number"`

	// AuthCookie is the session cookie issued on creation. It authenticates
	// the courtesy hold request and is never serialized.
	AuthCookie string `json:"-"`
}

// Deal is a promotional offer restricting a search to a set of rate codes.
type Deal struct {
	Description string   `json:"description"`
	RateCodes   []string `json:"rate_codes"`
}
