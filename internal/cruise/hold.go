package cruise

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/capitalize-ai/cruise-concierge/internal/model"
)

const (
	holdConfigPath   = "/bookingengine/api/booking/courtesyhold/config"
	createHoldPath   = "/payment/bookings/courtesyhold"
	confirmationPath = "/BookingEngine/Booking/StandaloneConfirmation"
)

// HoldAvailabilityRequest asks whether a stateroom can be put on courtesy hold.
type HoldAvailabilityRequest struct {
	OptionDate        string
	NumberOfCabins    int
	MetaCode          string
	ItineraryCode     string
	RateCode          string
	SailingDate       string
	ShipCode          string
	StateroomTypeCode string
	Rank              int
}

func (r *HoldAvailabilityRequest) query() url.Values {
	q := url.Values{}
	q.Set("optionDate", r.OptionDate)
	q.Set("numberOfCabins", strconv.Itoa(r.NumberOfCabins))
	q.Set("metaCode", r.MetaCode)
	q.Set("itineraryCode", r.ItineraryCode)
	q.Set("rateCode", r.RateCode)
	q.Set("sailingDate", r.SailingDate)
	q.Set("shipCode", r.ShipCode)
	q.Set("stateroomTypeCode", r.StateroomTypeCode)
	q.Set("rank", strconv.Itoa(r.Rank))
	return q
}

// CheckAvailability returns the courtesy hold configuration. A hold is
// available only when the engine offers a positive deposit window.
func (c *Client) CheckAvailability(ctx context.Context, req *HoldAvailabilityRequest) (*model.HoldAvailability, error) {
	var apiResp struct {
		DepositHours int    `json:"depositHours"`
		Token        string `json:"token"`
	}
	if err := c.getJSON(ctx, "hold_availability", holdConfigPath, req.query(), &apiResp); err != nil {
		return nil, err
	}

	return &model.HoldAvailability{
		DepositHours: apiResp.DepositHours,
		Available:    apiResp.DepositHours > 0,
		Token:        apiResp.Token,
	}, nil
}

// PlaceHoldRequest carries everything accumulated during the conversation
// that is needed to hold the stateroom for the guest.
type PlaceHoldRequest struct {
	Quote            *model.PriceQuote
	Hold             *model.HoldAvailability
	Sailing          *model.SailingCandidate
	Profile          *model.GuestProfile
	StateOfResidency string
}

// PlaceHoldResult is the outcome of a courtesy hold.
type PlaceHoldResult struct {
	BookingNumber string
	Result        string
}

type holdGuest struct {
	CountryCode                 string   `json:"countryCode"`
	CruiseAmount                float64  `json:"cruiseAmount"`
	DobDay                      int      `json:"dobDay,omitempty"`
	DobMonth                    int      `json:"dobMonth,omitempty"`
	DobYear                     int      `json:"dobYear,omitempty"`
	EmailAddress                string   `json:"emailAddress,omitempty"`
	FirstName                   string   `json:"firstName,omitempty"`
	LastName                    string   `json:"lastName,omitempty"`
	Gender                      string   `json:"gender,omitempty"`
	GratuityAmount              float64  `json:"gratuityAmount"`
	InsuranceAmount             float64  `json:"insuranceAmount"`
	IsInsuranceSelected         bool     `json:"isInsuranceSelected"`
	IsPrepaidGratuitiesSelected bool     `json:"isPrepaidGratuitiesSelected"`
	LoyaltyNumber               string   `json:"loyaltyNumber,omitempty"`
	PhoneAreaCode               string   `json:"phoneAreaCode,omitempty"`
	PhoneCountryCode            string   `json:"phoneCountryCode,omitempty"`
	PhoneNumber                 string   `json:"phoneNumber,omitempty"`
	SpecialServicesSelected     []string `json:"specialServicesSelected"`
	TaxAmount                   float64  `json:"taxAmount"`
}

type holdStateroom struct {
	CategoryCode         string      `json:"categoryCode"`
	DeckCode             string      `json:"deckCode"`
	DepositAmount        float64     `json:"depositAmount"`
	FinalPaymentDate     string      `json:"finalPaymentDate,omitempty"`
	Guests               []holdGuest `json:"guests"`
	IsGratuitiesRequired bool        `json:"isGratuitiesRequired"`
	LocationCode         string      `json:"locationCode"`
	Qualifiers           struct {
		CountryOfResidency string `json:"countryOfResidency"`
		StateOfResidency   string `json:"stateOfResidency"`
	} `json:"qualifiers"`
	RateCode          string `json:"rateCode"`
	StateroomMetaCode string `json:"stateroomMetaCode"`
	StateroomNumber   string `json:"stateroomNumber"`
	StateroomTypeCode string `json:"stateroomTypeCode"`
	UpgradeCode       string `json:"upgradeCode"`
}

type createHoldRequest struct {
	CourtesyHoldOption struct {
		DepositHours int    `json:"depositHours"`
		OptionDate   string `json:"optionDate"`
		Token        string `json:"token"`
	} `json:"courtesyHoldOption"`
	Sailing struct {
		DurationDays     int    `json:"durationDays"`
		ItinCode         string `json:"itinCode"`
		SailDate         string `json:"sailDate"`
		SailingEventCode string `json:"sailingEventCode"`
		ShipCode         string `json:"shipCode"`
		SubRegionCode    string `json:"subRegionCode"`
	} `json:"sailing"`
	Staterooms []holdStateroom `json:"staterooms"`
}

type createHoldResponse struct {
	CabinResults []struct {
		BookingNumber string `json:"bookingNumber"`
		BookingResult string `json:"bookingResult"`
	} `json:"cabinResults"`
}

// PlaceHold puts the quoted stateroom on courtesy hold for the guest profile.
// The lead guest carries the profile identity; the others carry prices only.
func (c *Client) PlaceHold(ctx context.Context, req *PlaceHoldRequest) (*PlaceHoldResult, error) {
	if req.Quote == nil || req.Hold == nil || req.Sailing == nil || req.Profile == nil {
		return nil, errors.New("place hold requires quote, hold, sailing and profile")
	}

	apiReq := buildCreateHoldRequest(req)

	af, err := c.antiforgery(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get antiforgery token: %w", err)
	}

	var apiResp createHoldResponse
	if _, err := c.postJSON(ctx, "courtesy_hold", createHoldPath, apiReq, af.header(req.Profile.AuthCookie), &apiResp); err != nil {
		return nil, err
	}
	if len(apiResp.CabinResults) == 0 || apiResp.CabinResults[0].BookingNumber == "" {
		return nil, errors.New("courtesy hold response has no booking number")
	}

	result := &PlaceHoldResult{
		BookingNumber: apiResp.CabinResults[0].BookingNumber,
		Result:        apiResp.CabinResults[0].BookingResult,
	}

	// Loading the confirmation page finalizes the hold on the engine side and
	// triggers the guest email. The hold itself already exists.
	if err := c.loadConfirmation(ctx, result.BookingNumber, af.header(req.Profile.AuthCookie)); err != nil {
		c.logger.Warn("failed to load hold confirmation page",
			zap.String("booking_number", result.BookingNumber),
			zap.Error(err),
		)
	}

	return result, nil
}

func buildCreateHoldRequest(req *PlaceHoldRequest) *createHoldRequest {
	var apiReq createHoldRequest
	apiReq.CourtesyHoldOption.DepositHours = req.Hold.DepositHours
	apiReq.CourtesyHoldOption.OptionDate = req.Quote.OptionDate
	apiReq.CourtesyHoldOption.Token = req.Hold.Token

	apiReq.Sailing.DurationDays = req.Sailing.Duration
	apiReq.Sailing.ItinCode = req.Sailing.ItineraryCode
	apiReq.Sailing.SailDate = req.Sailing.SailingDate
	apiReq.Sailing.ShipCode = req.Sailing.ShipCode
	apiReq.Sailing.SubRegionCode = req.Sailing.DestinationCode

	profile := req.Profile
	guests := make([]holdGuest, len(req.Quote.GuestPrices))
	for i, p := range req.Quote.GuestPrices {
		g := holdGuest{
			CountryCode:             profile.CountryCode,
			CruiseAmount:            p.CruiseAmount,
			GratuityAmount:          p.GratuityAmount,
			InsuranceAmount:         p.InsuranceAmount,
			TaxAmount:               p.TaxesAmount,
			SpecialServicesSelected: []string{},
		}
		if i == 0 {
			g.DobDay = profile.DobDay
			g.DobMonth = profile.DobMonth
			g.DobYear = profile.DobYear
			g.EmailAddress = profile.Email
			g.FirstName = profile.FirstName
			g.LastName = profile.LastName
			g.Gender = profile.Gender
			g.LoyaltyNumber = profile.LoyaltyNumber
			g.PhoneAreaCode = profile.PhoneAreaCode
			g.PhoneCountryCode = profile.PhoneCountryCode
			g.PhoneNumber = profile.PhoneNumber
		}
		guests[i] = g
	}

	stateroom := holdStateroom{
		CategoryCode:         req.Quote.CategoryCode,
		DeckCode:             req.Quote.DeckCode,
		DepositAmount:        req.Quote.DepositAmount,
		FinalPaymentDate:     req.Quote.FinalPaymentDate,
		Guests:               guests,
		IsGratuitiesRequired: req.Quote.IsGratuitiesRequired,
		LocationCode:         req.Quote.LocationCode,
		RateCode:             req.Sailing.RateCode,
		StateroomMetaCode:    req.Sailing.CategoryCode,
		StateroomNumber:      req.Quote.StateroomNumber,
		StateroomTypeCode:    req.Quote.StateroomTypeCode,
		UpgradeCode:          req.Quote.UpgradeCode,
	}
	stateroom.Qualifiers.CountryOfResidency = "US"
	stateroom.Qualifiers.StateOfResidency = req.StateOfResidency
	apiReq.Staterooms = []holdStateroom{stateroom}

	return &apiReq
}

func (c *Client) loadConfirmation(ctx context.Context, bookingNumber string, header http.Header) error {
	q := url.Values{}
	q.Set("t", "ch")
	q.Set("n", "1")
	q.Set("0bk", bookingNumber)
	_, err := c.get(ctx, "confirmation", confirmationPath, q, header)
	return err
}
