package cruise

import (
	"context"
	"errors"
	"fmt"

	"github.com/capitalize-ai/cruise-concierge/internal/model"
)

const (
	metaPricePath = "/cruisepricing/api/cruisepricing/meta"
	bookingPath   = "/cruisepricing/api/cruisepricing/booking"
)

// ErrCategoryNotPriced is returned when the pricing service has no price for the requested category.
var ErrCategoryNotPriced = errors.New("category not priced")

// PriceRequest asks for a quote on one stateroom category of a sailing.
type PriceRequest struct {
	NumberOfGuests   int
	Duration         int
	SailDate         string
	SailingID        string
	ShipCode         string
	MetaCode         string
	StateOfResidency string
}

type cabinQualifiers struct {
	CountryCode      string `json:"countryCode,omitempty"`
	IsMilitary       bool   `json:"isMilitary"`
	IsPastGuest      bool   `json:"isPastGuest"`
	IsSenior         bool   `json:"isSenior"`
	NumberOfGuests   int    `json:"numberOfGuests"`
	PastGuestNumber  string `json:"pastGuestNumber"`
	StateOfResidency string `json:"stateOfResidency"`
}

type metaPriceRequest struct {
	CabinQualifiers []cabinQualifiers `json:"cabinQualifiers"`
	DurationDays    int               `json:"durationDays"`
	SailDate        string            `json:"sailDate"`
	SailingID       string            `json:"sailingId"`
	ShipCode        string            `json:"shipCode"`
}

type metaPriceResponse struct {
	MetaPrices []struct {
		Code                string               `json:"code"`
		StateroomTypePrices []stateroomTypePrice `json:"stateroomTypePrices"`
	} `json:"metaPrices"`
}

type stateroomTypePrice struct {
	Code         string  `json:"code"`
	IsGtee       bool    `json:"isGtee"`
	MetaCode     string  `json:"metaCode"`
	Price        float64 `json:"price"`
	RateCode     string  `json:"rateCode"`
	TaxesAndFees float64 `json:"taxesAndFees"`
}

type bookingSelections struct {
	DeckCode          *string `json:"deckCode"`
	LocationCode      *string `json:"locationCode"`
	MetaCode          string  `json:"metaCode"`
	RateCode          string  `json:"rateCode"`
	RoomNumber        *string `json:"roomNumber"`
	StateroomTypeCode string  `json:"stateroomTypeCode"`
}

type bookingCabinRequest struct {
	Qualifiers cabinQualifiers   `json:"qualifiers"`
	Selections bookingSelections `json:"selections"`
}

type bookingSailing struct {
	DurationDays int    `json:"durationDays"`
	SailDate     string `json:"sailDate"`
	SailingID    string `json:"sailingId"`
	ShipCode     string `json:"shipCode"`
}

type bookingRequest struct {
	CabinHoldAction string                `json:"cabinholdaction"`
	RequestType     string                `json:"requestType"`
	Cabins          []bookingCabinRequest `json:"cabins"`
	Sailing         bookingSailing        `json:"sailing"`
}

type bookingResponse struct {
	Cabins []bookingCabin `json:"cabins"`
}

type bookingCabin struct {
	CourtesyHoldOptionDate string `json:"courtesyHoldOptionDate"`
	Selections             struct {
		CategoryCode           string `json:"categoryCode"`
		DeckCode               string `json:"deckCode"`
		ForcePrepaidGratuities bool   `json:"forcePrepaidGratuities"`
		LocationCode           string `json:"locationCode"`
		MetaCode               string `json:"metaCode"`
		RateCode               string `json:"rateCode"`
		RoomNumber             string `json:"roomNumber"`
		StateroomTypeCode      string `json:"stateroomTypeCode"`
		UpgradeCode            string `json:"upgradeCode"`
		Totals                 struct {
			DepositAmount    float64 `json:"depositAmount"`
			FinalPaymentDate string  `json:"finalPaymentDate"`
			TotalCabinAmount float64 `json:"totalCabinAmount"`
			GuestPrices      []struct {
				CruiseAmount    float64 `json:"cruiseAmount"`
				GratuityAmount  float64 `json:"gratuityAmount"`
				InsuranceAmount float64 `json:"insuranceAmount"`
				TaxesAmount     float64 `json:"taxesAmount"`
				TotalAmount     float64 `json:"totalAmount"`
			} `json:"guestPrices"`
		} `json:"totals"`
	} `json:"selections"`
}

// Quote prices the category and places a temporary cabin hold on the
// lowest-priced stateroom type in it. The hold response becomes the quote.
func (c *Client) Quote(ctx context.Context, req *PriceRequest) (*model.PriceQuote, error) {
	lowest, err := c.lowestPrice(ctx, req)
	if err != nil {
		return nil, err
	}
	return c.holdCabin(ctx, req, lowest)
}

func (c *Client) lowestPrice(ctx context.Context, req *PriceRequest) (*stateroomTypePrice, error) {
	sailDate, err := engineDate(req.SailDate, "01022006")
	if err != nil {
		return nil, err
	}

	apiReq := metaPriceRequest{
		CabinQualifiers: []cabinQualifiers{{
			NumberOfGuests:   req.NumberOfGuests,
			StateOfResidency: req.StateOfResidency,
		}},
		DurationDays: req.Duration,
		SailDate:     sailDate,
		SailingID:    req.SailingID,
		ShipCode:     req.ShipCode,
	}

	var apiResp metaPriceResponse
	if _, err := c.postJSON(ctx, "meta_price", metaPricePath, apiReq, nil, &apiResp); err != nil {
		return nil, err
	}

	var lowest *stateroomTypePrice
	for _, mp := range apiResp.MetaPrices {
		if mp.Code != req.MetaCode {
			continue
		}
		for i := range mp.StateroomTypePrices {
			p := &mp.StateroomTypePrices[i]
			if lowest == nil || p.Price < lowest.Price {
				lowest = p
			}
		}
		break
	}
	if lowest == nil {
		return nil, fmt.Errorf("%w: %s on sailing %s", ErrCategoryNotPriced, req.MetaCode, req.SailingID)
	}
	return lowest, nil
}

func (c *Client) holdCabin(ctx context.Context, req *PriceRequest, price *stateroomTypePrice) (*model.PriceQuote, error) {
	sailDate, err := engineDate(req.SailDate, "01-02-2006")
	if err != nil {
		return nil, err
	}

	apiReq := bookingRequest{
		CabinHoldAction: "hold",
		RequestType:     "FullBookingWithAlternatives",
		Cabins: []bookingCabinRequest{{
			Qualifiers: cabinQualifiers{
				CountryCode:      "US",
				NumberOfGuests:   req.NumberOfGuests,
				StateOfResidency: req.StateOfResidency,
			},
			Selections: bookingSelections{
				MetaCode:          req.MetaCode,
				RateCode:          price.RateCode,
				StateroomTypeCode: price.Code,
			},
		}},
		Sailing: bookingSailing{
			DurationDays: req.Duration,
			SailDate:     sailDate,
			SailingID:    req.SailingID,
			ShipCode:     req.ShipCode,
		},
	}

	var apiResp bookingResponse
	if _, err := c.postJSON(ctx, "booking", bookingPath, apiReq, nil, &apiResp); err != nil {
		return nil, err
	}
	if len(apiResp.Cabins) == 0 {
		return nil, fmt.Errorf("booking response for sailing %s has no cabins", req.SailingID)
	}

	cabin := apiResp.Cabins[0]
	sel := cabin.Selections
	quote := &model.PriceQuote{
		DeckCode:             sel.DeckCode,
		LocationCode:         sel.LocationCode,
		CategoryCode:         sel.CategoryCode,
		UpgradeCode:          sel.UpgradeCode,
		RateCode:             sel.RateCode,
		DepositAmount:        sel.Totals.DepositAmount,
		FinalPaymentAmount:   sel.Totals.TotalCabinAmount - sel.Totals.DepositAmount,
		FinalPaymentDate:     sel.Totals.FinalPaymentDate,
		IsGratuitiesRequired: sel.ForcePrepaidGratuities,
		StateroomNumber:      sel.RoomNumber,
		StateroomTypeCode:    sel.StateroomTypeCode,
		OptionDate:           cabin.CourtesyHoldOptionDate,
		GuestPrices:          make([]model.GuestPrice, len(sel.Totals.GuestPrices)),
	}
	if quote.StateroomTypeCode == "" {
		quote.StateroomTypeCode = price.Code
	}
	if quote.RateCode == "" {
		quote.RateCode = price.RateCode
	}
	for i, g := range sel.Totals.GuestPrices {
		quote.GuestPrices[i] = model.GuestPrice{
			CruiseAmount:    g.CruiseAmount,
			GratuityAmount:  g.GratuityAmount,
			InsuranceAmount: g.InsuranceAmount,
			TaxesAmount:     g.TaxesAmount,
			TotalAmount:     g.TotalAmount,
		}
	}
	return quote, nil
}
