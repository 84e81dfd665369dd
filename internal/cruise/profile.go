package cruise

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/capitalize-ai/cruise-concierge/internal/model"
)

const (
	createProfilePath = "/payment/bookings/guest/create"
	authCookieName    = ".ASPXAUTH"
)

// ProfileRequest holds the identity for a new guest profile.
type ProfileRequest struct {
	FirstName          string
	LastName           string
	Email              string
	Gender             string
	DateOfBirth        string // YYYY-MM-DD
	PhoneNumber        string // 10 digits
	CountryOfResidency string
}

type createProfileRequest struct {
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	Email              string `json:"email"`
	DobYear            int    `json:"dobYear"`
	DobMonth           int    `json:"dobMonth"`
	DobDay             int    `json:"dobDay"`
	CountryOfResidency string `json:"countryOfResidency"`
	AcceptOffers       bool   `json:"acceptOffers"`
	Gender             string `json:"gender"`
	PhoneCountryCode   string `json:"phoneCountryCode"`
	PhoneAreaCode      string `json:"phoneAreaCode"`
	PhoneNumber        string `json:"phoneNumber"`
}

// CreateProfile creates a guest profile and returns it with its auth cookie.
func (c *Client) CreateProfile(ctx context.Context, req *ProfileRequest) (*model.GuestProfile, error) {
	year, month, day, err := splitDate(req.DateOfBirth)
	if err != nil {
		return nil, err
	}
	if len(req.PhoneNumber) != 10 {
		return nil, fmt.Errorf("phone number %q must have 10 digits", req.PhoneNumber)
	}

	country := req.CountryOfResidency
	if country == "" {
		country = "US"
	}

	apiReq := createProfileRequest{
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Email:              req.Email,
		DobYear:            year,
		DobMonth:           month,
		DobDay:             day,
		CountryOfResidency: country,
		Gender:             req.Gender,
		PhoneCountryCode:   "1",
		PhoneAreaCode:      req.PhoneNumber[:3],
		PhoneNumber:        req.PhoneNumber[3:],
	}

	af, err := c.antiforgery(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get antiforgery token: %w", err)
	}

	var apiResp struct {
		LoyaltyNumber string `json:"loyaltyNumber"`
	}
	resp, err := c.postJSON(ctx, "profile", createProfilePath, apiReq, af.header(), &apiResp)
	if err != nil {
		return nil, err
	}

	var authCookie string
	for _, cookie := range resp.cookies {
		if cookie.Name == authCookieName {
			authCookie = cookie.Name + "=" + cookie.Value
			break
		}
	}
	if authCookie == "" {
		return nil, errors.New("profile response did not set an auth cookie")
	}

	return &model.GuestProfile{
		FirstName:        apiReq.FirstName,
		LastName:         apiReq.LastName,
		Email:            apiReq.Email,
		Gender:           apiReq.Gender,
		CountryCode:      apiReq.CountryOfResidency,
		DobDay:           apiReq.DobDay,
		DobMonth:         apiReq.DobMonth,
		DobYear:          apiReq.DobYear,
		PhoneCountryCode: apiReq.PhoneCountryCode,
		PhoneAreaCode:    apiReq.PhoneAreaCode,
		PhoneNumber:      apiReq.PhoneNumber,
		LoyaltyNumber:    apiResp.LoyaltyNumber,
		AuthCookie:       authCookie,
	}, nil
}

func splitDate(date string) (int, int, int, error) {
	day := strings.TrimSpace(date)
	if i := strings.IndexByte(day, 'T'); i > 0 {
		day = day[:i]
	}
	parts := strings.Split(day, "-")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid date of birth %q", date)
	}
	values := make([]int, 3)
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("invalid date of birth %q: %w", date, err)
		}
		values[i] = v
	}
	return values[0], values[1], values[2], nil
}
