package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/capitalize-ai/cruise-concierge/internal/cruise"
	"github.com/capitalize-ai/cruise-concierge/internal/estimate"
	"github.com/capitalize-ai/cruise-concierge/internal/model"
	"github.com/capitalize-ai/cruise-concierge/pkg/logger"
)

type mockSearcher struct{ mock.Mock }

func (m *mockSearcher) Search(ctx context.Context, req *cruise.SearchRequest) (*cruise.SearchResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*cruise.SearchResponse)
	return resp, args.Error(1)
}

type mockPricer struct{ mock.Mock }

func (m *mockPricer) Quote(ctx context.Context, req *cruise.PriceRequest) (*model.PriceQuote, error) {
	args := m.Called(ctx, req)
	quote, _ := args.Get(0).(*model.PriceQuote)
	return quote, args.Error(1)
}

type mockHolds struct{ mock.Mock }

func (m *mockHolds) CheckAvailability(ctx context.Context, req *cruise.HoldAvailabilityRequest) (*model.HoldAvailability, error) {
	args := m.Called(ctx, req)
	hold, _ := args.Get(0).(*model.HoldAvailability)
	return hold, args.Error(1)
}

func (m *mockHolds) PlaceHold(ctx context.Context, req *cruise.PlaceHoldRequest) (*cruise.PlaceHoldResult, error) {
	args := m.Called(ctx, req)
	result, _ := args.Get(0).(*cruise.PlaceHoldResult)
	return result, args.Error(1)
}

type mockProfiles struct{ mock.Mock }

func (m *mockProfiles) CreateProfile(ctx context.Context, req *cruise.ProfileRequest) (*model.GuestProfile, error) {
	args := m.Called(ctx, req)
	profile, _ := args.Get(0).(*model.GuestProfile)
	return profile, args.Error(1)
}

type mockEstimates struct{ mock.Mock }

func (m *mockEstimates) Estimate(ctx context.Context, addr estimate.Address) (float64, error) {
	args := m.Called(ctx, addr)
	return args.Get(0).(float64), args.Error(1)
}

type mockDeals struct{ mock.Mock }

func (m *mockDeals) Deals(ctx context.Context) ([]model.Deal, error) {
	args := m.Called(ctx)
	deals, _ := args.Get(0).([]model.Deal)
	return deals, args.Error(1)
}

type fixture struct {
	svc       *Service
	searcher  *mockSearcher
	pricer    *mockPricer
	holds     *mockHolds
	profiles  *mockProfiles
	estimates *mockEstimates
	deals     *mockDeals
}

var testGuest = Guest{
	FirstName:        "Jane",
	LastName:         "Doe",
	Street:           "1 Ocean Drive",
	Zip:              "33139",
	State:            "FL",
	EmailDomain:      "example.com",
	DefaultPartySize: 2,
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		searcher:  &mockSearcher{},
		pricer:    &mockPricer{},
		holds:     &mockHolds{},
		profiles:  &mockProfiles{},
		estimates: &mockEstimates{},
		deals:     &mockDeals{},
	}
	f.svc = NewService(Deps{
		Searcher:    f.searcher,
		Pricer:      f.pricer,
		HoldChecker: f.holds,
		HoldPlacer:  f.holds,
		Profiles:    f.profiles,
		Estimates:   f.estimates,
		Deals:       f.deals,
	}, testGuest, logger.NewNop())
	f.svc.now = func() time.Time { return time.UnixMilli(1700000000000) }

	t.Cleanup(func() {
		f.searcher.AssertExpectations(t)
		f.pricer.AssertExpectations(t)
		f.holds.AssertExpectations(t)
		f.profiles.AssertExpectations(t)
		f.estimates.AssertExpectations(t)
		f.deals.AssertExpectations(t)
	})
	return f
}

func candidate(id string, price float64) model.SailingCandidate {
	return model.SailingCandidate{
		ItineraryCode:     "BAD",
		ItineraryName:     "4 days from Miami to Bahamas in an ocean view stateroom for $399 on November 26, 2018",
		SailingDate:       "2018-11-26T00:00:00",
		Duration:          4,
		SailingID:         id,
		CategoryCode:      "OS",
		RateCode:          "PSI",
		DestinationCode:   "BH",
		DestinationName:   "Bahamas",
		ShipCode:          "VI",
		Price:             price,
		DeparturePortName: "Miami, FL",
	}
}

func testQuote() *model.PriceQuote {
	return &model.PriceQuote{
		CategoryCode:      "OS",
		RateCode:          "PSI",
		StateroomNumber:   "GTY",
		StateroomTypeCode: "4J",
		OptionDate:        "2018-10-01T00:00:00",
		GuestPrices: []model.GuestPrice{
			{CruiseAmount: 300, TaxesAmount: 50.25, TotalAmount: 350.25},
			{CruiseAmount: 300, TaxesAmount: 50.5, TotalAmount: 350.5},
		},
	}
}
