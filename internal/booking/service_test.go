package booking

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/cruise-concierge/internal/cruise"
	"github.com/capitalize-ai/cruise-concierge/internal/estimate"
	"github.com/capitalize-ai/cruise-concierge/internal/model"
)

func TestBookACruise_MultipleSailings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.estimates.On("Estimate", ctx, estimate.Address{Street: "1 Ocean Drive", Zip: "33139"}).Return(150000.0, nil)
	f.searcher.On("Search", ctx, mock.MatchedBy(func(req *cruise.SearchRequest) bool {
		return req.Destination == "BH" && req.EmbarkationPort == "MIA" && req.NumberOfGuests == 0
	})).Return(searchResponse(
		itinerary("BAD_MIA_VI_4", 4, sailing("S1", "2018-11-26", cruise.Rooms{OceanView: room("OS", 399)})),
		itinerary("BAD_MIA_VI_5", 5,
			sailing("S2", "2018-12-03", cruise.Rooms{OceanView: room("OS", 499)}),
			sailing("S3", "2018-12-10", cruise.Rooms{OceanView: room("OS", 599)}),
		),
	), nil)

	next, reply, err := f.svc.BookACruise(ctx, model.Session{ID: "s1"}, Arguments{ArgDestination: "BH"})
	require.NoError(t, err)

	assert.False(t, reply.Terminal)
	assert.Equal(t, model.MarkerPickASailing, next.Marker)
	require.Len(t, next.Candidates, 3)
	assert.Equal(t, 2, next.NumberOfGuests)
	assert.True(t, strings.HasPrefix(reply.Text, "We have found 3 great sailings."))
	assert.Contains(t, reply.Text, "Number 1: 4 days from Miami")
	assert.Contains(t, reply.Text, "Number 3: 5 days from Miami")
	assert.NotContains(t, reply.Text, "Number 4")
	assert.True(t, strings.HasSuffix(reply.Text, "What choice did you like?"))
}

func TestBookACruise_SingleSailingAsksToProceed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.estimates.On("Estimate", ctx, mock.Anything).Return(50000.0, nil)
	f.searcher.On("Search", ctx, mock.MatchedBy(func(req *cruise.SearchRequest) bool {
		return req.NumberOfGuests == 4 && req.EmbarkationPort == "FLL" &&
			len(req.RateCodes) == 1 && req.RateCodes[0] == "DEAL1"
	})).Return(searchResponse(
		itinerary("BAD_MIA_VI_4", 4, sailing("S1", "2018-11-26", cruise.Rooms{Interior: room("IS", 199)})),
	), nil)

	sess := model.Session{ID: "s1", Marker: model.MarkerBookACruise, RateCodes: []string{"DEAL1"}}
	next, reply, err := f.svc.BookACruise(ctx, sess, Arguments{ArgNumberOfGuests: 4.0, ArgEmbarkationPort: "FLL"})
	require.NoError(t, err)

	assert.Equal(t, model.MarkerProceedWithSailing, next.Marker)
	assert.Equal(t, 4, next.NumberOfGuests)
	assert.Contains(t, reply.Text, "We have found 1 great sailing")
	assert.Contains(t, reply.Text, "Would you like to proceed with it?")
	assert.NotContains(t, reply.Text, "Number 1")
}

func TestBookACruise_NoSailings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.estimates.On("Estimate", ctx, mock.Anything).Return(400000.0, nil)
	f.searcher.On("Search", ctx, mock.Anything).Return(searchResponse(
		itinerary("BAD_MIA_VI_4", 4, sailing("S1", "2018-11-26", cruise.Rooms{Interior: room("IS", 199)})),
	), nil)

	sess := model.Session{ID: "s1"}
	next, _, err := f.svc.BookACruise(ctx, sess, Arguments{})
	assert.ErrorIs(t, err, ErrEmptySearchResult)
	assert.Equal(t, sess, next)
}

func TestBookACruise_DownstreamFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.estimates.On("Estimate", ctx, mock.Anything).Return(0.0, errors.New("timeout"))

	_, _, err := f.svc.BookACruise(ctx, model.Session{ID: "s1"}, Arguments{})
	assert.ErrorIs(t, err, ErrDownstream)
}

func TestPickASailing_OutOfRangeReprompts(t *testing.T) {
	f := newFixture(t)
	sess := model.Session{
		ID:         "s1",
		Marker:     model.MarkerPickASailing,
		Candidates: []model.SailingCandidate{candidate("S1", 399), candidate("S2", 499)},
	}

	for _, n := range []any{0.0, 3.0, "x", nil} {
		next, reply, err := f.svc.PickASailing(context.Background(), sess, Arguments{ArgNumber: n})
		require.NoError(t, err)
		assert.Equal(t, sess, next)
		assert.False(t, reply.Terminal)
		assert.Equal(t, pickRangePrompt, reply.Text)
	}
}

func TestPickASailing_QuotesAndChecksHold(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := model.Session{
		ID:             "s1",
		Marker:         model.MarkerPickASailing,
		NumberOfGuests: 2,
		Candidates:     []model.SailingCandidate{candidate("S1", 399), candidate("S2", 499)},
	}

	f.pricer.On("Quote", ctx, &cruise.PriceRequest{
		NumberOfGuests:   2,
		Duration:         4,
		SailDate:         "2018-11-26T00:00:00",
		SailingID:        "S2",
		ShipCode:         "VI",
		MetaCode:         "OS",
		StateOfResidency: "FL",
	}).Return(testQuote(), nil)
	f.holds.On("CheckAvailability", ctx, &cruise.HoldAvailabilityRequest{
		OptionDate:        "2018-10-01T00:00:00",
		NumberOfCabins:    1,
		MetaCode:          "OS",
		ItineraryCode:     "BAD",
		RateCode:          "PSI",
		SailingDate:       "2018-11-26T00:00:00",
		ShipCode:          "VI",
		StateroomTypeCode: "4J",
		Rank:              100,
	}).Return(&model.HoldAvailability{DepositHours: 48, Available: true, Token: "tok"}, nil)

	next, reply, err := f.svc.PickASailing(ctx, sess, Arguments{ArgNumber: 2.0})
	require.NoError(t, err)

	assert.Equal(t, model.MarkerGetDateOfBirth, next.Marker)
	require.NotNil(t, next.Selected)
	assert.Equal(t, "S2", next.Selected.SailingID)
	assert.Equal(t, 700.75, next.Quote.TotalPrice())
	assert.Equal(t, 48, next.Hold.DepositHours)
	assert.Equal(t,
		"Great! So I have you down for: 4 days from Miami to Bahamas in an ocean view stateroom for $700.75 including taxes on November 26, 2018. "+
			"Jane, we can hold your stateroom for 48 hours. I'll just need a bit more information. What's your date of birth?",
		reply.Text)
	assert.Nil(t, sess.Selected)
}

func TestPickASailing_HoldUnavailableWritesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := model.Session{
		ID:         "s1",
		Marker:     model.MarkerPickASailing,
		Candidates: []model.SailingCandidate{candidate("S1", 399)},
	}

	f.pricer.On("Quote", ctx, mock.Anything).Return(testQuote(), nil)
	f.holds.On("CheckAvailability", ctx, mock.Anything).Return(&model.HoldAvailability{Available: false}, nil)

	next, _, err := f.svc.PickASailing(ctx, sess, Arguments{ArgNumber: 1.0})
	assert.ErrorIs(t, err, ErrHoldUnavailable)
	assert.Nil(t, next.Quote)
	assert.Nil(t, next.Hold)
	assert.Nil(t, next.Selected)
	assert.Equal(t, model.MarkerPickASailing, next.Marker)
}

func TestProceedWithSailing(t *testing.T) {
	sess := model.Session{
		ID:         "s1",
		Marker:     model.MarkerProceedWithSailing,
		Candidates: []model.SailingCandidate{candidate("S1", 399)},
	}

	t.Run("no ends the conversation", func(t *testing.T) {
		f := newFixture(t)
		next, reply, err := f.svc.ProceedWithSailing(context.Background(), sess, Arguments{ArgYesNo: "No"})
		require.NoError(t, err)
		assert.True(t, reply.Terminal)
		assert.Equal(t, proceedNoPrompt, reply.Text)
		assert.Equal(t, model.MarkerNone, next.Marker)
	})

	t.Run("unclear answer re-asks", func(t *testing.T) {
		f := newFixture(t)
		next, reply, err := f.svc.ProceedWithSailing(context.Background(), sess, Arguments{ArgYesNo: "maybe"})
		require.NoError(t, err)
		assert.False(t, reply.Terminal)
		assert.Equal(t, sess, next)
	})

	t.Run("yes selects the first candidate", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		f.pricer.On("Quote", ctx, mock.MatchedBy(func(req *cruise.PriceRequest) bool {
			return req.SailingID == "S1"
		})).Return(testQuote(), nil)
		f.holds.On("CheckAvailability", ctx, mock.Anything).Return(&model.HoldAvailability{DepositHours: 24, Available: true}, nil)

		next, reply, err := f.svc.ProceedWithSailing(ctx, sess, Arguments{ArgYesNo: "yes"})
		require.NoError(t, err)
		assert.Equal(t, model.MarkerGetDateOfBirth, next.Marker)
		assert.Contains(t, reply.Text, "24 hours")
	})
}

func TestGetDateOfBirth(t *testing.T) {
	f := newFixture(t)
	sess := model.Session{ID: "s1", Marker: model.MarkerGetDateOfBirth}

	next, reply, err := f.svc.GetDateOfBirth(context.Background(), sess, Arguments{})
	require.NoError(t, err)
	assert.Equal(t, sess, next)
	assert.Equal(t, dateOfBirthPrompt, reply.Text)

	next, reply, err = f.svc.GetDateOfBirth(context.Background(), sess, Arguments{ArgDate: "1980-05-17"})
	require.NoError(t, err)
	assert.Equal(t, "1980-05-17", next.DateOfBirth)
	assert.Equal(t, model.MarkerGetPhoneNumber, next.Marker)
	assert.Equal(t, phonePrompt, reply.Text)
}

func quotedSession() model.Session {
	selected := candidate("S1", 399)
	return model.Session{
		ID:          "s1",
		Marker:      model.MarkerGetPhoneNumber,
		Candidates:  []model.SailingCandidate{selected},
		Selected:    &selected,
		Quote:       testQuote(),
		Hold:        &model.HoldAvailability{DepositHours: 72, Available: true, Token: "tok"},
		DateOfBirth: "1980-05-17",
	}
}

func TestGetPhoneNumber_PlacesHold(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := quotedSession()
	profile := &model.GuestProfile{FirstName: "Jane", LoyaltyNumber: "123", AuthCookie: "auth"}

	f.profiles.On("CreateProfile", ctx, &cruise.ProfileRequest{
		FirstName:          "Jane",
		LastName:           "Doe",
		Email:              "jane.doe+1700000000000@example.com",
		Gender:             "M",
		DateOfBirth:        "1980-05-17",
		PhoneNumber:        "3055551234",
		CountryOfResidency: "US",
	}).Return(profile, nil)
	f.holds.On("PlaceHold", ctx, &cruise.PlaceHoldRequest{
		Quote:            sess.Quote,
		Hold:             sess.Hold,
		Sailing:          sess.Selected,
		Profile:          profile,
		StateOfResidency: "FL",
	}).Return(&cruise.PlaceHoldResult{BookingNumber: "A1B2C", Result: "Success"}, nil)

	next, reply, err := f.svc.GetPhoneNumber(ctx, sess, Arguments{ArgPhoneNumber: "(305) 555-1234"})
	require.NoError(t, err)

	assert.True(t, reply.Terminal)
	assert.Equal(t, "Alright, we have put a hold on your cabin for 72 hours. Your booking number is A 1 B 2 C. "+
		"You will receive an email shortly with more details.", reply.Text)
	assert.Equal(t, "A1B2C", next.BookingNumber)
	assert.Equal(t, "3055551234", next.Phone)
	assert.Equal(t, model.MarkerNone, next.Marker)
}

func TestGetPhoneNumber_ShortNumberUsesFallback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.profiles.On("CreateProfile", ctx, mock.MatchedBy(func(req *cruise.ProfileRequest) bool {
		return req.PhoneNumber == "3055595135"
	})).Return(&model.GuestProfile{}, nil)
	f.holds.On("PlaceHold", ctx, mock.Anything).Return(&cruise.PlaceHoldResult{BookingNumber: "9"}, nil)

	next, _, err := f.svc.GetPhoneNumber(ctx, quotedSession(), Arguments{ArgPhoneNumber: "555"})
	require.NoError(t, err)
	assert.Equal(t, "3055595135", next.Phone)
}

func TestGetPhoneNumber_ProfileFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := quotedSession()

	f.profiles.On("CreateProfile", ctx, mock.Anything).Return(nil, errors.New("bad gateway"))

	next, _, err := f.svc.GetPhoneNumber(ctx, sess, Arguments{ArgPhoneNumber: "3055551234"})
	assert.ErrorIs(t, err, ErrDownstream)
	assert.Equal(t, sess, next)
}

func TestGetPhoneNumber_MissingQuote(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.svc.GetPhoneNumber(context.Background(), model.Session{ID: "s1", DateOfBirth: "1980-01-01"}, Arguments{})
	assert.ErrorIs(t, err, ErrMissingState)
}

func TestSpellDigits(t *testing.T) {
	assert.Equal(t, "1 2 3 4", spellDigits("1234"))
	assert.Equal(t, "", spellDigits(""))
}

func TestCruiseDeals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	deals := []model.Deal{
		{Description: "Kids sail free", RateCodes: []string{"KSF"}},
		{Description: "Fifty percent off second guest", RateCodes: []string{"H50", "H51"}},
	}
	f.deals.On("Deals", ctx).Return(deals, nil)

	next, reply, err := f.svc.FindCruiseDeals(ctx, model.Session{ID: "s1"}, Arguments{})
	require.NoError(t, err)
	assert.Equal(t, model.MarkerPickCruiseDeal, next.Marker)
	assert.Equal(t, "We found 2 great deals for you. Number 1: Kids sail free. Number 2: Fifty percent off second guest. "+
		"What choice did you like?", reply.Text)

	same, reply, err := f.svc.PickCruiseDeal(ctx, next, Arguments{ArgNumber: 3.0})
	require.NoError(t, err)
	assert.Equal(t, next, same)
	assert.Equal(t, pickDealPrompt, reply.Text)

	picked, reply, err := f.svc.PickCruiseDeal(ctx, next, Arguments{ArgNumber: 2.0})
	require.NoError(t, err)
	assert.Equal(t, []string{"H50", "H51"}, picked.RateCodes)
	assert.Equal(t, model.MarkerBookACruise, picked.Marker)
	assert.Equal(t, destinationsAsk, reply.Text)
}

func TestFindCruiseDeals_None(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.deals.On("Deals", ctx).Return([]model.Deal{}, nil)

	_, reply, err := f.svc.FindCruiseDeals(ctx, model.Session{ID: "s1"}, Arguments{})
	require.NoError(t, err)
	assert.True(t, reply.Terminal)
	assert.Equal(t, noDealsPrompt, reply.Text)
}
