package booking

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/capitalize-ai/cruise-concierge/internal/cruise"
	"github.com/capitalize-ai/cruise-concierge/internal/model"
)

const (
	pickRangePrompt   = "What choice do you want? For example, you can say: Number 2"
	proceedNoPrompt   = "Oops, you broke my heart. Please start again."
	proceedAskPrompt  = "Would you like to proceed with this sailing? Please say yes or no."
	holdRank          = 100
	holdCabins        = 1
	dateOfBirthFormat = "Great! So I have you down for: %s. %s, we can hold your stateroom for %d hours. " +
		"I'll just need a bit more information. What's your date of birth?"
)

// PickASailing selects a candidate by its 1-based ordinal. An ordinal outside
// the candidate list re-prompts without changing the session.
func (s *Service) PickASailing(ctx context.Context, sess model.Session, args Arguments) (model.Session, Reply, error) {
	if len(sess.Candidates) == 0 {
		return sess, Reply{}, fmt.Errorf("%w: no sailing candidates", ErrMissingState)
	}

	n, ok := args.Int(ArgNumber)
	if !ok || n < 1 || n > len(sess.Candidates) {
		return sess, ask(pickRangePrompt), nil
	}
	return s.selectSailing(ctx, sess, sess.Candidates[n-1])
}

// ProceedWithSailing confirms or declines the single candidate found.
func (s *Service) ProceedWithSailing(ctx context.Context, sess model.Session, args Arguments) (model.Session, Reply, error) {
	if len(sess.Candidates) == 0 {
		return sess, Reply{}, fmt.Errorf("%w: no sailing candidates", ErrMissingState)
	}

	switch answer, known := parseYesNo(args.String(ArgYesNo)); {
	case !known:
		return sess, ask(proceedAskPrompt), nil
	case !answer:
		next := sess
		next.Marker = model.MarkerNone
		return next, tell(proceedNoPrompt), nil
	default:
		return s.selectSailing(ctx, sess, sess.Candidates[0])
	}
}

func parseYesNo(v string) (answer, known bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "y", "yeah", "yep", "sure", "ok", "okay", "true":
		return true, true
	case "no", "n", "nope", "nah", "false":
		return false, true
	default:
		return false, false
	}
}

// selectSailing quotes the candidate and checks that it can be held. Nothing
// is written to the session unless the hold is available.
func (s *Service) selectSailing(ctx context.Context, sess model.Session, candidate model.SailingCandidate) (model.Session, Reply, error) {
	category, err := ParseCategory(candidate.CategoryCode)
	if err != nil {
		return sess, Reply{}, err
	}

	quote, err := s.deps.Pricer.Quote(ctx, &cruise.PriceRequest{
		NumberOfGuests:   sess.NumberOfGuests,
		Duration:         candidate.Duration,
		SailDate:         candidate.SailingDate,
		SailingID:        candidate.SailingID,
		ShipCode:         candidate.ShipCode,
		MetaCode:         candidate.CategoryCode,
		StateOfResidency: s.guest.State,
	})
	if err != nil {
		return sess, Reply{}, downstream("price quote", err)
	}

	hold, err := s.deps.HoldChecker.CheckAvailability(ctx, &cruise.HoldAvailabilityRequest{
		OptionDate:        quote.OptionDate,
		NumberOfCabins:    holdCabins,
		MetaCode:          candidate.CategoryCode,
		ItineraryCode:     candidate.ItineraryCode,
		RateCode:          candidate.RateCode,
		SailingDate:       candidate.SailingDate,
		ShipCode:          candidate.ShipCode,
		StateroomTypeCode: quote.StateroomTypeCode,
		Rank:              holdRank,
	})
	if err != nil {
		return sess, Reply{}, downstream("hold availability", err)
	}
	if !hold.Available {
		return sess, Reply{}, fmt.Errorf("%w: sailing %s category %s", ErrHoldUnavailable, candidate.SailingID, candidate.CategoryCode)
	}

	confirmation, err := FormatItinerary(
		candidate.Duration,
		candidate.DeparturePortName,
		candidate.DestinationName,
		category,
		quote.TotalPrice(),
		true,
		candidate.SailingDate,
	)
	if err != nil {
		return sess, Reply{}, err
	}

	s.logger.Info("sailing selected",
		zap.String("session_id", sess.ID),
		zap.String("sailing_id", candidate.SailingID),
		zap.Int("deposit_hours", hold.DepositHours),
	)

	selected := candidate
	next := sess
	next.Selected = &selected
	next.Quote = quote
	next.Hold = hold
	next.Marker = model.MarkerGetDateOfBirth

	return next, ask(fmt.Sprintf(dateOfBirthFormat, confirmation, s.guest.FirstName, hold.DepositHours)), nil
}
