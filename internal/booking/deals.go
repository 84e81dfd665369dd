package booking

import (
	"context"
	"fmt"

	"github.com/capitalize-ai/cruise-concierge/internal/model"
)

const (
	noDealsPrompt   = "Sorry, there are no cruise deals right now. Please try again later."
	pickDealPrompt  = "Which deal do you want? For example, you can say: Number 1"
	destinationsAsk = "Great choice, we have great destinations like Bahamas, Caribbean, Mexico, Alaska, Hawaii, " +
		"Bermuda, Canada, New England and Panama Canal. Where would you like to visit?"
)

// FindCruiseDeals lists the current promotions.
func (s *Service) FindCruiseDeals(ctx context.Context, sess model.Session, _ Arguments) (model.Session, Reply, error) {
	deals, err := s.deps.Deals.Deals(ctx)
	if err != nil {
		return sess, Reply{}, downstream("deals", err)
	}

	next := sess
	next.Deals = deals
	if len(deals) == 0 {
		next.Marker = model.MarkerNone
		return next, tell(noDealsPrompt), nil
	}

	descriptions := make([]string, len(deals))
	for i, d := range deals {
		descriptions[i] = d.Description
	}
	next.Marker = model.MarkerPickCruiseDeal
	return next, ask(listPrompt(fmt.Sprintf("We found %d great deals for you.", len(deals)), descriptions)), nil
}

// PickCruiseDeal restricts later searches to the chosen deal's rate codes and
// asks where the user wants to go.
func (s *Service) PickCruiseDeal(_ context.Context, sess model.Session, args Arguments) (model.Session, Reply, error) {
	if len(sess.Deals) == 0 {
		return sess, Reply{}, fmt.Errorf("%w: no deals listed", ErrMissingState)
	}

	n, ok := args.Int(ArgNumber)
	if !ok || n < 1 || n > len(sess.Deals) {
		return sess, ask(pickDealPrompt), nil
	}

	next := sess
	next.RateCodes = append([]string(nil), sess.Deals[n-1].RateCodes...)
	next.Marker = model.MarkerBookACruise
	return next, ask(destinationsAsk), nil
}
