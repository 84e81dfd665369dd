package booking

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/capitalize-ai/cruise-concierge/internal/cruise"
	"github.com/capitalize-ai/cruise-concierge/internal/model"
)

const emptySearchPrompt = "You seem to not be destined for fun! Please start over."

// BookACruise searches for sailings in the category recommended for the guest
// and asks the user to pick one. No match returns ErrEmptySearchResult.
func (s *Service) BookACruise(ctx context.Context, sess model.Session, args Arguments) (model.Session, Reply, error) {
	estimateValue, err := s.deps.Estimates.Estimate(ctx, s.guest.address())
	if err != nil {
		return sess, Reply{}, downstream("estimate", err)
	}
	category := Recommend(estimateValue)

	req := &cruise.SearchRequest{
		Destination:      args.String(ArgDestination),
		EmbarkationPort:  args.String(ArgEmbarkationPort),
		DateRange:        args.String(ArgDateRange),
		PassThroughPorts: args.Strings(ArgPassThroughPorts),
		Ship:             args.String(ArgShip),
		RateCodes:        args.Strings(ArgRateCodes),
	}
	if req.EmbarkationPort == "" {
		req.EmbarkationPort = s.guest.EmbarkationPort
	}
	if len(req.RateCodes) == 0 {
		req.RateCodes = sess.RateCodes
	}
	if n, ok := args.Int(ArgNumberOfGuests); ok && n > 0 {
		req.NumberOfGuests = n
	}

	resp, err := s.deps.Searcher.Search(ctx, req)
	if err != nil {
		return sess, Reply{}, downstream("search", err)
	}

	candidates, err := Flatten(Reduce(resp, category))
	if err != nil {
		return sess, Reply{}, err
	}

	s.logger.Info("cruise search completed",
		zap.String("session_id", sess.ID),
		zap.String("category", string(category)),
		zap.Int("candidates", len(candidates)),
	)

	next := sess
	next.Candidates = candidates
	next.NumberOfGuests = req.NumberOfGuests
	if next.NumberOfGuests == 0 {
		next.NumberOfGuests = s.guest.DefaultPartySize
	}
	next.RateCodes = req.RateCodes
	next.Selected, next.Quote, next.Hold = nil, nil, nil

	switch len(candidates) {
	case 0:
		return sess, Reply{}, fmt.Errorf("%w: category %s", ErrEmptySearchResult, category)
	case 1:
		next.Marker = model.MarkerProceedWithSailing
		return next, ask(fmt.Sprintf(
			"We have found 1 great sailing, %s. Would you like to proceed with it?",
			candidates[0].ItineraryName,
		)), nil
	default:
		next.Marker = model.MarkerPickASailing
		return next, ask(listPrompt(
			fmt.Sprintf("We have found %d great sailings.", len(candidates)),
			candidateNames(candidates),
		)), nil
	}
}

func candidateNames(candidates []model.SailingCandidate) []string {
	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.ItineraryName
	}
	return names
}

// listPrompt enumerates items as "Number 1: ..." after the lead sentence.
func listPrompt(lead string, items []string) string {
	var b strings.Builder
	b.WriteString(lead)
	for i, item := range items {
		fmt.Fprintf(&b, " Number %d: %s.", i+1, item)
	}
	b.WriteString(" What choice did you like?")
	return b.String()
}
