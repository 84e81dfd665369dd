package booking

import (
	"context"
	"time"

	"github.com/capitalize-ai/cruise-concierge/internal/cruise"
	"github.com/capitalize-ai/cruise-concierge/internal/estimate"
	"github.com/capitalize-ai/cruise-concierge/internal/model"
	"github.com/capitalize-ai/cruise-concierge/pkg/logger"
)

// Searcher runs cruise searches.
type Searcher interface {
	Search(ctx context.Context, req *cruise.SearchRequest) (*cruise.SearchResponse, error)
}

// Pricer quotes a stateroom category on a sailing.
type Pricer interface {
	Quote(ctx context.Context, req *cruise.PriceRequest) (*model.PriceQuote, error)
}

// HoldChecker asks whether a stateroom can be put on courtesy hold.
type HoldChecker interface {
	CheckAvailability(ctx context.Context, req *cruise.HoldAvailabilityRequest) (*model.HoldAvailability, error)
}

// HoldPlacer places a courtesy hold for a guest.
type HoldPlacer interface {
	PlaceHold(ctx context.Context, req *cruise.PlaceHoldRequest) (*cruise.PlaceHoldResult, error)
}

// EstimateSource returns the property estimate that drives the category recommendation.
type EstimateSource = estimate.Source

// ProfileCreator creates guest profiles.
type ProfileCreator interface {
	CreateProfile(ctx context.Context, req *cruise.ProfileRequest) (*model.GuestProfile, error)
}

// DealSource lists current promotions.
type DealSource interface {
	Deals(ctx context.Context) ([]model.Deal, error)
}

// Deps are the external collaborators of the booking dialog.
type Deps struct {
	Searcher    Searcher
	Pricer      Pricer
	HoldChecker HoldChecker
	HoldPlacer  HoldPlacer
	Profiles    ProfileCreator
	Estimates   EstimateSource
	Deals       DealSource
}

// Guest holds the fixed identity used for every booking.
type Guest struct {
	FirstName        string
	LastName         string
	Gender           string
	Street           string
	Zip              string
	State            string
	EmailDomain      string
	FallbackPhone    string
	EmbarkationPort  string
	DefaultPartySize int
}

func (g Guest) address() estimate.Address {
	return estimate.Address{Street: g.Street, Zip: g.Zip}
}

// Reply is the prompt a pipeline emits. A terminal reply ends the conversation.
type Reply struct {
	Text     string
	Terminal bool
}

func ask(text string) Reply {
	return Reply{Text: text}
}

func tell(text string) Reply {
	return Reply{Text: text, Terminal: true}
}

// Service runs the booking pipelines. Each pipeline takes the session as it
// was before the turn and returns the session after it; on error the returned
// session must be ignored.
type Service struct {
	deps   Deps
	guest  Guest
	logger *logger.Logger
	now    func() time.Time
}

// NewService creates a booking service.
func NewService(deps Deps, guest Guest, log *logger.Logger) *Service {
	if guest.EmbarkationPort == "" {
		guest.EmbarkationPort = "MIA"
	}
	if guest.FallbackPhone == "" {
		guest.FallbackPhone = "3055595135"
	}
	if guest.Gender == "" {
		guest.Gender = "M"
	}
	if guest.DefaultPartySize <= 0 {
		guest.DefaultPartySize = 2
	}
	return &Service{
		deps:   deps,
		guest:  guest,
		logger: log,
		now:    time.Now,
	}
}
