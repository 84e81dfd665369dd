package booking

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/capitalize-ai/cruise-concierge/internal/model"
)

const (
	welcomePrompt         = "Hi! I can book a cruise for you or find the latest cruise deals. What would you like to do?"
	whereToPrompt         = "Where would you like to visit?"
	phoneAgainPrompt      = "What's your phone number?"
	holdUnavailablePrompt = "Sorry, that stateroom can no longer be held. Please start over."
	genericFailurePrompt  = "Sorry, something went wrong. Please start over."
)

// Pipeline is one dialog step. It receives the session as it was before the
// turn and returns the session after it.
type Pipeline func(ctx context.Context, sess model.Session, args Arguments) (model.Session, Reply, error)

type route struct {
	pipeline Pipeline
	// markers lists the dialog markers under which the intent is valid. Nil
	// accepts every marker.
	markers []model.DialogMarker
}

// Outcome is the result of one dispatched turn.
type Outcome struct {
	Session model.Session
	Reply   Reply
	// Err is the failure converted into the reply, if any.
	Err  error
	Kind ErrorKind
}

// Dispatcher routes a turn to the pipeline bound to its intent.
type Dispatcher struct {
	svc    *Service
	routes map[model.Intent]route
}

// NewDispatcher binds every known intent to its pipeline.
func NewDispatcher(svc *Service) *Dispatcher {
	return &Dispatcher{
		svc: svc,
		routes: map[model.Intent]route{
			model.IntentBookACruise:        {pipeline: svc.BookACruise},
			model.IntentFindCruiseDeals:    {pipeline: svc.FindCruiseDeals},
			model.IntentPickASailing:       {pipeline: svc.PickASailing, markers: []model.DialogMarker{model.MarkerPickASailing}},
			model.IntentProceedWithSailing: {pipeline: svc.ProceedWithSailing, markers: []model.DialogMarker{model.MarkerProceedWithSailing}},
			model.IntentGetDateOfBirth:     {pipeline: svc.GetDateOfBirth, markers: []model.DialogMarker{model.MarkerGetDateOfBirth}},
			model.IntentGetPhoneNumber:     {pipeline: svc.GetPhoneNumber, markers: []model.DialogMarker{model.MarkerGetPhoneNumber}},
			model.IntentPickCruiseDeal:     {pipeline: svc.PickCruiseDeal, markers: []model.DialogMarker{model.MarkerPickCruiseDeal}},
		},
	}
}

// Known reports whether a pipeline is bound to intent.
func (d *Dispatcher) Known(intent model.Intent) bool {
	_, ok := d.routes[intent]
	return ok
}

// Handle runs one turn. Only an unknown intent returns an error; every other
// failure is turned into a terminal apology and reported in Outcome.Err.
func (d *Dispatcher) Handle(ctx context.Context, sess model.Session, intent model.Intent, args Arguments) (Outcome, error) {
	r, ok := d.routes[intent]
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownIntent, intent)
	}

	if r.markers != nil && !slices.Contains(r.markers, sess.Marker) {
		err := fmt.Errorf("%w: %s under marker %q", ErrOutOfTurn, intent, sess.Marker)
		return Outcome{
			Session: sess,
			Reply:   ask(d.question(sess)),
			Err:     err,
			Kind:    KindOutOfTurn,
		}, nil
	}

	next, reply, err := r.pipeline(ctx, sess, args)
	if err != nil {
		d.svc.logger.Error("booking pipeline failed",
			zap.String("session_id", sess.ID),
			zap.String("intent", string(intent)),
			zap.Error(err),
		)
		return Outcome{
			Session: reset(sess),
			Reply:   tell(apology(err)),
			Err:     err,
			Kind:    KindOf(err),
		}, nil
	}

	next.UpdatedAt = d.svc.now().UTC()
	return Outcome{Session: next, Reply: reply, Kind: KindNone}, nil
}

// question is the prompt that the active marker is waiting on.
func (d *Dispatcher) question(sess model.Session) string {
	switch sess.Marker {
	case model.MarkerBookACruise:
		return whereToPrompt
	case model.MarkerPickASailing:
		return listPrompt(fmt.Sprintf("We have found %d great sailings.", len(sess.Candidates)), candidateNames(sess.Candidates))
	case model.MarkerProceedWithSailing:
		return proceedAskPrompt
	case model.MarkerGetDateOfBirth:
		return dateOfBirthPrompt
	case model.MarkerGetPhoneNumber:
		return phoneAgainPrompt
	case model.MarkerPickCruiseDeal:
		return pickDealPrompt
	default:
		return welcomePrompt
	}
}

func apology(err error) string {
	switch {
	case errors.Is(err, ErrHoldUnavailable):
		return holdUnavailablePrompt
	case errors.Is(err, ErrEmptySearchResult):
		return emptySearchPrompt
	default:
		return genericFailurePrompt
	}
}

// reset keeps the identity of the session and drops the dialog state.
func reset(sess model.Session) model.Session {
	return model.Session{
		ID:        sess.ID,
		CreatedAt: sess.CreatedAt,
		UpdatedAt: sess.UpdatedAt,
	}
}
