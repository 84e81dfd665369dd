// Package service runs booking conversation turns against the session store.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/capitalize-ai/cruise-concierge/internal/booking"
	"github.com/capitalize-ai/cruise-concierge/internal/model"
	"github.com/capitalize-ai/cruise-concierge/internal/nlu"
	"github.com/capitalize-ai/cruise-concierge/internal/session"
	"github.com/capitalize-ai/cruise-concierge/pkg/logger"
	"github.com/capitalize-ai/cruise-concierge/pkg/metrics"
)

var (
	// ErrResolverDisabled is returned for utterances when no language model is configured.
	ErrResolverDisabled = errors.New("utterance resolution is not configured")

	// ErrEventsDisabled is returned for event replay when the event log is off.
	ErrEventsDisabled = errors.New("booking events are not enabled")
)

// EventPublisher records booking events.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event *model.BookingEvent) (uint64, error)
}

// EventReader replays the events of a session.
type EventReader interface {
	SessionEvents(ctx context.Context, sessionID string, limit int) ([]model.BookingEvent, error)
}

// Resolver turns free text into an intent.
type Resolver interface {
	Resolve(ctx context.Context, text string, marker model.DialogMarker) (*nlu.Resolution, error)
}

// Options holds the optional collaborators of a TurnService.
type Options struct {
	Events   EventPublisher
	Replay   EventReader
	Resolver Resolver
}

// TurnService loads the session of a turn, dispatches it and stores the result.
type TurnService struct {
	dispatcher *booking.Dispatcher
	store      session.Store
	events     EventPublisher
	replay     EventReader
	resolver   Resolver
	logger     *logger.Logger
}

// NewTurnService creates a new turn service.
func NewTurnService(dispatcher *booking.Dispatcher, store session.Store, opts Options, log *logger.Logger) *TurnService {
	return &TurnService{
		dispatcher: dispatcher,
		store:      store,
		events:     opts.Events,
		replay:     opts.Replay,
		resolver:   opts.Resolver,
		logger:     log,
	}
}

// Handle runs one recognized turn. A session is created when the request
// names none or an unknown one; a terminal reply deletes it.
func (s *TurnService) Handle(ctx context.Context, req *model.TurnRequest) (*model.TurnResponse, error) {
	start := time.Now()

	if !s.dispatcher.Known(req.Intent) {
		metrics.RecordTurn("unknown", string(booking.KindUnknownIntent), time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: %q", booking.ErrUnknownIntent, req.Intent)
	}

	sess, err := s.loadOrCreate(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	log := s.logger.WithTurn(uuid.NewString(), sess.ID, string(req.Intent))

	outcome, err := s.dispatcher.Handle(ctx, *sess, req.Intent, booking.Arguments(req.Arguments))
	if err != nil {
		return nil, err
	}

	if outcome.Reply.Terminal {
		err = s.store.Delete(ctx, sess.ID)
	} else {
		err = s.store.Save(ctx, &outcome.Session)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	duration := time.Since(start)
	metrics.RecordTurn(string(req.Intent), string(outcome.Kind), duration.Seconds())
	log.Info("turn handled",
		zap.String("marker", string(outcome.Session.Marker)),
		zap.String("outcome", string(outcome.Kind)),
		zap.Bool("terminal", outcome.Reply.Terminal),
		zap.Duration("duration", duration),
	)

	s.publish(ctx, log, req.Intent, outcome)

	return &model.TurnResponse{
		SessionID:          sess.ID,
		Prompt:             outcome.Reply.Text,
		ExpectUserResponse: !outcome.Reply.Terminal,
		Marker:             outcome.Session.Marker,
	}, nil
}

// HandleUtterance resolves free text against the session's dialog marker and
// runs it as a turn.
func (s *TurnService) HandleUtterance(ctx context.Context, sessionID, text string) (*model.TurnResponse, error) {
	if s.resolver == nil {
		return nil, ErrResolverDisabled
	}

	marker := model.MarkerNone
	if sessionID != "" {
		sess, err := s.store.Load(ctx, sessionID)
		switch {
		case err == nil:
			marker = sess.Marker
		case !errors.Is(err, session.ErrNotFound):
			return nil, fmt.Errorf("failed to load session: %w", err)
		}
	}

	res, err := s.resolver.Resolve(ctx, text, marker)
	if err != nil {
		return nil, err
	}

	return s.Handle(ctx, &model.TurnRequest{
		SessionID: sessionID,
		Intent:    res.Intent,
		Arguments: res.Arguments,
	})
}

// Get returns the stored session.
func (s *TurnService) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	return s.store.Load(ctx, sessionID)
}

// End discards the session.
func (s *TurnService) End(ctx context.Context, sessionID string) error {
	if _, err := s.store.Load(ctx, sessionID); err != nil {
		return err
	}
	return s.store.Delete(ctx, sessionID)
}

// Events replays the booking events recorded for a session.
func (s *TurnService) Events(ctx context.Context, sessionID string, limit int) ([]model.BookingEvent, error) {
	if s.replay == nil {
		return nil, ErrEventsDisabled
	}
	return s.replay.SessionEvents(ctx, sessionID, limit)
}

func (s *TurnService) loadOrCreate(ctx context.Context, sessionID string) (*model.Session, error) {
	if sessionID == "" {
		return model.NewSession(uuid.Must(uuid.NewV7()).String()), nil
	}

	sess, err := s.store.Load(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		return model.NewSession(sessionID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return sess, nil
}

// publish records the turn on the event log. Failures are logged and do not
// fail the turn.
func (s *TurnService) publish(ctx context.Context, log *logger.Logger, intent model.Intent, outcome booking.Outcome) {
	if s.events == nil {
		return
	}

	event := &model.BookingEvent{
		ID:        uuid.Must(uuid.NewV7()).String(),
		SessionID: outcome.Session.ID,
		Type:      model.EventTypeTurn,
		Intent:    intent,
		Marker:    outcome.Session.Marker,
		Outcome:   string(outcome.Kind),
		CreatedAt: time.Now().UTC(),
	}
	switch {
	case outcome.Err != nil && outcome.Reply.Terminal:
		event.Type = model.EventTypeFailed
		event.Reason = outcome.Err.Error()
	case outcome.Session.BookingNumber != "":
		event.Type = model.EventTypeHoldPlaced
		event.BookingNumber = outcome.Session.BookingNumber
	}

	status := "success"
	if _, err := s.events.PublishEvent(ctx, event); err != nil {
		status = "error"
		log.Warn("failed to publish booking event", zap.String("type", string(event.Type)), zap.Error(err))
	}
	metrics.EventsPublished.WithLabelValues(string(event.Type), status).Inc()
}
