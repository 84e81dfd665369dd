package booking

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/capitalize-ai/cruise-concierge/internal/cruise"
	"github.com/capitalize-ai/cruise-concierge/internal/model"
	"github.com/capitalize-ai/cruise-concierge/pkg/metrics"
)

const (
	dateOfBirthPrompt = "What's your date of birth?"
	phonePrompt       = "Ok. What's your phone number?"
	holdPlacedFormat  = "Alright, we have put a hold on your cabin for %d hours. Your booking number is %s. " +
		"You will receive an email shortly with more details."
	countryOfResidency = "US"
)

var (
	phonePattern    = regexp.MustCompile(`^\d{10}$`)
	phoneSeparators = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")
)

// GetDateOfBirth stores the date of birth as given and asks for the phone number.
func (s *Service) GetDateOfBirth(_ context.Context, sess model.Session, args Arguments) (model.Session, Reply, error) {
	dob := args.String(ArgDate)
	if dob == "" {
		return sess, ask(dateOfBirthPrompt), nil
	}

	next := sess
	next.DateOfBirth = dob
	next.Marker = model.MarkerGetPhoneNumber
	return next, ask(phonePrompt), nil
}

// GetPhoneNumber creates the guest profile and places the courtesy hold on
// the stateroom selected earlier. It ends the conversation.
func (s *Service) GetPhoneNumber(ctx context.Context, sess model.Session, args Arguments) (model.Session, Reply, error) {
	if sess.Selected == nil || sess.Quote == nil || sess.Hold == nil {
		return sess, Reply{}, fmt.Errorf("%w: no quoted sailing", ErrMissingState)
	}
	if sess.DateOfBirth == "" {
		return sess, Reply{}, fmt.Errorf("%w: no date of birth", ErrMissingState)
	}

	phone := s.normalizePhone(sess.ID, args.String(ArgPhoneNumber))

	profile, err := s.deps.Profiles.CreateProfile(ctx, &cruise.ProfileRequest{
		FirstName:          s.guest.FirstName,
		LastName:           s.guest.LastName,
		Email:              s.profileEmail(),
		Gender:             s.guest.Gender,
		DateOfBirth:        sess.DateOfBirth,
		PhoneNumber:        phone,
		CountryOfResidency: countryOfResidency,
	})
	if err != nil {
		return sess, Reply{}, downstream("create profile", err)
	}

	result, err := s.deps.HoldPlacer.PlaceHold(ctx, &cruise.PlaceHoldRequest{
		Quote:            sess.Quote,
		Hold:             sess.Hold,
		Sailing:          sess.Selected,
		Profile:          profile,
		StateOfResidency: s.guest.State,
	})
	if err != nil {
		return sess, Reply{}, downstream("place hold", err)
	}
	metrics.HoldsPlacedTotal.Inc()

	s.logger.Info("courtesy hold placed",
		zap.String("session_id", sess.ID),
		zap.String("booking_number", result.BookingNumber),
		zap.String("result", result.Result),
	)

	next := sess
	next.Phone = phone
	next.Profile = profile
	next.BookingNumber = result.BookingNumber
	next.Marker = model.MarkerNone
	return next, tell(fmt.Sprintf(holdPlacedFormat, sess.Hold.DepositHours, spellDigits(result.BookingNumber))), nil
}

// normalizePhone strips common separators and substitutes the fallback number
// when the result is not ten digits.
func (s *Service) normalizePhone(sessionID, raw string) string {
	phone := phoneSeparators.Replace(raw)
	if phonePattern.MatchString(phone) {
		return phone
	}
	metrics.PhoneFallbacksTotal.Inc()
	s.logger.Warn("invalid phone number, using fallback",
		zap.String("session_id", sessionID),
		zap.Int("digits", len(phone)),
	)
	return s.guest.FallbackPhone
}

// profileEmail builds a unique contact address for the fixed guest identity.
func (s *Service) profileEmail() string {
	return strings.ToLower(fmt.Sprintf("%s.%s+%d@%s",
		s.guest.FirstName, s.guest.LastName, s.now().UnixMilli(), s.guest.EmailDomain))
}

// spellDigits separates every character with a space so speech synthesis
// reads a booking number digit by digit.
func spellDigits(v string) string {
	return strings.Join(strings.Split(v, ""), " ")
}
