package rsvp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"wedding-site/internal/mail"
	"wedding-site/internal/models"
	"wedding-site/internal/spreadsheet"
	"wedding-site/internal/validation"
)

// Store is the persistence the intake needs
type Store interface {
	Create(ctx context.Context, r *models.RSVP) error
	List(ctx context.Context) ([]models.RSVP, error)
}

// Notifier delivers the operator notification
type Notifier interface {
	SendRSVPNotification(ctx context.Context, r *models.RSVP, attachmentName string, attachment []byte) error
}

// Recorder counts submissions and failed side effects
type Recorder interface {
	RSVPSubmitted(attendance string)
	SideEffectFailed(effect string)
}

type Service struct {
	store    Store
	notifier Notifier
	rec      Recorder
	validate *validation.Validator
	log      zerolog.Logger
	now      func() time.Time
}

// NewService creates the RSVP intake service. notifier and rec may be nil.
func NewService(store Store, notifier Notifier, rec Recorder, log zerolog.Logger) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		rec:      rec,
		validate: validation.New(),
		log:      log.With().Str("component", "rsvp").Logger(),
		now:      time.Now,
	}
}

// Submit validates and stores an RSVP with its guests, then notifies the operators.
// Notification problems are logged and counted; they never fail the submission.
func (s *Service) Submit(ctx context.Context, sub Submission) (*models.RSVP, error) {
	if err := s.check(sub); err != nil {
		return nil, err
	}

	p := sub.Primary
	r := &models.RSVP{
		FirstName:           p.FirstName,
		LastName:            p.LastName,
		Email:               p.Email,
		Phone:               p.Phone,
		Attendance:          models.Attendance(p.Attendance),
		NumberOfGuests:      p.NumberOfGuests,
		DietaryRestrictions: p.DietaryRestrictions,
		SongRequest:         p.SongRequest,
		Message:             p.Message,
	}
	for _, g := range s.keptGuests(sub.Guests) {
		r.Guests = append(r.Guests, models.Guest{
			FirstName:       g.FirstName,
			LastName:        g.LastName,
			UsePrimaryPhone: g.UsePrimaryPhone,
			Phone:           g.Phone,
		})
	}

	if err := s.store.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to save rsvp: %w", err)
	}

	s.log.Info().
		Uint("rsvp_id", r.ID).
		Str("attendance", string(r.Attendance)).
		Int("guests", len(r.Guests)).
		Msg("RSVP received")
	if s.rec != nil {
		s.rec.RSVPSubmitted(string(r.Attendance))
	}

	s.notify(ctx, r)
	return r, nil
}

// check validates the primary form. Guest slots never fail a submission.
func (s *Service) check(sub Submission) error {
	errs := validation.Errors{}
	if err := s.validate.Struct(sub.Primary); err != nil {
		var verrs validation.Errors
		if !errors.As(err, &verrs) {
			return err
		}
		errs = verrs
	}

	if sub.countErr != "" {
		errs["number_of_guests"] = sub.countErr
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// keptGuests returns the slots that name a guest and pass validation
func (s *Service) keptGuests(slots []GuestForm) []GuestForm {
	var kept []GuestForm
	for i, g := range slots {
		if !g.complete() {
			continue
		}
		if err := s.validate.Struct(g); err != nil {
			s.log.Debug().Err(err).Int("slot", i).Msg("Dropping malformed guest")
			continue
		}
		kept = append(kept, g)
	}
	return kept
}

// AttachmentName returns the timestamped workbook name for t
func AttachmentName(t time.Time) string {
	return "wedding_rsvps_" + t.Format("20060102_150405") + ".xlsx"
}

// notify rebuilds the workbook over all RSVPs and mails it with a summary of r.
// A workbook failure still sends the summary without an attachment.
func (s *Service) notify(ctx context.Context, r *models.RSVP) {
	if s.notifier == nil {
		return
	}
	log := s.log.With().Uint("rsvp_id", r.ID).Logger()

	var attachment []byte
	all, err := s.store.List(ctx)
	if err == nil {
		attachment, err = spreadsheet.BuildRSVPWorkbook(all)
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to build RSVP workbook")
		s.failed("spreadsheet")
	}

	if err := s.notifier.SendRSVPNotification(ctx, r, AttachmentName(s.now()), attachment); err != nil {
		if errors.Is(err, mail.ErrNotConfigured) {
			log.Warn().Msg("Mail not configured, skipping RSVP notification")
			return
		}
		log.Error().Err(err).Msg("Failed to send RSVP notification")
		s.failed("email")
	}
}

func (s *Service) failed(effect string) {
	if s.rec != nil {
		s.rec.SideEffectFailed(effect)
	}
}
