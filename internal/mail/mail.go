package mail

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"wedding-site/internal/config"
	"wedding-site/internal/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var ErrNotConfigured = errors.New("mail not configured")

// sender delivers a composed message
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type Service struct {
	dialer    sender
	from      string
	operators []string
	log       zerolog.Logger
}

// NewService creates the operator mail service.
// A service without an SMTP host or operators refuses to send.
func NewService(cfg config.MailConfig, log zerolog.Logger) *Service {
	s := &Service{
		from:      cfg.From,
		operators: cfg.Operators,
		log:       log.With().Str("component", "mail").Logger(),
	}
	if cfg.Host != "" {
		s.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	}
	return s
}

// SendRSVPNotification mails the operators a summary of r with the RSVP workbook attached
func (s *Service) SendRSVPNotification(ctx context.Context, r *models.RSVP, attachmentName string, attachment []byte) error {
	if s.dialer == nil || len(s.operators) == 0 {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.operators...)
	m.SetHeader("Subject", fmt.Sprintf("New Wedding RSVP: %s %s", r.FirstName, r.LastName))
	m.SetBody("text/plain", Summary(r))

	if len(attachment) > 0 {
		m.Attach(attachmentName,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(attachment)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {xlsxContentType}}),
		)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send rsvp notification: %w", err)
	}

	s.log.Info().Uint("rsvp_id", r.ID).Int("recipients", len(s.operators)).Msg("RSVP notification sent")
	return nil
}

// Summary renders the plain text body describing one RSVP
func Summary(r *models.RSVP) string {
	var b strings.Builder
	b.WriteString("New RSVP Received!\n\n")
	fmt.Fprintf(&b, "Name: %s\n", r.FullName())
	fmt.Fprintf(&b, "Email: %s\n", r.Email)
	fmt.Fprintf(&b, "Phone: %s\n", r.Phone)
	fmt.Fprintf(&b, "Attending: %s\n", r.Attendance.Label())
	fmt.Fprintf(&b, "Number of Guests: %d\n", r.NumberOfGuests)

	if len(r.Guests) > 0 {
		b.WriteString("Guests:\n")
		for i := range r.Guests {
			g := &r.Guests[i]
			fmt.Fprintf(&b, "  - %s (%s)\n", g.FullName(), g.ContactPhone(r.Phone))
		}
	}

	fmt.Fprintf(&b, "Dietary Restrictions: %s\n", r.DietaryRestrictions)
	fmt.Fprintf(&b, "Song Request: %s\n", r.SongRequest)
	fmt.Fprintf(&b, "Message: %s\n\n", r.Message)
	fmt.Fprintf(&b, "Submitted: %s\n\n", r.SubmittedAt.Format("2006-01-02 15:04:05"))
	b.WriteString("---\nSee attached Excel file for all RSVPs.\n")
	return b.String()
}
