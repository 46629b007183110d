// Package notify texts seated guests their seat number and the photo upload link.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"wedding-site/internal/spreadsheet"
)

// Sender delivers one message and returns the channel's message id
type Sender interface {
	Send(ctx context.Context, phone, body string) (string, error)
}

// Skip reasons, checked in this order
var (
	ErrNotAttending = errors.New("not attending")
	ErrNoSeat       = errors.New("no seat number assigned")
	ErrNoPhone      = errors.New("no phone number")
)

var errBadPhone = errors.New("phone number has no digits")

// Message holds the fixed parts of the notification text
type Message struct {
	BrideName string
	GroomName string
	UploadURL string
}

// Render builds the text for one guest
func (m Message) Render(firstName, seat string) string {
	couple := m.GroomName + " & " + m.BrideName
	return fmt.Sprintf("Hi %s!\n\n"+
		"Thank you for celebrating with %s!\n\n"+
		"Your seat number is: %s\n\n"+
		"Please share your photos from the wedding:\n%s\n\n"+
		"We can't wait to see the memories you captured!\n\n"+
		"- %s", firstName, couple, seat, m.UploadURL, couple)
}

type Summary struct {
	Sent    int
	Skipped int
	Errors  int
}

// Dispatcher walks the seat sheet and sends one message per seated guest.
// With a nil sender it runs dry and only writes the messages to out.
type Dispatcher struct {
	sender Sender
	msg    Message
	out    io.Writer
	log    zerolog.Logger
}

func NewDispatcher(sender Sender, msg Message, out io.Writer, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, msg: msg, out: out, log: log.With().Str("component", "notify").Logger()}
}

func (d *Dispatcher) DryRun() bool {
	return d.sender == nil
}

// Run processes rows sequentially. A failing row is counted and the run continues.
func (d *Dispatcher) Run(ctx context.Context, rows []spreadsheet.SeatRow) Summary {
	var sum Summary
	for _, row := range rows {
		name := strings.TrimSpace(row.FirstName + " " + row.LastName)

		if reason := skipReason(row); reason != nil {
			sum.Skipped++
			d.log.Info().Int("row", row.Row).Err(reason).Msg("Skipping row")
			fmt.Fprintf(d.out, "Row %d: Skipping %s - %v\n", row.Row, name, reason)
			continue
		}

		phone, err := FormatPhone(row.Phone)
		if err != nil {
			sum.Errors++
			fmt.Fprintf(d.out, "Row %d: Error formatting phone for %s: %v\n", row.Row, name, err)
			continue
		}

		body := d.msg.Render(row.FirstName, row.Seat)
		if d.DryRun() {
			sum.Sent++
			fmt.Fprintf(d.out, "\nRow %d: Would send to %s (%s):\nSeat: %s\nMessage:\n%s\n%s\n",
				row.Row, name, phone, row.Seat, body, strings.Repeat("-", 60))
			continue
		}

		id, err := d.sender.Send(ctx, phone, body)
		if err != nil {
			sum.Errors++
			d.log.Error().Err(err).Int("row", row.Row).Str("phone", phone).Msg("Failed to send seat notification")
			fmt.Fprintf(d.out, "Row %d: Failed to send to %s (%s): %v\n", row.Row, name, phone, err)
			continue
		}
		sum.Sent++
		fmt.Fprintf(d.out, "Row %d: Sent to %s (%s), id %s\n", row.Row, name, phone, id)
	}
	return sum
}

func skipReason(row spreadsheet.SeatRow) error {
	switch {
	case !strings.EqualFold(row.Attending, "accept"):
		return ErrNotAttending
	case row.Seat == "":
		return ErrNoSeat
	case row.Phone == "":
		return ErrNoPhone
	}
	return nil
}

// FormatPhone converts a phone number to E.164, assuming US for ten digits
func FormatPhone(phone string) (string, error) {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return "", errBadPhone
	}
	if len(digits) == 10 && !strings.HasPrefix(digits, "1") {
		digits = "1" + digits
	}
	return "+" + digits, nil
}
