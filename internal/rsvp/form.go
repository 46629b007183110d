package rsvp

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxGuests is the upper bound on number_of_guests, the submitter included
const MaxGuests = 10

// Form is the primary contact's part of an RSVP
type Form struct {
	FirstName           string `form:"first_name" validate:"required,max=100"`
	LastName            string `form:"last_name" validate:"required,max=100"`
	Email               string `form:"email" validate:"required,email,max=254"`
	Phone               string `form:"phone" validate:"required,max=20"`
	Attendance          string `form:"attendance" validate:"required,oneof=yes no"`
	NumberOfGuests      int    `form:"number_of_guests" validate:"min=1,max=10"`
	DietaryRestrictions string `form:"dietary_restrictions"`
	SongRequest         string `form:"song_request" validate:"max=200"`
	Message             string `form:"message"`
}

// GuestForm is one additional guest slot
type GuestForm struct {
	FirstName       string `form:"first_name" validate:"max=100"`
	LastName        string `form:"last_name" validate:"max=100"`
	UsePrimaryPhone bool   `form:"use_primary_phone"`
	Phone           string `form:"phone" validate:"max=20"`
}

// complete reports whether the slot names a guest. Partial slots are dropped.
func (g GuestForm) complete() bool {
	return g.FirstName != "" && g.LastName != ""
}

// Submission is a parsed RSVP post
type Submission struct {
	Primary Form
	Guests  []GuestForm

	countErr string
}

// ParseSubmission reads an RSVP post through value, which returns "" for absent fields.
// Guest slots guest_<i>_* are read for i in 0..number_of_guests-2.
// A missing or non numeric guest count is reported when the submission is validated.
func ParseSubmission(value func(key string) string) Submission {
	get := func(key string) string { return strings.TrimSpace(value(key)) }

	sub := Submission{
		Primary: Form{
			FirstName:           get("first_name"),
			LastName:            get("last_name"),
			Email:               get("email"),
			Phone:               get("phone"),
			Attendance:          get("attendance"),
			DietaryRestrictions: get("dietary_restrictions"),
			SongRequest:         get("song_request"),
			Message:             get("message"),
		},
	}

	raw := get("number_of_guests")
	n, err := strconv.Atoi(raw)
	switch {
	case raw == "":
		sub.countErr = "This field is required."
		return sub
	case err != nil:
		sub.countErr = "Enter a whole number."
		return sub
	}
	sub.Primary.NumberOfGuests = n

	slots := n - 1
	if slots > MaxGuests-1 {
		slots = MaxGuests - 1
	}
	for i := 0; i < slots; i++ {
		prefix := fmt.Sprintf("guest_%d_", i)
		sub.Guests = append(sub.Guests, GuestForm{
			FirstName:       get(prefix + "first_name"),
			LastName:        get(prefix + "last_name"),
			UsePrimaryPhone: parseFlag(get(prefix+"use_primary_phone"), true),
			Phone:           get(prefix + "phone"),
		})
	}
	return sub
}

// parseFlag reads a checkbox or yes/no style value; absent means def
func parseFlag(v string, def bool) bool {
	switch strings.ToLower(v) {
	case "":
		return def
	case "on", "true", "1", "yes":
		return true
	}
	return false
}
