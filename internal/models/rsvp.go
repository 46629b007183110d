package models

import (
	"strings"
	"time"
)

// Attendance represents the attendance choice on an RSVP
type Attendance string

const (
	AttendanceAccept  Attendance = "yes"
	AttendanceDecline Attendance = "no"
)

// Label returns the human readable attendance label used in exports
func (a Attendance) Label() string {
	switch a {
	case AttendanceAccept:
		return "Accept"
	case AttendanceDecline:
		return "Decline"
	}
	return string(a)
}

// Valid reports whether a is one of the known choices
func (a Attendance) Valid() bool {
	return a == AttendanceAccept || a == AttendanceDecline
}

// RSVP represents a response submitted by a primary contact
type RSVP struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	FirstName           string     `gorm:"size:100;not null" json:"first_name"`
	LastName            string     `gorm:"size:100;not null" json:"last_name"`
	Email               string     `gorm:"size:254;not null" json:"email"`
	Phone               string     `gorm:"size:20;not null" json:"phone"`
	Attendance          Attendance `gorm:"size:10;not null;index" json:"attendance"`
	NumberOfGuests      int        `gorm:"not null" json:"number_of_guests"`
	DietaryRestrictions string     `gorm:"type:text" json:"dietary_restrictions"`
	SongRequest         string     `gorm:"size:200" json:"song_request"`
	Message             string     `gorm:"type:text" json:"message"`
	SubmittedAt         time.Time  `gorm:"autoCreateTime;index" json:"submitted_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	Guests              []Guest    `gorm:"foreignKey:RSVPID;constraint:OnDelete:CASCADE" json:"guests"`
}

func (RSVP) TableName() string { return "rsvps" }

// FullName returns "First Last"
func (r *RSVP) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// Guest represents an additional guest listed on an RSVP
type Guest struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	RSVPID          uint   `gorm:"column:rsvp_id;not null;index" json:"rsvp_id"`
	FirstName       string `gorm:"size:100;not null" json:"first_name"`
	LastName        string `gorm:"size:100;not null" json:"last_name"`
	UsePrimaryPhone bool   `gorm:"not null" json:"use_primary_phone"`
	Phone           string `gorm:"size:20" json:"phone,omitempty"`
}

func (Guest) TableName() string { return "guests" }

// FullName returns "First Last"
func (g *Guest) FullName() string {
	return strings.TrimSpace(g.FirstName + " " + g.LastName)
}

// ContactPhone resolves the phone number used to reach the guest.
// The guest's own phone wins only when the primary phone may not be used
// and an own phone was supplied.
func (g *Guest) ContactPhone(primaryPhone string) string {
	if g.UsePrimaryPhone || strings.TrimSpace(g.Phone) == "" {
		return primaryPhone
	}
	return g.Phone
}
