package models

import "time"

// Side is the side of the couple a party member stands with
type Side string

const (
	SideBride Side = "bride"
	SideGroom Side = "groom"
)

func (s Side) Valid() bool {
	return s == SideBride || s == SideGroom
}

// Role is a wedding party role
type Role string

const (
	RoleMaidOfHonor Role = "maid_of_honor"
	RoleBestMan     Role = "best_man"
	RoleBridesmaid  Role = "bridesmaid"
	RoleGroomsman   Role = "groomsman"
	RoleFlowerGirl  Role = "flower_girl"
	RoleRingBearer  Role = "ring_bearer"
)

var roleLabels = map[Role]string{
	RoleMaidOfHonor: "Maid of Honor",
	RoleBestMan:     "Best Man",
	RoleBridesmaid:  "Bridesmaid",
	RoleGroomsman:   "Groomsman",
	RoleFlowerGirl:  "Flower Girl",
	RoleRingBearer:  "Ring Bearer",
}

func (r Role) Valid() bool {
	_, ok := roleLabels[r]
	return ok
}

func (r Role) Label() string {
	if l, ok := roleLabels[r]; ok {
		return l
	}
	return string(r)
}

// WeddingPartyMember is a member of the wedding party
type WeddingPartyMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Role      Role      `gorm:"size:50;not null" json:"role"`
	Side      Side      `gorm:"size:10;not null;index" json:"side"`
	PhotoURL  string    `gorm:"size:500" json:"photo_url,omitempty"`
	Bio       string    `gorm:"type:text" json:"bio"`
	Order     int       `gorm:"column:display_order;not null" json:"order"`
	IsActive  bool      `gorm:"not null;index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (WeddingPartyMember) TableName() string { return "wedding_party_members" }
