package domain

import "github.com/google/uuid"

type Role string

const (
	RoleTourist Role = "tourist"
	RoleGuide   Role = "guide"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleTourist || r == RoleGuide || r == RoleAdmin
}

// Actor is the already-authenticated caller handed to the core by the
// identity provider.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) CanView(b *Booking) bool {
	return a.IsAdmin() || a.ID == b.TouristID || a.ID == b.GuideID
}

func (a Actor) CanManage(b *Booking) bool {
	return a.IsAdmin() || a.ID == b.GuideID
}

func (a Actor) CanCancel(b *Booking) bool {
	return a.IsAdmin() || a.ID == b.TouristID
}
