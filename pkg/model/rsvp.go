package model

import "time"

type RSVPStatus string

const (
	RSVPStatusAttending    RSVPStatus = "attending"
	RSVPStatusNotAttending RSVPStatus = "not_attending"
	RSVPStatusMaybe        RSVPStatus = "maybe"
)

// RSVP is a user's attendance response to an event. A user has at most one RSVP
// per event, subsequent submissions overwrite the previous one.
type RSVP struct {
	UserID    uint       `gorm:"primarykey;autoIncrement:false" json:"userId"`
	EventID   uint       `gorm:"primarykey;autoIncrement:false" json:"eventId"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Status    RSVPStatus `json:"status"`
	Notes     string     `json:"notes"`
}
