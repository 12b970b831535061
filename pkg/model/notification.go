package model

import "time"

type NotificationType string

const (
	NotificationTypeRSVP  NotificationType = "RSVP"
	NotificationTypeEvent NotificationType = "EVENT"
)

// Notification is an in-app message addressed to a single user. Rows are
// created by the fan-out on event creation and RSVP submission and only ever
// mutated by their recipient marking them read.
type Notification struct {
	ID        uint             `gorm:"primarykey" json:"id"`
	CreatedAt time.Time        `json:"createdAt"`
	UserID    uint             `gorm:"index" json:"userId"`
	User      *User            `json:"-"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	Link      string           `json:"link"`
	Read      bool             `json:"read"`
}
