package model

import "time"

// Event domain object defining an event users can RSVP to
type Event struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	EventDate    time.Time `gorm:"index" json:"eventDate"`
	Venue        string    `json:"venue"`
	MaxAttendees uint      `json:"maxAttendees"`
	CreatedBy    uint      `json:"createdBy"`
	Creator      *User     `gorm:"foreignKey:CreatedBy" json:"-"`
	RSVPs        []RSVP    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
