// models/event.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// EventTypes is the allowed set of community event formats.
var EventTypes = []string{"Webinar", "Workshop", "Pitch Day", "Networking", "Legal Session"}

// Event is a mentor-hosted community event with RSVP tracking.
type Event struct {
	ID          string    `gorm:"primaryKey;type:uuid;not null" json:"id"`
	OrganizerID string    `gorm:"type:uuid;not null;index" json:"organizer_id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	EventType   string    `gorm:"type:varchar(32);not null" json:"event_type"`
	Date        time.Time `gorm:"not null;index" json:"date"`
	Link        string    `gorm:"type:text;not null" json:"link"` // meeting link
	BannerImage string    `gorm:"type:text" json:"banner_image,omitempty"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Attendees []EventAttendee `gorm:"foreignKey:EventID" json:"attendees,omitempty"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// EventAttendee records one RSVP; a user may register for an event once.
type EventAttendee struct {
	ID        string    `gorm:"primaryKey;type:uuid;not null" json:"id"`
	EventID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_event_attendee,priority:1" json:"event_id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_event_attendee,priority:2" json:"user_id"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
