// models/notification.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification is an in-app message for one recipient. Email delivery is
// handled by an external service and is not modeled here.
type Notification struct {
	ID              string  `gorm:"primaryKey;type:uuid;not null" json:"id"`
	RecipientUserID string  `gorm:"type:uuid;not null;index" json:"recipient_user_id"`
	StartupID       *string `gorm:"type:uuid;index" json:"startup_id,omitempty"`
	Type            string  `gorm:"type:varchar(64);not null;index" json:"type"` // e.g. "investment_received"
	Title           string  `gorm:"type:varchar(255);not null" json:"title"`
	Message         string  `gorm:"type:text;not null" json:"message"`
	RelatedID       *string `gorm:"type:uuid" json:"related_id,omitempty"`
	ActionURL       string  `gorm:"type:text" json:"action_url,omitempty"`
	IsRead          bool    `gorm:"not null;index" json:"is_read"`
	CreatedBy       *string `gorm:"type:uuid" json:"created_by,omitempty"` // system/admin
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
