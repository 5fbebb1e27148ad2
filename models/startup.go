// models/startup.go
package models

import (
	"time"

	"gorm.io/gorm"
)

type StartupStatus string

const (
	StartupStatusPending     StartupStatus = "pending"
	StartupStatusApproved    StartupStatus = "Approved"
	StartupStatusNotApproved StartupStatus = "NotApproved"
)

// Startup is a founder's venture profile. BRDocumentURL points at the
// business-registration document uploaded to object storage.
type Startup struct {
	ID            string        `gorm:"primaryKey;type:uuid;not null" json:"id"`
	Name          string        `gorm:"type:varchar(255);not null" json:"name"`
	Slug          string        `gorm:"type:varchar(255);not null;uniqueIndex" json:"slug"`
	Description   string        `gorm:"type:text" json:"description"`
	BRDocumentURL string        `gorm:"type:text" json:"br_document_url,omitempty"`
	UserID        string        `gorm:"type:uuid;not null;index" json:"user_id"`
	Status        StartupStatus `gorm:"type:varchar(16);not null" json:"status"`
	CreatedAt     time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time     `json:"updated_at" gorm:"autoUpdateTime"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
