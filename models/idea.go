// models/idea.go
package models

import (
	"time"

	"gorm.io/gorm"
)

type IdeaStatus string

const (
	IdeaStatusPendingReview IdeaStatus = "pending_review"
	IdeaStatusApproved      IdeaStatus = "approved"
	IdeaStatusRejected      IdeaStatus = "rejected"
	IdeaStatusArchived      IdeaStatus = "archived"
)

// IdeaCategories is the allowed category set; "Other" requires a custom label.
var IdeaCategories = []string{"Tech", "Health", "Education", "Finance", "Agriculture", "Other"}

// Idea is either a startup idea (IsIdea=true, StartupID required) or an
// investment plan (IsIdea=false, no StartupID). Every update bumps
// CurrentVersion and resets the status to pending_review for mentor review.
type Idea struct {
	ID               string     `gorm:"primaryKey;type:uuid;not null" json:"id"`
	StartupID        *string    `gorm:"type:uuid;index" json:"startup_id,omitempty"`
	Title            string     `gorm:"type:varchar(255);not null" json:"title"`
	Description      string     `gorm:"type:text;not null" json:"description"`
	ImgURL           string     `gorm:"type:text" json:"img_url,omitempty"`
	Category         string     `gorm:"type:varchar(32);not null" json:"category"`
	CustomCategory   string     `gorm:"type:varchar(64)" json:"custom_category,omitempty"`
	Budget           float64    `gorm:"not null" json:"budget"`
	Timeline         string     `gorm:"type:varchar(255)" json:"timeline,omitempty"`
	ExpectedOutcomes string     `gorm:"type:text" json:"expected_outcomes,omitempty"`
	CurrentVersion   int        `gorm:"not null" json:"current_version"`
	IsIdea           bool       `gorm:"not null" json:"is_idea"`
	Status           IdeaStatus `gorm:"type:varchar(32);not null" json:"status"`
	CreatedBy        string     `gorm:"type:uuid;not null;index" json:"created_by"`
	UpdatedBy        string     `gorm:"type:uuid" json:"updated_by,omitempty"`
	CreatedAt        time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
