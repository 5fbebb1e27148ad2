// models/evaluation.go
package models

import (
	"time"
)

// Evaluation stores the AI SWOT analysis for a startup. One row per startup;
// regeneration replaces the existing row.
type Evaluation struct {
	ID            string    `gorm:"primaryKey;type:uuid;not null" json:"id"`
	StartupID     string    `gorm:"type:uuid;not null;uniqueIndex" json:"startup_id"`
	RiskScore     int       `gorm:"not null" json:"risk_score"` // 1 (low) .. 10 (high)
	Strengths     string    `gorm:"type:text;not null" json:"strengths"`
	Weaknesses    string    `gorm:"type:text;not null" json:"weaknesses"`
	Opportunities string    `gorm:"type:text;not null" json:"opportunities"`
	Threats       string    `gorm:"type:text;not null" json:"threats"`
	GeneratedAt   time.Time `gorm:"not null" json:"generated_at"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
