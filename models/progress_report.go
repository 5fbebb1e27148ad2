// models/progress_report.go
package models

import (
	"time"

	"gorm.io/gorm"
)

type ReportOverallStatus string

const (
	ReportStatusOnTrack ReportOverallStatus = "on_track"
	ReportStatusDelayed ReportOverallStatus = "delayed"
	ReportStatusAtRisk  ReportOverallStatus = "at_risk"
)

type MilestoneStatus string

const (
	MilestoneNotStarted MilestoneStatus = "not_started"
	MilestoneInProgress MilestoneStatus = "in_progress"
	MilestoneCompleted  MilestoneStatus = "completed"
)

// ProgressReport is a founder's weekly status update on an idea, reviewed by
// the assigned mentor. Milestones ride along as child rows and drive the
// progress percentage on the startup-owner dashboard.
type ProgressReport struct {
	ID         string `gorm:"primaryKey;type:uuid;not null" json:"id"`
	IdeaID     string `gorm:"type:uuid;not null;index" json:"idea_id"`
	StartupID  string `gorm:"type:uuid;not null;index" json:"startup_id"`
	MentorID   string `gorm:"type:uuid;not null" json:"mentor_id"`
	WeekNumber int    `gorm:"not null" json:"week_number"`

	ReportDate     time.Time           `json:"report_date"`
	TasksCompleted string              `gorm:"type:text" json:"tasks_completed,omitempty"`
	Challenges     string              `gorm:"type:text" json:"challenges,omitempty"`
	NextGoals      string              `gorm:"type:text" json:"next_goals,omitempty"`
	OverallStatus  ReportOverallStatus `gorm:"type:varchar(16);not null" json:"overall_status"`

	Milestones []Milestone `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE" json:"milestones"`

	CreatedBy string    `gorm:"type:uuid;not null;index" json:"created_by"`
	UpdatedBy string    `gorm:"type:uuid" json:"updated_by,omitempty"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Milestone is one tracked deliverable inside a progress report.
type Milestone struct {
	ID             string          `gorm:"primaryKey;type:uuid;not null" json:"id"`
	ReportID       string          `gorm:"type:uuid;not null;index" json:"report_id"`
	Name           string          `gorm:"type:varchar(255);not null" json:"name"`
	Status         MilestoneStatus `gorm:"type:varchar(16);not null" json:"status"`
	CompletionDate *time.Time      `json:"completion_date,omitempty"`
}
