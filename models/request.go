// models/request.go
package models

import (
	"time"

	"gorm.io/gorm"
)

type RequestStatus string

const (
	RequestStatusPendingFounder RequestStatus = "pending_founder"
	RequestStatusPendingMentor  RequestStatus = "pending_mentor"
	RequestStatusApproved       RequestStatus = "approved"
	RequestStatusRejected       RequestStatus = "rejected"
	RequestStatusWithdrawn      RequestStatus = "withdrawn"
)

const (
	DecisionAccept = "accept"
	DecisionReject = "reject"
)

// InvestmentRequest is an investor's offer to fund an idea. It moves through
// a two-stage approval: the founder reviews it first, then the mentor. Either
// reviewer can reject; the mentor may adjust the amount on acceptance via
// FinalApprovedAmount. The investor can withdraw while a decision is pending.
type InvestmentRequest struct {
	ID         string  `gorm:"primaryKey;type:uuid;not null" json:"id"`
	InvestorID string  `gorm:"type:uuid;not null;index" json:"investor_id"`
	IdeaID     string  `gorm:"type:uuid;not null;index" json:"idea_id"`
	StartupID  *string `gorm:"type:uuid;index" json:"startup_id,omitempty"`
	Amount     float64 `gorm:"not null" json:"amount"`
	Message    string  `gorm:"type:text" json:"message,omitempty"`

	Status RequestStatus `gorm:"type:varchar(32);not null" json:"status"`

	FounderDecision  string     `gorm:"type:varchar(16)" json:"founder_decision,omitempty"`
	FounderComment   string     `gorm:"type:text" json:"founder_comment,omitempty"`
	FounderDecidedAt *time.Time `json:"founder_decided_at,omitempty"`

	MentorDecision  string     `gorm:"type:varchar(16)" json:"mentor_decision,omitempty"`
	MentorComment   string     `gorm:"type:text" json:"mentor_comment,omitempty"`
	MentorDecidedAt *time.Time `json:"mentor_decided_at,omitempty"`

	FinalApprovedAmount *float64 `json:"final_approved_amount,omitempty"`

	CreatedBy string    `gorm:"type:uuid;not null" json:"created_by"`
	UpdatedBy string    `gorm:"type:uuid" json:"updated_by,omitempty"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
