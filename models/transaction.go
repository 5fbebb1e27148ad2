// models/transaction.go
package models

import (
	"time"
)

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "Deposit"
	TransactionTypeWithdrawal TransactionType = "Withdrawal"
	TransactionTypeInvestment TransactionType = "Investment"
	TransactionTypeRefund     TransactionType = "Refund"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "Pending"
	TransactionStatusCompleted TransactionStatus = "Completed"
	TransactionStatusFailed    TransactionStatus = "Failed"
)

// Transaction is one immutable ledger entry. Amount is signed from the
// owner's perspective: negative for debits, positive for credits.
// The only permitted status transition is Pending -> Completed (or Failed),
// performed exactly once by webhook processing or the stale-deposit worker.
type Transaction struct {
	ID       string            `gorm:"primaryKey;type:uuid;not null" json:"id"`
	WalletID string            `gorm:"type:uuid;not null;index" json:"wallet_id"`
	UserID   string            `gorm:"type:uuid;not null;index:idx_transactions_user_created,priority:1" json:"user_id"`
	Type     TransactionType   `gorm:"type:varchar(16);not null" json:"type"`
	Amount   float64           `gorm:"not null" json:"amount"`
	Currency string            `gorm:"type:varchar(8);not null" json:"currency"`
	// PaymentID is the gateway correlation id (order id) for deposits; the
	// webhook looks Pending rows up by this value. Unique across deposits so
	// one notification can never match two rows; empty for transfer entries,
	// hence the partial index.
	PaymentID        string            `gorm:"type:varchar(64);uniqueIndex:idx_transactions_payment_id,where:payment_id <> ''" json:"payment_id,omitempty"`
	Status           TransactionStatus `gorm:"type:varchar(16);not null" json:"status"`
	Description      string            `gorm:"type:text" json:"description,omitempty"`
	RelatedStartupID *string           `gorm:"type:uuid" json:"related_startup_id,omitempty"`
	CompletedAt      *time.Time        `json:"completed_at,omitempty"`
	CreatedAt        time.Time         `gorm:"not null;index:idx_transactions_user_created,priority:2" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"not null" json:"updated_at"`
}
