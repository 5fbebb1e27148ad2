// models/wallet.go
package models

import (
	"time"
)

type WalletStatus string

const (
	WalletStatusActive WalletStatus = "Active"
	WalletStatusFrozen WalletStatus = "Frozen"
)

// Wallet holds a user's internal ledger balance. Exactly one wallet exists
// per user (unique index on user_id); it is created lazily on first access.
// The balance must only ever change inside a DB transaction that also writes
// the matching Transaction row.
type Wallet struct {
	ID        string       `gorm:"primaryKey;type:uuid;not null" json:"id"`
	UserID    string       `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Balance   float64      `gorm:"not null" json:"balance"`
	Currency  string       `gorm:"type:varchar(8);not null" json:"currency"`
	Status    WalletStatus `gorm:"type:varchar(16);not null" json:"status"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null" json:"updated_at"`
}
