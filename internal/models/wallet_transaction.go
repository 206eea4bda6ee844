package models

import (
	"time"
)

// Ledger entry types
const (
	LedgerCredit = "credit"
	LedgerDebit  = "debit"
)

// Ledger categories
const (
	CategoryOrderPayment    = "order_payment"
	CategoryOrderRefund     = "order_refund"
	CategoryPayout          = "payout"
	CategoryAgentCommission = "agent_commission"
	CategoryTopup           = "topup"
	CategoryWithdrawal      = "withdrawal"
	CategoryRFQFee          = "rfq_fee"
)

// Ledger entry statuses
const (
	LedgerPending = "pending"
	LedgerSuccess = "success"
	LedgerFailed  = "failed"
)

// WalletTransaction is an append-only ledger entry. Rows are created whenever
// a balance changes or a charge is awaiting gateway confirmation; the only
// permitted mutation is pending -> success/failed during reconciliation.
type WalletTransaction struct {
	ID           uint    `gorm:"primarykey"`
	UserID       uint    `gorm:"index;not null"`
	Type         string  `gorm:"not null"` // credit or debit
	Category     string  `gorm:"not null"`
	Amount       float64 `gorm:"not null"`
	Reference    string  `gorm:"uniqueIndex;not null"`
	Status       string  `gorm:"not null;default:'pending'"`
	Description  string
	OrderID      *uint `gorm:"index"`
	RFQID        *uint `gorm:"index"`
	TransferCode string // Paystack transfer code for outbound legs
	Metadata     JSON   `gorm:"type:jsonb"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
