package models

import (
	"time"

	"gorm.io/gorm"
)

// Order statuses
const (
	OrderPending       = "pending"
	OrderHeldInEscrow  = "held_in_escrow"
	OrderDelivered     = "delivered"
	OrderCompleted     = "completed"
	OrderCancelled     = "cancelled"
	OrderPaymentFailed = "payment_failed"
	OrderHalted        = "halted"
)

// Payout statuses
const (
	PayoutPending    = "pending"
	PayoutProcessing = "processing"
	PayoutCompleted  = "completed"
	PayoutFailed     = "failed"
)

// Transfer statuses recorded from Paystack
const (
	TransferInitiated = "initiated"
	TransferSuccess   = "success"
	TransferFailed    = "failed"
	TransferReversed  = "reversed"
	TransferSkipped   = "skipped" // seller has no verified bank details
)

type Order struct {
	gorm.Model
	BuyerID  uint  `gorm:"index;not null"`
	SellerID uint  `gorm:"index;not null"`
	AgentID  *uint `gorm:"index"`

	Items []OrderItem `gorm:"foreignKey:OrderID"`

	Total            float64 `gorm:"not null"`
	Status           string  `gorm:"index;not null;default:'pending'"`
	PaymentReference string  `gorm:"uniqueIndex;not null"`
	PaymentCaptured  bool    `gorm:"default:false"`

	// Settlement. PayoutStatus guards against double payout.
	PayoutStatus    string  `gorm:"not null;default:'pending'"`
	PlatformFee     float64 `gorm:"default:0"`
	AgentCommission float64 `gorm:"default:0"`
	SellerAmount    float64 `gorm:"default:0"`
	TransferCode    string
	TransferStatus  string

	DeliveryAddress string
	DeliveredAt     *time.Time
	CompletedAt     *time.Time
	CancelReason    string
}

type OrderItem struct {
	ID        uint    `gorm:"primarykey"`
	OrderID   uint    `gorm:"index;not null"`
	ProductID uint    `gorm:"index;not null"`
	Name      string  // snapshot of product name at checkout
	UnitPrice float64 `gorm:"not null"`
	Quantity  int     `gorm:"not null"`
	Subtotal  float64 `gorm:"not null"`
	CreatedAt time.Time
}

// Terminal reports whether the order can no longer change status.
func (o *Order) Terminal() bool {
	return o.Status == OrderCompleted || o.Status == OrderCancelled
}
