package models

import (
	"time"

	"gorm.io/gorm"
)

// RFQ statuses
const (
	RFQPendingPayment = "pending_payment"
	RFQOpen           = "open"
	RFQClosed         = "closed"
)

// RFQ is a buyer sourcing request. It goes live only after the listing fee
// charge is confirmed by the payment webhook.
type RFQ struct {
	gorm.Model
	BuyerID          uint    `gorm:"index;not null"`
	Title            string  `gorm:"not null"`
	Description      string  `gorm:"type:text"`
	Category         string  `gorm:"index"`
	Quantity         int     `gorm:"not null"`
	Unit             string  `gorm:"default:'kg'"`
	BudgetPerUnit    float64
	DeliveryLocation string
	Deadline         *time.Time
	Status           string `gorm:"index;default:'pending_payment'"`
	PaymentReference string `gorm:"uniqueIndex"`
}

type RFQQuote struct {
	gorm.Model
	RFQID        uint    `gorm:"uniqueIndex:idx_rfq_seller;not null"`
	SellerID     uint    `gorm:"uniqueIndex:idx_rfq_seller;not null"`
	PricePerUnit float64 `gorm:"not null"`
	Note         string  `gorm:"type:text"`
	Accepted     bool    `gorm:"default:false"`
}
