package models

import "gorm.io/gorm"

// Notification types
const (
	NotifyOrder     = "order"
	NotifyPayment   = "payment"
	NotifyKYC       = "kyc"
	NotifyCommunity = "community"
	NotifyRFQ       = "rfq"
)

type Notification struct {
	gorm.Model
	UserID uint   `gorm:"index;not null"`
	Type   string `gorm:"not null"`
	Title  string `gorm:"not null"`
	Body   string `gorm:"type:text"`
	Read   bool   `gorm:"default:false"`
	Meta   JSON   `gorm:"type:jsonb"`
}
