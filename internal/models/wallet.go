package models

import (
	"time"

	"gorm.io/gorm"
)

type Wallet struct {
	ID           uint    `gorm:"primarykey"`
	UserID       uint    `gorm:"uniqueIndex;not null"`
	Balance      float64 `gorm:"default:0"`
	Currency     string  `gorm:"default:'NGN'"`
	Status       string  `gorm:"default:'active'"`
	StatusReason string  `gorm:"default:''"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	// Balance always starts at 0; funding goes through the ledger.
	w.Balance = 0.0
	return nil
}
