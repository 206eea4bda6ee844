package models

import (
	"time"

	"gorm.io/gorm"
)

// KYC document types
const (
	DocumentNIN          = "nin"
	DocumentBVN          = "bvn"
	DocumentCACCert      = "cac_certificate"
	DocumentVotersCard   = "voters_card"
	DocumentPassport     = "international_passport"
	DocumentFarmRegistry = "farm_registration"
)

type KYCDocument struct {
	gorm.Model
	UserID          uint   `gorm:"index;not null"`
	DocumentType    string `gorm:"not null"`
	DocumentNumber  string
	FileKey         string // object storage key of the uploaded scan
	Status          string `gorm:"default:'pending'"`
	ReviewedBy      *uint
	ReviewedAt      *time.Time
	RejectionReason string
}
