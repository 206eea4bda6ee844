package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleFarmer   = "farmer"
	RoleAgent    = "agent"
	RoleBusiness = "business"
	RolePersonal = "personal"
	RoleAdmin    = "admin"
)

// KYC statuses
const (
	KYCUnsubmitted = "unsubmitted"
	KYCPending     = "pending"
	KYCApproved    = "approved"
	KYCRejected    = "rejected"
)

type User struct {
	gorm.Model
	Email       string  `gorm:"uniqueIndex;not null"`
	Password    string  `gorm:"not null" json:"-"`
	Name        string  `gorm:"not null"`
	Phone       string  `gorm:"uniqueIndex;not null"`
	Role        string  `gorm:"default:'personal'"`
	Status      string  `gorm:"default:'active'"`
	KYCStatus   string  `gorm:"default:'unsubmitted'"`
	IsVerified  bool    `gorm:"default:false"`
	WalletID    *uint   `gorm:"unique;default:null"`
	Wallet      *Wallet `gorm:"foreignKey:WalletID"`
	AgentID     *uint   `gorm:"index;default:null"` // managing agent, farmers only
	LastLoginAt time.Time
	LastLoginIP string

	// Bank payout details, verified against Paystack before transfers.
	BankCode      string
	AccountNumber string
	AccountName   string
	BankVerified  bool   `gorm:"default:false"`
	RecipientCode string // Paystack transfer recipient

	// Dedicated virtual account assigned by Paystack for wallet funding.
	CustomerCode     string `gorm:"index"`
	DVAAccountNumber string
	DVABankName      string

	TokenVersion int `gorm:"default:1"`
}

// CanSell reports whether the user's role and KYC state allow listing products.
func (u *User) CanSell() bool {
	if u.Role != RoleFarmer && u.Role != RoleBusiness {
		return false
	}
	return u.IsVerified && u.KYCStatus == KYCApproved
}

type CreateUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}
