package repositories

import (
	"context"
	"errors"
	"log"

	"agromart/internal/models"
	"agromart/internal/repositories/cache"

	"gorm.io/gorm"
)

var (
	ErrWalletNotFound = errors.New("wallet not found")
)

// WalletRepository defines wallet persistence operations. Balance mutations
// go through guarded single-statement updates so the database enforces the
// non-negative invariant.
type WalletRepository interface {
	Create(wallet *models.Wallet) error
	GetByUserID(userID uint) (*models.Wallet, error)

	// CreditBalance unconditionally increments the balance.
	CreditBalance(tx *gorm.DB, userID uint, amount float64) error

	// DebitBalance decrements only when the balance covers the amount;
	// returns ErrInsufficientBalance otherwise.
	DebitBalance(tx *gorm.DB, userID uint, amount float64) error

	Transaction(fn func(tx *gorm.DB) error) error
}

var ErrInsufficientBalance = errors.New("insufficient wallet balance")

type walletRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

func NewWalletRepository(db *gorm.DB, cache *cache.CacheService) WalletRepository {
	return &walletRepository{db: db, cache: cache}
}

func (r *walletRepository) Create(wallet *models.Wallet) error {
	return r.db.Create(wallet).Error
}

func (r *walletRepository) GetByUserID(userID uint) (*models.Wallet, error) {
	if wallet, err := r.cache.GetWallet(context.Background(), userID); err == nil {
		return wallet, nil
	}

	var wallet models.Wallet
	if err := r.db.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}

	if err := r.cache.CacheWallet(context.Background(), &wallet); err != nil {
		log.Printf("Failed to cache wallet for user %d: %v", userID, err)
	}
	return &wallet, nil
}

func (r *walletRepository) CreditBalance(tx *gorm.DB, userID uint, amount float64) error {
	db := r.conn(tx)
	result := db.Model(&models.Wallet{}).
		Where("user_id = ? AND status = ?", userID, "active").
		UpdateColumn("balance", gorm.Expr("balance + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrWalletNotFound
	}

	r.invalidate(userID)
	return nil
}

func (r *walletRepository) DebitBalance(tx *gorm.DB, userID uint, amount float64) error {
	db := r.conn(tx)
	result := db.Model(&models.Wallet{}).
		Where("user_id = ? AND status = ? AND balance >= ?", userID, "active", amount).
		UpdateColumn("balance", gorm.Expr("balance - ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Distinguish a missing wallet from an underfunded one.
		var count int64
		db.Model(&models.Wallet{}).Where("user_id = ?", userID).Count(&count)
		if count == 0 {
			return ErrWalletNotFound
		}
		return ErrInsufficientBalance
	}

	r.invalidate(userID)
	return nil
}

func (r *walletRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

func (r *walletRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *walletRepository) invalidate(userID uint) {
	if err := r.cache.InvalidateWallet(context.Background(), userID); err != nil {
		log.Printf("Failed to invalidate wallet cache for user %d: %v", userID, err)
	}
}
