package repositories

import (
	"errors"

	"agromart/internal/models"

	"gorm.io/gorm"
)

var (
	ErrLedgerEntryNotFound = errors.New("ledger entry not found")
	ErrDuplicateReference  = errors.New("duplicate transaction reference")
)

// LedgerRepository persists the append-only wallet transaction ledger.
type LedgerRepository interface {
	Create(tx *gorm.DB, entry *models.WalletTransaction) error
	GetByReference(reference string) (*models.WalletTransaction, error)

	// MarkStatus transitions a pending entry to success or failed.
	// Returns ErrLedgerEntryNotFound when no pending entry matched, which
	// makes webhook re-delivery a no-op.
	MarkStatus(tx *gorm.DB, reference, status string) error

	ListByUser(userID uint, limit, offset int) ([]models.WalletTransaction, int64, error)
	ListByCategory(userID uint, category string, limit, offset int) ([]models.WalletTransaction, error)
	ListAll(limit, offset int) ([]models.WalletTransaction, int64, error)
}

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Create(tx *gorm.DB, entry *models.WalletTransaction) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	if err := db.Create(entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateReference
		}
		return err
	}
	return nil
}

func (r *ledgerRepository) GetByReference(reference string) (*models.WalletTransaction, error) {
	var entry models.WalletTransaction
	if err := r.db.Where("reference = ?", reference).First(&entry).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrLedgerEntryNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *ledgerRepository) MarkStatus(tx *gorm.DB, reference, status string) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	result := db.Model(&models.WalletTransaction{}).
		Where("reference = ? AND status = ?", reference, models.LedgerPending).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrLedgerEntryNotFound
	}
	return nil
}

func (r *ledgerRepository) ListByUser(userID uint, limit, offset int) ([]models.WalletTransaction, int64, error) {
	var entries []models.WalletTransaction
	var total int64

	if err := r.db.Model(&models.WalletTransaction{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&entries).Error
	return entries, total, err
}

func (r *ledgerRepository) ListByCategory(userID uint, category string, limit, offset int) ([]models.WalletTransaction, error) {
	var entries []models.WalletTransaction
	err := r.db.Where("user_id = ? AND category = ?", userID, category).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&entries).Error
	return entries, err
}

func (r *ledgerRepository) ListAll(limit, offset int) ([]models.WalletTransaction, int64, error) {
	var entries []models.WalletTransaction
	var total int64

	if err := r.db.Model(&models.WalletTransaction{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&entries).Error
	return entries, total, err
}
