package repositories

import (
	"errors"
	"time"

	"agromart/internal/models"

	"gorm.io/gorm"
)

var ErrKYCNotFound = errors.New("kyc document not found")

type KYCRepository interface {
	Create(doc *models.KYCDocument) error
	GetByID(id uint) (*models.KYCDocument, error)
	GetLatestByUser(userID uint) (*models.KYCDocument, error)
	ListPending(limit, offset int) ([]models.KYCDocument, int64, error)
	Review(docID, reviewerID uint, status, reason string) error
}

type kycRepository struct {
	db *gorm.DB
}

func NewKYCRepository(db *gorm.DB) KYCRepository {
	return &kycRepository{db: db}
}

func (r *kycRepository) Create(doc *models.KYCDocument) error {
	return r.db.Create(doc).Error
}

func (r *kycRepository) GetByID(id uint) (*models.KYCDocument, error) {
	var doc models.KYCDocument
	if err := r.db.First(&doc, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrKYCNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (r *kycRepository) GetLatestByUser(userID uint) (*models.KYCDocument, error) {
	var doc models.KYCDocument
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").First(&doc).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrKYCNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (r *kycRepository) ListPending(limit, offset int) ([]models.KYCDocument, int64, error) {
	var total int64
	if err := r.db.Model(&models.KYCDocument{}).Where("status = ?", models.KYCPending).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var docs []models.KYCDocument
	err := r.db.Where("status = ?", models.KYCPending).
		Order("created_at ASC").Limit(limit).Offset(offset).Find(&docs).Error
	return docs, total, err
}

func (r *kycRepository) Review(docID, reviewerID uint, status, reason string) error {
	now := time.Now()
	result := r.db.Model(&models.KYCDocument{}).
		Where("id = ? AND status = ?", docID, models.KYCPending).
		Updates(map[string]interface{}{
			"status":           status,
			"reviewed_by":      reviewerID,
			"reviewed_at":      now,
			"rejection_reason": reason,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrKYCNotFound
	}
	return nil
}
