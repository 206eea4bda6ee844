package repositories

import (
	"errors"

	"agromart/internal/models"

	"gorm.io/gorm"
)

var (
	ErrRFQNotFound    = errors.New("rfq not found")
	ErrDuplicateQuote = errors.New("quote already submitted for this rfq")
)

type RFQRepository interface {
	Create(rfq *models.RFQ) error
	GetByID(id uint) (*models.RFQ, error)
	GetByReference(reference string) (*models.RFQ, error)

	// Activate flips a pending_payment RFQ to open. Zero rows affected
	// means the RFQ was missing or already activated.
	Activate(rfqID uint) (bool, error)

	Close(rfqID, buyerID uint) error
	ListOpen(category string, limit, offset int) ([]models.RFQ, int64, error)
	ListByBuyer(buyerID uint, limit, offset int) ([]models.RFQ, error)

	CreateQuote(quote *models.RFQQuote) error
	ListQuotes(rfqID uint) ([]models.RFQQuote, error)
}

type rfqRepository struct {
	db *gorm.DB
}

func NewRFQRepository(db *gorm.DB) RFQRepository {
	return &rfqRepository{db: db}
}

func (r *rfqRepository) Create(rfq *models.RFQ) error {
	return r.db.Create(rfq).Error
}

func (r *rfqRepository) GetByID(id uint) (*models.RFQ, error) {
	var rfq models.RFQ
	if err := r.db.First(&rfq, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRFQNotFound
		}
		return nil, err
	}
	return &rfq, nil
}

func (r *rfqRepository) GetByReference(reference string) (*models.RFQ, error) {
	var rfq models.RFQ
	if err := r.db.Where("payment_reference = ?", reference).First(&rfq).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRFQNotFound
		}
		return nil, err
	}
	return &rfq, nil
}

func (r *rfqRepository) Activate(rfqID uint) (bool, error) {
	result := r.db.Model(&models.RFQ{}).
		Where("id = ? AND status = ?", rfqID, models.RFQPendingPayment).
		Update("status", models.RFQOpen)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *rfqRepository) Close(rfqID, buyerID uint) error {
	result := r.db.Model(&models.RFQ{}).
		Where("id = ? AND buyer_id = ? AND status = ?", rfqID, buyerID, models.RFQOpen).
		Update("status", models.RFQClosed)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRFQNotFound
	}
	return nil
}

func (r *rfqRepository) ListOpen(category string, limit, offset int) ([]models.RFQ, int64, error) {
	query := r.db.Model(&models.RFQ{}).Where("status = ?", models.RFQOpen)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rfqs []models.RFQ
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rfqs).Error
	return rfqs, total, err
}

func (r *rfqRepository) ListByBuyer(buyerID uint, limit, offset int) ([]models.RFQ, error) {
	var rfqs []models.RFQ
	err := r.db.Where("buyer_id = ?", buyerID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&rfqs).Error
	return rfqs, err
}

func (r *rfqRepository) CreateQuote(quote *models.RFQQuote) error {
	if err := r.db.Create(quote).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateQuote
		}
		return err
	}
	return nil
}

func (r *rfqRepository) ListQuotes(rfqID uint) ([]models.RFQQuote, error) {
	var quotes []models.RFQQuote
	err := r.db.Where("rfq_id = ?", rfqID).Order("price_per_unit ASC").Find(&quotes).Error
	return quotes, err
}
