package repositories

import (
	"errors"

	"agromart/internal/models"

	"gorm.io/gorm"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductFilter narrows product listings.
type ProductFilter struct {
	Category string
	SellerID uint
	Search   string
	Status   string
}

type ProductRepository interface {
	Create(product *models.Product) error
	GetByID(id uint) (*models.Product, error)
	Update(product *models.Product) error
	Delete(id uint) error
	List(filter ProductFilter, limit, offset int) ([]models.Product, int64, error)

	// DecrementStock atomically reduces quantity_available, guarded by a
	// minimum-quantity filter. Returns ErrInsufficientStock when the guard
	// rejects the update.
	DecrementStock(tx *gorm.DB, productID uint, quantity int) error

	// RestoreStock adds quantity back after a cancellation or refund.
	RestoreStock(tx *gorm.DB, productID uint, quantity int) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Product{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *productRepository) List(filter ProductFilter, limit, offset int) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{})

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.SellerID != 0 {
		query = query.Where("seller_id = ?", filter.SellerID)
	}
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&products).Error
	return products, total, err
}

func (r *productRepository) DecrementStock(tx *gorm.DB, productID uint, quantity int) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	result := db.Model(&models.Product{}).
		Where("id = ? AND quantity_available >= ? AND status = ?", productID, quantity, models.ProductActive).
		UpdateColumn("quantity_available", gorm.Expr("quantity_available - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		db.Model(&models.Product{}).Where("id = ?", productID).Count(&count)
		if count == 0 {
			return ErrProductNotFound
		}
		return ErrInsufficientStock
	}
	return nil
}

func (r *productRepository) RestoreStock(tx *gorm.DB, productID uint, quantity int) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("quantity_available", gorm.Expr("quantity_available + ?", quantity)).Error
}
