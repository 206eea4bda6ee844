package repositories

import (
	"errors"
	"time"

	"agromart/internal/models"

	"gorm.io/gorm"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

type OrderRepository interface {
	Create(tx *gorm.DB, order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	GetByReference(reference string) (*models.Order, error)
	Update(order *models.Order) error
	ListByBuyer(buyerID uint, limit, offset int) ([]models.Order, int64, error)
	ListBySeller(sellerID uint, limit, offset int) ([]models.Order, int64, error)
	ListByAgent(agentID uint, limit, offset int) ([]models.Order, int64, error)
	ListAll(limit, offset int) ([]models.Order, int64, error)

	// ClaimPayout atomically flips payout_status to processing for orders
	// eligible for settlement. A false return means nothing matched: the
	// order is missing, already settled, or in the wrong status.
	ClaimPayout(orderID uint) (bool, error)

	// ReleaseStalePayoutClaim frees a processing claim not touched since
	// before the cutoff, so a crashed settlement can be retried.
	ReleaseStalePayoutClaim(orderID uint, before time.Time) (bool, error)

	// UpdateStatus performs a guarded status transition, matching only
	// orders currently in one of fromStatuses.
	UpdateStatus(orderID uint, fromStatuses []string, toStatus string) (bool, error)

	// MarkPaid moves a pending order into escrow once the gateway confirms
	// the charge. Safe under webhook re-delivery: only a pending order
	// matches.
	MarkPaid(tx *gorm.DB, reference string) (bool, error)

	// ListStale finds orders in the given status whose last update is
	// older than the cutoff. Used by the background jobs.
	ListStale(status string, cutoff time.Time, limit int) ([]models.Order, error)

	Transaction(fn func(tx *gorm.DB) error) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(tx *gorm.DB, order *models.Order) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.Create(order).Error
}

func (r *orderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByReference(reference string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").Where("payment_reference = ?", reference).First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) Update(order *models.Order) error {
	return r.db.Save(order).Error
}

func (r *orderRepository) ClaimPayout(orderID uint) (bool, error) {
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND status IN ? AND payout_status NOT IN ?",
			orderID,
			[]string{models.OrderHeldInEscrow, models.OrderDelivered},
			[]string{models.PayoutProcessing, models.PayoutCompleted},
		).
		Update("payout_status", models.PayoutProcessing)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *orderRepository) ReleaseStalePayoutClaim(orderID uint, before time.Time) (bool, error) {
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND payout_status = ? AND updated_at < ?",
			orderID, models.PayoutProcessing, before).
		Update("payout_status", models.PayoutFailed)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *orderRepository) UpdateStatus(orderID uint, fromStatuses []string, toStatus string) (bool, error) {
	updates := map[string]interface{}{"status": toStatus}
	switch toStatus {
	case models.OrderDelivered:
		updates["delivered_at"] = time.Now()
	case models.OrderCompleted:
		updates["completed_at"] = time.Now()
	}

	result := r.db.Model(&models.Order{}).
		Where("id = ? AND status IN ?", orderID, fromStatuses).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *orderRepository) MarkPaid(tx *gorm.DB, reference string) (bool, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	result := db.Model(&models.Order{}).
		Where("payment_reference = ? AND status = ?", reference, models.OrderPending).
		Updates(map[string]interface{}{
			"status":           models.OrderHeldInEscrow,
			"payment_captured": true,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *orderRepository) ListByBuyer(buyerID uint, limit, offset int) ([]models.Order, int64, error) {
	return r.list(r.db.Where("buyer_id = ?", buyerID), limit, offset)
}

func (r *orderRepository) ListBySeller(sellerID uint, limit, offset int) ([]models.Order, int64, error) {
	return r.list(r.db.Where("seller_id = ?", sellerID), limit, offset)
}

func (r *orderRepository) ListByAgent(agentID uint, limit, offset int) ([]models.Order, int64, error) {
	return r.list(r.db.Where("agent_id = ?", agentID), limit, offset)
}

func (r *orderRepository) ListAll(limit, offset int) ([]models.Order, int64, error) {
	return r.list(r.db.Model(&models.Order{}), limit, offset)
}

func (r *orderRepository) list(query *gorm.DB, limit, offset int) ([]models.Order, int64, error) {
	var total int64
	if err := query.Model(&models.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := query.Preload("Items").Order("created_at DESC").Limit(limit).Offset(offset).Find(&orders).Error
	return orders, total, err
}

func (r *orderRepository) ListStale(status string, cutoff time.Time, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").
		Where("status = ? AND updated_at < ?", status, cutoff).
		Limit(limit).Find(&orders).Error
	return orders, err
}

func (r *orderRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}
