package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"agromart/internal/gateway/paystack"
	"agromart/internal/models"
	"agromart/internal/repositories"
	"agromart/internal/services/wallet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func newTestService(orders *MockOrderRepo, products *MockProductRepo, users *MockUserRepo, ledger *MockLedgerRepo, wallets *MockWallets, gateway *MockGateway) Service {
	return NewService(orders, products, users, ledger, wallets, gateway, nil, Config{
		PlatformFeeRate:     0.05,
		AgentCommissionRate: 0.02,
	})
}

func escrowedOrder(agentID *uint) *models.Order {
	o := &models.Order{
		BuyerID:          1,
		SellerID:         2,
		AgentID:          agentID,
		Total:            10000,
		Status:           models.OrderHeldInEscrow,
		PaymentReference: "ORD-abc",
		PaymentCaptured:  true,
		PayoutStatus:     models.PayoutPending,
		Items: []models.OrderItem{
			{ProductID: 7, Quantity: 50, UnitPrice: 200, Subtotal: 10000},
		},
	}
	o.ID = 42
	return o
}

func TestProcessPayout_SplitsWithAgent(t *testing.T) {
	agentID := uint(9)
	o := escrowedOrder(&agentID)

	orders := new(MockOrderRepo)
	users := new(MockUserRepo)
	wallets := new(MockWallets)
	gateway := new(MockGateway)

	orders.On("ClaimPayout", uint(42)).Return(true, nil)
	orders.On("GetByID", uint(42)).Return(o, nil)
	orders.On("Update", mock.Anything).Return(nil)

	users.On("GetByID", uint(2)).Return(&models.User{
		BankVerified:  true,
		RecipientCode: "RCP_x",
	}, nil)

	// 10000 - 5% fee - 2% commission = 9300 to the seller.
	wallets.On("Credit", mock.Anything, mock.MatchedBy(func(e wallet.Entry) bool {
		return e.UserID == 2 && e.Amount == 9300 && e.Category == models.CategoryPayout
	})).Return(nil)
	wallets.On("Credit", mock.Anything, mock.MatchedBy(func(e wallet.Entry) bool {
		return e.UserID == 9 && e.Amount == 200 && e.Category == models.CategoryAgentCommission
	})).Return(nil)
	wallets.On("Debit", mock.Anything, mock.MatchedBy(func(e wallet.Entry) bool {
		return e.UserID == 2 && e.Amount == 9300 && e.Category == models.CategoryWithdrawal
	})).Return(nil)

	gateway.On("InitiateTransfer", mock.Anything, "RCP_x", mock.Anything, mock.Anything, paystack.Kobo(9300)).
		Return(&paystack.TransferData{TransferCode: "TRF_1", Status: "pending"}, nil)

	svc := newTestService(orders, new(MockProductRepo), users, new(MockLedgerRepo), wallets, gateway)
	err := svc.ProcessPayout(context.Background(), 42)

	assert.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, o.Status)
	assert.Equal(t, models.PayoutCompleted, o.PayoutStatus)
	assert.Equal(t, 500.0, o.PlatformFee)
	assert.Equal(t, 200.0, o.AgentCommission)
	assert.Equal(t, 9300.0, o.SellerAmount)
	assert.Equal(t, models.TransferInitiated, o.TransferStatus)
	assert.Equal(t, "TRF_1", o.TransferCode)

	orders.AssertExpectations(t)
	wallets.AssertExpectations(t)
	gateway.AssertExpectations(t)
}

func TestProcessPayout_NoAgentNoCommission(t *testing.T) {
	o := escrowedOrder(nil)
	o.PaymentReference = "ORD-def"

	orders := new(MockOrderRepo)
	users := new(MockUserRepo)
	wallets := new(MockWallets)
	gateway := new(MockGateway)

	orders.On("ClaimPayout", uint(42)).Return(true, nil)
	orders.On("GetByID", uint(42)).Return(o, nil)
	orders.On("Update", mock.Anything).Return(nil)

	// No bank details: money stays in the wallet, no transfer attempted.
	users.On("GetByID", uint(2)).Return(&models.User{BankVerified: false}, nil)

	wallets.On("Credit", mock.Anything, mock.MatchedBy(func(e wallet.Entry) bool {
		return e.UserID == 2 && e.Amount == 9500 && e.Category == models.CategoryPayout
	})).Return(nil)

	svc := newTestService(orders, new(MockProductRepo), users, new(MockLedgerRepo), wallets, gateway)
	err := svc.ProcessPayout(context.Background(), 42)

	assert.NoError(t, err)
	assert.Equal(t, 0.0, o.AgentCommission)
	assert.Equal(t, 9500.0, o.SellerAmount)
	assert.Equal(t, models.TransferSkipped, o.TransferStatus)
	gateway.AssertNotCalled(t, "InitiateTransfer")
	wallets.AssertNotCalled(t, "Debit")
	wallets.AssertExpectations(t)
}

func TestProcessPayout_SecondCallIsRejected(t *testing.T) {
	o := escrowedOrder(nil)
	o.Status = models.OrderCompleted
	o.PayoutStatus = models.PayoutCompleted

	orders := new(MockOrderRepo)
	orders.On("ClaimPayout", uint(42)).Return(false, nil)
	orders.On("GetByID", uint(42)).Return(o, nil)

	gateway := new(MockGateway)
	wallets := new(MockWallets)

	svc := newTestService(orders, new(MockProductRepo), new(MockUserRepo), new(MockLedgerRepo), wallets, gateway)
	err := svc.ProcessPayout(context.Background(), 42)

	assert.ErrorIs(t, err, ErrAlreadyPaidOut)
	wallets.AssertNotCalled(t, "Credit")
	gateway.AssertNotCalled(t, "InitiateTransfer")
}

func TestProcessPayout_TransferFailureKeepsWalletFunds(t *testing.T) {
	o := escrowedOrder(nil)

	orders := new(MockOrderRepo)
	users := new(MockUserRepo)
	wallets := new(MockWallets)
	gateway := new(MockGateway)

	orders.On("ClaimPayout", uint(42)).Return(true, nil)
	orders.On("GetByID", uint(42)).Return(o, nil)
	orders.On("Update", mock.Anything).Return(nil)

	users.On("GetByID", uint(2)).Return(&models.User{
		BankVerified:  true,
		RecipientCode: "RCP_x",
	}, nil)

	wallets.On("Credit", mock.Anything, mock.Anything).Return(nil)
	gateway.On("InitiateTransfer", mock.Anything, "RCP_x", mock.Anything, mock.Anything, mock.Anything).
		Return((*paystack.TransferData)(nil), errors.New("balance insufficient"))

	svc := newTestService(orders, new(MockProductRepo), users, new(MockLedgerRepo), wallets, gateway)
	err := svc.ProcessPayout(context.Background(), 42)

	// The order still completes: funds sit in the seller's wallet and the
	// transfer can be retried from there.
	assert.NoError(t, err)
	assert.Equal(t, models.TransferFailed, o.TransferStatus)
	assert.Equal(t, models.PayoutCompleted, o.PayoutStatus)
	wallets.AssertNotCalled(t, "Debit")
}

func TestProcessPayout_NotPayable(t *testing.T) {
	o := escrowedOrder(nil)
	o.Status = models.OrderPending
	o.PayoutStatus = models.PayoutPending

	orders := new(MockOrderRepo)
	orders.On("ClaimPayout", uint(42)).Return(false, nil)
	orders.On("GetByID", uint(42)).Return(o, nil)

	svc := newTestService(orders, new(MockProductRepo), new(MockUserRepo), new(MockLedgerRepo), new(MockWallets), new(MockGateway))
	err := svc.ProcessPayout(context.Background(), 42)

	assert.ErrorIs(t, err, ErrInvalidPayoutStatus)
}

func TestRetryPayout(t *testing.T) {
	t.Run("frees a crashed claim and settles", func(t *testing.T) {
		o := escrowedOrder(nil)
		o.PayoutStatus = models.PayoutProcessing

		orders := new(MockOrderRepo)
		users := new(MockUserRepo)
		wallets := new(MockWallets)

		orders.On("ReleaseStalePayoutClaim", uint(42), mock.Anything).Return(true, nil)
		orders.On("ClaimPayout", uint(42)).Return(true, nil)
		orders.On("GetByID", uint(42)).Return(o, nil)
		orders.On("Update", mock.Anything).Return(nil)
		users.On("GetByID", uint(2)).Return(&models.User{}, nil)
		wallets.On("Credit", mock.Anything, mock.Anything).Return(nil)

		svc := newTestService(orders, new(MockProductRepo), users, new(MockLedgerRepo), wallets, new(MockGateway))
		err := svc.RetryPayout(context.Background(), 42)

		assert.NoError(t, err)
		assert.Equal(t, models.PayoutCompleted, o.PayoutStatus)
		orders.AssertExpectations(t)
	})

	t.Run("fresh claim stays locked", func(t *testing.T) {
		o := escrowedOrder(nil)
		o.PayoutStatus = models.PayoutProcessing

		orders := new(MockOrderRepo)
		orders.On("ReleaseStalePayoutClaim", uint(42), mock.Anything).Return(false, nil)
		orders.On("ClaimPayout", uint(42)).Return(false, nil)
		orders.On("GetByID", uint(42)).Return(o, nil)

		svc := newTestService(orders, new(MockProductRepo), new(MockUserRepo), new(MockLedgerRepo), new(MockWallets), new(MockGateway))
		err := svc.RetryPayout(context.Background(), 42)

		assert.ErrorIs(t, err, ErrAlreadyPaidOut)
	})
}

func TestCheckout(t *testing.T) {
	buyer := &models.User{Email: "buyer@example.com"}
	buyer.ID = 1
	seller := &models.User{Role: models.RoleFarmer}
	seller.ID = 2
	product := &models.Product{
		SellerID:          2,
		Name:              "Maize",
		Price:             200,
		Unit:              "kg",
		QuantityAvailable: 100,
		MinOrderQuantity:  10,
		Status:            models.ProductActive,
	}
	product.ID = 7

	t.Run("successful checkout initializes payment", func(t *testing.T) {
		orders := new(MockOrderRepo)
		products := new(MockProductRepo)
		users := new(MockUserRepo)
		wallets := new(MockWallets)
		gateway := new(MockGateway)

		users.On("GetByID", uint(1)).Return(buyer, nil)
		users.On("GetByID", uint(2)).Return(seller, nil)
		products.On("GetByID", uint(7)).Return(product, nil)
		products.On("DecrementStock", mock.Anything, uint(7), 50).Return(nil)
		orders.On("Transaction", mock.Anything).Return(nil)
		orders.On("Create", mock.Anything, mock.Anything).Return(nil)
		wallets.On("RecordPending", mock.Anything, models.LedgerDebit, mock.MatchedBy(func(e wallet.Entry) bool {
			return e.UserID == 1 && e.Amount == 10000 && e.Category == models.CategoryOrderPayment
		})).Return(nil)
		gateway.On("InitializeTransaction", mock.Anything, mock.MatchedBy(func(req *paystack.InitializeTransactionRequest) bool {
			return req.Email == "buyer@example.com" && req.Amount == paystack.Kobo(10000)
		})).Return(&paystack.InitializeTransactionData{AuthorizationURL: "https://checkout.paystack.com/x"}, nil)

		svc := newTestService(orders, products, users, new(MockLedgerRepo), wallets, gateway)
		result, err := svc.Checkout(context.Background(), 1, CheckoutInput{
			Items: []CheckoutItem{{ProductID: 7, Quantity: 50}},
		})

		assert.NoError(t, err)
		assert.Equal(t, "https://checkout.paystack.com/x", result.AuthorizationURL)
		assert.Equal(t, 10000.0, result.Order.Total)
		assert.Equal(t, models.OrderPending, result.Order.Status)
		gateway.AssertExpectations(t)
	})

	t.Run("insufficient stock fails before payment", func(t *testing.T) {
		orders := new(MockOrderRepo)
		products := new(MockProductRepo)
		users := new(MockUserRepo)
		gateway := new(MockGateway)

		users.On("GetByID", uint(1)).Return(buyer, nil)
		users.On("GetByID", uint(2)).Return(seller, nil)
		products.On("GetByID", uint(7)).Return(product, nil)
		products.On("DecrementStock", mock.Anything, uint(7), 500).Return(repositories.ErrInsufficientStock)
		orders.On("Transaction", mock.Anything).Return(nil)

		svc := newTestService(orders, products, users, new(MockLedgerRepo), new(MockWallets), gateway)
		_, err := svc.Checkout(context.Background(), 1, CheckoutInput{
			Items: []CheckoutItem{{ProductID: 7, Quantity: 500}},
		})

		assert.ErrorIs(t, err, ErrInsufficientStock)
		gateway.AssertNotCalled(t, "InitializeTransaction")
		orders.AssertNotCalled(t, "Create")
	})

	t.Run("below minimum order quantity", func(t *testing.T) {
		users := new(MockUserRepo)
		products := new(MockProductRepo)
		users.On("GetByID", uint(1)).Return(buyer, nil)
		products.On("GetByID", uint(7)).Return(product, nil)

		svc := newTestService(new(MockOrderRepo), products, users, new(MockLedgerRepo), new(MockWallets), new(MockGateway))
		_, err := svc.Checkout(context.Background(), 1, CheckoutInput{
			Items: []CheckoutItem{{ProductID: 7, Quantity: 5}},
		})

		assert.ErrorIs(t, err, ErrBelowMinimum)
	})

	t.Run("own product rejected", func(t *testing.T) {
		users := new(MockUserRepo)
		products := new(MockProductRepo)
		users.On("GetByID", uint(2)).Return(seller, nil)
		products.On("GetByID", uint(7)).Return(product, nil)

		svc := newTestService(new(MockOrderRepo), products, users, new(MockLedgerRepo), new(MockWallets), new(MockGateway))
		_, err := svc.Checkout(context.Background(), 2, CheckoutInput{
			Items: []CheckoutItem{{ProductID: 7, Quantity: 50}},
		})

		assert.ErrorIs(t, err, ErrSelfPurchase)
	})

	t.Run("empty order rejected", func(t *testing.T) {
		svc := newTestService(new(MockOrderRepo), new(MockProductRepo), new(MockUserRepo), new(MockLedgerRepo), new(MockWallets), new(MockGateway))
		_, err := svc.Checkout(context.Background(), 1, CheckoutInput{})
		assert.ErrorIs(t, err, ErrEmptyOrder)
	})
}

func TestCancel(t *testing.T) {
	t.Run("captured order refunds buyer and restores stock", func(t *testing.T) {
		o := escrowedOrder(nil)

		orders := new(MockOrderRepo)
		products := new(MockProductRepo)
		wallets := new(MockWallets)

		orders.On("GetByID", uint(42)).Return(o, nil)
		orders.On("UpdateStatus", uint(42),
			[]string{models.OrderPending, models.OrderHeldInEscrow}, models.OrderCancelled).Return(true, nil)
		orders.On("Transaction", mock.Anything).Return(nil)
		orders.On("Update", mock.Anything).Return(nil)
		products.On("RestoreStock", mock.Anything, uint(7), 50).Return(nil)
		wallets.On("Credit", mock.Anything, mock.MatchedBy(func(e wallet.Entry) bool {
			return e.UserID == 1 && e.Amount == 10000 && e.Category == models.CategoryOrderRefund
		})).Return(nil)

		svc := newTestService(orders, products, new(MockUserRepo), new(MockLedgerRepo), wallets, new(MockGateway))
		err := svc.Cancel(context.Background(), 42, 1, false, "changed my mind")

		assert.NoError(t, err)
		products.AssertExpectations(t)
		wallets.AssertExpectations(t)
	})

	t.Run("unpaid order fails the pending ledger entry", func(t *testing.T) {
		o := escrowedOrder(nil)
		o.Status = models.OrderPending
		o.PaymentCaptured = false

		orders := new(MockOrderRepo)
		products := new(MockProductRepo)
		ledger := new(MockLedgerRepo)
		wallets := new(MockWallets)

		orders.On("GetByID", uint(42)).Return(o, nil)
		orders.On("UpdateStatus", uint(42),
			[]string{models.OrderPending, models.OrderHeldInEscrow}, models.OrderCancelled).Return(true, nil)
		orders.On("Transaction", mock.Anything).Return(nil)
		orders.On("Update", mock.Anything).Return(nil)
		products.On("RestoreStock", mock.Anything, uint(7), 50).Return(nil)
		ledger.On("MarkStatus", mock.Anything, "ORD-abc", models.LedgerFailed).Return(nil)

		svc := newTestService(orders, products, new(MockUserRepo), ledger, wallets, new(MockGateway))
		err := svc.Cancel(context.Background(), 42, 1, false, "")

		assert.NoError(t, err)
		wallets.AssertNotCalled(t, "Credit")
		ledger.AssertExpectations(t)
	})

	t.Run("stranger cannot cancel", func(t *testing.T) {
		o := escrowedOrder(nil)
		orders := new(MockOrderRepo)
		orders.On("GetByID", uint(42)).Return(o, nil)

		svc := newTestService(orders, new(MockProductRepo), new(MockUserRepo), new(MockLedgerRepo), new(MockWallets), new(MockGateway))
		err := svc.Cancel(context.Background(), 42, 99, false, "")

		assert.ErrorIs(t, err, ErrNotParticipant)
	})

	t.Run("delivered order cannot be cancelled", func(t *testing.T) {
		o := escrowedOrder(nil)
		o.Status = models.OrderDelivered

		orders := new(MockOrderRepo)
		orders.On("GetByID", uint(42)).Return(o, nil)
		orders.On("UpdateStatus", uint(42),
			[]string{models.OrderPending, models.OrderHeldInEscrow}, models.OrderCancelled).Return(false, nil)

		svc := newTestService(orders, new(MockProductRepo), new(MockUserRepo), new(MockLedgerRepo), new(MockWallets), new(MockGateway))
		err := svc.Cancel(context.Background(), 42, 1, false, "")

		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestMarkDelivered(t *testing.T) {
	o := escrowedOrder(nil)

	t.Run("seller marks delivered", func(t *testing.T) {
		orders := new(MockOrderRepo)
		orders.On("GetByID", uint(42)).Return(o, nil)
		orders.On("UpdateStatus", uint(42), []string{models.OrderHeldInEscrow}, models.OrderDelivered).Return(true, nil)

		svc := newTestService(orders, new(MockProductRepo), new(MockUserRepo), new(MockLedgerRepo), new(MockWallets), new(MockGateway))
		assert.NoError(t, svc.MarkDelivered(2, 42))
	})

	t.Run("buyer cannot mark delivered", func(t *testing.T) {
		orders := new(MockOrderRepo)
		orders.On("GetByID", uint(42)).Return(o, nil)

		svc := newTestService(orders, new(MockProductRepo), new(MockUserRepo), new(MockLedgerRepo), new(MockWallets), new(MockGateway))
		assert.ErrorIs(t, svc.MarkDelivered(1, 42), ErrNotParticipant)
	})
}

func TestExpireStalePending(t *testing.T) {
	o := escrowedOrder(nil)
	o.Status = models.OrderPending
	o.PaymentCaptured = false

	orders := new(MockOrderRepo)
	products := new(MockProductRepo)
	ledger := new(MockLedgerRepo)

	orders.On("ListStale", models.OrderPending, mock.Anything, 100).Return([]models.Order{*o}, nil)
	orders.On("UpdateStatus", uint(42), []string{models.OrderPending}, models.OrderCancelled).Return(true, nil)
	orders.On("Transaction", mock.Anything).Return(nil)
	products.On("RestoreStock", mock.Anything, uint(7), 50).Return(nil)
	ledger.On("MarkStatus", mock.Anything, "ORD-abc", models.LedgerFailed).Return(nil)

	svc := newTestService(orders, products, new(MockUserRepo), ledger, new(MockWallets), new(MockGateway))
	n, err := svc.ExpireStalePending(context.Background(), 30*time.Minute)

	assert.NoError(t, err)
	assert.Equal(t, 1, n)
	products.AssertExpectations(t)
}

// ---- mocks ----

type MockOrderRepo struct{ mock.Mock }

func (m *MockOrderRepo) Create(tx *gorm.DB, order *models.Order) error {
	return m.Called(tx, order).Error(0)
}

func (m *MockOrderRepo) GetByID(id uint) (*models.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepo) GetByReference(reference string) (*models.Order, error) {
	args := m.Called(reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepo) Update(order *models.Order) error {
	return m.Called(order).Error(0)
}

func (m *MockOrderRepo) ListByBuyer(buyerID uint, limit, offset int) ([]models.Order, int64, error) {
	args := m.Called(buyerID, limit, offset)
	return args.Get(0).([]models.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepo) ListBySeller(sellerID uint, limit, offset int) ([]models.Order, int64, error) {
	args := m.Called(sellerID, limit, offset)
	return args.Get(0).([]models.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepo) ListByAgent(agentID uint, limit, offset int) ([]models.Order, int64, error) {
	args := m.Called(agentID, limit, offset)
	return args.Get(0).([]models.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepo) ListAll(limit, offset int) ([]models.Order, int64, error) {
	args := m.Called(limit, offset)
	return args.Get(0).([]models.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepo) ClaimPayout(orderID uint) (bool, error) {
	args := m.Called(orderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepo) ReleaseStalePayoutClaim(orderID uint, before time.Time) (bool, error) {
	args := m.Called(orderID, before)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepo) UpdateStatus(orderID uint, fromStatuses []string, toStatus string) (bool, error) {
	args := m.Called(orderID, fromStatuses, toStatus)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepo) MarkPaid(tx *gorm.DB, reference string) (bool, error) {
	args := m.Called(tx, reference)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepo) ListStale(status string, cutoff time.Time, limit int) ([]models.Order, error) {
	args := m.Called(status, cutoff, limit)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepo) Transaction(fn func(tx *gorm.DB) error) error {
	m.Called(fn)
	return fn(nil)
}

type MockProductRepo struct{ mock.Mock }

func (m *MockProductRepo) Create(product *models.Product) error { return m.Called(product).Error(0) }

func (m *MockProductRepo) GetByID(id uint) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepo) Update(product *models.Product) error { return m.Called(product).Error(0) }
func (m *MockProductRepo) Delete(id uint) error                 { return m.Called(id).Error(0) }

func (m *MockProductRepo) List(filter repositories.ProductFilter, limit, offset int) ([]models.Product, int64, error) {
	args := m.Called(filter, limit, offset)
	return args.Get(0).([]models.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepo) DecrementStock(tx *gorm.DB, productID uint, quantity int) error {
	return m.Called(tx, productID, quantity).Error(0)
}

func (m *MockProductRepo) RestoreStock(tx *gorm.DB, productID uint, quantity int) error {
	return m.Called(tx, productID, quantity).Error(0)
}

type MockUserRepo struct{ mock.Mock }

func (m *MockUserRepo) Create(user *models.User) error { return m.Called(user).Error(0) }

func (m *MockUserRepo) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) GetByPhone(phone string) (*models.User, error) {
	args := m.Called(phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) GetByCustomerCode(code string) (*models.User, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) Update(user *models.User) error { return m.Called(user).Error(0) }

func (m *MockUserRepo) IncrementTokenVersion(userID uint) error {
	return m.Called(userID).Error(0)
}

func (m *MockUserRepo) List(offset, limit int) ([]*models.User, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]*models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepo) ListByAgent(agentID uint) ([]*models.User, error) {
	args := m.Called(agentID)
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepo) SetKYCState(userID uint, status string, verified bool) error {
	return m.Called(userID, status, verified).Error(0)
}

type MockLedgerRepo struct{ mock.Mock }

func (m *MockLedgerRepo) Create(tx *gorm.DB, entry *models.WalletTransaction) error {
	return m.Called(tx, entry).Error(0)
}

func (m *MockLedgerRepo) GetByReference(reference string) (*models.WalletTransaction, error) {
	args := m.Called(reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WalletTransaction), args.Error(1)
}

func (m *MockLedgerRepo) MarkStatus(tx *gorm.DB, reference, status string) error {
	return m.Called(tx, reference, status).Error(0)
}

func (m *MockLedgerRepo) ListByUser(userID uint, limit, offset int) ([]models.WalletTransaction, int64, error) {
	args := m.Called(userID, limit, offset)
	return args.Get(0).([]models.WalletTransaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockLedgerRepo) ListByCategory(userID uint, category string, limit, offset int) ([]models.WalletTransaction, error) {
	args := m.Called(userID, category, limit, offset)
	return args.Get(0).([]models.WalletTransaction), args.Error(1)
}

func (m *MockLedgerRepo) ListAll(limit, offset int) ([]models.WalletTransaction, int64, error) {
	args := m.Called(limit, offset)
	return args.Get(0).([]models.WalletTransaction), args.Get(1).(int64), args.Error(2)
}

type MockWallets struct{ mock.Mock }

func (m *MockWallets) CreateWallet(ctx context.Context, userID uint, currency string) (*models.Wallet, error) {
	args := m.Called(ctx, userID, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockWallets) GetWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockWallets) Credit(ctx context.Context, entry wallet.Entry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockWallets) Debit(ctx context.Context, entry wallet.Entry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockWallets) RecordPending(ctx context.Context, entryType string, entry wallet.Entry) error {
	return m.Called(ctx, entryType, entry).Error(0)
}

func (m *MockWallets) History(ctx context.Context, userID uint, limit, offset int) ([]models.WalletTransaction, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]models.WalletTransaction), args.Get(1).(int64), args.Error(2)
}

type MockGateway struct{ mock.Mock }

func (m *MockGateway) InitializeTransaction(ctx context.Context, req *paystack.InitializeTransactionRequest) (*paystack.InitializeTransactionData, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paystack.InitializeTransactionData), args.Error(1)
}

func (m *MockGateway) InitiateTransfer(ctx context.Context, recipientCode, reason, reference string, amountKobo int64) (*paystack.TransferData, error) {
	args := m.Called(ctx, recipientCode, reason, reference, amountKobo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paystack.TransferData), args.Error(1)
}
