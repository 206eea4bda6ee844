package wallet

import (
	"context"
	"testing"

	"agromart/internal/models"
	"agromart/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockWalletRepo struct{ mock.Mock }

func (m *MockWalletRepo) Create(wallet *models.Wallet) error {
	args := m.Called(wallet)
	return args.Error(0)
}

func (m *MockWalletRepo) GetByUserID(userID uint) (*models.Wallet, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockWalletRepo) CreditBalance(tx *gorm.DB, userID uint, amount float64) error {
	args := m.Called(tx, userID, amount)
	return args.Error(0)
}

func (m *MockWalletRepo) DebitBalance(tx *gorm.DB, userID uint, amount float64) error {
	args := m.Called(tx, userID, amount)
	return args.Error(0)
}

func (m *MockWalletRepo) Transaction(fn func(tx *gorm.DB) error) error {
	m.Called(fn)
	return fn(nil)
}

type MockLedgerRepo struct{ mock.Mock }

func (m *MockLedgerRepo) Create(tx *gorm.DB, entry *models.WalletTransaction) error {
	args := m.Called(tx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepo) GetByReference(reference string) (*models.WalletTransaction, error) {
	args := m.Called(reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WalletTransaction), args.Error(1)
}

func (m *MockLedgerRepo) MarkStatus(tx *gorm.DB, reference, status string) error {
	args := m.Called(tx, reference, status)
	return args.Error(0)
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

func TestCredit(t *testing.T) {
	t.Run("writes a success ledger row with the balance change", func(t *testing.T) {
		wallets := new(MockWalletRepo)
		ledger := new(MockLedgerRepo)

		wallets.On("Transaction", mock.Anything).Return(nil)
		wallets.On("CreditBalance", mock.Anything, uint(2), 1500.0).Return(nil)
		ledger.On("Create", mock.Anything, mock.MatchedBy(func(e *models.WalletTransaction) bool {
			return e.UserID == 2 && e.Amount == 1500 &&
				e.Type == models.LedgerCredit && e.Status == models.LedgerSuccess
		})).Return(nil)

		svc := NewService(wallets, ledger)
		err := svc.Credit(context.Background(), Entry{UserID: 2, Amount: 1500, Category: models.CategoryPayout, Reference: "PAYOUT_1"})

		assert.NoError(t, err)
		ledger.AssertExpectations(t)
	})

	t.Run("zero amount", func(t *testing.T) {
		svc := NewService(new(MockWalletRepo), new(MockLedgerRepo))
		assert.ErrorIs(t, svc.Credit(context.Background(), Entry{UserID: 2}), ErrInvalidAmount)
	})
}

func TestDebit(t *testing.T) {
	t.Run("insufficient balance leaves no ledger row", func(t *testing.T) {
		wallets := new(MockWalletRepo)
		ledger := new(MockLedgerRepo)

		wallets.On("Transaction", mock.Anything).Return(nil)
		wallets.On("DebitBalance", mock.Anything, uint(2), 9000.0).
			Return(repositories.ErrInsufficientBalance)

		svc := NewService(wallets, ledger)
		err := svc.Debit(context.Background(), Entry{UserID: 2, Amount: 9000, Category: models.CategoryWithdrawal, Reference: "WD_1"})

		assert.ErrorIs(t, err, ErrInsufficientBalance)
		ledger.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("successful debit records the movement", func(t *testing.T) {
		wallets := new(MockWalletRepo)
		ledger := new(MockLedgerRepo)

		wallets.On("Transaction", mock.Anything).Return(nil)
		wallets.On("DebitBalance", mock.Anything, uint(2), 400.0).Return(nil)
		ledger.On("Create", mock.Anything, mock.MatchedBy(func(e *models.WalletTransaction) bool {
			return e.Type == models.LedgerDebit && e.Status == models.LedgerSuccess && e.Amount == 400
		})).Return(nil)

		svc := NewService(wallets, ledger)
		assert.NoError(t, svc.Debit(context.Background(), Entry{UserID: 2, Amount: 400, Category: models.CategoryWithdrawal, Reference: "WD_2"}))
	})
}

func TestRecordPending(t *testing.T) {
	ledger := new(MockLedgerRepo)
	ledger.On("Create", mock.Anything, mock.MatchedBy(func(e *models.WalletTransaction) bool {
		return e.Status == models.LedgerPending && e.Type == models.LedgerCredit
	})).Return(nil)

	svc := NewService(new(MockWalletRepo), ledger)
	err := svc.RecordPending(context.Background(), models.LedgerCredit, Entry{
		UserID: 2, Amount: 2500, Category: models.CategoryTopup, Reference: "TOP_1",
	})

	assert.NoError(t, err)
	ledger.AssertExpectations(t)
}
