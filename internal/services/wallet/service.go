// Package wallet manages in-app balances and the append-only transaction
// ledger. Every balance change writes a ledger row and mutates the balance
// inside one database transaction; pending entries are rows awaiting gateway
// confirmation and carry no balance effect until reconciled.
package wallet

import (
	"context"
	"errors"
	"fmt"

	"agromart/internal/models"
	"agromart/internal/repositories"

	"gorm.io/gorm"
)

// Entry describes a single ledger movement.
type Entry struct {
	UserID      uint
	Amount      float64
	Category    string
	Reference   string
	Description string
	OrderID     *uint
	RFQID       *uint
	Metadata    models.JSON
}

type Service interface {
	CreateWallet(ctx context.Context, userID uint, currency string) (*models.Wallet, error)
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, error)

	// Credit applies a confirmed inbound movement: success ledger row plus
	// balance increment.
	Credit(ctx context.Context, entry Entry) error

	// Debit applies a confirmed outbound movement, guarded by the balance.
	Debit(ctx context.Context, entry Entry) error

	// RecordPending writes a pending ledger row with no balance effect.
	// The payment webhook settles it later.
	RecordPending(ctx context.Context, entryType string, entry Entry) error

	History(ctx context.Context, userID uint, limit, offset int) ([]models.WalletTransaction, int64, error)
}

type service struct {
	walletRepo repositories.WalletRepository
	ledgerRepo repositories.LedgerRepository
}

func NewService(walletRepo repositories.WalletRepository, ledgerRepo repositories.LedgerRepository) Service {
	if walletRepo == nil {
		panic("wallet repository is required")
	}
	if ledgerRepo == nil {
		panic("ledger repository is required")
	}
	return &service{
		walletRepo: walletRepo,
		ledgerRepo: ledgerRepo,
	}
}

func (s *service) CreateWallet(ctx context.Context, userID uint, currency string) (*models.Wallet, error) {
	wallet := &models.Wallet{
		UserID:   userID,
		Currency: currency,
		Status:   "active",
	}
	if err := s.walletRepo.Create(wallet); err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}
	return wallet, nil
}

func (s *service) GetWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	wallet, err := s.walletRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return wallet, nil
}

func (s *service) Credit(ctx context.Context, entry Entry) error {
	if entry.Amount <= 0 {
		return ErrInvalidAmount
	}

	err := s.walletRepo.Transaction(func(tx *gorm.DB) error {
		if err := s.walletRepo.CreditBalance(tx, entry.UserID, entry.Amount); err != nil {
			return err
		}
		return s.ledgerRepo.Create(tx, s.buildRow(models.LedgerCredit, models.LedgerSuccess, entry))
	})
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return ErrWalletNotFound
		}
		return fmt.Errorf("credit failed: %w", err)
	}
	return nil
}

func (s *service) Debit(ctx context.Context, entry Entry) error {
	if entry.Amount <= 0 {
		return ErrInvalidAmount
	}

	err := s.walletRepo.Transaction(func(tx *gorm.DB) error {
		if err := s.walletRepo.DebitBalance(tx, entry.UserID, entry.Amount); err != nil {
			return err
		}
		return s.ledgerRepo.Create(tx, s.buildRow(models.LedgerDebit, models.LedgerSuccess, entry))
	})
	if err != nil {
		if errors.Is(err, repositories.ErrInsufficientBalance) {
			return ErrInsufficientBalance
		}
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return ErrWalletNotFound
		}
		return fmt.Errorf("debit failed: %w", err)
	}
	return nil
}

func (s *service) RecordPending(ctx context.Context, entryType string, entry Entry) error {
	if entry.Amount <= 0 {
		return ErrInvalidAmount
	}
	return s.ledgerRepo.Create(nil, s.buildRow(entryType, models.LedgerPending, entry))
}

func (s *service) History(ctx context.Context, userID uint, limit, offset int) ([]models.WalletTransaction, int64, error) {
	return s.ledgerRepo.ListByUser(userID, limit, offset)
}

func (s *service) buildRow(entryType, status string, entry Entry) *models.WalletTransaction {
	return &models.WalletTransaction{
		UserID:      entry.UserID,
		Type:        entryType,
		Category:    entry.Category,
		Amount:      entry.Amount,
		Reference:   entry.Reference,
		Status:      status,
		Description: entry.Description,
		OrderID:     entry.OrderID,
		RFQID:       entry.RFQID,
		Metadata:    entry.Metadata,
	}
}
