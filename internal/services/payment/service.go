// Package payment integrates the Paystack gateway: wallet top-ups,
// withdrawals, bank detail verification, dedicated virtual accounts, and the
// webhook reconciliation that settles pending ledger entries.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"agromart/internal/gateway/paystack"
	"agromart/internal/models"
	"agromart/internal/repositories"
	"agromart/internal/services/notification"
	"agromart/internal/services/wallet"
	"agromart/internal/utils"
	"agromart/internal/validation"

	"gorm.io/gorm"
)

// Gateway is the slice of the Paystack client the payment flows need.
type Gateway interface {
	InitializeTransaction(ctx context.Context, req *paystack.InitializeTransactionRequest) (*paystack.InitializeTransactionData, error)
	VerifyTransaction(ctx context.Context, reference string) (*paystack.VerifyTransactionData, error)
	ResolveAccount(ctx context.Context, accountNumber, bankCode string) (*paystack.ResolveAccountData, error)
	CreateTransferRecipient(ctx context.Context, name, accountNumber, bankCode string) (*paystack.TransferRecipientData, error)
	InitiateTransfer(ctx context.Context, recipientCode, reason, reference string, amountKobo int64) (*paystack.TransferData, error)
	CreateCustomer(ctx context.Context, req *paystack.CreateCustomerRequest) (*paystack.CustomerData, error)
	CreateDedicatedAccount(ctx context.Context, customerCode, preferredBank string) (*paystack.DedicatedAccountData, error)
}

// Config carries gateway-related settings.
type Config struct {
	// PreferredDVABank is the provider slug passed when requesting a
	// dedicated virtual account, e.g. "wema-bank".
	PreferredDVABank string
}

// TopupResult carries the checkout URL for a wallet top-up.
type TopupResult struct {
	AuthorizationURL string `json:"authorization_url"`
	Reference        string `json:"reference"`
}

// BankDetails is what a seller gets back after verification.
type BankDetails struct {
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	BankCode      string `json:"bank_code"`
}

// DVADetails describes the dedicated virtual account assigned to a user.
type DVADetails struct {
	AccountNumber string `json:"account_number"`
	BankName      string `json:"bank_name"`
}

type Service interface {
	// InitializeTopup starts a card/bank checkout that funds the wallet.
	// The webhook settles the pending entry when the charge succeeds.
	InitializeTopup(ctx context.Context, userID uint, amount float64) (*TopupResult, error)

	// Withdraw pushes wallet funds to the user's verified bank account.
	// The wallet is debited only after the gateway accepts the transfer.
	Withdraw(ctx context.Context, userID uint, amount float64) error

	// SubmitBankDetails resolves the account against the gateway, creates
	// a transfer recipient, and stores the verified details on the user.
	SubmitBankDetails(ctx context.Context, userID uint, bankCode, accountNumber string) (*BankDetails, error)

	// RequestDVA provisions a dedicated virtual account the user can pay
	// into to fund their wallet by bank transfer.
	RequestDVA(ctx context.Context, userID uint) (*DVADetails, error)

	// HandleWebhook applies a verified gateway event. Re-delivered events
	// are no-ops: every effect is keyed on a pending ledger entry or a
	// guarded status transition.
	HandleWebhook(ctx context.Context, event *paystack.WebhookEvent) error
}

type service struct {
	userRepo   repositories.UserRepository
	walletRepo repositories.WalletRepository
	ledgerRepo repositories.LedgerRepository
	orderRepo  repositories.OrderRepository
	rfqRepo    repositories.RFQRepository
	wallets    wallet.Service
	gateway    Gateway
	notifier   notification.Service
	cfg        Config
}

func NewService(
	userRepo repositories.UserRepository,
	walletRepo repositories.WalletRepository,
	ledgerRepo repositories.LedgerRepository,
	orderRepo repositories.OrderRepository,
	rfqRepo repositories.RFQRepository,
	wallets wallet.Service,
	gateway Gateway,
	notifier notification.Service,
	cfg Config,
) Service {
	if userRepo == nil || walletRepo == nil || ledgerRepo == nil || orderRepo == nil || rfqRepo == nil {
		panic("payment service repositories are required")
	}
	if gateway == nil {
		panic("payment gateway is required")
	}
	return &service{
		userRepo:   userRepo,
		walletRepo: walletRepo,
		ledgerRepo: ledgerRepo,
		orderRepo:  orderRepo,
		rfqRepo:    rfqRepo,
		wallets:    wallets,
		gateway:    gateway,
		notifier:   notifier,
		cfg:        cfg,
	}
}

func (s *service) InitializeTopup(ctx context.Context, userID uint, amount float64) (*TopupResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	reference := utils.NewReference("TOP")
	if err := s.wallets.RecordPending(ctx, models.LedgerCredit, wallet.Entry{
		UserID:      userID,
		Amount:      amount,
		Category:    models.CategoryTopup,
		Reference:   reference,
		Description: "Wallet top-up",
	}); err != nil {
		return nil, fmt.Errorf("failed to record top-up entry: %w", err)
	}

	init, err := s.gateway.InitializeTransaction(ctx, &paystack.InitializeTransactionRequest{
		Email:     user.Email,
		Amount:    paystack.Kobo(amount),
		Reference: reference,
		Metadata:  map[string]interface{}{"user_id": userID, "purpose": "topup"},
	})
	if err != nil {
		if merr := s.ledgerRepo.MarkStatus(nil, reference, models.LedgerFailed); merr != nil {
			log.Printf("WARN: failed to fail top-up entry %s: %v", reference, merr)
		}
		return nil, fmt.Errorf("failed to initialize top-up: %w", err)
	}

	return &TopupResult{AuthorizationURL: init.AuthorizationURL, Reference: reference}, nil
}

func (s *service) Withdraw(ctx context.Context, userID uint, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if !user.BankVerified || user.RecipientCode == "" {
		return ErrBankNotVerified
	}

	// Debit before touching the gateway: the guarded balance update is the
	// only check that holds under concurrent withdrawals.
	reference := utils.NewReference("WD")
	if err := s.wallets.Debit(ctx, wallet.Entry{
		UserID:      userID,
		Amount:      amount,
		Category:    models.CategoryWithdrawal,
		Reference:   reference,
		Description: fmt.Sprintf("Withdrawal to %s (%s)", user.AccountName, user.AccountNumber),
	}); err != nil {
		if errors.Is(err, wallet.ErrInsufficientBalance) {
			return ErrInsufficientBalance
		}
		return fmt.Errorf("withdrawal debit failed: %w", err)
	}

	if _, err := s.gateway.InitiateTransfer(ctx, user.RecipientCode, "Wallet withdrawal", reference, paystack.Kobo(amount)); err != nil {
		if cerr := s.wallets.Credit(ctx, wallet.Entry{
			UserID:      userID,
			Amount:      amount,
			Category:    models.CategoryWithdrawal,
			Reference:   reference + "-rev",
			Description: fmt.Sprintf("Withdrawal %s could not be initiated", reference),
		}); cerr != nil {
			log.Printf("ERROR: failed to re-credit aborted withdrawal %s for user %d: %v", reference, userID, cerr)
		}
		return fmt.Errorf("failed to initiate transfer: %w", err)
	}
	return nil
}

func (s *service) SubmitBankDetails(ctx context.Context, userID uint, bankCode, accountNumber string) (*BankDetails, error) {
	v := validation.New()
	v.BankDetails(bankCode, accountNumber)
	if !v.Valid() {
		return nil, errors.New(v.First())
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	resolved, err := s.gateway.ResolveAccount(ctx, accountNumber, bankCode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBankResolutionFailed, err)
	}

	recipient, err := s.gateway.CreateTransferRecipient(ctx, resolved.AccountName, accountNumber, bankCode)
	if err != nil {
		return nil, fmt.Errorf("failed to create transfer recipient: %w", err)
	}

	user.BankCode = bankCode
	user.AccountNumber = accountNumber
	user.AccountName = resolved.AccountName
	user.BankVerified = true
	user.RecipientCode = recipient.RecipientCode
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to save bank details: %w", err)
	}

	return &BankDetails{
		AccountName:   resolved.AccountName,
		AccountNumber: accountNumber,
		BankCode:      bankCode,
	}, nil
}

func (s *service) RequestDVA(ctx context.Context, userID uint) (*DVADetails, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user.DVAAccountNumber != "" {
		return &DVADetails{AccountNumber: user.DVAAccountNumber, BankName: user.DVABankName}, nil
	}

	if user.CustomerCode == "" {
		first, last := splitName(user.Name)
		customer, err := s.gateway.CreateCustomer(ctx, &paystack.CreateCustomerRequest{
			Email:     user.Email,
			FirstName: first,
			LastName:  last,
			Phone:     user.Phone,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create gateway customer: %w", err)
		}
		user.CustomerCode = customer.CustomerCode
		if err := s.userRepo.Update(user); err != nil {
			return nil, fmt.Errorf("failed to save customer code: %w", err)
		}
	}

	dva, err := s.gateway.CreateDedicatedAccount(ctx, user.CustomerCode, s.cfg.PreferredDVABank)
	if err != nil {
		return nil, fmt.Errorf("failed to create dedicated account: %w", err)
	}

	user.DVAAccountNumber = dva.AccountNumber
	user.DVABankName = dva.Bank.Name
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to save dedicated account: %w", err)
	}

	return &DVADetails{AccountNumber: dva.AccountNumber, BankName: dva.Bank.Name}, nil
}

func (s *service) HandleWebhook(ctx context.Context, event *paystack.WebhookEvent) error {
	switch event.Event {
	case paystack.EventChargeSuccess:
		return s.handleChargeSuccess(ctx, event.Data)
	case paystack.EventTransferSuccess:
		return s.handleTransferResult(ctx, event.Data, models.TransferSuccess)
	case paystack.EventTransferFailed:
		return s.handleTransferResult(ctx, event.Data, models.TransferFailed)
	case paystack.EventTransferReversed:
		return s.handleTransferResult(ctx, event.Data, models.TransferReversed)
	case paystack.EventDVAAssignSuccess:
		return s.handleDVAAssigned(event.Data)
	case paystack.EventCustomerIdentification:
		log.Printf("Gateway customer identified: %s", dataString(event.Data, "customer_code"))
		return nil
	case paystack.EventRefundProcessed:
		return s.handleRefundProcessed(event.Data)
	default:
		log.Printf("Ignoring unhandled webhook event %q", event.Event)
		return nil
	}
}

// handleChargeSuccess settles the pending ledger entry matching the charge
// reference. Charges with no pending entry are treated as inbound transfers
// to a dedicated virtual account and credited as top-ups.
func (s *service) handleChargeSuccess(ctx context.Context, data map[string]interface{}) error {
	reference := dataString(data, "reference")
	if reference == "" {
		return errors.New("charge.success payload missing reference")
	}

	entry, err := s.ledgerRepo.GetByReference(reference)
	if err != nil {
		if errors.Is(err, repositories.ErrLedgerEntryNotFound) {
			return s.creditDVAPayment(ctx, data)
		}
		return err
	}
	if entry.Status != models.LedgerPending {
		// A failed order_payment entry means the expiry job cancelled the
		// order before the charge arrived; the captured funds still belong
		// to the buyer.
		if entry.Status == models.LedgerFailed && entry.Category == models.CategoryOrderPayment {
			return s.refundLateCharge(ctx, entry)
		}
		// Re-delivery; already settled.
		return nil
	}

	switch entry.Category {
	case models.CategoryOrderPayment:
		err = s.walletRepo.Transaction(func(tx *gorm.DB) error {
			if err := s.ledgerRepo.MarkStatus(tx, reference, models.LedgerSuccess); err != nil {
				return err
			}
			_, err := s.orderRepo.MarkPaid(tx, reference)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to settle order payment %s: %w", reference, err)
		}
		if o, gerr := s.orderRepo.GetByReference(reference); gerr == nil {
			s.notify(o.SellerID, "order_paid", "New paid order",
				fmt.Sprintf("Order #%d has been paid and is awaiting delivery.", o.ID))
			s.notify(o.BuyerID, "order_paid", "Payment confirmed",
				fmt.Sprintf("Your payment for order #%d is confirmed.", o.ID))
		}

	case models.CategoryRFQFee:
		err = s.walletRepo.Transaction(func(tx *gorm.DB) error {
			return s.ledgerRepo.MarkStatus(tx, reference, models.LedgerSuccess)
		})
		if err != nil {
			return fmt.Errorf("failed to settle RFQ fee %s: %w", reference, err)
		}
		rfq, err := s.rfqRepo.GetByReference(reference)
		if err != nil {
			return fmt.Errorf("RFQ fee %s settled but request not found: %w", reference, err)
		}
		if _, err := s.rfqRepo.Activate(rfq.ID); err != nil {
			return fmt.Errorf("failed to activate RFQ %d: %w", rfq.ID, err)
		}

	case models.CategoryTopup:
		err = s.walletRepo.Transaction(func(tx *gorm.DB) error {
			if err := s.ledgerRepo.MarkStatus(tx, reference, models.LedgerSuccess); err != nil {
				return err
			}
			return s.walletRepo.CreditBalance(tx, entry.UserID, entry.Amount)
		})
		if err != nil {
			return fmt.Errorf("failed to settle top-up %s: %w", reference, err)
		}
		s.notify(entry.UserID, "topup", "Wallet funded",
			fmt.Sprintf("₦%.2f has been added to your wallet.", entry.Amount))

	default:
		log.Printf("WARN: charge.success for unexpected ledger category %q ref %s", entry.Category, reference)
	}
	return nil
}

// refundLateCharge credits back a payment captured after its order had
// already been expired and cancelled. The derived reference hits the unique
// index on re-delivery, keeping the refund exactly-once.
func (s *service) refundLateCharge(ctx context.Context, entry *models.WalletTransaction) error {
	err := s.wallets.Credit(ctx, wallet.Entry{
		UserID:      entry.UserID,
		Amount:      entry.Amount,
		Category:    models.CategoryOrderRefund,
		Reference:   entry.Reference + "-late",
		Description: fmt.Sprintf("Refund: payment %s arrived after the order expired", entry.Reference),
		OrderID:     entry.OrderID,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateReference) {
			return nil // re-delivery
		}
		return fmt.Errorf("failed to refund late charge %s: %w", entry.Reference, err)
	}
	s.notify(entry.UserID, "refund", "Payment refunded",
		fmt.Sprintf("₦%.2f was returned to your wallet: the order had already expired when your payment arrived.", entry.Amount))
	return nil
}

// creditDVAPayment credits a bank transfer into a dedicated virtual account.
// The payer is matched by gateway customer code, falling back to email.
func (s *service) creditDVAPayment(ctx context.Context, data map[string]interface{}) error {
	reference := dataString(data, "reference")
	amountKobo := dataFloat(data, "amount")
	if amountKobo <= 0 {
		return fmt.Errorf("charge %s has no amount", reference)
	}
	amount := math.Round(amountKobo) / 100

	customer, _ := data["customer"].(map[string]interface{})
	code := dataString(customer, "customer_code")
	email := dataString(customer, "email")

	var user *models.User
	var err error
	if code != "" {
		user, err = s.userRepo.GetByCustomerCode(code)
	}
	if user == nil && email != "" {
		user, err = s.userRepo.GetByEmail(email)
	}
	if user == nil {
		log.Printf("WARN: charge %s matches no user (customer=%s email=%s)", reference, code, email)
		return err
	}

	if err := s.wallets.Credit(ctx, wallet.Entry{
		UserID:      user.ID,
		Amount:      amount,
		Category:    models.CategoryTopup,
		Reference:   reference,
		Description: "Bank transfer deposit",
	}); err != nil {
		if errors.Is(err, repositories.ErrDuplicateReference) {
			return nil // re-delivery
		}
		return fmt.Errorf("failed to credit deposit %s: %w", reference, err)
	}

	s.notify(user.ID, "topup", "Wallet funded",
		fmt.Sprintf("₦%.2f has been added to your wallet.", amount))
	return nil
}

// handleTransferResult records the outcome of an outbound transfer. Failed
// and reversed transfers put the money back in the wallet.
func (s *service) handleTransferResult(ctx context.Context, data map[string]interface{}, outcome string) error {
	reference := dataString(data, "reference")
	if reference == "" {
		return errors.New("transfer payload missing reference")
	}

	entry, err := s.ledgerRepo.GetByReference(reference)
	if err != nil {
		if errors.Is(err, repositories.ErrLedgerEntryNotFound) {
			log.Printf("WARN: transfer %s result %s matches no ledger entry", reference, outcome)
			return nil
		}
		return err
	}

	if entry.OrderID != nil {
		if o, gerr := s.orderRepo.GetByID(*entry.OrderID); gerr == nil && o.TransferStatus != outcome {
			o.TransferStatus = outcome
			if uerr := s.orderRepo.Update(o); uerr != nil {
				log.Printf("WARN: failed to record transfer status on order %d: %v", o.ID, uerr)
			}
		}
	}

	if outcome == models.TransferSuccess {
		return nil
	}

	// Refund the debit. The reversal reference is derived from the
	// transfer reference so re-delivered events hit the unique index.
	err = s.wallets.Credit(ctx, wallet.Entry{
		UserID:      entry.UserID,
		Amount:      entry.Amount,
		Category:    entry.Category,
		Reference:   reference + "-rev",
		Description: fmt.Sprintf("Transfer %s %s", reference, outcome),
		OrderID:     entry.OrderID,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateReference) {
			return nil
		}
		return fmt.Errorf("failed to refund %s transfer %s: %w", outcome, reference, err)
	}

	s.notify(entry.UserID, "transfer_failed", "Bank transfer returned",
		fmt.Sprintf("Your transfer of ₦%.2f was %s. The amount is back in your wallet.", entry.Amount, outcome))
	return nil
}

func (s *service) handleDVAAssigned(data map[string]interface{}) error {
	customer, _ := data["customer"].(map[string]interface{})
	account, _ := data["dedicated_account"].(map[string]interface{})
	code := dataString(customer, "customer_code")
	if code == "" {
		return errors.New("dedicatedaccount.assign.success payload missing customer code")
	}

	user, err := s.userRepo.GetByCustomerCode(code)
	if err != nil {
		user, err = s.userRepo.GetByEmail(dataString(customer, "email"))
		if err != nil {
			return fmt.Errorf("dedicated account assigned to unknown customer %s: %w", code, err)
		}
		user.CustomerCode = code
	}

	user.DVAAccountNumber = dataString(account, "account_number")
	if bank, ok := account["bank"].(map[string]interface{}); ok {
		user.DVABankName = dataString(bank, "name")
	}
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to save dedicated account for user %d: %w", user.ID, err)
	}

	s.notify(user.ID, "dva_assigned", "Deposit account ready",
		fmt.Sprintf("Fund your wallet by transferring to %s (%s).", user.DVAAccountNumber, user.DVABankName))
	return nil
}

// handleRefundProcessed cancels out a charge the gateway refunded at source.
// Only unpaid or escrowed orders are affected; settled orders need manual
// review.
func (s *service) handleRefundProcessed(data map[string]interface{}) error {
	reference := dataString(data, "transaction_reference")
	if reference == "" {
		reference = dataString(data, "reference")
	}
	o, err := s.orderRepo.GetByReference(reference)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			log.Printf("Refund processed for non-order charge %s", reference)
			return nil
		}
		return err
	}

	ok, err := s.orderRepo.UpdateStatus(o.ID,
		[]string{models.OrderPending, models.OrderHeldInEscrow}, models.OrderPaymentFailed)
	if err != nil {
		return err
	}
	if !ok {
		log.Printf("WARN: refund processed for order %d in status %s; manual review needed", o.ID, o.Status)
	}
	return nil
}

func (s *service) notify(userID uint, notifType, title, body string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(userID, notifType, title, body, nil)
}

func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], parts[0]
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func dataString(data map[string]interface{}, key string) string {
	if data == nil {
		return ""
	}
	s, _ := data[key].(string)
	return s
}

func dataFloat(data map[string]interface{}, key string) float64 {
	if data == nil {
		return 0
	}
	f, _ := data[key].(float64)
	return f
}
