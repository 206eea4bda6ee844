// Package order implements checkout and escrow settlement. Payment for an
// order is held until the buyer confirms receipt (or the auto-release job
// fires), after which the total is split between the seller, the referring
// agent, and the platform fee, and the seller's share is pushed to their
// bank account when they have verified transfer details.
package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"agromart/internal/gateway/paystack"
	"agromart/internal/models"
	"agromart/internal/repositories"
	"agromart/internal/services/notification"
	"agromart/internal/services/wallet"
	"agromart/internal/utils"

	"gorm.io/gorm"
)

// Gateway is the slice of the Paystack client the order flow needs.
type Gateway interface {
	InitializeTransaction(ctx context.Context, req *paystack.InitializeTransactionRequest) (*paystack.InitializeTransactionData, error)
	InitiateTransfer(ctx context.Context, recipientCode, reason, reference string, amountKobo int64) (*paystack.TransferData, error)
}

// Config carries the settlement split rates.
type Config struct {
	PlatformFeeRate     float64 // fraction of order total, e.g. 0.05
	AgentCommissionRate float64 // fraction of order total, paid only when an agent referred the seller
}

type CheckoutItem struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type CheckoutInput struct {
	Items           []CheckoutItem `json:"items"`
	DeliveryAddress string         `json:"delivery_address"`
}

// CheckoutResult pairs the created order with the gateway checkout URL the
// buyer is redirected to.
type CheckoutResult struct {
	Order            *models.Order `json:"order"`
	AuthorizationURL string        `json:"authorization_url"`
	Reference        string        `json:"reference"`
}

type Service interface {
	// Checkout reserves stock, creates a pending order and initializes a
	// gateway charge. Stock is reserved before the charge so two buyers
	// cannot pay for the same units; a failed initialization releases it.
	Checkout(ctx context.Context, buyerID uint, input CheckoutInput) (*CheckoutResult, error)

	GetOrder(orderID, requesterID uint, isAdmin bool) (*models.Order, error)
	ListForBuyer(buyerID uint, limit, offset int) ([]models.Order, int64, error)
	ListForSeller(sellerID uint, limit, offset int) ([]models.Order, int64, error)

	// MarkDelivered is the seller declaring the goods handed over.
	MarkDelivered(sellerID, orderID uint) error

	// ConfirmReceipt is the buyer releasing escrow. It settles the order.
	ConfirmReceipt(ctx context.Context, buyerID, orderID uint) error

	// ProcessPayout settles an order: splits the total, credits the seller
	// and agent wallets, and initiates the bank transfer for the seller's
	// share. Idempotent; a second call returns ErrAlreadyPaidOut.
	ProcessPayout(ctx context.Context, orderID uint) error

	// RetryPayout is the admin settlement path. Unlike ProcessPayout it
	// first frees a processing claim whose settlement crashed, judged by
	// the claim not having moved within the staleness window.
	RetryPayout(ctx context.Context, orderID uint) error

	// Cancel aborts a pending or escrowed order, restoring stock and
	// refunding the buyer's wallet when payment was already captured.
	Cancel(ctx context.Context, orderID, requesterID uint, isAdmin bool, reason string) error

	// Halt freezes an escrowed or delivered order pending admin review.
	Halt(orderID uint, reason string) error
	// Release lifts a halt, returning the order to escrow.
	Release(orderID uint) error

	// ExpireStalePending cancels unpaid orders older than maxAge and
	// releases their reserved stock. Returns the number expired.
	ExpireStalePending(ctx context.Context, maxAge time.Duration) (int, error)

	// AutoReleaseDelivered settles delivered orders the buyer never
	// confirmed within the grace window. Returns the number settled.
	AutoReleaseDelivered(ctx context.Context, grace time.Duration) (int, error)
}

type service struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	userRepo    repositories.UserRepository
	ledgerRepo  repositories.LedgerRepository
	wallets     wallet.Service
	gateway     Gateway
	notifier    notification.Service
	cfg         Config
}

func NewService(
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepository,
	userRepo repositories.UserRepository,
	ledgerRepo repositories.LedgerRepository,
	wallets wallet.Service,
	gateway Gateway,
	notifier notification.Service,
	cfg Config,
) Service {
	if orderRepo == nil || productRepo == nil || userRepo == nil || ledgerRepo == nil {
		panic("order service repositories are required")
	}
	if wallets == nil {
		panic("wallet service is required")
	}
	if gateway == nil {
		panic("payment gateway is required")
	}
	return &service{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		ledgerRepo:  ledgerRepo,
		wallets:     wallets,
		gateway:     gateway,
		notifier:    notifier,
		cfg:         cfg,
	}
}

func (s *service) Checkout(ctx context.Context, buyerID uint, input CheckoutInput) (*CheckoutResult, error) {
	if len(input.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	buyer, err := s.userRepo.GetByID(buyerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load buyer: %w", err)
	}

	var (
		sellerID uint
		total    float64
		items    []models.OrderItem
	)
	for _, it := range input.Items {
		product, err := s.productRepo.GetByID(it.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrProductNotFound) {
				return nil, fmt.Errorf("product %d: %w", it.ProductID, err)
			}
			return nil, fmt.Errorf("failed to load product: %w", err)
		}
		if sellerID == 0 {
			sellerID = product.SellerID
		} else if sellerID != product.SellerID {
			return nil, ErrMixedSellers
		}
		if product.SellerID == buyerID {
			return nil, ErrSelfPurchase
		}
		if it.Quantity < product.MinOrderQuantity {
			return nil, fmt.Errorf("%w: %s requires at least %d %s", ErrBelowMinimum, product.Name, product.MinOrderQuantity, product.Unit)
		}
		subtotal := round2(product.Price * float64(it.Quantity))
		total = round2(total + subtotal)
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  it.Quantity,
			Subtotal:  subtotal,
		})
	}

	seller, err := s.userRepo.GetByID(sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seller: %w", err)
	}

	reference := utils.NewReference("ORD")
	newOrder := &models.Order{
		BuyerID:          buyerID,
		SellerID:         sellerID,
		AgentID:          seller.AgentID,
		Items:            items,
		Total:            total,
		Status:           models.OrderPending,
		PaymentReference: reference,
		PayoutStatus:     models.PayoutPending,
		DeliveryAddress:  input.DeliveryAddress,
	}

	// Reserve stock and create the order in one transaction. The guarded
	// decrement rejects the whole checkout when any line is short.
	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		for _, it := range input.Items {
			if err := s.productRepo.DecrementStock(tx, it.ProductID, it.Quantity); err != nil {
				if errors.Is(err, repositories.ErrInsufficientStock) {
					return fmt.Errorf("%w: product %d", ErrInsufficientStock, it.ProductID)
				}
				return err
			}
		}
		return s.orderRepo.Create(tx, newOrder)
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err := s.wallets.RecordPending(ctx, models.LedgerDebit, wallet.Entry{
		UserID:      buyerID,
		Amount:      total,
		Category:    models.CategoryOrderPayment,
		Reference:   reference,
		Description: fmt.Sprintf("Order #%d payment", newOrder.ID),
		OrderID:     &newOrder.ID,
	}); err != nil {
		s.abortCheckout(newOrder, "ledger write failed")
		return nil, fmt.Errorf("failed to record payment entry: %w", err)
	}

	init, err := s.gateway.InitializeTransaction(ctx, &paystack.InitializeTransactionRequest{
		Email:     buyer.Email,
		Amount:    paystack.Kobo(total),
		Reference: reference,
		Metadata: map[string]interface{}{
			"order_id": newOrder.ID,
			"buyer_id": buyerID,
		},
	})
	if err != nil {
		s.abortCheckout(newOrder, "payment initialization failed")
		return nil, fmt.Errorf("failed to initialize payment: %w", err)
	}

	return &CheckoutResult{
		Order:            newOrder,
		AuthorizationURL: init.AuthorizationURL,
		Reference:        reference,
	}, nil
}

// abortCheckout releases reserved stock and marks the order and its pending
// ledger entry as failed. Best effort: a partial abort is recoverable by the
// stale-pending job.
func (s *service) abortCheckout(o *models.Order, reason string) {
	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		for _, it := range o.Items {
			if err := s.productRepo.RestoreStock(tx, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("WARN: failed to restore stock for order %d: %v", o.ID, err)
	}

	if _, err := s.orderRepo.UpdateStatus(o.ID, []string{models.OrderPending}, models.OrderPaymentFailed); err != nil {
		log.Printf("WARN: failed to mark order %d payment_failed: %v", o.ID, err)
	}
	if err := s.ledgerRepo.MarkStatus(nil, o.PaymentReference, models.LedgerFailed); err != nil && !errors.Is(err, repositories.ErrLedgerEntryNotFound) {
		log.Printf("WARN: failed to fail ledger entry %s: %v", o.PaymentReference, err)
	}
	o.Status = models.OrderPaymentFailed
	o.CancelReason = reason
}

func (s *service) GetOrder(orderID, requesterID uint, isAdmin bool) (*models.Order, error) {
	o, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if !isAdmin && o.BuyerID != requesterID && o.SellerID != requesterID {
		return nil, ErrNotParticipant
	}
	return o, nil
}

func (s *service) ListForBuyer(buyerID uint, limit, offset int) ([]models.Order, int64, error) {
	return s.orderRepo.ListByBuyer(buyerID, limit, offset)
}

func (s *service) ListForSeller(sellerID uint, limit, offset int) ([]models.Order, int64, error) {
	return s.orderRepo.ListBySeller(sellerID, limit, offset)
}

func (s *service) MarkDelivered(sellerID, orderID uint) error {
	o, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	if o.SellerID != sellerID {
		return ErrNotParticipant
	}

	ok, err := s.orderRepo.UpdateStatus(orderID, []string{models.OrderHeldInEscrow}, models.OrderDelivered)
	if err != nil {
		return fmt.Errorf("failed to mark delivered: %w", err)
	}
	if !ok {
		return ErrInvalidTransition
	}

	s.notify(o.BuyerID, "order_delivered", "Order delivered",
		fmt.Sprintf("Order #%d has been marked delivered. Confirm receipt to release payment.", o.ID), o.ID)
	return nil
}

func (s *service) ConfirmReceipt(ctx context.Context, buyerID, orderID uint) error {
	o, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	if o.BuyerID != buyerID {
		return ErrNotParticipant
	}
	return s.ProcessPayout(ctx, orderID)
}

func (s *service) ProcessPayout(ctx context.Context, orderID uint) error {
	claimed, err := s.orderRepo.ClaimPayout(orderID)
	if err != nil {
		return fmt.Errorf("failed to claim payout: %w", err)
	}
	if !claimed {
		// Nothing matched the guard; re-read to say why.
		o, err := s.orderRepo.GetByID(orderID)
		if err != nil {
			if errors.Is(err, repositories.ErrOrderNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if o.PayoutStatus == models.PayoutCompleted || o.PayoutStatus == models.PayoutProcessing {
			return ErrAlreadyPaidOut
		}
		return ErrInvalidPayoutStatus
	}

	o, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return fmt.Errorf("failed to reload order: %w", err)
	}

	if err := s.settle(ctx, o); err != nil {
		// Release the claim so an admin retry can pick it up.
		o.PayoutStatus = models.PayoutFailed
		if uerr := s.orderRepo.Update(o); uerr != nil {
			log.Printf("ERROR: failed to release payout claim for order %d: %v", o.ID, uerr)
		}
		return err
	}
	return nil
}

// payoutClaimStaleAfter is how long a processing claim may sit untouched
// before the admin retry path may assume the settlement died mid-flight.
const payoutClaimStaleAfter = 15 * time.Minute

func (s *service) RetryPayout(ctx context.Context, orderID uint) error {
	released, err := s.orderRepo.ReleaseStalePayoutClaim(orderID, time.Now().Add(-payoutClaimStaleAfter))
	if err != nil {
		return fmt.Errorf("failed to release payout claim: %w", err)
	}
	if released {
		log.Printf("Released stale payout claim on order %d for retry", orderID)
	}
	return s.ProcessPayout(ctx, orderID)
}

func (s *service) settle(ctx context.Context, o *models.Order) error {
	seller, err := s.userRepo.GetByID(o.SellerID)
	if err != nil {
		return fmt.Errorf("failed to load seller: %w", err)
	}

	platformFee := round2(o.Total * s.cfg.PlatformFeeRate)
	agentCommission := 0.0
	if o.AgentID != nil {
		agentCommission = round2(o.Total * s.cfg.AgentCommissionRate)
	}
	sellerAmount := round2(o.Total - platformFee - agentCommission)

	if err := s.wallets.Credit(ctx, wallet.Entry{
		UserID:      o.SellerID,
		Amount:      sellerAmount,
		Category:    models.CategoryPayout,
		Reference:   utils.NewReference("PAYOUT"),
		Description: fmt.Sprintf("Payout for order #%d", o.ID),
		OrderID:     &o.ID,
	}); err != nil {
		return fmt.Errorf("failed to credit seller: %w", err)
	}

	if o.AgentID != nil && agentCommission > 0 {
		if err := s.wallets.Credit(ctx, wallet.Entry{
			UserID:      *o.AgentID,
			Amount:      agentCommission,
			Category:    models.CategoryAgentCommission,
			Reference:   utils.NewReference("COMM"),
			Description: fmt.Sprintf("Commission for order #%d", o.ID),
			OrderID:     &o.ID,
		}); err != nil {
			// Seller is already credited; do not unwind. Log and flag for
			// manual settlement rather than double-crediting on retry.
			log.Printf("ERROR: agent commission credit failed for order %d agent %d: %v", o.ID, *o.AgentID, err)
		}
	}

	o.PlatformFee = platformFee
	o.AgentCommission = agentCommission
	o.SellerAmount = sellerAmount
	o.TransferStatus = models.TransferSkipped

	// Push the seller's share to their bank when transfer details exist.
	// The wallet is debited only after the gateway accepts the transfer,
	// so a rejected transfer leaves the money spendable in-app.
	if seller.BankVerified && seller.RecipientCode != "" {
		transferRef := utils.NewReference("TRF")
		transfer, err := s.gateway.InitiateTransfer(ctx, seller.RecipientCode,
			fmt.Sprintf("Order #%d settlement", o.ID), transferRef, paystack.Kobo(sellerAmount))
		if err != nil {
			log.Printf("WARN: transfer initiation failed for order %d: %v", o.ID, err)
			o.TransferStatus = models.TransferFailed
		} else {
			if err := s.wallets.Debit(ctx, wallet.Entry{
				UserID:      o.SellerID,
				Amount:      sellerAmount,
				Category:    models.CategoryWithdrawal,
				Reference:   transferRef,
				Description: fmt.Sprintf("Bank transfer for order #%d", o.ID),
				OrderID:     &o.ID,
			}); err != nil {
				// Transfer is in flight but the wallet debit failed; the
				// transfer webhook reconciles this by reference.
				log.Printf("ERROR: wallet debit failed after transfer init for order %d ref %s: %v", o.ID, transferRef, err)
			}
			o.TransferCode = transfer.TransferCode
			o.TransferStatus = models.TransferInitiated
		}
	}

	now := time.Now()
	o.PayoutStatus = models.PayoutCompleted
	o.Status = models.OrderCompleted
	o.CompletedAt = &now
	if err := s.orderRepo.Update(o); err != nil {
		return fmt.Errorf("failed to finalize order: %w", err)
	}

	s.notify(o.SellerID, "payout", "Payment released",
		fmt.Sprintf("₦%.2f for order #%d has been released to you.", sellerAmount, o.ID), o.ID)
	if o.AgentID != nil && agentCommission > 0 {
		s.notify(*o.AgentID, "commission", "Commission earned",
			fmt.Sprintf("You earned ₦%.2f commission on order #%d.", agentCommission, o.ID), o.ID)
	}

	log.Printf("Order %d settled: seller=%.2f fee=%.2f commission=%.2f transfer=%s",
		o.ID, sellerAmount, platformFee, agentCommission, o.TransferStatus)
	return nil
}

func (s *service) Cancel(ctx context.Context, orderID, requesterID uint, isAdmin bool, reason string) error {
	o, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	if !isAdmin && o.BuyerID != requesterID {
		return ErrNotParticipant
	}

	// The guarded transition is the cancellation claim; losing the race
	// with a delivery or payout leaves the order untouched.
	ok, err := s.orderRepo.UpdateStatus(orderID,
		[]string{models.OrderPending, models.OrderHeldInEscrow}, models.OrderCancelled)
	if err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}
	if !ok {
		return ErrInvalidTransition
	}

	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		for _, it := range o.Items {
			if err := s.productRepo.RestoreStock(tx, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("ERROR: failed to restore stock for cancelled order %d: %v", o.ID, err)
	}

	if o.PaymentCaptured {
		if err := s.wallets.Credit(ctx, wallet.Entry{
			UserID:      o.BuyerID,
			Amount:      o.Total,
			Category:    models.CategoryOrderRefund,
			Reference:   utils.NewReference("RFND"),
			Description: fmt.Sprintf("Refund for cancelled order #%d", o.ID),
			OrderID:     &o.ID,
		}); err != nil {
			return fmt.Errorf("order cancelled but refund failed: %w", err)
		}
	} else {
		// Unpaid: retire the pending charge entry.
		if err := s.ledgerRepo.MarkStatus(nil, o.PaymentReference, models.LedgerFailed); err != nil && !errors.Is(err, repositories.ErrLedgerEntryNotFound) {
			log.Printf("WARN: failed to fail ledger entry %s: %v", o.PaymentReference, err)
		}
	}

	o.Status = models.OrderCancelled
	o.CancelReason = reason
	if err := s.orderRepo.Update(o); err != nil {
		log.Printf("WARN: failed to record cancel reason for order %d: %v", o.ID, err)
	}

	s.notify(o.SellerID, "order_cancelled", "Order cancelled",
		fmt.Sprintf("Order #%d was cancelled.", o.ID), o.ID)
	return nil
}

func (s *service) Halt(orderID uint, reason string) error {
	ok, err := s.orderRepo.UpdateStatus(orderID,
		[]string{models.OrderHeldInEscrow, models.OrderDelivered}, models.OrderHalted)
	if err != nil {
		return fmt.Errorf("failed to halt order: %w", err)
	}
	if !ok {
		return ErrInvalidTransition
	}
	log.Printf("Order %d halted: %s", orderID, reason)
	return nil
}

func (s *service) Release(orderID uint) error {
	ok, err := s.orderRepo.UpdateStatus(orderID, []string{models.OrderHalted}, models.OrderHeldInEscrow)
	if err != nil {
		return fmt.Errorf("failed to release order: %w", err)
	}
	if !ok {
		return ErrInvalidTransition
	}
	return nil
}

func (s *service) ExpireStalePending(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	stale, err := s.orderRepo.ListStale(models.OrderPending, cutoff, 100)
	if err != nil {
		return 0, fmt.Errorf("failed to list stale orders: %w", err)
	}

	expired := 0
	for i := range stale {
		o := &stale[i]
		ok, err := s.orderRepo.UpdateStatus(o.ID, []string{models.OrderPending}, models.OrderCancelled)
		if err != nil || !ok {
			continue
		}
		rerr := s.orderRepo.Transaction(func(tx *gorm.DB) error {
			for _, it := range o.Items {
				if err := s.productRepo.RestoreStock(tx, it.ProductID, it.Quantity); err != nil {
					return err
				}
			}
			return nil
		})
		if rerr != nil {
			log.Printf("ERROR: failed to restore stock for expired order %d: %v", o.ID, rerr)
		}
		if err := s.ledgerRepo.MarkStatus(nil, o.PaymentReference, models.LedgerFailed); err != nil && !errors.Is(err, repositories.ErrLedgerEntryNotFound) {
			log.Printf("WARN: failed to fail ledger entry %s: %v", o.PaymentReference, err)
		}
		expired++
	}
	return expired, nil
}

func (s *service) AutoReleaseDelivered(ctx context.Context, grace time.Duration) (int, error) {
	cutoff := time.Now().Add(-grace)
	due, err := s.orderRepo.ListStale(models.OrderDelivered, cutoff, 100)
	if err != nil {
		return 0, fmt.Errorf("failed to list delivered orders: %w", err)
	}

	released := 0
	for i := range due {
		if err := s.ProcessPayout(ctx, due[i].ID); err != nil {
			if errors.Is(err, ErrAlreadyPaidOut) {
				continue
			}
			log.Printf("ERROR: auto-release failed for order %d: %v", due[i].ID, err)
			continue
		}
		released++
	}
	return released, nil
}

func (s *service) notify(userID uint, notifType, title, body string, orderID uint) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(userID, notifType, title, body, models.JSON{"order_id": orderID})
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
