// Package rfq implements buyer sourcing requests. A request goes live only
// after the listing fee is paid; verified sellers then submit quotes.
package rfq

import (
	"context"
	"errors"
	"fmt"

	"agromart/internal/gateway/paystack"
	"agromart/internal/models"
	"agromart/internal/repositories"
	"agromart/internal/services/wallet"
	"agromart/internal/utils"
	"agromart/internal/validation"
)

var (
	ErrRFQNotFound    = errors.New("request not found")
	ErrNotOpen        = errors.New("request is not open for quotes")
	ErrNotOwner       = errors.New("request belongs to another buyer")
	ErrDuplicateQuote = errors.New("you have already quoted on this request")
	ErrSellerOnly     = errors.New("only verified sellers can quote")
)

// Gateway initializes the listing fee charge.
type Gateway interface {
	InitializeTransaction(ctx context.Context, req *paystack.InitializeTransactionRequest) (*paystack.InitializeTransactionData, error)
}

type Config struct {
	ListingFee float64 // flat NGN fee to publish a request
}

// CreateResult pairs the draft request with the fee checkout URL.
type CreateResult struct {
	RFQ              *models.RFQ `json:"rfq"`
	AuthorizationURL string      `json:"authorization_url"`
	Reference        string      `json:"reference"`
}

type QuoteInput struct {
	PricePerUnit float64 `json:"price_per_unit"`
	Note         string  `json:"note"`
}

type Service interface {
	// Create stores the request as pending_payment and initializes the
	// listing fee charge. The payment webhook opens it.
	Create(ctx context.Context, buyerID uint, rfq *models.RFQ) (*CreateResult, error)

	Get(rfqID uint) (*models.RFQ, error)
	ListOpen(category string, limit, offset int) ([]models.RFQ, int64, error)
	ListMine(buyerID uint, limit, offset int) ([]models.RFQ, error)
	Close(rfqID, buyerID uint) error

	SubmitQuote(rfqID, sellerID uint, input QuoteInput) (*models.RFQQuote, error)
	ListQuotes(rfqID, requesterID uint) ([]models.RFQQuote, error)
}

type service struct {
	rfqRepo  repositories.RFQRepository
	userRepo repositories.UserRepository
	wallets  wallet.Service
	gateway  Gateway
	cfg      Config
}

func NewService(rfqRepo repositories.RFQRepository, userRepo repositories.UserRepository, wallets wallet.Service, gateway Gateway, cfg Config) Service {
	if rfqRepo == nil || userRepo == nil {
		panic("rfq repositories are required")
	}
	if gateway == nil {
		panic("payment gateway is required")
	}
	return &service{
		rfqRepo:  rfqRepo,
		userRepo: userRepo,
		wallets:  wallets,
		gateway:  gateway,
		cfg:      cfg,
	}
}

func (s *service) Create(ctx context.Context, buyerID uint, rfq *models.RFQ) (*CreateResult, error) {
	v := validation.New()
	v.RFQ(rfq)
	if !v.Valid() {
		return nil, errors.New(v.First())
	}

	buyer, err := s.userRepo.GetByID(buyerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load buyer: %w", err)
	}

	reference := utils.NewReference("RFQ")
	rfq.BuyerID = buyerID
	rfq.Status = models.RFQPendingPayment
	rfq.PaymentReference = reference
	if err := s.rfqRepo.Create(rfq); err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if err := s.wallets.RecordPending(ctx, models.LedgerDebit, wallet.Entry{
		UserID:      buyerID,
		Amount:      s.cfg.ListingFee,
		Category:    models.CategoryRFQFee,
		Reference:   reference,
		Description: fmt.Sprintf("Listing fee for request #%d", rfq.ID),
		RFQID:       &rfq.ID,
	}); err != nil {
		return nil, fmt.Errorf("failed to record listing fee: %w", err)
	}

	init, err := s.gateway.InitializeTransaction(ctx, &paystack.InitializeTransactionRequest{
		Email:     buyer.Email,
		Amount:    paystack.Kobo(s.cfg.ListingFee),
		Reference: reference,
		Metadata:  map[string]interface{}{"rfq_id": rfq.ID, "purpose": "rfq_fee"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize listing fee: %w", err)
	}

	return &CreateResult{RFQ: rfq, AuthorizationURL: init.AuthorizationURL, Reference: reference}, nil
}

func (s *service) Get(rfqID uint) (*models.RFQ, error) {
	rfq, err := s.rfqRepo.GetByID(rfqID)
	if err != nil {
		if errors.Is(err, repositories.ErrRFQNotFound) {
			return nil, ErrRFQNotFound
		}
		return nil, err
	}
	return rfq, nil
}

func (s *service) ListOpen(category string, limit, offset int) ([]models.RFQ, int64, error) {
	return s.rfqRepo.ListOpen(category, limit, offset)
}

func (s *service) ListMine(buyerID uint, limit, offset int) ([]models.RFQ, error) {
	return s.rfqRepo.ListByBuyer(buyerID, limit, offset)
}

func (s *service) Close(rfqID, buyerID uint) error {
	rfq, err := s.Get(rfqID)
	if err != nil {
		return err
	}
	if rfq.BuyerID != buyerID {
		return ErrNotOwner
	}
	return s.rfqRepo.Close(rfqID, buyerID)
}

func (s *service) SubmitQuote(rfqID, sellerID uint, input QuoteInput) (*models.RFQQuote, error) {
	rfq, err := s.Get(rfqID)
	if err != nil {
		return nil, err
	}
	if rfq.Status != models.RFQOpen {
		return nil, ErrNotOpen
	}

	seller, err := s.userRepo.GetByID(sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seller: %w", err)
	}
	if !seller.CanSell() {
		return nil, ErrSellerOnly
	}
	if input.PricePerUnit <= 0 {
		return nil, errors.New("price per unit must be positive")
	}

	quote := &models.RFQQuote{
		RFQID:        rfqID,
		SellerID:     sellerID,
		PricePerUnit: input.PricePerUnit,
		Note:         input.Note,
	}
	if err := s.rfqRepo.CreateQuote(quote); err != nil {
		if errors.Is(err, repositories.ErrDuplicateQuote) {
			return nil, ErrDuplicateQuote
		}
		return nil, fmt.Errorf("failed to submit quote: %w", err)
	}
	return quote, nil
}

func (s *service) ListQuotes(rfqID, requesterID uint) ([]models.RFQQuote, error) {
	rfq, err := s.Get(rfqID)
	if err != nil {
		return nil, err
	}
	if rfq.BuyerID != requesterID {
		return nil, ErrNotOwner
	}
	return s.rfqRepo.ListQuotes(rfqID)
}
