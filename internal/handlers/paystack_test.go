package handlers

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"agromart/internal/gateway/paystack"
	"agromart/internal/services/payment"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockPaymentService struct{ mock.Mock }

func (m *mockPaymentService) InitializeTopup(ctx context.Context, userID uint, amount float64) (*payment.TopupResult, error) {
	args := m.Called(ctx, userID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.TopupResult), args.Error(1)
}

func (m *mockPaymentService) Withdraw(ctx context.Context, userID uint, amount float64) error {
	return m.Called(ctx, userID, amount).Error(0)
}

func (m *mockPaymentService) SubmitBankDetails(ctx context.Context, userID uint, bankCode, accountNumber string) (*payment.BankDetails, error) {
	args := m.Called(ctx, userID, bankCode, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.BankDetails), args.Error(1)
}

func (m *mockPaymentService) RequestDVA(ctx context.Context, userID uint) (*payment.DVADetails, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.DVADetails), args.Error(1)
}

func (m *mockPaymentService) HandleWebhook(ctx context.Context, event *paystack.WebhookEvent) error {
	return m.Called(ctx, event).Error(0)
}

func TestPaystackWebhook(t *testing.T) {
	const secret = "sk_test_secret"
	body := []byte(`{"event":"charge.success","data":{"reference":"ORD-abc"}}`)

	newApp := func(svc payment.Service) *fiber.App {
		app := fiber.New()
		handler := NewPaystackWebhookHandler(svc, secret)
		app.Post("/api/webhooks/paystack", handler.Handle)
		return app
	}

	t.Run("valid signature is processed", func(t *testing.T) {
		svc := new(mockPaymentService)
		svc.On("HandleWebhook", mock.Anything, mock.MatchedBy(func(e *paystack.WebhookEvent) bool {
			return e.Event == "charge.success"
		})).Return(nil)

		req := httptest.NewRequest("POST", "/api/webhooks/paystack", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-paystack-signature", paystack.Sign(secret, body))

		resp, err := newApp(svc).Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		svc.AssertExpectations(t)
	})

	t.Run("bad signature causes no side effects", func(t *testing.T) {
		svc := new(mockPaymentService)

		req := httptest.NewRequest("POST", "/api/webhooks/paystack", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-paystack-signature", "deadbeef")

		resp, err := newApp(svc).Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		svc.AssertNotCalled(t, "HandleWebhook")
	})

	t.Run("missing signature rejected", func(t *testing.T) {
		svc := new(mockPaymentService)

		req := httptest.NewRequest("POST", "/api/webhooks/paystack", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := newApp(svc).Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		svc.AssertNotCalled(t, "HandleWebhook")
	})
}
