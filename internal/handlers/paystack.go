package handlers

import (
	"encoding/json"
	"log"

	"agromart/internal/gateway/paystack"
	"agromart/internal/services/payment"
	"agromart/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// PaystackWebhookHandler receives gateway events. The signature is checked
// against the raw body before anything else; an invalid signature causes no
// side effects.
type PaystackWebhookHandler struct {
	paymentService payment.Service
	secretKey      string
}

func NewPaystackWebhookHandler(paymentService payment.Service, secretKey string) *PaystackWebhookHandler {
	return &PaystackWebhookHandler{
		paymentService: paymentService,
		secretKey:      secretKey,
	}
}

func (h *PaystackWebhookHandler) Handle(c *fiber.Ctx) error {
	body := c.Body()
	signature := c.Get("x-paystack-signature")

	if !paystack.VerifySignature(h.secretKey, body, signature) {
		log.Printf("Rejected webhook with bad signature from %s", c.IP())
		return utils.BadRequest(c, "invalid signature")
	}

	var event paystack.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return utils.BadRequest(c, "invalid payload")
	}

	if err := h.paymentService.HandleWebhook(c.Context(), &event); err != nil {
		// Non-2xx makes Paystack re-deliver; handlers are idempotent so a
		// retry after a transient failure is safe.
		log.Printf("Webhook %s failed: %v", event.Event, err)
		return utils.InternalError(c, "processing failed")
	}

	return utils.Success(c, fiber.Map{"status": "ok"})
}
