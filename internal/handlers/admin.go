package handlers

import (
	"errors"
	"log"

	"agromart/internal/repositories"
	"agromart/internal/services/kyc"
	"agromart/internal/services/order"
	"agromart/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler exposes back-office operations: user and order oversight,
// KYC review, and manual settlement retries.
type AdminHandler struct {
	userRepo     repositories.UserRepository
	orderRepo    repositories.OrderRepository
	ledgerRepo   repositories.LedgerRepository
	kycService   kyc.Service
	orderService order.Service
}

func NewAdminHandler(
	userRepo repositories.UserRepository,
	orderRepo repositories.OrderRepository,
	ledgerRepo repositories.LedgerRepository,
	kycService kyc.Service,
	orderService order.Service,
) *AdminHandler {
	return &AdminHandler{
		userRepo:     userRepo,
		orderRepo:    orderRepo,
		ledgerRepo:   ledgerRepo,
		kycService:   kycService,
		orderService: orderService,
	}
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	p := utils.GetPagination(c, 1, 100)
	users, total, err := h.userRepo.List(p.Offset, p.Limit)
	if err != nil {
		return utils.InternalError(c, "Failed to load users")
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(users, p))
}

func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	p := utils.GetPagination(c, 1, 100)
	orders, total, err := h.orderRepo.ListAll(p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to load orders")
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(orders, p))
}

func (h *AdminHandler) ListTransactions(c *fiber.Ctx) error {
	p := utils.GetPagination(c, 1, 100)
	entries, total, err := h.ledgerRepo.ListAll(p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to load transactions")
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(entries, p))
}

// KYCQueue lists documents awaiting review.
func (h *AdminHandler) KYCQueue(c *fiber.Ctx) error {
	p := utils.GetPagination(c, 1, 100)
	docs, total, err := h.kycService.ListPending(p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to load queue")
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(docs, p))
}

func (h *AdminHandler) ReviewKYC(c *fiber.Ctx) error {
	reviewerID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}
	docID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid document id")
	}

	var input struct {
		Approve bool   `json:"approve"`
		Reason  string `json:"reason"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	if input.Approve {
		err = h.kycService.Approve(docID, reviewerID)
	} else {
		if input.Reason == "" {
			return utils.BadRequest(c, "A reason is required when rejecting")
		}
		err = h.kycService.Reject(docID, reviewerID, input.Reason)
	}
	if err != nil {
		if errors.Is(err, kyc.ErrDocumentNotFound) {
			return utils.NotFound(c, "Document not found")
		}
		log.Printf("KYC review failed for doc %d: %v", docID, err)
		return utils.InternalError(c, "Failed to review document")
	}
	return utils.Success(c, fiber.Map{"message": "Review recorded"})
}

// HaltOrder freezes an order pending investigation.
func (h *AdminHandler) HaltOrder(c *fiber.Ctx) error {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid order id")
	}

	var input struct {
		Reason string `json:"reason"`
	}
	_ = c.BodyParser(&input)

	if err := h.orderService.Halt(orderID, input.Reason); err != nil {
		if errors.Is(err, order.ErrInvalidTransition) {
			return utils.Conflict(c, "Order cannot be halted in its current status")
		}
		return utils.InternalError(c, "Failed to halt order")
	}
	return utils.Success(c, fiber.Map{"message": "Order halted"})
}

func (h *AdminHandler) ReleaseOrder(c *fiber.Ctx) error {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid order id")
	}

	if err := h.orderService.Release(orderID); err != nil {
		if errors.Is(err, order.ErrInvalidTransition) {
			return utils.Conflict(c, "Order is not halted")
		}
		return utils.InternalError(c, "Failed to release order")
	}
	return utils.Success(c, fiber.Map{"message": "Order released to escrow"})
}

// RetryPayout re-runs settlement for an order whose payout failed.
func (h *AdminHandler) RetryPayout(c *fiber.Ctx) error {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid order id")
	}

	if err := h.orderService.RetryPayout(c.Context(), orderID); err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			return utils.NotFound(c, "Order not found")
		case errors.Is(err, order.ErrAlreadyPaidOut):
			return utils.Conflict(c, "Order has already been settled")
		case errors.Is(err, order.ErrInvalidPayoutStatus):
			return utils.Conflict(c, "Order is not eligible for settlement")
		}
		log.Printf("Payout retry failed for order %d: %v", orderID, err)
		return utils.InternalError(c, "Settlement failed")
	}
	return utils.Success(c, fiber.Map{"message": "Payout processed"})
}

// Stats gives a rough operational overview.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	_, userCount, err := h.userRepo.List(0, 1)
	if err != nil {
		return utils.InternalError(c, "Failed to load stats")
	}
	_, orderCount, err := h.orderRepo.ListAll(1, 0)
	if err != nil {
		return utils.InternalError(c, "Failed to load stats")
	}
	_, txCount, err := h.ledgerRepo.ListAll(1, 0)
	if err != nil {
		return utils.InternalError(c, "Failed to load stats")
	}

	return utils.Success(c, fiber.Map{
		"users":        userCount,
		"orders":       orderCount,
		"transactions": txCount,
	})
}
