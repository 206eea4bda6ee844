package handlers

import (
	"errors"
	"log"

	"agromart/internal/models"
	"agromart/internal/services/order"
	"agromart/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	orderService order.Service
}

func NewOrderHandler(orderService order.Service) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Checkout creates a pending order and returns the payment URL.
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input order.CheckoutInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	result, err := h.orderService.Checkout(c.Context(), userID, input)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrEmptyOrder),
			errors.Is(err, order.ErrMixedSellers),
			errors.Is(err, order.ErrBelowMinimum),
			errors.Is(err, order.ErrSelfPurchase):
			return utils.BadRequest(c, err.Error())
		case errors.Is(err, order.ErrInsufficientStock):
			return utils.BadRequest(c, "Not enough stock for one or more items")
		}
		log.Printf("Checkout failed for user %d: %v", userID, err)
		return utils.InternalError(c, "Checkout failed")
	}
	return utils.Created(c, result)
}

func (h *OrderHandler) Get(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid order id")
	}

	o, err := h.orderService.GetOrder(orderID, claims.UserID, claims.Role == models.RoleAdmin)
	if err != nil {
		if errors.Is(err, order.ErrNotParticipant) {
			return utils.Forbidden(c, "You are not part of this order")
		}
		return utils.NotFound(c, "Order not found")
	}
	return utils.Success(c, o)
}

// ListMine returns the user's orders as buyer or seller depending on the
// role query parameter.
func (h *OrderHandler) ListMine(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}
	p := utils.GetPagination(c, 1, 100)

	var (
		orders []models.Order
		total  int64
		err    error
	)
	if c.Query("role") == "seller" {
		orders, total, err = h.orderService.ListForSeller(userID, p.Limit, p.Offset)
	} else {
		orders, total, err = h.orderService.ListForBuyer(userID, p.Limit, p.Offset)
	}
	if err != nil {
		return utils.InternalError(c, "Failed to load orders")
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(orders, p))
}

// MarkDelivered is the seller declaring the goods handed over.
func (h *OrderHandler) MarkDelivered(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid order id")
	}

	if err := h.orderService.MarkDelivered(userID, orderID); err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			return utils.NotFound(c, "Order not found")
		case errors.Is(err, order.ErrNotParticipant):
			return utils.Forbidden(c, "Only the seller can mark delivery")
		case errors.Is(err, order.ErrInvalidTransition):
			return utils.Conflict(c, "Order is not in escrow")
		}
		return utils.InternalError(c, "Failed to update order")
	}
	return utils.Success(c, fiber.Map{"message": "Order marked as delivered"})
}

// ConfirmReceipt is the buyer releasing escrow.
func (h *OrderHandler) ConfirmReceipt(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid order id")
	}

	if err := h.orderService.ConfirmReceipt(c.Context(), userID, orderID); err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			return utils.NotFound(c, "Order not found")
		case errors.Is(err, order.ErrNotParticipant):
			return utils.Forbidden(c, "Only the buyer can confirm receipt")
		case errors.Is(err, order.ErrAlreadyPaidOut):
			return utils.Conflict(c, "Order has already been settled")
		case errors.Is(err, order.ErrInvalidPayoutStatus):
			return utils.Conflict(c, "Order is not ready for settlement")
		}
		log.Printf("Receipt confirmation failed for order %d: %v", orderID, err)
		return utils.InternalError(c, "Failed to settle order")
	}
	return utils.Success(c, fiber.Map{"message": "Receipt confirmed, payment released"})
}

func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid order id")
	}

	var input struct {
		Reason string `json:"reason"`
	}
	_ = c.BodyParser(&input)

	err = h.orderService.Cancel(c.Context(), orderID, claims.UserID, claims.Role == models.RoleAdmin, input.Reason)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			return utils.NotFound(c, "Order not found")
		case errors.Is(err, order.ErrNotParticipant):
			return utils.Forbidden(c, "Only the buyer can cancel this order")
		case errors.Is(err, order.ErrInvalidTransition):
			return utils.Conflict(c, "Order can no longer be cancelled")
		}
		log.Printf("Cancel failed for order %d: %v", orderID, err)
		return utils.InternalError(c, "Failed to cancel order")
	}
	return utils.Success(c, fiber.Map{"message": "Order cancelled"})
}
