package handlers

import (
	"agromart/internal/services/notification"
	"agromart/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	notificationService notification.Service
}

func NewNotificationHandler(notificationService notification.Service) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	p := utils.GetPagination(c, 1, 100)
	notifications, total, err := h.notificationService.List(userID, p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to load notifications")
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(notifications, p))
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}
	notificationID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid notification id")
	}

	if err := h.notificationService.MarkRead(notificationID, userID); err != nil {
		return utils.NotFound(c, "Notification not found")
	}
	return utils.Success(c, fiber.Map{"message": "Marked as read"})
}

func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	if err := h.notificationService.MarkAllRead(userID); err != nil {
		return utils.InternalError(c, "Failed to update notifications")
	}
	return utils.Success(c, fiber.Map{"message": "All notifications marked read"})
}
