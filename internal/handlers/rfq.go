package handlers

import (
	"errors"
	"log"

	"agromart/internal/models"
	"agromart/internal/services/rfq"
	"agromart/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type RFQHandler struct {
	rfqService rfq.Service
}

func NewRFQHandler(rfqService rfq.Service) *RFQHandler {
	return &RFQHandler{rfqService: rfqService}
}

// Create stores a sourcing request and returns the listing fee checkout URL.
func (h *RFQHandler) Create(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var request models.RFQ
	if err := c.BodyParser(&request); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	result, err := h.rfqService.Create(c.Context(), userID, &request)
	if err != nil {
		log.Printf("RFQ creation failed for user %d: %v", userID, err)
		return utils.BadRequest(c, err.Error())
	}
	return utils.Created(c, result)
}

func (h *RFQHandler) Get(c *fiber.Ctx) error {
	rfqID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid request id")
	}

	found, err := h.rfqService.Get(rfqID)
	if err != nil {
		return utils.NotFound(c, "Request not found")
	}
	return utils.Success(c, found)
}

func (h *RFQHandler) ListOpen(c *fiber.Ctx) error {
	p := utils.GetPagination(c, 1, 100)
	requests, total, err := h.rfqService.ListOpen(c.Query("category"), p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to load requests")
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(requests, p))
}

func (h *RFQHandler) ListMine(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	p := utils.GetPagination(c, 1, 100)
	requests, err := h.rfqService.ListMine(userID, p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to load requests")
	}
	return utils.Success(c, requests)
}

func (h *RFQHandler) Close(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}
	rfqID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid request id")
	}

	if err := h.rfqService.Close(rfqID, userID); err != nil {
		switch {
		case errors.Is(err, rfq.ErrRFQNotFound):
			return utils.NotFound(c, "Request not found")
		case errors.Is(err, rfq.ErrNotOwner):
			return utils.Forbidden(c, "Only the request owner can close it")
		}
		return utils.InternalError(c, "Failed to close request")
	}
	return utils.Success(c, fiber.Map{"message": "Request closed"})
}

// SubmitQuote lets a verified seller quote on an open request.
func (h *RFQHandler) SubmitQuote(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}
	rfqID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid request id")
	}

	var input rfq.QuoteInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	quote, err := h.rfqService.SubmitQuote(rfqID, userID, input)
	if err != nil {
		switch {
		case errors.Is(err, rfq.ErrRFQNotFound):
			return utils.NotFound(c, "Request not found")
		case errors.Is(err, rfq.ErrNotOpen):
			return utils.Conflict(c, "Request is not open for quotes")
		case errors.Is(err, rfq.ErrSellerOnly):
			return utils.Forbidden(c, "Complete verification before quoting")
		case errors.Is(err, rfq.ErrDuplicateQuote):
			return utils.Conflict(c, "You have already quoted on this request")
		}
		return utils.BadRequest(c, err.Error())
	}
	return utils.Created(c, quote)
}

func (h *RFQHandler) ListQuotes(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}
	rfqID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid request id")
	}

	quotes, err := h.rfqService.ListQuotes(rfqID, userID)
	if err != nil {
		switch {
		case errors.Is(err, rfq.ErrRFQNotFound):
			return utils.NotFound(c, "Request not found")
		case errors.Is(err, rfq.ErrNotOwner):
			return utils.Forbidden(c, "Only the request owner can view quotes")
		}
		return utils.InternalError(c, "Failed to load quotes")
	}
	return utils.Success(c, quotes)
}
