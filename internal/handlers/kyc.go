package handlers

import (
	"errors"

	"agromart/internal/services/kyc"
	"agromart/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type KYCHandler struct {
	kycService kyc.Service
}

func NewKYCHandler(kycService kyc.Service) *KYCHandler {
	return &KYCHandler{kycService: kycService}
}

// Submit records an identity document for admin review.
func (h *KYCHandler) Submit(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input kyc.SubmitInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	doc, err := h.kycService.Submit(userID, input)
	if err != nil {
		switch {
		case errors.Is(err, kyc.ErrInvalidDocument):
			return utils.BadRequest(c, "Unsupported document type")
		case errors.Is(err, kyc.ErrAlreadyPending):
			return utils.Conflict(c, "A submission is already under review")
		}
		return utils.InternalError(c, "Failed to submit document")
	}
	return utils.Created(c, doc)
}

func (h *KYCHandler) Status(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	doc, err := h.kycService.Status(userID)
	if err != nil {
		if errors.Is(err, kyc.ErrDocumentNotFound) {
			return utils.NotFound(c, "No submission found")
		}
		return utils.InternalError(c, "Failed to load status")
	}
	return utils.Success(c, doc)
}
