package handlers

import (
	"errors"
	"log"

	"agromart/internal/models"
	"agromart/internal/repositories"
	"agromart/internal/services/user"
	"agromart/internal/services/wallet"
	"agromart/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService   user.Service
	walletService wallet.Service
}

func NewUserHandler(userService user.Service, walletService wallet.Service) *UserHandler {
	return &UserHandler{
		userService:   userService,
		walletService: walletService,
	}
}

// Register creates a user account and its wallet.
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var input models.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	created, err := h.userService.Register(c.Context(), &input)
	if err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			return utils.BadRequest(c, "Email already registered")
		}
		if errors.Is(err, repositories.ErrPhoneTaken) {
			return utils.BadRequest(c, "Phone number already registered")
		}
		log.Printf("Registration failed: %v", err)
		return utils.BadRequest(c, err.Error())
	}

	return utils.Created(c, fiber.Map{
		"id":         created.ID,
		"email":      created.Email,
		"name":       created.Name,
		"phone":      created.Phone,
		"role":       created.Role,
		"kyc_status": created.KYCStatus,
	})
}

func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	profile, err := h.userService.GetProfile(userID)
	if err != nil {
		return utils.NotFound(c, "User not found")
	}
	return utils.Success(c, profile)
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	updated, err := h.userService.UpdateProfile(userID, input.Name, input.Phone)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}
	return utils.Success(c, updated)
}

// AttachAgent links the authenticated agent to a farmer account.
func (h *UserHandler) AttachAgent(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		FarmerID uint `json:"farmer_id"`
	}
	if err := c.BodyParser(&input); err != nil || input.FarmerID == 0 {
		return utils.BadRequest(c, "farmer_id is required")
	}

	if err := h.userService.AttachAgent(input.FarmerID, claims.UserID); err != nil {
		if errors.Is(err, user.ErrNotAnAgent) {
			return utils.Forbidden(c, "Only agents can manage farmers")
		}
		if errors.Is(err, user.ErrNotAFarmer) {
			return utils.BadRequest(c, "Only farmer accounts can be attached to an agent")
		}
		return utils.BadRequest(c, err.Error())
	}
	return utils.Success(c, fiber.Map{"message": "Farmer attached"})
}
