package handlers

import (
	"errors"
	"log"

	"agromart/internal/services/payment"
	"agromart/internal/services/wallet"
	"agromart/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type WalletHandler struct {
	walletService  wallet.Service
	paymentService payment.Service
}

func NewWalletHandler(walletService wallet.Service, paymentService payment.Service) *WalletHandler {
	return &WalletHandler{
		walletService:  walletService,
		paymentService: paymentService,
	}
}

func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	w, err := h.walletService.GetWallet(c.Context(), userID)
	if err != nil {
		if errors.Is(err, wallet.ErrWalletNotFound) {
			return utils.NotFound(c, "Wallet not found")
		}
		return utils.InternalError(c, "Failed to load wallet")
	}
	return utils.Success(c, w)
}

// History returns the user's ledger entries, newest first.
func (h *WalletHandler) History(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	p := utils.GetPagination(c, 1, 100)
	entries, total, err := h.walletService.History(c.Context(), userID, p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to load transactions")
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(entries, p))
}

// Topup starts a gateway checkout that funds the wallet.
func (h *WalletHandler) Topup(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		Amount float64 `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	result, err := h.paymentService.InitializeTopup(c.Context(), userID, input.Amount)
	if err != nil {
		if errors.Is(err, payment.ErrInvalidAmount) {
			return utils.BadRequest(c, "Amount must be positive")
		}
		log.Printf("Top-up init failed for user %d: %v", userID, err)
		return utils.InternalError(c, "Failed to initialize top-up")
	}
	return utils.Success(c, result)
}

// Withdraw pushes wallet funds to the user's verified bank account.
func (h *WalletHandler) Withdraw(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		Amount float64 `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	if err := h.paymentService.Withdraw(c.Context(), userID, input.Amount); err != nil {
		switch {
		case errors.Is(err, payment.ErrInvalidAmount):
			return utils.BadRequest(c, "Amount must be positive")
		case errors.Is(err, payment.ErrInsufficientBalance):
			return utils.BadRequest(c, "Insufficient balance")
		case errors.Is(err, payment.ErrBankNotVerified):
			return utils.BadRequest(c, "Verify your bank details before withdrawing")
		}
		log.Printf("Withdrawal failed for user %d: %v", userID, err)
		return utils.InternalError(c, "Withdrawal failed")
	}
	return utils.Success(c, fiber.Map{"message": "Withdrawal initiated"})
}

// SubmitBankDetails verifies and stores payout bank details.
func (h *WalletHandler) SubmitBankDetails(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		BankCode      string `json:"bank_code"`
		AccountNumber string `json:"account_number"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	details, err := h.paymentService.SubmitBankDetails(c.Context(), userID, input.BankCode, input.AccountNumber)
	if err != nil {
		if errors.Is(err, payment.ErrBankResolutionFailed) {
			return utils.BadRequest(c, "Could not resolve this account. Check the bank code and account number.")
		}
		return utils.BadRequest(c, err.Error())
	}
	return utils.Success(c, details)
}

// RequestDVA provisions a dedicated virtual account for bank deposits.
func (h *WalletHandler) RequestDVA(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	dva, err := h.paymentService.RequestDVA(c.Context(), userID)
	if err != nil {
		log.Printf("DVA request failed for user %d: %v", userID, err)
		return utils.InternalError(c, "Failed to create deposit account")
	}
	return utils.Success(c, dva)
}
