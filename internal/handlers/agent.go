package handlers

import (
	"agromart/internal/models"
	"agromart/internal/repositories"
	"agromart/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// AgentHandler serves field agents managing attached farmer accounts.
type AgentHandler struct {
	userRepo   repositories.UserRepository
	orderRepo  repositories.OrderRepository
	ledgerRepo repositories.LedgerRepository
}

func NewAgentHandler(userRepo repositories.UserRepository, orderRepo repositories.OrderRepository, ledgerRepo repositories.LedgerRepository) *AgentHandler {
	return &AgentHandler{
		userRepo:   userRepo,
		orderRepo:  orderRepo,
		ledgerRepo: ledgerRepo,
	}
}

// ListFarmers returns the farmers attached to the authenticated agent.
func (h *AgentHandler) ListFarmers(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	farmers, err := h.userRepo.ListByAgent(userID)
	if err != nil {
		return utils.InternalError(c, "Failed to load farmers")
	}

	out := make([]fiber.Map, 0, len(farmers))
	for _, f := range farmers {
		out = append(out, fiber.Map{
			"id":         f.ID,
			"name":       f.Name,
			"phone":      f.Phone,
			"kyc_status": f.KYCStatus,
		})
	}
	return utils.Success(c, out)
}

// ListOrders returns orders on which the agent earns commission.
func (h *AgentHandler) ListOrders(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	p := utils.GetPagination(c, 1, 100)
	orders, total, err := h.orderRepo.ListByAgent(userID, p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to load orders")
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(orders, p))
}

// Commissions returns the agent's commission ledger entries.
func (h *AgentHandler) Commissions(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	p := utils.GetPagination(c, 1, 100)
	entries, err := h.ledgerRepo.ListByCategory(userID, models.CategoryAgentCommission, p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to load commissions")
	}

	var total float64
	for _, e := range entries {
		if e.Status == models.LedgerSuccess {
			total += e.Amount
		}
	}
	return utils.Success(c, fiber.Map{
		"entries":    entries,
		"page_total": total,
	})
}
