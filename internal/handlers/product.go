package handlers

import (
	"errors"
	"strconv"

	"agromart/internal/models"
	"agromart/internal/repositories"
	"agromart/internal/services/product"
	"agromart/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	productService product.Service
}

func NewProductHandler(productService product.Service) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var p models.Product
	if err := c.BodyParser(&p); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	created, err := h.productService.Create(c.Context(), userID, &p)
	if err != nil {
		if errors.Is(err, product.ErrNotSeller) {
			return utils.Forbidden(c, "Complete verification before listing products")
		}
		return utils.BadRequest(c, err.Error())
	}
	return utils.Created(c, created)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}
	productID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid product id")
	}

	var p models.Product
	if err := c.BodyParser(&p); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	p.ID = productID

	updated, err := h.productService.Update(c.Context(), userID, &p)
	if err != nil {
		switch {
		case errors.Is(err, product.ErrProductMissing):
			return utils.NotFound(c, "Product not found")
		case errors.Is(err, product.ErrNotOwner):
			return utils.Forbidden(c, "You can only edit your own products")
		}
		return utils.BadRequest(c, err.Error())
	}
	return utils.Success(c, updated)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}
	productID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid product id")
	}

	if err := h.productService.Delete(c.Context(), userID, productID); err != nil {
		switch {
		case errors.Is(err, product.ErrProductMissing):
			return utils.NotFound(c, "Product not found")
		case errors.Is(err, product.ErrNotOwner):
			return utils.Forbidden(c, "You can only delete your own products")
		}
		return utils.InternalError(c, "Failed to delete product")
	}
	return utils.Success(c, fiber.Map{"message": "Product deleted"})
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid product id")
	}

	p, err := h.productService.Get(c.Context(), productID)
	if err != nil {
		return utils.NotFound(c, "Product not found")
	}
	return utils.Success(c, p)
}

// List supports category, seller, and free-text search filters.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	p := utils.GetPagination(c, 1, 100)

	filter := repositories.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Status:   models.ProductActive,
	}
	if sellerStr := c.Query("seller_id"); sellerStr != "" {
		if sellerID, err := strconv.ParseUint(sellerStr, 10, 32); err == nil {
			filter.SellerID = uint(sellerID)
		}
	}

	result, err := h.productService.List(c.Context(), filter, p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to load products")
	}
	p.SetTotal(result.Total)
	return utils.Success(c, utils.NewPaginatedResponse(result.Products, p))
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
