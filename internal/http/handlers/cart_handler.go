package handlers

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

type cartUpsertRequest struct {
	UserID        string `json:"userId"`
	ProductID     string `json:"productId"`
	QuantityToAdd int    `json:"quantityToAdd"`
}

// Upsert handles POST /api/v1/cart: add a signed delta to one cart line.
func (h *CartHandler) Upsert(c *fiber.Ctx) error {
	var req cartUpsertRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	userID, ok := validate.ID(req.UserID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid userId"})
	}
	productID, ok := validate.ID(req.ProductID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid productId"})
	}
	if req.QuantityToAdd == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "quantityToAdd must be non-zero"})
	}

	item, err := h.Cart.AddDelta(userID, productID, req.QuantityToAdd)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown product"})
		}
		applog.Error(c, "cart.upsert.fail", err, map[string]any{"product_id": productID})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not update cart"})
	}
	applog.Info(c, "cart.upsert", map[string]any{"product_id": productID, "delta": req.QuantityToAdd, "qty": item.Quantity})
	return c.JSON(item)
}

// View handles GET /api/v1/cart?userId=...
func (h *CartHandler) View(c *fiber.Ctx) error {
	userID, ok := validate.ID(c.Query("userId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing userId"})
	}
	cv, err := h.Cart.View(userID)
	if err != nil {
		applog.Error(c, "cart.view.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load cart"})
	}
	return c.JSON(cv)
}

// Remove handles DELETE /api/v1/cart/:productId?userId=...
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	userID, ok := validate.ID(c.Query("userId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing userId"})
	}
	productID, ok := validate.ID(c.Params("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid productId"})
	}
	if err := h.Cart.Remove(userID, productID); err != nil {
		applog.Error(c, "cart.remove.fail", err, map[string]any{"product_id": productID})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not update cart"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
