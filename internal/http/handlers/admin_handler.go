package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
	"storefront/internal/repos"
	"storefront/internal/services"
	"storefront/internal/validate"
)

// AdminHandler serves the stock management surface. Authorization is the
// gatekeeper's job; these routes assume it already happened upstream.
type AdminHandler struct {
	Inv    *services.InventoryService
	Orders *repos.OrderRepo
}

// Inventory handles GET /api/v1/admin/inventory.
func (h *AdminHandler) Inventory(c *fiber.Ctx) error {
	rows, err := h.Inv.ListStock()
	if err != nil {
		applog.Error(c, "admin.inventory.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load inventory"})
	}
	return c.JSON(fiber.Map{"inventory": rows})
}

type stockUpdateRequest struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
	Mode      string `json:"mode"` // "set" (default) or "add"
}

// UpdateInventory handles POST /api/v1/admin/inventory.
func (h *AdminHandler) UpdateInventory(c *fiber.Ctx) error {
	var req stockUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	productID, ok := validate.ID(req.ProductID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid productId"})
	}

	var err error
	switch req.Mode {
	case "add":
		if req.Qty < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "qty must be positive"})
		}
		err = h.Inv.Restock(productID, req.Qty)
	default:
		if req.Qty < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "qty must be non-negative"})
		}
		err = h.Inv.SetStock(productID, req.Qty)
	}
	if err != nil {
		applog.Error(c, "admin.inventory.update.fail", err, map[string]any{"product_id": productID})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	applog.Audit(c, "admin.inventory.update", map[string]any{
		"product_id": productID, "qty": req.Qty, "mode": req.Mode,
	})
	return c.JSON(fiber.Map{"ok": true})
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus handles POST /api/v1/admin/orders/:id/status.
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid order id"})
	}
	var req statusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	status, ok := validate.Status(req.Status)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown status"})
	}
	if exists, err := h.Orders.Exists(oid); err != nil || !exists {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
	}
	if err := h.Orders.UpdateStatus(oid, status); err != nil {
		applog.Error(c, "admin.order.status.fail", err, map[string]any{"order_id": oid})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not update status"})
	}
	applog.Audit(c, "admin.order.status", map[string]any{"order_id": oid, "status": status})
	return c.JSON(fiber.Map{"ok": true})
}
