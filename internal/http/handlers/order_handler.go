package handlers

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/repos"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type OrderHandler struct {
	Order *services.OrderService
	Repo  *repos.OrderRepo
}

// Submit handles POST /api/v1/orders: the full two-phase order submission.
func (h *OrderHandler) Submit(c *fiber.Ctx) error {
	var in services.OrderInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "error": "invalid request body",
		})
	}
	if bad := validateOrderInput(&in); bad != "" {
		applog.Security(c, "validation.fail", map[string]any{"field": bad})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "error": "invalid " + bad,
		})
	}

	res := h.Order.Submit(in)
	return writeSubmitResult(c, res)
}

// Checkout handles POST /api/v1/checkout: submit an order built from the
// caller's current cart, priced server-side.
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	var in services.OrderInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "error": "invalid request body",
		})
	}
	userID, ok := validate.ID(in.UserID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "error": "invalid userId",
		})
	}
	if bad := validateContact(&in); bad != "" {
		applog.Security(c, "validation.fail", map[string]any{"field": bad})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "error": "invalid " + bad,
		})
	}

	res := h.Order.Checkout(userID, in)
	return writeSubmitResult(c, res)
}

func writeSubmitResult(c *fiber.Ctx, res domain.SubmitResult) error {
	switch {
	case res.Success:
		applog.Audit(c, "order.submit", map[string]any{
			"order_id": res.Order.ID,
			"total":    res.Order.TotalAmount,
			"items":    len(res.Order.Items),
		})
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"order":   res.Order,
		})
	case len(res.Conflicts) > 0:
		applog.Info(c, "order.submit.conflict", map[string]any{"conflicts": len(res.Conflicts)})
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success":            false,
			"error":              res.Err,
			"inventoryConflicts": res.Conflicts,
		})
	default:
		applog.Error(c, "order.submit.fail", errors.New(res.Err), nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   res.Err,
		})
	}
}

func validateOrderInput(in *services.OrderInput) string {
	if bad := validateContact(in); bad != "" {
		return bad
	}
	if _, ok := validate.ID(in.UserID); !ok {
		return "userId"
	}
	if len(in.Items) == 0 {
		return "items"
	}
	for _, it := range in.Items {
		if it.ProductID == "" || it.Quantity < 1 {
			return "items"
		}
	}
	return ""
}

func validateContact(in *services.OrderInput) string {
	name, ok := validate.Name(in.CustomerName)
	if !ok {
		return "customerName"
	}
	email, ok := validate.Email(in.CustomerEmail)
	if !ok {
		return "customerEmail"
	}
	phone, ok := validate.Phone(in.CustomerPhone)
	if !ok {
		return "customerPhone"
	}
	in.CustomerName = name
	in.CustomerEmail = email
	in.CustomerPhone = phone
	in.FulfillmentType = validate.Fulfillment(in.FulfillmentType)
	return ""
}

// Get handles GET /api/v1/orders/:id.
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid order id"})
	}
	o, err := h.Repo.Get(oid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
		}
		applog.Error(c, "order.get.fail", err, map[string]any{"order_id": oid})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load order"})
	}
	return c.JSON(o)
}

// History handles GET /api/v1/orders?userId=...
func (h *OrderHandler) History(c *fiber.Ctx) error {
	userID, ok := validate.ID(c.Query("userId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing userId"})
	}
	orders, err := h.Repo.ListByUser(userID)
	if err != nil {
		applog.Error(c, "order.history.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load orders"})
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return c.JSON(fiber.Map{"orders": orders})
}
