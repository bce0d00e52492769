package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/http/handlers"
	"storefront/internal/repos"
)

func newTestApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(filepath.Join(t.TempDir(), "storefront.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	deps := handlers.NewDeps(db)

	app := fiber.New()
	app.Use(requestid.New())

	api := app.Group("/api/v1")
	api.Get("/products", deps.ProductHandler.List)
	api.Get("/products/:id", deps.ProductHandler.Detail)
	api.Get("/availability", deps.InventoryHandler.Check)
	api.Get("/cart", deps.CartHandler.View)
	api.Post("/cart", deps.CartHandler.Upsert)
	api.Delete("/cart/:productId", deps.CartHandler.Remove)
	api.Post("/orders", deps.OrderHandler.Submit)
	api.Post("/checkout", deps.OrderHandler.Checkout)
	api.Get("/orders/:id", deps.OrderHandler.Get)
	api.Get("/orders", deps.OrderHandler.History)
	api.Get("/admin/inventory", deps.AdminHandler.Inventory)
	api.Post("/admin/inventory", deps.AdminHandler.UpdateInventory)
	api.Post("/admin/orders/:id/status", deps.AdminHandler.UpdateOrderStatus)

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, 10000)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), "body: %s", raw)
	}
	return resp.StatusCode, out
}

func orderBody(productID string, qty int) map[string]any {
	return map[string]any{
		"userId":          "u-alice",
		"customerName":    "Alice",
		"customerEmail":   "alice@storefront.test",
		"subtotal":        18.50 * float64(qty),
		"taxAmount":       0,
		"totalAmount":     18.50 * float64(qty),
		"fulfillmentType": "pickup",
		"items": []map[string]any{{
			"productId":   productID,
			"productName": "Espresso Beans 1kg",
			"unitPrice":   18.50,
			"quantity":    qty,
			"totalPrice":  18.50 * float64(qty),
		}},
	}
}

func TestAPI_SubmitOrder(t *testing.T) {
	app, db := newTestApp(t)

	code, body := doJSON(t, app, "POST", "/api/v1/orders", orderBody("espresso-beans", 3))
	require.Equal(t, fiber.StatusCreated, code, "body: %v", body)
	assert.Equal(t, true, body["success"])

	order := body["order"].(map[string]any)
	assert.NotEmpty(t, order["id"])
	assert.Equal(t, "pending", order["status"])
	assert.Len(t, order["items"].([]any), 1)

	var qty int
	require.NoError(t, db.Get(&qty, `SELECT stock_quantity FROM products WHERE id='espresso-beans'`))
	assert.Equal(t, 37, qty) // seeded with 40

	// the persisted order is fetchable
	code, fetched := doJSON(t, app, "GET", "/api/v1/orders/"+order["id"].(string), nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, order["id"], fetched["id"])
}

func TestAPI_SubmitOrderConflict(t *testing.T) {
	app, db := newTestApp(t)

	code, body := doJSON(t, app, "POST", "/api/v1/orders", orderBody("espresso-beans", 9999))
	require.Equal(t, fiber.StatusConflict, code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Inventory conflicts detected", body["error"])

	conflicts := body["inventoryConflicts"].([]any)
	require.Len(t, conflicts, 1)
	c := conflicts[0].(map[string]any)
	assert.Equal(t, "espresso-beans", c["productId"])
	assert.Equal(t, float64(9999), c["requested"])
	assert.Equal(t, float64(40), c["available"])

	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM orders`))
	assert.Zero(t, n, "rejection must persist nothing")
}

func TestAPI_SubmitOrderValidation(t *testing.T) {
	app, _ := newTestApp(t)

	bad := orderBody("espresso-beans", 1)
	bad["customerEmail"] = "not-an-email"
	code, body := doJSON(t, app, "POST", "/api/v1/orders", bad)
	require.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, false, body["success"])
}

func TestAPI_CartFlow(t *testing.T) {
	app, _ := newTestApp(t)

	code, body := doJSON(t, app, "POST", "/api/v1/cart", map[string]any{
		"userId": "u-alice", "productId": "ceramic-mug", "quantityToAdd": 2,
	})
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, float64(2), body["quantity"])

	code, body = doJSON(t, app, "POST", "/api/v1/cart", map[string]any{
		"userId": "u-alice", "productId": "ceramic-mug", "quantityToAdd": 3,
	})
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, float64(5), body["quantity"])

	code, view := doJSON(t, app, "GET", "/api/v1/cart?userId=u-alice", nil)
	require.Equal(t, fiber.StatusOK, code)
	items := view["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, float64(5*12.00), view["total"])

	code, body = doJSON(t, app, "POST", "/api/v1/cart", map[string]any{
		"userId": "u-alice", "productId": "ghost-item", "quantityToAdd": 1,
	})
	assert.Equal(t, fiber.StatusNotFound, code, "body: %v", body)

	code, _ = doJSON(t, app, "DELETE", "/api/v1/cart/ceramic-mug?userId=u-alice", nil)
	assert.Equal(t, fiber.StatusNoContent, code)
}

func TestAPI_Checkout(t *testing.T) {
	app, _ := newTestApp(t)

	code, _ := doJSON(t, app, "POST", "/api/v1/cart", map[string]any{
		"userId": "u-alice", "productId": "drip-blend", "quantityToAdd": 2,
	})
	require.Equal(t, fiber.StatusOK, code)

	code, body := doJSON(t, app, "POST", "/api/v1/checkout", map[string]any{
		"userId":        "u-alice",
		"customerName":  "Alice",
		"customerEmail": "alice@storefront.test",
	})
	require.Equal(t, fiber.StatusCreated, code, "body: %v", body)
	order := body["order"].(map[string]any)
	assert.Equal(t, 2*9.75, order["subtotal"])

	// cart is cleared on success
	code, view := doJSON(t, app, "GET", "/api/v1/cart?userId=u-alice", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Empty(t, view["items"])
}

func TestAPI_Availability(t *testing.T) {
	app, _ := newTestApp(t)

	code, body := doJSON(t, app, "GET", "/api/v1/availability?productId=espresso-beans", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "IN_STOCK", body["status"])

	code, body = doJSON(t, app, "GET", "/api/v1/availability?productId=ghost-item", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "OUT_OF_STOCK", body["status"])
}

func TestAPI_AdminInventoryAndStatus(t *testing.T) {
	app, db := newTestApp(t)

	code, body := doJSON(t, app, "POST", "/api/v1/admin/inventory", map[string]any{
		"productId": "ceramic-mug", "qty": 99,
	})
	require.Equal(t, fiber.StatusOK, code, "body: %v", body)
	var qty int
	require.NoError(t, db.Get(&qty, `SELECT stock_quantity FROM products WHERE id='ceramic-mug'`))
	assert.Equal(t, 99, qty)

	code, _ = doJSON(t, app, "POST", "/api/v1/admin/inventory", map[string]any{
		"productId": "ceramic-mug", "qty": 1, "mode": "add",
	})
	require.Equal(t, fiber.StatusOK, code)
	require.NoError(t, db.Get(&qty, `SELECT stock_quantity FROM products WHERE id='ceramic-mug'`))
	assert.Equal(t, 100, qty)

	// place an order, then move its status
	code, body = doJSON(t, app, "POST", "/api/v1/orders", orderBody("espresso-beans", 1))
	require.Equal(t, fiber.StatusCreated, code)
	oid := body["order"].(map[string]any)["id"].(string)

	code, _ = doJSON(t, app, "POST", "/api/v1/admin/orders/"+oid+"/status", map[string]any{"status": "confirmed"})
	require.Equal(t, fiber.StatusOK, code)

	code, fetched := doJSON(t, app, "GET", "/api/v1/orders/"+oid, nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "confirmed", fetched["status"])

	code, _ = doJSON(t, app, "POST", "/api/v1/admin/orders/"+oid+"/status", map[string]any{"status": "shipped-to-mars"})
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = doJSON(t, app, "POST", "/api/v1/admin/orders/nope/status", map[string]any{"status": "confirmed"})
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestAPI_OrderNotFound(t *testing.T) {
	app, _ := newTestApp(t)
	code, _ := doJSON(t, app, "GET", "/api/v1/orders/no-such-order", nil)
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestAPI_ProductList(t *testing.T) {
	app, _ := newTestApp(t)

	code, body := doJSON(t, app, "GET", "/api/v1/products", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Len(t, body["products"].([]any), 4) // seeded catalog

	code, p := doJSON(t, app, "GET", "/api/v1/products/espresso-beans", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "Espresso Beans 1kg", p["name"])

	code, _ = doJSON(t, app, "GET", "/api/v1/products/ghost-item", nil)
	assert.Equal(t, fiber.StatusNotFound, code)
}
