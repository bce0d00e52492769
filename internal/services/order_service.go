package services

import (
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/repos"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrStockRace marks the commit-time fault: pre-validation saw enough stock
// but a concurrent submission consumed it before our guarded decrement ran.
// The whole unit of work is rolled back; callers re-validate and resubmit.
var ErrStockRace = errors.New("stock changed during commit")

var ErrEmptyOrder = errors.New("order has no items")

const conflictsMessage = "Inventory conflicts detected"

type OrderInput struct {
	ID                  string           `json:"id"`
	UserID              string           `json:"userId"`
	CustomerName        string           `json:"customerName"`
	CustomerEmail       string           `json:"customerEmail"`
	CustomerPhone       string           `json:"customerPhone"`
	Subtotal            float64          `json:"subtotal"`
	TaxAmount           float64          `json:"taxAmount"`
	TotalAmount         float64          `json:"totalAmount"`
	FulfillmentType     string           `json:"fulfillmentType"`
	DeliveryAddress     string           `json:"deliveryAddress"`
	PickupTime          string           `json:"pickupTime"`
	SpecialInstructions string           `json:"specialInstructions"`
	Status              string           `json:"status"`
	Items               []OrderItemInput `json:"items"`
}

type OrderItemInput struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	UnitPrice   float64 `json:"unitPrice"`
	Quantity    int     `json:"quantity"`
	TotalPrice  float64 `json:"totalPrice"`
}

type OrderService struct {
	db     *sqlx.DB
	Prods  *repos.ProductRepo
	Orders *repos.OrderRepo
	Carts  *repos.CartRepo
}

func NewOrderService(db *sqlx.DB, prods *repos.ProductRepo, orders *repos.OrderRepo, carts *repos.CartRepo) *OrderService {
	return &OrderService{db: db, Prods: prods, Orders: orders, Carts: carts}
}

// Submit turns a proposed order into a durable order + items + stock
// decrements, or rejects the whole thing. Two phases: a read-only conflict
// pass over every line item, then a single transaction that inserts the
// header and items and applies the guarded decrements. Nothing partial ever
// survives a failure.
func (s *OrderService) Submit(in OrderInput) domain.SubmitResult {
	if len(in.Items) == 0 {
		return failure(ErrEmptyOrder)
	}

	// Phase 1: pre-validate every item against current stock. All conflicts
	// are collected, not just the first, so the caller can fix the whole
	// order in one round trip. No writes happen on this path.
	conflicts, err := s.validateStock(in.Items)
	if err != nil {
		return failure(err)
	}
	if len(conflicts) > 0 {
		return domain.SubmitResult{Success: false, Err: conflictsMessage, Conflicts: conflicts}
	}

	// Phase 2: one unit of work. The decrement re-checks stock at write
	// time; the phase-1 read is advisory only.
	orderID, err := s.commit(in)
	if err != nil {
		return failure(err)
	}

	persisted, err := s.Orders.Get(orderID)
	if err != nil {
		return failure(err)
	}
	return domain.SubmitResult{Success: true, Order: &persisted}
}

func (s *OrderService) validateStock(items []OrderItemInput) ([]domain.InventoryConflict, error) {
	var conflicts []domain.InventoryConflict
	for _, it := range items {
		row, err := s.Prods.Stock(it.ProductID)
		if err == sql.ErrNoRows {
			conflicts = append(conflicts, domain.InventoryConflict{
				ProductID:   it.ProductID,
				ProductName: fallbackName(it.ProductName),
				Requested:   it.Quantity,
				Available:   0,
			})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read stock %s: %w", it.ProductID, err)
		}
		if row.Qty < it.Quantity {
			conflicts = append(conflicts, domain.InventoryConflict{
				ProductID:   it.ProductID,
				ProductName: row.Name,
				Requested:   it.Quantity,
				Available:   row.Qty,
			})
		}
	}
	return conflicts, nil
}

func (s *OrderService) commit(in OrderInput) (string, error) {
	o := headerFromInput(in)

	tx, err := s.db.Beginx()
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.Orders.Create(tx, &o); err != nil {
		return "", fmt.Errorf("insert order: %w", err)
	}

	for i := range in.Items {
		it := &in.Items[i]
		line := domain.OrderItem{
			ID:          uuid.NewString(),
			OrderID:     o.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			TotalPrice:  it.TotalPrice,
		}
		if err := s.Orders.InsertItem(tx, &line); err != nil {
			return "", fmt.Errorf("insert order item %s: %w", it.ProductID, err)
		}
		if err := s.Prods.DecrementStock(tx, it.ProductID, it.Quantity); err != nil {
			if errors.Is(err, repos.ErrInsufficientStock) {
				// Validation said yes a moment ago; a concurrent commit won.
				return "", fmt.Errorf("%w for %s", ErrStockRace, it.ProductID)
			}
			return "", fmt.Errorf("decrement stock %s: %w", it.ProductID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return o.ID, nil
}

func headerFromInput(in OrderInput) domain.Order {
	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}
	status := in.Status
	if status == "" {
		status = domain.OrderStatusPending
	}
	fulfillment := in.FulfillmentType
	if fulfillment == "" {
		fulfillment = domain.FulfillmentDelivery
	}
	return domain.Order{
		ID:                  id,
		UserID:              in.UserID,
		CustomerName:        in.CustomerName,
		CustomerEmail:       in.CustomerEmail,
		CustomerPhone:       in.CustomerPhone,
		Subtotal:            in.Subtotal,
		TaxAmount:           in.TaxAmount,
		TotalAmount:         in.TotalAmount,
		FulfillmentType:     fulfillment,
		DeliveryAddress:     in.DeliveryAddress,
		PickupTime:          in.PickupTime,
		SpecialInstructions: in.SpecialInstructions,
		Status:              status,
	}
}

func fallbackName(name string) string {
	if name == "" {
		return "Unknown Product"
	}
	return name
}

func failure(err error) domain.SubmitResult {
	return domain.SubmitResult{Success: false, Err: err.Error()}
}

// Checkout builds an order from the caller's current cart lines, priced
// server-side, and submits it through the same two-phase engine. The cart is
// cleared only after the submission commits.
func (s *OrderService) Checkout(userID string, in OrderInput) domain.SubmitResult {
	lines, err := s.Carts.Lines(userID)
	if err != nil {
		return failure(err)
	}
	if len(lines) == 0 {
		return failure(errors.New("cart empty"))
	}

	subtotal := 0.0
	items := make([]OrderItemInput, 0, len(lines))
	for _, l := range lines {
		items = append(items, OrderItemInput{
			ProductID:   l.ProductID,
			ProductName: l.Name,
			UnitPrice:   l.UnitPrice,
			Quantity:    l.Quantity,
			TotalPrice:  l.Subtotal,
		})
		subtotal += l.Subtotal
	}

	in.UserID = userID
	in.Items = items
	in.Subtotal = subtotal
	in.TotalAmount = subtotal + in.TaxAmount

	res := s.Submit(in)
	if res.Success {
		_ = s.Carts.Clear(userID)
	}
	return res
}
