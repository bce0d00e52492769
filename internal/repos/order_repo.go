package repos

import (
	"storefront/internal/domain"

	"github.com/jmoiron/sqlx"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// Create inserts the order header inside tx so it commits or rolls back
// together with its items and stock decrements.
func (r *OrderRepo) Create(tx *sqlx.Tx, o *domain.Order) error {
	_, err := tx.Exec(`
	  INSERT INTO orders
	    (id, user_id, customer_name, customer_email, customer_phone,
	     subtotal, tax_amount, total_amount, fulfillment_type,
	     delivery_address, pickup_time, special_instructions, status, created_at)
	  VALUES
	    (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, o.ID, o.UserID, o.CustomerName, o.CustomerEmail, o.CustomerPhone,
		o.Subtotal, o.TaxAmount, o.TotalAmount, o.FulfillmentType,
		o.DeliveryAddress, o.PickupTime, o.SpecialInstructions, o.Status)
	return err
}

// InsertItem inserts a single line item inside tx.
func (r *OrderRepo) InsertItem(tx *sqlx.Tx, it *domain.OrderItem) error {
	_, err := tx.Exec(`
	  INSERT INTO order_items(id, order_id, product_id, product_name, unit_price, quantity, total_price)
	  VALUES(?, ?, ?, ?, ?, ?, ?)
	`, it.ID, it.OrderID, it.ProductID, it.ProductName, it.UnitPrice, it.Quantity, it.TotalPrice)
	return err
}

func (r *OrderRepo) Get(orderID string) (domain.Order, error) {
	var o domain.Order
	if err := r.db.Get(&o, `
		SELECT id, user_id, customer_name, customer_email, COALESCE(customer_phone,'') AS customer_phone,
		       subtotal, tax_amount, total_amount, fulfillment_type,
		       COALESCE(delivery_address,'') AS delivery_address,
		       COALESCE(pickup_time,'') AS pickup_time,
		       COALESCE(special_instructions,'') AS special_instructions,
		       status, created_at, COALESCE(updated_at,'') AS updated_at
		FROM orders
		WHERE id = ?
	`, orderID); err != nil {
		return domain.Order{}, err
	}

	if err := r.db.Select(&o.Items, `
		SELECT id, order_id, product_id, product_name, unit_price, quantity, total_price
		FROM order_items
		WHERE order_id = ?
		ORDER BY product_name
	`, orderID); err != nil {
		return domain.Order{}, err
	}

	return o, nil
}

func (r *OrderRepo) Exists(orderID string) (bool, error) {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM orders WHERE id = ?`, orderID); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *OrderRepo) ListByUser(userID string) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.Select(&out, `
		SELECT id, user_id, customer_name, customer_email, COALESCE(customer_phone,'') AS customer_phone,
		       subtotal, tax_amount, total_amount, fulfillment_type,
		       COALESCE(delivery_address,'') AS delivery_address,
		       COALESCE(pickup_time,'') AS pickup_time,
		       COALESCE(special_instructions,'') AS special_instructions,
		       status, created_at, COALESCE(updated_at,'') AS updated_at
		FROM orders
		WHERE user_id = ?
		ORDER BY datetime(created_at) DESC
	`, userID)
	return out, err
}

func (r *OrderRepo) UpdateStatus(id, status string) error {
	_, err := r.db.Exec(`UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, status, id)
	return err
}
