package repos

import (
	"storefront/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

// Upsert adds delta to the (userID, productID) line, creating it if absent.
// The accumulation happens in one statement, so concurrent upserts for the
// same key serialize in the store and never lose an increment. RETURNING
// hands back the post-accumulation row from the same write.
func (r *CartRepo) Upsert(userID, productID string, delta int) (domain.CartItem, error) {
	var it domain.CartItem
	err := r.db.Get(&it, `
		INSERT INTO cart_items(user_id, product_id, quantity, created_at)
		VALUES(?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id, product_id) DO UPDATE
		SET quantity = quantity + excluded.quantity, updated_at = CURRENT_TIMESTAMP
		RETURNING user_id, product_id, quantity, created_at, COALESCE(updated_at,'') AS updated_at
	`, userID, productID, delta)
	return it, err
}

func (r *CartRepo) Get(userID, productID string) (domain.CartItem, error) {
	var it domain.CartItem
	err := r.db.Get(&it, `
		SELECT user_id, product_id, quantity, created_at, COALESCE(updated_at,'') AS updated_at
		FROM cart_items
		WHERE user_id = ? AND product_id = ?
	`, userID, productID)
	return it, err
}

type CartLine struct {
	ProductID string  `db:"product_id" json:"productId"`
	Name      string  `db:"name" json:"productName"`
	Quantity  int     `db:"quantity" json:"quantity"`
	UnitPrice float64 `db:"price" json:"unitPrice"`
	Subtotal  float64 `db:"subtotal" json:"subtotal"`
}

// Lines returns a user's cart joined with product names and prices.
func (r *CartRepo) Lines(userID string) ([]CartLine, error) {
	lines := []CartLine{}
	err := r.db.Select(&lines, `
	  SELECT ci.product_id, p.name, ci.quantity, p.price,
	         (ci.quantity * p.price) AS subtotal
	  FROM cart_items ci JOIN products p ON p.id = ci.product_id
	  WHERE ci.user_id = ? AND ci.quantity > 0
	  ORDER BY p.name
	`, userID)
	return lines, err
}

func (r *CartRepo) Remove(userID, productID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE user_id = ? AND product_id = ?`, userID, productID)
	return err
}

func (r *CartRepo) Clear(userID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE user_id = ?`, userID)
	return err
}
