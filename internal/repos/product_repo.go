package repos

import (
	"errors"

	"storefront/internal/domain"

	"github.com/jmoiron/sqlx"
)

// ErrInsufficientStock is returned by DecrementStock when the guarded update
// matches no row (missing product or not enough stock at write time).
var ErrInsufficientStock = errors.New("insufficient stock")

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `
	  SELECT id, name, COALESCE(description,'') AS description, price, stock_quantity,
	         active, created_at, COALESCE(updated_at,'') AS updated_at
	  FROM products
	  WHERE id = ?
	`, id)
	return p, err
}

func (r *ProductRepo) List(limit, offset int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT id, name, COALESCE(description,'') AS description, price, stock_quantity,
	         active, created_at, COALESCE(updated_at,'') AS updated_at
	  FROM products
	  WHERE active = 1
	  ORDER BY name
	  LIMIT ? OFFSET ?
	`, limit, offset)
	return out, err
}

// StockRow is what the pre-validation pass needs: current counter plus the
// name for conflict reporting.
type StockRow struct {
	Name string `db:"name"`
	Qty  int    `db:"stock_quantity"`
}

// Stock returns the current stock and name for a product.
// Returns sql.ErrNoRows when the product does not exist.
func (r *ProductRepo) Stock(productID string) (StockRow, error) {
	var row StockRow
	err := r.db.Get(&row, `SELECT name, stock_quantity FROM products WHERE id = ?`, productID)
	return row, err
}

// DecrementStock subtracts "by" units inside tx, only if enough stock still
// exists at write time. The rows-affected count is the authoritative check.
func (r *ProductRepo) DecrementStock(tx *sqlx.Tx, productID string, by int) error {
	res, err := tx.Exec(`
		UPDATE products
		SET stock_quantity = stock_quantity - ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND stock_quantity >= ?
	`, by, productID, by)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// IncrementStock adds "by" units (restock). Never guarded; stock only grows.
func (r *ProductRepo) IncrementStock(productID string, by int) error {
	res, err := r.db.Exec(`
		UPDATE products
		SET stock_quantity = stock_quantity + ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, by, productID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return errors.New("unknown product: " + productID)
	}
	return nil
}

// SetStock overwrites the counter for (productID). Admin use only.
func (r *ProductRepo) SetStock(productID string, qty int) error {
	res, err := r.db.Exec(`
		UPDATE products
		SET stock_quantity = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, qty, productID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return errors.New("unknown product: " + productID)
	}
	return nil
}

// Row used by admin inventory pages
type InventoryRow struct {
	ProductID string `db:"id"`
	Name      string `db:"name"`
	Qty       int    `db:"stock_quantity"`
}

// ListStock returns stock levels for every product (for the admin view).
func (r *ProductRepo) ListStock() ([]InventoryRow, error) {
	var rows []InventoryRow
	err := r.db.Select(&rows, `
		SELECT id, name, stock_quantity
		FROM products
		ORDER BY name
	`)
	return rows, err
}
