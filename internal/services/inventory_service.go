package services

import (
	"database/sql"

	"storefront/internal/domain"
	"storefront/internal/repos"
)

type InventoryService struct {
	Prods *repos.ProductRepo
}

func NewInventoryService(prods *repos.ProductRepo) *InventoryService {
	return &InventoryService{Prods: prods}
}

// CheckAvailability converts a stock counter to IN_STOCK / LOW_STOCK / OUT_OF_STOCK.
func (s *InventoryService) CheckAvailability(productID string) (domain.Availability, error) {
	row, err := s.Prods.Stock(productID)
	if err != nil {
		// Unknown products read as out of stock.
		if err == sql.ErrNoRows {
			return domain.Availability{Status: "OUT_OF_STOCK", Qty: 0}, nil
		}
		return domain.Availability{}, err
	}

	status := "OUT_OF_STOCK"
	switch {
	case row.Qty >= 5:
		status = "IN_STOCK"
	case row.Qty > 0:
		status = "LOW_STOCK"
	}
	return domain.Availability{Status: status, Qty: row.Qty}, nil
}

// Restock adds units to a product's stock counter.
func (s *InventoryService) Restock(productID string, by int) error {
	return s.Prods.IncrementStock(productID, by)
}

// SetStock overwrites a product's stock counter (admin only).
func (s *InventoryService) SetStock(productID string, qty int) error {
	return s.Prods.SetStock(productID, qty)
}

func (s *InventoryService) ListStock() ([]repos.InventoryRow, error) {
	return s.Prods.ListStock()
}
