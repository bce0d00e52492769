package services

import (
	"storefront/internal/domain"
	"storefront/internal/repos"
)

type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

// AddDelta applies a signed quantity delta to the user's cart line for a
// product, creating the line if absent, and returns the resulting row.
// The product must exist; the delta itself is not policed.
func (s *CartService) AddDelta(userID, productID string, delta int) (domain.CartItem, error) {
	if _, err := s.Prods.Get(productID); err != nil {
		return domain.CartItem{}, err
	}
	return s.Carts.Upsert(userID, productID, delta)
}

type CartView struct {
	Items []repos.CartLine `json:"items"`
	Total float64          `json:"total"`
}

func (s *CartService) View(userID string) (CartView, error) {
	lines, err := s.Carts.Lines(userID)
	if err != nil {
		return CartView{}, err
	}
	total := 0.0
	for _, l := range lines {
		total += l.Subtotal
	}
	return CartView{Items: lines, Total: total}, nil
}

func (s *CartService) Remove(userID, productID string) error {
	return s.Carts.Remove(userID, productID)
}

func (s *CartService) Clear(userID string) error {
	return s.Carts.Clear(userID)
}
