package service

import (
	"context"
	"strings"

	"go-shop-api/internal/model"
	"go-shop-api/pkg/apierror"
)

// CartStore holds one cart document per user.
type CartStore interface {
	Find(ctx context.Context, userID string) (model.Cart, error)
	Save(ctx context.Context, userID string, items []model.CartItem) error
}

type CartService struct {
	carts CartStore
}

func NewCartService(carts CartStore) *CartService {
	return &CartService{carts: carts}
}

func (s *CartService) Get(ctx context.Context, userID string) (model.Cart, error) {
	return s.carts.Find(ctx, userID)
}

// Merge replaces the item list of the user's cart document, creating the
// document when it does not exist yet.
func (s *CartService) Merge(ctx context.Context, userID string, items []model.CartItem) error {
	if items == nil {
		return apierror.BadRequest("invalid cart items", "items")
	}

	for _, item := range items {
		if strings.TrimSpace(item.ProductID) == "" {
			return apierror.BadRequest("invalid cart items", "productId")
		}
	}

	return s.carts.Save(ctx, userID, items)
}

func (s *CartService) RemoveItem(ctx context.Context, userID string, productID string) error {
	cart, err := s.carts.Find(ctx, userID)
	if err != nil {
		return err
	}

	remaining := make([]model.CartItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		if item.ProductID != productID {
			remaining = append(remaining, item)
		}
	}

	return s.carts.Save(ctx, userID, remaining)
}
