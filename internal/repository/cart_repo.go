package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-shop-api/internal/model"
)

// CartRepository stores one cart document per user id, with the item list
// held as a JSONB payload.
type CartRepository struct {
	pool *pgxpool.Pool
}

func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

func (r *CartRepository) Find(ctx context.Context, userID string) (model.Cart, error) {
	var (
		raw       []byte
		updatedAt time.Time
	)
	err := r.pool.QueryRow(ctx,
		`SELECT items, updated_at FROM carts WHERE user_id = $1`, userID).
		Scan(&raw, &updatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Cart{}, model.ErrCartNotFound
	}
	if err != nil {
		return model.Cart{}, fmt.Errorf("find cart: %w", err)
	}

	var items []model.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return model.Cart{}, fmt.Errorf("decode cart items: %w", err)
	}

	return model.Cart{UserID: userID, Items: items, UpdatedAt: updatedAt}, nil
}

// Save upserts the cart document, replacing its item list.
func (r *CartRepository) Save(ctx context.Context, userID string, items []model.CartItem) error {
	if items == nil {
		items = []model.CartItem{}
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart items: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO carts (user_id, items, updated_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET items = EXCLUDED.items, updated_at = EXCLUDED.updated_at`,
		userID, raw, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
