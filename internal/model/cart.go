package model

import "time"

type Cart struct {
	UserID    string     `json:"-"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"-"`
}

type CartItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity,omitempty"`
}
