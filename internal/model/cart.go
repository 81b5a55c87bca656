package model

import (
	"github.com/google/uuid"
)

// Cart is the per-user staging area consumed by checkout.
type Cart struct {
	ID     uuid.UUID `json:"id" db:"id"`
	UserID uuid.UUID `json:"userId" db:"user_id"`
}

// CartItem is one staged line: product + size + quantity.
type CartItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CartID    uuid.UUID `json:"cartId" db:"cart_id"`
	ProductID uuid.UUID `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Size      *string   `json:"size,omitempty" db:"size"`
}
