package model

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a catalogue product. Stock (Quantity) is only ever
// mutated through the conditional decrement in the product repository.
type Product struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Price      float64   `json:"price" db:"price"`
	Quantity   int       `json:"quantity" db:"quantity"`
	OutOfStock bool      `json:"outOfStock" db:"out_of_stock"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}
