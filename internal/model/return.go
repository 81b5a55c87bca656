package model

import (
	"time"

	"github.com/google/uuid"
)

// Return is a user-initiated return of part of an order line. For any
// (order, product) pair the summed return quantity never exceeds the
// quantity recorded in the matching order item.
type Return struct {
	ID             uuid.UUID `json:"id" db:"id"`
	OrderID        uuid.UUID `json:"orderId" db:"order_id"`
	ProductID      uuid.UUID `json:"productId" db:"product_id"`
	UserID         uuid.UUID `json:"userId" db:"user_id"`
	ReturnStatusID uuid.UUID `json:"returnStatusId" db:"return_status_id"`
	Quantity       int       `json:"quantity" db:"quantity"`
	Amount         float64   `json:"amount" db:"amount"`
	Reason         *string   `json:"reason,omitempty" db:"reason"`
	ImageURL       *string   `json:"imageUrl,omitempty" db:"image_url"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// ReturnRequest is the request payload for creating a return.
type ReturnRequest struct {
	OrderItemID uuid.UUID `json:"orderItemId" validate:"required"`
	Quantity    int       `json:"quantity" validate:"required,gt=0"`
	Reason      *string   `json:"reason,omitempty"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
}
