package model

import (
	"time"

	"github.com/google/uuid"
)

// Order represents a placed customer order. Address is an immutable snapshot
// of the shipping address at order time. Total is fixed once computed;
// StatusID and DeliveryOTP are the only fields mutated after creation.
type Order struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"userId" db:"user_id"`
	Address     Address   `json:"address" db:"address"`
	StatusID    uuid.UUID `json:"statusId" db:"status_id"`
	Total       float64   `json:"total" db:"total"`
	DeliveryOTP *string   `json:"deliveryOtp,omitempty" db:"delivery_otp"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// OrderItem is an immutable historical record of one ordered line.
type OrderItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OrderID   uuid.UUID `json:"orderId" db:"order_id"`
	ProductID uuid.UUID `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Size      *string   `json:"size,omitempty" db:"size"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CheckoutRequest is the request payload for placing an order.
type CheckoutRequest struct {
	UserID        uuid.UUID `json:"userId" validate:"required"`
	AddressID     uuid.UUID `json:"addressId" validate:"required"`
	PaymentTypeID uuid.UUID `json:"paymentTypeId" validate:"required"`
	CardName      *string   `json:"cardName,omitempty"`
	CardNo        *string   `json:"cardNo,omitempty"`
	UpiID         *string   `json:"upiId,omitempty"`
}

// StatusUpdateRequest is the request payload for an order status transition.
type StatusUpdateRequest struct {
	StatusID uuid.UUID `json:"statusId" validate:"required"`
}

// DeletionSummary reports what a cascade delete removed.
type DeletionSummary struct {
	OrderID     uuid.UUID `json:"orderId"`
	OrderItems  int64     `json:"orderItems"`
	Payments    int64     `json:"payments"`
	CardDetails int64     `json:"cardDetails"`
	UpiDetails  int64     `json:"upiDetails"`
}
