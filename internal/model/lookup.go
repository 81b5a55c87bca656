package model

import (
	"github.com/google/uuid"
)

// Vocabulary labels the engine depends on. The vocabularies themselves are
// admin-managed reference collections; only these labels carry behaviour.
const (
	OrderStatusPlaced    = "placed"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"

	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"

	PaymentTypeCod  = "cod"
	PaymentTypeCard = "card"
	PaymentTypeUpi  = "upi"

	ReturnStatusRequested = "requested"
)

// OutForDeliveryLabels are the accepted spellings of the out-for-delivery
// status; entering any of them triggers OTP generation.
var OutForDeliveryLabels = map[string]bool{
	"out for delivery":  true,
	"out_for_delivery":  true,
	"out-for-delivery":  true,
}

// OrderStatus is one entry in the order-status vocabulary.
type OrderStatus struct {
	ID     uuid.UUID `json:"id" db:"id"`
	Status string    `json:"status" db:"status"`
}

// PaymentStatus is one entry in the payment-status vocabulary.
type PaymentStatus struct {
	ID     uuid.UUID `json:"id" db:"id"`
	Status string    `json:"status" db:"status"`
}

// PaymentType is one entry in the payment-type vocabulary (cod, card, upi).
type PaymentType struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Type string    `json:"type" db:"type"`
}

// ReturnStatus is one entry in the return-status vocabulary.
type ReturnStatus struct {
	ID     uuid.UUID `json:"id" db:"id"`
	Status string    `json:"status" db:"status"`
}
