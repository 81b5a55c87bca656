package model

import (
	"time"

	"github.com/google/uuid"
)

// Payment is the single payment record created alongside an order.
type Payment struct {
	ID              uuid.UUID `json:"id" db:"id"`
	UserID          uuid.UUID `json:"userId" db:"user_id"`
	OrderID         uuid.UUID `json:"orderId" db:"order_id"`
	PaymentTypeID   uuid.UUID `json:"paymentTypeId" db:"payment_type_id"`
	PaymentStatusID uuid.UUID `json:"paymentStatusId" db:"payment_status_id"`
	InvoiceNo       string    `json:"invoiceNo" db:"invoice_no"`
	DeliveryFee     float64   `json:"deliveryFee" db:"delivery_fee"`
	Amount          float64   `json:"amount" db:"amount"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// CardDetail holds the card-specific side record for a card payment.
// CardNo is ciphertext; the plaintext number is never persisted.
type CardDetail struct {
	ID        uuid.UUID `json:"id" db:"id"`
	PaymentID uuid.UUID `json:"paymentId" db:"payment_id"`
	Name      string    `json:"name" db:"name"`
	CardNo    string    `json:"-" db:"card_no"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// UpiDetail holds the UPI-specific side record for a UPI payment.
type UpiDetail struct {
	ID        uuid.UUID `json:"id" db:"id"`
	PaymentID uuid.UUID `json:"paymentId" db:"payment_id"`
	UpiID     string    `json:"upiId" db:"upi_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// PaymentMethod is the tagged variant resolved once at the start of checkout.
// Exactly one concrete type flows through the transaction and selects the
// side record to insert.
type PaymentMethod interface {
	// Kind returns the payment-type label the method corresponds to.
	Kind() string
}

// CodMethod is cash on delivery; it carries no extra fields.
type CodMethod struct{}

// CardMethod carries validated card holder name and plaintext card number.
type CardMethod struct {
	Name   string
	Number string
}

// UpiMethod carries a validated UPI handle.
type UpiMethod struct {
	Handle string
}

func (CodMethod) Kind() string  { return PaymentTypeCod }
func (CardMethod) Kind() string { return PaymentTypeCard }
func (UpiMethod) Kind() string  { return PaymentTypeUpi }
