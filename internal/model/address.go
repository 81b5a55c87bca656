package model

import (
	"github.com/google/uuid"
)

// Address is a user shipping address. At order time the full record is
// embedded into the order as a snapshot, never referenced live.
type Address struct {
	ID         uuid.UUID `json:"id" db:"id"`
	UserID     uuid.UUID `json:"userId" db:"user_id"`
	Name       string    `json:"name" db:"name"`
	Line1      string    `json:"line1" db:"line1"`
	Line2      *string   `json:"line2,omitempty" db:"line2"`
	City       string    `json:"city" db:"city"`
	State      string    `json:"state" db:"state"`
	PostalCode string    `json:"postalCode" db:"postal_code"`
	Phone      string    `json:"phone" db:"phone"`
}
