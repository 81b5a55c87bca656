package service

import (
	"context"

	"trendora/internal/model"

	"github.com/google/uuid"
)

// Identity is the pre-validated acting principal. The permission matrix is
// enforced upstream; the services only consume the identity for ownership
// and admin checks.
type Identity struct {
	UserID uuid.UUID
	Admin  bool
}

// CheckoutService turns a staged cart into a durable order.
type CheckoutService interface {
	// Checkout converts the acting user's cart into an order, order items,
	// a payment and its method-specific side record, decrementing stock per
	// line and clearing the cart inside one transaction.
	Checkout(ctx context.Context, actor Identity, req *model.CheckoutRequest) (*model.Order, error)
}

// OrderService covers the order lifecycle after checkout: reads, status
// transitions with their OTP side effects, and cascade deletion.
type OrderService interface {
	// GetOwn retrieves one of the acting user's orders.
	GetOwn(ctx context.Context, actor Identity, orderID uuid.UUID) (*model.Order, error)

	// Get retrieves any order (admin).
	Get(ctx context.Context, orderID uuid.UUID) (*model.Order, error)

	// ListOwn retrieves the acting user's orders with pagination.
	ListOwn(ctx context.Context, actor Identity, limit, offset int) ([]model.Order, error)

	// UpdateStatus transitions the order to the given status, generating or
	// clearing the delivery OTP when the target status requires it. Non-admin
	// actors may only transition their own orders, and only to statuses in
	// the self-service subset.
	UpdateStatus(ctx context.Context, actor Identity, orderID, statusID uuid.UUID) (*model.Order, error)

	// Delete removes the order and everything checkout created for it in one
	// transaction, then cleans up stored artifacts best-effort.
	Delete(ctx context.Context, orderID uuid.UUID) (*model.DeletionSummary, error)
}

// ReturnService creates and lists product returns, capping cumulative
// returned quantity at the ordered quantity.
type ReturnService interface {
	// Create registers a return for an order item the acting user owns.
	Create(ctx context.Context, actor Identity, req *model.ReturnRequest) (*model.Return, error)

	// ListOwn retrieves the acting user's returns with pagination.
	ListOwn(ctx context.Context, actor Identity, limit, offset int) ([]model.Return, error)
}
