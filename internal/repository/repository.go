package repository

import (
	"context"

	"trendora/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OTPUpdate describes what a status transition does to the stored delivery
// OTP: leave it untouched (Set false), write a fresh code, or clear it
// (Set true with a nil Value).
type OTPUpdate struct {
	Set   bool
	Value *string
}

// ProductRepository defines product data access. Stock is only ever reduced
// through DecrementStock, a single conditional read-modify-write.
type ProductRepository interface {
	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// DecrementStock reduces the product's stock by qty only if enough stock
	// remains, returning the unit price and post-decrement quantity read in
	// the same statement. Returns model.ErrInsufficientStock when the guard
	// fails.
	DecrementStock(ctx context.Context, tx pgx.Tx, productID uuid.UUID, qty int) (price float64, remaining int, err error)

	// MarkOutOfStock flags the product as out of stock. Idempotent.
	MarkOutOfStock(ctx context.Context, tx pgx.Tx, productID uuid.UUID) error
}

// CartRepository defines access to the cart staging store.
type CartRepository interface {
	// GetByUser retrieves the user's cart, or nil if none exists.
	GetByUser(ctx context.Context, userID uuid.UUID) (*model.Cart, error)

	// GetItems enumerates all lines staged in the cart.
	GetItems(ctx context.Context, cartID uuid.UUID) ([]model.CartItem, error)

	// DeleteItems removes every line in the cart within the transaction.
	DeleteItems(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) (int64, error)
}

// LookupRepository defines read access to the reference vocabularies and
// user addresses consumed by the engine.
type LookupRepository interface {
	GetPaymentType(ctx context.Context, id uuid.UUID) (*model.PaymentType, error)
	GetPaymentStatusByLabel(ctx context.Context, label string) (*model.PaymentStatus, error)
	GetOrderStatusByID(ctx context.Context, id uuid.UUID) (*model.OrderStatus, error)
	GetOrderStatusByLabel(ctx context.Context, label string) (*model.OrderStatus, error)
	GetReturnStatusByLabel(ctx context.Context, label string) (*model.ReturnStatus, error)

	// GetAddressForUser retrieves an address only if it belongs to the user.
	GetAddressForUser(ctx context.Context, addressID, userID uuid.UUID) (*model.Address, error)
}

// OrderRepository defines order data access.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID, or nil if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetItemByID retrieves a single order item, or nil if it does not exist.
	GetItemByID(ctx context.Context, id uuid.UUID) (*model.OrderItem, error)

	// ListByUser retrieves a user's orders, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Order, error)

	// UpdateStatus sets the order's status and applies the OTP update in a
	// single statement, returning the updated order or nil if not found.
	UpdateStatus(ctx context.Context, id, statusID uuid.UUID, otp OTPUpdate) (*model.Order, error)

	// DeleteItemsByOrder removes the order's items within the transaction.
	DeleteItemsByOrder(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (int64, error)

	// DeleteOrder removes the order row itself within the transaction.
	DeleteOrder(ctx context.Context, tx pgx.Tx, id uuid.UUID) (int64, error)
}

// PaymentRepository defines payment and payment-detail data access.
type PaymentRepository interface {
	// CreatePayment inserts the payment within the provided transaction.
	CreatePayment(ctx context.Context, tx pgx.Tx, payment *model.Payment) error

	// CreateCardDetail inserts the card side record within the transaction.
	CreateCardDetail(ctx context.Context, tx pgx.Tx, detail *model.CardDetail) error

	// CreateUpiDetail inserts the UPI side record within the transaction.
	CreateUpiDetail(ctx context.Context, tx pgx.Tx, detail *model.UpiDetail) error

	// GetByOrder retrieves the order's payment, or nil if none exists.
	GetByOrder(ctx context.Context, orderID uuid.UUID) (*model.Payment, error)

	// DeleteDetailsByOrder removes card and UPI side records belonging to the
	// order's payments within the transaction.
	DeleteDetailsByOrder(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (cards, upis int64, err error)

	// DeleteByOrder removes the order's payments within the transaction.
	DeleteByOrder(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (int64, error)
}

// ReturnRepository defines return data access.
type ReturnRepository interface {
	// Create inserts a new return record.
	Create(ctx context.Context, ret *model.Return) error

	// SumQuantity computes the total quantity already requested across all
	// returns for the (order, product) pair. Always a fresh read.
	SumQuantity(ctx context.Context, orderID, productID uuid.UUID) (int, error)

	// ListByUser retrieves a user's returns, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Return, error)
}
