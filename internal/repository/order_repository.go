package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"trendora/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateOrder inserts a new order within the provided transaction. The
// shipping address is embedded as a JSONB snapshot.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	addr, err := json.Marshal(order.Address)
	if err != nil {
		return fmt.Errorf("failed to encode address snapshot: %w", err)
	}

	query := `
		INSERT INTO orders (id, user_id, address, status_id, total, delivery_otp, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = tx.Exec(ctx, query,
		order.ID,
		order.UserID,
		addr,
		order.StatusID,
		order.Total,
		order.DeliveryOTP,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Msg("order created successfully")

	return nil
}

// CreateOrderItems inserts multiple order items within the provided transaction.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, product_id, quantity, size, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query,
			item.ID,
			item.OrderID,
			item.ProductID,
			item.Quantity,
			item.Size,
			item.UserID,
			item.CreatedAt,
			item.UpdatedAt,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		_, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Str("product_id", items[i].ProductID.String()).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items created successfully")

	return nil
}

const orderColumns = `id, user_id, address, status_id, total, delivery_otp, created_at, updated_at`

// scanOrder scans one order row, decoding the embedded address snapshot.
func scanOrder(row pgx.Row) (*model.Order, error) {
	var order model.Order
	var addr []byte
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&addr,
		&order.StatusID,
		&order.Total,
		&order.DeliveryOTP,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(addr, &order.Address); err != nil {
		return nil, fmt.Errorf("failed to decode address snapshot: %w", err)
	}

	return &order, nil
}

// GetByID retrieves an order by its ID, or nil if it does not exist.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return order, nil
}

// GetItemByID retrieves a single order item, or nil if it does not exist.
func (r *orderRepository) GetItemByID(ctx context.Context, id uuid.UUID) (*model.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, quantity, size, user_id, created_at, updated_at
		FROM order_items
		WHERE id = $1
	`

	var item model.OrderItem
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&item.ID,
		&item.OrderID,
		&item.ProductID,
		&item.Quantity,
		&item.Size,
		&item.UserID,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_item_id", id.String()).Msg("order item not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_item_id", id.String()).Msg("failed to query order item")
		return nil, fmt.Errorf("failed to query order item: %w", err)
	}

	return &item, nil
}

// ListByUser retrieves a user's orders, newest first.
func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// UpdateStatus sets the order's status and applies the OTP update in a single
// statement. When otp.Set is false the stored OTP is left untouched.
func (r *orderRepository) UpdateStatus(ctx context.Context, id, statusID uuid.UUID, otp OTPUpdate) (*model.Order, error) {
	var row pgx.Row
	if otp.Set {
		query := `
			UPDATE orders
			SET status_id = $2, delivery_otp = $3, updated_at = NOW()
			WHERE id = $1
			RETURNING ` + orderColumns
		row = r.pool.QueryRow(ctx, query, id, statusID, otp.Value)
	} else {
		query := `
			UPDATE orders
			SET status_id = $2, updated_at = NOW()
			WHERE id = $1
			RETURNING ` + orderColumns
		row = r.pool.QueryRow(ctx, query, id, statusID)
	}

	order, err := scanOrder(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found for status update")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update order status")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	r.logger.Debug().
		Str("order_id", id.String()).
		Str("status_id", statusID.String()).
		Bool("otp_updated", otp.Set).
		Msg("order status updated")

	return order, nil
}

// DeleteItemsByOrder removes the order's items within the transaction.
func (r *orderRepository) DeleteItemsByOrder(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (int64, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to delete order items")
		return 0, fmt.Errorf("failed to delete order items: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteOrder removes the order row itself within the transaction.
func (r *orderRepository) DeleteOrder(ctx context.Context, tx pgx.Tx, id uuid.UUID) (int64, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to delete order")
		return 0, fmt.Errorf("failed to delete order: %w", err)
	}
	return tag.RowsAffected(), nil
}
