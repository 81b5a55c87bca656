package repository

import (
	"context"
	"fmt"

	"trendora/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// returnRepository implements the ReturnRepository interface using PostgreSQL.
type returnRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewReturnRepository creates a new PostgreSQL-backed return repository.
func NewReturnRepository(pool *pgxpool.Pool, logger zerolog.Logger) ReturnRepository {
	return &returnRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "return").Logger(),
	}
}

// Create inserts a new return record.
func (r *returnRepository) Create(ctx context.Context, ret *model.Return) error {
	query := `
		INSERT INTO returns (id, order_id, product_id, user_id, return_status_id,
			quantity, amount, reason, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		ret.ID,
		ret.OrderID,
		ret.ProductID,
		ret.UserID,
		ret.ReturnStatusID,
		ret.Quantity,
		ret.Amount,
		ret.Reason,
		ret.ImageURL,
		ret.CreatedAt,
		ret.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", ret.OrderID.String()).
			Str("product_id", ret.ProductID.String()).
			Msg("failed to create return")
		return fmt.Errorf("failed to create return: %w", err)
	}

	r.logger.Debug().
		Str("return_id", ret.ID.String()).
		Int("quantity", ret.Quantity).
		Msg("return created successfully")

	return nil
}

// SumQuantity computes the total quantity already requested across all
// returns for the (order, product) pair.
func (r *returnRepository) SumQuantity(ctx context.Context, orderID, productID uuid.UUID) (int, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM returns
		WHERE order_id = $1 AND product_id = $2
	`

	var total int
	err := r.pool.QueryRow(ctx, query, orderID, productID).Scan(&total)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", orderID.String()).
			Str("product_id", productID.String()).
			Msg("failed to sum returned quantity")
		return 0, fmt.Errorf("failed to sum returned quantity: %w", err)
	}

	return total, nil
}

// ListByUser retrieves a user's returns, newest first.
func (r *returnRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Return, error) {
	query := `
		SELECT id, order_id, product_id, user_id, return_status_id,
			quantity, amount, reason, image_url, created_at, updated_at
		FROM returns
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query returns")
		return nil, fmt.Errorf("failed to query returns: %w", err)
	}
	defer rows.Close()

	var returns []model.Return
	for rows.Next() {
		var ret model.Return
		err := rows.Scan(
			&ret.ID,
			&ret.OrderID,
			&ret.ProductID,
			&ret.UserID,
			&ret.ReturnStatusID,
			&ret.Quantity,
			&ret.Amount,
			&ret.Reason,
			&ret.ImageURL,
			&ret.CreatedAt,
			&ret.UpdatedAt,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan return row")
			return nil, fmt.Errorf("failed to scan return: %w", err)
		}
		returns = append(returns, ret)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating return rows")
		return nil, fmt.Errorf("error iterating returns: %w", err)
	}

	return returns, nil
}
