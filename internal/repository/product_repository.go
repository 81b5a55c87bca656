package repository

import (
	"context"
	"fmt"

	"trendora/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	query := `
		SELECT id, name, price, quantity, out_of_stock, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	var p model.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Price,
		&p.Quantity,
		&p.OutOfStock,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("product_id", id.String()).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// DecrementStock reduces stock by qty only when enough remains, reading the
// unit price and post-decrement quantity back in the same statement. The
// guard and the write are one atomic read-modify-write; two checkouts racing
// on the same product cannot both pass it.
func (r *productRepository) DecrementStock(ctx context.Context, tx pgx.Tx, productID uuid.UUID, qty int) (float64, int, error) {
	query := `
		UPDATE products
		SET quantity = quantity - $2, updated_at = NOW()
		WHERE id = $1 AND quantity >= $2
		RETURNING price, quantity
	`

	var price float64
	var remaining int
	err := tx.QueryRow(ctx, query, productID, qty).Scan(&price, &remaining)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Warn().
				Str("product_id", productID.String()).
				Int("requested", qty).
				Msg("conditional stock decrement rejected")
			return 0, 0, model.ErrInsufficientStock
		}
		r.logger.Error().
			Err(err).
			Str("product_id", productID.String()).
			Msg("failed to decrement stock")
		return 0, 0, fmt.Errorf("failed to decrement stock: %w", err)
	}

	r.logger.Debug().
		Str("product_id", productID.String()).
		Int("quantity", qty).
		Int("remaining", remaining).
		Msg("stock decremented")

	return price, remaining, nil
}

// MarkOutOfStock flags the product once its stock reaches zero. The guard on
// out_of_stock makes repeated calls no-ops.
func (r *productRepository) MarkOutOfStock(ctx context.Context, tx pgx.Tx, productID uuid.UUID) error {
	query := `
		UPDATE products
		SET out_of_stock = TRUE, updated_at = NOW()
		WHERE id = $1 AND out_of_stock = FALSE
	`

	_, err := tx.Exec(ctx, query, productID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("product_id", productID.String()).
			Msg("failed to mark product out of stock")
		return fmt.Errorf("failed to mark product out of stock: %w", err)
	}

	return nil
}
