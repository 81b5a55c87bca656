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

// lookupRepository implements LookupRepository over the reference collections.
type lookupRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewLookupRepository creates a new PostgreSQL-backed lookup repository.
func NewLookupRepository(pool *pgxpool.Pool, logger zerolog.Logger) LookupRepository {
	return &lookupRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "lookup").Logger(),
	}
}

func (r *lookupRepository) GetPaymentType(ctx context.Context, id uuid.UUID) (*model.PaymentType, error) {
	query := `SELECT id, type FROM payment_types WHERE id = $1`

	var pt model.PaymentType
	err := r.pool.QueryRow(ctx, query, id).Scan(&pt.ID, &pt.Type)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("payment_type_id", id.String()).Msg("failed to query payment type")
		return nil, fmt.Errorf("failed to query payment type: %w", err)
	}

	return &pt, nil
}

func (r *lookupRepository) GetPaymentStatusByLabel(ctx context.Context, label string) (*model.PaymentStatus, error) {
	query := `SELECT id, status FROM payment_statuses WHERE status = $1`

	var ps model.PaymentStatus
	err := r.pool.QueryRow(ctx, query, label).Scan(&ps.ID, &ps.Status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("label", label).Msg("failed to query payment status")
		return nil, fmt.Errorf("failed to query payment status: %w", err)
	}

	return &ps, nil
}

func (r *lookupRepository) GetOrderStatusByID(ctx context.Context, id uuid.UUID) (*model.OrderStatus, error) {
	query := `SELECT id, status FROM order_statuses WHERE id = $1`

	var os model.OrderStatus
	err := r.pool.QueryRow(ctx, query, id).Scan(&os.ID, &os.Status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("status_id", id.String()).Msg("failed to query order status")
		return nil, fmt.Errorf("failed to query order status: %w", err)
	}

	return &os, nil
}

func (r *lookupRepository) GetOrderStatusByLabel(ctx context.Context, label string) (*model.OrderStatus, error) {
	query := `SELECT id, status FROM order_statuses WHERE status = $1`

	var os model.OrderStatus
	err := r.pool.QueryRow(ctx, query, label).Scan(&os.ID, &os.Status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("label", label).Msg("failed to query order status")
		return nil, fmt.Errorf("failed to query order status: %w", err)
	}

	return &os, nil
}

func (r *lookupRepository) GetReturnStatusByLabel(ctx context.Context, label string) (*model.ReturnStatus, error) {
	query := `SELECT id, status FROM return_statuses WHERE status = $1`

	var rs model.ReturnStatus
	err := r.pool.QueryRow(ctx, query, label).Scan(&rs.ID, &rs.Status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("label", label).Msg("failed to query return status")
		return nil, fmt.Errorf("failed to query return status: %w", err)
	}

	return &rs, nil
}

// GetAddressForUser retrieves an address only if it belongs to the user, so
// one user cannot ship to another user's saved address.
func (r *lookupRepository) GetAddressForUser(ctx context.Context, addressID, userID uuid.UUID) (*model.Address, error) {
	query := `
		SELECT id, user_id, name, line1, line2, city, state, postal_code, phone
		FROM user_addresses
		WHERE id = $1 AND user_id = $2
	`

	var a model.Address
	err := r.pool.QueryRow(ctx, query, addressID, userID).Scan(
		&a.ID,
		&a.UserID,
		&a.Name,
		&a.Line1,
		&a.Line2,
		&a.City,
		&a.State,
		&a.PostalCode,
		&a.Phone,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().
				Str("address_id", addressID.String()).
				Str("user_id", userID.String()).
				Msg("address not found for user")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("address_id", addressID.String()).Msg("failed to query address")
		return nil, fmt.Errorf("failed to query address: %w", err)
	}

	return &a, nil
}
