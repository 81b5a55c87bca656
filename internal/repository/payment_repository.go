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

// paymentRepository implements the PaymentRepository interface using PostgreSQL.
type paymentRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPaymentRepository creates a new PostgreSQL-backed payment repository.
func NewPaymentRepository(pool *pgxpool.Pool, logger zerolog.Logger) PaymentRepository {
	return &paymentRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "payment").Logger(),
	}
}

// CreatePayment inserts the payment within the provided transaction.
func (r *paymentRepository) CreatePayment(ctx context.Context, tx pgx.Tx, payment *model.Payment) error {
	query := `
		INSERT INTO payments (id, user_id, order_id, payment_type_id, payment_status_id,
			invoice_no, delivery_fee, amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := tx.Exec(ctx, query,
		payment.ID,
		payment.UserID,
		payment.OrderID,
		payment.PaymentTypeID,
		payment.PaymentStatusID,
		payment.InvoiceNo,
		payment.DeliveryFee,
		payment.Amount,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", payment.OrderID.String()).
			Msg("failed to create payment")
		return fmt.Errorf("failed to create payment: %w", err)
	}

	r.logger.Debug().
		Str("payment_id", payment.ID.String()).
		Str("invoice_no", payment.InvoiceNo).
		Msg("payment created successfully")

	return nil
}

// CreateCardDetail inserts the card side record within the transaction.
// detail.CardNo must already be ciphertext.
func (r *paymentRepository) CreateCardDetail(ctx context.Context, tx pgx.Tx, detail *model.CardDetail) error {
	query := `
		INSERT INTO card_details (id, payment_id, name, card_no, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := tx.Exec(ctx, query, detail.ID, detail.PaymentID, detail.Name, detail.CardNo, detail.CreatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("payment_id", detail.PaymentID.String()).
			Msg("failed to create card detail")
		return fmt.Errorf("failed to create card detail: %w", err)
	}

	return nil
}

// CreateUpiDetail inserts the UPI side record within the transaction.
func (r *paymentRepository) CreateUpiDetail(ctx context.Context, tx pgx.Tx, detail *model.UpiDetail) error {
	query := `
		INSERT INTO upi_details (id, payment_id, upi_id, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := tx.Exec(ctx, query, detail.ID, detail.PaymentID, detail.UpiID, detail.CreatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("payment_id", detail.PaymentID.String()).
			Msg("failed to create UPI detail")
		return fmt.Errorf("failed to create UPI detail: %w", err)
	}

	return nil
}

// GetByOrder retrieves the order's payment, or nil if none exists.
func (r *paymentRepository) GetByOrder(ctx context.Context, orderID uuid.UUID) (*model.Payment, error) {
	query := `
		SELECT id, user_id, order_id, payment_type_id, payment_status_id,
			invoice_no, delivery_fee, amount, created_at, updated_at
		FROM payments
		WHERE order_id = $1
	`

	var p model.Payment
	err := r.pool.QueryRow(ctx, query, orderID).Scan(
		&p.ID,
		&p.UserID,
		&p.OrderID,
		&p.PaymentTypeID,
		&p.PaymentStatusID,
		&p.InvoiceNo,
		&p.DeliveryFee,
		&p.Amount,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", orderID.String()).Msg("payment not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to query payment")
		return nil, fmt.Errorf("failed to query payment: %w", err)
	}

	return &p, nil
}

// DeleteDetailsByOrder removes card and UPI side records belonging to the
// order's payments within the transaction.
func (r *paymentRepository) DeleteDetailsByOrder(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (int64, int64, error) {
	cardQuery := `
		DELETE FROM card_details
		WHERE payment_id IN (SELECT id FROM payments WHERE order_id = $1)
	`

	cardTag, err := tx.Exec(ctx, cardQuery, orderID)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to delete card details")
		return 0, 0, fmt.Errorf("failed to delete card details: %w", err)
	}

	upiQuery := `
		DELETE FROM upi_details
		WHERE payment_id IN (SELECT id FROM payments WHERE order_id = $1)
	`

	upiTag, err := tx.Exec(ctx, upiQuery, orderID)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to delete UPI details")
		return 0, 0, fmt.Errorf("failed to delete UPI details: %w", err)
	}

	return cardTag.RowsAffected(), upiTag.RowsAffected(), nil
}

// DeleteByOrder removes the order's payments within the transaction.
func (r *paymentRepository) DeleteByOrder(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (int64, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM payments WHERE order_id = $1`, orderID)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to delete payments")
		return 0, fmt.Errorf("failed to delete payments: %w", err)
	}
	return tag.RowsAffected(), nil
}
