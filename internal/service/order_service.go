package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"trendora/internal/events"
	"trendora/internal/model"
	"trendora/internal/repository"
	"trendora/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// otpDigits is the length of the delivery confirmation code.
const otpDigits = 6

// generateOTP draws a zero-padded numeric code from crypto/rand.
func generateOTP() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < otpDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}

	return fmt.Sprintf("%0*d", otpDigits, n), nil
}

// selfServiceStatuses are the labels a non-admin user may move their own
// order to. Everything else requires an administrator.
var selfServiceStatuses = map[string]bool{
	model.OrderStatusCancelled: true,
}

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentRepository
	lookupRepo  repository.LookupRepository
	artifacts   storage.ArtifactStore
	publisher   events.Publisher
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	lookupRepo repository.LookupRepository,
	artifacts storage.ArtifactStore,
	publisher events.Publisher,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		lookupRepo:  lookupRepo,
		artifacts:   artifacts,
		publisher:   publisher,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// GetOwn retrieves one of the acting user's orders.
func (s *orderService) GetOwn(ctx context.Context, actor Identity, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	if order.UserID != actor.UserID {
		s.logger.Warn().
			Str("actor", actor.UserID.String()).
			Str("order_id", orderID.String()).
			Msg("order ownership check failed")
		return nil, model.ErrForbidden
	}

	return order, nil
}

// Get retrieves any order (admin).
func (s *orderService) Get(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	return order, nil
}

// ListOwn retrieves the acting user's orders with pagination.
func (s *orderService) ListOwn(ctx context.Context, actor Identity, limit, offset int) ([]model.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	orders, err := s.orderRepo.ListByUser(ctx, actor.UserID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

// UpdateStatus transitions the order to the given status. The target status
// id is re-validated against the vocabulary on every call; its label decides
// the OTP side effect: entering out-for-delivery stores a fresh code,
// entering delivered clears it, anything else leaves it alone.
func (s *orderService) UpdateStatus(ctx context.Context, actor Identity, orderID, statusID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	status, err := s.lookupRepo.GetOrderStatusByID(ctx, statusID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve order status: %w", err)
	}
	if status == nil {
		return nil, model.ErrUnknownOrderStatus
	}

	label := strings.ToLower(strings.TrimSpace(status.Status))

	if !actor.Admin {
		if order.UserID != actor.UserID {
			s.logger.Warn().
				Str("actor", actor.UserID.String()).
				Str("order_id", orderID.String()).
				Msg("order ownership check failed")
			return nil, model.ErrForbidden
		}
		if !selfServiceStatuses[label] {
			s.logger.Warn().
				Str("actor", actor.UserID.String()).
				Str("status", label).
				Msg("self-service transition to status not permitted")
			return nil, model.ErrStatusNotPermitted
		}
	}

	var otp repository.OTPUpdate
	switch {
	case model.OutForDeliveryLabels[label]:
		code, err := generateOTP()
		if err != nil {
			return nil, err
		}
		otp = repository.OTPUpdate{Set: true, Value: &code}

	case label == model.OrderStatusDelivered:
		otp = repository.OTPUpdate{Set: true, Value: nil}
	}

	updated, err := s.orderRepo.UpdateStatus(ctx, orderID, statusID, otp)
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	if updated == nil {
		return nil, model.ErrOrderNotFound
	}

	s.publishStatusChanged(ctx, updated, status)

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("status", label).
		Bool("otp_updated", otp.Set).
		Msg("order status updated")

	return updated, nil
}

// Delete removes the order and everything checkout created for it inside one
// transaction, then cleans up stored artifacts best-effort.
func (s *orderService) Delete(ctx context.Context, orderID uuid.UUID) (*model.DeletionSummary, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to delete order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	summary := &model.DeletionSummary{OrderID: orderID}

	// Children first, order last.
	summary.CardDetails, summary.UpiDetails, err = s.paymentRepo.DeleteDetailsByOrder(ctx, tx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete order: %w", err)
	}

	summary.Payments, err = s.paymentRepo.DeleteByOrder(ctx, tx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete order: %w", err)
	}

	summary.OrderItems, err = s.orderRepo.DeleteItemsByOrder(ctx, tx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete order: %w", err)
	}

	var removed int64
	removed, err = s.orderRepo.DeleteOrder(ctx, tx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete order: %w", err)
	}
	if removed == 0 {
		err = model.ErrOrderNotFound
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to delete order: %w", err)
	}

	// Post-commit artifact cleanup is best-effort: the deletion has already
	// committed, so a failure here is a warning, never an error.
	prefix := fmt.Sprintf("orders/%s/", orderID)
	if cleanupErr := s.artifacts.RemovePrefix(ctx, prefix); cleanupErr != nil {
		s.logger.Warn().
			Err(cleanupErr).
			Str("order_id", orderID.String()).
			Msg("failed to clean up order artifacts")
	}

	s.publishDeleted(ctx, summary)

	s.logger.Info().
		Str("order_id", orderID.String()).
		Int64("order_items", summary.OrderItems).
		Int64("payments", summary.Payments).
		Msg("order deleted")

	return summary, nil
}

func (s *orderService) publishStatusChanged(ctx context.Context, order *model.Order, status *model.OrderStatus) {
	event, err := events.New(events.TypeOrderStatusChanged, order.ID, events.StatusChangedPayload{
		OrderID:  order.ID,
		StatusID: status.ID,
		Status:   status.Status,
	})
	if err == nil {
		err = s.publisher.Publish(ctx, event)
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("order_id", order.ID.String()).Msg("failed to publish order.status_changed event")
	}
}

func (s *orderService) publishDeleted(ctx context.Context, summary *model.DeletionSummary) {
	event, err := events.New(events.TypeOrderDeleted, summary.OrderID, events.OrderDeletedPayload{
		OrderID:     summary.OrderID,
		OrderItems:  summary.OrderItems,
		Payments:    summary.Payments,
		CardDetails: summary.CardDetails,
		UpiDetails:  summary.UpiDetails,
	})
	if err == nil {
		err = s.publisher.Publish(ctx, event)
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("order_id", summary.OrderID.String()).Msg("failed to publish order.deleted event")
	}
}
