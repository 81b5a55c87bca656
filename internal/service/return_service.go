package service

import (
	"context"
	"fmt"
	"time"

	"trendora/internal/model"
	"trendora/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// returnService implements ReturnService.
type returnService struct {
	returnRepo  repository.ReturnRepository
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	lookupRepo  repository.LookupRepository
	logger      zerolog.Logger
}

// NewReturnService creates a new return service.
func NewReturnService(
	returnRepo repository.ReturnRepository,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	lookupRepo repository.LookupRepository,
	logger zerolog.Logger,
) ReturnService {
	return &returnService{
		returnRepo:  returnRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		lookupRepo:  lookupRepo,
		logger:      logger.With().Str("service", "return").Logger(),
	}
}

// Create registers a return for an order item the acting user owns. The
// requested quantity is capped at ordered quantity minus everything already
// requested for the same (order, product) pair.
//
// The availability read and the insert below are two separate operations,
// not one atomic unit: concurrent submissions for the same order item can
// each observe the same availability and over-admit. Known limitation of the
// current design.
func (s *returnService) Create(ctx context.Context, actor Identity, req *model.ReturnRequest) (*model.Return, error) {
	if req.Quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	item, err := s.orderRepo.GetItemByID(ctx, req.OrderItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order item: %w", err)
	}
	if item == nil {
		return nil, model.ErrOrderItemNotFound
	}

	order, err := s.orderRepo.GetByID(ctx, item.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	if order.UserID != actor.UserID {
		s.logger.Warn().
			Str("actor", actor.UserID.String()).
			Str("order_id", order.ID.String()).
			Msg("return ownership check failed")
		return nil, model.ErrForbidden
	}

	// Fresh read of what has already been requested for this pair.
	prior, err := s.returnRepo.SumQuantity(ctx, item.OrderID, item.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum prior returns: %w", err)
	}

	available := item.Quantity - prior
	if available < 0 {
		available = 0
	}
	if req.Quantity > available {
		s.logger.Warn().
			Str("order_item_id", req.OrderItemID.String()).
			Int("requested", req.Quantity).
			Int("available", available).
			Msg("return quantity exceeds available")
		return nil, model.NewDomainError(
			model.ErrCodeReturnExceedsLimit,
			fmt.Sprintf("Only %d items can be returned for this order item", available),
		)
	}

	product, err := s.productRepo.GetByID(ctx, item.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	status, err := s.lookupRepo.GetReturnStatusByLabel(ctx, model.ReturnStatusRequested)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve return status: %w", err)
	}
	if status == nil {
		return nil, fmt.Errorf("return status %q is not seeded", model.ReturnStatusRequested)
	}

	now := time.Now()
	ret := &model.Return{
		ID:             uuid.New(),
		OrderID:        item.OrderID,
		ProductID:      item.ProductID,
		UserID:         actor.UserID,
		ReturnStatusID: status.ID,
		Quantity:       req.Quantity,
		Amount:         roundCurrency(product.Price * float64(req.Quantity)),
		Reason:         req.Reason,
		ImageURL:       req.ImageURL,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.returnRepo.Create(ctx, ret); err != nil {
		return nil, fmt.Errorf("failed to create return: %w", err)
	}

	s.logger.Info().
		Str("return_id", ret.ID.String()).
		Str("order_id", ret.OrderID.String()).
		Int("quantity", ret.Quantity).
		Float64("amount", ret.Amount).
		Msg("return created")

	return ret, nil
}

// ListOwn retrieves the acting user's returns with pagination.
func (s *returnService) ListOwn(ctx context.Context, actor Identity, limit, offset int) ([]model.Return, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	returns, err := s.returnRepo.ListByUser(ctx, actor.UserID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list returns: %w", err)
	}

	return returns, nil
}
