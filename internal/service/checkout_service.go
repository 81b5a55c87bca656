package service

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"trendora/internal/crypto"
	"trendora/internal/events"
	"trendora/internal/model"
	"trendora/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	cardNoPattern = regexp.MustCompile(`^[0-9]{12,19}$`)
	upiPattern    = regexp.MustCompile(`^[a-zA-Z0-9.\-_]{2,}@[a-zA-Z]{2,}$`)
)

// roundCurrency rounds to two decimal places.
func roundCurrency(v float64) float64 {
	return math.Round(v*100) / 100
}

// checkoutService implements CheckoutService.
type checkoutService struct {
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentRepository
	productRepo repository.ProductRepository
	cartRepo    repository.CartRepository
	lookupRepo  repository.LookupRepository
	cardCipher  *crypto.CardCipher
	publisher   events.Publisher
	logger      zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	productRepo repository.ProductRepository,
	cartRepo repository.CartRepository,
	lookupRepo repository.LookupRepository,
	cardCipher *crypto.CardCipher,
	publisher events.Publisher,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
		lookupRepo:  lookupRepo,
		cardCipher:  cardCipher,
		publisher:   publisher,
		logger:      logger.With().Str("service", "checkout").Logger(),
	}
}

// resolvePaymentMethod validates the method-specific fields against the
// resolved payment type and returns the tagged variant carried through the
// rest of checkout. All branching on payment type happens here and in the
// single dispatch over the returned value.
func resolvePaymentMethod(paymentType *model.PaymentType, req *model.CheckoutRequest) (model.PaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(paymentType.Type)) {
	case model.PaymentTypeCod:
		return model.CodMethod{}, nil

	case model.PaymentTypeCard:
		if req.CardName == nil || strings.TrimSpace(*req.CardName) == "" {
			return nil, model.ErrInvalidCardDetails
		}
		if req.CardNo == nil {
			return nil, model.ErrInvalidCardDetails
		}
		number := strings.ReplaceAll(strings.TrimSpace(*req.CardNo), " ", "")
		if !cardNoPattern.MatchString(number) {
			return nil, model.ErrInvalidCardDetails
		}
		return model.CardMethod{
			Name:   strings.TrimSpace(*req.CardName),
			Number: number,
		}, nil

	case model.PaymentTypeUpi:
		if req.UpiID == nil {
			return nil, model.ErrInvalidUpiDetails
		}
		handle := strings.TrimSpace(*req.UpiID)
		if !upiPattern.MatchString(handle) {
			return nil, model.ErrInvalidUpiDetails
		}
		return model.UpiMethod{Handle: handle}, nil

	default:
		return nil, model.ErrUnknownPaymentType
	}
}

// Checkout converts the acting user's cart into an order. Every precondition
// is checked before the transaction opens; every write happens inside it.
func (s *checkoutService) Checkout(ctx context.Context, actor Identity, req *model.CheckoutRequest) (*model.Order, error) {
	// A user may only place their own order.
	if actor.UserID != req.UserID {
		s.logger.Warn().
			Str("actor", actor.UserID.String()).
			Str("target", req.UserID.String()).
			Msg("checkout ownership check failed")
		return nil, model.ErrForbidden
	}

	paymentType, err := s.lookupRepo.GetPaymentType(ctx, req.PaymentTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve payment type: %w", err)
	}
	if paymentType == nil {
		return nil, model.ErrUnknownPaymentType
	}

	method, err := resolvePaymentMethod(paymentType, req)
	if err != nil {
		return nil, err
	}

	address, err := s.lookupRepo.GetAddressForUser(ctx, req.AddressID, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve address: %w", err)
	}
	if address == nil {
		return nil, model.ErrAddressNotFound
	}

	// COD stays pending until delivery; card and UPI settle synchronously
	// (no external gateway is modelled).
	statusLabel := model.PaymentStatusSuccess
	if method.Kind() == model.PaymentTypeCod {
		statusLabel = model.PaymentStatusPending
	}

	paymentStatus, err := s.lookupRepo.GetPaymentStatusByLabel(ctx, statusLabel)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve payment status: %w", err)
	}
	if paymentStatus == nil {
		return nil, fmt.Errorf("payment status %q is not seeded", statusLabel)
	}

	placedStatus, err := s.lookupRepo.GetOrderStatusByLabel(ctx, model.OrderStatusPlaced)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve order status: %w", err)
	}
	if placedStatus == nil {
		return nil, fmt.Errorf("order status %q is not seeded", model.OrderStatusPlaced)
	}

	cart, err := s.cartRepo.GetByUser(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart == nil {
		return nil, model.ErrCartNotFound
	}

	items, err := s.cartRepo.GetItems(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart items: %w", err)
	}
	if len(items) == 0 {
		return nil, model.ErrCartEmpty
	}

	// Start transaction
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	// Decrement stock per line; the conditional decrement is the only thing
	// standing between two racing checkouts and an oversell. The price used
	// for the total is the one read back by the same statement.
	var total float64
	for _, item := range items {
		var price float64
		var remaining int
		price, remaining, err = s.productRepo.DecrementStock(ctx, tx, item.ProductID, item.Quantity)
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("product_id", item.ProductID.String()).
				Int("quantity", item.Quantity).
				Msg("stock decrement failed, aborting checkout")
			return nil, err
		}

		if remaining == 0 {
			if err = s.productRepo.MarkOutOfStock(ctx, tx, item.ProductID); err != nil {
				return nil, err
			}
		}

		total += price * float64(item.Quantity)
	}
	total = roundCurrency(total)

	now := time.Now()
	order := &model.Order{
		ID:          uuid.New(),
		UserID:      req.UserID,
		Address:     *address,
		StatusID:    placedStatus.ID,
		Total:       total,
		DeliveryOTP: nil,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	orderItems := make([]model.OrderItem, len(items))
	for i, item := range items {
		orderItems[i] = model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Size:      item.Size,
			UserID:    req.UserID,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, orderItems); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(orderItems)).
			Msg("failed to create order items")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	payment := &model.Payment{
		ID:              uuid.New(),
		UserID:          req.UserID,
		OrderID:         order.ID,
		PaymentTypeID:   paymentType.ID,
		PaymentStatusID: paymentStatus.ID,
		InvoiceNo:       fmt.Sprintf("INV-%s", order.ID),
		DeliveryFee:     0,
		Amount:          total,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err = s.paymentRepo.CreatePayment(ctx, tx, payment); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create payment")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	// Single dispatch over the resolved method selects the side record.
	switch m := method.(type) {
	case model.CardMethod:
		var token string
		token, err = s.cardCipher.Encrypt(m.Number)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to encrypt card number")
			return nil, fmt.Errorf("failed to place order: %w", err)
		}
		detail := &model.CardDetail{
			ID:        uuid.New(),
			PaymentID: payment.ID,
			Name:      m.Name,
			CardNo:    token,
			CreatedAt: now,
		}
		if err = s.paymentRepo.CreateCardDetail(ctx, tx, detail); err != nil {
			return nil, fmt.Errorf("failed to place order: %w", err)
		}

	case model.UpiMethod:
		detail := &model.UpiDetail{
			ID:        uuid.New(),
			PaymentID: payment.ID,
			UpiID:     m.Handle,
			CreatedAt: now,
		}
		if err = s.paymentRepo.CreateUpiDetail(ctx, tx, detail); err != nil {
			return nil, fmt.Errorf("failed to place order: %w", err)
		}

	case model.CodMethod:
		// no side record
	}

	if _, err = s.cartRepo.DeleteItems(ctx, tx, cart.ID); err != nil {
		s.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to clear cart")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	// Read back the persisted order outside the transaction.
	saved, err := s.orderRepo.GetByID(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load placed order: %w", err)
	}
	if saved == nil {
		return nil, fmt.Errorf("placed order %s not found after commit", order.ID)
	}

	s.publishPlaced(ctx, saved, payment, len(orderItems))

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("payment_type", method.Kind()).
		Float64("total", total).
		Int("item_count", len(orderItems)).
		Msg("order placed successfully")

	return saved, nil
}

// publishPlaced emits the order.placed event. Failures are logged, never
// surfaced: the order has already committed.
func (s *checkoutService) publishPlaced(ctx context.Context, order *model.Order, payment *model.Payment, itemCount int) {
	event, err := events.New(events.TypeOrderPlaced, order.ID, events.OrderPlacedPayload{
		OrderID:   order.ID,
		UserID:    order.UserID,
		Total:     order.Total,
		InvoiceNo: payment.InvoiceNo,
		ItemCount: itemCount,
	})
	if err == nil {
		err = s.publisher.Publish(ctx, event)
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("order_id", order.ID.String()).Msg("failed to publish order.placed event")
	}
}
