package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"trendora/internal/middleware"
	"trendora/internal/model"
	"trendora/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCheckoutService is a mock implementation of service.CheckoutService.
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Checkout(ctx context.Context, actor service.Identity, req *model.CheckoutRequest) (*model.Order, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

// MockOrderService is a mock implementation of service.OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) GetOwn(ctx context.Context, actor service.Identity, orderID uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, actor, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) Get(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) ListOwn(ctx context.Context, actor service.Identity, limit, offset int) ([]model.Order, error) {
	args := m.Called(ctx, actor, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, actor service.Identity, orderID, statusID uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, actor, orderID, statusID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) Delete(ctx context.Context, orderID uuid.UUID) (*model.DeletionSummary, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DeletionSummary), args.Error(1)
}

func newOrderHandler() (*OrderHandler, *MockCheckoutService, *MockOrderService) {
	checkout := new(MockCheckoutService)
	orders := new(MockOrderService)
	return NewOrderHandler(checkout, orders, zerolog.Nop()), checkout, orders
}

// authedRequest builds a request carrying the given identity.
func authedRequest(method, path string, body []byte, actor service.Identity) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	return req.WithContext(middleware.WithIdentity(req.Context(), actor))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) model.ErrorResponse {
	var resp model.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestOrderHandler_Checkout(t *testing.T) {
	userID := uuid.New()
	actor := service.Identity{UserID: userID}

	validBody := func() []byte {
		b, _ := json.Marshal(model.CheckoutRequest{
			UserID:        userID,
			AddressID:     uuid.New(),
			PaymentTypeID: uuid.New(),
		})
		return b
	}

	t.Run("Success returns 201", func(t *testing.T) {
		h, checkout, _ := newOrderHandler()
		order := &model.Order{ID: uuid.New(), UserID: userID, Total: 250.00}
		checkout.On("Checkout", mock.Anything, actor, mock.AnythingOfType("*model.CheckoutRequest")).
			Return(order, nil)

		rec := httptest.NewRecorder()
		h.Checkout(rec, authedRequest(http.MethodPost, "/api/orders/checkout", validBody(), actor))

		assert.Equal(t, http.StatusCreated, rec.Code)

		var got model.Order
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, order.ID, got.ID)
		assert.Equal(t, 250.00, got.Total)
	})

	t.Run("Missing identity returns 401", func(t *testing.T) {
		h, checkout, _ := newOrderHandler()

		req := httptest.NewRequest(http.MethodPost, "/api/orders/checkout", bytes.NewReader(validBody()))
		rec := httptest.NewRecorder()
		h.Checkout(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		checkout.AssertNotCalled(t, "Checkout")
	})

	t.Run("Malformed body returns 400", func(t *testing.T) {
		h, checkout, _ := newOrderHandler()

		rec := httptest.NewRecorder()
		h.Checkout(rec, authedRequest(http.MethodPost, "/api/orders/checkout", []byte("{not json"), actor))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, model.ErrCodeInvalidJSON, decodeError(t, rec).Error)
		checkout.AssertNotCalled(t, "Checkout")
	})

	t.Run("Missing required fields return 400", func(t *testing.T) {
		h, checkout, _ := newOrderHandler()

		rec := httptest.NewRecorder()
		h.Checkout(rec, authedRequest(http.MethodPost, "/api/orders/checkout", []byte(`{}`), actor))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, model.ErrCodeMissingField, decodeError(t, rec).Error)
		checkout.AssertNotCalled(t, "Checkout")
	})

	t.Run("Domain errors map onto HTTP statuses", func(t *testing.T) {
		tests := []struct {
			name           string
			err            error
			expectedStatus int
			expectedCode   string
		}{
			{"Insufficient stock", model.ErrInsufficientStock, http.StatusBadRequest, model.ErrCodeInsufficientStock},
			{"Empty cart", model.ErrCartEmpty, http.StatusBadRequest, model.ErrCodeCartEmpty},
			{"Cart not found", model.ErrCartNotFound, http.StatusNotFound, model.ErrCodeCartNotFound},
			{"Address not found", model.ErrAddressNotFound, http.StatusNotFound, model.ErrCodeAddressNotFound},
			{"Forbidden", model.ErrForbidden, http.StatusForbidden, model.ErrCodeForbidden},
			{"Invalid card details", model.ErrInvalidCardDetails, http.StatusBadRequest, model.ErrCodeInvalidCardDetails},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				h, checkout, _ := newOrderHandler()
				checkout.On("Checkout", mock.Anything, actor, mock.AnythingOfType("*model.CheckoutRequest")).
					Return(nil, tt.err)

				rec := httptest.NewRecorder()
				h.Checkout(rec, authedRequest(http.MethodPost, "/api/orders/checkout", validBody(), actor))

				assert.Equal(t, tt.expectedStatus, rec.Code)
				assert.Equal(t, tt.expectedCode, decodeError(t, rec).Error)
			})
		}
	})

	t.Run("Unexpected errors collapse to 500", func(t *testing.T) {
		h, checkout, _ := newOrderHandler()
		checkout.On("Checkout", mock.Anything, actor, mock.AnythingOfType("*model.CheckoutRequest")).
			Return(nil, assert.AnError)

		rec := httptest.NewRecorder()
		h.Checkout(rec, authedRequest(http.MethodPost, "/api/orders/checkout", validBody(), actor))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, model.ErrCodeInternalError, decodeError(t, rec).Error)
	})
}

func TestOrderHandler_GetMy(t *testing.T) {
	userID := uuid.New()
	actor := service.Identity{UserID: userID}
	orderID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		h, _, orders := newOrderHandler()
		orders.On("GetOwn", mock.Anything, actor, orderID).
			Return(&model.Order{ID: orderID, UserID: userID}, nil)

		req := authedRequest(http.MethodGet, "/api/orders/my/"+orderID.String(), nil, actor)
		req.SetPathValue("id", orderID.String())
		rec := httptest.NewRecorder()
		h.GetMy(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Invalid id format", func(t *testing.T) {
		h, _, orders := newOrderHandler()

		req := authedRequest(http.MethodGet, "/api/orders/my/not-a-uuid", nil, actor)
		req.SetPathValue("id", "not-a-uuid")
		rec := httptest.NewRecorder()
		h.GetMy(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		orders.AssertNotCalled(t, "GetOwn")
	})

	t.Run("Not found maps to 404", func(t *testing.T) {
		h, _, orders := newOrderHandler()
		orders.On("GetOwn", mock.Anything, actor, orderID).Return(nil, model.ErrOrderNotFound)

		req := authedRequest(http.MethodGet, "/api/orders/my/"+orderID.String(), nil, actor)
		req.SetPathValue("id", orderID.String())
		rec := httptest.NewRecorder()
		h.GetMy(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestOrderHandler_AdminGating(t *testing.T) {
	user := service.Identity{UserID: uuid.New()}
	admin := service.Identity{UserID: uuid.New(), Admin: true}
	orderID := uuid.New()

	t.Run("Non-admin cannot read arbitrary orders", func(t *testing.T) {
		h, _, orders := newOrderHandler()

		req := authedRequest(http.MethodGet, "/api/orders/"+orderID.String(), nil, user)
		req.SetPathValue("id", orderID.String())
		rec := httptest.NewRecorder()
		h.Get(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		orders.AssertNotCalled(t, "Get")
	})

	t.Run("Non-admin cannot delete", func(t *testing.T) {
		h, _, orders := newOrderHandler()

		req := authedRequest(http.MethodDelete, "/api/orders/"+orderID.String(), nil, user)
		req.SetPathValue("id", orderID.String())
		rec := httptest.NewRecorder()
		h.Delete(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		orders.AssertNotCalled(t, "Delete")
	})

	t.Run("Admin delete returns the summary", func(t *testing.T) {
		h, _, orders := newOrderHandler()
		orders.On("Delete", mock.Anything, orderID).Return(&model.DeletionSummary{
			OrderID:    orderID,
			OrderItems: 2,
			Payments:   1,
		}, nil)

		req := authedRequest(http.MethodDelete, "/api/orders/"+orderID.String(), nil, admin)
		req.SetPathValue("id", orderID.String())
		rec := httptest.NewRecorder()
		h.Delete(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var summary model.DeletionSummary
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&summary))
		assert.Equal(t, orderID, summary.OrderID)
		assert.Equal(t, int64(2), summary.OrderItems)
	})
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	user := service.Identity{UserID: uuid.New()}
	orderID := uuid.New()
	statusID := uuid.New()

	body, _ := json.Marshal(model.StatusUpdateRequest{StatusID: statusID})

	t.Run("Self-service route forwards to the service", func(t *testing.T) {
		h, _, orders := newOrderHandler()
		orders.On("UpdateStatus", mock.Anything, user, orderID, statusID).
			Return(&model.Order{ID: orderID, StatusID: statusID}, nil)

		req := authedRequest(http.MethodPut, "/api/orders/my/"+orderID.String()+"/status", body, user)
		req.SetPathValue("id", orderID.String())
		rec := httptest.NewRecorder()
		h.UpdateMyStatus(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Status not permitted maps to 403", func(t *testing.T) {
		h, _, orders := newOrderHandler()
		orders.On("UpdateStatus", mock.Anything, user, orderID, statusID).
			Return(nil, model.ErrStatusNotPermitted)

		req := authedRequest(http.MethodPut, "/api/orders/my/"+orderID.String()+"/status", body, user)
		req.SetPathValue("id", orderID.String())
		rec := httptest.NewRecorder()
		h.UpdateMyStatus(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Admin route requires admin", func(t *testing.T) {
		h, _, orders := newOrderHandler()

		req := authedRequest(http.MethodPut, "/api/orders/"+orderID.String()+"/status", body, user)
		req.SetPathValue("id", orderID.String())
		rec := httptest.NewRecorder()
		h.UpdateStatus(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		orders.AssertNotCalled(t, "UpdateStatus")
	})
}

func TestOrderHandler_ListMy(t *testing.T) {
	actor := service.Identity{UserID: uuid.New()}

	t.Run("Empty result is an empty array", func(t *testing.T) {
		h, _, orders := newOrderHandler()
		orders.On("ListOwn", mock.Anything, actor, 50, 0).Return([]model.Order(nil), nil)

		rec := httptest.NewRecorder()
		h.ListMy(rec, authedRequest(http.MethodGet, "/api/orders/my", nil, actor))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("Pagination params forwarded", func(t *testing.T) {
		h, _, orders := newOrderHandler()
		orders.On("ListOwn", mock.Anything, actor, 5, 10).Return([]model.Order{}, nil)

		rec := httptest.NewRecorder()
		h.ListMy(rec, authedRequest(http.MethodGet, "/api/orders/my?limit=5&offset=10", nil, actor))

		assert.Equal(t, http.StatusOK, rec.Code)
		orders.AssertExpectations(t)
	})
}
