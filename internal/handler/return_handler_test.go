package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"trendora/internal/model"
	"trendora/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockReturnService is a mock implementation of service.ReturnService.
type MockReturnService struct {
	mock.Mock
}

func (m *MockReturnService) Create(ctx context.Context, actor service.Identity, req *model.ReturnRequest) (*model.Return, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Return), args.Error(1)
}

func (m *MockReturnService) ListOwn(ctx context.Context, actor service.Identity, limit, offset int) ([]model.Return, error) {
	args := m.Called(ctx, actor, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Return), args.Error(1)
}

func TestReturnHandler_Create(t *testing.T) {
	actor := service.Identity{UserID: uuid.New()}
	itemID := uuid.New()

	validBody, _ := json.Marshal(model.ReturnRequest{OrderItemID: itemID, Quantity: 2})

	t.Run("Success returns 201", func(t *testing.T) {
		returns := new(MockReturnService)
		h := NewReturnHandler(returns, zerolog.Nop())

		ret := &model.Return{ID: uuid.New(), UserID: actor.UserID, Quantity: 2, Amount: 40.00}
		returns.On("Create", mock.Anything, actor, mock.AnythingOfType("*model.ReturnRequest")).
			Return(ret, nil)

		rec := httptest.NewRecorder()
		h.Create(rec, authedRequest(http.MethodPost, "/api/returns", validBody, actor))

		assert.Equal(t, http.StatusCreated, rec.Code)

		var got model.Return
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, ret.ID, got.ID)
	})

	t.Run("Over-limit return maps to 400 with the cap message", func(t *testing.T) {
		returns := new(MockReturnService)
		h := NewReturnHandler(returns, zerolog.Nop())

		returns.On("Create", mock.Anything, actor, mock.AnythingOfType("*model.ReturnRequest")).
			Return(nil, model.NewDomainError(
				model.ErrCodeReturnExceedsLimit,
				"Only 1 items can be returned for this order item",
			))

		rec := httptest.NewRecorder()
		h.Create(rec, authedRequest(http.MethodPost, "/api/returns", validBody, actor))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, model.ErrCodeReturnExceedsLimit, resp.Error)
		assert.Contains(t, resp.Message, "Only 1 items")
	})

	t.Run("Zero quantity fails validation", func(t *testing.T) {
		returns := new(MockReturnService)
		h := NewReturnHandler(returns, zerolog.Nop())

		body, _ := json.Marshal(model.ReturnRequest{OrderItemID: itemID, Quantity: 0})

		rec := httptest.NewRecorder()
		h.Create(rec, authedRequest(http.MethodPost, "/api/returns", body, actor))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		returns.AssertNotCalled(t, "Create")
	})

	t.Run("Missing identity returns 401", func(t *testing.T) {
		returns := new(MockReturnService)
		h := NewReturnHandler(returns, zerolog.Nop())

		req := httptest.NewRequest(http.MethodPost, "/api/returns", nil)
		rec := httptest.NewRecorder()
		h.Create(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		returns.AssertNotCalled(t, "Create")
	})
}

func TestReturnHandler_ListMy(t *testing.T) {
	actor := service.Identity{UserID: uuid.New()}
	returns := new(MockReturnService)
	h := NewReturnHandler(returns, zerolog.Nop())

	returns.On("ListOwn", mock.Anything, actor, 50, 0).Return([]model.Return(nil), nil)

	rec := httptest.NewRecorder()
	h.ListMy(rec, authedRequest(http.MethodGet, "/api/returns/my", nil, actor))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}
