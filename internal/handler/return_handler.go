package handler

import (
	"encoding/json"
	"net/http"

	"trendora/internal/middleware"
	"trendora/internal/model"
	"trendora/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// ReturnHandler handles return request HTTP endpoints.
type ReturnHandler struct {
	returns  service.ReturnService
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewReturnHandler creates a new return handler.
func NewReturnHandler(returns service.ReturnService, logger zerolog.Logger) *ReturnHandler {
	return &ReturnHandler{
		returns:  returns,
		validate: validator.New(),
		logger:   logger.With().Str("handler", "return").Logger(),
	}
}

// Create handles POST /api/returns requests.
func (h *ReturnHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "missing identity", h.logger)
		return
	}

	var req model.ReturnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, err.Error(), h.logger)
		return
	}

	ret, err := h.returns.Create(r.Context(), actor, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, ret)
}

// ListMy handles GET /api/returns/my requests.
func (h *ReturnHandler) ListMy(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "missing identity", h.logger)
		return
	}

	limit, offset := paginationParams(r)
	returns, err := h.returns.ListOwn(r.Context(), actor, limit, offset)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if returns == nil {
		returns = []model.Return{}
	}
	writeJSON(w, http.StatusOK, returns)
}
