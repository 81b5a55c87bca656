package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"trendora/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeServiceError maps a service error onto an HTTP response. Domain
// errors carry their own code and status; everything else collapses to a
// generic failure envelope.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		writeError(w, statusForDomainError(domainErr), domainErr.Code, domainErr.Message, logger)
		return
	}

	logger.Error().Err(err).Msg("operation failed")
	writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "operation failed", logger)
}

// parsePositiveInt parses a non-negative integer query parameter.
func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("value must not be negative: %d", n)
	}
	return n, nil
}

// statusForDomainError picks the HTTP status for a domain error code.
func statusForDomainError(e *model.DomainError) int {
	switch e.Code {
	case model.ErrCodeForbidden, model.ErrCodeStatusNotPermitted:
		return http.StatusForbidden
	case model.ErrCodeAddressNotFound,
		model.ErrCodeCartNotFound,
		model.ErrCodeOrderNotFound,
		model.ErrCodeOrderItemNotFound,
		model.ErrCodeProductNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}
