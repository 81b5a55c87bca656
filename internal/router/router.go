package router

import (
	"net/http"

	"trendora/internal/handler"
	"trendora/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	orderHandler *handler.OrderHandler,
	returnHandler *handler.ReturnHandler,
	jwtSecret string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Checkout and self-service order routes
	mux.HandleFunc("POST /api/orders/checkout", orderHandler.Checkout)
	mux.HandleFunc("GET /api/orders/my", orderHandler.ListMy)
	mux.HandleFunc("GET /api/orders/my/{id}", orderHandler.GetMy)
	mux.HandleFunc("PUT /api/orders/my/{id}/status", orderHandler.UpdateMyStatus)

	// Administrative order routes
	mux.HandleFunc("GET /api/orders/{id}", orderHandler.Get)
	mux.HandleFunc("PUT /api/orders/{id}/status", orderHandler.UpdateStatus)
	mux.HandleFunc("DELETE /api/orders/{id}", orderHandler.Delete)

	// Return routes
	mux.HandleFunc("POST /api/returns", returnHandler.Create)
	mux.HandleFunc("GET /api/returns/my", returnHandler.ListMy)

	// Apply middleware in order: Recovery -> Logging -> CORS -> JWTAuth
	var h http.Handler = mux
	h = middleware.JWTAuth(jwtSecret, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
