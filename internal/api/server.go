package api

import (
	"net/http"

	chatapi "github.com/futig/coursechat-backend/internal/api/chat"
	"github.com/futig/coursechat-backend/internal/api/docs"
	materialsapi "github.com/futig/coursechat-backend/internal/api/materials"
	"github.com/futig/coursechat-backend/internal/api/middleware"
	"github.com/futig/coursechat-backend/internal/api/web"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(materialsHandler *materialsapi.Handler, chatHandler *chatapi.Handler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack. No request timeout middleware: a chat turn waits on
	// two sequential model calls, bounded only by the connector's client timeout.
	r.Use(chimiddleware.Recoverer)   // Recover from panics
	r.Use(chimiddleware.RequestID)   // Add request ID
	r.Use(middleware.Logger(logger)) // Log requests
	r.Use(middleware.CORS)           // Handle CORS

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	// Browser pages (chat client + upload form)
	web.RegisterRoutes(r)

	// Register routes
	materialsapi.RegisterRoutes(r, materialsHandler)
	chatapi.RegisterRoutes(r, chatHandler)

	return r
}
