package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"adplan/internal/core/port"
)

// Handler contains dependencies and routes. It is the inbound HTTP adapter
// for the planning console frontend. Routes are registered on a chi.Router
// with CORS enabled, since the caller is a browser.
type Handler struct {
	svc    port.PlanUseCase
	logger *slog.Logger
	router chi.Router
}

// NewHandler creates a handler with all routes configured.
func NewHandler(svc port.PlanUseCase, logger *slog.Logger) *Handler {
	h := &Handler{svc: svc, logger: logger}
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/versions/{versionID}/budget/resolve", h.handleResolveBudget)
		r.Post("/versions/{versionID}/tactics", h.handleSaveTactic)
		r.Put("/versions/{versionID}/tactics/{tacticID}", h.handleSaveTactic)
		r.Delete("/tactics/{tacticID}", h.handleDeleteTactic)
		r.Post("/sections/{sectionID}/tactics/reorder", h.handleReorderTactics)

		r.Get("/versions/{versionID}/tag-progress", h.handleTagProgress)
		r.Get("/tags/{entityType}/{entityID}/changes", h.handleTagChanges)
		r.Post("/tags/{entityType}/{entityID}/snapshots", h.handleRecordSnapshot)

		r.Get("/clients/{clientID}/fees", h.handleFeeCatalog)

		r.Get("/versions/{versionID}/buckets", h.handleListBuckets)
		r.Post("/versions/{versionID}/buckets", h.handleSaveBucket)
		r.Put("/versions/{versionID}/buckets/{bucketID}", h.handleSaveBucket)
		r.Delete("/buckets/{bucketID}", h.handleDeleteBucket)
	})
	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}

// writeJSON encodes v as the response body. Encoding should rarely fail;
// failures are logged and the connection left as-is.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}
