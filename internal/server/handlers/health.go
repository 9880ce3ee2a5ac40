package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/blinkauth/pkg/api"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler обрабатывает health check запросы
type HealthHandler struct {
	logger  *slog.Logger
	storage Pinger
	version string
}

// NewHealthHandler создает новый handler для health check
func NewHealthHandler(logger *slog.Logger, storage Pinger, version string) *HealthHandler {
	return &HealthHandler{
		logger:  logger,
		storage: storage,
		version: version,
	}
}

// Health обрабатывает GET /api/v1/health
// Возвращает 503, если хранилище недоступно
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	data := api.HealthData{Status: "ok", Version: h.version, Storage: "ok"}

	if err := h.storage.Ping(ctx); err != nil {
		h.logger.ErrorContext(ctx, "storage health check failed", slog.Any("error", err))
		data.Status = "degraded"
		data.Storage = "unavailable"
		WriteJSON(w, h.logger, http.StatusServiceUnavailable, api.Envelope{
			Message: "Storage unavailable",
			Error:   true,
			Data:    data,
		})
		return
	}

	WriteSuccess(w, h.logger, http.StatusOK, "ok", data)
}
