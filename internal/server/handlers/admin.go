package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/iudanet/blinkauth/internal/models"
	"github.com/iudanet/blinkauth/pkg/api"
)

// AdminService is the part of auth.Service used by AdminHandler.
type AdminService interface {
	SetStatus(ctx context.Context, userID string, status models.Status) (models.PublicUser, error)
}

// AdminHandler обрабатывает административные запросы
// Маршруты должны быть закрыты AuthMiddleware и RequireAdmin
type AdminHandler struct {
	logger  *slog.Logger
	service AdminService
}

// NewAdminHandler создает новый handler для администрирования
func NewAdminHandler(logger *slog.Logger, service AdminService) *AdminHandler {
	return &AdminHandler{logger: logger, service: service}
}

// SetUserStatus обрабатывает PATCH /api/v1/admin/users/{id}/status
func (h *AdminHandler) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := r.PathValue("id")
	if userID == "" {
		WriteError(w, h.logger, http.StatusBadRequest, "User id is required")
		return
	}

	var req api.StatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode status request", slog.Any("error", err))
		WriteError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.SetStatus(ctx, userID, models.Status(req.Status))
	if err != nil {
		WriteServiceError(w, r, h.logger, "set status", err)
		return
	}

	adminID, _ := GetUserID(ctx)
	h.logger.InfoContext(ctx, "status updated by admin",
		slog.String("admin_id", adminID),
		slog.String("user_id", user.ID),
		slog.String("status", string(user.Status)),
	)

	WriteSuccess(w, h.logger, http.StatusOK, "User status updated", api.UserData{User: toAPIUser(user)})
}
