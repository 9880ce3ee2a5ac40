package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/blinkauth/internal/models"
	"github.com/iudanet/blinkauth/internal/server/auth"
	"github.com/iudanet/blinkauth/pkg/api"
)

// maxBodyBytes ограничивает размер JSON тела запроса
const maxBodyBytes = 1 << 20

// WriteJSON отправляет конверт с заданным статусом
func WriteJSON(w http.ResponseWriter, logger *slog.Logger, statusCode int, env api.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// WriteSuccess sends a success envelope. data may be nil.
func WriteSuccess(w http.ResponseWriter, logger *slog.Logger, statusCode int, message string, data any) {
	WriteJSON(w, logger, statusCode, api.Envelope{
		Message: message,
		Success: true,
		Data:    data,
	})
}

// WriteError sends an error envelope.
func WriteError(w http.ResponseWriter, logger *slog.Logger, statusCode int, message string) {
	WriteJSON(w, logger, statusCode, api.Envelope{
		Message: message,
		Error:   true,
	})
}

// StatusFor maps an auth error kind to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrValidation),
		errors.Is(err, auth.ErrConflict),
		errors.Is(err, auth.ErrAlreadyVerified),
		errors.Is(err, auth.ErrInvalidOrExpired):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// WriteServiceError translates err into an error envelope. Internal causes
// are logged and never sent to the client.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, op string, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), op+" failed", slog.Any("error", err))
	} else {
		logger.WarnContext(r.Context(), op+" rejected",
			slog.Int("status", status),
			slog.String("reason", auth.Message(err)),
		)
	}
	WriteError(w, logger, status, auth.Message(err))
}

// decodeJSON читает JSON тело запроса, отвергая лишние поля
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// toAPIUser converts the public model view into the wire DTO
func toAPIUser(u models.PublicUser) api.User {
	return api.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		Mobile:    u.Mobile,
		Status:    string(u.Status),
		Role:      string(u.Role),
		Verified:  u.Verified,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
