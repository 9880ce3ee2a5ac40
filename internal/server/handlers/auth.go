package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/blinkauth/internal/models"
	"github.com/iudanet/blinkauth/internal/server/auth"
	"github.com/iudanet/blinkauth/pkg/api"
)

// AuthService is the part of auth.Service used by AuthHandler.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (models.PublicUser, error)
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (*auth.Session, error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, error)
	CurrentUser(ctx context.Context, userID string) (models.PublicUser, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	logger  *slog.Logger
	service AuthService
	cookie  CookieConfig
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, service AuthService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{
		logger:  logger,
		service: service,
		cookie:  cookie,
	}
}

// Register обрабатывает POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}

	if _, err := h.service.Register(r.Context(), req.Name, req.Email, req.Password); err != nil {
		WriteServiceError(w, r, h.logger, "register", err)
		return
	}

	WriteSuccess(w, h.logger, http.StatusCreated,
		"User registered successfully. Please check your email to verify your account.", nil)
}

// VerifyEmail обрабатывает POST /api/v1/auth/verify-email?token=...
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	if err := h.service.VerifyEmail(r.Context(), token); err != nil {
		WriteServiceError(w, r, h.logger, "verify email", err)
		return
	}

	WriteSuccess(w, h.logger, http.StatusOK, "Email verified successfully. You can now login.", nil)
}

// ResendVerification обрабатывает POST /api/v1/auth/resend-verification
func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req api.EmailRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.service.ResendVerification(r.Context(), req.Email); err != nil {
		WriteServiceError(w, r, h.logger, "resend verification", err)
		return
	}

	WriteSuccess(w, h.logger, http.StatusOK,
		"If the account exists and is not verified, a new verification email has been sent.", nil)
}

// Login обрабатывает POST /api/v1/auth/login
// Access token возвращается в теле, refresh token только в HTTP-only cookie
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteServiceError(w, r, h.logger, "login", err)
		return
	}

	h.cookie.Set(w, session.RefreshToken, session.RefreshExpiresAt)

	WriteSuccess(w, h.logger, http.StatusOK, "Login successful", api.LoginData{
		AccessToken: session.AccessToken,
		User: api.LoginUser{
			ID:        session.User.ID,
			Name:      session.User.Name,
			Email:     session.User.Email,
			Role:      string(session.User.Role),
			AvatarURL: session.User.AvatarURL,
		},
	})
}

// Logout обрабатывает POST /api/v1/auth/logout
// Требует access token; отзывает refresh token из cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	refreshToken := h.cookie.Read(r)

	err := h.service.Logout(r.Context(), refreshToken)
	if err != nil {
		// Недействительная cookie бесполезна клиенту, удаляем ее
		if errors.Is(err, auth.ErrInvalidOrExpired) {
			h.cookie.Clear(w)
		}
		WriteServiceError(w, r, h.logger, "logout", err)
		return
	}

	h.cookie.Clear(w)
	WriteSuccess(w, h.logger, http.StatusOK, "Logout successful", nil)
}

// Refresh обрабатывает POST /api/v1/auth/refresh
// Refresh token не ротируется
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	accessToken, err := h.service.RefreshAccessToken(r.Context(), h.cookie.Read(r))
	if err != nil {
		WriteServiceError(w, r, h.logger, "refresh", err)
		return
	}

	WriteSuccess(w, h.logger, http.StatusOK, "Access token refreshed successfully",
		api.TokenData{AccessToken: accessToken})
}

// Me обрабатывает GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		WriteError(w, h.logger, http.StatusUnauthorized, "Access token is required")
		return
	}

	user, err := h.service.CurrentUser(r.Context(), userID)
	if err != nil {
		WriteServiceError(w, r, h.logger, "current user", err)
		return
	}

	WriteSuccess(w, h.logger, http.StatusOK, "User retrieved successfully", api.UserData{User: toAPIUser(user)})
}

// ForgotPassword обрабатывает POST /api/v1/auth/password/forgot
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req api.EmailRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.service.RequestPasswordReset(r.Context(), req.Email); err != nil {
		WriteServiceError(w, r, h.logger, "forgot password", err)
		return
	}

	WriteSuccess(w, h.logger, http.StatusOK, "If the account exists, a reset code has been sent.", nil)
}

// ResetPassword обрабатывает POST /api/v1/auth/password/reset
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req api.ResetPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		WriteServiceError(w, r, h.logger, "reset password", err)
		return
	}

	WriteSuccess(w, h.logger, http.StatusOK, "Password has been reset. Please login again.", nil)
}

func (h *AuthHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decodeJSON(w, r, dst); err != nil {
		h.logger.WarnContext(r.Context(), "failed to decode request", slog.Any("error", err))
		WriteError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
