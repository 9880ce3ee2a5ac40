package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/iudanet/blinkauth/internal/client/api"
	"github.com/iudanet/blinkauth/internal/client/storage"
	"github.com/iudanet/blinkauth/internal/validation"
	pkgapi "github.com/iudanet/blinkauth/pkg/api"
)

// ErrNotAuthenticated is returned when an operation needs a session and none is stored
var ErrNotAuthenticated = errors.New("not authenticated")

// Client is the part of the HTTP API client the session service uses.
type Client interface {
	Register(ctx context.Context, req pkgapi.RegisterRequest) (string, error)
	VerifyEmail(ctx context.Context, token string) (string, error)
	ResendVerification(ctx context.Context, email string) (string, error)
	Login(ctx context.Context, req pkgapi.LoginRequest) (*api.LoginResult, error)
	Logout(ctx context.Context, accessToken, refreshToken string) (string, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Me(ctx context.Context, accessToken string) (*pkgapi.User, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, req pkgapi.ResetPasswordRequest) (string, error)
}

// SessionService implements Service on top of the API client and local storage.
type SessionService struct {
	client  Client
	storage storage.AuthStorage
	logger  *slog.Logger
}

// Compile-time check
var _ Service = (*SessionService)(nil)

// NewService создает новый сервис авторизации
func NewService(client Client, authStorage storage.AuthStorage, logger *slog.Logger) *SessionService {
	return &SessionService{
		client:  client,
		storage: authStorage,
		logger:  logger,
	}
}

// Register регистрирует нового пользователя
func (s *SessionService) Register(ctx context.Context, name, email, password string) (string, error) {
	// Проверяем локально, чтобы не гонять заведомо неверный запрос
	if err := validation.ValidateName(name); err != nil {
		return "", fmt.Errorf("invalid name: %w", err)
	}
	email, err := checkEmail(email)
	if err != nil {
		return "", err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return "", fmt.Errorf("invalid password: %w", err)
	}

	return s.client.Register(ctx, pkgapi.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
	})
}

// VerifyEmail подтверждает email
func (s *SessionService) VerifyEmail(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("verification token is required")
	}
	return s.client.VerifyEmail(ctx, token)
}

// ResendVerification повторно отправляет письмо подтверждения
func (s *SessionService) ResendVerification(ctx context.Context, email string) (string, error) {
	email, err := checkEmail(email)
	if err != nil {
		return "", err
	}
	return s.client.ResendVerification(ctx, email)
}

// Login выполняет аутентификацию и сохраняет сессию
func (s *SessionService) Login(ctx context.Context, email, password string) (*storage.AuthData, error) {
	email, err := checkEmail(email)
	if err != nil {
		return nil, err
	}
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}

	res, err := s.client.Login(ctx, pkgapi.LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	session := &storage.AuthData{
		UserID:       res.Data.User.ID,
		Name:         res.Data.User.Name,
		Email:        res.Data.User.Email,
		Role:         res.Data.User.Role,
		AccessToken:  res.Data.AccessToken,
		RefreshToken: res.RefreshToken,
	}
	if !res.RefreshExpiresAt.IsZero() {
		session.ExpiresAt = res.RefreshExpiresAt.Unix()
	}

	if err := s.storage.SaveAuth(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.DebugContext(ctx, "Session saved", slog.String("user_id", session.UserID))
	return session, nil
}

// Logout уведомляет сервер и удаляет локальную сессию.
// Локальная сессия удаляется даже если сервер уже считает ее недействительной.
func (s *SessionService) Logout(ctx context.Context) (string, error) {
	session, err := s.Session(ctx)
	if err != nil {
		return "", err
	}

	msg, err := s.client.Logout(ctx, session.AccessToken, session.RefreshToken)
	if api.IsStatus(err, http.StatusUnauthorized) {
		// access token истек, повторяем с новым
		if token, refreshErr := s.client.Refresh(ctx, session.RefreshToken); refreshErr == nil {
			msg, err = s.client.Logout(ctx, token, session.RefreshToken)
		}
	}
	if err != nil {
		if !api.IsStatus(err, http.StatusBadRequest) && !api.IsStatus(err, http.StatusUnauthorized) {
			return "", err
		}
		s.logger.WarnContext(ctx, "Server rejected session on logout", slog.Any("error", err))
		msg = "Logged out locally"
	}

	if err := s.storage.DeleteAuth(ctx); err != nil && !errors.Is(err, storage.ErrAuthNotFound) {
		return "", fmt.Errorf("failed to delete session: %w", err)
	}

	return msg, nil
}

// Refresh обновляет access token
func (s *SessionService) Refresh(ctx context.Context) error {
	session, err := s.Session(ctx)
	if err != nil {
		return err
	}

	token, err := s.client.Refresh(ctx, session.RefreshToken)
	if err != nil {
		return err
	}

	session.AccessToken = token
	if err := s.storage.SaveAuth(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// CurrentUser возвращает текущего пользователя
func (s *SessionService) CurrentUser(ctx context.Context) (*pkgapi.User, error) {
	session, err := s.Session(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.client.Me(ctx, session.AccessToken)
	if err == nil || !api.IsStatus(err, http.StatusUnauthorized) {
		return user, err
	}

	s.logger.DebugContext(ctx, "Access token rejected, refreshing", slog.Any("error", err))
	if err := s.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("session expired, please login again: %w", err)
	}

	session, err = s.Session(ctx)
	if err != nil {
		return nil, err
	}
	return s.client.Me(ctx, session.AccessToken)
}

// Session возвращает сохраненную сессию
func (s *SessionService) Session(ctx context.Context) (*storage.AuthData, error) {
	session, err := s.storage.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return nil, fmt.Errorf("%w: please login first", ErrNotAuthenticated)
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return session, nil
}

// IsAuthenticated checks if a live session exists
func (s *SessionService) IsAuthenticated(ctx context.Context) (bool, error) {
	return s.storage.IsAuthenticated(ctx)
}

// ForgotPassword запрашивает код сброса пароля
func (s *SessionService) ForgotPassword(ctx context.Context, email string) (string, error) {
	email, err := checkEmail(email)
	if err != nil {
		return "", err
	}
	return s.client.ForgotPassword(ctx, email)
}

// ResetPassword устанавливает новый пароль по коду.
// Сервер отзывает сессию, поэтому локальная тоже удаляется.
func (s *SessionService) ResetPassword(ctx context.Context, email, code, newPassword string) (string, error) {
	email, err := checkEmail(email)
	if err != nil {
		return "", err
	}
	if code == "" {
		return "", fmt.Errorf("reset code is required")
	}
	if err := validation.ValidatePassword(newPassword); err != nil {
		return "", fmt.Errorf("invalid password: %w", err)
	}

	msg, err := s.client.ResetPassword(ctx, pkgapi.ResetPasswordRequest{
		Email:       email,
		Code:        code,
		NewPassword: newPassword,
	})
	if err != nil {
		return "", err
	}

	if session, err := s.storage.GetAuth(ctx); err == nil && session.Email == email {
		if err := s.storage.DeleteAuth(ctx); err != nil {
			s.logger.WarnContext(ctx, "Failed to delete revoked session", slog.Any("error", err))
		}
	}

	return msg, nil
}

// checkEmail нормализует и проверяет адрес
func checkEmail(email string) (string, error) {
	email = validation.NormalizeEmail(email)
	if err := validation.ValidateEmail(email); err != nil {
		return "", fmt.Errorf("invalid email: %w", err)
	}
	return email, nil
}
