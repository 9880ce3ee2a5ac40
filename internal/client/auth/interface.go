// Package auth управляет сессией CLI клиента поверх HTTP API сервера
package auth

import (
	"context"

	"github.com/iudanet/blinkauth/internal/client/storage"
	"github.com/iudanet/blinkauth/pkg/api"
)

//go:generate moq -out service_mock.go . Service

// Service defines the operations the CLI performs against the server.
// Login stores the session locally; Logout removes it.
type Service interface {
	// Register создает аккаунт, письмо подтверждения отправляет сервер
	Register(ctx context.Context, name, email, password string) (string, error)

	// VerifyEmail подтверждает email токеном из письма
	VerifyEmail(ctx context.Context, token string) (string, error)

	// ResendVerification повторно отправляет письмо подтверждения
	ResendVerification(ctx context.Context, email string) (string, error)

	// Login аутентифицирует и сохраняет сессию
	Login(ctx context.Context, email, password string) (*storage.AuthData, error)

	// Logout завершает сессию на сервере и удаляет локальную
	Logout(ctx context.Context) (string, error)

	// Refresh получает новый access token и сохраняет его
	Refresh(ctx context.Context) error

	// CurrentUser возвращает текущего пользователя,
	// при истекшем access token один раз обновляет его
	CurrentUser(ctx context.Context) (*api.User, error)

	// Session возвращает сохраненную сессию или storage.ErrAuthNotFound
	Session(ctx context.Context) (*storage.AuthData, error)

	// IsAuthenticated checks if a live session exists
	IsAuthenticated(ctx context.Context) (bool, error)

	// ForgotPassword запрашивает код сброса пароля
	ForgotPassword(ctx context.Context, email string) (string, error)

	// ResetPassword устанавливает новый пароль по коду
	ResetPassword(ctx context.Context, email, code, newPassword string) (string, error)
}
