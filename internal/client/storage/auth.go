// Package storage описывает локальное хранилище сессии CLI клиента
package storage

import (
	"context"
	"time"
)

// AuthStorage defines interface for storing the client session.
// Tokens are stored as received from the server.
type AuthStorage interface {
	// SaveAuth replaces the stored session
	SaveAuth(ctx context.Context, auth *AuthData) error

	// GetAuth returns ErrAuthNotFound if nobody is logged in
	GetAuth(ctx context.Context) (*AuthData, error)

	// DeleteAuth removes stored session (logout)
	DeleteAuth(ctx context.Context) error

	// IsAuthenticated checks if a session with a live refresh token exists
	IsAuthenticated(ctx context.Context) (bool, error)
}

// AuthData is the session of the logged in principal.
// RefreshToken is the value of the refresh cookie set by login.
type AuthData struct {
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	// ExpiresAt - unix время истечения refresh cookie, 0 если неизвестно
	ExpiresAt int64 `json:"expires_at"`
}

// Expired reports whether the refresh token is past its cookie expiry.
func (a *AuthData) Expired(now time.Time) bool {
	if a.RefreshToken == "" {
		return true
	}
	return a.ExpiresAt != 0 && !now.Before(time.Unix(a.ExpiresAt, 0))
}
