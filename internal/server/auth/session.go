package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iudanet/blinkauth/internal/models"
	"github.com/iudanet/blinkauth/internal/server/jwt"
	"github.com/iudanet/blinkauth/internal/server/ledger"
	"github.com/iudanet/blinkauth/internal/server/storage"
	"github.com/iudanet/blinkauth/internal/validation"
)

// Login checks credentials and account state, then issues an access token
// and a refresh token. The refresh token is recorded in the ledger before
// Login returns, so it can be used right away.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = validation.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, newError(ErrValidation, "Email and password are required")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, newError(ErrNotFound, "User not found")
		}
		return nil, internalError(err)
	}

	if user.Status != models.StatusActive {
		return nil, newError(ErrForbidden, fmt.Sprintf("User account is %s. Please contact support.", user.Status))
	}

	if !user.Verified {
		return nil, newError(ErrUnauthorized, "Please verify your email first")
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.logger.WarnContext(ctx, "Invalid password", slog.String("user_id", user.ID))
		return nil, newError(ErrUnauthorized, "Invalid credentials")
	}

	accessToken, _, err := s.codec.Issue(jwt.KindAccess, user.ID)
	if err != nil {
		return nil, internalError(err)
	}
	refreshToken, refreshExpiresAt, err := s.codec.Issue(jwt.KindRefresh, user.ID)
	if err != nil {
		return nil, internalError(err)
	}

	if err := s.ledger.Record(ctx, user.ID, refreshToken); err != nil {
		return nil, internalError(err)
	}

	now := s.now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, internalError(err)
	}
	user.LastLogin = &now

	s.logger.InfoContext(ctx, "User logged in", slog.String("user_id", user.ID))

	return &Session{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExpiresAt,
		User:             user.Public(),
	}, nil
}

// Logout revokes the refresh token. A token whose principal no longer
// exists is treated as already revoked.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return newError(ErrValidation, "No active session found")
	}

	userID, err := s.codec.Verify(jwt.KindRefresh, refreshToken)
	if err != nil {
		return &Error{Kind: ErrInvalidOrExpired, Message: "Invalid session", Err: err}
	}

	if err := s.ledger.Clear(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil
		}
		return internalError(err)
	}

	s.logger.InfoContext(ctx, "User logged out", slog.String("user_id", userID))
	return nil
}

// RefreshAccessToken issues a new access token for the holder of the live
// refresh token. The refresh token itself is not rotated.
func (s *Service) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", newError(ErrUnauthorized, "Refresh token not found")
	}

	userID, err := s.codec.Verify(jwt.KindRefresh, refreshToken)
	if err != nil {
		return "", &Error{Kind: ErrUnauthorized, Message: "Invalid or expired refresh token", Err: err}
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return "", err
	}

	// Покрывает и выход, и более новый логин, заменивший отпечаток
	if !ledger.Matches(user, refreshToken) {
		return "", newError(ErrUnauthorized, "Invalid refresh token")
	}

	accessToken, _, err := s.codec.Issue(jwt.KindAccess, user.ID)
	if err != nil {
		return "", internalError(err)
	}

	return accessToken, nil
}
