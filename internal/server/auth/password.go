package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/iudanet/blinkauth/internal/crypto"
	"github.com/iudanet/blinkauth/internal/server/mail"
	"github.com/iudanet/blinkauth/internal/server/storage"
	"github.com/iudanet/blinkauth/internal/validation"
)

const invalidResetCode = "Invalid or expired reset code"

// RequestPasswordReset stores the fingerprint of a new one-time code and
// emails the code. Unknown addresses succeed without sending anything.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	email = validation.NormalizeEmail(email)
	if email == "" {
		return newError(ErrValidation, "Email is required")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil
		}
		return internalError(err)
	}

	code, err := crypto.GenerateNumericCode(s.cfg.ResetCodeDigits)
	if err != nil {
		return internalError(err)
	}

	expiresAt := s.now().UTC().Add(s.cfg.ResetCodeTTL)
	if err := s.users.SetPasswordReset(ctx, user.ID, crypto.Fingerprint(code), &expiresAt); err != nil {
		return s.storageError(err)
	}

	msg, err := mail.PasswordResetEmail(user.Email, user.Name, code, s.cfg.ResetCodeTTL, s.now())
	if err != nil {
		return internalError(err)
	}
	s.dispatch(ctx, msg)

	s.logger.InfoContext(ctx, "Password reset requested", slog.String("user_id", user.ID))
	return nil
}

// ResetPassword replaces the password when code matches the pending reset.
// On success the reset code is consumed and the live refresh token revoked.
// A code is checked at most ResetMaxAttempts times, then it is cleared.
func (s *Service) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = validation.NormalizeEmail(email)
	if email == "" || code == "" || newPassword == "" {
		return newError(ErrValidation, "Email, code and new password are required")
	}
	if err := validation.ValidatePassword(newPassword); err != nil {
		return &Error{Kind: ErrValidation, Message: capitalize(err.Error())}
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return newError(ErrInvalidOrExpired, invalidResetCode)
		}
		return internalError(err)
	}

	if !user.HasActiveReset(s.now()) {
		s.logger.WarnContext(ctx, "Password reset rejected", slog.String("user_id", user.ID))
		return newError(ErrInvalidOrExpired, invalidResetCode)
	}

	// счетчик увеличивается до сравнения, параллельные попытки тоже учитываются
	attempts, err := s.users.IncrementResetAttempts(ctx, user.ID)
	if err != nil {
		return s.storageError(err)
	}
	if attempts > s.cfg.ResetMaxAttempts || !crypto.FingerprintMatches(code, user.ResetCodeHash) {
		if attempts >= s.cfg.ResetMaxAttempts {
			if err := s.users.SetPasswordReset(ctx, user.ID, "", nil); err != nil {
				return s.storageError(err)
			}
			s.logger.WarnContext(ctx, "Password reset code revoked after too many attempts",
				slog.String("user_id", user.ID), slog.Int("attempts", attempts))
		} else {
			s.logger.WarnContext(ctx, "Password reset rejected",
				slog.String("user_id", user.ID), slog.Int("attempts", attempts))
		}
		return newError(ErrInvalidOrExpired, invalidResetCode)
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return internalError(err)
	}

	if err := s.users.UpdatePassword(ctx, user.ID, passwordHash); err != nil {
		return s.storageError(err)
	}

	s.logger.InfoContext(ctx, "Password reset completed", slog.String("user_id", user.ID))
	return nil
}
