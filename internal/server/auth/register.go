package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/iudanet/blinkauth/internal/models"
	"github.com/iudanet/blinkauth/internal/server/jwt"
	"github.com/iudanet/blinkauth/internal/server/mail"
	"github.com/iudanet/blinkauth/internal/server/storage"
	"github.com/iudanet/blinkauth/internal/validation"
)

// Register creates an unverified principal and emails a verification link.
// Email delivery happens in the background; its failure is only logged.
func (s *Service) Register(ctx context.Context, name, email, password string) (models.PublicUser, error) {
	name = strings.TrimSpace(name)
	email = validation.NormalizeEmail(email)

	if name == "" || email == "" || password == "" {
		return models.PublicUser{}, newError(ErrValidation, "All fields are required")
	}
	if err := validation.ValidateName(name); err != nil {
		return models.PublicUser{}, &Error{Kind: ErrValidation, Message: capitalize(err.Error())}
	}
	if err := validation.ValidateEmail(email); err != nil {
		return models.PublicUser{}, &Error{Kind: ErrValidation, Message: capitalize(err.Error())}
	}
	if err := validation.ValidatePassword(password); err != nil {
		return models.PublicUser{}, &Error{Kind: ErrValidation, Message: capitalize(err.Error())}
	}

	// Проверяем существование до хеширования, чтобы не тратить bcrypt впустую
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return models.PublicUser{}, newError(ErrConflict, "User already exists")
	} else if !errors.Is(err, storage.ErrUserNotFound) {
		return models.PublicUser{}, internalError(err)
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return models.PublicUser{}, internalError(err)
	}

	now := s.now().UTC()
	user := &models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Status:       models.StatusActive,
		Role:         models.RoleUser,
		Verified:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		// Параллельная регистрация с тем же email
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			return models.PublicUser{}, newError(ErrConflict, "User already exists")
		}
		return models.PublicUser{}, internalError(err)
	}

	s.logger.InfoContext(ctx, "User registered", slog.String("user_id", user.ID))

	if err := s.sendVerification(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "Failed to prepare verification email",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	return user.Public(), nil
}

// VerifyEmail flips the verification flag of the principal named by token.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return newError(ErrValidation, "Verification token is required")
	}

	userID, err := s.codec.Verify(jwt.KindEmailVerification, token)
	if err != nil {
		return &Error{Kind: ErrInvalidOrExpired, Message: "Invalid or expired token", Err: err}
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}

	if user.Verified {
		return newError(ErrAlreadyVerified, "Email already verified")
	}

	if err := s.users.MarkVerified(ctx, user.ID); err != nil {
		return s.storageError(err)
	}

	s.logger.InfoContext(ctx, "Email verified", slog.String("user_id", user.ID))
	return nil
}

// ResendVerification emails a fresh verification link to an unverified
// principal. Unknown and already verified addresses succeed silently so the
// endpoint does not reveal which emails are registered.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
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
	if user.Verified {
		return nil
	}

	if err := s.sendVerification(ctx, user); err != nil {
		return internalError(err)
	}
	return nil
}

func (s *Service) sendVerification(ctx context.Context, user *models.User) error {
	token, _, err := s.codec.Issue(jwt.KindEmailVerification, user.ID)
	if err != nil {
		return fmt.Errorf("issue verification token: %w", err)
	}

	msg, err := mail.VerificationEmail(user.Email, user.Name, s.verifyURL(token),
		s.codec.TTL(jwt.KindEmailVerification), s.now())
	if err != nil {
		return err
	}

	s.dispatch(ctx, msg)
	return nil
}

// capitalize upper-cases the first letter of a validation message.
func capitalize(msg string) string {
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
