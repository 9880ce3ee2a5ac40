// Package auth implements registration, email verification, login, logout,
// access-token refresh and password reset on top of the token codec, the
// refresh ledger and the user storage.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/iudanet/blinkauth/internal/crypto"
	"github.com/iudanet/blinkauth/internal/models"
	"github.com/iudanet/blinkauth/internal/server/jwt"
	"github.com/iudanet/blinkauth/internal/server/ledger"
	"github.com/iudanet/blinkauth/internal/server/mail"
	"github.com/iudanet/blinkauth/internal/server/storage"
)

// Config holds flow settings that are not token keys.
type Config struct {
	// FrontendURL is the base of the link placed in verification emails
	FrontendURL     string
	ResetCodeTTL    time.Duration
	ResetCodeDigits int
	SendTimeout     time.Duration

	// ResetMaxAttempts is how many times one reset code may be checked
	ResetMaxAttempts int
}

// DefaultConfig returns the settings used when none are configured.
func DefaultConfig() Config {
	return Config{
		FrontendURL:      "http://localhost:5173",
		ResetCodeTTL:     15 * time.Minute,
		ResetCodeDigits:  6,
		ResetMaxAttempts: 5,
		SendTimeout:      10 * time.Second,
	}
}

// Session is the result of a successful login.
type Session struct {
	RefreshExpiresAt time.Time
	AccessToken      string
	RefreshToken     string
	User             models.PublicUser
}

// Service orchestrates the authentication flows.
type Service struct {
	users  storage.UserStorage
	codec  *jwt.Codec
	ledger *ledger.Ledger
	hasher *crypto.Hasher
	sender mail.Sender
	logger *slog.Logger
	now    func() time.Time
	cfg    Config
	wg     sync.WaitGroup
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source. Pass the same clock to the codec.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new authentication service
func NewService(
	users storage.UserStorage,
	codec *jwt.Codec,
	hasher *crypto.Hasher,
	sender mail.Sender,
	logger *slog.Logger,
	cfg Config,
	opts ...Option,
) *Service {
	defaults := DefaultConfig()
	if cfg.ResetCodeTTL <= 0 {
		cfg.ResetCodeTTL = defaults.ResetCodeTTL
	}
	if cfg.ResetCodeDigits <= 0 {
		cfg.ResetCodeDigits = defaults.ResetCodeDigits
	}
	if cfg.ResetMaxAttempts <= 0 {
		cfg.ResetMaxAttempts = defaults.ResetMaxAttempts
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = defaults.SendTimeout
	}

	s := &Service{
		users:  users,
		codec:  codec,
		ledger: ledger.New(users),
		hasher: hasher,
		sender: sender,
		logger: logger,
		cfg:    cfg,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Wait blocks until all queued emails have been handed to the sender.
func (s *Service) Wait() {
	s.wg.Wait()
}

// CurrentUser returns the public view of the principal.
func (s *Service) CurrentUser(ctx context.Context, userID string) (models.PublicUser, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return models.PublicUser{}, err
	}
	return user.Public(), nil
}

// AuthorizeAdmin succeeds only for an existing principal with the admin role.
func (s *Service) AuthorizeAdmin(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleAdmin {
		return nil, newError(ErrForbidden, "Access denied. Admin privileges required.")
	}
	return user, nil
}

// SetStatus changes the lifecycle status of a principal. Leaving the active
// state revokes the live refresh token.
func (s *Service) SetStatus(ctx context.Context, userID string, status models.Status) (models.PublicUser, error) {
	if !status.Valid() {
		return models.PublicUser{}, newError(ErrValidation, "Status must be one of: active, inactive, banned")
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return models.PublicUser{}, err
	}

	if err := s.users.SetStatus(ctx, user.ID, status); err != nil {
		return models.PublicUser{}, s.storageError(err)
	}
	if status != models.StatusActive {
		if err := s.ledger.Clear(ctx, user.ID); err != nil {
			return models.PublicUser{}, s.storageError(err)
		}
		user.RefreshFingerprint = ""
	}

	s.logger.InfoContext(ctx, "User status changed",
		slog.String("user_id", user.ID),
		slog.String("from", string(user.Status)),
		slog.String("to", string(status)),
	)

	user.Status = status
	user.UpdatedAt = s.now().UTC()
	return user.Public(), nil
}

// loadUser maps storage errors of a by-id lookup to the error taxonomy.
func (s *Service) loadUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, s.storageError(err)
	}
	return user, nil
}

func (s *Service) storageError(err error) error {
	if errors.Is(err, storage.ErrUserNotFound) {
		return newError(ErrNotFound, "User not found")
	}
	return internalError(err)
}

// dispatch hands msg to the sender in the background. The caller's
// cancellation does not abort the send; SendTimeout bounds it instead.
func (s *Service) dispatch(ctx context.Context, msg mail.Message) {
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.SendTimeout)
	s.wg.Go(func() {
		defer cancel()
		if err := s.sender.Send(sendCtx, msg); err != nil {
			s.logger.ErrorContext(sendCtx, "Failed to send email",
				slog.String("to", msg.To),
				slog.String("subject", msg.Subject),
				slog.String("error", err.Error()),
			)
			return
		}
		s.logger.DebugContext(sendCtx, "Email sent", slog.String("to", msg.To), slog.String("subject", msg.Subject))
	})
}

func (s *Service) verifyURL(token string) string {
	base := strings.TrimRight(s.cfg.FrontendURL, "/")
	return fmt.Sprintf("%s/verify-email?token=%s", base, url.QueryEscape(token))
}
