// Package server wires configuration, storage, the authentication service
// and the HTTP router together and runs them until shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/iudanet/blinkauth/internal/config"
	"github.com/iudanet/blinkauth/internal/crypto"
	"github.com/iudanet/blinkauth/internal/server/auth"
	"github.com/iudanet/blinkauth/internal/server/handlers"
	"github.com/iudanet/blinkauth/internal/server/jwt"
	"github.com/iudanet/blinkauth/internal/server/mail"
	"github.com/iudanet/blinkauth/internal/server/middleware"
	"github.com/iudanet/blinkauth/internal/server/ratelimit"
	"github.com/iudanet/blinkauth/internal/server/storage"
	"github.com/iudanet/blinkauth/internal/server/storage/postgres"
	"github.com/iudanet/blinkauth/internal/server/storage/sqlite"
)

// Store is a user storage backend the server can health-check and close.
type Store interface {
	storage.UserStorage
	Ping(ctx context.Context) error
	Close() error
}

// Server owns every long-lived component of the process.
type Server struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   Store
	sender  mail.Sender
	limiter ratelimit.Limiter
	service *auth.Service
	codec   *jwt.Codec
	handler http.Handler
	version string
	closers []func() error
}

// Option configures a Server.
type Option func(*Server)

// WithStore uses store instead of opening the configured backend.
// The server closes it on shutdown.
func WithStore(store Store) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithSender overrides the configured mail provider.
func WithSender(sender mail.Sender) Option {
	return func(s *Server) {
		s.sender = sender
	}
}

// WithLimiter overrides the configured rate limiter.
func WithLimiter(limiter ratelimit.Limiter) Option {
	return func(s *Server) {
		s.limiter = limiter
	}
}

// WithVersion sets the version reported by the health endpoint.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// New opens storage, builds the service stack and the router. On error
// everything opened so far is closed.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Server, error) {
	s := &Server{
		cfg:     cfg,
		logger:  logger,
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.init(ctx); err != nil {
		if closeErr := s.close(); closeErr != nil {
			logger.Error("failed to release resources", slog.Any("error", closeErr))
		}
		return nil, err
	}
	return s, nil
}

func (s *Server) init(ctx context.Context) error {
	if s.store == nil {
		store, err := openStore(ctx, s.cfg.Storage)
		if err != nil {
			return err
		}
		s.store = store
	}
	s.closers = append(s.closers, s.store.Close)

	if s.sender == nil {
		sender, err := newSender(s.cfg.Mail, s.logger)
		if err != nil {
			return err
		}
		s.sender = sender
	}

	if s.limiter == nil && s.cfg.RateLimit.Enabled {
		s.limiter = s.newLimiter()
	}

	codec, err := jwt.NewCodec(jwt.Config{
		Issuer:            s.cfg.Tokens.Issuer,
		Access:            jwt.Key{Secret: []byte(s.cfg.Tokens.AccessSecret), TTL: s.cfg.Tokens.AccessTTL},
		Refresh:           jwt.Key{Secret: []byte(s.cfg.Tokens.RefreshSecret), TTL: s.cfg.Tokens.RefreshTTL},
		EmailVerification: jwt.Key{Secret: []byte(s.cfg.Tokens.VerificationSecret), TTL: s.cfg.Tokens.VerificationTTL},
	})
	if err != nil {
		return fmt.Errorf("failed to create token codec: %w", err)
	}
	s.codec = codec

	s.service = auth.NewService(s.store, codec, crypto.NewHasher(s.cfg.Auth.BcryptCost), s.sender, s.logger,
		auth.Config{
			FrontendURL:      s.cfg.Auth.FrontendURL,
			ResetCodeTTL:     s.cfg.Auth.ResetCodeTTL,
			ResetMaxAttempts: s.cfg.Auth.ResetMaxAttempts,
			SendTimeout:      s.cfg.Mail.Timeout,
		})

	s.handler = s.routes()
	return nil
}

// openStore открывает хранилище выбранного драйвера
func openStore(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		store, err := sqlite.New(ctx, cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite storage: %w", err)
		}
		return store, nil
	case config.DriverPostgres:
		store, err := postgres.New(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres storage: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func newSender(cfg config.MailConfig, logger *slog.Logger) (mail.Sender, error) {
	switch cfg.Provider {
	case config.MailResend:
		sender, err := mail.NewResendSender(mail.ResendConfig{
			APIKey:  cfg.APIKey,
			From:    cfg.From,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create resend sender: %w", err)
		}
		return sender, nil
	case config.MailLog, "":
		if !logger.Enabled(context.Background(), slog.LevelDebug) {
			logger.Warn("Mail provider is log, verification links and reset codes are logged only at debug level")
		}
		return mail.NewLogSender(logger), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
	}
}

// newLimiter выбирает Redis, если он настроен, иначе лимитер в памяти
func (s *Server) newLimiter() ratelimit.Limiter {
	rl := s.cfg.RateLimit
	if s.cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     s.cfg.Redis.Addr,
			Password: s.cfg.Redis.Password,
			DB:       s.cfg.Redis.DB,
		})
		s.closers = append(s.closers, client.Close)
		s.logger.Info("Using Redis rate limiter", slog.String("addr", s.cfg.Redis.Addr))
		return ratelimit.NewRedis(client, s.cfg.Redis.Prefix, rl.Requests, rl.Window)
	}

	memory := ratelimit.NewMemory(rl.Requests, rl.Window)
	s.closers = append(s.closers, func() error {
		memory.Stop()
		return nil
	})
	return memory
}

// routes собирает маршрутизатор
func (s *Server) routes() http.Handler {
	cookie := handlers.DefaultCookieConfig()
	cookie.Secure = s.cfg.Cookie.Secure
	cookie.Domain = s.cfg.Cookie.Domain
	cookie.MaxAge = s.cfg.Tokens.RefreshTTL

	authHandler := handlers.NewAuthHandler(s.logger, s.service, cookie)
	adminHandler := handlers.NewAdminHandler(s.logger, s.service)
	healthHandler := handlers.NewHealthHandler(s.logger, s.store, s.version)

	requireAuth := middleware.AuthMiddleware(s.logger, s.codec)
	requireAdmin := middleware.RequireAdmin(s.logger, s.service)
	limited := func(h http.HandlerFunc) http.Handler {
		if s.limiter == nil {
			return h
		}
		return middleware.RateLimitMiddleware(s.logger, s.limiter, s.cfg.RateLimit.TrustProxy)(h)
	}

	mux := http.NewServeMux()

	mux.Handle("POST /api/v1/auth/register", limited(authHandler.Register))
	mux.HandleFunc("POST /api/v1/auth/verify-email", authHandler.VerifyEmail)
	mux.Handle("POST /api/v1/auth/resend-verification", limited(authHandler.ResendVerification))
	mux.Handle("POST /api/v1/auth/login", limited(authHandler.Login))
	mux.Handle("POST /api/v1/auth/logout", requireAuth(http.HandlerFunc(authHandler.Logout)))
	mux.HandleFunc("POST /api/v1/auth/refresh", authHandler.Refresh)
	mux.Handle("GET /api/v1/auth/me", requireAuth(http.HandlerFunc(authHandler.Me)))
	mux.Handle("POST /api/v1/auth/password/forgot", limited(authHandler.ForgotPassword))
	mux.Handle("POST /api/v1/auth/password/reset", limited(authHandler.ResetPassword))

	mux.Handle("PATCH /api/v1/admin/users/{id}/status",
		requireAuth(requireAdmin(http.HandlerFunc(adminHandler.SetUserStatus))))

	mux.HandleFunc("GET /api/v1/health", healthHandler.Health)

	var handler http.Handler = mux
	handler = middleware.LoggingWithSkip(s.logger, []string{"/api/v1/health"})(handler)
	handler = middleware.RecoveryMiddleware(s.logger)(handler)
	return handler
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Service returns the authentication service.
func (s *Server) Service() *auth.Service {
	return s.service
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully:
// in-flight requests finish, queued emails are sent and storage is closed.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.handler,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		ErrorLog:     slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	}

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", slog.String("addr", s.cfg.Server.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		s.logger.Info("Shutdown signal received")
	case err := <-serveErr:
		runErr = fmt.Errorf("http server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("http shutdown: %w", err))
	}

	return errors.Join(runErr, s.Close())
}

// Close waits for background email dispatches and releases storage and
// limiter resources.
func (s *Server) Close() error {
	if s.service != nil {
		s.service.Wait()
	}
	return s.close()
}

func (s *Server) close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
