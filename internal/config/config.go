// Package config loads server settings. Sources are applied in order:
// defaults, an optional YAML file, BLINKAUTH_* environment variables and
// finally command-line flags; every later source overrides the earlier ones.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DriverSQLite и DriverPostgres - поддерживаемые драйверы хранилища
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	// MailResend отправляет письма через Resend, MailLog только пишет их в лог
	MailResend = "resend"
	MailLog    = "log"

	// MinBcryptCost is the lowest cost accepted outside of tests.
	MinBcryptCost = 10
)

// Config holds runtime settings of the server.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Storage   StorageConfig   `yaml:"storage"`
	Tokens    TokensConfig    `yaml:"tokens"`
	Cookie    CookieConfig    `yaml:"cookie"`
	Mail      MailConfig      `yaml:"mail"`
	Redis     RedisConfig     `yaml:"redis"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Auth      AuthConfig      `yaml:"auth"`
}

// ServerConfig содержит параметры HTTP сервера
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LogConfig selects level and output format of slog.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// StorageConfig выбирает бэкенд хранилища пользователей
type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	DSN    string `yaml:"dsn"`
}

// TokensConfig holds one secret and lifetime per token kind.
type TokensConfig struct {
	Issuer             string        `yaml:"issuer"`
	AccessSecret       string        `yaml:"access_secret"`
	RefreshSecret      string        `yaml:"refresh_secret"`
	VerificationSecret string        `yaml:"verification_secret"`
	AccessTTL          time.Duration `yaml:"access_ttl"`
	RefreshTTL         time.Duration `yaml:"refresh_ttl"`
	VerificationTTL    time.Duration `yaml:"verification_ttl"`
}

// CookieConfig описывает cookie с refresh токеном
type CookieConfig struct {
	Domain string `yaml:"domain"`
	Secure bool   `yaml:"secure"`
}

// MailConfig выбирает способ доставки писем
type MailConfig struct {
	Provider string        `yaml:"provider"`
	APIKey   string        `yaml:"api_key"`
	From     string        `yaml:"from"`
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"`
}

// RedisConfig enables the shared rate limiter when Addr is set.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	Prefix   string `yaml:"prefix"`
	DB       int    `yaml:"db"`
}

// RateLimitConfig ограничивает запросы к auth эндпоинтам по IP
type RateLimitConfig struct {
	Window   time.Duration `yaml:"window"`
	Requests int           `yaml:"requests"`
	Enabled  bool          `yaml:"enabled"`

	// TrustProxy берет IP из X-Forwarded-For и X-Real-IP, включать только за доверенным прокси
	TrustProxy bool `yaml:"trust_proxy"`
}

// AuthConfig содержит параметры сценариев авторизации
type AuthConfig struct {
	FrontendURL      string        `yaml:"frontend_url"`
	ResetCodeTTL     time.Duration `yaml:"reset_code_ttl"`
	BcryptCost       int           `yaml:"bcrypt_cost"`
	ResetMaxAttempts int           `yaml:"reset_max_attempts"`
}

// Default returns development defaults. Token secrets are left empty and
// must be configured.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Storage: StorageConfig{
			Driver: DriverSQLite,
			Path:   "blinkauth.db",
		},
		Tokens: TokensConfig{
			Issuer:          "blinkauth",
			AccessTTL:       time.Hour,
			RefreshTTL:      7 * 24 * time.Hour,
			VerificationTTL: 15 * time.Minute,
		},
		Mail: MailConfig{
			Provider: MailLog,
			From:     "BlinkAuth <noreply@blinkauth.local>",
			Timeout:  10 * time.Second,
		},
		RateLimit: RateLimitConfig{
			Enabled:  true,
			Requests: 10,
			Window:   time.Minute,
		},
		Auth: AuthConfig{
			FrontendURL:      "http://localhost:5173",
			ResetCodeTTL:     15 * time.Minute,
			BcryptCost:       MinBcryptCost,
			ResetMaxAttempts: 5,
		},
	}
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr must not be empty"))
	}

	t := c.Tokens
	for _, secret := range []struct{ name, value string }{
		{"tokens.access_secret", t.AccessSecret},
		{"tokens.refresh_secret", t.RefreshSecret},
		{"tokens.verification_secret", t.VerificationSecret},
	} {
		if secret.value == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", secret.name))
		}
	}
	if (t.AccessSecret != "" && (t.AccessSecret == t.RefreshSecret || t.AccessSecret == t.VerificationSecret)) ||
		(t.RefreshSecret != "" && t.RefreshSecret == t.VerificationSecret) {
		errs = append(errs, errors.New("token secrets must be distinct"))
	}
	if t.AccessTTL <= 0 || t.RefreshTTL <= 0 || t.VerificationTTL <= 0 {
		errs = append(errs, errors.New("token ttls must be positive"))
	}

	if c.Auth.BcryptCost < MinBcryptCost {
		errs = append(errs, fmt.Errorf("auth.bcrypt_cost must be at least %d", MinBcryptCost))
	}
	if c.Auth.ResetMaxAttempts <= 0 {
		errs = append(errs, errors.New("auth.reset_max_attempts must be positive"))
	}

	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.Path == "" {
			errs = append(errs, errors.New("storage.path is required for sqlite"))
		}
	case DriverPostgres:
		if c.Storage.DSN == "" {
			errs = append(errs, errors.New("storage.dsn is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.driver %q", c.Storage.Driver))
	}

	switch c.Mail.Provider {
	case MailLog:
	case MailResend:
		if c.Mail.APIKey == "" {
			errs = append(errs, errors.New("mail.api_key is required for resend"))
		}
		if c.Mail.From == "" {
			errs = append(errs, errors.New("mail.from is required for resend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown mail.provider %q", c.Mail.Provider))
	}

	if c.RateLimit.Enabled && (c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0) {
		errs = append(errs, errors.New("rate_limit.requests and rate_limit.window must be positive"))
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log.format %q", c.Log.Format))
	}

	return errors.Join(errs...)
}
