package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "BLINKAUTH_"

// LookupEnv matches os.LookupEnv; tests pass a map-backed function.
type LookupEnv func(key string) (string, bool)

// Options are command-line switches that are not part of Config.
type Options struct {
	ConfigPath  string
	ShowVersion bool
}

// Load builds a Config from defaults, the YAML file named by -c (or
// BLINKAUTH_CONFIG), the environment and args. args excludes the program
// name. The result is not validated.
func Load(args []string, lookup LookupEnv) (*Config, Options, error) {
	cfg := Default()
	opts := Options{ConfigPath: configPath(args, lookup)}

	if opts.ConfigPath != "" {
		if err := loadYAML(cfg, opts.ConfigPath); err != nil {
			return nil, opts, err
		}
	}

	if err := applyEnv(cfg, lookup); err != nil {
		return nil, opts, err
	}

	if err := parseFlags(cfg, &opts, args); err != nil {
		return nil, opts, err
	}

	return cfg, opts, nil
}

// configPath ищет путь к файлу конфигурации до разбора остальных флагов
func configPath(args []string, lookup LookupEnv) string {
	for i, arg := range args {
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if !strings.HasPrefix(arg, "-") || (name != "c" && name != "config") {
			continue
		}
		if hasValue {
			return value
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}
	if path, ok := lookup(EnvPrefix + "CONFIG"); ok {
		return path
	}
	return ""
}

// loadYAML накладывает значения из YAML файла поверх cfg
func loadYAML(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// envReader collects parse errors so applyEnv stays linear.
type envReader struct {
	lookup LookupEnv
	errs   []error
}

func (r *envReader) string(name string, dst *string) {
	if v, ok := r.lookup(EnvPrefix + name); ok {
		*dst = v
	}
}

func (r *envReader) duration(name string, dst *time.Duration) {
	v, ok := r.lookup(EnvPrefix + name)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
		return
	}
	*dst = d
}

func (r *envReader) int(name string, dst *int) {
	v, ok := r.lookup(EnvPrefix + name)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
		return
	}
	*dst = n
}

func (r *envReader) bool(name string, dst *bool) {
	v, ok := r.lookup(EnvPrefix + name)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
		return
	}
	*dst = b
}

// applyEnv читает переменные окружения BLINKAUTH_*
func applyEnv(cfg *Config, lookup LookupEnv) error {
	r := &envReader{lookup: lookup}

	r.string("ADDR", &cfg.Server.Addr)
	r.duration("READ_TIMEOUT", &cfg.Server.ReadTimeout)
	r.duration("WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	r.duration("SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)

	r.string("LOG_LEVEL", &cfg.Log.Level)
	r.string("LOG_FORMAT", &cfg.Log.Format)

	r.string("STORAGE_DRIVER", &cfg.Storage.Driver)
	r.string("DB_PATH", &cfg.Storage.Path)
	r.string("DATABASE_DSN", &cfg.Storage.DSN)

	r.string("JWT_ISSUER", &cfg.Tokens.Issuer)
	r.string("JWT_ACCESS_SECRET", &cfg.Tokens.AccessSecret)
	r.string("JWT_REFRESH_SECRET", &cfg.Tokens.RefreshSecret)
	r.string("JWT_VERIFICATION_SECRET", &cfg.Tokens.VerificationSecret)
	r.duration("ACCESS_TTL", &cfg.Tokens.AccessTTL)
	r.duration("REFRESH_TTL", &cfg.Tokens.RefreshTTL)
	r.duration("VERIFICATION_TTL", &cfg.Tokens.VerificationTTL)

	r.string("COOKIE_DOMAIN", &cfg.Cookie.Domain)
	r.bool("COOKIE_SECURE", &cfg.Cookie.Secure)

	r.string("MAIL_PROVIDER", &cfg.Mail.Provider)
	r.string("RESEND_API_KEY", &cfg.Mail.APIKey)
	r.string("MAIL_FROM", &cfg.Mail.From)
	r.string("RESEND_BASE_URL", &cfg.Mail.BaseURL)
	r.duration("MAIL_TIMEOUT", &cfg.Mail.Timeout)

	r.string("REDIS_ADDR", &cfg.Redis.Addr)
	r.string("REDIS_PASSWORD", &cfg.Redis.Password)
	r.string("REDIS_PREFIX", &cfg.Redis.Prefix)
	r.int("REDIS_DB", &cfg.Redis.DB)

	r.bool("RATE_LIMIT_ENABLED", &cfg.RateLimit.Enabled)
	r.int("RATE_LIMIT_REQUESTS", &cfg.RateLimit.Requests)
	r.duration("RATE_LIMIT_WINDOW", &cfg.RateLimit.Window)
	r.bool("RATE_LIMIT_TRUST_PROXY", &cfg.RateLimit.TrustProxy)

	r.string("FRONTEND_URL", &cfg.Auth.FrontendURL)
	r.duration("RESET_CODE_TTL", &cfg.Auth.ResetCodeTTL)
	r.int("BCRYPT_COST", &cfg.Auth.BcryptCost)
	r.int("RESET_MAX_ATTEMPTS", &cfg.Auth.ResetMaxAttempts)

	return errors.Join(r.errs...)
}

// parseFlags переопределяет значения флагами командной строки
//
//	-a string    HTTP listen address
//	-driver      storage driver (sqlite|postgres)
//	-db string   SQLite database path
//	-d string    PostgreSQL DSN
//	-redis       Redis address for the shared rate limiter
//	-log-level   debug|info|warn|error
//	-c string    YAML config file
func parseFlags(cfg *Config, opts *Options, args []string) error {
	fs := flag.NewFlagSet("blinkauth-server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.Server.Addr, "a", cfg.Server.Addr, "HTTP listen address")
	fs.StringVar(&cfg.Storage.Driver, "driver", cfg.Storage.Driver, "storage driver (sqlite|postgres)")
	fs.StringVar(&cfg.Storage.Path, "db", cfg.Storage.Path, "SQLite database path")
	fs.StringVar(&cfg.Storage.DSN, "d", cfg.Storage.DSN, "PostgreSQL DSN")
	fs.StringVar(&cfg.Redis.Addr, "redis", cfg.Redis.Addr, "Redis address for rate limiting")
	fs.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "log level (debug|info|warn|error)")
	fs.StringVar(&opts.ConfigPath, "c", opts.ConfigPath, "path to YAML config file")
	fs.StringVar(&opts.ConfigPath, "config", opts.ConfigPath, "path to YAML config file")
	fs.BoolVar(&opts.ShowVersion, "version", false, "show version information")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return nil
}
