// Package jwt signs and verifies the three token kinds issued by the server:
// access, refresh and email-verification. Every kind has its own HMAC secret
// and lifetime, so a token of one kind never verifies as another.
package jwt

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Kind is the purpose a token was issued for.
type Kind int

const (
	KindAccess Kind = iota + 1
	KindRefresh
	KindEmailVerification
)

func (k Kind) String() string {
	switch k {
	case KindAccess:
		return "access"
	case KindRefresh:
		return "refresh"
	case KindEmailVerification:
		return "email_verification"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

var (
	// ErrExpired - токен корректно подписан, но срок его действия истек
	ErrExpired = errors.New("token expired")
	// ErrMalformed - неверная подпись, структура, алгоритм или тип токена
	ErrMalformed = errors.New("malformed token")
	// ErrUnknownKind is returned for a Kind that has no key configured.
	ErrUnknownKind = errors.New("unknown token kind")
)

// Key holds the signing secret and lifetime of one token kind.
type Key struct {
	Secret []byte
	TTL    time.Duration
}

// Config содержит ключи для всех типов токенов
type Config struct {
	Issuer            string
	Access            Key
	Refresh           Key
	EmailVerification Key
}

// Claims представляет JWT claims токенов сервера
type Claims struct {
	Kind string `json:"kind"`
	gojwt.RegisteredClaims
}

// Codec issues and verifies tokens.
type Codec struct {
	keys   map[Kind]Key
	now    func() time.Time
	issuer string
}

// Option configures a Codec.
type Option func(*Codec)

// WithClock overrides the time source used for iat/exp and for verification.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}

// NewCodec validates cfg and builds a Codec.
// Every kind needs a non-empty secret and a positive TTL, and no two kinds
// may share a secret.
func NewCodec(cfg Config, opts ...Option) (*Codec, error) {
	keys := map[Kind]Key{
		KindAccess:            cfg.Access,
		KindRefresh:           cfg.Refresh,
		KindEmailVerification: cfg.EmailVerification,
	}

	for kind, key := range keys {
		if len(key.Secret) == 0 {
			return nil, fmt.Errorf("%s secret must not be empty", kind)
		}
		if key.TTL <= 0 {
			return nil, fmt.Errorf("%s ttl must be positive", kind)
		}
	}

	ordered := []Kind{KindAccess, KindRefresh, KindEmailVerification}
	for i, a := range ordered {
		for _, b := range ordered[i+1:] {
			if bytes.Equal(keys[a].Secret, keys[b].Secret) {
				return nil, fmt.Errorf("%s and %s tokens must use different secrets", a, b)
			}
		}
	}

	c := &Codec{
		keys:   keys,
		issuer: cfg.Issuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// TTL returns the configured lifetime of kind.
func (c *Codec) TTL(kind Kind) time.Duration {
	return c.keys[kind].TTL
}

// Issue signs a new token of the given kind for principalID and returns it
// together with its expiry.
func (c *Codec) Issue(kind Kind, principalID string) (string, time.Time, error) {
	key, ok := c.keys[kind]
	if !ok {
		return "", time.Time{}, ErrUnknownKind
	}
	if principalID == "" {
		return "", time.Time{}, errors.New("principal id must not be empty")
	}

	now := c.now()
	claims := Claims{
		Kind: kind.String(),
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   principalID,
			Issuer:    c.issuer,
			ID:        uuid.NewString(),
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(key.TTL)),
		},
	}

	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(key.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign %s token: %w", kind, err)
	}

	return signed, claims.ExpiresAt.Time, nil
}

// Verify checks the signature, kind and expiry of token and returns the
// principal id it carries. Errors are ErrExpired or ErrMalformed.
func (c *Codec) Verify(kind Kind, token string) (string, error) {
	key, ok := c.keys[kind]
	if !ok {
		return "", ErrUnknownKind
	}
	if token == "" {
		return "", ErrMalformed
	}

	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithTimeFunc(c.now),
		gojwt.WithExpirationRequired(),
	}
	if c.issuer != "" {
		opts = append(opts, gojwt.WithIssuer(c.issuer))
	}

	claims := &Claims{}
	parsed, err := gojwt.ParseWithClaims(token, claims, func(*gojwt.Token) (any, error) {
		return key.Secret, nil
	}, opts...)
	if err != nil {
		// Подпись проверяется раньше срока действия, поэтому ErrTokenExpired
		// означает корректный, но просроченный токен
		if errors.Is(err, gojwt.ErrTokenExpired) {
			return "", ErrExpired
		}
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if !parsed.Valid || claims.Kind != kind.String() || claims.Subject == "" {
		return "", ErrMalformed
	}

	return claims.Subject, nil
}
