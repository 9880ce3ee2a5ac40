package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// MinBcryptCost - минимально допустимый work factor для паролей
const MinBcryptCost = 10

// ErrEmptyPassword is returned when hashing an empty password.
var ErrEmptyPassword = errors.New("password cannot be empty")

// Hasher hashes and verifies account passwords with bcrypt.
type Hasher struct {
	cost int
}

// NewHasher создает Hasher с заданной стоимостью
// Стоимость ниже MinBcryptCost поднимается до минимума
func NewHasher(cost int) *Hasher {
	if cost < MinBcryptCost {
		cost = MinBcryptCost
	}
	return &Hasher{cost: cost}
}

// Hash returns the bcrypt digest of the plaintext password.
func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(digest), nil
}

// Verify reports whether password matches the digest.
// A mismatch or a corrupt digest yields false, never an error.
func (h *Hasher) Verify(password, digest string) bool {
	if password == "" || digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// Fingerprint возвращает SHA256 отпечаток секрета (hex-encoded)
// Используется для refresh token и кодов сброса пароля: в БД хранится только отпечаток
func Fingerprint(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// FingerprintMatches compares the fingerprint of secret against stored in
// constant time. An empty stored value never matches.
func FingerprintMatches(secret, stored string) bool {
	if stored == "" || secret == "" {
		return false
	}
	computed := Fingerprint(secret)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(stored)) == 1
}

// GenerateNumericCode генерирует криптографически случайный цифровой код заданной длины
func GenerateNumericCode(digits int) (string, error) {
	if digits <= 0 {
		return "", fmt.Errorf("code length must be positive, got %d", digits)
	}

	code := make([]byte, digits)
	ten := big.NewInt(10)
	for i := range code {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("failed to generate code: %w", err)
		}
		code[i] = byte('0' + n.Int64())
	}

	return string(code), nil
}
