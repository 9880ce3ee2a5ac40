// Package ledger keeps the single live refresh token of every principal.
// Only a SHA-256 fingerprint of the token is stored, on the user row itself;
// recording a new token overwrites the previous one.
package ledger

import (
	"context"
	"fmt"

	"github.com/iudanet/blinkauth/internal/crypto"
	"github.com/iudanet/blinkauth/internal/models"
)

// Store is the part of storage.UserStorage the ledger needs.
type Store interface {
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	SetRefreshFingerprint(ctx context.Context, userID, fingerprint string) error
}

// Ledger records, checks and revokes refresh tokens.
type Ledger struct {
	store Store
}

// New creates a Ledger backed by store.
func New(store Store) *Ledger {
	return &Ledger{store: store}
}

// Record makes token the only valid refresh token of userID.
func (l *Ledger) Record(ctx context.Context, userID, token string) error {
	if token == "" {
		return fmt.Errorf("record refresh token: empty token")
	}
	if err := l.store.SetRefreshFingerprint(ctx, userID, crypto.Fingerprint(token)); err != nil {
		return fmt.Errorf("record refresh token: %w", err)
	}
	return nil
}

// Check reports whether token is the live refresh token of userID.
func (l *Ledger) Check(ctx context.Context, userID, token string) (bool, error) {
	user, err := l.store.GetUserByID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("check refresh token: %w", err)
	}
	return Matches(user, token), nil
}

// Matches compares token against the fingerprint already loaded on user.
// It is false when no fingerprint is stored.
func Matches(user *models.User, token string) bool {
	if user == nil {
		return false
	}
	return crypto.FingerprintMatches(token, user.RefreshFingerprint)
}

// Clear revokes whatever refresh token userID holds.
func (l *Ledger) Clear(ctx context.Context, userID string) error {
	if err := l.store.SetRefreshFingerprint(ctx, userID, ""); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	return nil
}
