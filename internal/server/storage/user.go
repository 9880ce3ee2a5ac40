package storage

import (
	"context"
	"time"

	"github.com/iudanet/blinkauth/internal/models"
)

// UserStorage defines interface for user (principal) persistence.
// Each method is a single-row statement, so read-modify-write on one user is
// atomic at the storage layer; concurrent writers resolve last-write-wins.
type UserStorage interface {
	// CreateUser creates a new user in the storage
	// Returns ErrUserAlreadyExists if email is already taken
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves user by normalized email
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves user by ID
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// UpdateUser saves profile and account fields of an existing user
	// Returns ErrUserNotFound if user doesn't exist
	UpdateUser(ctx context.Context, user *models.User) error

	// MarkVerified sets the verification flag. The flag never goes back to false.
	MarkVerified(ctx context.Context, userID string) error

	// UpdateLastLogin updates the last login timestamp
	UpdateLastLogin(ctx context.Context, userID string, lastLogin time.Time) error

	// SetRefreshFingerprint stores the fingerprint of the live refresh token.
	// An empty fingerprint revokes it.
	SetRefreshFingerprint(ctx context.Context, userID, fingerprint string) error

	// SetStatus changes the account lifecycle status
	SetStatus(ctx context.Context, userID string, status models.Status) error

	// SetPasswordReset stores a reset code fingerprint and its expiry.
	// Empty codeHash with nil expiresAt clears a pending reset.
	SetPasswordReset(ctx context.Context, userID, codeHash string, expiresAt *time.Time) error

	// IncrementResetAttempts atomically counts one more check of the pending
	// reset code and returns the new count. SetPasswordReset and
	// UpdatePassword reset the counter.
	IncrementResetAttempts(ctx context.Context, userID string) (int, error)

	// UpdatePassword replaces the password hash and, in the same statement,
	// clears the pending reset code and the refresh fingerprint
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}
