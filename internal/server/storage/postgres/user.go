package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iudanet/blinkauth/internal/models"
	"github.com/iudanet/blinkauth/internal/server/storage"
)

// uniqueViolation is the SQLSTATE of unique_violation
const uniqueViolation = "23505"

const userColumns = `id, name, email, password_hash, avatar_url, mobile, verified, status, role,
		last_login, refresh_fingerprint, reset_code_hash, reset_expires_at, created_at, updated_at`

// CreateUser creates a new user in the storage
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.AvatarURL,
		user.Mobile,
		user.Verified,
		string(user.Status),
		string(user.Role),
		nullTime(user.LastLogin),
		user.RefreshFingerprint,
		user.ResetCodeHash,
		nullTime(user.ResetExpiresAt),
		user.CreatedAt.UTC(),
		user.UpdatedAt.UTC(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return storage.ErrUserAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// GetUserByEmail retrieves user by email, case-insensitively
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return s.getUser(ctx, query, email)
}

// GetUserByID retrieves user by ID
func (s *Storage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return s.getUser(ctx, query, userID)
}

func (s *Storage) getUser(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	var (
		status, role   string
		lastLogin      sql.NullTime
		resetExpiresAt sql.NullTime
	)

	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.AvatarURL,
		&user.Mobile,
		&user.Verified,
		&status,
		&role,
		&lastLogin,
		&user.RefreshFingerprint,
		&user.ResetCodeHash,
		&resetExpiresAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.Status = models.Status(status)
	user.Role = models.Role(role)
	if lastLogin.Valid {
		t := lastLogin.Time
		user.LastLogin = &t
	}
	if resetExpiresAt.Valid {
		t := resetExpiresAt.Time
		user.ResetExpiresAt = &t
	}

	return user, nil
}

// UpdateUser updates profile and account fields
func (s *Storage) UpdateUser(ctx context.Context, user *models.User) error {
	query := `UPDATE users
		SET name = $1, avatar_url = $2, mobile = $3, status = $4, role = $5, updated_at = $6
		WHERE id = $7`

	return s.execOne(ctx, query,
		user.Name,
		user.AvatarURL,
		user.Mobile,
		string(user.Status),
		string(user.Role),
		s.now().UTC(),
		user.ID,
	)
}

// MarkVerified sets verified flag
func (s *Storage) MarkVerified(ctx context.Context, userID string) error {
	query := `UPDATE users SET verified = TRUE, updated_at = $1 WHERE id = $2`
	return s.execOne(ctx, query, s.now().UTC(), userID)
}

// UpdateLastLogin updates the last login timestamp
func (s *Storage) UpdateLastLogin(ctx context.Context, userID string, lastLogin time.Time) error {
	query := `UPDATE users SET last_login = $1, updated_at = $2 WHERE id = $3`
	return s.execOne(ctx, query, lastLogin.UTC(), s.now().UTC(), userID)
}

// SetRefreshFingerprint stores refresh token fingerprint
func (s *Storage) SetRefreshFingerprint(ctx context.Context, userID, fingerprint string) error {
	query := `UPDATE users SET refresh_fingerprint = $1, updated_at = $2 WHERE id = $3`
	return s.execOne(ctx, query, fingerprint, s.now().UTC(), userID)
}

// SetStatus changes account status
func (s *Storage) SetStatus(ctx context.Context, userID string, status models.Status) error {
	query := `UPDATE users SET status = $1, updated_at = $2 WHERE id = $3`
	return s.execOne(ctx, query, string(status), s.now().UTC(), userID)
}

// SetPasswordReset stores or clears pending reset code
func (s *Storage) SetPasswordReset(ctx context.Context, userID, codeHash string, expiresAt *time.Time) error {
	query := `UPDATE users SET reset_code_hash = $1, reset_expires_at = $2, reset_attempts = 0, updated_at = $3 WHERE id = $4`
	return s.execOne(ctx, query, codeHash, nullTime(expiresAt), s.now().UTC(), userID)
}

// IncrementResetAttempts counts a reset code check
func (s *Storage) IncrementResetAttempts(ctx context.Context, userID string) (int, error) {
	query := `UPDATE users SET reset_attempts = reset_attempts + 1 WHERE id = $1 RETURNING reset_attempts`

	var attempts int
	if err := s.db.QueryRowContext(ctx, query, userID).Scan(&attempts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, storage.ErrUserNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return attempts, nil
}

// UpdatePassword replaces password hash and revokes reset code and refresh token
func (s *Storage) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	query := `UPDATE users
		SET password_hash = $1, reset_code_hash = '', reset_expires_at = NULL, reset_attempts = 0,
		    refresh_fingerprint = '', updated_at = $2
		WHERE id = $3`
	return s.execOne(ctx, query, passwordHash, s.now().UTC(), userID)
}

func (s *Storage) execOne(ctx context.Context, query string, args ...any) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if rows == 0 {
		return storage.ErrUserNotFound
	}

	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
