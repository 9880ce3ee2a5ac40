package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/iudanet/blinkauth/internal/models"
	"github.com/iudanet/blinkauth/internal/server/storage"
)

const userColumns = `id, name, email, password_hash, avatar_url, mobile, verified, status, role,
		last_login, refresh_fingerprint, reset_code_hash, reset_expires_at, created_at, updated_at`

// CreateUser creates a new user in the storage
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

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
		if isUniqueViolation(err) {
			return storage.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetUserByEmail retrieves user by email
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return s.getUser(ctx, query, email)
}

// GetUserByID retrieves user by ID
func (s *Storage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
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
		return nil, fmt.Errorf("failed to get user: %w", err)
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

// UpdateUser updates user information
func (s *Storage) UpdateUser(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET name = ?, avatar_url = ?, mobile = ?, status = ?, role = ?, updated_at = ?
		WHERE id = ?
	`

	return s.execOne(ctx, "update user", query,
		user.Name,
		user.AvatarURL,
		user.Mobile,
		string(user.Status),
		string(user.Role),
		time.Now().UTC(),
		user.ID,
	)
}

// MarkVerified sets verified flag
func (s *Storage) MarkVerified(ctx context.Context, userID string) error {
	query := `UPDATE users SET verified = 1, updated_at = ? WHERE id = ?`
	return s.execOne(ctx, "mark verified", query, time.Now().UTC(), userID)
}

// UpdateLastLogin updates the last login timestamp
func (s *Storage) UpdateLastLogin(ctx context.Context, userID string, lastLogin time.Time) error {
	query := `UPDATE users SET last_login = ?, updated_at = ? WHERE id = ?`
	return s.execOne(ctx, "update last login", query, lastLogin.UTC(), time.Now().UTC(), userID)
}

// SetRefreshFingerprint stores refresh token fingerprint
func (s *Storage) SetRefreshFingerprint(ctx context.Context, userID, fingerprint string) error {
	query := `UPDATE users SET refresh_fingerprint = ?, updated_at = ? WHERE id = ?`
	return s.execOne(ctx, "set refresh fingerprint", query, fingerprint, time.Now().UTC(), userID)
}

// SetStatus changes account status
func (s *Storage) SetStatus(ctx context.Context, userID string, status models.Status) error {
	query := `UPDATE users SET status = ?, updated_at = ? WHERE id = ?`
	return s.execOne(ctx, "set status", query, string(status), time.Now().UTC(), userID)
}

// SetPasswordReset stores or clears pending reset code
func (s *Storage) SetPasswordReset(ctx context.Context, userID, codeHash string, expiresAt *time.Time) error {
	query := `UPDATE users SET reset_code_hash = ?, reset_expires_at = ?, reset_attempts = 0, updated_at = ? WHERE id = ?`
	return s.execOne(ctx, "set password reset", query, codeHash, nullTime(expiresAt), time.Now().UTC(), userID)
}

// IncrementResetAttempts counts a reset code check
func (s *Storage) IncrementResetAttempts(ctx context.Context, userID string) (int, error) {
	query := `UPDATE users SET reset_attempts = reset_attempts + 1 WHERE id = ? RETURNING reset_attempts`

	var attempts int
	if err := s.db.QueryRowContext(ctx, query, userID).Scan(&attempts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, storage.ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to increment reset attempts: %w", err)
	}
	return attempts, nil
}

// UpdatePassword replaces password hash and revokes reset code and refresh token
func (s *Storage) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	query := `
		UPDATE users
		SET password_hash = ?, reset_code_hash = '', reset_expires_at = NULL, reset_attempts = 0,
		    refresh_fingerprint = '', updated_at = ?
		WHERE id = ?
	`
	return s.execOne(ctx, "update password", query, passwordHash, time.Now().UTC(), userID)
}

// execOne выполняет UPDATE и возвращает ErrUserNotFound, если строка не найдена
func (s *Storage) execOne(ctx context.Context, op, query string, args ...any) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
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

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}
