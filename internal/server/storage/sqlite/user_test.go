package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/blinkauth/internal/models"
	"github.com/iudanet/blinkauth/internal/server/storage"
)

func setupTestStorage(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	// Используем in-memory database для тестов
	s, err := New(ctx, ":memory:")
	require.NoError(t, err)

	cleanup := func() {
		_ = s.Close()
	}

	return s, cleanup
}

func newTestUser(email string) *models.User {
	now := time.Now().UTC().Truncate(time.Second)
	return &models.User{
		ID:           uuid.New().String(),
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$2a$10$hash",
		Status:       models.StatusActive,
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestUserStorage_CreateUser(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	tests := []struct {
		wantError error
		user      *models.User
		name      string
	}{
		{
			name:      "create new user successfully",
			user:      newTestUser("alice@example.com"),
			wantError: nil,
		},
		{
			name: "create user with last login",
			user: func() *models.User {
				u := newTestUser("bob@example.com")
				u.LastLogin = timePtr(time.Now().UTC().Truncate(time.Second))
				return u
			}(),
			wantError: nil,
		},
		{
			name:      "duplicate email",
			user:      newTestUser("alice@example.com"),
			wantError: storage.ErrUserAlreadyExists,
		},
		{
			name:      "duplicate email with different case",
			user:      newTestUser("ALICE@example.com"),
			wantError: storage.ErrUserAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.CreateUser(ctx, tt.user)
			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			got, err := s.GetUserByID(ctx, tt.user.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.user.Email, got.Email)
			assert.Equal(t, tt.user.Name, got.Name)
			assert.Equal(t, tt.user.PasswordHash, got.PasswordHash)
			assert.Equal(t, models.StatusActive, got.Status)
			assert.Equal(t, models.RoleUser, got.Role)
			assert.False(t, got.Verified)
			if tt.user.LastLogin != nil {
				require.NotNil(t, got.LastLogin)
				assert.True(t, tt.user.LastLogin.Equal(*got.LastLogin))
			} else {
				assert.Nil(t, got.LastLogin)
			}
		})
	}
}

func TestUserStorage_GetUser(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := newTestUser("carol@example.com")
	require.NoError(t, s.CreateUser(ctx, user))

	byEmail, err := s.GetUserByEmail(ctx, "carol@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "carol@example.com", byID.Email)

	_, err = s.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	_, err = s.GetUserByID(ctx, uuid.New().String())
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestUserStorage_UpdateUser(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := newTestUser("dave@example.com")
	require.NoError(t, s.CreateUser(ctx, user))

	user.Name = "Dave"
	user.AvatarURL = "https://cdn.example.com/dave.png"
	user.Role = models.RoleAdmin
	require.NoError(t, s.UpdateUser(ctx, user))

	got, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dave", got.Name)
	assert.Equal(t, "https://cdn.example.com/dave.png", got.AvatarURL)
	assert.Equal(t, models.RoleAdmin, got.Role)

	missing := newTestUser("ghost@example.com")
	assert.ErrorIs(t, s.UpdateUser(ctx, missing), storage.ErrUserNotFound)
}

func TestUserStorage_FieldUpdates(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := newTestUser("erin@example.com")
	require.NoError(t, s.CreateUser(ctx, user))

	t.Run("mark verified", func(t *testing.T) {
		require.NoError(t, s.MarkVerified(ctx, user.ID))
		got, err := s.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, got.Verified)
	})

	t.Run("last login", func(t *testing.T) {
		loginAt := time.Now().UTC().Truncate(time.Second)
		require.NoError(t, s.UpdateLastLogin(ctx, user.ID, loginAt))
		got, err := s.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, got.LastLogin)
		assert.True(t, loginAt.Equal(*got.LastLogin))
	})

	t.Run("refresh fingerprint set and clear", func(t *testing.T) {
		require.NoError(t, s.SetRefreshFingerprint(ctx, user.ID, "abc123"))
		got, err := s.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "abc123", got.RefreshFingerprint)

		require.NoError(t, s.SetRefreshFingerprint(ctx, user.ID, ""))
		got, err = s.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, got.RefreshFingerprint)
	})

	t.Run("status", func(t *testing.T) {
		require.NoError(t, s.SetStatus(ctx, user.ID, models.StatusBanned))
		got, err := s.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusBanned, got.Status)
	})

	t.Run("password reset and update", func(t *testing.T) {
		expires := time.Now().UTC().Add(15 * time.Minute).Truncate(time.Second)
		require.NoError(t, s.SetPasswordReset(ctx, user.ID, "codehash", &expires))
		require.NoError(t, s.SetRefreshFingerprint(ctx, user.ID, "live"))

		got, err := s.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "codehash", got.ResetCodeHash)
		require.NotNil(t, got.ResetExpiresAt)
		assert.True(t, expires.Equal(*got.ResetExpiresAt))

		require.NoError(t, s.UpdatePassword(ctx, user.ID, "$2a$10$newhash"))
		got, err = s.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "$2a$10$newhash", got.PasswordHash)
		assert.Empty(t, got.ResetCodeHash)
		assert.Nil(t, got.ResetExpiresAt)
		assert.Empty(t, got.RefreshFingerprint)
	})

	t.Run("reset attempts", func(t *testing.T) {
		expires := time.Now().UTC().Add(15 * time.Minute)
		require.NoError(t, s.SetPasswordReset(ctx, user.ID, "codehash", &expires))

		for want := 1; want <= 3; want++ {
			got, err := s.IncrementResetAttempts(ctx, user.ID)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}

		// новый код обнуляет счетчик
		require.NoError(t, s.SetPasswordReset(ctx, user.ID, "otherhash", &expires))
		got, err := s.IncrementResetAttempts(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got)

		require.NoError(t, s.UpdatePassword(ctx, user.ID, "$2a$10$another"))
		got, err = s.IncrementResetAttempts(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got)
	})

	t.Run("unknown user", func(t *testing.T) {
		id := uuid.New().String()
		assert.ErrorIs(t, s.MarkVerified(ctx, id), storage.ErrUserNotFound)
		assert.ErrorIs(t, s.UpdateLastLogin(ctx, id, time.Now()), storage.ErrUserNotFound)
		assert.ErrorIs(t, s.SetRefreshFingerprint(ctx, id, "x"), storage.ErrUserNotFound)
		assert.ErrorIs(t, s.SetStatus(ctx, id, models.StatusActive), storage.ErrUserNotFound)
		assert.ErrorIs(t, s.SetPasswordReset(ctx, id, "", nil), storage.ErrUserNotFound)
		assert.ErrorIs(t, s.UpdatePassword(ctx, id, "h"), storage.ErrUserNotFound)
		_, err := s.IncrementResetAttempts(ctx, id)
		assert.ErrorIs(t, err, storage.ErrUserNotFound)
	})
}

func TestStorage_Ping(t *testing.T) {
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	assert.NoError(t, s.Ping(context.Background()))
}
