package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/blinkauth/internal/crypto"
	"github.com/iudanet/blinkauth/internal/models"
	"github.com/iudanet/blinkauth/internal/server/jwt"
	"github.com/iudanet/blinkauth/internal/server/mail"
	"github.com/iudanet/blinkauth/internal/server/storage/sqlite"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type testEnv struct {
	svc    *Service
	store  *sqlite.Storage
	codec  *jwt.Codec
	clock  *fakeClock
	sender *mail.SenderMock
	hasher *crypto.Hasher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	store, err := sqlite.New(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	codec, err := jwt.NewCodec(jwt.Config{
		Issuer:            "blinkauth-test",
		Access:            jwt.Key{Secret: []byte("access-secret"), TTL: time.Hour},
		Refresh:           jwt.Key{Secret: []byte("refresh-secret"), TTL: 7 * 24 * time.Hour},
		EmailVerification: jwt.Key{Secret: []byte("verify-secret"), TTL: 15 * time.Minute},
	}, jwt.WithClock(clock.Now))
	require.NoError(t, err)

	sender := &mail.SenderMock{
		SendFunc: func(ctx context.Context, msg mail.Message) error { return nil },
	}
	hasher := crypto.NewHasher(crypto.MinBcryptCost)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := NewService(store, codec, hasher, sender, logger, Config{
		FrontendURL: "https://shop.example.com/",
	}, WithClock(clock.Now))

	return &testEnv{svc: svc, store: store, codec: codec, clock: clock, sender: sender, hasher: hasher}
}

var verifyTokenRe = regexp.MustCompile(`verify-email\?token=([A-Za-z0-9_\-.]+)`)
var resetCodeRe = regexp.MustCompile(`>\s*(\d{6})\s*</div>`)

// lastEmail ждет завершения фоновых отправок и возвращает последнее письмо
func (e *testEnv) lastEmail(t *testing.T) mail.Message {
	t.Helper()
	e.svc.Wait()
	calls := e.sender.SendCalls()
	require.NotEmpty(t, calls, "письмо не отправлено")
	return calls[len(calls)-1].Msg
}

func (e *testEnv) verificationToken(t *testing.T) string {
	t.Helper()
	m := verifyTokenRe.FindStringSubmatch(e.lastEmail(t).HTML)
	require.Len(t, m, 2)
	return m[1]
}

// registerVerified регистрирует и подтверждает пользователя
func (e *testEnv) registerVerified(t *testing.T, email, password string) models.PublicUser {
	t.Helper()
	ctx := context.Background()
	user, err := e.svc.Register(ctx, "Test User", email, password)
	require.NoError(t, err)
	require.NoError(t, e.svc.VerifyEmail(ctx, e.verificationToken(t)))
	return user
}

func (e *testEnv) countUsers(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, e.store.DB().QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n))
	return n
}

func TestRegister_CreatesUnverifiedUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	public, err := env.svc.Register(ctx, "  Alice ", "  Alice@Example.COM ", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", public.Email)
	assert.Equal(t, "Alice", public.Name)

	user, err := env.store.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.False(t, user.Verified)
	assert.Equal(t, models.StatusActive, user.Status)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Nil(t, user.LastLogin)
	assert.Empty(t, user.RefreshFingerprint)

	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.True(t, env.hasher.Verify("s3cret-pass", user.PasswordHash))
	assert.False(t, env.hasher.Verify("s3cret-pass2", user.PasswordHash))
	assert.False(t, env.hasher.Verify("S3cret-pass", user.PasswordHash))
}

func TestRegister_SendsVerificationEmail(t *testing.T) {
	env := newTestEnv(t)

	public, err := env.svc.Register(context.Background(), "Alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	msg := env.lastEmail(t)
	assert.Len(t, env.sender.SendCalls(), 1)
	assert.Equal(t, "alice@example.com", msg.To)
	assert.Equal(t, "Verify your email", msg.Subject)
	assert.Contains(t, msg.HTML, "https://shop.example.com/verify-email?token=")

	id, err := env.codec.Verify(jwt.KindEmailVerification, env.verificationToken(t))
	require.NoError(t, err)
	assert.Equal(t, public.ID, id)
}

func TestRegister_EmailFailureIsNotSurfaced(t *testing.T) {
	env := newTestEnv(t)
	env.sender.SendFunc = func(ctx context.Context, msg mail.Message) error {
		return errors.New("smtp down")
	}

	_, err := env.svc.Register(context.Background(), "Alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	env.svc.Wait()

	assert.Len(t, env.sender.SendCalls(), 1)
	assert.Equal(t, 1, env.countUsers(t), "пользователь не откатывается при ошибке отправки")
}

func TestRegister_Duplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Register(ctx, "Alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, err = env.svc.Register(ctx, "Alice Two", "alice@example.com", "other-pass")
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "User already exists", Message(err))

	_, err = env.svc.Register(ctx, "Alice Three", "ALICE@example.com", "other-pass")
	assert.ErrorIs(t, err, ErrConflict)

	assert.Equal(t, 1, env.countUsers(t))
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		wantMsg  string
	}{
		{name: "empty name", email: "a@example.com", password: "s3cret-pass", wantMsg: "All fields are required"},
		{name: "blank name", userName: "   ", email: "a@example.com", password: "s3cret-pass", wantMsg: "All fields are required"},
		{name: "empty email", userName: "A", password: "s3cret-pass", wantMsg: "All fields are required"},
		{name: "empty password", userName: "A", email: "a@example.com", wantMsg: "All fields are required"},
		{name: "bad email", userName: "A", email: "not-an-email", password: "s3cret-pass", wantMsg: "Email is not a valid address"},
		{name: "short password", userName: "A", email: "a@example.com", password: "12345", wantMsg: "Password must be at least 6 characters long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.Register(context.Background(), tt.userName, tt.email, tt.password)
			require.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, tt.wantMsg, Message(err))
		})
	}

	assert.Equal(t, 0, env.countUsers(t))
	env.svc.Wait()
	assert.Empty(t, env.sender.SendCalls())
}

func TestVerifyEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	public, err := env.svc.Register(ctx, "Alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	token := env.verificationToken(t)

	require.NoError(t, env.svc.VerifyEmail(ctx, token))

	user, err := env.store.GetUserByID(ctx, public.ID)
	require.NoError(t, err)
	assert.True(t, user.Verified)

	err = env.svc.VerifyEmail(ctx, token)
	assert.ErrorIs(t, err, ErrAlreadyVerified)
	assert.Equal(t, "Email already verified", Message(err))

	user, err = env.store.GetUserByID(ctx, public.ID)
	require.NoError(t, err)
	assert.True(t, user.Verified, "флаг не возвращается в false")
}

func TestVerifyEmail_Expired(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	public, err := env.svc.Register(ctx, "Alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	token := env.verificationToken(t)

	env.clock.Advance(15*time.Minute + time.Second)

	err = env.svc.VerifyEmail(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidOrExpired)
	assert.Equal(t, "Invalid or expired token", Message(err))

	user, err := env.store.GetUserByID(ctx, public.ID)
	require.NoError(t, err)
	assert.False(t, user.Verified)
}

func TestVerifyEmail_Rejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	public, err := env.svc.Register(ctx, "Alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	err = env.svc.VerifyEmail(ctx, "")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Verification token is required", Message(err))

	accessToken, _, err := env.codec.Issue(jwt.KindAccess, public.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, env.svc.VerifyEmail(ctx, accessToken), ErrInvalidOrExpired, "access token не подтверждает email")

	refreshToken, _, err := env.codec.Issue(jwt.KindRefresh, public.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, env.svc.VerifyEmail(ctx, refreshToken), ErrInvalidOrExpired, "refresh token не подтверждает email")

	assert.ErrorIs(t, env.svc.VerifyEmail(ctx, "garbage"), ErrInvalidOrExpired)

	ghost, _, err := env.codec.Issue(jwt.KindEmailVerification, uuid.NewString())
	require.NoError(t, err)
	err = env.svc.VerifyEmail(ctx, ghost)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "User not found", Message(err))
}

func TestResendVerification(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Register(ctx, "Alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	env.svc.Wait()

	require.NoError(t, env.svc.ResendVerification(ctx, "ALICE@example.com"))
	env.svc.Wait()
	assert.Len(t, env.sender.SendCalls(), 2)

	// Новая ссылка работает
	require.NoError(t, env.svc.VerifyEmail(ctx, env.verificationToken(t)))

	// Подтвержденный и неизвестный адрес: успех без отправки
	require.NoError(t, env.svc.ResendVerification(ctx, "alice@example.com"))
	require.NoError(t, env.svc.ResendVerification(ctx, "nobody@example.com"))
	env.svc.Wait()
	assert.Len(t, env.sender.SendCalls(), 2)

	assert.ErrorIs(t, env.svc.ResendVerification(ctx, "  "), ErrValidation)
}

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	public := env.registerVerified(t, "alice@example.com", "s3cret-pass")

	session, err := env.svc.Login(ctx, " Alice@Example.com", "s3cret-pass")
	require.NoError(t, err)

	id, err := env.codec.Verify(jwt.KindAccess, session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, public.ID, id)

	id, err = env.codec.Verify(jwt.KindRefresh, session.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, public.ID, id)
	assert.Equal(t, env.clock.now.Add(7*24*time.Hour), session.RefreshExpiresAt)

	assert.Equal(t, public.ID, session.User.ID)
	assert.Equal(t, "alice@example.com", session.User.Email)
	require.NotNil(t, session.User.LastLogin)
	assert.True(t, env.clock.now.Equal(*session.User.LastLogin))

	user, err := env.store.GetUserByID(ctx, public.ID)
	require.NoError(t, err)
	assert.Equal(t, crypto.Fingerprint(session.RefreshToken), user.RefreshFingerprint)
	assert.NotEqual(t, session.RefreshToken, user.RefreshFingerprint, "сырой токен не хранится")
	require.NotNil(t, user.LastLogin)
	assert.True(t, env.clock.now.Equal(*user.LastLogin))
}

func TestLogin_Rejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.registerVerified(t, "active@example.com", "s3cret-pass")
	banned := env.registerVerified(t, "banned@example.com", "s3cret-pass")
	require.NoError(t, env.store.SetStatus(ctx, banned.ID, models.StatusBanned))
	inactive := env.registerVerified(t, "inactive@example.com", "s3cret-pass")
	require.NoError(t, env.store.SetStatus(ctx, inactive.ID, models.StatusInactive))
	_, err := env.svc.Register(ctx, "Unverified", "unverified@example.com", "s3cret-pass")
	require.NoError(t, err)

	tests := []struct {
		wantKind error
		name     string
		email    string
		password string
		wantMsg  string
	}{
		{name: "empty email", password: "x", wantKind: ErrValidation, wantMsg: "Email and password are required"},
		{name: "empty password", email: "active@example.com", wantKind: ErrValidation, wantMsg: "Email and password are required"},
		{name: "unknown email", email: "ghost@example.com", password: "s3cret-pass", wantKind: ErrNotFound, wantMsg: "User not found"},
		{name: "banned correct password", email: "banned@example.com", password: "s3cret-pass", wantKind: ErrForbidden, wantMsg: "User account is banned. Please contact support."},
		{name: "banned wrong password", email: "banned@example.com", password: "wrong-pass", wantKind: ErrForbidden, wantMsg: "User account is banned. Please contact support."},
		{name: "inactive", email: "inactive@example.com", password: "s3cret-pass", wantKind: ErrForbidden, wantMsg: "User account is inactive. Please contact support."},
		{name: "unverified correct password", email: "unverified@example.com", password: "s3cret-pass", wantKind: ErrUnauthorized, wantMsg: "Please verify your email first"},
		{name: "unverified wrong password", email: "unverified@example.com", password: "wrong-pass", wantKind: ErrUnauthorized, wantMsg: "Please verify your email first"},
		{name: "wrong password", email: "active@example.com", password: "wrong-pass", wantKind: ErrUnauthorized, wantMsg: "Invalid credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := env.svc.Login(ctx, tt.email, tt.password)
			assert.Nil(t, session)
			require.ErrorIs(t, err, tt.wantKind)
			assert.Equal(t, tt.wantMsg, Message(err))
		})
	}

	user, err := env.store.GetUserByID(ctx, banned.ID)
	require.NoError(t, err)
	assert.Nil(t, user.LastLogin)
	assert.Empty(t, user.RefreshFingerprint)
}

func TestRefreshAccessToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	public := env.registerVerified(t, "alice@example.com", "s3cret-pass")

	session, err := env.svc.Login(ctx, "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	env.clock.Advance(2 * time.Hour)

	accessToken, err := env.svc.RefreshAccessToken(ctx, session.RefreshToken)
	require.NoError(t, err)
	id, err := env.codec.Verify(jwt.KindAccess, accessToken)
	require.NoError(t, err)
	assert.Equal(t, public.ID, id)

	// Refresh не ротируется: тот же токен работает повторно
	_, err = env.svc.RefreshAccessToken(ctx, session.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshAccessToken_Rejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerVerified(t, "alice@example.com", "s3cret-pass")
	env.registerVerified(t, "bob@example.com", "s3cret-pass")

	first, err := env.svc.Login(ctx, "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	env.clock.Advance(time.Second)
	second, err := env.svc.Login(ctx, "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	t.Run("superseded by newer login", func(t *testing.T) {
		_, err := env.svc.RefreshAccessToken(ctx, first.RefreshToken)
		require.ErrorIs(t, err, ErrUnauthorized)
		assert.Equal(t, "Invalid refresh token", Message(err))

		_, err = env.svc.RefreshAccessToken(ctx, second.RefreshToken)
		assert.NoError(t, err)
	})

	t.Run("valid token never recorded", func(t *testing.T) {
		forged, _, err := env.codec.Issue(jwt.KindRefresh, alice.ID)
		require.NoError(t, err)
		_, err = env.svc.RefreshAccessToken(ctx, forged)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("other principal without session", func(t *testing.T) {
		bob, err := env.store.GetUserByEmail(ctx, "bob@example.com")
		require.NoError(t, err)
		bobToken, _, err := env.codec.Issue(jwt.KindRefresh, bob.ID)
		require.NoError(t, err)
		_, err = env.svc.RefreshAccessToken(ctx, bobToken)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("access token as refresh", func(t *testing.T) {
		_, err := env.svc.RefreshAccessToken(ctx, second.AccessToken)
		require.ErrorIs(t, err, ErrUnauthorized)
		assert.Equal(t, "Invalid or expired refresh token", Message(err))
	})

	t.Run("missing token", func(t *testing.T) {
		_, err := env.svc.RefreshAccessToken(ctx, "")
		require.ErrorIs(t, err, ErrUnauthorized)
		assert.Equal(t, "Refresh token not found", Message(err))
	})

	t.Run("unknown principal", func(t *testing.T) {
		ghost, _, err := env.codec.Issue(jwt.KindRefresh, uuid.NewString())
		require.NoError(t, err)
		_, err = env.svc.RefreshAccessToken(ctx, ghost)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("expired", func(t *testing.T) {
		env.clock.Advance(7*24*time.Hour + time.Second)
		_, err := env.svc.RefreshAccessToken(ctx, second.RefreshToken)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	public := env.registerVerified(t, "alice@example.com", "s3cret-pass")

	session, err := env.svc.Login(ctx, "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	require.NoError(t, env.svc.Logout(ctx, session.RefreshToken))

	user, err := env.store.GetUserByID(ctx, public.ID)
	require.NoError(t, err)
	assert.Empty(t, user.RefreshFingerprint)

	_, err = env.svc.RefreshAccessToken(ctx, session.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Повторный выход с тем же токеном безопасен
	assert.NoError(t, env.svc.Logout(ctx, session.RefreshToken))
}

func TestLogout_Rejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.svc.Logout(ctx, "")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "No active session found", Message(err))

	err = env.svc.Logout(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidOrExpired)
	assert.Equal(t, "Invalid session", Message(err))

	ghost, _, err := env.codec.Issue(jwt.KindRefresh, uuid.NewString())
	require.NoError(t, err)
	assert.NoError(t, env.svc.Logout(ctx, ghost), "удаленный пользователь считается уже вышедшим")
}

func TestCurrentUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	public := env.registerVerified(t, "alice@example.com", "s3cret-pass")
	_, err := env.svc.Login(ctx, "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	got, err := env.svc.CurrentUser(ctx, public.ID)
	require.NoError(t, err)
	assert.Equal(t, public.ID, got.ID)
	assert.True(t, got.Verified)

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "$2a$")
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), "fingerprint")

	_, err = env.svc.CurrentUser(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuthorizeAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.registerVerified(t, "user@example.com", "s3cret-pass")
	admin := env.registerVerified(t, "admin@example.com", "s3cret-pass")

	stored, err := env.store.GetUserByID(ctx, admin.ID)
	require.NoError(t, err)
	stored.Role = models.RoleAdmin
	require.NoError(t, env.store.UpdateUser(ctx, stored))

	got, err := env.svc.AuthorizeAdmin(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.Role)

	_, err = env.svc.AuthorizeAdmin(ctx, user.ID)
	require.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, "Access denied. Admin privileges required.", Message(err))

	_, err = env.svc.AuthorizeAdmin(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	public := env.registerVerified(t, "alice@example.com", "s3cret-pass")

	session, err := env.svc.Login(ctx, "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	updated, err := env.svc.SetStatus(ctx, public.ID, models.StatusBanned)
	require.NoError(t, err)
	assert.Equal(t, models.StatusBanned, updated.Status)

	_, err = env.svc.RefreshAccessToken(ctx, session.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized, "блокировка отзывает refresh token")

	_, err = env.svc.Login(ctx, "alice@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.svc.SetStatus(ctx, public.ID, models.StatusActive)
	require.NoError(t, err)
	_, err = env.svc.Login(ctx, "alice@example.com", "s3cret-pass")
	assert.NoError(t, err)

	_, err = env.svc.SetStatus(ctx, public.ID, models.Status("deleted"))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.svc.SetStatus(ctx, uuid.NewString(), models.StatusInactive)
	assert.ErrorIs(t, err, ErrNotFound)
}

func resetCode(t *testing.T, msg mail.Message) string {
	t.Helper()
	m := resetCodeRe.FindStringSubmatch(msg.HTML)
	require.Len(t, m, 2, "код не найден в письме")
	return m[1]
}

func TestPasswordReset(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	public := env.registerVerified(t, "alice@example.com", "old-password")

	session, err := env.svc.Login(ctx, "alice@example.com", "old-password")
	require.NoError(t, err)

	require.NoError(t, env.svc.RequestPasswordReset(ctx, "Alice@example.com"))
	msg := env.lastEmail(t)
	assert.Equal(t, "Your password reset code", msg.Subject)
	code := resetCode(t, msg)

	stored, err := env.store.GetUserByID(ctx, public.ID)
	require.NoError(t, err)
	assert.Equal(t, crypto.Fingerprint(code), stored.ResetCodeHash, "хранится только отпечаток кода")

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	err = env.svc.ResetPassword(ctx, "alice@example.com", wrong, "new-password")
	require.ErrorIs(t, err, ErrInvalidOrExpired)
	assert.Equal(t, "Invalid or expired reset code", Message(err))

	require.NoError(t, env.svc.ResetPassword(ctx, "alice@example.com", code, "new-password"))

	_, err = env.svc.Login(ctx, "alice@example.com", "old-password")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = env.svc.Login(ctx, "alice@example.com", "new-password")
	assert.NoError(t, err)

	_, err = env.svc.RefreshAccessToken(ctx, session.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized, "сброс пароля отзывает старую сессию")

	err = env.svc.ResetPassword(ctx, "alice@example.com", code, "another-password")
	assert.ErrorIs(t, err, ErrInvalidOrExpired, "код одноразовый")
}

func TestPasswordReset_AttemptLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	public := env.registerVerified(t, "alice@example.com", "old-password")

	require.NoError(t, env.svc.RequestPasswordReset(ctx, "alice@example.com"))
	code := resetCode(t, env.lastEmail(t))

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	for i := 0; i < DefaultConfig().ResetMaxAttempts; i++ {
		err := env.svc.ResetPassword(ctx, "alice@example.com", wrong, "new-password")
		require.ErrorIs(t, err, ErrInvalidOrExpired, "попытка %d", i+1)
	}

	stored, err := env.store.GetUserByID(ctx, public.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.ResetCodeHash, "код сброшен после исчерпания попыток")
	assert.Nil(t, stored.ResetExpiresAt)

	err = env.svc.ResetPassword(ctx, "alice@example.com", code, "new-password")
	assert.ErrorIs(t, err, ErrInvalidOrExpired, "верный код больше не принимается")

	_, err = env.svc.Login(ctx, "alice@example.com", "old-password")
	assert.NoError(t, err)

	// новый код снова дает полный набор попыток
	require.NoError(t, env.svc.RequestPasswordReset(ctx, "alice@example.com"))
	code = resetCode(t, env.lastEmail(t))
	wrong = "000000"
	if code == wrong {
		wrong = "111111"
	}
	for i := 0; i < DefaultConfig().ResetMaxAttempts-1; i++ {
		err := env.svc.ResetPassword(ctx, "alice@example.com", wrong, "new-password")
		require.ErrorIs(t, err, ErrInvalidOrExpired)
	}
	require.NoError(t, env.svc.ResetPassword(ctx, "alice@example.com", code, "new-password"))
}

func TestPasswordReset_Expired(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerVerified(t, "alice@example.com", "old-password")

	require.NoError(t, env.svc.RequestPasswordReset(ctx, "alice@example.com"))
	code := resetCode(t, env.lastEmail(t))

	env.clock.Advance(15 * time.Minute)

	err := env.svc.ResetPassword(ctx, "alice@example.com", code, "new-password")
	assert.ErrorIs(t, err, ErrInvalidOrExpired)

	_, err = env.svc.Login(ctx, "alice@example.com", "old-password")
	assert.NoError(t, err)
}

func TestPasswordReset_Rejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerVerified(t, "alice@example.com", "old-password")
	sent := len(env.sender.SendCalls())

	require.NoError(t, env.svc.RequestPasswordReset(ctx, "ghost@example.com"))
	env.svc.Wait()
	assert.Len(t, env.sender.SendCalls(), sent, "неизвестный адрес не получает письмо")

	assert.ErrorIs(t, env.svc.RequestPasswordReset(ctx, ""), ErrValidation)

	err := env.svc.ResetPassword(ctx, "alice@example.com", "", "new-password")
	assert.ErrorIs(t, err, ErrValidation)

	err = env.svc.ResetPassword(ctx, "alice@example.com", "123456", "short")
	assert.ErrorIs(t, err, ErrValidation)

	err = env.svc.ResetPassword(ctx, "alice@example.com", "123456", "new-password")
	assert.ErrorIs(t, err, ErrInvalidOrExpired, "без запроса сброса код не принимается")

	err = env.svc.ResetPassword(ctx, "ghost@example.com", "123456", "new-password")
	assert.ErrorIs(t, err, ErrInvalidOrExpired)
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := internalError(cause)

	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Internal server error", Message(err))
	assert.Equal(t, "Internal server error", Message(errors.New("boom")))
	assert.Equal(t, "Internal server error: disk full", err.Error())
}
