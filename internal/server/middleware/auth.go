package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/blinkauth/internal/models"
	"github.com/iudanet/blinkauth/internal/server/handlers"
	"github.com/iudanet/blinkauth/internal/server/jwt"
)

const bearerPrefix = "Bearer "

// TokenVerifier проверяет подпись и срок действия токена
type TokenVerifier interface {
	Verify(kind jwt.Kind, token string) (string, error)
}

// AdminAuthorizer loads the principal and checks that it is an admin.
type AdminAuthorizer interface {
	AuthorizeAdmin(ctx context.Context, userID string) (*models.User, error)
}

// AuthMiddleware создает middleware для проверки access токена
// Ожидает заголовок "Authorization: Bearer <token>" и кладет user_id в контекст
func AuthMiddleware(logger *slog.Logger, verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok || token == "" {
				logger.WarnContext(ctx, "Missing or malformed Authorization header",
					slog.String("path", r.URL.Path))
				handlers.WriteError(w, logger, http.StatusUnauthorized, "Access token is required")
				return
			}

			userID, err := verifier.Verify(jwt.KindAccess, token)
			if err != nil {
				logger.WarnContext(ctx, "Access token rejected", slog.Any("error", err))
				if errors.Is(err, jwt.ErrExpired) {
					handlers.WriteError(w, logger, http.StatusUnauthorized, "Access token expired")
					return
				}
				handlers.WriteError(w, logger, http.StatusUnauthorized, "Invalid access token")
				return
			}

			logger.DebugContext(ctx, "User authenticated", slog.String("user_id", userID))

			next.ServeHTTP(w, r.WithContext(handlers.WithUserID(ctx, userID)))
		})
	}
}

// RequireAdmin пропускает только администраторов
// Должен стоять после AuthMiddleware
func RequireAdmin(logger *slog.Logger, authorizer AdminAuthorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := handlers.GetUserID(r.Context())
			if !ok {
				handlers.WriteError(w, logger, http.StatusUnauthorized, "Access token is required")
				return
			}

			if _, err := authorizer.AuthorizeAdmin(r.Context(), userID); err != nil {
				handlers.WriteServiceError(w, r, logger, "authorize admin", err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
