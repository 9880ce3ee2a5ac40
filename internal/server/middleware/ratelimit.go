package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/iudanet/blinkauth/internal/server/handlers"
	"github.com/iudanet/blinkauth/internal/server/ratelimit"
)

// RateLimitMiddleware создает middleware для ограничения частоты запросов по IP
// Ошибка лимитера не блокирует запрос (fail open), только логируется
// Заголовки прокси учитываются только при trustProxy, иначе ключом служит RemoteAddr
func RateLimitMiddleware(logger *slog.Logger, limiter ratelimit.Limiter, trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := getClientIP(r, trustProxy)

			allowed, err := limiter.Allow(ctx, key)
			if err != nil {
				logger.WarnContext(ctx, "Rate limiter unavailable, request allowed",
					slog.String("ip", key),
					slog.Any("error", err),
				)
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				logger.WarnContext(ctx, "Rate limit exceeded",
					slog.String("ip", key),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				handlers.WriteError(w, logger, http.StatusTooManyRequests,
					"Too many requests, please try again later")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP извлекает IP адрес клиента из запроса
// X-Forwarded-For и X-Real-IP читаются только за доверенным прокси
func getClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		// Берем первый IP из списка (реальный клиент)
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}

		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
