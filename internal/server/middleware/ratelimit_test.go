package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iudanet/blinkauth/internal/server/ratelimit"
)

// failingLimiter имитирует недоступный бэкенд
type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, error) {
	return false, errors.New("connection refused")
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := ratelimit.NewMemory(2, time.Minute)
	defer limiter.Stop()

	handler := RateLimitMiddleware(setupTestLogger(), limiter, false)(okHandler())

	send := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1000").Code)
	// другой порт того же IP расходует тот же бакет
	assert.Equal(t, http.StatusOK, send("10.0.0.1:2000").Code)

	w := send("10.0.0.1:3000")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	env := decodeEnvelope(t, w.Body)
	assert.True(t, env.Error)
	assert.Equal(t, "Too many requests, please try again later", env.Message)

	assert.Equal(t, http.StatusOK, send("10.0.0.2:1000").Code)
}

func TestRateLimitMiddleware_FailOpen(t *testing.T) {
	handler := RateLimitMiddleware(setupTestLogger(), failingLimiter{}, false)(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitMiddleware_ForwardedHeaders(t *testing.T) {
	send := func(handler http.Handler, i int) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/password/reset", nil)
		req.RemoteAddr = "10.0.0.1:4000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))
		req.Header.Set("X-Real-IP", fmt.Sprintf("203.0.113.%d", i))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	t.Run("untrusted headers are ignored", func(t *testing.T) {
		limiter := ratelimit.NewMemory(3, time.Minute)
		defer limiter.Stop()
		handler := RateLimitMiddleware(setupTestLogger(), limiter, false)(okHandler())

		limited := 0
		for i := range 50 {
			if send(handler, i) == http.StatusTooManyRequests {
				limited++
			}
		}
		// смена заголовков не дает новый бакет
		assert.Equal(t, 47, limited)
	})

	t.Run("trusted proxy", func(t *testing.T) {
		limiter := ratelimit.NewMemory(3, time.Minute)
		defer limiter.Stop()
		handler := RateLimitMiddleware(setupTestLogger(), limiter, true)(okHandler())

		for i := range 10 {
			assert.Equal(t, http.StatusOK, send(handler, i))
		}
	})
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		headers    map[string]string
		name       string
		remoteAddr string
		expected   string
		trustProxy bool
	}{
		{name: "RemoteAddr with port", remoteAddr: "192.168.1.1:12345", expected: "192.168.1.1"},
		{name: "RemoteAddr without port", remoteAddr: "192.168.1.1", expected: "192.168.1.1"},
		{name: "IPv6 RemoteAddr", remoteAddr: "[::1]:8080", expected: "::1"},
		{
			name:       "X-Forwarded-For single",
			remoteAddr: "10.0.0.1:1",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.1"},
			expected:   "203.0.113.1",
			trustProxy: true,
		},
		{
			name:       "X-Forwarded-For without trusted proxy",
			remoteAddr: "10.0.0.1:1",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.1"},
			expected:   "10.0.0.1",
		},
		{
			name:       "X-Real-IP without trusted proxy",
			remoteAddr: "10.0.0.1:1",
			headers:    map[string]string{"X-Real-IP": "203.0.113.9"},
			expected:   "10.0.0.1",
		},
		{
			name:       "empty X-Forwarded-For entry falls back",
			remoteAddr: "10.0.0.1:1",
			headers:    map[string]string{"X-Forwarded-For": " , 198.51.100.1"},
			expected:   "10.0.0.1",
			trustProxy: true,
		},
		{
			name:       "X-Forwarded-For chain",
			remoteAddr: "10.0.0.1:1",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.1, 198.51.100.1"},
			expected:   "203.0.113.1",
			trustProxy: true,
		},
		{
			name:       "X-Real-IP",
			remoteAddr: "10.0.0.1:1",
			headers:    map[string]string{"X-Real-IP": "203.0.113.9"},
			expected:   "203.0.113.9",
			trustProxy: true,
		},
		{
			name:       "X-Forwarded-For wins over X-Real-IP",
			remoteAddr: "10.0.0.1:1",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.1", "X-Real-IP": "203.0.113.9"},
			expected:   "203.0.113.1",
			trustProxy: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.expected, getClientIP(req, tt.trustProxy))
		})
	}
}
