// Package api is the HTTP client of the BlinkAuth server used by the CLI.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/iudanet/blinkauth/pkg/api"
)

// RefreshCookieName is the cookie the server keeps the refresh token in
const RefreshCookieName = "refreshToken"

// ErrNoRefreshCookie is returned when login succeeded but no refresh cookie came back
var ErrNoRefreshCookie = errors.New("server did not set refresh token cookie")

// Error is a non-2xx response of the server
type Error struct {
	Message    string
	StatusCode int
}

func (e *Error) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is a server error with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// LoginResult is a successful login: the body plus the refresh cookie.
type LoginResult struct {
	RefreshExpiresAt time.Time
	RefreshToken     string
	Data             api.LoginData
}

// Register регистрирует нового пользователя и возвращает сообщение сервера
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/register", req, nil)
	if err != nil {
		return "", fmt.Errorf("register request failed: %w", err)
	}
	return resp.message, nil
}

// VerifyEmail подтверждает email токеном из письма
func (c *Client) VerifyEmail(ctx context.Context, token string) (string, error) {
	path := "/api/v1/auth/verify-email?" + url.Values{"token": {token}}.Encode()
	resp, err := c.doRequest(ctx, http.MethodPost, path, nil, nil)
	if err != nil {
		return "", fmt.Errorf("verify email request failed: %w", err)
	}
	return resp.message, nil
}

// ResendVerification запрашивает повторное письмо подтверждения
func (c *Client) ResendVerification(ctx context.Context, email string) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/resend-verification",
		api.EmailRequest{Email: email}, nil)
	if err != nil {
		return "", fmt.Errorf("resend verification request failed: %w", err)
	}
	return resp.message, nil
}

// Login выполняет аутентификацию пользователя
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*LoginResult, error) {
	var data api.LoginData
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/login", req, &data)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}

	cookie := findCookie(resp.cookies, RefreshCookieName)
	if cookie == nil || cookie.Value == "" {
		return nil, ErrNoRefreshCookie
	}

	return &LoginResult{
		Data:             data,
		RefreshToken:     cookie.Value,
		RefreshExpiresAt: cookieExpiry(cookie),
	}, nil
}

// Logout завершает сессию на сервере
func (c *Client) Logout(ctx context.Context, accessToken, refreshToken string) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil,
		withBearer(accessToken), withRefreshCookie(refreshToken))
	if err != nil {
		return "", fmt.Errorf("logout request failed: %w", err)
	}
	return resp.message, nil
}

// Refresh получает новый access token по refresh cookie
func (c *Client) Refresh(ctx context.Context, refreshToken string) (string, error) {
	var data api.TokenData
	_, err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/refresh", nil, &data,
		withRefreshCookie(refreshToken))
	if err != nil {
		return "", fmt.Errorf("refresh request failed: %w", err)
	}
	return data.AccessToken, nil
}

// Me возвращает текущего пользователя
func (c *Client) Me(ctx context.Context, accessToken string) (*api.User, error) {
	var data api.UserData
	_, err := c.doRequest(ctx, http.MethodGet, "/api/v1/auth/me", nil, &data, withBearer(accessToken))
	if err != nil {
		return nil, fmt.Errorf("me request failed: %w", err)
	}
	return &data.User, nil
}

// ForgotPassword запрашивает код сброса пароля
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/password/forgot",
		api.EmailRequest{Email: email}, nil)
	if err != nil {
		return "", fmt.Errorf("forgot password request failed: %w", err)
	}
	return resp.message, nil
}

// ResetPassword устанавливает новый пароль по коду из письма
func (c *Client) ResetPassword(ctx context.Context, req api.ResetPasswordRequest) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/password/reset", req, nil)
	if err != nil {
		return "", fmt.Errorf("reset password request failed: %w", err)
	}
	return resp.message, nil
}

// Health возвращает состояние сервера
func (c *Client) Health(ctx context.Context) (*api.HealthData, error) {
	var data api.HealthData
	if _, err := c.doRequest(ctx, http.MethodGet, "/api/v1/health", nil, &data); err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	return &data, nil
}

type response struct {
	message string
	cookies []*http.Cookie
}

type requestOption func(*http.Request)

func withBearer(token string) requestOption {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

func withRefreshCookie(token string) requestOption {
	return func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: token})
	}
}

// doRequest выполняет HTTP запрос и разбирает конверт ответа
// data заполняется из поля data конверта, может быть nil
func (c *Client) doRequest(ctx context.Context, method, path string, body, data any, opts ...requestOption) (*response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	env := api.Envelope{Data: data}
	decodeErr := json.Unmarshal(respBody, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := env.Message
		if decodeErr != nil || message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return nil, &Error{StatusCode: resp.StatusCode, Message: message}
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("failed to decode response: %w", decodeErr)
	}

	return &response{
		message: env.Message,
		cookies: resp.Cookies(),
	}, nil
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// cookieExpiry возвращает срок жизни cookie, Max-Age важнее Expires
func cookieExpiry(c *http.Cookie) time.Time {
	if c.MaxAge > 0 {
		return time.Now().Add(time.Duration(c.MaxAge) * time.Second)
	}
	return c.Expires
}
