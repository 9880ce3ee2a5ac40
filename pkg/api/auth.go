// Package api содержит DTO HTTP API, общие для сервера и клиента
package api

import "time"

// Envelope is the body of every response.
// On decode, set Data to a pointer to fill it in place.
type Envelope struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
	Error   bool   `json:"error"`
	Success bool   `json:"success"`
}

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginUser is the principal summary returned by login
type LoginUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatarUrl"`
}

// LoginData is the data of a successful login. The refresh token is sent
// only as an HTTP-only cookie.
type LoginData struct {
	AccessToken string    `json:"accessToken"`
	User        LoginUser `json:"user"`
}

// TokenData carries a freshly issued access token
type TokenData struct {
	AccessToken string `json:"accessToken"`
}

// User is the public view of a principal
type User struct {
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	AvatarURL string     `json:"avatarUrl"`
	Mobile    string     `json:"mobile"`
	Status    string     `json:"status"`
	Role      string     `json:"role"`
	Verified  bool       `json:"verified"`
}

// UserData wraps a single user
type UserData struct {
	User User `json:"user"`
}

// EmailRequest is used by resend-verification and password/forgot
type EmailRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest completes a password reset
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

// StatusRequest changes account status
type StatusRequest struct {
	Status string `json:"status"`
}

// HealthData представляет ответ health check
type HealthData struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Storage string `json:"storage"`
}
