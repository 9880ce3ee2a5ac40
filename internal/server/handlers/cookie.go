package handlers

import (
	"net/http"
	"time"
)

// CookieConfig describes the HTTP-only cookie holding the refresh token.
type CookieConfig struct {
	Name     string
	Path     string
	Domain   string
	MaxAge   time.Duration
	SameSite http.SameSite
	Secure   bool
}

// DefaultCookieConfig returns the refresh cookie settings; Secure should be
// enabled in production.
func DefaultCookieConfig() CookieConfig {
	return CookieConfig{
		Name:     "refreshToken",
		Path:     "/api/v1/auth",
		MaxAge:   7 * 24 * time.Hour,
		SameSite: http.SameSiteStrictMode,
	}
}

// Set writes the refresh token cookie. It is never readable by page scripts.
func (c CookieConfig) Set(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     c.Path,
		Domain:   c.Domain,
		Expires:  expiresAt.UTC(),
		MaxAge:   int(c.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
}

// Clear expires the refresh token cookie.
func (c CookieConfig) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     c.Path,
		Domain:   c.Domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
}

// Read returns the refresh token sent by the client, or "".
func (c CookieConfig) Read(r *http.Request) string {
	cookie, err := r.Cookie(c.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
