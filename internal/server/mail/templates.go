package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Product is the name shown in email footers.
const Product = "BlinkAuth"

const (
	verificationSubject  = "Verify your email"
	passwordResetSubject = "Your password reset code"
)

type verificationData struct {
	Name             string
	VerifyURL        string
	Product          string
	ExpiresInMinutes int
	Year             int
}

type passwordResetData struct {
	Name             string
	Code             string
	Product          string
	ExpiresInMinutes int
	Year             int
}

// VerificationEmail renders the email carrying the verification link.
func VerificationEmail(to, name, verifyURL string, ttl time.Duration, now time.Time) (Message, error) {
	html, err := render("verification.html", verificationData{
		Name:             name,
		VerifyURL:        verifyURL,
		Product:          Product,
		ExpiresInMinutes: int(ttl.Minutes()),
		Year:             now.Year(),
	})
	if err != nil {
		return Message{}, err
	}
	text := fmt.Sprintf("Confirm your %s email address: %s\nThe link will expire in %d minutes.",
		Product, verifyURL, int(ttl.Minutes()))
	return Message{To: to, Subject: verificationSubject, HTML: html, Text: text}, nil
}

// PasswordResetEmail renders the email carrying a one-time reset code.
func PasswordResetEmail(to, name, code string, ttl time.Duration, now time.Time) (Message, error) {
	html, err := render("password_reset.html", passwordResetData{
		Name:             name,
		Code:             code,
		Product:          Product,
		ExpiresInMinutes: int(ttl.Minutes()),
		Year:             now.Year(),
	})
	if err != nil {
		return Message{}, err
	}
	text := fmt.Sprintf("Your %s password reset code: %s\nThe code will expire in %d minutes.",
		Product, code, int(ttl.Minutes()))
	return Message{To: to, Subject: passwordResetSubject, HTML: html, Text: text}, nil
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}
