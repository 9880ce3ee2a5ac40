// Package cli реализует команды клиента BlinkAuth
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/iudanet/blinkauth/internal/client/auth"
	"github.com/iudanet/blinkauth/internal/client/iocli"
)

// PasswordEnv is read before any other password source
const PasswordEnv = "BLINKAUTH_PASSWORD"

// ErrUnknownCommand is returned by Run for a command it does not know
var ErrUnknownCommand = errors.New("unknown command")

// Passwords are the non-interactive password sources.
type Passwords struct {
	FromFile string
	FromArgs string
}

// Cli runs one command against the session service.
type Cli struct {
	authService auth.Service
	io          iocli.IO
	lookupEnv   func(string) (string, bool)
	passwords   Passwords
}

// New creates the CLI.
func New(authService auth.Service, io iocli.IO, passwords Passwords) *Cli {
	return &Cli{
		authService: authService,
		io:          io,
		lookupEnv:   os.LookupEnv,
		passwords:   passwords,
	}
}

// getPassword retrieves the password with priority:
// 1. Environment variable BLINKAUTH_PASSWORD
// 2. File from --password-file
// 3. Command-line parameter --password
// 4. Interactive prompt (fallback)
// interactive is true when the password was typed at the prompt.
func (c *Cli) getPassword(prompt string) (password string, interactive bool, err error) {
	if envPassword, ok := c.lookupEnv(PasswordEnv); ok && envPassword != "" {
		return envPassword, false, nil
	}

	if c.passwords.FromFile != "" {
		content, err := os.ReadFile(c.passwords.FromFile)
		if err != nil {
			return "", false, fmt.Errorf("failed to read password file: %w", err)
		}
		// Убираем trailing newline/whitespace
		password := strings.TrimSpace(string(content))
		if password == "" {
			return "", false, fmt.Errorf("password file is empty")
		}
		return password, false, nil
	}

	if c.passwords.FromArgs != "" {
		return c.passwords.FromArgs, false, nil
	}

	password, err = c.io.ReadPassword(prompt)
	if err != nil {
		return "", false, fmt.Errorf("failed to read password: %w", err)
	}
	if password == "" {
		return "", false, fmt.Errorf("password cannot be empty")
	}
	return password, true, nil
}

// getNewPassword asks for confirmation when the password is typed interactively
func (c *Cli) getNewPassword(prompt string) (string, error) {
	password, interactive, err := c.getPassword(prompt)
	if err != nil || !interactive {
		return password, err
	}

	confirm, err := c.io.ReadPassword("Confirm password: ")
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}
	if password != confirm {
		return "", fmt.Errorf("passwords do not match")
	}
	return password, nil
}

// argOrInput returns args[0] or asks for the value
func (c *Cli) argOrInput(args []string, prompt string) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return strings.TrimSpace(args[0]), nil
	}

	value, err := c.io.ReadInput(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	if value == "" {
		return "", fmt.Errorf("%s cannot be empty", strings.ToLower(strings.TrimSuffix(prompt, ": ")))
	}
	return value, nil
}

// PrintUsage prints the help text
func PrintUsage(out iocli.IO) {
	out.Println("BlinkAuth Client")
	out.Println()
	out.Println("Usage:")
	out.Println("  blinkauth [OPTIONS] COMMAND [ARGS]")
	out.Println()
	out.Println("Options:")
	out.Println("  --version              Show version information")
	out.Println("  --server URL           Server URL (default: http://localhost:8080)")
	out.Println("  --db PATH              Path to local session database (default: blinkauth-client.db)")
	out.Println("  --password PASSWORD    Password (not recommended, use env var or file)")
	out.Println("  --password-file PATH   Path to file containing the password")
	out.Println("  --verbose              Log debug messages to stderr")
	out.Println()
	out.Println("Password Priority (highest to lowest):")
	out.Println("  1. BLINKAUTH_PASSWORD environment variable")
	out.Println("  2. --password-file (file path)")
	out.Println("  3. --password (command line)")
	out.Println("  4. Interactive prompt (fallback)")
	out.Println()
	out.Println("Commands:")
	out.Println("  register                Create a new account")
	out.Println("  verify [TOKEN]          Verify email with the token from the email")
	out.Println("  resend [EMAIL]          Send the verification email again")
	out.Println("  login [EMAIL]           Login and save the session locally")
	out.Println("  logout                  Logout and delete the local session")
	out.Println("  refresh                 Get a new access token")
	out.Println("  whoami                  Show the current user from the server")
	out.Println("  status                  Show the local session status")
	out.Println("  forgot [EMAIL]          Request a password reset code")
	out.Println("  reset [EMAIL]           Set a new password with the reset code")
	out.Println("  help                    Show this help")
	out.Println()
	out.Println("Examples:")
	out.Println("  blinkauth register")
	out.Println("  blinkauth verify eyJhbGciOiJIUzI1NiIs...")
	out.Println("  blinkauth login alice@example.com")
	out.Println("  BLINKAUTH_PASSWORD='secret1' blinkauth login alice@example.com")
	out.Println("  blinkauth --server https://auth.example.com whoami")
}
