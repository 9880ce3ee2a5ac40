package cli

import (
	"context"
	"errors"
	"fmt"
	"text/template"
	"time"

	"github.com/iudanet/blinkauth/internal/client/auth"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Authentication Status ===")
	c.io.Println()

	session, err := c.authService.Session(ctx)
	if err != nil {
		if errors.Is(err, auth.ErrNotAuthenticated) {
			c.io.Println("Status: Not authenticated")
			c.io.Println()
			c.io.Println("Run 'blinkauth login' to authenticate.")
			return nil
		}
		return fmt.Errorf("failed to get session: %w", err)
	}

	isAuth, err := c.authService.IsAuthenticated(ctx)
	if err != nil {
		return fmt.Errorf("failed to check authentication: %w", err)
	}

	c.io.Println("Status: Authenticated")
	c.io.Printf("User: %s <%s>\n", session.Name, session.Email)
	c.io.Printf("Role: %s\n", session.Role)

	if session.ExpiresAt != 0 {
		expiresAt := time.Unix(session.ExpiresAt, 0)
		c.io.Printf("Session expires: %s\n", expiresAt.Format(time.RFC3339))
	}

	if !isAuth {
		c.io.Println("⚠️  Session has expired. Please login again.")
	}

	return nil
}

var userDetails = template.Must(template.New("user").Parse(userTemplate))

func (c *Cli) runWhoami(ctx context.Context) error {
	user, err := c.authService.CurrentUser(ctx)
	if err != nil {
		return err
	}

	if err := userDetails.Execute(c.io, user); err != nil {
		return fmt.Errorf("failed to render user: %w", err)
	}
	return nil
}
