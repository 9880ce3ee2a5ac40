package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runLogin(ctx context.Context, args []string) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	email, err := c.argOrInput(args, "Email: ")
	if err != nil {
		return err
	}

	password, _, err := c.getPassword("Password: ")
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("Authenticating...")

	session, err := c.authService.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	c.io.Println()
	c.io.Println("✓ Login successful!")
	c.io.Printf("User: %s <%s>\n", session.Name, session.Email)
	c.io.Printf("Role: %s\n", session.Role)
	c.io.Println()
	c.io.Println("Your session has been saved.")

	return nil
}

func (c *Cli) runLogout(ctx context.Context) error {
	c.io.Println("=== Logout ===")

	msg, err := c.authService.Logout(ctx)
	if err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	c.io.Println("✓ " + msg)
	c.io.Println("Your local session has been deleted.")

	return nil
}

func (c *Cli) runRefresh(ctx context.Context) error {
	if err := c.authService.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	c.io.Println("✓ Access token refreshed")
	return nil
}
