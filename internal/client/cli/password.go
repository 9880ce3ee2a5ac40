package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runForgot(ctx context.Context, args []string) error {
	email, err := c.argOrInput(args, "Email: ")
	if err != nil {
		return err
	}

	msg, err := c.authService.ForgotPassword(ctx, email)
	if err != nil {
		return err
	}

	c.io.Println("✓ " + msg)
	c.io.Println("Run 'blinkauth reset' with the code from the email.")
	return nil
}

func (c *Cli) runReset(ctx context.Context, args []string) error {
	c.io.Println("=== Password Reset ===")
	c.io.Println()

	email, err := c.argOrInput(args, "Email: ")
	if err != nil {
		return err
	}

	code, err := c.io.ReadInput("Reset code: ")
	if err != nil {
		return fmt.Errorf("failed to read code: %w", err)
	}

	password, err := c.getNewPassword("New password (min 6 chars): ")
	if err != nil {
		return err
	}

	msg, err := c.authService.ResetPassword(ctx, email, code, password)
	if err != nil {
		return fmt.Errorf("password reset failed: %w", err)
	}

	c.io.Println()
	c.io.Println("✓ " + msg)
	return nil
}
