package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runRegister(ctx context.Context) error {
	c.io.Println("=== Registration ===")
	c.io.Println()

	name, err := c.io.ReadInput("Name: ")
	if err != nil {
		return fmt.Errorf("failed to read name: %w", err)
	}

	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	password, err := c.getNewPassword("Password (min 6 chars): ")
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("Registering user...")

	msg, err := c.authService.Register(ctx, name, email, password)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ " + msg)
	c.io.Println("Run 'blinkauth verify TOKEN' with the token from the email, then 'blinkauth login'.")

	return nil
}

func (c *Cli) runVerify(ctx context.Context, args []string) error {
	token, err := c.argOrInput(args, "Token: ")
	if err != nil {
		return err
	}

	msg, err := c.authService.VerifyEmail(ctx, token)
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	c.io.Println("✓ " + msg)
	return nil
}

func (c *Cli) runResend(ctx context.Context, args []string) error {
	email, err := c.argOrInput(args, "Email: ")
	if err != nil {
		return err
	}

	msg, err := c.authService.ResendVerification(ctx, email)
	if err != nil {
		return err
	}

	c.io.Println("✓ " + msg)
	return nil
}
