package cli

import (
	"context"
	"fmt"
)

// Run выполняет команду
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return c.runRegister(ctx)
	case "verify":
		return c.runVerify(ctx, args)
	case "resend":
		return c.runResend(ctx, args)
	case "login":
		return c.runLogin(ctx, args)
	case "logout":
		return c.runLogout(ctx)
	case "refresh":
		return c.runRefresh(ctx)
	case "whoami":
		return c.runWhoami(ctx)
	case "status":
		return c.runStatus(ctx)
	case "forgot":
		return c.runForgot(ctx, args)
	case "reset":
		return c.runReset(ctx, args)
	case "help":
		PrintUsage(c.io)
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}
}
