// Package owner holds commands restricted to the global owner: delegated
// admin management, targeted hot reload, runtime mode switching, and user
// moderation.
package owner

import (
	"context"
	"fmt"
	"strings"

	"wabot/internal/command"
)

// Sudo manages the delegated-admin list at runtime.
func Sudo() *command.Definition {
	return &command.Definition{
		Name:        "sudo",
		Description: "Manage delegated admins",
		Usage:       "add <user> | remove <user> | list",
		MinArgs:     1,
		MaxArgs:     2,
		OwnerOnly:   true,
		Handler:     runSudo,
	}
}

func runSudo(_ context.Context, req *command.Request) error {
	policy := req.Env.Policy
	switch req.Args[0] {
	case "add":
		if len(req.Args) != 2 {
			return req.Reply("Usage: sudo add <user>")
		}
		if err := policy.AddSudoer(req.Args[1]); err != nil {
			return fmt.Errorf("failed to add sudoer: %w", err)
		}
		return req.Reply("Added.")
	case "remove":
		if len(req.Args) != 2 {
			return req.Reply("Usage: sudo remove <user>")
		}
		if err := policy.RemoveSudoer(req.Args[1]); err != nil {
			return fmt.Errorf("failed to remove sudoer: %w", err)
		}
		return req.Reply("Removed.")
	case "list":
		sudoers, err := policy.Sudoers()
		if err != nil {
			return fmt.Errorf("failed to read sudo list: %w", err)
		}
		if len(sudoers) == 0 {
			return req.Reply("No delegated admins.")
		}
		return req.Reply("Delegated admins:\n  " + strings.Join(sudoers, "\n  "))
	default:
		return req.Reply("Usage: sudo add <user> | remove <user> | list")
	}
}
