package owner

import (
	"context"
	"fmt"
	"strings"

	"wabot/internal/command"
	"wabot/internal/identity"
)

// Ban blocks a user from the bot entirely.
func Ban() *command.Definition {
	return &command.Definition{
		Name:        "ban",
		Description: "Ban a user from the bot",
		Usage:       "<user> [reason]",
		MinArgs:     1,
		MaxArgs:     command.NoLimit,
		OwnerOnly:   true,
		Handler:     runBan,
	}
}

func runBan(_ context.Context, req *command.Request) error {
	id := identity.Normalize(req.Args[0], nil)
	reason := strings.Join(req.Args[1:], " ")
	if err := req.Env.Store.Ban(id, reason); err != nil {
		return fmt.Errorf("failed to ban %s: %w", id, err)
	}
	return req.Reply(fmt.Sprintf("Banned %s.", id))
}

// Unban lifts a ban.
func Unban() *command.Definition {
	return &command.Definition{
		Name:        "unban",
		Description: "Lift a user's ban",
		Usage:       "<user>",
		MinArgs:     1,
		MaxArgs:     1,
		OwnerOnly:   true,
		Handler:     runUnban,
	}
}

func runUnban(_ context.Context, req *command.Request) error {
	id := identity.Normalize(req.Args[0], nil)
	if err := req.Env.Store.Unban(id); err != nil {
		return fmt.Errorf("failed to unban %s: %w", id, err)
	}
	return req.Reply(fmt.Sprintf("Unbanned %s.", id))
}

// Premium grants or revokes premium status.
func Premium() *command.Definition {
	return &command.Definition{
		Name:        "premium",
		Description: "Grant or revoke premium status",
		Usage:       "on|off <user>",
		MinArgs:     2,
		MaxArgs:     2,
		OwnerOnly:   true,
		Handler:     runPremium,
	}
}

func runPremium(_ context.Context, req *command.Request) error {
	var grant bool
	switch req.Args[0] {
	case "on":
		grant = true
	case "off":
		grant = false
	default:
		return req.Reply("Usage: premium on|off <user>")
	}
	id := identity.Normalize(req.Args[1], nil)
	if err := req.Env.Store.SetPremium(id, grant); err != nil {
		return fmt.Errorf("failed to update premium for %s: %w", id, err)
	}
	return req.Reply(fmt.Sprintf("Premium for %s: %v.", id, grant))
}
