package admin

import (
	"context"
	"fmt"
	"strings"

	"wabot/internal/auth"
	"wabot/internal/command"
	"wabot/internal/identity"
)

// Roster lists the group's participants with their resolved identities and
// role tiers. Gated by capability rather than the admin flag so delegated
// admins and owners can use it too.
func Roster() *command.Definition {
	return &command.Definition{
		Name:         "roster",
		Aliases:      []string{"members"},
		Description:  "List group members and their roles",
		MinArgs:      0,
		MaxArgs:      0,
		GroupOnly:    true,
		Capabilities: []auth.Capability{auth.CapGroupAdmin, auth.CapSudo, auth.CapOwner},
		Handler:      runRoster,
	}
}

func runRoster(ctx context.Context, req *command.Request) error {
	if req.Env.Roster == nil {
		return req.Reply("No roster available for this chat.")
	}
	participants, err := req.Env.Roster.GroupRoster(ctx, req.Chat)
	if err != nil {
		return fmt.Errorf("roster lookup failed: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Members (%d):\n", len(participants))
	for _, p := range participants {
		fmt.Fprintf(&b, "  %s (%s)\n", identity.Normalize(p.ID, participants), p.Role)
	}
	return req.Reply(b.String())
}
