package owner

import (
	"context"
	"fmt"
	"strings"

	"wabot/internal/command"
)

// Reload swaps a single command's definition from its source without touching
// the rest of the registry.
func Reload() *command.Definition {
	return &command.Definition{
		Name:        "reload",
		Description: "Hot-reload one command",
		Usage:       "<command>",
		MinArgs:     1,
		MaxArgs:     1,
		OwnerOnly:   true,
		Handler:     runReload,
	}
}

func runReload(_ context.Context, req *command.Request) error {
	name := strings.ToLower(req.Args[0])
	if err := req.Env.Registry.ReloadOne(req.Env.Source, name); err != nil {
		return req.Reply(fmt.Sprintf("Reload failed: %v", err))
	}
	return req.Reply(fmt.Sprintf("Reloaded %s.", name))
}
