package core

import (
	"context"
	"fmt"
	"strings"

	"wabot/internal/command"
)

// Help lists loaded commands by category, or shows one command's usage.
func Help() *command.Definition {
	return &command.Definition{
		Name:        "help",
		Aliases:     []string{"h", "menu"},
		Description: "List commands, or show help for one command",
		Usage:       "[command]",
		MinArgs:     0,
		MaxArgs:     1,
		Handler:     runHelp,
	}
}

func runHelp(_ context.Context, req *command.Request) error {
	reg := req.Env.Registry
	prefix := req.Env.Config.Prefix

	if len(req.Args) == 1 {
		def, ok := reg.Resolve(strings.ToLower(req.Args[0]))
		if !ok {
			return req.Reply(fmt.Sprintf("No such command: %s", req.Args[0]))
		}
		var b strings.Builder
		fmt.Fprintf(&b, "*%s%s*", prefix, def.Name)
		if def.Usage != "" {
			fmt.Fprintf(&b, " %s", def.Usage)
		}
		if def.Description != "" {
			fmt.Fprintf(&b, "\n%s", def.Description)
		}
		if len(def.Aliases) > 0 {
			fmt.Fprintf(&b, "\nAliases: %s", strings.Join(def.Aliases, ", "))
		}
		if def.Cooldown > 0 {
			fmt.Fprintf(&b, "\nCooldown: %s", def.Cooldown)
		}
		return req.Reply(b.String())
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Commands (%d):\n", reg.Count())
	for _, cat := range reg.Categories() {
		fmt.Fprintf(&b, "\n*%s*\n", cat)
		for _, def := range reg.ByCategory(cat) {
			fmt.Fprintf(&b, "  %s%s — %s\n", prefix, def.Name, def.Description)
		}
	}
	return req.Reply(b.String())
}
