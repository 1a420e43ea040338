package core

import (
	"context"
	"time"

	"wabot/internal/command"
)

// Ping is the liveness check.
func Ping() *command.Definition {
	return &command.Definition{
		Name:        "ping",
		Aliases:     []string{"p"},
		Description: "Check that the bot is alive",
		MinArgs:     0,
		MaxArgs:     0,
		Cooldown:    3 * time.Second,
		Handler:     runPing,
	}
}

func runPing(_ context.Context, req *command.Request) error {
	return req.Reply("pong 🏓")
}
