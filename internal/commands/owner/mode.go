package owner

import (
	"context"
	"fmt"

	"wabot/internal/command"
)

// Mode shows or switches the runtime operating mode.
func Mode() *command.Definition {
	return &command.Definition{
		Name:        "mode",
		Description: "Show or set the operating mode",
		Usage:       "[public|private|self]",
		MinArgs:     0,
		MaxArgs:     1,
		OwnerOnly:   true,
		Handler:     runMode,
	}
}

func runMode(_ context.Context, req *command.Request) error {
	if len(req.Args) == 0 {
		return req.Reply(fmt.Sprintf("Current mode: %s", req.Env.Mode.Mode()))
	}
	if err := req.Env.Mode.SetMode(req.Args[0]); err != nil {
		return req.Reply(fmt.Sprintf("Cannot switch mode: %v", err))
	}
	return req.Reply(fmt.Sprintf("Mode set to %s.", req.Args[0]))
}
