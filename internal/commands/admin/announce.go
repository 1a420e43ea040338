// Package admin holds group-administration commands.
package admin

import (
	"context"
	"strings"

	"wabot/internal/command"
)

// Announce broadcasts a message to the group. It needs the invoker to be a
// group admin and the bot itself to hold admin rights, since announcements are
// sent with elevated visibility.
func Announce() *command.Definition {
	return &command.Definition{
		Name:            "announce",
		Aliases:         []string{"bc"},
		Description:     "Broadcast an announcement to the group",
		Usage:           "<text>",
		MinArgs:         1,
		MaxArgs:         command.NoLimit,
		AdminOnly:       true,
		GroupOnly:       true,
		RequireBotAdmin: true,
		Handler:         runAnnounce,
	}
}

func runAnnounce(_ context.Context, req *command.Request) error {
	return req.Reply("📢 " + strings.Join(req.Args, " "))
}
