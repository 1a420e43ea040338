package dispatch

import (
	"fmt"
	"strings"
	"time"

	"wabot/pkg/util"
)

// User-facing rejection and error texts. Expected rejections each get their
// own message; handler faults always collapse into the generic one so no
// internal error text leaks into the chat.
const (
	replyBanned        = "You are banned from using this bot."
	replyGroupOnly     = "This command only works in groups."
	replyPrivateOnly   = "This command only works in private chat."
	replyOwnerOnly     = "Only the bot owner can use this command."
	replyAdminOnly     = "You need to be a group admin to use this command."
	replyBotAdminOnly  = "I need to be a group admin to do that."
	replyAccessDenied  = "You don't have permission to use this command."
	replyGenericError  = "Something went wrong running that command. Try again later."
	replyUnknownPrefix = "Unknown command."
)

func replyBanReason(reason string) string {
	if reason == "" {
		return replyBanned
	}
	return fmt.Sprintf("%s Reason: %s", replyBanned, reason)
}

func replyCooldown(d time.Duration) string {
	return fmt.Sprintf("Easy there. Try again in %s.", util.HumanDuration(d))
}

func replyRateLimited(d time.Duration) string {
	return fmt.Sprintf("You've hit the command limit. Try again in %s.", util.HumanDuration(d))
}

func replySpam(d time.Duration) string {
	return fmt.Sprintf("Slow down. Wait %s.", util.HumanDuration(d))
}

func replyUnknown(prefix string, suggestions []string) string {
	if len(suggestions) == 0 {
		return replyUnknownPrefix
	}
	for i, s := range suggestions {
		suggestions[i] = prefix + s
	}
	return fmt.Sprintf("%s Did you mean: %s?", replyUnknownPrefix, strings.Join(suggestions, ", "))
}

func replyUsage(prefix, name, usage string) string {
	if usage == "" {
		return fmt.Sprintf("Wrong number of arguments for %s%s.", prefix, name)
	}
	return fmt.Sprintf("Usage: %s%s %s", prefix, name, usage)
}
