// Package commands assembles the built-in command set into a single source
// the registry loads from, one category per subpackage.
package commands

import (
	"wabot/internal/command"
	"wabot/internal/commands/admin"
	"wabot/internal/commands/core"
	"wabot/internal/commands/owner"
)

// Source returns the built-in command source.
func Source() *command.BuiltinSource {
	src := command.NewBuiltinSource()
	src.Register("core", core.Ping, core.Help, core.Stats)
	src.Register("admin", admin.Announce, admin.Roster)
	src.Register("owner", owner.Sudo, owner.Reload, owner.Mode, owner.Ban, owner.Unban, owner.Premium)
	return src
}
