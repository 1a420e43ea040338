// Package command holds the command model: the immutable Definition a handler
// is loaded as, the Request bundle a handler executes with, and the Registry
// that indexes definitions by name, alias, and category with atomic hot-reload
// of a single command.
package command

import (
	"context"
	"time"

	"wabot/internal/auth"
	"wabot/internal/config"
	"wabot/internal/gateway"
)

// NoLimit disables the upper arity bound.
const NoLimit = -1

// Handler executes one command invocation.
type Handler func(ctx context.Context, req *Request) error

// Definition describes one loaded command. Definitions are immutable once
// registered; a hot reload swaps the whole record, never mutates it.
type Definition struct {
	Name        string
	Aliases     []string
	Category    string
	Description string
	Usage       string

	// Capabilities a caller must hold; satisfying any one is sufficient.
	// Empty means the command is open.
	Capabilities []auth.Capability

	// Cooldown is the minimum spacing between two invocations by the same
	// identity. Zero disables it.
	Cooldown time.Duration

	// Arity bounds on argument tokens. MaxArgs == NoLimit means unbounded.
	MinArgs int
	MaxArgs int

	GroupOnly       bool
	PrivateOnly     bool
	AdminOnly       bool
	OwnerOnly       bool
	RequireBotAdmin bool

	Handler Handler
}

// Request is the context bundle a handler runs with.
type Request struct {
	Sender  string // canonical identity of the invoker
	Chat    string
	IsGroup bool
	Args    []string
	Caps    auth.Capabilities

	// Reply sends a response back into the chat the command came from.
	Reply func(content string) error

	Env *Env
}

// ModeController exposes the runtime operating mode to commands.
type ModeController interface {
	Mode() string
	SetMode(mode string) error
}

// AdminStore is the slice of persistence owner commands need: ban and premium
// management on user profiles.
type AdminStore interface {
	SetPremium(id string, premium bool) error
	Ban(id, reason string) error
	Unban(id string) error
	RecentUsage(n int) ([]gateway.UsageRecord, error)
}

// Env gives handlers access to the engine's collaborators without reaching
// into globals.
type Env struct {
	Config   *config.Config
	Registry *Registry
	Source   Source
	Policy   *auth.Policy
	Store    AdminStore
	Roster   gateway.RosterProvider
	Mode     ModeController
}
