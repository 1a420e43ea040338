// Package gateway defines the narrow contracts between the dispatch engine and
// the messaging collaborators that surround it: the protocol client delivering
// inbound events, the group roster, the user-profile store, and the usage-log
// sink. The engine never manages a protocol connection itself; any transport
// that can produce Events and accept SendResponse calls can drive it.
package gateway

import (
	"context"
	"time"
)

// Role is a participant's tier inside a group.
type Role int

const (
	RoleMember Role = iota
	RoleAdmin
	RoleSuperAdmin
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleSuperAdmin:
		return "superadmin"
	default:
		return "member"
	}
}

// Participant is one entry of a group roster. AliasID carries the linked-device
// address when the protocol exposes one; it may be empty.
type Participant struct {
	ID      string
	AliasID string
	Role    Role
}

// Event is one inbound message as delivered by the protocol client.
type Event struct {
	Sender    string
	Chat      string
	IsGroup   bool
	Text      string
	Timestamp time.Time
	FromSelf  bool
}

// Messenger accepts outbound responses.
type Messenger interface {
	SendResponse(ctx context.Context, chatID, content string) error
}

// RosterProvider resolves a group's participant list.
type RosterProvider interface {
	GroupRoster(ctx context.Context, chatID string) ([]Participant, error)
}

// Profile is the slice of a user record the engine cares about.
type Profile struct {
	Premium   bool   `json:"premium"`
	Banned    bool   `json:"banned"`
	BanReason string `json:"ban_reason,omitempty"`
}

// ProfileStore looks up user profiles by canonical identity.
type ProfileStore interface {
	Profile(ctx context.Context, id string) (Profile, error)
}

// UsageRecord is one completed command invocation.
type UsageRecord struct {
	ID         string    `json:"id"`
	User       string    `json:"user"`
	Command    string    `json:"command"`
	Chat       string    `json:"chat"`
	DurationMs int64     `json:"duration_ms"`
	Success    bool      `json:"success"`
	Datetime   time.Time `json:"datetime"`
}

// UsageSink receives usage records. Implementations must not block the caller
// beyond a map write; the dispatcher treats Append as fire-and-forget.
type UsageSink interface {
	Append(rec UsageRecord) error
}
