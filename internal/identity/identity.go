// Package identity canonicalizes the addressing forms the protocol produces
// into one comparable phone-based key. A raw identifier may arrive as a plain
// phone address, a device-qualified address, a legacy-suffix address, or a
// linked-device alias that does not carry the phone number at all; all of them
// must collapse to the same canonical value for the same account.
package identity

import (
	"strings"

	"wabot/internal/gateway"
)

// Kind tags the recognized shapes of a raw identifier.
type Kind int

const (
	KindUnknown Kind = iota
	KindPhone
	KindAlias
	KindGroup
	KindBroadcast
)

// Addressing servers the protocol uses.
const (
	serverPhone       = "s.whatsapp.net"
	serverPhoneLegacy = "c.us"
	serverAlias       = "lid"
	serverGroup       = "g.us"
	serverBroadcast   = "broadcast"
)

// Address is a parsed raw identifier. User is the local part with any device
// qualifier removed; Device holds the qualifier when present.
type Address struct {
	Kind   Kind
	User   string
	Device string
	Server string
}

// Parse splits a raw identifier into its address form. It is total: input it
// cannot recognize comes back as KindUnknown with User set to the raw value.
func Parse(raw string) Address {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Address{Kind: KindUnknown}
	}

	user := raw
	server := ""
	if at := strings.LastIndex(raw, "@"); at >= 0 {
		user, server = raw[:at], raw[at+1:]
	}

	device := ""
	if colon := strings.Index(user, ":"); colon >= 0 {
		user, device = user[:colon], user[colon+1:]
	}

	kind := KindUnknown
	switch server {
	case serverPhone, serverPhoneLegacy:
		kind = KindPhone
	case serverAlias:
		kind = KindAlias
	case serverGroup:
		kind = KindGroup
	case serverBroadcast:
		kind = KindBroadcast
	case "":
		if numeric(user) {
			kind = KindPhone
		}
	}

	if kind == KindUnknown {
		return Address{Kind: KindUnknown, User: raw, Server: server}
	}
	return Address{Kind: kind, User: user, Device: device, Server: server}
}

// Normalize canonicalizes a raw identifier. Alias addresses are resolved
// through the roster when one is supplied; an alias that cannot be resolved is
// kept as its own key, which is degraded but deterministic — the caller gets
// the same value for the same input until a roster lookup succeeds. Normalize
// never fails; at worst the raw input comes back unchanged.
func Normalize(raw string, roster []gateway.Participant) string {
	a := Parse(raw)
	switch a.Kind {
	case KindPhone, KindGroup, KindBroadcast:
		return a.User
	case KindAlias:
		for _, p := range roster {
			if p.AliasID == "" {
				continue
			}
			if Parse(p.AliasID).User == a.User {
				if primary := Parse(p.ID).User; primary != "" {
					return primary
				}
			}
		}
		return a.User
	default:
		return raw
	}
}

func numeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
