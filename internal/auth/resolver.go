package auth

import (
	"context"

	"github.com/rs/zerolog/log"

	"wabot/internal/gateway"
	"wabot/internal/identity"
)

// Resolver derives the capability set for one dispatch attempt from the
// policy, the group roster, and the user-profile store.
type Resolver struct {
	policy   *Policy
	roster   gateway.RosterProvider
	profiles gateway.ProfileStore
	selfID   string
}

// NewResolver wires a resolver. selfID is the bot's own raw identifier and is
// used for the bot-is-admin check; roster and profiles may be nil, in which
// case the corresponding capabilities stay false.
func NewResolver(policy *Policy, roster gateway.RosterProvider, profiles gateway.ProfileStore, selfID string) *Resolver {
	return &Resolver{
		policy:   policy,
		roster:   roster,
		profiles: profiles,
		selfID:   identity.Normalize(selfID, nil),
	}
}

// Resolve computes the capability set for id in the given chat. Group checks
// run only for group chats and look up both the invoking user and the bot
// itself, since a command may need the bot to hold elevated rights for its
// side effect. Collaborator failures degrade to false with a warning.
func (r *Resolver) Resolve(ctx context.Context, id, chatID string, isGroup bool) Capabilities {
	caps := Capabilities{
		Owner:  r.policy.IsOwner(id),
		Sudoer: r.policy.IsSudoer(id),
	}

	if isGroup && r.roster != nil {
		participants, err := r.roster.GroupRoster(ctx, chatID)
		if err != nil {
			log.Warn().Err(err).Str("chat", chatID).Msg("roster lookup failed, group roles unresolved")
		} else {
			for _, p := range participants {
				if p.Role == gateway.RoleMember {
					continue
				}
				pid := identity.Normalize(p.ID, participants)
				if pid == id {
					caps.GroupAdmin = true
				}
				if r.selfID != "" && pid == r.selfID {
					caps.BotGroupAdmin = true
				}
			}
		}
	}

	// Owners and sudoers are treated as premium for gating purposes.
	if caps.Owner || caps.Sudoer {
		caps.Premium = true
	} else if r.profiles != nil {
		prof, err := r.profiles.Profile(ctx, id)
		if err != nil {
			log.Warn().Err(err).Str("user", id).Msg("profile lookup failed, premium unresolved")
		} else {
			caps.Premium = prof.Premium
		}
	}

	return caps
}
