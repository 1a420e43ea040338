package auth

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"wabot/internal/identity"
)

// SudoStore persists the delegated-admin list across restarts.
type SudoStore interface {
	Sudoers() ([]string, error)
	AddSudoer(id string) error
	RemoveSudoer(id string) error
}

// Policy is the single mutation surface for authorization state: a static
// owner allow-list from configuration plus a mutable delegated-admin list
// backed by the store. All identities are canonicalized on the way in.
type Policy struct {
	owners map[string]struct{}
	store  SudoStore
}

// NewPolicy builds a policy from raw owner identifiers.
func NewPolicy(owners []string, store SudoStore) *Policy {
	p := &Policy{owners: make(map[string]struct{}, len(owners)), store: store}
	for _, o := range owners {
		id := identity.Normalize(o, nil)
		if id == "" {
			continue
		}
		p.owners[id] = struct{}{}
	}
	return p
}

// IsOwner reports whether id is a configured global owner.
func (p *Policy) IsOwner(id string) bool {
	_, ok := p.owners[id]
	return ok
}

// IsSudoer reports whether id holds delegated admin rights. The list is read
// on every call so revocations take effect without a restart. A store failure
// degrades to false with a warning.
func (p *Policy) IsSudoer(id string) bool {
	if p.store == nil {
		return false
	}
	sudoers, err := p.store.Sudoers()
	if err != nil {
		log.Warn().Err(err).Msg("sudo list unavailable, treating user as non-sudoer")
		return false
	}
	for _, s := range sudoers {
		if s == id {
			return true
		}
	}
	return false
}

// AddSudoer grants delegated admin rights to a raw identifier.
func (p *Policy) AddSudoer(raw string) error {
	if p.store == nil {
		return fmt.Errorf("no sudo store configured")
	}
	return p.store.AddSudoer(identity.Normalize(raw, nil))
}

// RemoveSudoer revokes delegated admin rights.
func (p *Policy) RemoveSudoer(raw string) error {
	if p.store == nil {
		return fmt.Errorf("no sudo store configured")
	}
	return p.store.RemoveSudoer(identity.Normalize(raw, nil))
}

// Sudoers returns the current delegated-admin list.
func (p *Policy) Sudoers() ([]string, error) {
	if p.store == nil {
		return nil, nil
	}
	return p.store.Sudoers()
}
