package auth

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wabot/internal/gateway"
)

type memSudoStore struct {
	ids map[string]bool
	err error
}

func newMemSudoStore() *memSudoStore { return &memSudoStore{ids: map[string]bool{}} }

func (s *memSudoStore) Sudoers() ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []string
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (s *memSudoStore) AddSudoer(id string) error    { s.ids[id] = true; return nil }
func (s *memSudoStore) RemoveSudoer(id string) error { delete(s.ids, id); return nil }

type fakeRoster struct {
	participants []gateway.Participant
	err          error
}

func (r *fakeRoster) GroupRoster(_ context.Context, _ string) ([]gateway.Participant, error) {
	return r.participants, r.err
}

type fakeProfiles struct {
	profiles map[string]gateway.Profile
	err      error
}

func (p *fakeProfiles) Profile(_ context.Context, id string) (gateway.Profile, error) {
	if p.err != nil {
		return gateway.Profile{}, p.err
	}
	return p.profiles[id], nil
}

func TestPolicyOwnersAreNormalized(t *testing.T) {
	p := NewPolicy([]string{"15551234567@s.whatsapp.net", "15559876543"}, nil)

	assert.True(t, p.IsOwner("15551234567"))
	assert.True(t, p.IsOwner("15559876543"))
	assert.False(t, p.IsOwner("14440000000"))
}

func TestPolicySudoersMutableAtRuntime(t *testing.T) {
	store := newMemSudoStore()
	p := NewPolicy(nil, store)

	assert.False(t, p.IsSudoer("15551234567"))

	require.NoError(t, p.AddSudoer("15551234567@s.whatsapp.net"))
	assert.True(t, p.IsSudoer("15551234567"), "grant takes effect without restart")

	require.NoError(t, p.RemoveSudoer("15551234567"))
	assert.False(t, p.IsSudoer("15551234567"), "revocation takes effect without restart")
}

func TestPolicySudoStoreFailureDegradesToFalse(t *testing.T) {
	store := newMemSudoStore()
	store.ids["15551234567"] = true
	store.err = fmt.Errorf("store offline")

	p := NewPolicy(nil, store)
	assert.False(t, p.IsSudoer("15551234567"))
}

func TestResolveGroupAdmin(t *testing.T) {
	p := NewPolicy(nil, nil)
	roster := &fakeRoster{participants: []gateway.Participant{
		{ID: "15551234567@s.whatsapp.net", Role: gateway.RoleAdmin},
		{ID: "15559876543@s.whatsapp.net", Role: gateway.RoleMember},
		{ID: "15550001111@s.whatsapp.net", Role: gateway.RoleSuperAdmin},
	}}
	r := NewResolver(p, roster, nil, "15550001111@s.whatsapp.net")

	caps := r.Resolve(context.Background(), "15551234567", "group1", true)
	assert.True(t, caps.GroupAdmin)
	assert.True(t, caps.BotGroupAdmin, "bot's own admin status checked independently")

	caps = r.Resolve(context.Background(), "15559876543", "group1", true)
	assert.False(t, caps.GroupAdmin)
	assert.True(t, caps.BotGroupAdmin)

	// Outside a group no roster lookup happens at all.
	caps = r.Resolve(context.Background(), "15551234567", "dm", false)
	assert.False(t, caps.GroupAdmin)
	assert.False(t, caps.BotGroupAdmin)
}

func TestResolveRosterFailureDegrades(t *testing.T) {
	p := NewPolicy(nil, nil)
	r := NewResolver(p, &fakeRoster{err: fmt.Errorf("roster offline")}, nil, "")

	caps := r.Resolve(context.Background(), "15551234567", "group1", true)
	assert.False(t, caps.GroupAdmin)
	assert.False(t, caps.BotGroupAdmin)
}

func TestResolvePremium(t *testing.T) {
	profiles := &fakeProfiles{profiles: map[string]gateway.Profile{
		"15551234567": {Premium: true},
	}}
	p := NewPolicy([]string{"15550009999"}, nil)
	r := NewResolver(p, nil, profiles, "")

	assert.True(t, r.Resolve(context.Background(), "15551234567", "dm", false).Premium)
	assert.False(t, r.Resolve(context.Background(), "15559876543", "dm", false).Premium)

	// Owners are implicitly premium, without a profile lookup.
	assert.True(t, r.Resolve(context.Background(), "15550009999", "dm", false).Premium)
}

func TestCapabilitiesSatisfiesAny(t *testing.T) {
	caps := Capabilities{GroupAdmin: true}

	assert.True(t, caps.SatisfiesAny(nil), "empty list means open command")
	assert.True(t, caps.SatisfiesAny([]Capability{CapOwner, CapGroupAdmin}))
	assert.False(t, caps.SatisfiesAny([]Capability{CapOwner, CapPremium}))
}
