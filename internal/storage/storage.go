// Package storage persists the engine's durable records — user profiles,
// the delegated-admin list, and the usage log — on a keshon/datastore
// JSON-file store. The dispatch engine only ever touches it through the
// narrow interfaces in gateway and auth; none of the throttle or registry
// state lives here.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/keshon/datastore"

	"wabot/internal/gateway"
)

const (
	keyProfiles = "profiles"
	keySudoers  = "sudoers"
	keyUsage    = "usage"

	defaultUsageLimit = 200
)

type Storage struct {
	ds *datastore.DataStore

	// mu serializes the read-modify-write cycles below. The datastore locks
	// each Get and Set individually, but that does not make the composite
	// atomic: two concurrent appends would both read the same list and the
	// second write would drop the first record.
	mu         sync.Mutex
	usageLimit int
}

// New opens (or creates) the store at filePath. ctx bounds the store's
// autosave goroutine; Close blocks until ctx is cancelled, so pass the
// process context, not context.Background.
func New(ctx context.Context, filePath string) (*Storage, error) {
	ds, err := datastore.New(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open datastore: %w", err)
	}
	return &Storage{ds: ds, usageLimit: defaultUsageLimit}, nil
}

// SetUsageLimit bounds the retained usage history.
func (s *Storage) SetUsageLimit(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > 0 {
		s.usageLimit = n
	}
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

// ─── Profiles ───────────────────────────────────────────────────

func (s *Storage) profiles() (map[string]gateway.Profile, error) {
	out := map[string]gateway.Profile{}
	if _, err := s.ds.Get(keyProfiles, &out); err != nil {
		return nil, fmt.Errorf("error reading profiles: %w", err)
	}
	return out, nil
}

// Profile returns the stored profile for id; a missing user yields the zero
// profile, not an error.
func (s *Storage) Profile(_ context.Context, id string) (gateway.Profile, error) {
	profiles, err := s.profiles()
	if err != nil {
		return gateway.Profile{}, err
	}
	return profiles[id], nil
}

// SetPremium grants or revokes premium for id.
func (s *Storage) SetPremium(id string, premium bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	profiles, err := s.profiles()
	if err != nil {
		return err
	}
	p := profiles[id]
	p.Premium = premium
	profiles[id] = p
	return s.ds.Set(keyProfiles, profiles)
}

// Ban marks id as banned with a reason.
func (s *Storage) Ban(id, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	profiles, err := s.profiles()
	if err != nil {
		return err
	}
	p := profiles[id]
	p.Banned = true
	p.BanReason = reason
	profiles[id] = p
	return s.ds.Set(keyProfiles, profiles)
}

// Unban clears a ban on id.
func (s *Storage) Unban(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	profiles, err := s.profiles()
	if err != nil {
		return err
	}
	p := profiles[id]
	p.Banned = false
	p.BanReason = ""
	profiles[id] = p
	return s.ds.Set(keyProfiles, profiles)
}

// ─── Delegated admins ───────────────────────────────────────────

// Sudoers returns the persisted delegated-admin list, sorted.
func (s *Storage) Sudoers() ([]string, error) {
	var out []string
	if _, err := s.ds.Get(keySudoers, &out); err != nil {
		return nil, fmt.Errorf("error reading sudo list: %w", err)
	}
	sort.Strings(out)
	return out, nil
}

// AddSudoer appends id to the delegated-admin list. Adding an existing entry
// is a no-op.
func (s *Storage) AddSudoer(id string) error {
	if id == "" {
		return fmt.Errorf("empty identity")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sudoers, err := s.Sudoers()
	if err != nil {
		return err
	}
	for _, existing := range sudoers {
		if existing == id {
			return nil
		}
	}
	return s.ds.Set(keySudoers, append(sudoers, id))
}

// RemoveSudoer removes id from the delegated-admin list.
func (s *Storage) RemoveSudoer(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sudoers, err := s.Sudoers()
	if err != nil {
		return err
	}
	out := sudoers[:0]
	for _, existing := range sudoers {
		if existing != id {
			out = append(out, existing)
		}
	}
	return s.ds.Set(keySudoers, out)
}

// ─── Usage log ──────────────────────────────────────────────────

// Append records one command invocation, keeping only the newest entries up
// to the configured limit. Safe under the dispatcher's concurrent
// fire-and-forget writes.
func (s *Storage) Append(rec gateway.UsageRecord) error {
	if rec.Datetime.IsZero() {
		rec.Datetime = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.RecentUsage(0)
	if err != nil {
		return err
	}
	records = append(records, rec)
	if len(records) > s.usageLimit {
		records = records[len(records)-s.usageLimit:]
	}
	return s.ds.Set(keyUsage, records)
}

// RecentUsage returns up to n of the newest usage records, oldest first.
// n <= 0 returns everything retained.
func (s *Storage) RecentUsage(n int) ([]gateway.UsageRecord, error) {
	var out []gateway.UsageRecord
	if _, err := s.ds.Get(keyUsage, &out); err != nil {
		return nil, fmt.Errorf("error reading usage log: %w", err)
	}
	if n > 0 && len(out) > n {
		out = out[len(out)-n:]
	}
	return out, nil
}
