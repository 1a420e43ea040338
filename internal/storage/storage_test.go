package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wabot/internal/gateway"
)

// newTestStorage opens a store on a throwaway file. Close blocks until the
// store's context is cancelled, so cleanup cancels first.
func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	s, err := New(ctx, filepath.Join(t.TempDir(), "datastore.json"))
	require.NoError(t, err)
	t.Cleanup(func() {
		cancel()
		_ = s.Close()
	})
	return s
}

func TestProfileDefaultsToZero(t *testing.T) {
	s := newTestStorage(t)

	p, err := s.Profile(context.Background(), "15551234567")
	require.NoError(t, err)
	assert.False(t, p.Premium)
	assert.False(t, p.Banned)
}

func TestBanUnbanRoundtrip(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.Ban("15551234567", "spamming the group"))

	p, err := s.Profile(context.Background(), "15551234567")
	require.NoError(t, err)
	assert.True(t, p.Banned)
	assert.Equal(t, "spamming the group", p.BanReason)

	require.NoError(t, s.Unban("15551234567"))
	p, err = s.Profile(context.Background(), "15551234567")
	require.NoError(t, err)
	assert.False(t, p.Banned)
	assert.Empty(t, p.BanReason)
}

func TestPremiumSurvivesBanCycle(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.SetPremium("15551234567", true))
	require.NoError(t, s.Ban("15551234567", ""))
	require.NoError(t, s.Unban("15551234567"))

	p, err := s.Profile(context.Background(), "15551234567")
	require.NoError(t, err)
	assert.True(t, p.Premium, "ban bookkeeping leaves premium untouched")
}

func TestSudoerRoundtrip(t *testing.T) {
	s := newTestStorage(t)

	ids, err := s.Sudoers()
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, s.AddSudoer("15559876543"))
	require.NoError(t, s.AddSudoer("15551234567"))
	require.NoError(t, s.AddSudoer("15559876543"), "duplicate add is a no-op")

	ids, err = s.Sudoers()
	require.NoError(t, err)
	assert.Equal(t, []string{"15551234567", "15559876543"}, ids)

	require.NoError(t, s.RemoveSudoer("15559876543"))
	ids, err = s.Sudoers()
	require.NoError(t, err)
	assert.Equal(t, []string{"15551234567"}, ids)
}

func TestAddSudoerRejectsEmptyID(t *testing.T) {
	s := newTestStorage(t)
	assert.Error(t, s.AddSudoer(""))
}

func TestUsageAppendAndRecent(t *testing.T) {
	s := newTestStorage(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Append(gateway.UsageRecord{
			ID:      fmt.Sprintf("rec-%d", i),
			User:    "15551234567",
			Command: "ping",
			Success: true,
		}))
	}

	recs, err := s.RecentUsage(3)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "rec-2", recs[0].ID, "oldest of the newest three comes first")
	assert.Equal(t, "rec-4", recs[2].ID)

	all, err := s.RecentUsage(0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestUsageHistoryIsBounded(t *testing.T) {
	s := newTestStorage(t)
	s.SetUsageLimit(3)

	for i := 0; i < 10; i++ {
		require.NoError(t, s.Append(gateway.UsageRecord{ID: fmt.Sprintf("rec-%d", i), Command: "ping"}))
	}

	recs, err := s.RecentUsage(0)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "rec-7", recs[0].ID)
	assert.Equal(t, "rec-9", recs[2].ID)
}

func TestConcurrentAppendsLoseNoRecords(t *testing.T) {
	s := newTestStorage(t)
	s.SetUsageLimit(500)

	// The dispatcher appends from one goroutine per dispatch; every record
	// must survive the race.
	const writers = 200
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			assert.NoError(t, s.Append(gateway.UsageRecord{
				ID:      fmt.Sprintf("rec-%d", n),
				Command: "ping",
				Success: true,
			}))
		}(i)
	}
	wg.Wait()

	recs, err := s.RecentUsage(0)
	require.NoError(t, err)
	assert.Len(t, recs, writers)
}

func TestConcurrentProfileWritesAreSerialized(t *testing.T) {
	s := newTestStorage(t)

	const users = 50
	var wg sync.WaitGroup
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			assert.NoError(t, s.SetPremium(fmt.Sprintf("1555%07d", n), true))
		}(i)
	}
	wg.Wait()

	for i := 0; i < users; i++ {
		p, err := s.Profile(context.Background(), fmt.Sprintf("1555%07d", i))
		require.NoError(t, err)
		assert.True(t, p.Premium, "user %d", i)
	}
}

func TestRecordsSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datastore.json")

	ctx, cancel := context.WithCancel(context.Background())
	s, err := New(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Ban("15551234567", "abuse"))
	require.NoError(t, s.AddSudoer("15559876543"))
	require.NoError(t, s.Append(gateway.UsageRecord{ID: "rec-1", Command: "ping", Success: true}))
	cancel()
	require.NoError(t, s.Close())

	ctx2, cancel2 := context.WithCancel(context.Background())
	reopened, err := New(ctx2, path)
	require.NoError(t, err)
	t.Cleanup(func() {
		cancel2()
		_ = reopened.Close()
	})

	p, err := reopened.Profile(context.Background(), "15551234567")
	require.NoError(t, err)
	assert.True(t, p.Banned)
	assert.Equal(t, "abuse", p.BanReason)

	ids, err := reopened.Sudoers()
	require.NoError(t, err)
	assert.Equal(t, []string{"15559876543"}, ids)

	recs, err := reopened.RecentUsage(0)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "rec-1", recs[0].ID)
	assert.True(t, recs[0].Success)
}
