package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"wabot/internal/command"
)

// Stats aggregates the recent usage log into per-command counters.
func Stats() *command.Definition {
	return &command.Definition{
		Name:        "stats",
		Aliases:     []string{"usage"},
		Description: "Show recent command usage",
		MinArgs:     0,
		MaxArgs:     0,
		Cooldown:    10 * time.Second,
		Handler:     runStats,
	}
}

func runStats(_ context.Context, req *command.Request) error {
	if req.Env.Store == nil {
		return req.Reply("No usage history available.")
	}
	records, err := req.Env.Store.RecentUsage(0)
	if err != nil {
		return fmt.Errorf("failed to read usage history: %w", err)
	}
	if len(records) == 0 {
		return req.Reply("No commands used yet.")
	}

	type counter struct {
		name   string
		total  int
		errors int
	}
	byName := map[string]*counter{}
	for _, rec := range records {
		c, ok := byName[rec.Command]
		if !ok {
			c = &counter{name: rec.Command}
			byName[rec.Command] = c
		}
		c.total++
		if !rec.Success {
			c.errors++
		}
	}

	counters := make([]*counter, 0, len(byName))
	for _, c := range byName {
		counters = append(counters, c)
	}
	sort.Slice(counters, func(i, j int) bool {
		if counters[i].total != counters[j].total {
			return counters[i].total > counters[j].total
		}
		return counters[i].name < counters[j].name
	})

	var b strings.Builder
	fmt.Fprintf(&b, "Usage over the last %d invocations:\n", len(records))
	for _, c := range counters {
		fmt.Fprintf(&b, "  %s: %d", c.name, c.total)
		if c.errors > 0 {
			fmt.Fprintf(&b, " (%d failed)", c.errors)
		}
		b.WriteString("\n")
	}
	return req.Reply(b.String())
}
