package gateway

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleRunDeliversEvents(t *testing.T) {
	in := strings.NewReader(".ping\nhello\n")
	c := NewConsole(in, &bytes.Buffer{}, "15551234567", "console", false)

	var events []Event
	err := c.Run(context.Background(), func(_ context.Context, evt Event) {
		events = append(events, evt)
	})
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, ".ping", events[0].Text)
	assert.Equal(t, "hello", events[1].Text)
	assert.Equal(t, "15551234567", events[0].Sender)
	assert.Equal(t, "console", events[0].Chat)
	assert.False(t, events[0].IsGroup)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestConsoleRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewConsole(strings.NewReader(".ping\n"), &bytes.Buffer{}, "u", "c", false)
	err := c.Run(ctx, func(context.Context, Event) {
		t.Fatal("no event expected after cancellation")
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConsoleSendResponse(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader(""), &out, "u", "c", false)

	require.NoError(t, c.SendResponse(context.Background(), "c", "pong"))
	assert.Equal(t, "[c] pong\n", out.String())
}
