package gateway

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"
)

// Console is a line-based gateway adapter for local runs: every line read from
// in becomes an Event, responses are written to out. It implements Messenger.
type Console struct {
	in      io.Reader
	out     io.Writer
	sender  string
	chat    string
	isGroup bool
}

// NewConsole returns a console gateway impersonating the given sender in the
// given chat.
func NewConsole(in io.Reader, out io.Writer, sender, chat string, isGroup bool) *Console {
	return &Console{in: in, out: out, sender: sender, chat: chat, isGroup: isGroup}
}

// Run reads lines until EOF or context cancellation and hands each one to
// handle as an inbound event.
func (c *Console) Run(ctx context.Context, handle func(context.Context, Event)) error {
	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		handle(ctx, Event{
			Sender:    c.sender,
			Chat:      c.chat,
			IsGroup:   c.isGroup,
			Text:      scanner.Text(),
			Timestamp: time.Now(),
		})
	}
	return scanner.Err()
}

// SendResponse prints the response to the console output.
func (c *Console) SendResponse(_ context.Context, chatID, content string) error {
	_, err := fmt.Fprintf(c.out, "[%s] %s\n", chatID, content)
	return err
}
