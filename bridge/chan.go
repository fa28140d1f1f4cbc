package bridge

import (
	"context"

	"pkt.systems/mdview"
)

// Chan delivers messages to an in-process channel.
type Chan struct {
	ch chan mdview.Message
}

// NewChan returns a Chan buffering up to n messages. PostMessage blocks while
// the buffer is full, until a receiver drains it or the context is done.
func NewChan(n int) *Chan {
	if n < 0 {
		n = 0
	}
	return &Chan{ch: make(chan mdview.Message, n)}
}

// Messages is the receiving side.
func (c *Chan) Messages() <-chan mdview.Message {
	return c.ch
}

// PostMessage implements mdview.Bridge.
func (c *Chan) PostMessage(ctx context.Context, msg mdview.Message) error {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case c.ch <- msg:
		tracer().Debugf("queued %s", msg.Type)
		return nil
	case <-ctx.Done():
		tracer().Errorf("queue %s: %v", msg.Type, ctx.Err())
		return ctx.Err()
	}
}
