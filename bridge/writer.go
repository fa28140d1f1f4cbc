package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"pkt.systems/mdview"
)

// Writer posts each message as one line of JSON.
type Writer struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewWriter returns a Writer posting to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: json.NewEncoder(w)}
}

// PostMessage implements mdview.Bridge.
func (w *Writer) PostMessage(ctx context.Context, msg mdview.Message) error {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	w.mu.Lock()
	err := w.enc.Encode(msg)
	w.mu.Unlock()
	if err != nil {
		tracer().Errorf("post %s: %v", msg.Type, err)
		return fmt.Errorf("bridge writer: %w", err)
	}
	tracer().Debugf("posted %s (%d bytes of code)", msg.Type, len(msg.Code))
	return nil
}

type discard struct{}

func (discard) PostMessage(ctx context.Context, msg mdview.Message) error {
	tracer().Debugf("discarded %s", msg.Type)
	return nil
}

// Discard is a Bridge that accepts and drops every message.
var Discard mdview.Bridge = discard{}
