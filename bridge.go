package mdview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
)

// MessageApplyCode is the message type sent when a code block is applied.
const MessageApplyCode = "applyCode"

const applyingLabel = "Applying…"

var (
	// ErrNoBridge reports an Apply with no host bridge configured.
	ErrNoBridge = errors.New("no host bridge")
	// ErrApplyPending reports an Apply while the previous one is still in flight.
	ErrApplyPending = errors.New("apply already in flight")
)

// Message is an outbound (or, for Requester replies, inbound) bridge message.
type Message struct {
	Type      string `json:"type"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// MarshalJSON writes code whenever it is set and always for applyCode, so an
// empty code block still posts {"type":"applyCode","code":""}.
func (m Message) MarshalJSON() ([]byte, error) {
	type wire struct {
		Type      string  `json:"type"`
		Code      *string `json:"code,omitempty"`
		RequestID string  `json:"requestId,omitempty"`
	}
	w := wire{Type: m.Type, RequestID: m.RequestID}
	if m.Code != "" || m.Type == MessageApplyCode {
		w.Code = &m.Code
	}
	return json.Marshal(w)
}

// Bridge delivers messages to the host. PostMessage is fire-and-forget: a nil
// error only means the message was handed to the transport.
type Bridge interface {
	PostMessage(ctx context.Context, msg Message) error
}

// Requester is a Bridge that can also wait for a reply correlated by
// Message.RequestID. Rendering never needs it.
type Requester interface {
	Bridge
	Await(ctx context.Context, msg Message) (Message, error)
}

// ApplyControl is the Apply action attached to a rendered code block.
type ApplyControl struct {
	code       string
	bridge     Bridge
	submitting atomic.Bool
}

func newApplyControl(code string, bridge Bridge) *ApplyControl {
	return &ApplyControl{code: code, bridge: bridge}
}

// Code returns the text Click sends.
func (a *ApplyControl) Code() string {
	return a.code
}

// Pending reports whether a Click is in flight. Views show the button as
// disabled while it is.
func (a *ApplyControl) Pending() bool {
	return a.submitting.Load()
}

// Label is the button caption for the current state.
func (a *ApplyControl) Label() string {
	if a.Pending() {
		return applyingLabel
	}
	return "Apply"
}

// Click sends one applyCode message carrying the code text. A Click that
// overlaps an in-flight one returns ErrApplyPending and sends nothing.
func (a *ApplyControl) Click(ctx context.Context) error {
	if a.bridge == nil {
		return ErrNoBridge
	}
	if !a.submitting.CompareAndSwap(false, true) {
		return ErrApplyPending
	}
	defer a.submitting.Store(false)
	if ctx == nil {
		ctx = context.Background()
	}
	if err := a.bridge.PostMessage(ctx, Message{Type: MessageApplyCode, Code: a.code}); err != nil {
		return fmt.Errorf("apply: %w", err)
	}
	return nil
}
