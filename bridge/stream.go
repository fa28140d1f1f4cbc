package bridge

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"pkt.systems/mdview"
)

// ErrClosed reports a Stream whose reply side has ended.
var ErrClosed = errors.New("bridge stream closed")

const maxReplyLine = 4 << 20

// Stream exchanges JSON lines with a host in both directions. Replies are
// matched to Await calls by requestId; replies nobody waits for are dropped.
type Stream struct {
	out *Writer

	mu      sync.Mutex
	pending map[string]chan mdview.Message
	err     error
	done    chan struct{}
}

// NewStream posts to w and reads replies from r until r ends.
func NewStream(r io.Reader, w io.Writer) *Stream {
	s := &Stream{
		out:     NewWriter(w),
		pending: make(map[string]chan mdview.Message),
		done:    make(chan struct{}),
	}
	go s.readLoop(r)
	return s
}

// PostMessage implements mdview.Bridge.
func (s *Stream) PostMessage(ctx context.Context, msg mdview.Message) error {
	return s.out.PostMessage(ctx, msg)
}

// Await posts msg and waits for the reply carrying the same requestId. A
// requestId is generated when msg has none.
func (s *Stream) Await(ctx context.Context, msg mdview.Message) (mdview.Message, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if msg.RequestID == "" {
		msg.RequestID = uuid.NewString()
	}
	reply := make(chan mdview.Message, 1)
	s.mu.Lock()
	if s.err != nil {
		err := s.err
		s.mu.Unlock()
		return mdview.Message{}, err
	}
	if _, dup := s.pending[msg.RequestID]; dup {
		s.mu.Unlock()
		return mdview.Message{}, fmt.Errorf("bridge stream: duplicate requestId %s", msg.RequestID)
	}
	s.pending[msg.RequestID] = reply
	s.mu.Unlock()
	defer s.forget(msg.RequestID)

	if err := s.out.PostMessage(ctx, msg); err != nil {
		return mdview.Message{}, err
	}
	tracer().Debugf("awaiting reply to %s %s", msg.Type, msg.RequestID)
	select {
	case m := <-reply:
		return m, nil
	case <-s.done:
		select {
		case m := <-reply:
			return m, nil
		default:
		}
		return mdview.Message{}, s.Err()
	case <-ctx.Done():
		return mdview.Message{}, ctx.Err()
	}
}

// Done is closed when the reply side ends.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// Err returns why the reply side ended, or nil while it is running.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Stream) forget(id string) {
	s.mu.Lock()
	delete(s.pending, id)
	s.mu.Unlock()
}

func (s *Stream) readLoop(r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxReplyLine)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var msg mdview.Message
		if err := json.Unmarshal(line, &msg); err != nil {
			tracer().Errorf("malformed reply: %v", err)
			continue
		}
		s.mu.Lock()
		ch, ok := s.pending[msg.RequestID]
		if ok {
			delete(s.pending, msg.RequestID)
		}
		s.mu.Unlock()
		if !ok {
			tracer().Debugf("dropping unmatched reply %s %q", msg.Type, msg.RequestID)
			continue
		}
		ch <- msg
	}
	err := scanner.Err()
	if err == nil {
		err = ErrClosed
	} else {
		err = fmt.Errorf("bridge stream: %w", err)
	}
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	close(s.done)
	tracer().Infof("reply stream ended: %v", err)
}
