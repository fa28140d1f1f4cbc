package sidebar

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"
	"unicode"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"pkt.systems/mdview/lex"
)

// StreamRequest configures Stream.
type StreamRequest struct {
	Reader    io.Reader
	ChunkSize int
	Delay     time.Duration
	// Send delivers messages to the panel, usually (*tea.Program).Send.
	Send func(tea.Msg)
}

// Stream reads markdown from Reader in runs of ChunkSize runes, waiting Delay
// between runs, and sends the re-tokenized document after each run. This
// imitates a response arriving token by token from an inference backend.
func Stream(ctx context.Context, req StreamRequest) error {
	if req.Reader == nil {
		return fmt.Errorf("stream: Reader is nil")
	}
	if req.Send == nil {
		return fmt.Errorf("stream: Send is nil")
	}
	if req.ChunkSize <= 0 {
		return fmt.Errorf("stream: ChunkSize must be > 0")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	reader := bufio.NewReader(req.Reader)
	var doc []byte
	pending := 0
	emit := func(done bool) error {
		tokens, err := lex.Markdown(doc)
		if err != nil {
			return fmt.Errorf("stream: %w", err)
		}
		req.Send(TokensMsg{Tokens: tokens, Done: done})
		return nil
	}
	for {
		r, size, err := reader.ReadRune()
		if err != nil {
			if err == io.EOF {
				break
			}
			req.Send(ErrMsg{Err: err})
			return fmt.Errorf("stream: read: %w", err)
		}
		if (r == utf8.RuneError && size == 1) || (unicode.IsControl(r) && r != '\n' && r != '\t') {
			continue
		}
		doc = utf8.AppendRune(doc, r)
		pending++
		if pending < req.ChunkSize {
			continue
		}
		pending = 0
		if err := emit(false); err != nil {
			req.Send(ErrMsg{Err: err})
			return err
		}
		if req.Delay > 0 {
			select {
			case <-time.After(req.Delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	if err := emit(true); err != nil {
		req.Send(ErrMsg{Err: err})
		return err
	}
	tracer().Debugf("stream finished after %d bytes", len(doc))
	return nil
}
