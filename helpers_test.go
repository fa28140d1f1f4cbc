package mdview

import (
	"context"
	"os"
	"regexp"
	"sync"
	"testing"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m|\x1b\]8;;[^\x1b]*\x1b\\`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

type recordingBridge struct {
	mu   sync.Mutex
	msgs []Message
	err  error
}

func (b *recordingBridge) PostMessage(ctx context.Context, msg Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.msgs = append(b.msgs, msg)
	return nil
}

func (b *recordingBridge) sent() []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Message(nil), b.msgs...)
}

// blockingBridge holds every PostMessage until release is closed.
type blockingBridge struct {
	entered chan struct{}
	release chan struct{}
	count   int
	mu      sync.Mutex
}

func newBlockingBridge() *blockingBridge {
	return &blockingBridge{entered: make(chan struct{}, 8), release: make(chan struct{})}
}

func (b *blockingBridge) PostMessage(ctx context.Context, msg Message) error {
	b.mu.Lock()
	b.count++
	b.mu.Unlock()
	b.entered <- struct{}{}
	select {
	case <-b.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return data
}

func plain(t *testing.T, tokens []Token, width int) string {
	t.Helper()
	return FormatANSI(View(tokens, nil), width, PlainTheme())
}
