package sidebar

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"pkt.systems/mdview"
)

type recordingBridge struct {
	mu   sync.Mutex
	msgs []mdview.Message
	err  error
}

func (b *recordingBridge) PostMessage(ctx context.Context, msg mdview.Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.msgs = append(b.msgs, msg)
	return nil
}

func (b *recordingBridge) sent() []mdview.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]mdview.Message(nil), b.msgs...)
}

type blockingBridge struct {
	entered chan struct{}
	release chan struct{}
}

func newBlockingBridge() *blockingBridge {
	return &blockingBridge{entered: make(chan struct{}, 1), release: make(chan struct{})}
}

func (b *blockingBridge) PostMessage(ctx context.Context, msg mdview.Message) error {
	b.entered <- struct{}{}
	<-b.release
	return nil
}

func twoBlocks() []mdview.Token {
	return []mdview.Token{
		&mdview.Paragraph{Text: "Intro"},
		&mdview.Code{Lang: "python", Text: "print(1)"},
		&mdview.Paragraph{Text: "Middle"},
		&mdview.Code{Lang: "go", Text: "fmt.Println(2)"},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func TestApplyFocusedBlock(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mdview.sidebar")
	defer teardown()
	//
	bridge := &recordingBridge{}
	m := New(Options{Tokens: twoBlocks(), Bridge: bridge, Theme: mdview.PlainTheme()})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 30})
	m, _ = update(t, m, key("tab"))
	if m.focus != 1 {
		t.Fatalf("expected focus 1 after tab, got %d", m.focus)
	}
	m, cmd := update(t, m, key("a"))
	if cmd == nil {
		t.Fatal("expected an apply command")
	}
	if m.status != "Applying…" {
		t.Errorf("expected pending status, got %q", m.status)
	}
	m, _ = update(t, m, cmd())
	got := bridge.sent()
	if len(got) != 1 || got[0].Type != mdview.MessageApplyCode || got[0].Code != "fmt.Println(2)" {
		t.Fatalf("unexpected messages %+v", got)
	}
	if m.status != "Applied block 2 (Go · 1 line · 14 B)" {
		t.Errorf("expected applied status, got %q", m.status)
	}
}

func TestApplyShowsPendingButton(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mdview.sidebar")
	defer teardown()
	//
	bridge := newBlockingBridge()
	m := New(Options{Tokens: twoBlocks(), Bridge: bridge, Theme: mdview.PlainTheme()})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 30})
	m, cmd := update(t, m, key("a"))
	if cmd == nil {
		t.Fatal("expected an apply command")
	}
	body := func(m Model) string { return strings.Join(m.lines, "\n") }
	if !strings.Contains(body(m), "▶ [ Applying… ]") {
		t.Fatalf("expected pending button as soon as apply starts:\n%s", body(m))
	}

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case <-bridge.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("bridge was never called")
	}
	if !strings.Contains(body(m), "▶ [ Applying… ]") {
		t.Fatalf("expected pending button while the click is in flight:\n%s", body(m))
	}
	close(bridge.release)
	m, _ = update(t, m, <-done)
	if strings.Contains(body(m), "Applying…") || !strings.Contains(body(m), "▶ [ Apply ]") {
		t.Fatalf("expected idle button after apply:\n%s", body(m))
	}
}

func TestApplyStatusSurvivesTokenReplacement(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mdview.sidebar")
	defer teardown()
	//
	bridge := &recordingBridge{}
	m := New(Options{Tokens: twoBlocks(), Bridge: bridge, Theme: mdview.PlainTheme(), Streaming: true})
	m, _ = update(t, m, key("tab"))
	m, cmd := update(t, m, key("a"))
	if cmd == nil {
		t.Fatal("expected an apply command")
	}
	m, _ = update(t, m, TokensMsg{Tokens: []mdview.Token{
		&mdview.Code{Lang: "sh", Text: "ls"},
	}})
	m, _ = update(t, m, cmd())
	if got := bridge.sent(); len(got) != 1 || got[0].Code != "fmt.Println(2)" {
		t.Fatalf("unexpected messages %+v", got)
	}
	if m.status != "Applied block 2 (Go · 1 line · 14 B)" {
		t.Errorf("status should name the block that was applied, got %q", m.status)
	}
}

func TestApplyWhileInFlightIsRefused(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mdview.sidebar")
	defer teardown()
	//
	bridge := &recordingBridge{}
	m := New(Options{Tokens: twoBlocks(), Bridge: bridge, Theme: mdview.PlainTheme()})
	m, first := update(t, m, key("enter"))
	if first == nil {
		t.Fatal("expected an apply command")
	}
	m, second := update(t, m, key("a"))
	if second != nil {
		t.Fatal("second apply should not start while the first is pending")
	}
	if m.status != "Apply already in flight" {
		t.Errorf("unexpected status %q", m.status)
	}
	_, _ = update(t, m, first())
	if n := len(bridge.sent()); n != 1 {
		t.Fatalf("expected exactly one message, got %d", n)
	}
}

func TestApplyFailureShowsStatus(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mdview.sidebar")
	defer teardown()
	//
	bridge := &recordingBridge{err: errors.New("host gone")}
	m := New(Options{Tokens: twoBlocks(), Bridge: bridge, Theme: mdview.PlainTheme()})
	m, cmd := update(t, m, key("a"))
	m, _ = update(t, m, cmd())
	if !strings.Contains(m.status, "host gone") {
		t.Errorf("expected failure status, got %q", m.status)
	}
	if !strings.Contains(m.View(), "host gone") {
		t.Errorf("expected failure in footer")
	}
}

func TestApplyWithoutCodeBlocks(t *testing.T) {
	m := New(Options{Tokens: []mdview.Token{&mdview.Paragraph{Text: "just text"}}, Theme: mdview.PlainTheme()})
	m, cmd := update(t, m, key("a"))
	if cmd != nil {
		t.Fatal("expected no command")
	}
	if m.status != "No code block to apply" {
		t.Errorf("unexpected status %q", m.status)
	}
}

func TestTokensMsgReplacesContent(t *testing.T) {
	m := New(Options{Theme: mdview.PlainTheme(), Streaming: true})
	if !strings.Contains(m.View(), "receiving") {
		t.Errorf("expected streaming indicator")
	}
	m, _ = update(t, m, TokensMsg{Tokens: []mdview.Token{&mdview.Paragraph{Text: "partial"}}})
	if !strings.Contains(m.View(), "partial") {
		t.Errorf("expected partial content in view")
	}
	m, _ = update(t, m, TokensMsg{Tokens: twoBlocks(), Done: true})
	view := m.View()
	if !strings.Contains(view, "print(1)") || strings.Contains(view, "partial") {
		t.Errorf("expected replaced content, got:\n%s", view)
	}
	if strings.Contains(view, "receiving") {
		t.Errorf("streaming indicator should be gone")
	}
	if len(m.controls) != 2 {
		t.Errorf("expected 2 apply controls, got %d", len(m.controls))
	}
}

func TestScrollIsClamped(t *testing.T) {
	var tokens []mdview.Token
	for i := 0; i < 40; i++ {
		tokens = append(tokens, &mdview.Paragraph{Text: "line"})
	}
	m := New(Options{Tokens: tokens, Theme: mdview.PlainTheme()})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 10})
	m, _ = update(t, m, key("k"))
	if m.scroll != 0 {
		t.Errorf("scroll should not go negative, got %d", m.scroll)
	}
	m, _ = update(t, m, key("G"))
	maxScroll := len(m.lines) - m.bodyHeight()
	if m.scroll != maxScroll {
		t.Errorf("expected scroll %d at end, got %d", maxScroll, m.scroll)
	}
	m, _ = update(t, m, key("j"))
	if m.scroll != maxScroll {
		t.Errorf("scroll should stop at %d, got %d", maxScroll, m.scroll)
	}
}

func TestQuit(t *testing.T) {
	m := New(Options{})
	_, cmd := update(t, m, key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected tea.QuitMsg")
	}
}

func TestStreamSendsGrowingDocuments(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mdview.sidebar")
	defer teardown()
	//
	var msgs []tea.Msg
	err := Stream(context.Background(), StreamRequest{
		Reader:    strings.NewReader("# Title\n\nBody text.\n"),
		ChunkSize: 5,
		Delay:     time.Millisecond,
		Send:      func(msg tea.Msg) { msgs = append(msgs, msg) },
	})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if len(msgs) < 2 {
		t.Fatalf("expected several messages, got %d", len(msgs))
	}
	last, ok := msgs[len(msgs)-1].(TokensMsg)
	if !ok || !last.Done {
		t.Fatalf("expected final TokensMsg with Done, got %#v", msgs[len(msgs)-1])
	}
	for _, msg := range msgs[:len(msgs)-1] {
		if tm, ok := msg.(TokensMsg); !ok || tm.Done {
			t.Fatalf("unexpected intermediate message %#v", msg)
		}
	}
	if len(last.Tokens) == 0 || last.Tokens[0].Kind() != mdview.KindHeading {
		t.Errorf("expected heading first, got %+v", last.Tokens)
	}
}

func TestStreamRejectsBadRequest(t *testing.T) {
	if err := Stream(context.Background(), StreamRequest{Reader: strings.NewReader("x"), ChunkSize: 0, Send: func(tea.Msg) {}}); err == nil {
		t.Error("expected error for zero chunk size")
	}
	if err := Stream(context.Background(), StreamRequest{ChunkSize: 1, Send: func(tea.Msg) {}}); err == nil {
		t.Error("expected error for nil reader")
	}
}
