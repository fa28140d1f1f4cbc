package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pkt.systems/mdview"
	"pkt.systems/mdview/bridge"
)

func TestOpenInputFileAndURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.md")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	reader, closer, err := openInputs([]string{path})
	if err != nil {
		t.Fatalf("openInputs file: %v", err)
	}
	buf, _ := io.ReadAll(reader)
	_ = closer.Close()
	if string(buf) != "hello" {
		t.Fatalf("unexpected file content: %q", string(buf))
	}

	reader, closer, err = openInputs([]string{"file://" + path})
	if err != nil {
		t.Fatalf("openInputs file URL: %v", err)
	}
	buf, _ = io.ReadAll(reader)
	_ = closer.Close()
	if string(buf) != "hello" {
		t.Fatalf("unexpected file URL content: %q", string(buf))
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("stream"))
	}))
	defer srv.Close()
	reader, closer, err = openInputs([]string{srv.URL, path})
	if err != nil {
		t.Fatalf("openInputs http: %v", err)
	}
	buf, _ = io.ReadAll(reader)
	_ = closer.Close()
	if string(buf) != "streamhello" {
		t.Fatalf("unexpected concatenated content: %q", string(buf))
	}
}

func TestOpenInputRejectsEmptyArgument(t *testing.T) {
	if _, _, err := openInputs([]string{"  "}); err == nil {
		t.Fatal("expected error for empty argument")
	}
}

func TestResolveOSC8(t *testing.T) {
	t.Parallel()
	tests := []struct {
		mode string
		want bool
	}{
		{"on", true},
		{"YES", true},
		{"off", false},
		{"0", false},
	}
	for _, tc := range tests {
		got, err := resolveOSC8(tc.mode)
		if err != nil {
			t.Fatalf("resolveOSC8(%q): %v", tc.mode, err)
		}
		if got != tc.want {
			t.Fatalf("resolveOSC8(%q) = %v, want %v", tc.mode, got, tc.want)
		}
	}
	if _, err := resolveOSC8("sometimes"); err == nil {
		t.Fatal("expected error for invalid mode")
	}
}

func TestRenderToFormats(t *testing.T) {
	rf := &renderFlags{themeName: "default", width: 40, osc8: "off", boring: true}
	tokens, err := rf.tokenize([]byte("# Title\n\n```go\nx := 1\n```\n"))
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}

	var ansi bytes.Buffer
	if err := renderTo(&ansi, tokens, "ansi", rf); err != nil {
		t.Fatalf("ansi: %v", err)
	}
	if !strings.Contains(ansi.String(), "# Title") || !strings.Contains(ansi.String(), "x := 1") {
		t.Fatalf("unexpected ansi output:\n%s", ansi.String())
	}
	if strings.Contains(ansi.String(), "\x1b[") {
		t.Fatalf("boring output should not contain escapes:\n%q", ansi.String())
	}

	var html bytes.Buffer
	if err := renderTo(&html, tokens, "html", rf); err != nil {
		t.Fatalf("html: %v", err)
	}
	if !strings.Contains(html.String(), "<h1>Title</h1>") || !strings.Contains(html.String(), `data-action="applyCode"`) {
		t.Fatalf("unexpected html output:\n%s", html.String())
	}

	var out bytes.Buffer
	if err := renderTo(&out, tokens, "tokens", rf); err != nil {
		t.Fatalf("tokens: %v", err)
	}
	rf.tokens = true
	decoded, err := rf.tokenize(out.Bytes())
	if err != nil {
		t.Fatalf("decode re-encoded tokens: %v", err)
	}
	if len(decoded) != len(tokens) {
		t.Fatalf("expected %d tokens, got %d", len(tokens), len(decoded))
	}

	if err := renderTo(io.Discard, tokens, "pdf", rf); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestThemeSuggestion(t *testing.T) {
	rf := &renderFlags{themeName: "drakula"}
	_, err := rf.theme()
	if err == nil || !strings.Contains(err.Error(), `"dracula"`) {
		t.Fatalf("expected suggestion for dracula, got %v", err)
	}
}

func TestStrictTokens(t *testing.T) {
	rf := &renderFlags{tokens: true, strict: true}
	_, err := rf.tokenize([]byte(`[{"type":"heading","depth":9,"text":"x"}]`))
	if err == nil {
		t.Fatal("expected strict decode error")
	}
	rf.strict = false
	tokens, err := rf.tokenize([]byte(`[{"type":"heading","depth":9,"text":"x"}]`))
	if err != nil {
		t.Fatalf("lenient decode: %v", err)
	}
	if _, ok := tokens[0].(*mdview.Unknown); !ok {
		t.Fatalf("expected flagged token, got %T", tokens[0])
	}
}

func TestResolveBridge(t *testing.T) {
	b, err := resolveBridge("none")
	if err != nil || b != nil {
		t.Fatalf("none: got %v, %v", b, err)
	}
	b, err = resolveBridge("stdout")
	if err != nil {
		t.Fatalf("stdout: %v", err)
	}
	if _, ok := b.(*bridge.Writer); !ok {
		t.Fatalf("stdout: got %T", b)
	}
	b, err = resolveBridge("http://127.0.0.1:9/apply")
	if err != nil {
		t.Fatalf("http: %v", err)
	}
	if _, ok := b.(*bridge.HTTP); !ok {
		t.Fatalf("http: got %T", b)
	}
	if _, err := resolveBridge("gopher://x"); err == nil {
		t.Fatal("expected error for unsupported scheme")
	}
}

func TestParseTraceLevel(t *testing.T) {
	for _, in := range []string{"Debug", "info", "ERROR", ""} {
		if _, _, err := parseTraceLevel(in); err != nil {
			t.Fatalf("parseTraceLevel(%q): %v", in, err)
		}
	}
	if _, _, err := parseTraceLevel("loud"); err == nil {
		t.Fatal("expected error")
	}
}
