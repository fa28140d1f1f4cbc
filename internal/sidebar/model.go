// Package sidebar is the terminal panel that shows a rendered markdown
// response and lets the user apply its code blocks.
package sidebar

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/npillmayer/schuko/tracing"

	"pkt.systems/mdview"
)

// tracer traces with key 'mdview.sidebar'.
func tracer() tracing.Trace {
	return tracing.Select("mdview.sidebar")
}

// TokensMsg replaces the token list shown in the panel. Done marks the last
// message of a streamed response.
type TokensMsg struct {
	Tokens []mdview.Token
	Done   bool
}

// ErrMsg reports a failure of the input feeding the panel.
type ErrMsg struct {
	Err error
}

// applyDoneMsg names the block as it was when the key was pressed; a
// TokensMsg may replace the controls before the Click returns.
type applyDoneMsg struct {
	block int
	label string
	err   error
}

// Options configures New.
type Options struct {
	Title  string
	Tokens []mdview.Token
	Bridge mdview.Bridge
	Theme  mdview.Theme
	OSC8   bool
	// Streaming shows a waiting indicator until a TokensMsg with Done arrives.
	Streaming bool
}

// Model is the bubbletea model of the panel.
type Model struct {
	title  string
	bridge mdview.Bridge
	theme  mdview.Theme
	osc8   bool

	tokens   []mdview.Token
	nodes    []*mdview.Node
	controls []*mdview.ApplyControl
	lines    []string

	focus     int
	scroll    int
	width     int
	height    int
	ready     bool
	streaming bool
	applying  *mdview.ApplyControl
	status    string
	err       error
}

// New returns a panel showing opts.Tokens.
func New(opts Options) Model {
	theme := opts.Theme
	if theme == nil {
		theme = mdview.DefaultTheme()
	}
	title := opts.Title
	if title == "" {
		title = "mdview"
	}
	m := Model{
		title:     title,
		bridge:    opts.Bridge,
		theme:     theme,
		osc8:      opts.OSC8,
		streaming: opts.Streaming,
		width:     80,
		height:    24,
	}
	m.setTokens(opts.Tokens)
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// setTokens renders the view tree once per token list change.
func (m *Model) setTokens(tokens []mdview.Token) {
	m.tokens = tokens
	m.nodes = mdview.View(tokens, m.bridge)
	m.controls = mdview.ApplyControls(m.nodes)
	if m.focus >= len(m.controls) {
		m.focus = len(m.controls) - 1
	}
	if m.focus < 0 {
		m.focus = 0
	}
	m.layout()
}

func (m Model) focused() *mdview.ApplyControl {
	if m.focus < 0 || m.focus >= len(m.controls) {
		return nil
	}
	return m.controls[m.focus]
}

func (m Model) apply(index int) tea.Cmd {
	control := m.controls[index]
	done := applyDoneMsg{block: index + 1, label: codeLabel(m.nodes, control)}
	return func() tea.Msg {
		done.err = control.Click(context.Background())
		return done
	}
}

// codeLabel finds the label of the code block owning control.
func codeLabel(nodes []*mdview.Node, control *mdview.ApplyControl) string {
	var label string
	for _, n := range nodes {
		n.Walk(func(c *mdview.Node) bool {
			if label != "" || c.Kind != mdview.NodeCodeBlock {
				return label == ""
			}
			for _, child := range c.Children {
				if child.Action == control {
					label = c.Label
				}
			}
			return false
		})
	}
	return label
}
