package sidebar

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"pkt.systems/mdview"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()

	case TokensMsg:
		m.setTokens(msg.Tokens)
		if msg.Done {
			m.streaming = false
		}

	case ErrMsg:
		m.err = msg.Err
		m.streaming = false
		tracer().Errorf("input: %v", msg.Err)

	case applyDoneMsg:
		m.applying = nil
		switch {
		case msg.err == nil:
			m.status = fmt.Sprintf("Applied block %d", msg.block)
			if msg.label != "" {
				m.status += " (" + msg.label + ")"
			}
			tracer().Infof("applied block %d", msg.block)
		case errors.Is(msg.err, mdview.ErrApplyPending):
			m.status = "Apply already in flight"
		default:
			m.status = "Apply failed: " + msg.err.Error()
			tracer().Errorf("apply block %d: %v", msg.block, msg.err)
		}
		m.layout()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "down", "j":
		m.scroll++
	case "up", "k":
		m.scroll--
	case "pgdown", " ":
		m.scroll += m.bodyHeight()
	case "pgup":
		m.scroll -= m.bodyHeight()
	case "home", "g":
		m.scroll = 0
	case "end", "G":
		m.scroll = len(m.lines)
	case "tab":
		if len(m.controls) > 0 {
			m.focus = (m.focus + 1) % len(m.controls)
			m.layout()
			m.revealFocus()
		}
	case "shift+tab":
		if len(m.controls) > 0 {
			m.focus = (m.focus + len(m.controls) - 1) % len(m.controls)
			m.layout()
			m.revealFocus()
		}
	case "a", "enter":
		if m.focused() == nil {
			m.status = "No code block to apply"
			return m, nil
		}
		if m.applying != nil {
			m.status = "Apply already in flight"
			return m, nil
		}
		m.applying = m.focused()
		m.status = "Applying…"
		m.layout()
		return m, m.apply(m.focus)
	}
	m.clampScroll()
	return m, nil
}

func (m Model) contentWidth() int {
	if w := m.width - 4; w > 10 {
		return w
	}
	return 10
}

func (m Model) bodyHeight() int {
	if h := m.height - 4; h > 1 {
		return h
	}
	return 1
}

// layout re-flows the rendered view for the current size and focus.
func (m *Model) layout() {
	opts := []mdview.RenderOption{mdview.WithOSC8(m.osc8)}
	if c := m.focused(); c != nil {
		opts = append(opts, mdview.WithFocus(c))
	}
	if m.applying != nil {
		opts = append(opts, mdview.WithPending(m.applying))
	}
	out := strings.TrimRight(mdview.FormatANSI(m.nodes, m.contentWidth(), m.theme, opts...), "\n")
	if out == "" {
		m.lines = nil
	} else {
		m.lines = strings.Split(out, "\n")
	}
	m.clampScroll()
}

func (m *Model) clampScroll() {
	maxScroll := len(m.lines) - m.bodyHeight()
	if m.scroll > maxScroll {
		m.scroll = maxScroll
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

// revealFocus scrolls the focused Apply button into view.
func (m *Model) revealFocus() {
	for i, line := range m.lines {
		if !strings.Contains(line, "▶ ") {
			continue
		}
		if i < m.scroll || i >= m.scroll+m.bodyHeight() {
			m.scroll = i
			m.clampScroll()
		}
		return
	}
}
