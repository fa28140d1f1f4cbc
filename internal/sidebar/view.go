package sidebar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	var b strings.Builder

	header := titleStyle.Render(m.title)
	info := fmt.Sprintf("  %d code block(s)", len(m.controls))
	if m.streaming {
		info += pendingStyle.Render("  receiving…")
	}
	b.WriteString(header + subtitleStyle.Render(info) + "\n")

	body := m.visibleLines()
	panel := panelStyle.Width(m.contentWidth() + 2).Render(strings.Join(body, "\n"))
	b.WriteString(panel + "\n")

	b.WriteString(m.footer())
	return b.String()
}

func (m Model) visibleLines() []string {
	h := m.bodyHeight()
	out := make([]string, 0, h)
	for i := m.scroll; i < len(m.lines) && len(out) < h; i++ {
		out = append(out, m.lines[i])
	}
	for len(out) < h {
		out = append(out, "")
	}
	return out
}

func (m Model) footer() string {
	help := helpStyle.Render("j/k scroll  tab next block  a apply  q quit")
	var status string
	switch {
	case m.err != nil:
		status = errStyle.Render("Error: " + m.err.Error())
	case m.applying != nil:
		status = pendingStyle.Render(m.status)
	case strings.HasPrefix(m.status, "Apply failed"), m.status == "Apply already in flight":
		status = errStyle.Render(m.status)
	case m.status != "":
		status = okStyle.Render(m.status)
	}
	if status == "" {
		return help
	}
	gap := m.width - lipgloss.Width(help) - lipgloss.Width(status)
	if gap < 2 {
		gap = 2
	}
	return help + strings.Repeat(" ", gap) + status
}
