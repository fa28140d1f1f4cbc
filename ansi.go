package mdview

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/ansi"
)

const ansiReset = "\x1b[0m"

const defaultRuleWidth = 40

// RenderRequest configures Render.
type RenderRequest struct {
	Tokens  []Token
	Bridge  Bridge
	Writer  io.Writer
	Width   int
	Theme   Theme
	Options []RenderOption
}

// Render maps tokens to a view tree and writes it as ANSI text.
func Render(req RenderRequest) error {
	if req.Writer == nil {
		return fmt.Errorf("render: writer is nil")
	}
	nodes := View(req.Tokens, req.Bridge)
	if err := WriteANSI(req.Writer, nodes, req.Width, req.Theme, req.Options...); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// WriteANSI writes a view tree as styled terminal text wrapped to width. A
// width of zero disables wrapping; a nil theme uses DefaultTheme.
func WriteANSI(w io.Writer, nodes []*Node, width int, theme Theme, opts ...RenderOption) error {
	_, err := io.WriteString(w, FormatANSI(nodes, width, theme, opts...))
	return err
}

// FormatANSI is WriteANSI into a string.
func FormatANSI(nodes []*Node, width int, theme Theme, opts ...RenderOption) string {
	p := newPrinter(width, theme, opts)
	lines := p.blocks(nodes, width, true)
	if len(lines) == 0 {
		return ""
	}
	return resolveLinkMarkers(strings.Join(lines, "\n")+"\n", p.links)
}

type printer struct {
	width  int
	styles Styles
	cfg    renderConfig
	links  []string
}

func newPrinter(width int, theme Theme, opts []RenderOption) *printer {
	if theme == nil {
		theme = DefaultTheme()
	}
	p := &printer{width: width, styles: theme.Styles()}
	for _, opt := range opts {
		if opt != nil {
			opt(&p.cfg)
		}
	}
	return p
}

func paint(st Style, s string) string {
	if st.Prefix == "" || s == "" {
		return s
	}
	return st.Prefix + s + ansiReset
}

func (st Style) with(inner Style) Style {
	return Style{Prefix: st.Prefix + inner.Prefix}
}

// blocks lays out a sequence of sibling nodes. Runs of inline nodes are
// flowed together as one paragraph.
func (p *printer) blocks(nodes []*Node, width int, spaced bool) []string {
	var out []string
	var run []*Node
	emit := func(lines []string) {
		if len(lines) == 0 {
			return
		}
		if spaced && len(out) > 0 {
			out = append(out, "")
		}
		out = append(out, lines...)
	}
	flush := func() {
		if len(run) == 0 {
			return
		}
		text := p.inline(run, p.styles.Text)
		run = run[:0]
		if strings.TrimSpace(xansi.Strip(text)) == "" {
			return
		}
		emit(splitLines(wrapText(text, width)))
	}
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if !n.Kind.Block() {
			run = append(run, n)
			continue
		}
		flush()
		emit(p.block(n, width))
	}
	flush()
	return out
}

func (p *printer) block(n *Node, width int) []string {
	switch n.Kind {
	case NodeParagraph:
		return splitLines(wrapText(p.inline(n.Children, p.styles.Text), width))
	case NodeHeading:
		st := p.styles.Heading[clampDepth(n.Level)-1]
		marker := paint(st, strings.Repeat("#", clampDepth(n.Level))+" ")
		return splitLines(wrapText(marker+p.inline(n.Children, st), width))
	case NodeRule:
		w := width
		if w <= 0 {
			w = defaultRuleWidth
		}
		return []string{paint(p.styles.ThematicBreak, strings.Repeat("─", w))}
	case NodeQuote:
		return p.prefixed(p.blocks(n.Children, shrink(width, 2), true), paint(p.styles.Quote, "│ "), paint(p.styles.Quote, "│"))
	case NodeList:
		return p.list(n, width)
	case NodeCodeBlock:
		return p.codeBlock(n, width)
	case NodePre:
		return p.preformatted(n.Text, p.styles.CodeBlock, "  ")
	case NodeHTMLBlock:
		return p.preformatted(n.Text, p.styles.HTML, "")
	case NodeTable:
		return p.table(n, width)
	case NodeFallback:
		lines := []string{paint(p.styles.FallbackLabel, n.Label)}
		return append(lines, p.preformatted(n.Text, p.styles.Fallback, "")...)
	case NodeListItem:
		return p.blocks(n.Children, width, false)
	default:
		return splitLines(wrapText(p.inline([]*Node{n}, p.styles.Text), width))
	}
}

func (p *printer) prefixed(lines []string, prefix, blank string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if line == "" {
			out[i] = blank
			continue
		}
		out[i] = prefix + line
	}
	return out
}

func (p *printer) list(n *Node, width int) []string {
	markers := make([]string, len(n.Children))
	markerWidth := 0
	for i := range n.Children {
		m := "•"
		if n.Ordered {
			m = strconv.Itoa(n.Start+i) + "."
		}
		markers[i] = m
		if w := ansi.PrintableRuneWidth(m); w > markerWidth {
			markerWidth = w
		}
	}
	var out []string
	for i, item := range n.Children {
		hang := strings.Repeat(" ", markerWidth+1)
		lead := paint(p.styles.ListMarker, padCell(markers[i], markerWidth, AlignRight)) + " "
		children := item.Children
		box := ""
		if len(children) > 0 && children[0].Kind == NodeCheckbox {
			box = p.checkbox(children[0])
			children = children[1:]
		}
		lines := p.blocks(children, shrink(width, markerWidth+1), false)
		if len(lines) == 0 {
			lines = []string{""}
		}
		if box != "" {
			if len(children) > 0 && children[0].Kind.Block() {
				lines = append([]string{box}, lines...)
			} else {
				lines[0] = box + " " + lines[0]
			}
		}
		for j, line := range lines {
			if j == 0 {
				out = append(out, lead+line)
				continue
			}
			if line == "" {
				out = append(out, "")
				continue
			}
			out = append(out, hang+line)
		}
	}
	return out
}

func (p *printer) checkbox(n *Node) string {
	if n.Checked {
		return paint(p.styles.Checkbox, "[x]")
	}
	return paint(p.styles.Checkbox, "[ ]")
}

func (p *printer) codeBlock(n *Node, width int) []string {
	var header []string
	var body []string
	for _, c := range n.Children {
		switch c.Kind {
		case NodeApplyButton:
			header = append(header, p.applyButton(c))
		case NodePre:
			body = append(body, p.preformatted(c.Text, p.styles.CodeBlock, "  ")...)
		}
	}
	if n.Label != "" {
		label := n.Label
		if width > 0 {
			label = truncateWithEllipsis(label, shrink(width, 14))
		}
		header = append(header, paint(p.styles.CodeLabel, label))
	}
	lines := []string{strings.Join(header, "  ")}
	return append(lines, body...)
}

func (p *printer) applyButton(n *Node) string {
	focus := "  "
	if p.cfg.focused != nil && n.Action == p.cfg.focused {
		focus = "▶ "
	}
	if p.pending(n.Action) {
		return focus + paint(p.styles.ApplyPending, "[ "+applyingLabel+" ]")
	}
	return focus + paint(p.styles.ApplyButton, "[ Apply ]")
}

// pending reports whether a control is mid-Click or was marked pending by the
// caller before its Click started.
func (p *printer) pending(c *ApplyControl) bool {
	if c == nil {
		return false
	}
	return c.Pending() || c == p.cfg.pending
}

func (p *printer) preformatted(text string, st Style, indent string) []string {
	text = strings.TrimSuffix(text, "\n")
	raw := strings.Split(text, "\n")
	out := make([]string, len(raw))
	for i, line := range raw {
		line = strings.ReplaceAll(sanitizeText(strings.TrimSuffix(line, "\r")), "\t", "    ")
		out[i] = indent + paint(st, line)
	}
	return out
}

func (p *printer) table(n *Node, width int) []string {
	var rows [][]*Node
	header := 0
	for _, section := range n.Children {
		for _, row := range section.Children {
			rows = append(rows, row.Children)
		}
		if section.Kind == NodeTableHead {
			header = len(rows)
		}
	}
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return nil
	}
	aligns := make([]Align, cols)
	for _, row := range rows {
		for i, cell := range row {
			if aligns[i] == AlignNone {
				aligns[i] = cell.Align
			}
		}
	}
	cells := make([][]string, len(rows))
	widths := make([]int, cols)
	for r, row := range rows {
		cells[r] = make([]string, cols)
		for c, cell := range row {
			st := p.styles.Text
			if r < header {
				st = p.styles.TableHeader
			}
			text := strings.ReplaceAll(p.inline(cell.Children, st), "\n", " ")
			cells[r][c] = text
			if w := ansi.PrintableRuneWidth(text); w > widths[c] {
				widths[c] = w
			}
		}
	}
	if width > 0 {
		fitColumns(widths, width-(3*cols+1))
		for r := range cells {
			for c, text := range cells[r] {
				if ansi.PrintableRuneWidth(text) > widths[c] {
					cells[r][c] = truncateWithEllipsis(xansi.Strip(text), widths[c])
				}
			}
		}
	}
	border := func(left, mid, right string) string {
		parts := make([]string, cols)
		for i, w := range widths {
			parts[i] = strings.Repeat("─", w+2)
		}
		return paint(p.styles.TableBorder, left+strings.Join(parts, mid)+right)
	}
	bar := paint(p.styles.TableBorder, "│")
	out := []string{border("┌", "┬", "┐")}
	for r := range cells {
		var b strings.Builder
		b.WriteString(bar)
		for c := range cells[r] {
			b.WriteString(" ")
			b.WriteString(padCell(cells[r][c], widths[c], aligns[c]))
			b.WriteString(" ")
			b.WriteString(bar)
		}
		out = append(out, b.String())
		if r == header-1 && r < len(cells)-1 {
			out = append(out, border("├", "┼", "┤"))
		}
	}
	return append(out, border("└", "┴", "┘"))
}

// fitColumns narrows the widest columns until the sum fits budget, keeping
// every column at least three cells wide.
func fitColumns(widths []int, budget int) {
	const minCol = 3
	for {
		total, widest := 0, -1
		for i, w := range widths {
			total += w
			if w > minCol && (widest < 0 || w > widths[widest]) {
				widest = i
			}
		}
		if total <= budget || widest < 0 {
			return
		}
		widths[widest]--
	}
}

func (p *printer) inline(nodes []*Node, base Style) string {
	var b strings.Builder
	for _, n := range nodes {
		p.inlineNode(&b, n, base)
	}
	return b.String()
}

func (p *printer) inlineNode(b *strings.Builder, n *Node, base Style) {
	if n == nil {
		return
	}
	switch n.Kind {
	case NodeText:
		b.WriteString(paint(base, sanitizeText(n.Text)))
		b.WriteString(p.inline(n.Children, base))
	case NodeStrong:
		b.WriteString(p.inline(n.Children, base.with(p.styles.Strong)))
	case NodeEmphasis:
		b.WriteString(p.inline(n.Children, base.with(p.styles.Emphasis)))
	case NodeDelete:
		b.WriteString(p.inline(n.Children, base.with(p.styles.Delete)))
	case NodeCode:
		b.WriteString(paint(base.with(p.styles.CodeInline), sanitizeText(n.Text)))
	case NodeBreak:
		b.WriteString("\n")
	case NodeCheckbox:
		b.WriteString(p.checkbox(n))
		b.WriteString(" ")
	case NodeLink:
		p.link(b, n, base)
	case NodeImage:
		alt := sanitizeText(n.Text)
		if alt == "" {
			alt = "image"
		}
		label := paint(base.with(p.styles.Image), "[image: "+alt+"]")
		if p.cfg.osc8 && n.Href != "" {
			b.WriteString(p.hyperlink(sanitizeText(n.Href), label))
			return
		}
		b.WriteString(label)
		if n.Href != "" {
			b.WriteString(paint(p.styles.LinkURL, " ("+sanitizeText(n.Href)+")"))
		}
	default:
		for i, line := range p.block(n, 0) {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(line)
		}
	}
}

func (p *printer) link(b *strings.Builder, n *Node, base Style) {
	text := p.inline(n.Children, base.with(p.styles.LinkText))
	href := sanitizeText(n.Href)
	if p.cfg.osc8 && href != "" {
		b.WriteString(p.hyperlink(href, text))
		return
	}
	b.WriteString(text)
	if href == "" || xansi.Strip(text) == href {
		return
	}
	b.WriteString(paint(base.with(p.styles.LinkURL), " ("+fitURL(href, shrink(p.width, 4))+")"))
}

func (p *printer) hyperlink(url, text string) string {
	p.links = append(p.links, url)
	return linkOpenMarker(len(p.links)) + text + linkCloseMarker
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func shrink(width, by int) int {
	if width <= 0 {
		return width
	}
	if width-by < 1 {
		return 1
	}
	return width - by
}
