package mdview

import (
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/lexers"
	"github.com/dustin/go-humanize"
)

// Renderer maps tokens to view nodes. It holds no mutable state; the Bridge is
// handed to the Apply control of every code block it renders.
type Renderer struct {
	Bridge Bridge
}

// NewRenderer returns a Renderer whose Apply actions post to bridge. A nil
// bridge is allowed; Apply then fails with ErrNoBridge.
func NewRenderer(bridge Bridge) Renderer {
	return Renderer{Bridge: bridge}
}

// View renders tokens with a Renderer bound to bridge.
func View(tokens []Token, bridge Bridge) []*Node {
	return NewRenderer(bridge).RenderList(tokens)
}

// RenderList renders tokens in order. Each node's Key is the index of its
// token; tokens without visual output (definitions) leave a gap in the keys.
func (r Renderer) RenderList(tokens []Token) []*Node {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]*Node, 0, len(tokens))
	for i, tok := range tokens {
		n := r.Render(tok)
		if n == nil {
			continue
		}
		n.Key = i
		out = append(out, n)
	}
	return out
}

// Render maps a single token. It returns nil for tokens that produce no
// output. Unhandled kinds never fail: they come back as a NodeFallback
// showing the token's raw source.
func (r Renderer) Render(tok Token) *Node {
	switch t := tok.(type) {
	case nil:
		return nil
	case *Space:
		return &Node{Kind: NodeText, Text: t.Raw}
	case *Code:
		return r.codeBlock(t)
	case *Heading:
		return &Node{Kind: NodeHeading, Level: clampDepth(t.Depth), Children: r.inline(t.Tokens, t.Text)}
	case *Table:
		return r.table(t)
	case *Rule:
		return &Node{Kind: NodeRule}
	case *Blockquote:
		return &Node{Kind: NodeQuote, Children: r.inline(t.Tokens, t.Text)}
	case *List:
		return r.list(t)
	case *Paragraph:
		return &Node{Kind: NodeParagraph, Children: r.inline(t.Tokens, t.Text)}
	case *HTML:
		return &Node{Kind: NodeHTMLBlock, Text: "<html>" + t.Raw + "</html>"}
	case *Text:
		if len(t.Tokens) > 0 {
			return &Node{Kind: NodeText, Children: r.RenderList(t.Tokens)}
		}
		return &Node{Kind: NodeText, Text: firstNonEmpty(t.Raw, t.Text)}
	case *Escape:
		return &Node{Kind: NodeText, Text: firstNonEmpty(t.Raw, t.Text)}
	case *Def:
		return nil
	case *Link:
		return &Node{Kind: NodeLink, Href: t.Href, Title: t.Title, Children: r.inline(t.Tokens, t.Text)}
	case *Image:
		return &Node{Kind: NodeImage, Href: t.Href, Title: t.Title, Text: t.Text}
	case *Strong:
		return &Node{Kind: NodeStrong, Children: r.inline(t.Tokens, t.Text)}
	case *Em:
		return &Node{Kind: NodeEmphasis, Children: r.inline(t.Tokens, t.Text)}
	case *Codespan:
		return &Node{Kind: NodeCode, Text: t.Text}
	case *Del:
		return &Node{Kind: NodeDelete, Children: r.inline(t.Tokens, t.Text)}
	case *Break:
		return &Node{Kind: NodeBreak}
	case *Unknown:
		return fallback(t.Type, t.Raw, t.Err != nil)
	default:
		return fallback(string(tok.Kind()), tok.Source(), false)
	}
}

func fallback(kind, raw string, malformed bool) *Node {
	label := "Unknown type:"
	if malformed {
		label = "Malformed " + kind + ":"
	}
	return &Node{Kind: NodeFallback, Label: label, Text: raw}
}

// inline renders nested tokens when the tokenizer supplied them and falls
// back to the plain text otherwise.
func (r Renderer) inline(tokens []Token, text string) []*Node {
	if len(tokens) > 0 {
		return r.RenderList(tokens)
	}
	if text == "" {
		return nil
	}
	return []*Node{{Kind: NodeText, Text: text}}
}

func (r Renderer) codeBlock(t *Code) *Node {
	lang := canonicalLang(t.Lang)
	return &Node{
		Kind:  NodeCodeBlock,
		Lang:  lang,
		Label: codeLabel(lang, t.Text),
		Children: []*Node{
			{Kind: NodeApplyButton, Action: newApplyControl(t.Text, r.Bridge)},
			{Kind: NodePre, Text: t.Text},
		},
	}
}

func (r Renderer) table(t *Table) *Node {
	headRow := &Node{Kind: NodeTableRow}
	for i, cell := range t.Header {
		headRow.Children = append(headRow.Children, &Node{
			Kind:     NodeTableHeaderCell,
			Key:      i,
			Align:    columnAlign(t.Align, i),
			Children: r.inline(cell.Tokens, cell.Text),
		})
	}
	body := &Node{Kind: NodeTableBody, Key: 1}
	for ri, row := range t.Rows {
		tr := &Node{Kind: NodeTableRow, Key: ri}
		for ci, cell := range row {
			tr.Children = append(tr.Children, &Node{
				Kind:     NodeTableCell,
				Key:      ci,
				Align:    columnAlign(t.Align, ci),
				Children: r.inline(cell.Tokens, cell.Text),
			})
		}
		body.Children = append(body.Children, tr)
	}
	return &Node{
		Kind: NodeTable,
		Children: []*Node{
			{Kind: NodeTableHead, Children: []*Node{headRow}},
			body,
		},
	}
}

func (r Renderer) list(t *List) *Node {
	n := &Node{Kind: NodeList, Ordered: t.Ordered}
	if t.Ordered {
		n.Start = 1
		if t.HasStart {
			n.Start = t.Start
		}
	}
	for i, item := range t.Items {
		li := &Node{Kind: NodeListItem, Key: i}
		if item.Task {
			li.Children = append(li.Children, &Node{Kind: NodeCheckbox, Checked: item.Checked, ReadOnly: true})
		}
		li.Children = append(li.Children, r.inline(item.Tokens, item.Text)...)
		n.Children = append(n.Children, li)
	}
	return n
}

func columnAlign(aligns []Align, i int) Align {
	if i < len(aligns) && aligns[i] != AlignNone {
		return aligns[i]
	}
	return AlignLeft
}

func clampDepth(depth int) int {
	switch {
	case depth < 1:
		return 1
	case depth > 6:
		return 6
	}
	return depth
}

// canonicalLang maps a fence info string onto the lexer registry name so
// "golang" and "go" share a label. Unknown languages are kept verbatim.
func canonicalLang(info string) string {
	lang := strings.TrimSpace(info)
	if i := strings.IndexAny(lang, " \t{"); i >= 0 {
		lang = lang[:i]
	}
	if lang == "" {
		return ""
	}
	if lexer := lexers.Get(lang); lexer != nil {
		if cfg := lexer.Config(); cfg != nil && cfg.Name != "" {
			return cfg.Name
		}
	}
	return lang
}

func codeLabel(lang, text string) string {
	lines := strings.Count(text, "\n")
	if text != "" && !strings.HasSuffix(text, "\n") {
		lines++
	}
	unit := " lines"
	if lines == 1 {
		unit = " line"
	}
	parts := make([]string, 0, 3)
	if lang != "" {
		parts = append(parts, lang)
	}
	parts = append(parts, strconv.Itoa(lines)+unit, humanize.Bytes(uint64(len(text))))
	return strings.Join(parts, " · ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
