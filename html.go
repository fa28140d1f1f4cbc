package mdview

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// WriteHTML writes a view tree as an HTML fragment. Raw HTML tokens are
// never passed through; they appear as escaped text inside a pre element.
func WriteHTML(w io.Writer, nodes []*Node) error {
	var b htmlBuilder
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if err := html.Render(w, b.node(n)); err != nil {
			return fmt.Errorf("html: %w", err)
		}
		if n.Kind.Block() {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return fmt.Errorf("html: %w", err)
			}
		}
	}
	return nil
}

// FormatHTML is WriteHTML into a string.
func FormatHTML(nodes []*Node) (string, error) {
	var b strings.Builder
	if err := WriteHTML(&b, nodes); err != nil {
		return "", err
	}
	return b.String(), nil
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: sanitizeText(s)}
}

// htmlBuilder numbers Apply buttons in document order, matching the index
// of their control in ApplyControls.
type htmlBuilder struct {
	applies int
}

func (b *htmlBuilder) appendChildren(parent *html.Node, children []*Node) *html.Node {
	for _, c := range children {
		if c == nil {
			continue
		}
		parent.AppendChild(b.node(c))
	}
	return parent
}

func (b *htmlBuilder) node(n *Node) *html.Node {
	switch n.Kind {
	case NodeText:
		if len(n.Children) == 0 {
			return textNode(n.Text)
		}
		span := element(atom.Span)
		if n.Text != "" {
			span.AppendChild(textNode(n.Text))
		}
		return b.appendChildren(span, n.Children)
	case NodeCodeBlock:
		return b.codeBlock(n)
	case NodeApplyButton:
		return b.applyButton(n)
	case NodePre:
		pre := element(atom.Pre)
		code := element(atom.Code)
		code.AppendChild(textNode(n.Text))
		pre.AppendChild(code)
		return pre
	case NodeHeading:
		return b.appendChildren(element(headingAtom(n.Level)), n.Children)
	case NodeTable:
		return b.appendChildren(element(atom.Table), n.Children)
	case NodeTableHead:
		return b.appendChildren(element(atom.Thead), n.Children)
	case NodeTableBody:
		return b.appendChildren(element(atom.Tbody), n.Children)
	case NodeTableRow:
		return b.appendChildren(element(atom.Tr), n.Children)
	case NodeTableHeaderCell:
		return b.appendChildren(element(atom.Th, attr("style", "text-align: "+n.Align.String())), n.Children)
	case NodeTableCell:
		return b.appendChildren(element(atom.Td, attr("style", "text-align: "+n.Align.String())), n.Children)
	case NodeRule:
		return element(atom.Hr)
	case NodeQuote:
		return b.appendChildren(element(atom.Blockquote), n.Children)
	case NodeList:
		if n.Ordered {
			var attrs []html.Attribute
			if n.Start != 1 {
				attrs = append(attrs, attr("start", strconv.Itoa(n.Start)))
			}
			return b.appendChildren(element(atom.Ol, attrs...), n.Children)
		}
		return b.appendChildren(element(atom.Ul), n.Children)
	case NodeListItem:
		return b.appendChildren(element(atom.Li), n.Children)
	case NodeCheckbox:
		attrs := []html.Attribute{attr("type", "checkbox")}
		if n.Checked {
			attrs = append(attrs, attr("checked", ""))
		}
		if n.ReadOnly {
			attrs = append(attrs, attr("disabled", ""))
		}
		return element(atom.Input, attrs...)
	case NodeParagraph:
		return b.appendChildren(element(atom.P), n.Children)
	case NodeHTMLBlock:
		pre := element(atom.Pre, attr("class", "raw-html"))
		pre.AppendChild(textNode(n.Text))
		return pre
	case NodeLink:
		attrs := []html.Attribute{attr("href", n.Href)}
		if n.Title != "" {
			attrs = append(attrs, attr("title", n.Title))
		}
		return b.appendChildren(element(atom.A, attrs...), n.Children)
	case NodeImage:
		attrs := []html.Attribute{attr("src", n.Href), attr("alt", n.Text)}
		if n.Title != "" {
			attrs = append(attrs, attr("title", n.Title))
		}
		return element(atom.Img, attrs...)
	case NodeStrong:
		return b.appendChildren(element(atom.Strong), n.Children)
	case NodeEmphasis:
		return b.appendChildren(element(atom.Em), n.Children)
	case NodeCode:
		code := element(atom.Code)
		code.AppendChild(textNode(n.Text))
		return code
	case NodeDelete:
		return b.appendChildren(element(atom.Del), n.Children)
	case NodeBreak:
		return element(atom.Br)
	case NodeFallback:
		div := element(atom.Div, attr("class", "unknown-token"))
		label := element(atom.Strong)
		label.AppendChild(textNode(n.Label))
		div.AppendChild(label)
		pre := element(atom.Pre)
		pre.AppendChild(textNode(n.Text))
		div.AppendChild(pre)
		return div
	}
	return textNode(n.TextContent())
}

func (b *htmlBuilder) codeBlock(n *Node) *html.Node {
	attrs := []html.Attribute{attr("class", "code-block")}
	if n.Lang != "" {
		attrs = append(attrs, attr("data-lang", n.Lang))
	}
	div := element(atom.Div, attrs...)
	for _, c := range n.Children {
		switch c.Kind {
		case NodeApplyButton:
			div.AppendChild(b.applyButton(c))
		case NodePre:
			pre := element(atom.Pre)
			codeAttrs := []html.Attribute(nil)
			if n.Lang != "" {
				codeAttrs = append(codeAttrs, attr("class", "language-"+strings.ToLower(n.Lang)))
			}
			code := element(atom.Code, codeAttrs...)
			code.AppendChild(textNode(c.Text))
			pre.AppendChild(code)
			div.AppendChild(pre)
		default:
			div.AppendChild(b.node(c))
		}
	}
	if n.Label != "" {
		label := element(atom.Span, attr("class", "code-label"))
		label.AppendChild(textNode(n.Label))
		div.InsertBefore(label, div.FirstChild)
	}
	return div
}

func (b *htmlBuilder) applyButton(n *Node) *html.Node {
	attrs := []html.Attribute{
		attr("type", "button"),
		attr("data-action", MessageApplyCode),
		attr("data-key", strconv.Itoa(b.applies)),
	}
	b.applies++
	label := "Apply"
	if n.Action != nil {
		label = n.Action.Label()
		if n.Action.Pending() {
			attrs = append(attrs, attr("disabled", ""))
		}
	}
	button := element(atom.Button, attrs...)
	button.AppendChild(textNode(label))
	return button
}

func headingAtom(level int) atom.Atom {
	switch clampDepth(level) {
	case 1:
		return atom.H1
	case 2:
		return atom.H2
	case 3:
		return atom.H3
	case 4:
		return atom.H4
	case 5:
		return atom.H5
	}
	return atom.H6
}
