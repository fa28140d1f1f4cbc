// Package lex turns markdown source into the token list mdview renders.
//
// It is the tokenizer the renderer expects to sit in front of it: goldmark
// with the GFM extensions does the parsing and the resulting AST is mapped
// onto the marked-style token grammar, block tokens carrying inline children.
package lex

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"pkt.systems/mdview"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Markdown tokenizes src. Front matter is stripped first.
func Markdown(src []byte) ([]mdview.Token, error) {
	if err := mdview.ValidateInput(src); err != nil {
		return nil, fmt.Errorf("lex: %w", err)
	}
	src = StripFrontMatter(src)
	doc := markdown.Parser().Parse(text.NewReader(src))
	l := lexer{src: src}
	return l.blocks(doc), nil
}

type lexer struct {
	src []byte
}

func (l lexer) blocks(parent ast.Node) []mdview.Token {
	var out []mdview.Token
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		if n.HasBlankPreviousLines() && n.PreviousSibling() != nil {
			out = append(out, &mdview.Space{Raw: "\n"})
		}
		if tok := l.block(n); tok != nil {
			out = append(out, tok)
		}
	}
	return out
}

func (l lexer) block(n ast.Node) mdview.Token {
	switch n := n.(type) {
	case *ast.Heading:
		txt := l.plain(n)
		return &mdview.Heading{
			Raw:    l.headingRaw(n, txt),
			Depth:  n.Level,
			Text:   txt,
			Tokens: l.inlines(n),
		}
	case *ast.Paragraph:
		return &mdview.Paragraph{Raw: l.raw(n), Text: l.plain(n), Tokens: l.inlines(n)}
	case *ast.TextBlock:
		return &mdview.Text{Raw: l.raw(n), Text: l.plain(n), Tokens: l.inlines(n)}
	case *ast.ThematicBreak:
		return &mdview.Rule{Raw: l.raw(n)}
	case *ast.FencedCodeBlock:
		code := strings.TrimSuffix(l.lines(n), "\n")
		return &mdview.Code{Raw: l.raw(n), Lang: string(n.Language(l.src)), Text: code}
	case *ast.CodeBlock:
		code := strings.TrimSuffix(l.lines(n), "\n")
		return &mdview.Code{Raw: l.raw(n), Text: code}
	case *ast.Blockquote:
		return &mdview.Blockquote{Raw: l.raw(n), Text: l.plain(n), Tokens: l.blocks(n)}
	case *ast.List:
		return l.list(n)
	case *ast.HTMLBlock:
		raw := l.lines(n)
		if n.HasClosure() {
			raw += string(n.ClosureLine.Value(l.src))
		}
		return &mdview.HTML{Raw: raw, Block: true}
	case *east.Table:
		return l.table(n)
	default:
		return &mdview.Unknown{Type: strings.ToLower(n.Kind().String()), Raw: l.raw(n)}
	}
}

func (l lexer) list(n *ast.List) mdview.Token {
	list := &mdview.List{
		Raw:     l.raw(n),
		Ordered: n.IsOrdered(),
		Loose:   !n.IsTight,
	}
	if list.Ordered {
		list.Start, list.HasStart = n.Start, true
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		item := mdview.ListItem{Raw: l.raw(c), Loose: list.Loose}
		if box := taskCheckBox(c); box != nil {
			item.Task, item.Checked = true, box.IsChecked
		}
		item.Text = strings.TrimSpace(l.plain(c))
		item.Tokens = l.blocks(c)
		list.Items = append(list.Items, item)
	}
	return list
}

func taskCheckBox(item ast.Node) *east.TaskCheckBox {
	first := item.FirstChild()
	if first == nil {
		return nil
	}
	box, _ := first.FirstChild().(*east.TaskCheckBox)
	return box
}

func (l lexer) table(n *east.Table) mdview.Token {
	t := &mdview.Table{Raw: l.raw(n)}
	for _, a := range n.Alignments {
		t.Align = append(t.Align, alignment(a))
	}
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []mdview.TableCell
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, mdview.TableCell{Text: strings.TrimSpace(l.plain(cell)), Tokens: l.inlines(cell)})
		}
		if _, ok := row.(*east.TableHeader); ok {
			t.Header = cells
			continue
		}
		t.Rows = append(t.Rows, cells)
	}
	if len(t.Align) > len(t.Header) {
		t.Align = t.Align[:len(t.Header)]
	}
	return t
}

func alignment(a east.Alignment) mdview.Align {
	switch a {
	case east.AlignLeft:
		return mdview.AlignLeft
	case east.AlignCenter:
		return mdview.AlignCenter
	case east.AlignRight:
		return mdview.AlignRight
	}
	return mdview.AlignNone
}

func (l lexer) inlines(parent ast.Node) []mdview.Token {
	var out []mdview.Token
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		out = append(out, l.inline(n)...)
	}
	return out
}

func (l lexer) inline(n ast.Node) []mdview.Token {
	switch n := n.(type) {
	case *ast.Text:
		raw := string(n.Segment.Value(l.src))
		txt := unescape(n.Segment.Value(l.src))
		var out []mdview.Token
		if n.SoftLineBreak() {
			raw += "\n"
			txt += "\n"
		}
		out = append(out, &mdview.Text{Raw: raw, Text: txt})
		if n.HardLineBreak() {
			out = append(out, &mdview.Break{Raw: "\n"})
		}
		return out
	case *ast.String:
		s := string(n.Value)
		return []mdview.Token{&mdview.Text{Raw: s, Text: s}}
	case *ast.CodeSpan:
		return []mdview.Token{&mdview.Codespan{Raw: "`" + l.plain(n) + "`", Text: l.plain(n)}}
	case *ast.Emphasis:
		txt := l.plain(n)
		if n.Level >= 2 {
			return []mdview.Token{&mdview.Strong{Raw: "**" + txt + "**", Text: txt, Tokens: l.inlines(n)}}
		}
		return []mdview.Token{&mdview.Em{Raw: "*" + txt + "*", Text: txt, Tokens: l.inlines(n)}}
	case *east.Strikethrough:
		txt := l.plain(n)
		return []mdview.Token{&mdview.Del{Raw: "~~" + txt + "~~", Text: txt, Tokens: l.inlines(n)}}
	case *ast.Link:
		txt := l.plain(n)
		return []mdview.Token{&mdview.Link{
			Raw:    "[" + txt + "](" + string(n.Destination) + ")",
			Href:   string(n.Destination),
			Title:  string(n.Title),
			Text:   txt,
			Tokens: l.inlines(n),
		}}
	case *ast.Image:
		alt := l.plain(n)
		return []mdview.Token{&mdview.Image{
			Raw:   "![" + alt + "](" + string(n.Destination) + ")",
			Href:  string(n.Destination),
			Title: string(n.Title),
			Text:  alt,
		}}
	case *ast.AutoLink:
		label := string(n.Label(l.src))
		return []mdview.Token{&mdview.Link{
			Raw:    label,
			Href:   string(n.URL(l.src)),
			Text:   label,
			Tokens: []mdview.Token{&mdview.Text{Raw: label, Text: label}},
		}}
	case *ast.RawHTML:
		var b strings.Builder
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			b.Write(seg.Value(l.src))
		}
		return []mdview.Token{&mdview.HTML{Raw: b.String()}}
	case *east.TaskCheckBox:
		return nil
	default:
		txt := l.plain(n)
		return []mdview.Token{&mdview.Text{Raw: txt, Text: txt}}
	}
}

// plain is the visible text of n with markup removed.
func (l lexer) plain(n ast.Node) string {
	var b strings.Builder
	l.appendPlain(&b, n)
	return strings.TrimRight(b.String(), "\n")
}

func (l lexer) appendPlain(b *strings.Builder, n ast.Node) {
	switch n := n.(type) {
	case *ast.Text:
		b.WriteString(unescape(n.Segment.Value(l.src)))
		if n.SoftLineBreak() || n.HardLineBreak() {
			b.WriteByte('\n')
		}
		return
	case *ast.String:
		b.Write(n.Value)
		return
	case *ast.AutoLink:
		b.Write(n.Label(l.src))
		return
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		b.WriteString(l.lines(n))
		return
	case *east.TaskCheckBox, *ast.RawHTML:
		return
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if c.Type() == ast.TypeBlock && c.PreviousSibling() != nil {
			b.WriteByte('\n')
		}
		l.appendPlain(b, c)
	}
}

func (l lexer) lines(n ast.Node) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(l.src))
	}
	return b.String()
}

// raw returns the source lines spanned by n and its descendants.
func (l lexer) raw(n ast.Node) string {
	start, stop := l.span(n)
	if start < 0 {
		return ""
	}
	return string(l.src[start:stop])
}

// headingRaw is the heading source as written. Setext headings get their
// underline line back, which goldmark leaves out of the block's lines.
func (l lexer) headingRaw(n *ast.Heading, txt string) string {
	start, stop := l.span(n)
	if start < 0 {
		return strings.Repeat("#", n.Level) + " " + txt
	}
	if content := n.Lines().At(0).Start; bytes.HasSuffix(bytes.TrimRight(l.src[start:content], " \t"), []byte("#")) {
		return strings.TrimRight(string(l.src[start:stop]), "\r\n")
	}
	underline := stop
	if stop == 0 || l.src[stop-1] != '\n' {
		i := bytes.IndexByte(l.src[stop:], '\n')
		if i < 0 {
			return strings.TrimRight(string(l.src[start:stop]), "\r\n")
		}
		underline = stop + i + 1
	}
	end := len(l.src)
	if i := bytes.IndexByte(l.src[underline:], '\n'); i >= 0 {
		end = underline + i
	}
	return strings.TrimRight(string(l.src[start:end]), "\r\n")
}

// span is the byte range of n's block lines, widened to start of line.
func (l lexer) span(n ast.Node) (int, int) {
	start, stop := -1, -1
	var visit func(ast.Node)
	visit = func(c ast.Node) {
		if c.Type() == ast.TypeBlock {
			lines := c.Lines()
			if lines.Len() > 0 {
				first, last := lines.At(0), lines.At(lines.Len()-1)
				if start < 0 || first.Start < start {
					start = first.Start
				}
				if last.Stop > stop {
					stop = last.Stop
				}
			}
		}
		for cc := c.FirstChild(); cc != nil; cc = cc.NextSibling() {
			visit(cc)
		}
	}
	visit(n)
	if start < 0 || stop > len(l.src) {
		return -1, -1
	}
	if i := bytes.LastIndexByte(l.src[:start], '\n'); i >= 0 {
		start = i + 1
	} else {
		start = 0
	}
	return start, stop
}

func unescape(b []byte) string {
	return string(util.UnescapePunctuations(b))
}
