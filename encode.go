package mdview

import (
	"encoding/json"
	"fmt"
)

type outCell struct {
	Text   string     `json:"text"`
	Tokens []outToken `json:"tokens,omitempty"`
}

type outToken struct {
	Type    string      `json:"type"`
	Raw     string      `json:"raw,omitempty"`
	Text    *string     `json:"text,omitempty"`
	Lang    string      `json:"lang,omitempty"`
	Depth   int         `json:"depth,omitempty"`
	Href    *string     `json:"href,omitempty"`
	Title   string      `json:"title,omitempty"`
	Tag     string      `json:"tag,omitempty"`
	Ordered bool        `json:"ordered,omitempty"`
	Start   any         `json:"start,omitempty"`
	Loose   bool        `json:"loose,omitempty"`
	Task    bool        `json:"task,omitempty"`
	Checked *bool       `json:"checked,omitempty"`
	Block   bool        `json:"block,omitempty"`
	Align   []*string   `json:"align,omitempty"`
	Header  []outCell   `json:"header,omitempty"`
	Rows    [][]outCell `json:"rows,omitempty"`
	Items   []outToken  `json:"items,omitempty"`
	Tokens  []outToken  `json:"tokens,omitempty"`
}

// EncodeTokens writes tokens in the grammar DecodeTokens reads. Flagged
// *Unknown tokens are written with their original type and raw text only.
func EncodeTokens(tokens []Token) ([]byte, error) {
	out := encodeList(tokens)
	if out == nil {
		out = []outToken{}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode tokens: %w", err)
	}
	return append(data, '\n'), nil
}

func encodeList(tokens []Token) []outToken {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]outToken, 0, len(tokens))
	for _, tok := range tokens {
		if tok == nil {
			continue
		}
		out = append(out, encodeOne(tok))
	}
	return out
}

func ptr[T any](v T) *T { return &v }

func encodeOne(tok Token) outToken {
	o := outToken{Type: string(tok.Kind()), Raw: tok.Source()}
	switch t := tok.(type) {
	case *Code:
		o.Lang, o.Text = t.Lang, ptr(t.Text)
	case *Heading:
		o.Depth, o.Text, o.Tokens = t.Depth, ptr(t.Text), encodeList(t.Tokens)
	case *Table:
		o.Align = make([]*string, len(t.Align))
		for i, a := range t.Align {
			if a != AlignNone {
				o.Align[i] = ptr(a.String())
			}
		}
		o.Header = encodeCells(t.Header)
		for _, row := range t.Rows {
			o.Rows = append(o.Rows, encodeCells(row))
		}
	case *Blockquote:
		o.Text, o.Tokens = ptr(t.Text), encodeList(t.Tokens)
	case *List:
		o.Ordered, o.Loose = t.Ordered, t.Loose
		if t.HasStart {
			o.Start = t.Start
		}
		for _, item := range t.Items {
			li := outToken{
				Type:   string(KindListItem),
				Raw:    item.Raw,
				Text:   ptr(item.Text),
				Task:   item.Task,
				Loose:  item.Loose,
				Tokens: encodeList(item.Tokens),
			}
			if item.Task {
				li.Checked = ptr(item.Checked)
			}
			o.Items = append(o.Items, li)
		}
	case *Paragraph:
		o.Text, o.Tokens = ptr(t.Text), encodeList(t.Tokens)
	case *HTML:
		o.Block = t.Block
	case *Text:
		o.Text, o.Tokens = ptr(t.Text), encodeList(t.Tokens)
	case *Escape:
		o.Text = ptr(t.Text)
	case *Def:
		o.Tag, o.Href, o.Title = t.Tag, ptr(t.Href), t.Title
	case *Link:
		o.Href, o.Title, o.Text, o.Tokens = ptr(t.Href), t.Title, ptr(t.Text), encodeList(t.Tokens)
	case *Image:
		o.Href, o.Title, o.Text = ptr(t.Href), t.Title, ptr(t.Text)
	case *Strong:
		o.Text, o.Tokens = ptr(t.Text), encodeList(t.Tokens)
	case *Em:
		o.Text, o.Tokens = ptr(t.Text), encodeList(t.Tokens)
	case *Codespan:
		o.Text = ptr(t.Text)
	case *Del:
		o.Text, o.Tokens = ptr(t.Text), encodeList(t.Tokens)
	}
	return o
}

func encodeCells(cells []TableCell) []outCell {
	out := make([]outCell, 0, len(cells))
	for _, c := range cells {
		out = append(out, outCell{Text: c.Text, Tokens: encodeList(c.Tokens)})
	}
	return out
}
