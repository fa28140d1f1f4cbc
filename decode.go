package mdview

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedToken reports a token of a known kind whose payload is missing
// or has an invalid field.
var ErrMalformedToken = errors.New("malformed token")

// DecodeError describes where and why a token failed validation.
type DecodeError struct {
	Path   string
	Type   string
	Field  string
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString("decode tokens: ")
	b.WriteString(e.Path)
	if e.Type != "" {
		b.WriteString(" (")
		b.WriteString(e.Type)
		b.WriteString(")")
	}
	if e.Field != "" {
		b.WriteString(": field ")
		b.WriteString(strconv.Quote(e.Field))
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *DecodeError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrMalformedToken, e.Err}
	}
	return []error{ErrMalformedToken}
}

// DecodeOption configures DecodeTokens.
type DecodeOption func(*decodeConfig)

type decodeConfig struct {
	strict bool
}

// WithStrict makes DecodeTokens fail on the first malformed token instead of
// flagging it as *Unknown.
func WithStrict(enabled bool) DecodeOption {
	return func(cfg *decodeConfig) {
		cfg.strict = enabled
	}
}

type wireCell struct {
	Text   *string           `json:"text"`
	Raw    *string           `json:"raw"`
	Tokens []json.RawMessage `json:"tokens"`
}

type wireToken struct {
	Type    string            `json:"type"`
	Raw     *string           `json:"raw"`
	Text    *string           `json:"text"`
	Lang    *string           `json:"lang"`
	Depth   *int              `json:"depth"`
	Href    *string           `json:"href"`
	Title   *string           `json:"title"`
	Tag     *string           `json:"tag"`
	Ordered bool              `json:"ordered"`
	Start   json.RawMessage   `json:"start"`
	Loose   bool              `json:"loose"`
	Task    bool              `json:"task"`
	Checked *bool             `json:"checked"`
	Block   bool              `json:"block"`
	Align   []json.RawMessage `json:"align"`
	Header  []wireCell        `json:"header"`
	Rows    [][]wireCell      `json:"rows"`
	Items   []json.RawMessage `json:"items"`
	Tokens  []json.RawMessage `json:"tokens"`
}

type decoder struct {
	cfg decodeConfig
}

// DecodeTokens decodes a marked-style JSON token array.
//
// Unknown token types are kept as *Unknown. Known types with a bad payload are
// flagged as *Unknown with a *DecodeError in Err, or returned as an error when
// WithStrict is set.
func DecodeTokens(data []byte, opts ...DecodeOption) ([]Token, error) {
	if err := ValidateInput(data); err != nil {
		return nil, fmt.Errorf("decode tokens: %w", err)
	}
	d := decoder{}
	for _, opt := range opts {
		if opt != nil {
			opt(&d.cfg)
		}
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("decode tokens: expected a JSON array: %w", err)
	}
	return d.decodeList("tokens", raw)
}

func (d decoder) decodeList(path string, raw []json.RawMessage) ([]Token, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]Token, 0, len(raw))
	for i, msg := range raw {
		tok, err := d.decodeOne(path+"["+strconv.Itoa(i)+"]", msg)
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
	}
	return out, nil
}

func (d decoder) decodeOne(path string, msg json.RawMessage) (Token, error) {
	var w wireToken
	if err := json.Unmarshal(msg, &w); err != nil {
		probe := probeToken(msg)
		return d.flag(probe, &DecodeError{Path: path, Type: probe.Type, Reason: "invalid payload", Err: err})
	}
	tok, err := d.variant(path, &w)
	if err != nil {
		var derr *DecodeError
		if !errors.As(err, &derr) {
			return nil, err
		}
		return d.flag(&Unknown{Type: w.Type, Raw: str(w.Raw)}, derr)
	}
	return tok, nil
}

func (d decoder) flag(u *Unknown, derr *DecodeError) (Token, error) {
	if d.cfg.strict {
		return nil, derr
	}
	u.Err = derr
	return u, nil
}

func probeToken(msg json.RawMessage) *Unknown {
	var probe struct {
		Type json.RawMessage `json:"type"`
		Raw  json.RawMessage `json:"raw"`
	}
	u := &Unknown{}
	if err := json.Unmarshal(msg, &probe); err != nil {
		u.Raw = string(msg)
		return u
	}
	_ = json.Unmarshal(probe.Type, &u.Type)
	if err := json.Unmarshal(probe.Raw, &u.Raw); err != nil {
		u.Raw = string(msg)
	}
	return u
}

func (d decoder) variant(path string, w *wireToken) (Token, error) {
	missing := func(field string) error {
		return &DecodeError{Path: path, Type: w.Type, Field: field, Reason: "missing"}
	}
	switch Kind(w.Type) {
	case KindSpace:
		return &Space{Raw: str(w.Raw)}, nil
	case KindRule:
		return &Rule{Raw: str(w.Raw)}, nil
	case KindBreak:
		return &Break{Raw: str(w.Raw)}, nil
	case KindCode:
		if w.Text == nil {
			return nil, missing("text")
		}
		return &Code{Raw: str(w.Raw), Lang: strings.TrimSpace(str(w.Lang)), Text: *w.Text}, nil
	case KindHeading:
		if w.Depth == nil {
			return nil, missing("depth")
		}
		if *w.Depth < 1 || *w.Depth > 6 {
			return nil, &DecodeError{Path: path, Type: w.Type, Field: "depth", Reason: "out of range 1-6: " + strconv.Itoa(*w.Depth)}
		}
		if w.Text == nil {
			return nil, missing("text")
		}
		children, err := d.decodeList(path+".tokens", w.Tokens)
		if err != nil {
			return nil, err
		}
		return &Heading{Raw: str(w.Raw), Depth: *w.Depth, Text: *w.Text, Tokens: children}, nil
	case KindTable:
		return d.table(path, w)
	case KindBlockquote, KindParagraph, KindText, KindStrong, KindEm, KindDel:
		if w.Text == nil {
			return nil, missing("text")
		}
		children, err := d.decodeList(path+".tokens", w.Tokens)
		if err != nil {
			return nil, err
		}
		raw, text := str(w.Raw), *w.Text
		switch Kind(w.Type) {
		case KindBlockquote:
			return &Blockquote{Raw: raw, Text: text, Tokens: children}, nil
		case KindParagraph:
			return &Paragraph{Raw: raw, Text: text, Tokens: children}, nil
		case KindText:
			return &Text{Raw: raw, Text: text, Tokens: children}, nil
		case KindStrong:
			return &Strong{Raw: raw, Text: text, Tokens: children}, nil
		case KindEm:
			return &Em{Raw: raw, Text: text, Tokens: children}, nil
		default:
			return &Del{Raw: raw, Text: text, Tokens: children}, nil
		}
	case KindList:
		return d.list(path, w)
	case KindHTML:
		if w.Raw == nil {
			return nil, missing("raw")
		}
		return &HTML{Raw: *w.Raw, Block: w.Block}, nil
	case KindEscape:
		if w.Text == nil {
			return nil, missing("text")
		}
		return &Escape{Raw: str(w.Raw), Text: *w.Text}, nil
	case KindCodespan:
		if w.Text == nil {
			return nil, missing("text")
		}
		return &Codespan{Raw: str(w.Raw), Text: *w.Text}, nil
	case KindDef:
		return &Def{Raw: str(w.Raw), Tag: str(w.Tag), Href: str(w.Href), Title: str(w.Title)}, nil
	case KindLink:
		if w.Href == nil {
			return nil, missing("href")
		}
		if w.Text == nil {
			return nil, missing("text")
		}
		children, err := d.decodeList(path+".tokens", w.Tokens)
		if err != nil {
			return nil, err
		}
		return &Link{Raw: str(w.Raw), Href: *w.Href, Title: str(w.Title), Text: *w.Text, Tokens: children}, nil
	case KindImage:
		if w.Href == nil {
			return nil, missing("href")
		}
		return &Image{Raw: str(w.Raw), Href: *w.Href, Title: str(w.Title), Text: str(w.Text)}, nil
	default:
		return &Unknown{Type: w.Type, Raw: str(w.Raw)}, nil
	}
}

func (d decoder) table(path string, w *wireToken) (Token, error) {
	if len(w.Header) == 0 {
		return nil, &DecodeError{Path: path, Type: w.Type, Field: "header", Reason: "missing"}
	}
	t := &Table{Raw: str(w.Raw), Align: make([]Align, len(w.Header))}
	if len(w.Align) > len(w.Header) {
		return nil, &DecodeError{Path: path, Type: w.Type, Field: "align", Reason: "more entries than header columns"}
	}
	for i, rawAlign := range w.Align {
		a, err := parseAlign(rawAlign)
		if err != nil {
			return nil, &DecodeError{Path: path, Type: w.Type, Field: "align[" + strconv.Itoa(i) + "]", Reason: "invalid alignment", Err: err}
		}
		t.Align[i] = a
	}
	header, err := d.cells(path+".header", w.Header)
	if err != nil {
		return nil, err
	}
	t.Header = header
	for i, row := range w.Rows {
		rowPath := path + ".rows[" + strconv.Itoa(i) + "]"
		if len(row) > len(w.Header) {
			return nil, &DecodeError{Path: rowPath, Type: w.Type, Reason: "row has more cells than header"}
		}
		cells, err := d.cells(rowPath, row)
		if err != nil {
			return nil, err
		}
		t.Rows = append(t.Rows, cells)
	}
	return t, nil
}

func (d decoder) cells(path string, in []wireCell) ([]TableCell, error) {
	out := make([]TableCell, 0, len(in))
	for i, c := range in {
		cellPath := path + "[" + strconv.Itoa(i) + "]"
		var text string
		switch {
		case c.Text != nil:
			text = *c.Text
		case c.Raw != nil:
			text = *c.Raw
		default:
			return nil, &DecodeError{Path: cellPath, Type: string(KindTable), Field: "text", Reason: "missing"}
		}
		children, err := d.decodeList(cellPath+".tokens", c.Tokens)
		if err != nil {
			return nil, err
		}
		out = append(out, TableCell{Text: text, Tokens: children})
	}
	return out, nil
}

func (d decoder) list(path string, w *wireToken) (Token, error) {
	l := &List{Raw: str(w.Raw), Ordered: w.Ordered, Loose: w.Loose}
	start, hasStart, err := parseStart(w.Start)
	if err != nil {
		return nil, &DecodeError{Path: path, Type: w.Type, Field: "start", Reason: "invalid start", Err: err}
	}
	l.Start, l.HasStart = start, hasStart
	for i, msg := range w.Items {
		itemPath := path + ".items[" + strconv.Itoa(i) + "]"
		var item wireToken
		if err := json.Unmarshal(msg, &item); err != nil {
			return nil, &DecodeError{Path: itemPath, Type: string(KindListItem), Reason: "invalid payload", Err: err}
		}
		if item.Type != "" && Kind(item.Type) != KindListItem {
			return nil, &DecodeError{Path: itemPath, Type: item.Type, Field: "type", Reason: "expected list_item"}
		}
		if item.Text == nil {
			return nil, &DecodeError{Path: itemPath, Type: string(KindListItem), Field: "text", Reason: "missing"}
		}
		children, err := d.decodeList(itemPath+".tokens", item.Tokens)
		if err != nil {
			return nil, err
		}
		li := ListItem{
			Raw:    str(item.Raw),
			Task:   item.Task,
			Loose:  item.Loose,
			Text:   *item.Text,
			Tokens: children,
		}
		if item.Checked != nil {
			li.Checked = *item.Checked
		}
		l.Items = append(l.Items, li)
	}
	return l, nil
}

func parseAlign(raw json.RawMessage) (Align, error) {
	var s *string
	if err := json.Unmarshal(raw, &s); err != nil {
		return AlignNone, err
	}
	if s == nil {
		return AlignNone, nil
	}
	switch *s {
	case "":
		return AlignNone, nil
	case "left":
		return AlignLeft, nil
	case "center":
		return AlignCenter, nil
	case "right":
		return AlignRight, nil
	default:
		return AlignNone, fmt.Errorf("unknown value %q", *s)
	}
}

// parseStart accepts a number, an empty string or null.
func parseStart(raw json.RawMessage) (int, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return 0, false, nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return 0, false, err
		}
		if s == "" {
			return 0, false, nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, false, err
		}
		return n, true, nil
	}
	var n int
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return 0, false, err
	}
	return n, true, nil
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
