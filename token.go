package mdview

// Kind is the discriminator of a markdown token.
type Kind string

// Known token kinds. Anything else decodes to *Unknown.
const (
	KindSpace      Kind = "space"
	KindCode       Kind = "code"
	KindHeading    Kind = "heading"
	KindTable      Kind = "table"
	KindRule       Kind = "hr"
	KindBlockquote Kind = "blockquote"
	KindList       Kind = "list"
	KindListItem   Kind = "list_item"
	KindParagraph  Kind = "paragraph"
	KindHTML       Kind = "html"
	KindText       Kind = "text"
	KindEscape     Kind = "escape"
	KindDef        Kind = "def"
	KindLink       Kind = "link"
	KindImage      Kind = "image"
	KindStrong     Kind = "strong"
	KindEm         Kind = "em"
	KindCodespan   Kind = "codespan"
	KindBreak      Kind = "br"
	KindDel        Kind = "del"
)

// Token is one markdown construct produced by an external tokenizer.
//
// The set of implementations is closed; a type switch over the concrete
// pointer types below covers every case, with *Unknown as the catch-all.
type Token interface {
	Kind() Kind
	Source() string
	token()
}

// Align is the text alignment of a table column.
type Align uint8

const (
	AlignNone Align = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// String returns the CSS name of the alignment. AlignNone reads as left.
func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// Space is blank source between blocks.
type Space struct {
	Raw string
}

// Code is a fenced or indented code block.
type Code struct {
	Raw  string
	Lang string
	Text string
}

// Heading is an ATX or setext heading.
type Heading struct {
	Raw    string
	Depth  int
	Text   string
	Tokens []Token
}

// TableCell is a header or body cell.
type TableCell struct {
	Text   string
	Tokens []Token
}

// Table is a GFM table. Align has one entry per header column.
type Table struct {
	Raw    string
	Align  []Align
	Header []TableCell
	Rows   [][]TableCell
}

// Rule is a thematic break.
type Rule struct {
	Raw string
}

// Blockquote holds block tokens.
type Blockquote struct {
	Raw    string
	Text   string
	Tokens []Token
}

// ListItem is one entry of a List.
type ListItem struct {
	Raw     string
	Task    bool
	Checked bool
	Loose   bool
	Text    string
	Tokens  []Token
}

// List is an ordered or bullet list. Start is only meaningful when HasStart
// is set, which tokenizers do for ordered lists.
type List struct {
	Raw      string
	Ordered  bool
	Start    int
	HasStart bool
	Loose    bool
	Items    []ListItem
}

// Paragraph is block text.
type Paragraph struct {
	Raw    string
	Text   string
	Tokens []Token
}

// HTML is a raw HTML fragment. It is never interpreted.
type HTML struct {
	Raw   string
	Block bool
}

// Text is inline raw text, optionally split into inline tokens.
type Text struct {
	Raw    string
	Text   string
	Tokens []Token
}

// Escape is a backslash escape.
type Escape struct {
	Raw  string
	Text string
}

// Def is a link reference definition.
type Def struct {
	Raw   string
	Tag   string
	Href  string
	Title string
}

// Link is an inline or reference link.
type Link struct {
	Raw    string
	Href   string
	Title  string
	Text   string
	Tokens []Token
}

// Image is an inline image; Text is the alt text.
type Image struct {
	Raw   string
	Href  string
	Title string
	Text  string
}

// Strong is strong emphasis.
type Strong struct {
	Raw    string
	Text   string
	Tokens []Token
}

// Em is emphasis.
type Em struct {
	Raw    string
	Text   string
	Tokens []Token
}

// Del is strikethrough.
type Del struct {
	Raw    string
	Text   string
	Tokens []Token
}

// Codespan is inline code.
type Codespan struct {
	Raw  string
	Text string
}

// Break is a hard line break.
type Break struct {
	Raw string
}

// Unknown is any token whose type is not handled, or a known type whose
// payload failed validation (Err is then non-nil).
type Unknown struct {
	Type string
	Raw  string
	Err  error
}

func (*Space) Kind() Kind      { return KindSpace }
func (*Code) Kind() Kind       { return KindCode }
func (*Heading) Kind() Kind    { return KindHeading }
func (*Table) Kind() Kind      { return KindTable }
func (*Rule) Kind() Kind       { return KindRule }
func (*Blockquote) Kind() Kind { return KindBlockquote }
func (*List) Kind() Kind       { return KindList }
func (*Paragraph) Kind() Kind  { return KindParagraph }
func (*HTML) Kind() Kind       { return KindHTML }
func (*Text) Kind() Kind       { return KindText }
func (*Escape) Kind() Kind     { return KindEscape }
func (*Def) Kind() Kind        { return KindDef }
func (*Link) Kind() Kind       { return KindLink }
func (*Image) Kind() Kind      { return KindImage }
func (*Strong) Kind() Kind     { return KindStrong }
func (*Em) Kind() Kind         { return KindEm }
func (*Del) Kind() Kind        { return KindDel }
func (*Codespan) Kind() Kind   { return KindCodespan }
func (*Break) Kind() Kind      { return KindBreak }
func (u *Unknown) Kind() Kind  { return Kind(u.Type) }

func (t *Space) Source() string      { return t.Raw }
func (t *Code) Source() string       { return t.Raw }
func (t *Heading) Source() string    { return t.Raw }
func (t *Table) Source() string      { return t.Raw }
func (t *Rule) Source() string       { return t.Raw }
func (t *Blockquote) Source() string { return t.Raw }
func (t *List) Source() string       { return t.Raw }
func (t *Paragraph) Source() string  { return t.Raw }
func (t *HTML) Source() string       { return t.Raw }
func (t *Text) Source() string       { return t.Raw }
func (t *Escape) Source() string     { return t.Raw }
func (t *Def) Source() string        { return t.Raw }
func (t *Link) Source() string       { return t.Raw }
func (t *Image) Source() string      { return t.Raw }
func (t *Strong) Source() string     { return t.Raw }
func (t *Em) Source() string         { return t.Raw }
func (t *Del) Source() string        { return t.Raw }
func (t *Codespan) Source() string   { return t.Raw }
func (t *Break) Source() string      { return t.Raw }
func (t *Unknown) Source() string    { return t.Raw }

func (*Space) token()      {}
func (*Code) token()       {}
func (*Heading) token()    {}
func (*Table) token()      {}
func (*Rule) token()       {}
func (*Blockquote) token() {}
func (*List) token()       {}
func (*Paragraph) token()  {}
func (*HTML) token()       {}
func (*Text) token()       {}
func (*Escape) token()     {}
func (*Def) token()        {}
func (*Link) token()       {}
func (*Image) token()      {}
func (*Strong) token()     {}
func (*Em) token()         {}
func (*Del) token()        {}
func (*Codespan) token()   {}
func (*Break) token()      {}
func (*Unknown) token()    {}
