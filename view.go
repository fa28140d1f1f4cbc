package mdview

// NodeKind identifies the on-screen element a Node stands for.
type NodeKind uint8

const (
	NodeText NodeKind = iota
	NodeCodeBlock
	NodeApplyButton
	NodePre
	NodeHeading
	NodeTable
	NodeTableHead
	NodeTableBody
	NodeTableRow
	NodeTableHeaderCell
	NodeTableCell
	NodeRule
	NodeQuote
	NodeList
	NodeListItem
	NodeCheckbox
	NodeParagraph
	NodeHTMLBlock
	NodeLink
	NodeImage
	NodeStrong
	NodeEmphasis
	NodeCode
	NodeDelete
	NodeBreak
	NodeFallback
)

var nodeKindNames = [...]string{
	NodeText:            "text",
	NodeCodeBlock:       "codeblock",
	NodeApplyButton:     "apply",
	NodePre:             "pre",
	NodeHeading:         "heading",
	NodeTable:           "table",
	NodeTableHead:       "thead",
	NodeTableBody:       "tbody",
	NodeTableRow:        "tr",
	NodeTableHeaderCell: "th",
	NodeTableCell:       "td",
	NodeRule:            "hr",
	NodeQuote:           "blockquote",
	NodeList:            "list",
	NodeListItem:        "li",
	NodeCheckbox:        "checkbox",
	NodeParagraph:       "p",
	NodeHTMLBlock:       "html",
	NodeLink:            "a",
	NodeImage:           "img",
	NodeStrong:          "strong",
	NodeEmphasis:        "em",
	NodeCode:            "code",
	NodeDelete:          "del",
	NodeBreak:           "br",
	NodeFallback:        "fallback",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "invalid"
}

// Block reports whether the element starts on its own line.
func (k NodeKind) Block() bool {
	switch k {
	case NodeCodeBlock, NodePre, NodeHeading, NodeTable, NodeRule, NodeQuote,
		NodeList, NodeListItem, NodeParagraph, NodeHTMLBlock, NodeFallback:
		return true
	}
	return false
}

// Node is one element of the view tree.
//
// Key is the index of the originating token in its list and is stable across
// renders of the same list. Fields not used by a kind stay zero.
type Node struct {
	Kind     NodeKind
	Key      int
	Level    int
	Text     string
	Href     string
	Title    string
	Lang     string
	Label    string
	Align    Align
	Ordered  bool
	Start    int
	Checked  bool
	ReadOnly bool
	Children []*Node
	Action   *ApplyControl
}

// TextContent concatenates the text of n and its descendants in order.
func (n *Node) TextContent() string {
	if n == nil {
		return ""
	}
	buf := make([]byte, 0, len(n.Text))
	return string(n.appendText(buf))
}

func (n *Node) appendText(buf []byte) []byte {
	buf = append(buf, n.Text...)
	for _, c := range n.Children {
		buf = c.appendText(buf)
	}
	return buf
}

// Walk visits n and its descendants depth-first. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// ApplyControls returns the Apply actions of every code block in nodes, in
// document order.
func ApplyControls(nodes []*Node) []*ApplyControl {
	var out []*ApplyControl
	for _, n := range nodes {
		n.Walk(func(c *Node) bool {
			if c.Action != nil {
				out = append(out, c.Action)
			}
			return true
		})
	}
	return out
}
