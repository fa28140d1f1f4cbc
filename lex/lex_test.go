package lex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pkt.systems/mdview"
)

func withoutSpace(tokens []mdview.Token) []mdview.Token {
	var out []mdview.Token
	for _, tok := range tokens {
		if tok.Kind() == mdview.KindSpace {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func TestMarkdownHeadingAndParagraph(t *testing.T) {
	tokens, err := Markdown([]byte("## Hello *world*\n\nSome **bold** text.\n"))
	require.NoError(t, err)
	tokens = withoutSpace(tokens)
	require.Len(t, tokens, 2)

	h, ok := tokens[0].(*mdview.Heading)
	require.True(t, ok, "expected heading, got %T", tokens[0])
	assert.Equal(t, 2, h.Depth)
	assert.Equal(t, "Hello world", h.Text)
	require.Len(t, h.Tokens, 2)
	assert.IsType(t, &mdview.Em{}, h.Tokens[1])

	p, ok := tokens[1].(*mdview.Paragraph)
	require.True(t, ok, "expected paragraph, got %T", tokens[1])
	assert.Equal(t, "Some bold text.", p.Text)
	var strong *mdview.Strong
	for _, tok := range p.Tokens {
		if s, ok := tok.(*mdview.Strong); ok {
			strong = s
		}
	}
	require.NotNil(t, strong)
	assert.Equal(t, "bold", strong.Text)
}

func TestMarkdownFencedCode(t *testing.T) {
	tokens, err := Markdown([]byte("```python\nprint(1)\n```\n"))
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	code, ok := tokens[0].(*mdview.Code)
	require.True(t, ok)
	assert.Equal(t, "python", code.Lang)
	assert.Equal(t, "print(1)", code.Text)
}

func TestMarkdownTable(t *testing.T) {
	src := "| a | b | c |\n|:--|:-:|--:|\n| 1 | 2 | 3 |\n| 4 | 5 | 6 |\n"
	tokens, err := Markdown([]byte(src))
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	table, ok := tokens[0].(*mdview.Table)
	require.True(t, ok, "expected table, got %T", tokens[0])
	assert.Equal(t, []mdview.Align{mdview.AlignLeft, mdview.AlignCenter, mdview.AlignRight}, table.Align)
	require.Len(t, table.Header, 3)
	assert.Equal(t, "b", table.Header[1].Text)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "6", table.Rows[1][2].Text)
}

func TestMarkdownOrderedListStart(t *testing.T) {
	tokens, err := Markdown([]byte("3. three\n4. four\n"))
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	list, ok := tokens[0].(*mdview.List)
	require.True(t, ok)
	assert.True(t, list.Ordered)
	assert.True(t, list.HasStart)
	assert.Equal(t, 3, list.Start)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "four", list.Items[1].Text)
}

func TestMarkdownTaskList(t *testing.T) {
	tokens, err := Markdown([]byte("- [x] done\n- [ ] todo\n- plain\n"))
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	list := tokens[0].(*mdview.List)
	require.Len(t, list.Items, 3)
	assert.True(t, list.Items[0].Task)
	assert.True(t, list.Items[0].Checked)
	assert.Contains(t, list.Items[0].Text, "done")
	assert.True(t, list.Items[1].Task)
	assert.False(t, list.Items[1].Checked)
	assert.False(t, list.Items[2].Task)
}

func TestMarkdownStrikethroughAndLinks(t *testing.T) {
	tokens, err := Markdown([]byte("~~gone~~ [site](https://example.com \"T\")\n"))
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	p := tokens[0].(*mdview.Paragraph)
	var del *mdview.Del
	var link *mdview.Link
	for _, tok := range p.Tokens {
		switch v := tok.(type) {
		case *mdview.Del:
			del = v
		case *mdview.Link:
			link = v
		}
	}
	require.NotNil(t, del)
	assert.Equal(t, "gone", del.Text)
	require.NotNil(t, link)
	assert.Equal(t, "https://example.com", link.Href)
	assert.Equal(t, "T", link.Title)
	assert.Equal(t, "site", link.Text)
}

func TestMarkdownHeadingRawIsSource(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		depth int
		raw   string
	}{
		{"atx with markup", "## Hello *world*\n", 2, "## Hello *world*"},
		{"setext", "Title\n=====\n", 1, "Title\n====="},
		{"setext level two", "Sub **bold**\n---\n\ntext\n", 2, "Sub **bold**\n---"},
		{"atx in quote", "> # Quoted\n", 1, "> # Quoted"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tokens, err := Markdown([]byte(tc.src))
			require.NoError(t, err)
			var h *mdview.Heading
			for _, tok := range tokens {
				switch tok := tok.(type) {
				case *mdview.Heading:
					h = tok
				case *mdview.Blockquote:
					for _, inner := range tok.Tokens {
						if inner, ok := inner.(*mdview.Heading); ok {
							h = inner
						}
					}
				}
			}
			require.NotNil(t, h, "expected a heading in %v", tokens)
			assert.Equal(t, tc.depth, h.Depth)
			assert.Equal(t, tc.raw, h.Raw)
		})
	}
}

func TestMarkdownHTMLBlock(t *testing.T) {
	tokens, err := Markdown([]byte("<div>\nhi\n</div>\n"))
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	h, ok := tokens[0].(*mdview.HTML)
	require.True(t, ok, "expected html, got %T", tokens[0])
	assert.True(t, h.Block)
	assert.Contains(t, h.Raw, "<div>")
}

func TestMarkdownRejectsBinary(t *testing.T) {
	_, err := Markdown([]byte("abc\x00def"))
	assert.ErrorIs(t, err, mdview.ErrBinaryInput)
}

func TestMarkdownRoundTripsThroughDecode(t *testing.T) {
	tokens, err := Markdown([]byte("# Title\n\n- a\n- b\n\n```go\nx := 1\n```\n"))
	require.NoError(t, err)
	data, err := mdview.EncodeTokens(tokens)
	require.NoError(t, err)
	decoded, err := mdview.DecodeTokens(data, mdview.WithStrict(true))
	require.NoError(t, err)
	require.Len(t, decoded, len(tokens))
	for i := range tokens {
		assert.Equal(t, tokens[i].Kind(), decoded[i].Kind())
	}
}
