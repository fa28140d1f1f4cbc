// Package mdview renders a markdown token stream as the view shown in an
// editor sidebar panel.
//
// Tokens arrive already parsed, in the marked token grammar, either decoded
// from JSON with DecodeTokens or produced by the lex subpackage. A Renderer
// maps them onto a tree of Nodes; every node keeps the index of its token as
// Key so the tree can be diffed between renders. Fenced code blocks get an
// Apply control that posts the code text to the host through a Bridge.
//
// Unknown token kinds are never dropped: they render as a fallback block
// showing the token's raw source.
//
// The view tree is written either as styled terminal text (WriteANSI) or as
// an HTML fragment (WriteHTML).
//
// Example:
//
//	tokens, err := mdview.DecodeTokens(data)
//	if err != nil {
//		log.Fatal(err)
//	}
//	err = mdview.Render(mdview.RenderRequest{
//		Tokens: tokens,
//		Bridge: bridge.NewWriter(os.Stdout),
//		Writer: os.Stderr,
//		Width:  80,
//		Theme:  mdview.DefaultTheme(),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
package mdview
