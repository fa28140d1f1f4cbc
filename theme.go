package mdview

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"pkt.systems/mdview/internal/palette"
)

// Style describes a terminal style as an ANSI prefix sequence.
type Style struct {
	Prefix string
}

// Styles groups the semantic styles used by the ANSI writer.
type Styles struct {
	Text          Style
	Heading       [6]Style
	Emphasis      Style
	Strong        Style
	Delete        Style
	CodeInline    Style
	CodeBlock     Style
	CodeLabel     Style
	ApplyButton   Style
	ApplyPending  Style
	Quote         Style
	ListMarker    Style
	Checkbox      Style
	LinkText      Style
	LinkURL       Style
	Image         Style
	ThematicBreak Style
	TableBorder   Style
	TableHeader   Style
	HTML          Style
	Fallback      Style
	FallbackLabel Style
}

// Theme provides named styles for view rendering.
type Theme interface {
	Name() string
	Styles() Styles
}

type theme struct {
	name   string
	styles Styles
}

func (t theme) Name() string   { return t.name }
func (t theme) Styles() Styles { return t.styles }

// NewTheme returns a Theme from a Styles definition.
func NewTheme(name string, styles Styles) Theme {
	return theme{name: name, styles: styles}
}

func style(prefixes ...string) Style {
	var b strings.Builder
	for _, p := range prefixes {
		if p != "" {
			b.WriteString(p)
		}
	}
	return Style{Prefix: b.String()}
}

func stylesFromPalette(p palette.Palette) Styles {
	return Styles{
		Text:          style(p.Text),
		Heading:       [6]Style{style(p.H1), style(p.H2), style(p.H3), style(p.H4), style(p.H5), style(p.H6)},
		Emphasis:      style(palette.Italic, p.Emphasis),
		Strong:        style(palette.Bold, p.Strong),
		Delete:        style(palette.Strike, p.Muted),
		CodeInline:    style(p.CodeInline),
		CodeBlock:     style(p.CodeBlock),
		CodeLabel:     style(p.Muted),
		ApplyButton:   style(palette.Reverse, p.Button),
		ApplyPending:  style(palette.Dim, p.Muted),
		Quote:         style(palette.Italic, p.Quote),
		ListMarker:    style(p.ListMarker),
		Checkbox:      style(p.ListMarker),
		LinkText:      style(palette.Underline, p.LinkText),
		LinkURL:       style(p.LinkURL),
		Image:         style(palette.Italic, p.LinkText),
		ThematicBreak: style(p.ThematicBreak),
		TableBorder:   style(p.TableBorder),
		TableHeader:   style(palette.Bold, p.Text),
		HTML:          style(p.Muted),
		Fallback:      style(p.Text),
		FallbackLabel: style(palette.Bold, p.Warning),
	}
}

var builtinThemes = map[string]Theme{
	"default":        theme{name: "default", styles: stylesFromPalette(palette.PaletteDefault)},
	"dracula":        theme{name: "dracula", styles: stylesFromPalette(palette.PaletteDracula)},
	"nord":           theme{name: "nord", styles: stylesFromPalette(palette.PaletteNord)},
	"gruvbox":        theme{name: "gruvbox", styles: stylesFromPalette(palette.PaletteGruvbox)},
	"solarized-dark": theme{name: "solarized-dark", styles: stylesFromPalette(palette.PaletteSolarizedDark)},
	"github-light":   theme{name: "github-light", styles: stylesFromPalette(palette.PaletteGithubLight)},
	"tokyo-night":    theme{name: "tokyo-night", styles: stylesFromPalette(palette.PaletteTokyoNight)},
}

// AvailableThemes returns the names of built-in themes.
func AvailableThemes() []string {
	names := make([]string, 0, len(builtinThemes))
	for name := range builtinThemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ThemeByName returns a built-in theme by name.
func ThemeByName(name string) (Theme, bool) {
	if name == "" {
		return builtinThemes["default"], true
	}
	normalized := strings.ToLower(strings.TrimSpace(name))
	theme, ok := builtinThemes[normalized]
	return theme, ok
}

// SuggestTheme returns the built-in theme name closest to name, or "" when
// nothing is within a few edits.
func SuggestTheme(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return ""
	}
	best, bestDist := "", 4
	for _, candidate := range AvailableThemes() {
		d := levenshtein.ComputeDistance(normalized, candidate)
		if d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}

// DefaultTheme returns the default built-in theme.
func DefaultTheme() Theme {
	return builtinThemes["default"]
}

// PlainTheme returns a theme without any ANSI styling.
func PlainTheme() Theme {
	return NewTheme("plain", Styles{})
}
