// Package palette holds the ANSI color tables behind the built-in themes.
package palette

import "strconv"

const (
	Reset     = "\x1b[0m"
	Bold      = "\x1b[1m"
	Dim       = "\x1b[2m"
	Italic    = "\x1b[3m"
	Underline = "\x1b[4m"
	Reverse   = "\x1b[7m"
	Strike    = "\x1b[9m"
)

// Palette is a set of ANSI foreground prefixes, one per semantic role.
type Palette struct {
	Text          string
	H1            string
	H2            string
	H3            string
	H4            string
	H5            string
	H6            string
	Emphasis      string
	Strong        string
	CodeInline    string
	CodeBlock     string
	Quote         string
	ListMarker    string
	LinkText      string
	LinkURL       string
	ThematicBreak string
	TableBorder   string
	Button        string
	Muted         string
	Warning       string
}

// FG returns a 24-bit foreground color sequence.
func FG(r, g, b uint8) string {
	return "\x1b[38;2;" + strconv.Itoa(int(r)) + ";" + strconv.Itoa(int(g)) + ";" + strconv.Itoa(int(b)) + "m"
}

// Hex returns the foreground sequence for a #rrggbb color. Malformed input
// yields an empty prefix.
func Hex(hex string) string {
	if len(hex) == 7 && hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) != 6 {
		return ""
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return ""
	}
	return FG(uint8(v>>16), uint8(v>>8), uint8(v))
}

var (
	PaletteDefault = Palette{
		Text:          "",
		H1:            Bold + Hex("#5fd7ff"),
		H2:            Bold + Hex("#87afff"),
		H3:            Bold + Hex("#afafff"),
		H4:            Hex("#d7afff"),
		H5:            Hex("#d7afd7"),
		H6:            Hex("#af87af"),
		Emphasis:      Hex("#ffd787"),
		Strong:        Hex("#ffaf5f"),
		CodeInline:    Hex("#87d787"),
		CodeBlock:     Hex("#afd7af"),
		Quote:         Hex("#8a8a8a"),
		ListMarker:    Hex("#5fafd7"),
		LinkText:      Hex("#5fd7d7"),
		LinkURL:       Hex("#6c6c6c"),
		ThematicBreak: Hex("#4e4e4e"),
		TableBorder:   Hex("#585858"),
		Button:        Bold + Hex("#00d7af"),
		Muted:         Hex("#767676"),
		Warning:       Hex("#ff8700"),
	}

	PaletteDracula = Palette{
		Text:          Hex("#f8f8f2"),
		H1:            Bold + Hex("#ff79c6"),
		H2:            Bold + Hex("#bd93f9"),
		H3:            Bold + Hex("#8be9fd"),
		H4:            Hex("#50fa7b"),
		H5:            Hex("#f1fa8c"),
		H6:            Hex("#ffb86c"),
		Emphasis:      Hex("#f1fa8c"),
		Strong:        Hex("#ffb86c"),
		CodeInline:    Hex("#50fa7b"),
		CodeBlock:     Hex("#f8f8f2"),
		Quote:         Hex("#6272a4"),
		ListMarker:    Hex("#bd93f9"),
		LinkText:      Hex("#8be9fd"),
		LinkURL:       Hex("#6272a4"),
		ThematicBreak: Hex("#44475a"),
		TableBorder:   Hex("#6272a4"),
		Button:        Bold + Hex("#50fa7b"),
		Muted:         Hex("#6272a4"),
		Warning:       Hex("#ff5555"),
	}

	PaletteNord = Palette{
		Text:          Hex("#d8dee9"),
		H1:            Bold + Hex("#88c0d0"),
		H2:            Bold + Hex("#81a1c1"),
		H3:            Bold + Hex("#5e81ac"),
		H4:            Hex("#8fbcbb"),
		H5:            Hex("#b48ead"),
		H6:            Hex("#a3be8c"),
		Emphasis:      Hex("#ebcb8b"),
		Strong:        Hex("#d08770"),
		CodeInline:    Hex("#a3be8c"),
		CodeBlock:     Hex("#e5e9f0"),
		Quote:         Hex("#4c566a"),
		ListMarker:    Hex("#81a1c1"),
		LinkText:      Hex("#88c0d0"),
		LinkURL:       Hex("#4c566a"),
		ThematicBreak: Hex("#3b4252"),
		TableBorder:   Hex("#4c566a"),
		Button:        Bold + Hex("#a3be8c"),
		Muted:         Hex("#4c566a"),
		Warning:       Hex("#bf616a"),
	}

	PaletteGruvbox = Palette{
		Text:          Hex("#ebdbb2"),
		H1:            Bold + Hex("#fb4934"),
		H2:            Bold + Hex("#fabd2f"),
		H3:            Bold + Hex("#b8bb26"),
		H4:            Hex("#83a598"),
		H5:            Hex("#d3869b"),
		H6:            Hex("#8ec07c"),
		Emphasis:      Hex("#fabd2f"),
		Strong:        Hex("#fe8019"),
		CodeInline:    Hex("#b8bb26"),
		CodeBlock:     Hex("#d5c4a1"),
		Quote:         Hex("#928374"),
		ListMarker:    Hex("#83a598"),
		LinkText:      Hex("#8ec07c"),
		LinkURL:       Hex("#928374"),
		ThematicBreak: Hex("#504945"),
		TableBorder:   Hex("#665c54"),
		Button:        Bold + Hex("#b8bb26"),
		Muted:         Hex("#928374"),
		Warning:       Hex("#fb4934"),
	}

	PaletteSolarizedDark = Palette{
		Text:          Hex("#839496"),
		H1:            Bold + Hex("#cb4b16"),
		H2:            Bold + Hex("#b58900"),
		H3:            Bold + Hex("#268bd2"),
		H4:            Hex("#2aa198"),
		H5:            Hex("#6c71c4"),
		H6:            Hex("#d33682"),
		Emphasis:      Hex("#b58900"),
		Strong:        Hex("#cb4b16"),
		CodeInline:    Hex("#859900"),
		CodeBlock:     Hex("#93a1a1"),
		Quote:         Hex("#586e75"),
		ListMarker:    Hex("#268bd2"),
		LinkText:      Hex("#2aa198"),
		LinkURL:       Hex("#586e75"),
		ThematicBreak: Hex("#073642"),
		TableBorder:   Hex("#586e75"),
		Button:        Bold + Hex("#859900"),
		Muted:         Hex("#586e75"),
		Warning:       Hex("#dc322f"),
	}

	PaletteGithubLight = Palette{
		Text:          Hex("#24292f"),
		H1:            Bold + Hex("#0550ae"),
		H2:            Bold + Hex("#0969da"),
		H3:            Bold + Hex("#8250df"),
		H4:            Hex("#953800"),
		H5:            Hex("#116329"),
		H6:            Hex("#57606a"),
		Emphasis:      Hex("#953800"),
		Strong:        Hex("#cf222e"),
		CodeInline:    Hex("#116329"),
		CodeBlock:     Hex("#24292f"),
		Quote:         Hex("#57606a"),
		ListMarker:    Hex("#0969da"),
		LinkText:      Hex("#0969da"),
		LinkURL:       Hex("#6e7781"),
		ThematicBreak: Hex("#d0d7de"),
		TableBorder:   Hex("#8c959f"),
		Button:        Bold + Hex("#1a7f37"),
		Muted:         Hex("#6e7781"),
		Warning:       Hex("#bc4c00"),
	}

	PaletteTokyoNight = Palette{
		Text:          Hex("#c0caf5"),
		H1:            Bold + Hex("#7aa2f7"),
		H2:            Bold + Hex("#bb9af7"),
		H3:            Bold + Hex("#7dcfff"),
		H4:            Hex("#9ece6a"),
		H5:            Hex("#e0af68"),
		H6:            Hex("#ff9e64"),
		Emphasis:      Hex("#e0af68"),
		Strong:        Hex("#ff9e64"),
		CodeInline:    Hex("#9ece6a"),
		CodeBlock:     Hex("#a9b1d6"),
		Quote:         Hex("#565f89"),
		ListMarker:    Hex("#7aa2f7"),
		LinkText:      Hex("#7dcfff"),
		LinkURL:       Hex("#565f89"),
		ThematicBreak: Hex("#3b4261"),
		TableBorder:   Hex("#565f89"),
		Button:        Bold + Hex("#9ece6a"),
		Muted:         Hex("#565f89"),
		Warning:       Hex("#f7768e"),
	}
)
