package mdview

import (
	"os"
	"regexp"
	"strconv"
	"strings"
)

const (
	osc8Start = "\x1b]8;;"
	osc8End   = "\x1b]8;;\x1b\\"
)

// DetectOSC8Support returns true if the current environment likely supports OSC 8 hyperlinks.
func DetectOSC8Support() bool {
	return detectOSC8(os.Getenv)
}

func detectOSC8(getenv func(string) string) bool {
	if getenv("OSC8") == "0" {
		return false
	}
	if getenv("DOMTERM") != "" || getenv("WT_SESSION") != "" {
		return true
	}
	switch getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm", "vscode", "ghostty":
		return true
	}
	if strings.Contains(strings.ToLower(getenv("TERM")), "kitty") {
		return true
	}
	if vte := getenv("VTE_VERSION"); vte != "" {
		if n, err := strconv.Atoi(vte); err == nil && n >= 5000 {
			return true
		}
	}
	return false
}

func osc8Open(url string) string {
	return osc8Start + url + "\x1b\\"
}

// Hyperlinks are laid out as zero-width CSI placeholders and swapped for
// OSC 8 sequences after wrapping.
const linkCloseMarker = "\x1b[0Y"

var linkMarker = regexp.MustCompile(`\x1b\[(\d+)Y`)

func linkOpenMarker(id int) string {
	return "\x1b[" + strconv.Itoa(id) + "Y"
}

func resolveLinkMarkers(s string, urls []string) string {
	if len(urls) == 0 {
		return s
	}
	return linkMarker.ReplaceAllStringFunc(s, func(m string) string {
		id, err := strconv.Atoi(m[2 : len(m)-1])
		if err != nil || id > len(urls) {
			return ""
		}
		if id == 0 {
			return osc8End
		}
		return osc8Open(urls[id-1])
	})
}
