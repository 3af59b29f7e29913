// Package textutil provides display-width aware helpers for terminal
// output. Widths are wcwidth-based and ANSI escape sequences are
// ignored, so colored text lines up with plain text.
package textutil

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// ANSI escape sequences (covers common CSI and OSC forms).
var ansiRe = regexp.MustCompile(`\x1b\[[0-?]*[ -/]*[@-~]|\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)`)

// StripANSI removes escape sequences from s.
func StripANSI(s string) string {
	if s == "" || !strings.ContainsRune(s, 0x1b) {
		return s
	}
	return ansiRe.ReplaceAllString(s, "")
}

// VisibleWidth returns the terminal display width of s.
func VisibleWidth(s string) int {
	if s == "" {
		return 0
	}
	t := StripANSI(s)
	g := uniseg.NewGraphemes(t)
	width := 0
	for g.Next() {
		width += runewidth.StringWidth(g.Str())
	}
	return width
}

// Truncate shortens s to fit width w without splitting grapheme
// clusters, appending ellipsis when anything was cut and it fits.
func Truncate(s string, w int, ellipsis string) string {
	if s == "" || w <= 0 {
		return ""
	}
	if VisibleWidth(s) <= w {
		return s
	}
	t := StripANSI(s)
	ellW := runewidth.StringWidth(ellipsis)
	g := uniseg.NewGraphemes(t)
	var b strings.Builder
	used := 0
	limit := w
	if ellW > 0 && ellW <= w {
		limit = w - ellW
	}
	for g.Next() {
		seg := g.Str()
		segW := runewidth.StringWidth(seg)
		if used+segW > limit {
			if ellW > 0 && ellW <= w {
				b.WriteString(ellipsis)
			}
			return b.String()
		}
		b.WriteString(seg)
		used += segW
	}
	return b.String()
}

// PadRight pads s with spaces up to display width w. Strings wider
// than w are returned unchanged.
func PadRight(s string, w int) string {
	pad := w - VisibleWidth(s)
	if pad <= 0 {
		return s
	}
	return s + strings.Repeat(" ", pad)
}

// FirstLine returns text up to the first newline.
func FirstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
