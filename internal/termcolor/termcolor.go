package termcolor

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"golang.org/x/term"
)

// Mode selects how color output is decided.
type Mode int

const (
	ModeAuto Mode = iota
	ModeAlways
	ModeNever
)

func (m Mode) String() string {
	switch m {
	case ModeAlways:
		return "always"
	case ModeNever:
		return "never"
	default:
		return "auto"
	}
}

// ParseMode accepts auto/always/never (empty means auto).
func ParseMode(v string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "auto":
		return ModeAuto, nil
	case "always":
		return ModeAlways, nil
	case "never":
		return ModeNever, nil
	default:
		return ModeAuto, fmt.Errorf("unknown color mode: %s", v)
	}
}

// Enabled reports whether colors should be emitted.
//
// Priority order for ModeAuto (first match wins):
//  1. TERM=dumb suppresses colors entirely.
//  2. NO_COLOR disables colors.
//  3. CLICOLOR=0 disables colors.
//  4. CLICOLOR_FORCE with any non-zero value force-enables colors.
//  5. Otherwise colors are emitted only when stdout is a TTY.
func Enabled(mode Mode, stdout *os.File, env map[string]string) bool {
	switch mode {
	case ModeAlways:
		return true
	case ModeNever:
		return false
	}
	if env != nil {
		if v := strings.ToLower(strings.TrimSpace(env["TERM"])); v == "dumb" {
			return false
		}
		if strings.TrimSpace(env["NO_COLOR"]) != "" {
			return false
		}
		if strings.TrimSpace(env["CLICOLOR"]) == "0" {
			return false
		}
		if v := strings.TrimSpace(env["CLICOLOR_FORCE"]); v != "" && v != "0" {
			return true
		}
	}
	return isTerminal(stdout)
}

// EnvMap converts os.Environ()-style entries into a lookup map.
func EnvMap(values []string) map[string]string {
	env := make(map[string]string, len(values))
	for _, e := range values {
		if e == "" {
			continue
		}
		if idx := strings.Index(e, "="); idx >= 0 {
			env[e[:idx]] = e[idx+1:]
		} else {
			env[e] = ""
		}
	}
	return env
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Color is a bright basic ANSI foreground.
type Color int

const (
	Red Color = iota + 1
	Green
	Yellow
	Blue
	Magenta
	Cyan
)

var sgr = map[Color]string{
	Red:     "31;1",
	Green:   "32;1",
	Yellow:  "33;1",
	Blue:    "34;1",
	Magenta: "35;1",
	Cyan:    "36;1",
}

// Paint wraps text in the color's SGR sequence when enabled.
func Paint(c Color, text string, enabled bool) string {
	if !enabled || text == "" {
		return text
	}
	return "\x1b[" + sgr[c] + "m" + text + "\x1b[0m"
}

// Highlighter colors configured keywords inside comment text,
// case-insensitively, rotating through a fixed palette so distinct
// keywords stay distinguishable.
type Highlighter struct {
	patterns []*regexp.Regexp
	enabled  bool
}

var palette = []Color{Red, Magenta, Cyan, Yellow, Green, Blue}

// DefaultKeywords are highlighted when the user supplies none.
var DefaultKeywords = []string{"TODO", "FIXME", "BUG", "HACK", "NOTE", "WARNING"}

func NewHighlighter(words []string, enabled bool) *Highlighter {
	h := &Highlighter{enabled: enabled}
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		h.patterns = append(h.patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(w)+`\b`))
	}
	return h
}

// Apply colors every keyword occurrence in text.
func (h *Highlighter) Apply(text string) string {
	if h == nil || !h.enabled || text == "" {
		return text
	}
	for i, re := range h.patterns {
		color := palette[i%len(palette)]
		text = re.ReplaceAllStringFunc(text, func(m string) string {
			return Paint(color, m, true)
		})
	}
	return text
}

// ApplyWithin colors keywords inside text destined for a base-colored
// context, re-opening base after every keyword so the reset at the
// keyword's end does not bleach the rest of the line.
func (h *Highlighter) ApplyWithin(text string, base Color) string {
	if h == nil || !h.enabled || text == "" {
		return text
	}
	resume := "\x1b[" + sgr[base] + "m"
	for i, re := range h.patterns {
		color := palette[i%len(palette)]
		text = re.ReplaceAllStringFunc(text, func(m string) string {
			return Paint(color, m, true) + resume
		})
	}
	return text
}
