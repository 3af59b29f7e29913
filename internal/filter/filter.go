package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/br41nfck/findcomments/internal/model"
)

// Criteria narrows grouped blocks before presentation or export. Zero
// values mean "no restriction".
type Criteria struct {
	Kinds    []model.Kind
	MinLines int
	Contains []*regexp.Regexp
}

// Compile turns user-supplied words/regexes into case-insensitive
// patterns (the -contains / -fail-on contract).
func Compile(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// ParseKinds validates -only values.
func ParseKinds(names []string) ([]model.Kind, error) {
	out := make([]model.Kind, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		k, ok := model.ParseKind(n)
		if !ok {
			return nil, fmt.Errorf("unknown comment type: %s", n)
		}
		out = append(out, k)
	}
	return out, nil
}

// Apply filters blocks in input order.
func Apply(blocks []model.Block, c Criteria) []model.Block {
	if len(c.Kinds) == 0 && c.MinLines <= 0 && len(c.Contains) == 0 {
		return blocks
	}
	out := make([]model.Block, 0, len(blocks))
	for _, b := range blocks {
		if len(c.Kinds) > 0 && !kindIn(b.Kind, c.Kinds) {
			continue
		}
		if c.MinLines > 0 && len(b.Lines) < c.MinLines {
			continue
		}
		if len(c.Contains) > 0 && !Matches(b, c.Contains) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Matches reports whether any pattern hits the block's joined text.
func Matches(b model.Block, patterns []*regexp.Regexp) bool {
	text := strings.Join(b.Lines, "\n")
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// CountMatching returns how many blocks any pattern hits (-fail-on).
func CountMatching(blocks []model.Block, patterns []*regexp.Regexp) int {
	if len(patterns) == 0 {
		return 0
	}
	n := 0
	for _, b := range blocks {
		if Matches(b, patterns) {
			n++
		}
	}
	return n
}

func kindIn(k model.Kind, set []model.Kind) bool {
	for _, s := range set {
		if k == s {
			return true
		}
	}
	return false
}
