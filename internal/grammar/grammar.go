package grammar

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// RuleKind distinguishes the two grammar rule variants.
type RuleKind int

const (
	RuleSingle RuleKind = iota
	RuleMulti
)

// Rule is one recognition pattern for an extension: either a single-line
// regex or a start/end regex pair for multi-line spans.
type Rule struct {
	Kind    RuleKind
	Pattern *regexp.Regexp // single-line only
	Start   *regexp.Regexp // multi-line only
	End     *regexp.Regexp // multi-line only
}

// Single builds a single-line rule. The pattern must compile; the
// built-in table relies on that, plugin input is validated separately.
func Single(pattern string) Rule {
	return Rule{Kind: RuleSingle, Pattern: regexp.MustCompile(pattern)}
}

// Multi builds a multi-line rule from a start/end pattern pair.
func Multi(start, end string) Rule {
	return Rule{Kind: RuleMulti, Start: regexp.MustCompile(start), End: regexp.MustCompile(end)}
}

// NewSingle is the validating constructor used for plugin-supplied rules.
func NewSingle(pattern string) (Rule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("invalid single-line pattern %q: %w", pattern, err)
	}
	return Rule{Kind: RuleSingle, Pattern: re}, nil
}

// NewMulti is the validating constructor used for plugin-supplied rules.
func NewMulti(start, end string) (Rule, error) {
	s, err := regexp.Compile(start)
	if err != nil {
		return Rule{}, fmt.Errorf("invalid start pattern %q: %w", start, err)
	}
	e, err := regexp.Compile(end)
	if err != nil {
		return Rule{}, fmt.Errorf("invalid end pattern %q: %w", end, err)
	}
	return Rule{Kind: RuleMulti, Start: s, End: e}, nil
}

// SelfClosing reports whether a line matching both start and end closes
// the span on its opening line. Rules whose start and end pattern texts
// are identical (Python docstrings) never self-close.
func (r Rule) SelfClosing() bool {
	return r.Kind == RuleMulti && r.Start.String() != r.End.String()
}

// Registry maps file extensions to their ordered rule lists: built-in
// rules first, then externally registered (plugin) rules. Lookups are
// pure; registration happens once at startup before any scan.
type Registry struct {
	mu    sync.RWMutex
	extra map[string][]Rule
}

func NewRegistry() *Registry {
	return &Registry{extra: make(map[string][]Rule)}
}

// Register appends plugin rules for an extension. The extension is
// normalized to a lower-case ".ext" form.
func (r *Registry) Register(ext string, rules ...Rule) {
	if len(rules) == 0 {
		return
	}
	ext = NormalizeExt(ext)
	r.mu.Lock()
	r.extra[ext] = append(r.extra[ext], rules...)
	r.mu.Unlock()
}

// RulesFor returns the rules for an extension, built-ins first. Unknown
// extensions yield nil, which callers treat as "skip the file".
func (r *Registry) RulesFor(ext string) []Rule {
	ext = NormalizeExt(ext)
	builtin := builtinRules[ext]
	r.mu.RLock()
	extra := r.extra[ext]
	r.mu.RUnlock()
	if len(extra) == 0 {
		return builtin
	}
	out := make([]Rule, 0, len(builtin)+len(extra))
	out = append(out, builtin...)
	out = append(out, extra...)
	return out
}

// Extensions lists every extension with at least one rule, sorted.
func (r *Registry) Extensions() []string {
	seen := make(map[string]struct{}, len(builtinRules))
	for ext := range builtinRules {
		seen[ext] = struct{}{}
	}
	r.mu.RLock()
	for ext := range r.extra {
		seen[ext] = struct{}{}
	}
	r.mu.RUnlock()
	out := make([]string, 0, len(seen))
	for ext := range seen {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// NormalizeExt lower-cases an extension and ensures the leading dot.
func NormalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ext
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
