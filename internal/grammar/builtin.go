package grammar

import "sort"

// Built-in comment grammars, keyed by extension. Rules are ordered:
// scanners evaluate multi-line rules before single-line rules.
// This is configuration data, shared across all scans.

var (
	ruleSlashes    = Single(`//.*`)
	ruleTripleSlsh = Single(`///.*`)
	ruleHash       = Single(`#.*`)
	ruleCBlock     = Multi(`/\*`, `\*/`)
	ruleXMLBlock   = Multi(`<!--`, `-->`)
)

var cFamily = []Rule{ruleSlashes, ruleCBlock}

var builtinRules = map[string][]Rule{
	".py": {
		ruleHash,
		Multi(`"""`, `"""`),
		Multi(`'''`, `'''`),
	},
	".js":    cFamily,
	".ts":    cFamily,
	".tsx":   cFamily,
	".java":  cFamily,
	".c":     cFamily,
	".h":     cFamily,
	".cpp":   cFamily,
	".hpp":   cFamily,
	".cc":    cFamily,
	".cxx":   cFamily,
	".hxx":   cFamily,
	".cs":    {ruleSlashes, ruleTripleSlsh, ruleCBlock},
	".go":    cFamily,
	".rs":    {ruleSlashes, ruleTripleSlsh, ruleCBlock},
	".php":   {ruleSlashes, ruleHash, ruleCBlock},
	".rb":    {ruleHash},
	".swift": cFamily,
	".kt":    cFamily,
	".kts":   cFamily,
	".html":  {ruleXMLBlock},
	".htm":   {ruleXMLBlock},
	".xml":   {ruleXMLBlock},
	".css":   {ruleCBlock},
	".sh":    {ruleHash},
	".bash":  {ruleHash},
	".md": {
		Single(`<!--.*`),
		ruleXMLBlock,
	},
}

// DocCommentExts are the extensions whose consecutive "///" line comments
// aggregate into one triple_slash block.
var DocCommentExts = map[string]bool{
	".cs": true,
	".rs": true,
}

// DocCommentMarker is the prefix that triggers run aggregation.
const DocCommentMarker = "///"

// DefaultExtensions returns the extensions scanned when the caller does
// not narrow the set, sorted.
func DefaultExtensions() []string {
	out := make([]string, 0, len(builtinRules))
	for ext := range builtinRules {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}
