package model

import "sort"

// Kind classifies a comment record or block.
type Kind string

const (
	KindSingle      Kind = "single"
	KindMulti       Kind = "multi"
	KindTripleSlash Kind = "triple_slash"
	KindWarning     Kind = "warning"
)

// ParseKind validates a user-supplied kind name (e.g. from -only).
func ParseKind(v string) (Kind, bool) {
	switch Kind(v) {
	case KindSingle, KindMulti, KindTripleSlash, KindWarning:
		return Kind(v), true
	}
	return "", false
}

// RawComment is one comment as extracted from a file. Line numbers are
// 1-based and inclusive. For multi-line spans Text is the newline-joined
// span content; an unterminated span carries Kind=KindWarning and a
// sentinel suffix in Text.
type RawComment struct {
	File      string `json:"file" msgpack:"file"`
	StartLine int    `json:"line" msgpack:"line"`
	EndLine   int    `json:"end_line" msgpack:"end_line"`
	Text      string `json:"text" msgpack:"text"`
	Kind      Kind   `json:"type" msgpack:"type"`
}

// Block is the grouped, display-ready unit derived from a sorted
// RawComment sequence. Lines holds the cleaned text in source order.
type Block struct {
	File      string   `json:"file"`
	StartLine int      `json:"start_line"`
	EndLine   int      `json:"end_line"`
	Lines     []string `json:"lines"`
	Kind      Kind     `json:"type"`
}

// ScanError records a per-file failure that did not abort the walk.
type ScanError struct {
	Path    string `json:"path"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// SortComments orders records by (file, start line), the order the
// grouper requires.
func SortComments(cs []RawComment) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].File == cs[j].File {
			return cs[i].StartLine < cs[j].StartLine
		}
		return cs[i].File < cs[j].File
	})
}

// SortErrors orders scan errors for stable reporting.
func SortErrors(errs []ScanError) {
	sort.SliceStable(errs, func(i, j int) bool {
		if errs[i].Path == errs[j].Path {
			return errs[i].Stage < errs[j].Stage
		}
		return errs[i].Path < errs[j].Path
	})
}
