package scanner

import (
	"os"
	"strings"

	"github.com/br41nfck/findcomments/internal/grammar"
	"github.com/br41nfck/findcomments/internal/model"
)

// UnclosedMarker is appended to the text of a multi-line span whose end
// pattern was never found before end-of-file.
const UnclosedMarker = "\n[WARNING: multi-line comment not closed]"

// ScanFile extracts all comments from the file at path using the given
// rules, also reporting the file's line count. A read failure is
// returned to the caller for logging; it never yields partial records.
func ScanFile(path string, rules []grammar.Rule) ([]model.RawComment, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	lines := SplitLines(data)
	return ScanLines(path, lines, rules), len(lines), nil
}

// SplitLines splits raw file content into lines, tolerating CRLF endings
// and invalid UTF-8 (bad bytes are substituted, never fatal).
func SplitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	text := strings.ToValidUTF8(string(data), "�")
	// A trailing newline does not start an extra empty line.
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// ScanLines runs every rule over the lines and returns the raw records:
// all multi-line spans first, then all single-line matches, rule order
// preserved within each family. Single-line scanning deliberately does
// not skip lines inside multi-line spans; the caller sorts and de-dups
// downstream. Line numbers are 1-based.
func ScanLines(file string, lines []string, rules []grammar.Rule) []model.RawComment {
	var out []model.RawComment
	for _, r := range rules {
		if r.Kind == grammar.RuleMulti {
			out = append(out, scanMulti(file, lines, r)...)
		}
	}
	for _, r := range rules {
		if r.Kind == grammar.RuleSingle {
			out = append(out, scanSingle(file, lines, r)...)
		}
	}
	return out
}

// scanMulti is one independent top-to-bottom pass for a single rule,
// tracking a lone "inside span" flag. A line matching both start and end
// closes immediately only when the rule self-closes (distinct patterns);
// same-pattern rules like Python docstrings stay open on their first line.
func scanMulti(file string, lines []string, r grammar.Rule) []model.RawComment {
	var out []model.RawComment
	inside := false
	startLine := 0
	var span []string
	for i, line := range lines {
		if !inside {
			if !r.Start.MatchString(line) {
				continue
			}
			inside = true
			startLine = i + 1
			span = []string{line}
			if r.SelfClosing() && r.End.MatchString(line) {
				out = append(out, model.RawComment{
					File:      file,
					StartLine: startLine,
					EndLine:   i + 1,
					Text:      strings.TrimSpace(line),
					Kind:      model.KindMulti,
				})
				inside = false
				span = nil
			}
			continue
		}
		span = append(span, line)
		if r.End.MatchString(line) {
			out = append(out, model.RawComment{
				File:      file,
				StartLine: startLine,
				EndLine:   i + 1,
				Text:      strings.Join(span, "\n"),
				Kind:      model.KindMulti,
			})
			inside = false
			span = nil
		}
	}
	if inside {
		out = append(out, model.RawComment{
			File:      file,
			StartLine: startLine,
			EndLine:   len(lines),
			Text:      strings.Join(span, "\n") + UnclosedMarker,
			Kind:      model.KindWarning,
		})
	}
	return out
}

func scanSingle(file string, lines []string, r grammar.Rule) []model.RawComment {
	var out []model.RawComment
	for i, line := range lines {
		m := r.Pattern.FindString(line)
		if m == "" {
			continue
		}
		out = append(out, model.RawComment{
			File:      file,
			StartLine: i + 1,
			EndLine:   i + 1,
			Text:      strings.TrimSpace(m),
			Kind:      model.KindSingle,
		})
	}
	return out
}
