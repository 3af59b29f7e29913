package group

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/br41nfck/findcomments/internal/grammar"
	"github.com/br41nfck/findcomments/internal/model"
)

var (
	leadingMarkers = regexp.MustCompile(`^\s*(?:///+|//+|#+|/\*+|\*+/)`)
	summaryTags    = regexp.MustCompile(`(?i)</?summary>`)

	spanOpeners = []string{`"""`, `'''`, `<!--`, `/*`}
	spanClosers = []string{`"""`, `'''`, `-->`, `*/`}
)

type lineKey struct {
	file string
	line int
}

// Blocks folds a (file, start line)-sorted RawComment sequence into
// display-ready blocks: consecutive doc-comment singles collapse into one
// triple_slash block, everything else becomes a singleton. Input is
// sorted defensively so an unsorted caller still gets deterministic
// output. preserveSymbols skips cleaning (trim only).
func Blocks(comments []model.RawComment, preserveSymbols bool) []model.Block {
	cs := make([]model.RawComment, len(comments))
	copy(cs, comments)
	model.SortComments(cs)

	var out []model.Block
	consumed := make(map[lineKey]struct{}, len(cs))
	n := len(cs)
	for i := 0; i < n; {
		c := cs[i]
		k := lineKey{c.File, c.StartLine}
		if _, dup := consumed[k]; dup {
			i++
			continue
		}
		if isDocComment(c) {
			end := i
			var lines []string
			if txt := Clean(c.Text, preserveSymbols); txt != "" {
				lines = append(lines, txt)
			}
			consumed[k] = struct{}{}
			// Greedy run extension: same file, immediately following line,
			// marker prefix. The grammar emits several records per line
			// when patterns overlap (// and /// both match a /// line), so
			// duplicates of the line just consumed are stepped over before
			// the contiguity check. Empty-after-clean members still count
			// for contiguity; they just contribute no output line.
			for {
				next := end + 1
				for next < n && cs[next].File == c.File && cs[next].StartLine == cs[end].StartLine {
					next++
				}
				if next >= n ||
					cs[next].File != c.File ||
					cs[next].StartLine != cs[end].StartLine+1 ||
					!strings.HasPrefix(cs[next].Text, grammar.DocCommentMarker) {
					break
				}
				end = next
				if txt := Clean(cs[end].Text, preserveSymbols); txt != "" {
					lines = append(lines, txt)
				}
				consumed[lineKey{cs[end].File, cs[end].StartLine}] = struct{}{}
			}
			if len(lines) > 0 {
				out = append(out, model.Block{
					File:      c.File,
					StartLine: c.StartLine,
					EndLine:   cs[end].StartLine,
					Lines:     lines,
					Kind:      model.KindTripleSlash,
				})
			}
			i = end + 1
			continue
		}
		if txt := Clean(c.Text, preserveSymbols); txt != "" {
			out = append(out, model.Block{
				File:      c.File,
				StartLine: c.StartLine,
				EndLine:   c.EndLine,
				Lines:     []string{txt},
				Kind:      blockKind(c),
			})
		}
		i++
	}
	return out
}

func isDocComment(c model.RawComment) bool {
	return c.Kind == model.KindSingle &&
		grammar.DocCommentExts[strings.ToLower(filepath.Ext(c.File))] &&
		strings.HasPrefix(c.Text, grammar.DocCommentMarker)
}

func blockKind(c model.RawComment) model.Kind {
	if c.Kind == model.KindWarning {
		return model.KindWarning
	}
	if c.StartLine == c.EndLine {
		return model.KindSingle
	}
	return model.KindMulti
}

// Clean strips comment decoration from a record's text: a leading run of
// line-comment markers (///, //, #, /*, */), the multi-line span
// delimiters at either edge, and <summary> tags, then trims whitespace.
// preserveSymbols=true only trims.
func Clean(text string, preserveSymbols bool) string {
	s := strings.TrimSpace(text)
	if preserveSymbols {
		return s
	}
	s = strings.TrimSpace(leadingMarkers.ReplaceAllString(s, ""))
	for _, open := range spanOpeners {
		if strings.HasPrefix(s, open) {
			s = strings.TrimSpace(s[len(open):])
			break
		}
	}
	for _, closer := range spanClosers {
		if strings.HasSuffix(s, closer) {
			s = strings.TrimSpace(s[:len(s)-len(closer)])
			break
		}
	}
	s = summaryTags.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
