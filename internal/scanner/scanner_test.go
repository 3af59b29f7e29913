package scanner

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/br41nfck/findcomments/internal/grammar"
	"github.com/br41nfck/findcomments/internal/model"
)

func TestSplitLines(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{name: "Empty", in: "", want: nil},
		{name: "TrailingNewline", in: "a\nb\n", want: []string{"a", "b"}},
		{name: "NoTrailingNewline", in: "a\nb", want: []string{"a", "b"}},
		{name: "CRLF", in: "a\r\nb\r\n", want: []string{"a", "b"}},
		{name: "BlankLinesKept", in: "a\n\nb\n", want: []string{"a", "", "b"}},
		{name: "InvalidUTF8", in: "ok\n\xff\n", want: []string{"ok", "�"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SplitLines([]byte(tc.in))
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("SplitLines mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScanSingleLine(t *testing.T) {
	lines := []string{
		"x = 1  # first",
		"y = 2",
		"# second",
	}
	got := ScanLines("a.py", lines, []grammar.Rule{grammar.Single(`#.*`)})
	want := []model.RawComment{
		{File: "a.py", StartLine: 1, EndLine: 1, Text: "# first", Kind: model.KindSingle},
		{File: "a.py", StartLine: 3, EndLine: 3, Text: "# second", Kind: model.KindSingle},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestScanMultiSpan(t *testing.T) {
	lines := []string{
		`def f():`,
		`    """doc`,
		`    string"""`,
		`    pass`,
	}
	rules := []grammar.Rule{grammar.Multi(`"""`, `"""`)}
	got := ScanLines("a.py", lines, rules)
	want := []model.RawComment{
		{
			File:      "a.py",
			StartLine: 2,
			EndLine:   3,
			Text:      `    """doc` + "\n" + `    string"""`,
			Kind:      model.KindMulti,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestScanMultiSelfClosing(t *testing.T) {
	lines := []string{"int x; /* inline */", "/* open", "body */"}
	got := ScanLines("a.c", lines, []grammar.Rule{grammar.Multi(`/\*`, `\*/`)})
	want := []model.RawComment{
		{File: "a.c", StartLine: 1, EndLine: 1, Text: "int x; /* inline */", Kind: model.KindMulti},
		{File: "a.c", StartLine: 2, EndLine: 3, Text: "/* open\nbody */", Kind: model.KindMulti},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestScanMultiSamePatternDoesNotSelfClose(t *testing.T) {
	// A docstring delimiter matches start and end at once; the span must
	// stay open past its first line.
	lines := []string{`"""doc`, `more`, `"""`}
	got := ScanLines("a.py", lines, []grammar.Rule{grammar.Multi(`"""`, `"""`)})
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1: %+v", len(got), got)
	}
	if got[0].StartLine != 1 || got[0].EndLine != 3 {
		t.Fatalf("span = %d-%d, want 1-3", got[0].StartLine, got[0].EndLine)
	}
}

func TestScanMultiUnterminated(t *testing.T) {
	lines := []string{"int x;", "/* never closed", "int y;"}
	got := ScanLines("a.c", lines, []grammar.Rule{grammar.Multi(`/\*`, `\*/`)})
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	rec := got[0]
	if rec.Kind != model.KindWarning {
		t.Fatalf("kind = %s, want %s", rec.Kind, model.KindWarning)
	}
	if rec.StartLine != 2 || rec.EndLine != 3 {
		t.Fatalf("span = %d-%d, want 2-3", rec.StartLine, rec.EndLine)
	}
	if !strings.HasSuffix(rec.Text, UnclosedMarker) {
		t.Fatalf("text missing unclosed marker: %q", rec.Text)
	}
}

func TestScanSingleInsideMultiSpanStillReported(t *testing.T) {
	// Single-line rules do not suppress lines covered by multi spans;
	// grouping decides what survives.
	lines := []string{"/*", "// nested", "*/"}
	rules := []grammar.Rule{grammar.Multi(`/\*`, `\*/`), grammar.Single(`//.*`)}
	got := ScanLines("a.c", lines, rules)
	var kinds []model.Kind
	for _, c := range got {
		kinds = append(kinds, c.Kind)
	}
	want := []model.Kind{model.KindMulti, model.KindSingle}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestScanPythonFileScenario(t *testing.T) {
	src := strings.Join([]string{
		`# top comment`,
		`def f():`,
		`    """doc`,
		`    string"""`,
		`    return 1  # trailing`,
	}, "\n")
	reg := grammar.NewRegistry()
	got := ScanLines("a.py", SplitLines([]byte(src)), reg.RulesFor(".py"))

	model.SortComments(got)
	var spans []string
	for _, c := range got {
		spans = append(spans, fmt.Sprintf("%s:%d-%d", c.Kind, c.StartLine, c.EndLine))
	}
	want := []string{"single:1-1", "multi:3-4", "single:5-5"}
	if diff := cmp.Diff(want, spans); diff != "" {
		t.Fatalf("spans mismatch (-want +got):\n%s", diff)
	}
}
