package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/br41nfck/findcomments/internal/model"
	"github.com/br41nfck/findcomments/internal/termcolor"
)

var testBlocks = []model.Block{
	{File: "a.py", StartLine: 1, EndLine: 1, Lines: []string{"top comment"}, Kind: model.KindSingle},
	{File: "a.py", StartLine: 3, EndLine: 4, Lines: []string{"doc\nstring"}, Kind: model.KindMulti},
	{File: "b.c", StartLine: 2, EndLine: 5, Lines: []string{"open\n[WARNING: multi-line comment not closed]"}, Kind: model.KindWarning},
}

func testMeta() Meta {
	return Meta{
		Root:    "src",
		Started: time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
		Files:   3,
	}
}

func TestParseFormat(t *testing.T) {
	for _, v := range []string{"txt", "PRETTYTXT", " csv ", "json", "html"} {
		if _, err := ParseFormat(v); err != nil {
			t.Fatalf("ParseFormat(%q): %v", v, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatal("want error for unknown format")
	}
}

func TestWriteTxt(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatTxt, testBlocks, testMeta()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"a.py:1 [single]", "a.py:3-4 [multi]", "b.c:2-5 [warning]", "    top comment"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output:\n%s", want, out)
		}
	}
}

func TestWritePrettyTxt(t *testing.T) {
	meta := testMeta()
	meta.Warnings = 1
	meta.Errors = []model.ScanError{{Path: "x.py", Stage: "read", Message: "permission denied"}}
	var buf bytes.Buffer
	if err := Write(&buf, FormatPrettyTxt, testBlocks, meta); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"Comment report for src",
		"Generated: 2024-05-01 10:30:00",
		"Files scanned: 3 | Comment blocks: 3 | Warnings: 1",
		"x.py (read): permission denied",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output:\n%s", want, out)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, testBlocks); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "file,start_line,end_line,type,text\r\n") {
		t.Fatalf("missing header: %q", out)
	}
	if !strings.Contains(out, "a.py,1,1,single,top comment") {
		t.Fatalf("missing single row:\n%s", out)
	}
	// Multi-line text stays in one quoted cell, CRLF-normalized.
	if !strings.Contains(out, "\"doc\r\nstring\"") {
		t.Fatalf("multi-line cell not quoted:\n%s", out)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, testBlocks); err != nil {
		t.Fatal(err)
	}
	var decoded []model.Block
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded) != len(testBlocks) {
		t.Fatalf("got %d blocks, want %d", len(decoded), len(testBlocks))
	}
	if decoded[2].Kind != model.KindWarning {
		t.Fatalf("kind = %s, want warning", decoded[2].Kind)
	}

	buf.Reset()
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Fatalf("nil blocks must encode as []: %q", buf.String())
	}
}

func TestWriteHTMLEscapes(t *testing.T) {
	blocks := []model.Block{
		{File: "a<b>.py", StartLine: 1, EndLine: 1, Lines: []string{"<script>alert(1)</script>"}, Kind: model.KindSingle},
	}
	var buf bytes.Buffer
	if err := Write(&buf, FormatHTML, blocks, testMeta()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "<script>alert") {
		t.Fatalf("unescaped script tag:\n%s", out)
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Fatalf("escaped content missing:\n%s", out)
	}
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := &Printer{Out: &buf, Color: false, Highlighter: termcolor.NewHighlighter(nil, false)}
	p.Print(testBlocks[0])
	if got := buf.String(); got != "a.py:1 top comment\n" {
		t.Fatalf("got %q", got)
	}

	buf.Reset()
	p.ShowContent = true
	p.Print(testBlocks[1])
	out := buf.String()
	if !strings.Contains(out, "a.py:3-4 [multi]") {
		t.Fatalf("missing location line:\n%s", out)
	}

	buf.Reset()
	p.Summary(3, 2, 1)
	if got := buf.String(); got != "Files: 3 | Comment blocks: 2 | Warnings: 1\n" {
		t.Fatalf("got %q", got)
	}
}

func TestPrinterColorSurvivesKeyword(t *testing.T) {
	var buf bytes.Buffer
	p := &Printer{
		Out:         &buf,
		Color:       true,
		Highlighter: termcolor.NewHighlighter([]string{"TODO"}, true),
	}
	p.Print(model.Block{
		File: "a.py", StartLine: 1, EndLine: 1,
		Lines: []string{"TODO fix this"},
		Kind:  model.KindSingle,
	})
	out := buf.String()
	// Text after the highlighted keyword must stay green, not revert
	// to the terminal default.
	if !strings.Contains(out, "\x1b[31;1mTODO\x1b[0m\x1b[32;1m fix this") {
		t.Fatalf("line color not restored after keyword: %q", out)
	}
}
