package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// RenderFile writes the report to path in the given format.
func RenderFile(ctx context.Context, path string, format Format, st Stats) error {
	switch format {
	case FormatXLSX:
		return WriteXLSX(path, st)
	case FormatPDF:
		return WritePDF(ctx, path, st)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Render(f, format, st); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Render writes the stats in the given format. FormatXLSX and
// FormatPDF need a file path and are handled by RenderFile.
func Render(w io.Writer, format Format, st Stats) error {
	switch format {
	case FormatMarkdown:
		return renderMarkdown(w, st)
	case FormatCSV:
		return renderCSV(w, st)
	case FormatText:
		return renderText(w, st)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	case FormatHTML:
		return renderHTML(w, st)
	default:
		return fmt.Errorf("format %s requires a file path", format)
	}
}

func renderMarkdown(w io.Writer, st Stats) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# Comment report: %s\n\n", st.Root)
	fmt.Fprintf(&b, "Generated %s\n\n", st.Generated.Format("2006-01-02 15:04:05"))
	b.WriteString("## Totals\n\n")
	fmt.Fprintf(&b, "| Metric | Value |\n| --- | --- |\n")
	fmt.Fprintf(&b, "| Files scanned | %d |\n", st.Files)
	fmt.Fprintf(&b, "| Source lines | %d |\n", st.SourceLines)
	fmt.Fprintf(&b, "| Comment blocks | %d |\n", st.Blocks)
	fmt.Fprintf(&b, "| Comment lines | %d |\n", st.CommentLines)
	fmt.Fprintf(&b, "| Blocks per file | %.2f |\n", st.BlocksPerFile())
	fmt.Fprintf(&b, "| Blocks per 1000 lines | %.2f |\n", st.PerThousandLines())
	fmt.Fprintf(&b, "| Errors | %d |\n", st.Errors)
	b.WriteString("\n## By type\n\n| Type | Blocks |\n| --- | --- |\n")
	for _, k := range st.Kinds() {
		fmt.Fprintf(&b, "| %s | %d |\n", k.File, k.Blocks)
	}
	b.WriteString("\n## Top files\n\n| File | Blocks | Comment lines |\n| --- | --- | --- |\n")
	for _, fc := range st.TopFiles {
		fmt.Fprintf(&b, "| %s | %d | %d |\n", escapeCell(fc.File), fc.Blocks, fc.Lines)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

func renderCSV(w io.Writer, st Stats) error {
	writer := csv.NewWriter(w)
	writer.UseCRLF = true
	rows := [][]string{
		{"metric", "value"},
		{"root", st.Root},
		{"generated", st.Generated.Format("2006-01-02 15:04:05")},
		{"files_scanned", fmt.Sprintf("%d", st.Files)},
		{"source_lines", fmt.Sprintf("%d", st.SourceLines)},
		{"comment_blocks", fmt.Sprintf("%d", st.Blocks)},
		{"comment_lines", fmt.Sprintf("%d", st.CommentLines)},
		{"blocks_per_1000_lines", fmt.Sprintf("%.2f", st.PerThousandLines())},
		{"errors", fmt.Sprintf("%d", st.Errors)},
	}
	for _, k := range st.Kinds() {
		rows = append(rows, []string{"type:" + k.File, fmt.Sprintf("%d", k.Blocks)})
	}
	for _, fc := range st.TopFiles {
		rows = append(rows, []string{"file:" + fc.File, fmt.Sprintf("%d", fc.Blocks)})
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func renderText(w io.Writer, st Stats) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Comment report: %s\n", st.Root)
	fmt.Fprintf(&b, "Generated: %s\n\n", st.Generated.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Files scanned:   %d\n", st.Files)
	fmt.Fprintf(&b, "Source lines:    %d\n", st.SourceLines)
	fmt.Fprintf(&b, "Comment blocks:  %d\n", st.Blocks)
	fmt.Fprintf(&b, "Comment lines:   %d\n", st.CommentLines)
	fmt.Fprintf(&b, "Blocks per file: %.2f\n", st.BlocksPerFile())
	fmt.Fprintf(&b, "Blocks/1k lines: %.2f\n", st.PerThousandLines())
	fmt.Fprintf(&b, "Errors:          %d\n\n", st.Errors)
	b.WriteString("By type:\n")
	for _, k := range st.Kinds() {
		fmt.Fprintf(&b, "  %-14s %d\n", k.File, k.Blocks)
	}
	b.WriteString("\nTop files:\n")
	for _, fc := range st.TopFiles {
		fmt.Fprintf(&b, "  %4d blocks  %4d lines  %s\n", fc.Blocks, fc.Lines, fc.File)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// renderHTML converts the markdown report to a standalone HTML page.
func renderHTML(w io.Writer, st Stats) error {
	var md bytes.Buffer
	if err := renderMarkdown(&md, st); err != nil {
		return err
	}
	body, err := markdownToHTML(md.Bytes())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, htmlPage, st.Root, body)
	return err
}

func markdownToHTML(src []byte) (string, error) {
	gm := goldmark.New(
		goldmark.WithExtensions(extension.Table),
		goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
	)
	var out bytes.Buffer
	if err := gm.Convert(src, &out); err != nil {
		return "", err
	}
	return out.String(), nil
}

const htmlPage = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Comment report: %s</title>
<style>
body { font-family: sans-serif; max-width: 60em; margin: 2em auto; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 4px 10px; text-align: left; }
th { background: #f0f0f0; }
</style></head><body>
%s
</body></html>
`
