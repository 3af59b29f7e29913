// Package output renders comment blocks to the console and to the
// txt/prettytxt/csv/json/html export formats.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/br41nfck/findcomments/internal/model"
	"github.com/br41nfck/findcomments/internal/termcolor"
)

// Format names an export file format.
type Format string

const (
	FormatTxt       Format = "txt"
	FormatPrettyTxt Format = "prettytxt"
	FormatCSV       Format = "csv"
	FormatJSON      Format = "json"
	FormatHTML      Format = "html"
)

// ParseFormat validates a -format value.
func ParseFormat(v string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(v))) {
	case FormatTxt:
		return FormatTxt, nil
	case FormatPrettyTxt:
		return FormatPrettyTxt, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatHTML:
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unknown output format: %s", v)
	}
}

// Meta carries run information for the prettytxt header.
type Meta struct {
	Root     string
	Started  time.Time
	Files    int
	Warnings int
	Errors   []model.ScanError
}

// Write renders blocks to w in the given format.
func Write(w io.Writer, format Format, blocks []model.Block, meta Meta) error {
	switch format {
	case FormatTxt:
		return writeTxt(w, blocks)
	case FormatPrettyTxt:
		return writePrettyTxt(w, blocks, meta)
	case FormatCSV:
		return WriteCSV(w, blocks)
	case FormatJSON:
		return WriteJSON(w, blocks)
	case FormatHTML:
		return writeHTML(w, blocks, meta)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func writeTxt(w io.Writer, blocks []model.Block) error {
	for _, b := range blocks {
		if _, err := fmt.Fprintf(w, "%s:%s [%s]\n", b.File, lineSpan(b), b.Kind); err != nil {
			return err
		}
		for _, line := range b.Lines {
			if _, err := fmt.Fprintf(w, "    %s\n", line); err != nil {
				return err
			}
		}
	}
	return nil
}

func writePrettyTxt(w io.Writer, blocks []model.Block, meta Meta) error {
	if _, err := fmt.Fprintf(w, "Comment report for %s\n", meta.Root); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Generated: %s\n", meta.Started.Format("2006-01-02 15:04:05")); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Files scanned: %d | Comment blocks: %d | Warnings: %d\n",
		meta.Files, len(blocks), meta.Warnings); err != nil {
		return err
	}
	if len(meta.Errors) > 0 {
		if _, err := fmt.Fprintf(w, "Errors: %d\n", len(meta.Errors)); err != nil {
			return err
		}
		for _, e := range meta.Errors {
			if _, err := fmt.Fprintf(w, "  %s (%s): %s\n", e.Path, e.Stage, e.Message); err != nil {
				return err
			}
		}
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("=", 72)); err != nil {
		return err
	}
	return writeTxt(w, blocks)
}

// WriteCSV renders blocks as RFC 4180 compliant CSV (including CRLF
// endings). Multi-line text stays inside one quoted cell.
func WriteCSV(w io.Writer, blocks []model.Block) error {
	writer := csv.NewWriter(w)
	writer.UseCRLF = true
	if err := writer.Write([]string{"file", "start_line", "end_line", "type", "text"}); err != nil {
		return err
	}
	for _, b := range blocks {
		row := []string{
			b.File,
			fmt.Sprintf("%d", b.StartLine),
			fmt.Sprintf("%d", b.EndLine),
			string(b.Kind),
			strings.Join(b.Lines, "\n"),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteJSON renders blocks as an indented JSON array.
func WriteJSON(w io.Writer, blocks []model.Block) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if blocks == nil {
		blocks = []model.Block{}
	}
	return enc.Encode(blocks)
}

func writeHTML(w io.Writer, blocks []model.Block, meta Meta) error {
	if _, err := fmt.Fprintf(w, htmlHead, html.EscapeString(meta.Root)); err != nil {
		return err
	}
	for _, b := range blocks {
		text := html.EscapeString(strings.Join(b.Lines, "\n"))
		text = strings.ReplaceAll(text, "\n", "<br>")
		_, err := fmt.Fprintf(w, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
			html.EscapeString(b.File), lineSpan(b), html.EscapeString(string(b.Kind)), text)
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprint(w, "</table></body></html>\n")
	return err
}

const htmlHead = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Comments in %s</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; width: 100%%; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; vertical-align: top; }
th { background: #f0f0f0; }
td:nth-child(4) { font-family: monospace; white-space: pre-wrap; }
</style></head><body>
<table><tr><th>File</th><th>Lines</th><th>Type</th><th>Text</th></tr>
`

func lineSpan(b model.Block) string {
	if b.StartLine == b.EndLine {
		return fmt.Sprintf("%d", b.StartLine)
	}
	return fmt.Sprintf("%d-%d", b.StartLine, b.EndLine)
}

// Printer writes blocks to the console with optional color and
// keyword highlighting.
type Printer struct {
	Out         io.Writer
	Color       bool
	Highlighter *termcolor.Highlighter
	ShowContent bool
}

// Print renders one block. In ShowContent mode every line of the
// block is shown indented under the location, otherwise only the
// first line follows the location inline.
func (p *Printer) Print(b model.Block) {
	loc := fmt.Sprintf("%s:%s", termcolor.Paint(termcolor.Blue, b.File, p.Color),
		termcolor.Paint(termcolor.Yellow, lineSpan(b), p.Color))
	if p.ShowContent {
		fmt.Fprintf(p.Out, "%s [%s]\n", loc, b.Kind)
		for _, line := range b.Lines {
			fmt.Fprintf(p.Out, "    %s\n", p.colorLine(line))
		}
		return
	}
	first := ""
	if len(b.Lines) > 0 {
		first = b.Lines[0]
	}
	fmt.Fprintf(p.Out, "%s %s\n", loc, p.colorLine(first))
}

func (p *Printer) colorLine(line string) string {
	if !p.Color {
		return p.Highlighter.Apply(line)
	}
	return termcolor.Paint(termcolor.Green, p.Highlighter.ApplyWithin(line, termcolor.Green), true)
}

// Summary prints the closing one-line totals.
func (p *Printer) Summary(files, blocks, warnings int) {
	fmt.Fprintf(p.Out, "Files: %d | Comment blocks: %d | Warnings: %d\n", files, blocks, warnings)
}
