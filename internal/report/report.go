// Package report builds aggregate statistics over scan results and
// renders them as md, csv, txt, json, html, xlsx or pdf.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/br41nfck/findcomments/internal/model"
)

// Format names a report file format.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatCSV      Format = "csv"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
	FormatHTML     Format = "html"
	FormatXLSX     Format = "xlsx"
	FormatPDF      Format = "pdf"
)

// ParseFormat validates a -report value.
func ParseFormat(v string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(v))) {
	case FormatMarkdown:
		return FormatMarkdown, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatHTML:
		return FormatHTML, nil
	case FormatXLSX:
		return FormatXLSX, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unknown report format: %s", v)
	}
}

// DefaultExt maps a format to its file extension.
func (f Format) DefaultExt() string {
	if f == FormatMarkdown {
		return ".md"
	}
	return "." + string(f)
}

// FileCount pairs a file with how many comment blocks it holds.
type FileCount struct {
	File   string `json:"file"`
	Blocks int    `json:"blocks"`
	Lines  int    `json:"comment_lines"`
}

// Stats summarizes a completed scan.
type Stats struct {
	Root         string         `json:"root"`
	Generated    time.Time      `json:"generated"`
	Files        int            `json:"files_scanned"`
	SourceLines  int            `json:"source_lines"`
	Blocks       int            `json:"comment_blocks"`
	CommentLines int            `json:"comment_lines"`
	ByKind       map[string]int `json:"by_type"`
	TopFiles     []FileCount    `json:"top_files"`
	Errors       int            `json:"errors"`
}

const topFilesLimit = 10

// Collect computes statistics over the grouped blocks.
func Collect(root string, files, sourceLines int, blocks []model.Block, errs []model.ScanError) Stats {
	st := Stats{
		Root:        root,
		Generated:   time.Now(),
		Files:       files,
		SourceLines: sourceLines,
		Blocks:      len(blocks),
		ByKind:      make(map[string]int),
		Errors:      len(errs),
	}
	perFile := make(map[string]*FileCount)
	for _, b := range blocks {
		st.ByKind[string(b.Kind)]++
		st.CommentLines += len(b.Lines)
		fc := perFile[b.File]
		if fc == nil {
			fc = &FileCount{File: b.File}
			perFile[b.File] = fc
		}
		fc.Blocks++
		fc.Lines += len(b.Lines)
	}
	for _, fc := range perFile {
		st.TopFiles = append(st.TopFiles, *fc)
	}
	sort.Slice(st.TopFiles, func(i, j int) bool {
		if st.TopFiles[i].Blocks != st.TopFiles[j].Blocks {
			return st.TopFiles[i].Blocks > st.TopFiles[j].Blocks
		}
		return st.TopFiles[i].File < st.TopFiles[j].File
	})
	if len(st.TopFiles) > topFilesLimit {
		st.TopFiles = st.TopFiles[:topFilesLimit]
	}
	return st
}

// Kinds returns the per-kind counts in a stable order.
func (s Stats) Kinds() []FileCount {
	kinds := make([]string, 0, len(s.ByKind))
	for k := range s.ByKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	out := make([]FileCount, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, FileCount{File: k, Blocks: s.ByKind[k]})
	}
	return out
}

// BlocksPerFile returns the average blocks per scanned file.
func (s Stats) BlocksPerFile() float64 {
	if s.Files == 0 {
		return 0
	}
	return float64(s.Blocks) / float64(s.Files)
}

// PerThousandLines returns comment blocks per 1000 scanned source lines.
func (s Stats) PerThousandLines() float64 {
	if s.SourceLines == 0 {
		return 0
	}
	return float64(s.Blocks) / float64(s.SourceLines) * 1000
}
