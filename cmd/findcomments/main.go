package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pkg/browser"

	"github.com/br41nfck/findcomments/internal/cache"
	"github.com/br41nfck/findcomments/internal/config"
	"github.com/br41nfck/findcomments/internal/editor"
	"github.com/br41nfck/findcomments/internal/filter"
	"github.com/br41nfck/findcomments/internal/grammar"
	"github.com/br41nfck/findcomments/internal/group"
	"github.com/br41nfck/findcomments/internal/model"
	"github.com/br41nfck/findcomments/internal/output"
	"github.com/br41nfck/findcomments/internal/plugin"
	"github.com/br41nfck/findcomments/internal/progress"
	"github.com/br41nfck/findcomments/internal/report"
	"github.com/br41nfck/findcomments/internal/termcolor"
	"github.com/br41nfck/findcomments/internal/viewer"
	"github.com/br41nfck/findcomments/internal/walker"
)

func main() {
	log.SetFlags(0)
	if len(os.Args) > 1 && os.Args[1] == "serve" {
		serveCmd(os.Args[2:])
		return
	}
	scanCmd(os.Args[1:])
}

// multiFlag collects repeatable flags; each value may itself be a
// comma separated list.
type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, ",") }

func (m *multiFlag) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*m = append(*m, part)
		}
	}
	return nil
}

func scanCmd(args []string) {
	fs := flag.NewFlagSet("findcomments", flag.ExitOnError)

	var exts, ignore, only, contains, failOn, files, highlight, plugins multiFlag
	var (
		root           = fs.String("root", ".", "directory to scan")
		ignoreRegex    = fs.String("ignore-regex", "", "exclude file names matching this regexp")
		minLines       = fs.Int("min-lines", 0, "keep only blocks spanning at least N lines")
		workers        = fs.Int("workers", walker.DefaultWorkers, "max parallel workers")
		maxDepth       = fs.Int("max-depth", 1, "directory depth limit (0 = unlimited)")
		outPath        = fs.String("out", "", "write results to this file instead of the console")
		format         = fs.String("format", "txt", "output format: txt|prettytxt|csv|json|html")
		includeSymbols = fs.Bool("include-symbols", false, "keep comment markers in the text")
		showContent    = fs.Bool("show-content", false, "print full block content on the console")
		fileList       = fs.String("filelist", "", "file with one path per line ('-' reads stdin)")
		reportFmt      = fs.String("report", "", "write an analytics report: md|csv|txt|json|html|xlsx|pdf")
		reportOut      = fs.String("report-out", "", "report file path (default: comment_report.<ext>)")
		interactive    = fs.Bool("interactive", false, "browse results in the terminal")
		supportLangs   = fs.Bool("support-langs", false, "list supported languages and exit")
		editSpec       = fs.String("edit", "", "open FILE:LINE in the editor and exit")
		noProgress     = fs.Bool("no-progress", false, "disable progress/ETA")
		forceProg      = fs.Bool("progress", false, "force progress even when piped")
		noCache        = fs.Bool("no-cache", false, "disable the scan result cache")
		configPath     = fs.String("config", "", "config file (default: .findcomments.{yaml,toml,json} in the scan root)")
		colorMode      = fs.String("color", "auto", "color output: auto|always|never")
		openResult     = fs.Bool("open", false, "open the written output/report in the browser")
	)
	fs.Var(&exts, "ext", "file extensions to scan (repeatable; default: all supported)")
	fs.Var(&ignore, "ignore", "exclude files whose name contains this text (repeatable)")
	fs.Var(&only, "only", "keep only these comment types: single|multi|triple_slash|warning")
	fs.Var(&contains, "contains", "keep only blocks matching this pattern (repeatable)")
	fs.Var(&failOn, "fail-on", "exit 1 when any block matches this pattern (repeatable)")
	fs.Var(&files, "files", "scan exactly these files or globs instead of walking")
	fs.Var(&highlight, "highlight", "keywords to highlight (default: TODO,FIXME,BUG,HACK,NOTE,WARNING)")
	fs.Var(&plugins, "plugin", "grammar plugin file: .js, .yaml, .toml or .json (repeatable)")
	_ = fs.Parse(args)

	if *editSpec != "" {
		target, err := editor.ParseTarget(*editSpec)
		if err != nil {
			log.Fatal(err)
		}
		if err := editor.Open(target); err != nil {
			log.Fatal(err)
		}
		return
	}

	setFlags := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })
	if err := mergeConfig(setFlags, *configPath, root, &exts, &ignore, ignoreRegex,
		&only, &contains, minLines, workers, maxDepth, outPath, format,
		includeSymbols, showContent, &highlight, &plugins, reportFmt, reportOut,
		noCache, colorMode, &failOn); err != nil {
		log.Fatal(err)
	}

	reg := grammar.NewRegistry()
	plugin.LoadAll(reg, plugins, log.Printf)

	if *supportLangs {
		printSupportedLanguages(os.Stdout, reg)
		return
	}

	mode, err := termcolor.ParseMode(*colorMode)
	if err != nil {
		log.Fatal(err)
	}
	colorOn := termcolor.Enabled(mode, os.Stdout, termcolor.EnvMap(os.Environ()))
	words := []string(highlight)
	if len(words) == 0 {
		words = termcolor.DefaultKeywords
	}
	hl := termcolor.NewHighlighter(words, colorOn)

	var exclRe *regexp.Regexp
	if *ignoreRegex != "" {
		exclRe, err = regexp.Compile(*ignoreRegex)
		if err != nil {
			log.Fatalf("invalid -ignore-regex: %v", err)
		}
	}
	kinds, err := filter.ParseKinds(only)
	if err != nil {
		log.Fatal(err)
	}
	containsRes, err := filter.Compile(contains)
	if err != nil {
		log.Fatal(err)
	}
	failRes, err := filter.Compile(failOn)
	if err != nil {
		log.Fatal(err)
	}

	var c *cache.Cache
	var store *cache.Store
	if !*noCache {
		c = cache.New()
		store = cache.NewStore(filepath.Join(*root, cache.DefaultStorePath))
		if err := store.Load(c); err != nil {
			log.Printf("cache: %v", err)
		}
	}

	opts := walker.Options{
		Root:         *root,
		Extensions:   exts,
		ExcludeNames: ignore,
		ExcludeRegex: exclRe,
		MaxDepth:     *maxDepth,
		Workers:      *workers,
		Registry:     reg,
		Cache:        c,
		Progress:     progress.New(0, progress.ShouldShow(*forceProg, *noProgress)),
	}

	started := time.Now()
	var res *walker.Result
	if len(files) > 0 || *fileList != "" {
		paths, err := collectFiles(files, *fileList)
		if err != nil {
			log.Fatal(err)
		}
		res, _ = walker.ScanFiles(paths, opts)
	} else {
		res, err = walker.ScanTree(opts)
		if err != nil {
			log.Fatal(err)
		}
	}

	if store != nil {
		if err := store.Save(c); err != nil {
			log.Printf("cache: %v", err)
		}
	}

	model.SortComments(res.Comments)
	blocks := group.Blocks(res.Comments, *includeSymbols)
	warnings := 0
	for _, b := range blocks {
		if b.Kind == model.KindWarning {
			warnings++
		}
	}
	blocks = filter.Apply(blocks, filter.Criteria{
		Kinds:    kinds,
		MinLines: *minLines,
		Contains: containsRes,
	})

	meta := output.Meta{
		Root:     *root,
		Started:  started,
		Files:    len(res.Files),
		Warnings: warnings,
		Errors:   res.Errors,
	}

	switch {
	case *outPath != "":
		f, err := output.ParseFormat(*format)
		if err != nil {
			log.Fatal(err)
		}
		if err := writeOutput(*outPath, f, blocks, meta); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Wrote %d blocks to %s\n", len(blocks), *outPath)
		if *openResult {
			if err := browser.OpenFile(*outPath); err != nil {
				log.Printf("open %s: %v", *outPath, err)
			}
		}
	case *interactive:
		if err := viewer.Run(blocks); err != nil {
			log.Fatal(err)
		}
	default:
		p := &output.Printer{Out: os.Stdout, Color: colorOn, Highlighter: hl, ShowContent: *showContent}
		for _, b := range blocks {
			p.Print(b)
		}
		p.Summary(len(res.Files), len(blocks), warnings)
	}

	for _, e := range res.Errors {
		log.Printf("error: %s (%s): %s", e.Path, e.Stage, e.Message)
	}

	if *reportFmt != "" {
		rf, err := report.ParseFormat(*reportFmt)
		if err != nil {
			log.Fatal(err)
		}
		path := *reportOut
		if path == "" {
			path = "comment_report" + rf.DefaultExt()
		}
		st := report.Collect(*root, len(res.Files), res.TotalLines, blocks, res.Errors)
		if err := report.RenderFile(context.Background(), path, rf, st); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Wrote report to %s\n", path)
		if *openResult {
			if err := browser.OpenFile(path); err != nil {
				log.Printf("open %s: %v", path, err)
			}
		}
	}

	if len(failRes) > 0 && filter.CountMatching(blocks, failRes) > 0 {
		os.Exit(1)
	}
}

func writeOutput(path string, f output.Format, blocks []model.Block, meta output.Meta) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := output.Write(file, f, blocks, meta); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// mergeConfig fills unset flags from the config file.
func mergeConfig(set map[string]bool, explicit string,
	root *string, exts *multiFlag, ignore *multiFlag, ignoreRegex *string,
	only *multiFlag, contains *multiFlag, minLines, workers, maxDepth *int,
	outPath, format *string, includeSymbols, showContent *bool,
	highlight, plugins *multiFlag, reportFmt, reportOut *string,
	noCache *bool, colorMode *string, failOn *multiFlag) error {
	path, err := config.Find(*root, explicit)
	if err != nil {
		return err
	}
	if path == "" {
		return nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	config.ApplyString(root, cfg.Root, set["root"])
	applyList(exts, cfg.Extensions, set["ext"])
	applyList(ignore, cfg.Ignore, set["ignore"])
	if !set["ignore-regex"] && cfg.IgnoreRegex != nil && len(*cfg.IgnoreRegex) > 0 {
		*ignoreRegex = strings.Join(*cfg.IgnoreRegex, "|")
	}
	applyList(only, cfg.Only, set["only"])
	if cfg.Contains != nil && !set["contains"] {
		*contains = multiFlag{*cfg.Contains}
	}
	config.ApplyInt(minLines, cfg.MinLines, set["min-lines"])
	config.ApplyInt(workers, cfg.Workers, set["workers"])
	config.ApplyInt(maxDepth, cfg.MaxDepth, set["max-depth"])
	config.ApplyString(outPath, cfg.Out, set["out"])
	config.ApplyString(format, cfg.Format, set["format"])
	config.ApplyBool(includeSymbols, cfg.IncludeSymbols, set["include-symbols"])
	config.ApplyBool(showContent, cfg.ShowContent, set["show-content"])
	applyList(highlight, cfg.Highlight, set["highlight"])
	applyList(plugins, cfg.Plugins, set["plugin"])
	config.ApplyString(reportFmt, cfg.Report, set["report"])
	config.ApplyString(reportOut, cfg.ReportOut, set["report-out"])
	config.ApplyBool(noCache, cfg.NoCache, set["no-cache"])
	config.ApplyString(colorMode, cfg.Color, set["color"])
	applyList(failOn, cfg.FailOn, set["fail-on"])
	return nil
}

func applyList(dst *multiFlag, v *[]string, set bool) {
	if !set && v != nil {
		*dst = multiFlag(append([]string(nil), (*v)...))
	}
}

// collectFiles resolves -files globs plus -filelist entries.
func collectFiles(patterns []string, listPath string) ([]string, error) {
	var out []string
	for _, p := range patterns {
		if strings.ContainsAny(p, "*?[") {
			matches, err := filepath.Glob(p)
			if err != nil {
				return nil, fmt.Errorf("bad glob %q: %w", p, err)
			}
			out = append(out, matches...)
			continue
		}
		out = append(out, p)
	}
	if listPath != "" {
		var r io.Reader
		if listPath == "-" {
			r = os.Stdin
		} else {
			f, err := os.Open(listPath)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			r = f
		}
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			out = append(out, line)
		}
		if err := sc.Err(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func printSupportedLanguages(w io.Writer, reg *grammar.Registry) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EXTENSION\tSINGLE\tMULTI\tDOC")
	for _, ext := range reg.Extensions() {
		single, multi := 0, 0
		for _, r := range reg.RulesFor(ext) {
			if r.Kind == grammar.RuleSingle {
				single++
			} else {
				multi++
			}
		}
		doc := ""
		if grammar.DocCommentExts[ext] {
			doc = "///"
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", ext, single, multi, doc)
	}
	tw.Flush()
}
