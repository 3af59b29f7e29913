package walker

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/br41nfck/findcomments/internal/cache"
	"github.com/br41nfck/findcomments/internal/grammar"
	"github.com/br41nfck/findcomments/internal/model"
	"github.com/br41nfck/findcomments/internal/progress"
	"github.com/br41nfck/findcomments/internal/scanner"
)

// DefaultWorkers bounds the scan pool when the caller does not choose.
const DefaultWorkers = 4

// Options configure one tree scan.
type Options struct {
	Root         string
	Extensions   []string // ".ext" forms; empty means the built-in default set
	ExcludeNames []string // case-insensitive substring match on file names
	ExcludeRegex *regexp.Regexp
	MaxDepth     int // 0 = unrestricted; callers wanting "current folder only" pass 1
	Workers      int
	Registry     *grammar.Registry
	Cache        *cache.Cache       // nil disables caching
	Progress     *progress.Progress // nil disables reporting
	SelfPath     string             // resolved running executable if empty
}

// Result aggregates a finished walk. Comments arrive in completion
// order; Files and Errors are sorted. Callers sort Comments before
// grouping.
type Result struct {
	Comments   []model.RawComment
	Files      []string
	TotalLines int
	Errors     []model.ScanError
}

// ScanTree enumerates qualifying files under opts.Root and scans them
// across a bounded worker pool. Per-file failures are recorded and never
// abort the walk; only an inaccessible root returns a non-nil error,
// and even then the partial result is returned alongside it.
func ScanTree(opts Options) (*Result, error) {
	files, res, rootErr := enumerate(opts)
	scanAll(files, opts, res)
	return res, rootErr
}

// ScanFiles scans an explicit file list (the -files / -filelist mode),
// applying only the extension filter and self-exclusion.
func ScanFiles(paths []string, opts Options) (*Result, error) {
	res := &Result{}
	exts := extensionSet(opts.Extensions)
	self := selfPath(opts)
	var files []string
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if abs == self {
			continue
		}
		if _, ok := exts[strings.ToLower(filepath.Ext(abs))]; !ok {
			continue
		}
		files = append(files, abs)
	}
	scanAll(files, opts, res)
	return res, nil
}

func enumerate(opts Options) ([]string, *Result, error) {
	res := &Result{}
	root := filepath.Clean(opts.Root)
	if root == "" {
		root = "."
	}
	if _, err := os.Stat(root); err != nil {
		return nil, res, err
	}
	exts := extensionSet(opts.Extensions)
	self := selfPath(opts)

	var files []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			res.Errors = append(res.Errors, model.ScanError{
				Path: path, Stage: "walk", Message: err.Error(),
			})
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if opts.MaxDepth > 0 && path != root && depthOf(root, path) >= opts.MaxDepth {
				return fs.SkipDir
			}
			return nil
		}
		name := d.Name()
		if _, ok := exts[strings.ToLower(filepath.Ext(name))]; !ok {
			return nil
		}
		if excludedName(name, opts.ExcludeNames) {
			return nil
		}
		if opts.ExcludeRegex != nil && opts.ExcludeRegex.MatchString(name) {
			return nil
		}
		abs, aerr := filepath.Abs(path)
		if aerr != nil {
			abs = path
		}
		if abs == self {
			return nil
		}
		files = append(files, abs)
		return nil
	})
	return files, res, walkErr
}

// depthOf measures how many path separators lie between root and dir,
// i.e. direct children of root have depth 1.
func depthOf(root, dir string) int {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

func excludedName(name string, words []string) bool {
	lower := strings.ToLower(name)
	for _, w := range words {
		if w == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(w)) {
			return true
		}
	}
	return false
}

func extensionSet(exts []string) map[string]struct{} {
	if len(exts) == 0 {
		exts = grammar.DefaultExtensions()
	}
	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		set[grammar.NormalizeExt(e)] = struct{}{}
	}
	return set
}

func selfPath(opts Options) string {
	if opts.SelfPath != "" {
		abs, err := filepath.Abs(opts.SelfPath)
		if err == nil {
			return abs
		}
		return opts.SelfPath
	}
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return exe
}

type fileResult struct {
	comments []model.RawComment
	lines    int
	errs     []model.ScanError
}

// scanAll dispatches files to the worker pool and joins before
// returning; aggregation order is completion order by design.
func scanAll(files []string, opts Options, res *Result) {
	res.Files = append(res.Files, files...)
	sort.Strings(res.Files)
	opts.Progress.SetTotal(len(files))
	if len(files) == 0 {
		model.SortErrors(res.Errors)
		return
	}
	reg := opts.Registry
	if reg == nil {
		reg = grammar.NewRegistry()
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > len(files) {
		workers = len(files)
	}

	jobs := make(chan string)
	results := make(chan fileResult)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for path := range jobs {
				results <- scanOne(path, reg, opts.Cache)
				opts.Progress.Advance()
			}
		}()
	}
	go func() {
		defer close(jobs)
		for _, path := range files {
			jobs <- path
		}
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	for r := range results {
		res.Comments = append(res.Comments, r.comments...)
		res.TotalLines += r.lines
		res.Errors = append(res.Errors, r.errs...)
	}
	opts.Progress.Done()
	model.SortErrors(res.Errors)
}

func scanOne(path string, reg *grammar.Registry, c *cache.Cache) fileResult {
	rules := reg.RulesFor(filepath.Ext(path))
	if len(rules) == 0 {
		return fileResult{}
	}
	hash := ""
	if c != nil {
		h, err := cache.HashFile(path)
		if err == nil {
			hash = h
			if cached, lines, ok := c.Lookup(path, hash); ok {
				return fileResult{comments: cached, lines: lines}
			}
		}
		// Hash failure just means this file scans uncached.
	}
	comments, lines, err := scanner.ScanFile(path, rules)
	if err != nil {
		return fileResult{errs: []model.ScanError{{
			Path: path, Stage: "read", Message: err.Error(),
		}}}
	}
	if c != nil && hash != "" {
		c.Store(path, hash, lines, comments)
	}
	return fileResult{comments: comments, lines: lines}
}
