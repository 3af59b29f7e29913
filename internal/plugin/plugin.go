// Package plugin extends the grammar registry with externally supplied
// rule sets. Two plugin shapes are accepted: declarative rule files
// (YAML/TOML/JSON mapping extension -> pattern entries) and JavaScript
// files exporting a getPatterns() function returning the same mapping.
// A malformed plugin is logged and skipped; it never fails the run.
package plugin

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/br41nfck/findcomments/internal/grammar"
)

type entry struct {
	Type    string `yaml:"type" toml:"type" json:"type"`
	Pattern string `yaml:"pattern" toml:"pattern" json:"pattern"`
	Start   string `yaml:"start" toml:"start" json:"start"`
	End     string `yaml:"end" toml:"end" json:"end"`
}

// LoadAll registers every readable, well-formed plugin into reg. Errors
// are reported per plugin through logf and do not affect other plugins.
func LoadAll(reg *grammar.Registry, paths []string, logf func(format string, args ...any)) {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	for _, path := range paths {
		if err := loadOne(reg, path); err != nil {
			logf("plugin %s: %v", path, err)
		}
	}
}

func loadOne(reg *grammar.Registry, path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".js" {
		return loadScript(reg, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var raw map[string][]entry
	switch ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	case ".json":
		err = json.Unmarshal(data, &raw)
	default:
		return fmt.Errorf("unsupported plugin format: %s", ext)
	}
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	return register(reg, raw)
}

// register validates the whole contribution before touching the
// registry, so a plugin with one bad entry contributes nothing.
func register(reg *grammar.Registry, raw map[string][]entry) error {
	type contribution struct {
		ext   string
		rules []grammar.Rule
	}
	var all []contribution
	for ext, entries := range raw {
		rules := make([]grammar.Rule, 0, len(entries))
		for i, e := range entries {
			rule, err := toRule(e)
			if err != nil {
				return fmt.Errorf("%s entry %d: %w", ext, i, err)
			}
			rules = append(rules, rule)
		}
		all = append(all, contribution{ext: ext, rules: rules})
	}
	for _, c := range all {
		reg.Register(c.ext, c.rules...)
	}
	return nil
}

func toRule(e entry) (grammar.Rule, error) {
	switch strings.ToLower(strings.TrimSpace(e.Type)) {
	case "single":
		if e.Pattern == "" {
			return grammar.Rule{}, fmt.Errorf("single rule requires pattern")
		}
		return grammar.NewSingle(e.Pattern)
	case "multi":
		if e.Start == "" || e.End == "" {
			return grammar.Rule{}, fmt.Errorf("multi rule requires start and end")
		}
		return grammar.NewMulti(e.Start, e.End)
	default:
		return grammar.Rule{}, fmt.Errorf("unknown rule type: %q", e.Type)
	}
}
