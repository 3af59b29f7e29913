// Package config loads scan settings from YAML, TOML or JSON files.
// Every field is a pointer so merging can tell "absent" from "zero";
// command line flags always win over file values.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// File mirrors the command line surface.
type File struct {
	Root           *string   `yaml:"root" toml:"root" json:"root"`
	Extensions     *[]string `yaml:"extensions" toml:"extensions" json:"extensions"`
	Ignore         *[]string `yaml:"ignore" toml:"ignore" json:"ignore"`
	IgnoreRegex    *[]string `yaml:"ignore_regex" toml:"ignore_regex" json:"ignore_regex"`
	Only           *[]string `yaml:"only" toml:"only" json:"only"`
	Contains       *string   `yaml:"contains" toml:"contains" json:"contains"`
	MinLines       *int      `yaml:"min_lines" toml:"min_lines" json:"min_lines"`
	Workers        *int      `yaml:"workers" toml:"workers" json:"workers"`
	MaxDepth       *int      `yaml:"max_depth" toml:"max_depth" json:"max_depth"`
	Format         *string   `yaml:"format" toml:"format" json:"format"`
	Out            *string   `yaml:"out" toml:"out" json:"out"`
	IncludeSymbols *bool     `yaml:"include_symbols" toml:"include_symbols" json:"include_symbols"`
	ShowContent    *bool     `yaml:"show_content" toml:"show_content" json:"show_content"`
	Highlight      *[]string `yaml:"highlight" toml:"highlight" json:"highlight"`
	Plugins        *[]string `yaml:"plugins" toml:"plugins" json:"plugins"`
	Report         *string   `yaml:"report" toml:"report" json:"report"`
	ReportOut      *string   `yaml:"report_out" toml:"report_out" json:"report_out"`
	NoCache        *bool     `yaml:"no_cache" toml:"no_cache" json:"no_cache"`
	Color          *string   `yaml:"color" toml:"color" json:"color"`
	FailOn         *[]string `yaml:"fail_on" toml:"fail_on" json:"fail_on"`
}

// DefaultNames are probed in the scan root when -config is not given.
var DefaultNames = []string{
	".findcomments.yaml",
	".findcomments.yml",
	".findcomments.toml",
	".findcomments.json",
}

// Find locates the config file to use. An explicit path must exist;
// otherwise the default names are probed under dir and absence is not
// an error.
func Find(dir, explicit string) (string, error) {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		info, err := os.Stat(explicit)
		if err != nil {
			return "", err
		}
		if info.IsDir() {
			return "", fmt.Errorf("config path %q is a directory", explicit)
		}
		return explicit, nil
	}
	for _, name := range DefaultNames {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", nil
}

// Load parses the config file at path. The decoder is picked by
// extension. An empty path yields a zero File.
func Load(path string) (File, error) {
	var f File
	path = strings.TrimSpace(path)
	if path == "" {
		return f, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return f, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return File{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &f); err != nil {
			return File{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &f); err != nil {
			return File{}, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return File{}, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return f, nil
}

// Merge helpers: apply the file value only when the flag was not set
// on the command line.

func ApplyString(dst *string, v *string, set bool) {
	if !set && v != nil {
		*dst = *v
	}
}

func ApplyInt(dst *int, v *int, set bool) {
	if !set && v != nil {
		*dst = *v
	}
}

func ApplyBool(dst *bool, v *bool, set bool) {
	if !set && v != nil {
		*dst = *v
	}
}

func ApplyStrings(dst *[]string, v *[]string, set bool) {
	if !set && v != nil {
		*dst = append([]string(nil), (*v)...)
	}
}
