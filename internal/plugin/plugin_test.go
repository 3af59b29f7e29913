package plugin

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/br41nfck/findcomments/internal/grammar"
)

func writePlugin(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadYAMLPlugin(t *testing.T) {
	path := writePlugin(t, "lua.yaml", `
.lua:
  - type: single
    pattern: "--.*"
  - type: multi
    start: "--\\[\\["
    end: "\\]\\]"
`)
	reg := grammar.NewRegistry()
	LoadAll(reg, []string{path}, nil)
	rules := reg.RulesFor(".lua")
	if len(rules) != 2 {
		t.Fatalf("got %d rules, want 2", len(rules))
	}
	if rules[0].Kind != grammar.RuleSingle || rules[1].Kind != grammar.RuleMulti {
		t.Fatalf("rule kinds = %v, %v", rules[0].Kind, rules[1].Kind)
	}
}

func TestLoadTOMLPlugin(t *testing.T) {
	path := writePlugin(t, "hs.toml", `
".hs" = [
  { type = "single", pattern = "--.*" },
]
`)
	reg := grammar.NewRegistry()
	LoadAll(reg, []string{path}, nil)
	if len(reg.RulesFor(".hs")) != 1 {
		t.Fatal("toml plugin not registered")
	}
}

func TestLoadJSONPlugin(t *testing.T) {
	path := writePlugin(t, "sql.json", `{".sql": [{"type": "single", "pattern": "--.*"}]}`)
	reg := grammar.NewRegistry()
	LoadAll(reg, []string{path}, nil)
	if len(reg.RulesFor(".sql")) != 1 {
		t.Fatal("json plugin not registered")
	}
}

func TestLoadScriptPlugin(t *testing.T) {
	path := writePlugin(t, "vim.js", `
function getPatterns() {
	return {
		".vim": [
			{type: "single", pattern: "\".*"},
		],
	};
}
`)
	reg := grammar.NewRegistry()
	LoadAll(reg, []string{path}, nil)
	if len(reg.RulesFor(".vim")) != 1 {
		t.Fatal("script plugin not registered")
	}
}

func TestLoadScriptWithoutGetPatterns(t *testing.T) {
	path := writePlugin(t, "bad.js", `var x = 1;`)
	var logged []string
	logf := func(format string, args ...any) {
		logged = append(logged, format)
	}
	reg := grammar.NewRegistry()
	LoadAll(reg, []string{path}, logf)
	if len(logged) != 1 {
		t.Fatalf("expected one logged error, got %v", logged)
	}
}

func TestBadEntrySkipsWholePlugin(t *testing.T) {
	path := writePlugin(t, "mixed.yaml", `
.lua:
  - type: single
    pattern: "--.*"
  - type: multi
    start: "--\\[\\["
`)
	reg := grammar.NewRegistry()
	var errs int
	LoadAll(reg, []string{path}, func(string, ...any) { errs++ })
	if errs != 1 {
		t.Fatalf("errs = %d, want 1", errs)
	}
	if rules := reg.RulesFor(".lua"); rules != nil {
		t.Fatalf("partial plugin must contribute nothing, got %v", rules)
	}
}

func TestExtendsBuiltinExtension(t *testing.T) {
	path := writePlugin(t, "extra.json", `{".py": [{"type": "single", "pattern": ";;.*"}]}`)
	reg := grammar.NewRegistry()
	base := len(reg.RulesFor(".py"))
	LoadAll(reg, []string{path}, nil)
	if got := len(reg.RulesFor(".py")); got != base+1 {
		t.Fatalf("rules = %d, want %d", got, base+1)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	path := writePlugin(t, "rules.ini", "[x]\n")
	var msgs []string
	LoadAll(grammar.NewRegistry(), []string{path}, func(format string, args ...any) {
		msgs = append(msgs, format)
	})
	if len(msgs) != 1 || !strings.Contains(msgs[0], "plugin") {
		t.Fatalf("logged = %v", msgs)
	}
}
