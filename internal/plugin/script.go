package plugin

import (
	"fmt"
	"os"

	"github.com/dop251/goja"

	"github.com/br41nfck/findcomments/internal/grammar"
)

// loadScript evaluates a JavaScript plugin in an isolated VM. The script
// must define getPatterns() returning {".ext": [{type, pattern|start,end}]}.
// The VM has no host bindings beyond the ECMAScript builtins.
func loadScript(reg *grammar.Registry, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	vm := goja.New()
	if _, err := vm.RunScript(path, string(src)); err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}
	fn, ok := goja.AssertFunction(vm.Get("getPatterns"))
	if !ok {
		return fmt.Errorf("getPatterns is not a function")
	}
	val, err := fn(goja.Undefined())
	if err != nil {
		return fmt.Errorf("getPatterns: %w", err)
	}
	raw, err := exportPatterns(val)
	if err != nil {
		return err
	}
	return register(reg, raw)
}

func exportPatterns(val goja.Value) (map[string][]entry, error) {
	exported, ok := val.Export().(map[string]any)
	if !ok {
		return nil, fmt.Errorf("getPatterns must return an object, got %T", val.Export())
	}
	out := make(map[string][]entry, len(exported))
	for ext, rawList := range exported {
		list, ok := rawList.([]any)
		if !ok {
			return nil, fmt.Errorf("%s: expected an array of rules, got %T", ext, rawList)
		}
		entries := make([]entry, 0, len(list))
		for i, item := range list {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%s entry %d: expected an object, got %T", ext, i, item)
			}
			entries = append(entries, entry{
				Type:    stringField(obj, "type"),
				Pattern: stringField(obj, "pattern"),
				Start:   stringField(obj, "start"),
				End:     stringField(obj, "end"),
			})
		}
		out[ext] = entries
	}
	return out, nil
}

func stringField(obj map[string]any, key string) string {
	if v, ok := obj[key].(string); ok {
		return v
	}
	return ""
}
