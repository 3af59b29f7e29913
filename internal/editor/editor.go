// Package editor opens a file at a given line in the user's editor.
package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Target is a file position to open.
type Target struct {
	File string
	Line int
}

// ParseTarget parses "file:line" (line optional, defaults to 1).
// Windows drive letters ("C:\x.go:12") are handled by splitting on
// the last colon.
func ParseTarget(spec string) (Target, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Target{}, fmt.Errorf("empty edit target")
	}
	idx := strings.LastIndexByte(spec, ':')
	if idx > 1 {
		if n, err := strconv.Atoi(spec[idx+1:]); err == nil {
			if n < 1 {
				return Target{}, fmt.Errorf("line must be positive: %s", spec)
			}
			return Target{File: spec[:idx], Line: n}, nil
		}
	}
	return Target{File: spec, Line: 1}, nil
}

// Command builds the editor invocation for t. The editor comes from
// VISUAL, then EDITOR, then a fixed fallback; a value carrying
// arguments ("code --wait") is split so only the first word is the
// executable. Line-jump syntax is chosen per editor family.
func Command(t Target, env map[string]string) (string, []string) {
	editor := strings.TrimSpace(env["VISUAL"])
	if editor == "" {
		editor = strings.TrimSpace(env["EDITOR"])
	}
	if editor == "" {
		editor = "vi"
	}
	fields := strings.Fields(editor)
	name := fields[0]
	args := func(rest ...string) []string {
		return append(append([]string(nil), fields[1:]...), rest...)
	}
	base := name
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	base = strings.TrimSuffix(strings.ToLower(base), ".exe")
	switch base {
	case "code", "code-insiders", "codium":
		return name, args("-g", fmt.Sprintf("%s:%d", t.File, t.Line))
	case "subl", "sublime_text":
		return name, args(fmt.Sprintf("%s:%d", t.File, t.Line))
	case "vi", "vim", "nvim", "gvim", "emacs", "nano", "micro", "kak", "hx", "helix":
		return name, args(fmt.Sprintf("+%d", t.Line), t.File)
	case "notepad++":
		return name, args(fmt.Sprintf("-n%d", t.Line), t.File)
	default:
		return name, args(t.File)
	}
}

// Open launches the editor attached to the current terminal and
// waits for it to exit.
func Open(t Target) error {
	if _, err := os.Stat(t.File); err != nil {
		return err
	}
	name, args := Command(t, envMap(os.Environ()))
	cmd := exec.Command(name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run %s: %w", name, err)
	}
	return nil
}

// Environ returns the process environment as a lookup map.
func Environ() map[string]string {
	return envMap(os.Environ())
}

// Exec builds the editor process without starting it, for callers
// that manage the terminal themselves.
func Exec(name string, args []string) *exec.Cmd {
	return exec.Command(name, args...)
}

func envMap(values []string) map[string]string {
	env := make(map[string]string, len(values))
	for _, e := range values {
		if i := strings.IndexByte(e, '='); i >= 0 {
			env[e[:i]] = e[i+1:]
		}
	}
	return env
}
