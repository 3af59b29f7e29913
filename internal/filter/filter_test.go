package filter

import (
	"testing"

	"github.com/br41nfck/findcomments/internal/model"
)

func block(file string, kind model.Kind, lines ...string) model.Block {
	return model.Block{File: file, StartLine: 1, EndLine: len(lines), Lines: lines, Kind: kind}
}

func TestParseKinds(t *testing.T) {
	kinds, err := ParseKinds([]string{"single", "warning", " "})
	if err != nil {
		t.Fatal(err)
	}
	if len(kinds) != 2 || kinds[0] != model.KindSingle || kinds[1] != model.KindWarning {
		t.Fatalf("got %v", kinds)
	}
	if _, err := ParseKinds([]string{"docstring"}); err == nil {
		t.Fatal("want error for unknown kind")
	}
}

func TestCompile(t *testing.T) {
	res, err := Compile([]string{"todo", ""})
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 1 {
		t.Fatalf("got %d patterns, want 1", len(res))
	}
	if !res[0].MatchString("has TODO inside") {
		t.Fatal("patterns must be case-insensitive")
	}
	if _, err := Compile([]string{"("}); err == nil {
		t.Fatal("want error for invalid pattern")
	}
}

func TestApply(t *testing.T) {
	blocks := []model.Block{
		block("a.py", model.KindSingle, "TODO refactor"),
		block("a.py", model.KindMulti, "first", "second", "third"),
		block("b.c", model.KindWarning, "unclosed"),
	}

	t.Run("NoCriteria", func(t *testing.T) {
		if got := Apply(blocks, Criteria{}); len(got) != 3 {
			t.Fatalf("got %d, want 3", len(got))
		}
	})
	t.Run("Kinds", func(t *testing.T) {
		got := Apply(blocks, Criteria{Kinds: []model.Kind{model.KindWarning}})
		if len(got) != 1 || got[0].Kind != model.KindWarning {
			t.Fatalf("got %v", got)
		}
	})
	t.Run("MinLines", func(t *testing.T) {
		got := Apply(blocks, Criteria{MinLines: 2})
		if len(got) != 1 || got[0].Kind != model.KindMulti {
			t.Fatalf("got %v", got)
		}
	})
	t.Run("Contains", func(t *testing.T) {
		res, err := Compile([]string{"todo"})
		if err != nil {
			t.Fatal(err)
		}
		got := Apply(blocks, Criteria{Contains: res})
		if len(got) != 1 || got[0].Lines[0] != "TODO refactor" {
			t.Fatalf("got %v", got)
		}
	})
}

func TestCountMatching(t *testing.T) {
	blocks := []model.Block{
		block("a.py", model.KindSingle, "TODO one"),
		block("a.py", model.KindSingle, "plain"),
		block("b.py", model.KindSingle, "fixme later"),
	}
	res, err := Compile([]string{"todo", "FIXME"})
	if err != nil {
		t.Fatal(err)
	}
	if got := CountMatching(blocks, res); got != 2 {
		t.Fatalf("got %d, want 2", got)
	}
	if got := CountMatching(blocks, nil); got != 0 {
		t.Fatalf("got %d, want 0 for no patterns", got)
	}
}
