package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/br41nfck/findcomments/internal/model"
)

func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.py")
	if err := os.WriteFile(path, []byte("# hello\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	h1, err := HashFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(h1) != 64 {
		t.Fatalf("hash length = %d, want 64 hex chars", len(h1))
	}
	h2, err := HashFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 {
		t.Fatal("hash not stable for unchanged content")
	}
	if err := os.WriteFile(path, []byte("# changed\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	h3, err := HashFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if h1 == h3 {
		t.Fatal("hash unchanged after content change")
	}
}

func TestLookupStore(t *testing.T) {
	c := New()
	comments := []model.RawComment{
		{File: "a.py", StartLine: 1, EndLine: 1, Text: "# x", Kind: model.KindSingle},
	}
	if _, _, ok := c.Lookup("a.py", "h1"); ok {
		t.Fatal("lookup hit on empty cache")
	}
	c.Store("a.py", "h1", 42, comments)
	if !c.Dirty() {
		t.Fatal("store must mark the cache dirty")
	}
	got, lines, ok := c.Lookup("a.py", "h1")
	if !ok {
		t.Fatal("lookup miss after store")
	}
	if lines != 42 {
		t.Fatalf("lines = %d, want 42", lines)
	}
	if diff := cmp.Diff(comments, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if _, _, ok := c.Lookup("a.py", "h2"); ok {
		t.Fatal("stale hash must miss")
	}
}

func TestStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultStorePath)
	store := NewStore(path)

	c := New()
	comments := []model.RawComment{
		{File: "a.py", StartLine: 3, EndLine: 4, Text: "\"\"\"doc\nstring\"\"\"", Kind: model.KindMulti},
		{File: "a.py", StartLine: 7, EndLine: 7, Text: "# note", Kind: model.KindSingle},
	}
	c.Store("a.py", "hash-a", 12, comments)
	if err := store.Save(c); err != nil {
		t.Fatal(err)
	}

	fresh := New()
	if err := store.Load(fresh); err != nil {
		t.Fatal(err)
	}
	got, lines, ok := fresh.Lookup("a.py", "hash-a")
	if !ok {
		t.Fatal("entry missing after reload")
	}
	if lines != 12 {
		t.Fatalf("lines = %d, want 12", lines)
	}
	if diff := cmp.Diff(comments, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreLoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.cache"))
	c := New()
	if err := store.Load(c); err != nil {
		t.Fatalf("missing cache file must not error: %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("cache not empty: %d entries", c.Len())
	}
}

func TestStoreSaveSkipsClean(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clean.cache")
	store := NewStore(path)
	if err := store.Save(New()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("clean cache must not be written to disk")
	}
}
