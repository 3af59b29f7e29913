package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestShouldShow(t *testing.T) {
	if ShouldShow(true, true) {
		t.Fatal("no must win over force")
	}
	if !ShouldShow(true, false) {
		t.Fatal("force must enable progress")
	}
}

func TestAdvanceRendersCounter(t *testing.T) {
	var buf bytes.Buffer
	p := &Progress{total: 4, start: time.Now(), enabled: true, w: &buf}
	p.Advance()
	p.Advance()
	out := buf.String()
	if !strings.Contains(out, "2/4 (50%)") {
		t.Fatalf("missing counter: %q", out)
	}
	p.Done()
	if !strings.HasSuffix(buf.String(), "\r\033[K") {
		t.Fatalf("Done must clear the line: %q", buf.String())
	}
}

func TestDisabledProgressIsSilent(t *testing.T) {
	var buf bytes.Buffer
	p := &Progress{total: 1, enabled: false, w: &buf}
	p.Advance()
	p.Done()
	if buf.Len() != 0 {
		t.Fatalf("disabled progress wrote output: %q", buf.String())
	}
}

func TestNilProgressIsSafe(t *testing.T) {
	var p *Progress
	p.SetTotal(3)
	p.Advance()
	p.Done()
}

func TestPercent(t *testing.T) {
	cases := []struct {
		a, b, want int
	}{
		{0, 10, 0},
		{5, 10, 50},
		{10, 10, 100},
		{0, 0, 100},
	}
	for _, tc := range cases {
		if got := percent(tc.a, tc.b); got != tc.want {
			t.Fatalf("percent(%d, %d) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}
