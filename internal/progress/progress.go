package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// ShouldShow decides whether to render progress: forced on/off by flags,
// otherwise only when both stdout and stderr are terminals.
func ShouldShow(force, no bool) bool {
	if no {
		return false
	}
	if force {
		return true
	}
	return isTerminal(os.Stdout) && isTerminal(os.Stderr)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Progress renders a one-line counter with ETA on stderr. It is a side
// channel: workers call Advance concurrently; rendering never affects
// scan results or ordering.
type Progress struct {
	mu      sync.Mutex
	total   int
	done    int
	start   time.Time
	enabled bool
	w       io.Writer
}

func New(total int, enabled bool) *Progress {
	return &Progress{total: total, start: time.Now(), enabled: enabled, w: os.Stderr}
}

// SetTotal fixes the denominator once enumeration is complete.
func (p *Progress) SetTotal(total int) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
}

// Advance marks one more file finished and repaints the line.
func (p *Progress) Advance() {
	if p == nil || !p.enabled {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	elapsed := time.Since(p.start)
	eta := "-"
	if p.done > 0 && p.total > p.done {
		remain := time.Duration(float64(elapsed) * float64(p.total-p.done) / float64(p.done))
		eta = fmt.Sprintf("%02d:%02d:%02d", int(remain.Hours()), int(remain.Minutes())%60, int(remain.Seconds())%60)
	}
	fmt.Fprintf(p.w, "\r\033[K[progress] %d/%d (%d%%) ETA %s",
		p.done, p.total, percent(p.done, p.total), eta)
}

// Done clears the progress line.
func (p *Progress) Done() {
	if p == nil || !p.enabled {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprint(p.w, "\r\033[K")
}

func percent(a, b int) int {
	if b == 0 {
		return 100
	}
	return int(float64(a) * 100 / float64(b))
}
