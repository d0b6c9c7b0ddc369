package progress

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
)

// Tracker reports how far a batch of scans has got.
type Tracker struct {
	bar    progress.Model
	out    io.Writer
	total  int
	done   int
	failed int
	mu     sync.Mutex
}

// New creates a Tracker for total scans, drawing to out.
func New(out io.Writer, total int) *Tracker {
	return &Tracker{
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
		out:   out,
		total: total,
	}
}

// Start announces that a page is being scanned.
func (t *Tracker) Start(url string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "\nScanning: %s", url)
}

// Finish records one finished scan and redraws the bar.
func (t *Tracker) Finish(url string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.done++
	if err != nil {
		t.failed++
		fmt.Fprintf(t.out, "\nFailed: %s (%v)", url, err)
	}

	if t.total > 0 {
		fmt.Fprintf(t.out, "\rProgress: %s %d/%d pages",
			t.bar.ViewAs(t.fraction()),
			t.done,
			t.total)
	}
}

// Failed returns the number of scans that ended in an error.
func (t *Tracker) Failed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.failed
}

func (t *Tracker) fraction() float64 {
	if t.total == 0 {
		return 0
	}
	return min(float64(t.done)/float64(t.total), 1)
}
