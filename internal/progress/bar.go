package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Bar is a single-line track counter for one playlist
type Bar struct {
	label     string
	total     int
	current   int
	failed    int
	out       io.Writer
	mu        sync.Mutex
	startTime time.Time
	done      bool
}

// New creates a progress bar writing to stdout
func New(label string, total int) *Bar {
	return NewWithWriter(label, total, os.Stdout)
}

// NewWithWriter creates a progress bar writing to out
func NewWithWriter(label string, total int, out io.Writer) *Bar {
	return &Bar{
		label:     label,
		total:     total,
		out:       out,
		startTime: time.Now(),
	}
}

// Increment counts one finished track. Each track settles in its own
// external process, so every step is rendered.
func (b *Bar) Increment(ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current++
	if !ok {
		b.failed++
	}
	b.render()
}

// Finish marks the progress as complete
func (b *Bar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.done {
		b.render()
		fmt.Fprintln(b.out)
		b.done = true
	}
}

// render displays the progress bar
func (b *Bar) render() {
	if b.done {
		return
	}

	var ratio float64
	if b.total > 0 {
		ratio = float64(b.current) / float64(b.total)
	}
	elapsed := time.Since(b.startTime)

	// Calculate ETA
	var eta time.Duration
	if b.current > 0 {
		avgTime := elapsed / time.Duration(b.current)
		eta = avgTime * time.Duration(b.total-b.current)
	}

	barWidth := 30
	filled := int(float64(barWidth) * ratio)
	if filled > barWidth {
		filled = barWidth
	}

	fmt.Fprintf(b.out, "\r%s [%s%s] %d/%d (%d failed) - Elapsed: %s - ETA: %s   ",
		b.label,
		strings.Repeat("█", filled),
		strings.Repeat("░", barWidth-filled),
		b.current,
		b.total,
		b.failed,
		formatDuration(elapsed),
		formatDuration(eta),
	)
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
