package cli

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// ProgressReporter reports progress of a batch command.
type ProgressReporter interface {
	Start(total int)
	Increment()
	Finish()
}

// SimpleProgress rewrites a single status line as items complete. It is
// safe for concurrent use by batch workers.
type SimpleProgress struct {
	mu      sync.Mutex
	writer  io.Writer
	verb    string
	total   int
	done    int
	started time.Time
}

// NewProgressReporter creates a reporter writing to w, which defaults to
// os.Stderr. verb describes the work, as in "12/40 validated".
func NewProgressReporter(w io.Writer, verb string) *SimpleProgress {
	if w == nil {
		w = os.Stderr
	}
	return &SimpleProgress{writer: w, verb: verb}
}

// Start resets the reporter for total items.
func (p *SimpleProgress) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = total
	p.done = 0
	p.started = time.Now()
	p.render()
}

// Increment marks one more item done.
func (p *SimpleProgress) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done < p.total {
		p.done++
	}
	p.render()
}

// Finish ends the status line.
func (p *SimpleProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.total == 0 {
		return
	}
	fmt.Fprintf(p.writer, "\r%d/%d %s in %s\n", p.done, p.total, p.verb, time.Since(p.started).Round(time.Millisecond))
}

func (p *SimpleProgress) render() {
	if p.total == 0 {
		return
	}
	fmt.Fprintf(p.writer, "\r%d/%d %s (%.0f%%)", p.done, p.total, p.verb, float64(p.done)/float64(p.total)*100)
}

// NopProgress discards progress.
type NopProgress struct{}

func (NopProgress) Start(int)  {}
func (NopProgress) Increment() {}
func (NopProgress) Finish()    {}
