// Package progress draws a one-line stage indicator on stderr while the
// curation pipeline runs: a spinner frame, the current stage, and a
// done/total count when the stage reports one.
package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

var frames = []string{"◜", "◠", "◝", "◞", "◡", "◟"}

// Indicator is a spinning stage indicator. The zero value is not usable;
// create one with New.
type Indicator struct {
	writer io.Writer
	delay  time.Duration

	mu     sync.RWMutex
	active bool
	stage  string
	done   int
	total  int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates an indicator writing to w. Cancelling ctx stops redraws.
func New(ctx context.Context, w io.Writer, stage string) *Indicator {
	ictx, cancel := context.WithCancel(ctx)
	return &Indicator{
		writer: w,
		delay:  100 * time.Millisecond,
		stage:  stage,
		ctx:    ictx,
		cancel: cancel,
	}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Start begins redrawing. Calling Start twice is a no-op.
func (p *Indicator) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active {
		return
	}
	p.active = true
	p.wg.Add(1)
	go p.run()
}

// Stop halts redrawing and clears the line.
func (p *Indicator) Stop() {
	p.mu.Lock()
	if !p.active {
		p.mu.Unlock()
		return
	}
	p.active = false
	p.cancel()
	p.mu.Unlock()

	p.wg.Wait()

	if IsTerminal(p.writer) {
		fmt.Fprint(p.writer, "\r\033[2K")
	} else {
		fmt.Fprint(p.writer, "\r")
	}
}

// IsActive returns whether the indicator is currently running
func (p *Indicator) IsActive() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.active
}

// Stage switches to a new stage and resets its count.
func (p *Indicator) Stage(stage string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stage = stage
	p.done, p.total = 0, 0
}

// Update records progress within the current stage. It matches the
// signature of dedup.Options.Progress and is safe for concurrent use.
func (p *Indicator) Update(done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done, p.total = done, total
}

// line renders the current state for frame i
func (p *Indicator) line(i int) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	frame := frames[i%len(frames)]
	if p.total > 0 {
		return fmt.Sprintf("\r%s %s %d/%d", frame, p.stage, p.done, p.total)
	}
	return fmt.Sprintf("\r%s %s", frame, p.stage)
}

func (p *Indicator) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.delay)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			fmt.Fprint(p.writer, p.line(i))
		}
	}
}
