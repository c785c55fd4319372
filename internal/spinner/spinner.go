package spinner

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Progress is an animated "⠋ message (done/total)" line.
type Progress struct {
	w       io.Writer
	message string
	total   int
	done    atomic.Int64

	stop     chan struct{}
	cleared  chan struct{}
	stopOnce sync.Once
	width    int
}

// Start displays an animated progress line with the given message on w.
// Call Stop to clear the line.
func Start(w io.Writer, message string, total int) *Progress {
	p := &Progress{
		w:       w,
		message: message,
		total:   total,
		stop:    make(chan struct{}),
		cleared: make(chan struct{}),
	}
	p.render(0)

	go func() {
		i := 1
		for {
			select {
			case <-p.stop:
				fmt.Fprintf(w, "\r%*s\r", p.width, "") //nolint:errcheck
				close(p.cleared)
				return
			case <-time.After(80 * time.Millisecond):
				p.render(i)
				i++
			}
		}
	}()
	return p
}

// Advance records one more completed step.
func (p *Progress) Advance() {
	p.done.Add(1)
}

// Stop stops the animation and clears the line. It is safe to call more
// than once.
func (p *Progress) Stop() {
	p.stopOnce.Do(func() {
		close(p.stop)
	})
	<-p.cleared
}

func (p *Progress) render(frame int) {
	line := fmt.Sprintf("%s %s (%d/%d)", frames[frame%len(frames)], p.message, p.done.Load(), p.total)
	p.width = max(p.width, len(line))
	fmt.Fprintf(p.w, "\r%s", line) //nolint:errcheck
}
