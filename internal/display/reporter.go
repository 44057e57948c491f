// internal/display/reporter.go
package display

import (
	"log"
	"time"

	"github.com/tamzrod/linkfetch/internal/status"
)

// DefaultSettle is how long the reporter holds after a render.
const DefaultSettle = 300 * time.Millisecond

// Display is the delivery-only contract for the status panel.
// It receives a snapshot and shows it verbatim, replacing prior content.
type Display interface {
	Render(s status.Snapshot) error
}

// Reporter renders status snapshots synchronously.
// It holds no state beyond the display handle.
type Reporter struct {
	display Display
	logger  *log.Logger
	settle  time.Duration
	sleep   func(time.Duration)
}

// Option customises a Reporter.
type Option func(*Reporter)

// WithSettle overrides the post-render settle delay.
func WithSettle(d time.Duration) Option {
	return func(r *Reporter) {
		if d >= 0 {
			r.settle = d
		}
	}
}

func NewReporter(d Display, logger *log.Logger, opts ...Option) *Reporter {
	if logger == nil {
		logger = log.Default()
	}
	r := &Reporter{
		display: d,
		logger:  logger,
		settle:  DefaultSettle,
		sleep:   time.Sleep,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Show renders up to three free-form lines.
func (r *Reporter) Show(lines ...string) {
	r.Report(status.Text(lines...))
}

// Report renders a snapshot as the entire visible status, then waits the
// settle delay. Render failures are logged and otherwise ignored.
func (r *Reporter) Report(s status.Snapshot) {
	if err := r.display.Render(s); err != nil {
		r.logger.Printf("display render failed (stage=%d): %v", s.Stage, err)
	}
	if r.settle > 0 {
		r.sleep(r.settle)
	}
}
