package tui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/muesli/termenv"
	"github.com/robfig/cron/v3"

	"gitstory.dev/gitstory/internal/tui/style"
)

// DefaultWatchInterval is used when no interval is given
const DefaultWatchInterval = "@every 10s"

// ParseInterval accepts a Go duration ("30s") or a cron expression or
// descriptor ("@every 1m", "*/5 * * * *")
func ParseInterval(spec string) (cron.Schedule, error) {
	if spec == "" {
		spec = DefaultWatchInterval
	}
	if d, err := time.ParseDuration(spec); err == nil {
		if d <= 0 {
			return nil, fmt.Errorf("watch interval must be positive, got %s", spec)
		}
		return cron.Every(d), nil
	}
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid watch interval %q: %w", spec, err)
	}
	return schedule, nil
}

// Watcher redraws the output of a render function on a schedule
type Watcher struct {
	w        io.Writer
	schedule cron.Schedule
	clear    bool
	now      func() time.Time
}

// NewWatcher creates a Watcher drawing to w. The screen is cleared before
// every cycle when w is a terminal.
func NewWatcher(w io.Writer, schedule cron.Schedule) *Watcher {
	return &Watcher{
		w:        w,
		schedule: schedule,
		clear:    IsTerminal(w),
		now:      time.Now,
	}
}

// Run renders until ctx is canceled. A render in flight is not canceled;
// cancellation takes effect while sleeping between cycles.
func (wt *Watcher) Run(ctx context.Context, render func(context.Context) (string, error)) error {
	out := termenv.NewOutput(wt.w)
	for {
		text, err := render(context.WithoutCancel(ctx))
		if err != nil {
			text = style.ColorError(err)
		}
		if wt.clear {
			out.ClearScreen()
		}
		_, _ = fmt.Fprintln(wt.w, text)

		now := wt.now()
		timer := time.NewTimer(wt.schedule.Next(now).Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}
