package watcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/CosmoTheDev/tfwatch/internal/config"
)

// Loop drives the runner on a fixed interval with an optional total time
// budget. Between rounds it rewrites a single countdown line in place.
type Loop struct {
	runner   *Runner
	history  *History
	interval time.Duration
	budget   time.Duration
	step     time.Duration
	out      io.Writer
}

func NewLoop(runner *Runner, history *History, cfg config.WatchConfig) *Loop {
	interval := time.Duration(cfg.IntervalSeconds) * time.Second
	if interval <= 0 {
		interval = 60 * time.Second
	}
	step := time.Duration(cfg.CountdownStepSeconds) * time.Second
	if step <= 0 {
		step = time.Second
	}
	return &Loop{
		runner:   runner,
		history:  history,
		interval: interval,
		budget:   time.Duration(cfg.DurationSeconds) * time.Second,
		step:     step,
		out:      os.Stdout,
	}
}

// SetOutput redirects the progress lines, e.g. to io.Discard when the
// dashboard owns the terminal.
func (l *Loop) SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	l.out = w
}

// Run polls until the context is cancelled or the time budget is spent.
// The budget is only checked between rounds; a round in flight always
// finishes. Returns the number of completed rounds.
func (l *Loop) Run(ctx context.Context) int {
	start := time.Now()
	rounds := 0
	for {
		if ctx.Err() != nil {
			return rounds
		}
		fmt.Fprintf(l.out, "round %d starting\n", rounds+1)
		summary := l.runner.Run(ctx)
		rounds++
		if l.history != nil {
			l.history.Add(summary)
		}
		fmt.Fprintf(l.out, "round %d finished in %.2fs: %d checked, %d open\n",
			summary.Round, summary.Duration.Seconds(), summary.Checked, summary.Open)

		if ctx.Err() != nil {
			return rounds
		}
		if l.budget > 0 && time.Since(start) >= l.budget {
			fmt.Fprintf(l.out, "watch budget of %s spent, stopping\n", l.budget)
			return rounds
		}
		if !l.countdown(ctx) {
			return rounds
		}
	}
}

// countdown waits out the interval, rewriting one status line via carriage
// return. Returns false if the context was cancelled while waiting.
func (l *Loop) countdown(ctx context.Context) bool {
	remaining := l.interval
	for remaining > 0 {
		fmt.Fprintf(l.out, "\rnext round in %s ", remaining.Round(time.Second))
		step := l.step
		if step > remaining {
			step = remaining
		}
		select {
		case <-time.After(step):
			remaining -= step
		case <-ctx.Done():
			fmt.Fprintln(l.out)
			return false
		}
	}
	fmt.Fprintln(l.out)
	return true
}
