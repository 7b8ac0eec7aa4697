package watcher

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/CosmoTheDev/tfwatch/internal/config"
	"github.com/CosmoTheDev/tfwatch/internal/notify"
	"github.com/CosmoTheDev/tfwatch/models"
)

const notifyTitle = "TestFlight 状态更新"

// dedupKey collapses identical findings within one round. Status is
// case-folded; group and URL match exactly.
type dedupKey struct {
	group, url, status string
}

// Runner executes complete poll rounds: fan out one fetch task per target,
// consume completions as they land, classify, dedup, and dispatch one
// notification batch when anything opened up.
type Runner struct {
	fetcher    *Fetcher
	dispatcher *notify.Dispatcher
	targets    []models.Target
	sentinel   string
	platforms  []string
	round      int
}

// NewRunner wires a round executor. The fetcher's permit and client are
// shared by every task the runner spawns.
func NewRunner(cfg *config.Config, fetcher *Fetcher, dispatcher *notify.Dispatcher, targets []models.Target) *Runner {
	sentinel := cfg.Watch.Sentinel
	if sentinel == "" {
		sentinel = "full"
	}
	return &Runner{
		fetcher:    fetcher,
		dispatcher: dispatcher,
		targets:    targets,
		sentinel:   sentinel,
		platforms:  cfg.Notify.Platforms,
	}
}

// Run executes one poll round and always returns a summary. A target's
// failure degrades to an absent finding; nothing aborts the round.
func (r *Runner) Run(ctx context.Context) *models.RoundSummary {
	r.round++
	summary := &models.RoundSummary{Round: r.round, StartedAt: time.Now()}
	if len(r.targets) == 0 {
		slog.Info("watcher: nothing to poll, watchlist has no targets", "round", r.round)
		return summary
	}

	resultCh := make(chan models.Finding, len(r.targets))
	var wg sync.WaitGroup
	for _, target := range r.targets {
		wg.Add(1)
		go func(target models.Target) {
			defer wg.Done()
			select {
			case resultCh <- r.fetcher.FetchStatus(ctx, target):
			case <-ctx.Done():
			}
		}(target)
	}
	go func() {
		wg.Wait()
		close(resultCh)
	}()

	// Consume in completion order: fast pages surface immediately and the
	// round never holds more than the channel buffer of pending results.
	seen := make(map[dedupKey]bool)
	var lines []string
	for finding := range resultCh {
		summary.Checked++
		cf := models.ClassifiedFinding{
			Finding: finding,
			State:   models.ClassifyStatus(finding.Status, r.sentinel),
		}
		summary.Findings = append(summary.Findings, cf)

		switch cf.State {
		case models.StateUnknown:
			continue
		case models.StateFull:
			slog.Debug("watcher: beta full", "group", finding.Target.Group, "url", finding.Target.URL, "status", finding.Status)
			continue
		}

		slog.Info("watcher: beta open", "group", finding.Target.Group, "url", finding.Target.URL, "status", finding.Status)
		key := dedupKey{
			group:  finding.Target.Group,
			url:    finding.Target.URL,
			status: strings.ToLower(finding.Status),
		}
		if seen[key] {
			// Round-local duplicate; dropped silently.
			continue
		}
		seen[key] = true
		lines = append(lines, finding.Line())
	}
	summary.Open = len(lines)

	if len(lines) > 0 {
		if r.dispatcher != nil && r.dispatcher.IsAnyConfigured() {
			summary.Outcomes = r.dispatcher.Notify(ctx, notify.Batch{
				Title:     notifyTitle,
				Content:   strings.Join(lines, "\n"),
				Platforms: r.platforms,
			})
			summary.Notified = len(lines)
		} else {
			slog.Warn("watcher: open betas found but no notification channels configured", "open", len(lines))
		}
	}

	summary.Duration = time.Since(summary.StartedAt)
	slog.Info("watcher: round complete",
		"round", r.round,
		"checked", summary.Checked,
		"open", summary.Open,
		"notified", summary.Notified,
		"duration", summary.Duration.Round(time.Millisecond),
	)
	return summary
}
