package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/CosmoTheDev/tfwatch/internal/config"
	"github.com/CosmoTheDev/tfwatch/internal/notify"
	"github.com/CosmoTheDev/tfwatch/internal/watcher"
	"github.com/CosmoTheDev/tfwatch/internal/watchlist"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var (
	watchInterval int
	watchDuration int
	watchCron     string
	watchLogDir   string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll all watched betas on a loop and notify when one opens",
	Long: `Runs poll rounds against every URL in the watchlist until interrupted.

Each round fetches all join pages concurrently, reads the beta-status
fragment from each, and sends one combined notification covering every
beta that is accepting testers. Between rounds a countdown is shown.

By default rounds repeat on a fixed interval. With --cron the rounds fire
on a schedule instead:

  tfwatch watch --cron "*/5 8-23 * * *"   — every 5 minutes, daytime only
  tfwatch watch --cron "@every 90s"       — every 90 seconds

A round already in flight is never overlapped; a cron tick that lands
mid-round is skipped.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&watchInterval, "interval", 0,
		"seconds between rounds (overrides config)")
	watchCmd.Flags().IntVar(&watchDuration, "duration", 0,
		"total seconds to keep watching before exiting (overrides config)")
	watchCmd.Flags().StringVar(&watchCron, "cron", "",
		"cron expression scheduling rounds instead of the interval loop")
	watchCmd.Flags().StringVar(&watchLogDir, "log-dir", "logs",
		"directory to write watch logs for later inspection")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		fmt.Println("\nStopping after the current round...")
		cancel()
	}()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logFilePath, closeLog, err := setupWatchFileLogger(watchLogDir)
	if err != nil {
		return fmt.Errorf("initialising watch logger: %w", err)
	}
	defer closeLog()

	if watchInterval > 0 {
		cfg.Watch.IntervalSeconds = watchInterval
	}
	if watchDuration > 0 {
		cfg.Watch.DurationSeconds = watchDuration
	}

	if len(cfg.Notify.WeChat) > 0 && cfg.Notify.WeChatKey == "" {
		return fmt.Errorf("wechat endpoints configured but no AES key set; export NOTIFY_WECHAT_KEY or run 'tfwatch doctor'")
	}

	wlPath, err := config.WatchlistPath(cfg)
	if err != nil {
		return fmt.Errorf("resolving watchlist path: %w", err)
	}
	wl, err := watchlist.Load(wlPath)
	if err != nil {
		return fmt.Errorf("loading watchlist: %w", err)
	}
	targets := wl.Targets()

	dispatcher := notify.NewDispatcher(cfg.Notify)
	fetcher := watcher.NewFetcher(watcher.NewClient(), cfg.Watch.Concurrency)
	runner := watcher.NewRunner(cfg, fetcher, dispatcher, targets)
	history := watcher.NewHistory(0)

	fmt.Printf("tfwatch starting\n")
	fmt.Printf("  Targets    : %d (groups: %s)\n", len(targets), strings.Join(wl.GroupNames(), ", "))
	if watchCron != "" {
		fmt.Printf("  Schedule   : cron %q\n", watchCron)
	} else {
		fmt.Printf("  Interval   : %ds\n", cfg.Watch.IntervalSeconds)
		if cfg.Watch.DurationSeconds > 0 {
			fmt.Printf("  Duration   : %ds\n", cfg.Watch.DurationSeconds)
		}
	}
	fmt.Printf("  Concurrency: %d\n", cfg.Watch.Concurrency)
	fmt.Printf("  Channels   : %s\n", channelSummary(cfg.Notify))
	fmt.Printf("  Logs       : %s\n\n", logFilePath)
	fmt.Println("Press Ctrl+C to stop gracefully.")
	fmt.Println()

	if len(targets) == 0 {
		slog.Warn("watchlist has no targets, rounds will be empty", "path", wlPath)
	}
	if !dispatcher.IsAnyConfigured() {
		slog.Warn("no notification channels configured, open betas will only be logged")
	}

	if watchCron != "" {
		return runCronWatch(ctx, watchCron, runner, history)
	}

	loop := watcher.NewLoop(runner, history, cfg.Watch)
	rounds := loop.Run(ctx)
	fmt.Printf("\nwatch finished after %d rounds\n", rounds)
	return nil
}

// runCronWatch fires rounds on a cron schedule until the context ends.
// Ticks that land while a round is still in flight are skipped, never queued.
func runCronWatch(ctx context.Context, expr string, runner *watcher.Runner, history *watcher.History) error {
	if err := validateCronExpr(expr); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}

	var running sync.Mutex
	c := cron.New()
	if _, err := c.AddFunc(expr, func() {
		if !running.TryLock() {
			slog.Warn("cron tick skipped, previous round still running")
			return
		}
		defer running.Unlock()
		history.Add(runner.Run(ctx))
	}); err != nil {
		return fmt.Errorf("registering cron schedule: %w", err)
	}

	c.Start()
	slog.Info("cron schedule active", "expr", expr)
	<-ctx.Done()

	// Stop returns a context that ends once in-flight jobs finish.
	<-c.Stop().Done()
	return nil
}

// validateCronExpr checks expr against a throwaway scheduler without
// starting anything.
func validateCronExpr(expr string) error {
	tmp := cron.New()
	id, err := tmp.AddFunc(expr, func() {})
	if err != nil {
		return err
	}
	tmp.Remove(id)
	return nil
}

func channelSummary(cfg config.NotifyConfig) string {
	var parts []string
	if n := len(cfg.Webhooks); n > 0 {
		parts = append(parts, fmt.Sprintf("webhook x%d", n))
	}
	if n := len(cfg.WeChat); n > 0 {
		parts = append(parts, fmt.Sprintf("wechat x%d", n))
	}
	if n := len(cfg.Bark); n > 0 {
		parts = append(parts, fmt.Sprintf("bark x%d", n))
	}
	if len(parts) == 0 {
		return "none (run 'tfwatch onboard')"
	}
	return strings.Join(parts, ", ")
}

func setupWatchFileLogger(logDir string) (string, func(), error) {
	if logDir == "" {
		logDir = "logs"
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return "", nil, fmt.Errorf("creating log dir %s: %w", logDir, err)
	}

	ts := time.Now().UTC().Format("20060102-150405")
	runLogPath := filepath.Join(logDir, fmt.Sprintf("watch-%s.log", ts))
	runFile, err := os.OpenFile(runLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return "", nil, fmt.Errorf("opening run log file: %w", err)
	}

	latestPath := filepath.Join(logDir, "watch.log")
	latestFile, err := os.OpenFile(latestPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		_ = runFile.Close()
		return "", nil, fmt.Errorf("opening latest log file: %w", err)
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(io.MultiWriter(os.Stdout, runFile, latestFile), &slog.HandlerOptions{
		Level:     level,
		AddSource: verbose,
	})
	slog.SetDefault(slog.New(handler))
	slog.SetLogLoggerLevel(level)

	cleanup := func() {
		_ = latestFile.Close()
		_ = runFile.Close()
	}
	return runLogPath, cleanup, nil
}
