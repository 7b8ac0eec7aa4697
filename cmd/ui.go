package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/CosmoTheDev/tfwatch/internal/config"
	"github.com/CosmoTheDev/tfwatch/internal/notify"
	"github.com/CosmoTheDev/tfwatch/internal/tui"
	"github.com/CosmoTheDev/tfwatch/internal/watcher"
	"github.com/CosmoTheDev/tfwatch/internal/watchlist"
	"github.com/spf13/cobra"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Launch the terminal dashboard",
	Long:  `Opens the interactive terminal UI: a live view of poll rounds and the findings of the latest round, with the watch loop running in the background.`,
	RunE:  runUI,
}

func runUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	wlPath, err := config.WatchlistPath(cfg)
	if err != nil {
		return fmt.Errorf("resolving watchlist path: %w", err)
	}
	wl, err := watchlist.Load(wlPath)
	if err != nil {
		return err
	}

	dispatcher := notify.NewDispatcher(cfg.Notify)
	fetcher := watcher.NewFetcher(watcher.NewClient(), cfg.Watch.Concurrency)
	runner := watcher.NewRunner(cfg, fetcher, dispatcher, wl.Targets())
	history := watcher.NewHistory(0)

	loop := watcher.NewLoop(runner, history, cfg.Watch)
	loop.SetOutput(io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	app := tui.NewApp(history)
	return app.Run()
}
