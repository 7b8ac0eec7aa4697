package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/CosmoTheDev/tfwatch/internal/config"
	"github.com/CosmoTheDev/tfwatch/internal/notify"
	"github.com/CosmoTheDev/tfwatch/internal/watcher"
	"github.com/CosmoTheDev/tfwatch/internal/watchlist"
	"github.com/CosmoTheDev/tfwatch/models"
	"github.com/spf13/cobra"
)

var (
	checkGroup string
	checkJSON  bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Poll every watched beta once and print the results",
	Long: `Runs a single poll round and prints one line per target.

Open betas are notified through the configured channels exactly as in
watch mode; use --json for machine-readable output.

Examples:
  tfwatch check
  tfwatch check --group myapp
  tfwatch check --json | jq '.findings[] | select(.state == "OPEN")'`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkGroup, "group", "", "only poll targets in this watchlist group")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print the round summary as JSON")
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

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
		return fmt.Errorf("loading watchlist: %w", err)
	}

	targets := wl.Targets()
	if checkGroup != "" {
		targets = filterGroup(targets, checkGroup)
		if len(targets) == 0 {
			return fmt.Errorf("no targets in group %q (known groups: %s)",
				checkGroup, strings.Join(wl.GroupNames(), ", "))
		}
	}

	dispatcher := notify.NewDispatcher(cfg.Notify)
	fetcher := watcher.NewFetcher(watcher.NewClient(), cfg.Watch.Concurrency)
	runner := watcher.NewRunner(cfg, fetcher, dispatcher, targets)

	summary := runner.Run(ctx)

	if checkJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	printCheckSummary(summary)
	return nil
}

func filterGroup(targets []models.Target, group string) []models.Target {
	var out []models.Target
	for _, t := range targets {
		if t.Group == group {
			out = append(out, t)
		}
	}
	return out
}

// printCheckSummary lists findings in completion order, fastest pages first.
func printCheckSummary(summary *models.RoundSummary) {
	fmt.Println("=== Check Results ===")
	fmt.Println()

	for _, f := range summary.Findings {
		switch f.State {
		case models.StateOpen:
			fmt.Println(successStyle.Render("  OPEN    " + f.Line()))
		case models.StateFull:
			fmt.Println(dimStyle.Render("  full    " + f.Line()))
		default:
			reason := f.Err
			if reason == "" {
				reason = "status fragment not found"
			}
			fmt.Println(warnStyle.Render("  absent  " + f.Target.String() + " (" + reason + ")"))
		}
	}
	if len(summary.Findings) == 0 {
		fmt.Println(dimStyle.Render("  watchlist is empty — run 'tfwatch onboard' to add targets"))
	}

	fmt.Println()
	fmt.Printf("Checked %d target(s) in %.2fs — %d open\n",
		summary.Checked, summary.Duration.Seconds(), summary.Open)

	if summary.Notified > 0 {
		delivered, failed := models.CountOutcomes(summary.Outcomes)
		fmt.Printf("Notified %d endpoint(s): %d delivered, %d failed\n",
			len(summary.Outcomes), delivered, failed)
	} else if summary.Open > 0 {
		fmt.Println(warnStyle.Render("Open betas found but no notification channels are configured."))
	}
}
