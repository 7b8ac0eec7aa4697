package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/CosmoTheDev/tfwatch/internal/config"
	"github.com/CosmoTheDev/tfwatch/internal/notify"
	"github.com/spf13/cobra"
)

var (
	sendTitle     string
	sendMessage   string
	sendPlatforms []string
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a test notification through the configured channels",
	Long: `Dispatches a message to every configured notification endpoint and
prints the per-endpoint outcome. Useful for verifying channel setup
before trusting the watch loop with it.

Examples:
  tfwatch send --message "hello from tfwatch"
  tfwatch send --title "Deploy done" --message "v1.4.2 live" --platform webhook`,
	RunE: runSend,
}

func init() {
	sendCmd.Flags().StringVar(&sendTitle, "title", "tfwatch test", "notification title")
	sendCmd.Flags().StringVar(&sendMessage, "message", "", "notification body (required)")
	sendCmd.Flags().StringSliceVar(&sendPlatforms, "platform", nil,
		"channel to use (webhook, wechat, bark); repeatable, default all configured")
	_ = sendCmd.MarkFlagRequired("message")
}

func runSend(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	dispatcher := notify.NewDispatcher(cfg.Notify)
	if !dispatcher.IsAnyConfigured() {
		return fmt.Errorf("no notification channels configured; run 'tfwatch onboard' first")
	}

	fmt.Printf("Sending %q via %s\n\n", sendTitle, channelSummary(cfg.Notify))

	outcomes := dispatcher.Notify(ctx, notify.Batch{
		Title:     sendTitle,
		Content:   sendMessage,
		Platforms: sendPlatforms,
	})
	if len(outcomes) == 0 {
		return fmt.Errorf("no endpoint matched the requested platforms %v", sendPlatforms)
	}

	failed := 0
	for _, out := range outcomes {
		mark := successStyle.Render("OK  ")
		if !out.OK {
			mark = warnStyle.Render("FAIL")
			failed++
		}
		fmt.Printf("  %s  %-8s %s", mark, out.Channel, out.Endpoint)
		if out.Detail != "" {
			fmt.Printf("  %s", dimStyle.Render(truncateDetail(out.Detail)))
		}
		fmt.Println()
	}

	fmt.Println()
	if failed > 0 {
		return fmt.Errorf("%d of %d endpoint(s) failed", failed, len(outcomes))
	}
	fmt.Println(successStyle.Render(fmt.Sprintf("All %d endpoint(s) delivered.", len(outcomes))))
	return nil
}

func truncateDetail(s string) string {
	const limit = 80
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
