package cmd

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/CosmoTheDev/tfwatch/internal/config"
	"github.com/CosmoTheDev/tfwatch/internal/watchlist"
	"github.com/CosmoTheDev/tfwatch/models"
	"github.com/spf13/cobra"
)

var doctorSkipNetwork bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Verify config, watchlist, and notification channels",
	Long: `Checks that the config parses, the watchlist has pollable targets,
and every configured notification channel looks usable.

Use --skip-network to skip the reachability probe against the first
watchlist URL.`,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorSkipNetwork, "skip-network", false,
		"Skip the reachability probe against the first watchlist URL")
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	allOK := true

	fmt.Println("=== tfwatch doctor ===")
	fmt.Println()

	// Check config
	fmt.Print("Config ................... ")
	cfgPath, _ := config.ConfigPath(cfgFile)
	fmt.Printf("OK (%s)\n", cfgPath)

	// Check watchlist
	fmt.Print("Watchlist ................ ")
	var targets []models.Target
	wlPath, err := config.WatchlistPath(cfg)
	if err != nil {
		fmt.Printf("FAIL (%s)\n", err)
		allOK = false
	} else if wl, err := watchlist.Load(wlPath); err != nil {
		fmt.Printf("FAIL (%s)\n", err)
		allOK = false
	} else {
		targets = wl.Targets()
		if len(targets) == 0 {
			fmt.Printf("WARN (no pollable targets — edit %s)\n", wlPath)
			allOK = false
		} else {
			fmt.Printf("OK (%d targets in %d groups)\n", len(targets), len(wl.GroupNames()))
		}
		if _, ok := wl.Groups[watchlist.ReservedGroup]; ok {
			fmt.Println(dimStyle.Render("  (" + watchlist.ReservedGroup + " template present and ignored)"))
		}
	}

	// Check notification channels
	fmt.Println()
	fmt.Println("Notification channels:")

	fmt.Printf("  %-14s ... ", "webhook")
	if n := len(cfg.Notify.Webhooks); n == 0 {
		fmt.Println("not configured")
	} else {
		fmt.Printf("OK (%d endpoint(s))\n", n)
	}

	fmt.Printf("  %-14s ... ", "wechat")
	switch {
	case len(cfg.Notify.WeChat) == 0:
		fmt.Println("not configured")
	case os.Getenv("NOTIFY_WECHAT_KEY") == "" && cfg.Notify.WeChatKey == "":
		fmt.Println("WARN (AES key missing — set NOTIFY_WECHAT_KEY)")
		allOK = false
	default:
		fmt.Printf("OK (%d target(s), AES key set)\n", len(cfg.Notify.WeChat))
	}

	fmt.Printf("  %-14s ... ", "bark")
	if len(cfg.Notify.Bark) == 0 {
		fmt.Println("not configured")
	} else if i := firstBadBarkEndpoint(cfg.Notify.Bark); i >= 0 {
		fmt.Printf("FAIL (endpoint %d is not valid base64)\n", i+1)
		allOK = false
	} else {
		fmt.Printf("OK (%d endpoint(s))\n", len(cfg.Notify.Bark))
	}

	if len(cfg.Notify.Webhooks)+len(cfg.Notify.WeChat)+len(cfg.Notify.Bark) == 0 {
		fmt.Println(warnStyle.Render("  No channels configured — open betas will only be logged."))
		allOK = false
	}

	// Check network reachability, transport errors only. TestFlight answering
	// with any HTTP status counts as reachable.
	fmt.Print("\nNetwork .................. ")
	switch {
	case doctorSkipNetwork:
		fmt.Println("skipped")
	case len(targets) == 0:
		fmt.Println("skipped (nothing to probe)")
	default:
		probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		req, err := http.NewRequestWithContext(probeCtx, http.MethodHead, targets[0].URL, nil)
		if err != nil {
			// The watchlist takes any non-blank string, so the first entry
			// may not even parse as a URL.
			fmt.Printf("WARN (%s: %s)\n", targets[0].URL, err)
			allOK = false
			break
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			fmt.Printf("WARN (%s: %s)\n", targets[0].URL, err)
		} else {
			resp.Body.Close()
			fmt.Printf("OK (%s reachable)\n", targets[0].URL)
		}
	}

	fmt.Println()
	if allOK {
		fmt.Println(successStyle.Render("All checks passed — tfwatch is ready!"))
	} else {
		fmt.Println(warnStyle.Render("Some checks failed — run 'tfwatch onboard' to fix."))
	}

	return nil
}

// firstBadBarkEndpoint returns the index of the first base64-looking bark
// endpoint that does not decode, or -1 when all endpoints are fine.
func firstBadBarkEndpoint(endpoints []string) int {
	for i, ep := range endpoints {
		if !strings.HasPrefix(ep, "aHR0") {
			continue
		}
		if _, err := base64.StdEncoding.DecodeString(ep); err != nil {
			return i
		}
	}
	return -1
}
