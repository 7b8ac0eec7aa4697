package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/CosmoTheDev/tfwatch/internal/config"
	"github.com/CosmoTheDev/tfwatch/internal/watchlist"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Interactive setup wizard for tfwatch",
	Long: `Walks you through configuring tfwatch:
  - Poll interval and loop behaviour
  - Notification channels (Bark, WeChat Work, plain webhooks)
  - The watchlist of TestFlight join pages to poll

Re-running onboard keeps existing values as defaults, so it is safe to
use for reconfiguring a single channel later.`,
	RunE: runOnboard,
}

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#7C3AED")).
	MarginBottom(1)

var successStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#10B981"))

var warnStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#F59E0B"))

var dimStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#6B7280"))

func runOnboard(cmd *cobra.Command, args []string) error {
	fmt.Println()
	fmt.Println(headerStyle.Render("  tfwatch — TestFlight beta-slot watcher"))
	fmt.Println(dimStyle.Render("  Polls public join pages and pings you the moment a beta opens up.\n"))

	// Load existing config or start fresh.
	cfg, err := config.Load(cfgFile)
	if err != nil {
		cfg = &config.Config{}
	}

	if err := config.EnsureDir(); err != nil {
		return fmt.Errorf("creating tfwatch directory: %w", err)
	}

	// --- Step 1: Poll settings ---
	fmt.Println(headerStyle.Render("  Step 1/3 · Poll Settings"))

	interval := strconv.Itoa(cfg.Watch.IntervalSeconds)
	if cfg.Watch.IntervalSeconds == 0 {
		interval = "60"
	}
	pollForm := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Seconds between rounds").
				Description("How long to wait after a round finishes before polling again.").
				Value(&interval).
				Validate(validatePositiveInt),
		),
	)
	if err := pollForm.Run(); err != nil {
		return err
	}
	cfg.Watch.IntervalSeconds, _ = strconv.Atoi(strings.TrimSpace(interval))

	// --- Step 2: Notification channels ---
	fmt.Println(headerStyle.Render("\n  Step 2/3 · Notification Channels"))
	fmt.Println(dimStyle.Render("  Open-beta alerts go to every channel you configure here.\n"))

	platforms := cfg.Notify.Platforms
	if len(platforms) == 0 {
		platforms = []string{"bark"}
	}
	channelForm := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Channels to notify by default").
				Options(
					huh.NewOption("Bark (iOS push)", "bark"),
					huh.NewOption("WeChat Work app message", "wechat"),
					huh.NewOption("Plain JSON webhook", "webhook"),
				).
				Value(&platforms),
		),
	)
	if err := channelForm.Run(); err != nil {
		return err
	}
	cfg.Notify.Platforms = platforms

	for _, platform := range platforms {
		switch platform {
		case "bark":
			if err := onboardBark(cfg); err != nil {
				return err
			}
		case "webhook":
			if err := onboardWebhook(cfg); err != nil {
				return err
			}
		case "wechat":
			if err := onboardWeChat(cfg); err != nil {
				return err
			}
		}
	}

	// --- Step 3: Watchlist ---
	fmt.Println(headerStyle.Render("\n  Step 3/3 · Watchlist"))

	wlPath, err := config.WatchlistPath(cfg)
	if err != nil {
		return fmt.Errorf("resolving watchlist path: %w", err)
	}
	if err := watchlist.Init(wlPath); err != nil {
		return fmt.Errorf("writing starter watchlist: %w", err)
	}
	fmt.Printf("  Watchlist: %s\n", dimStyle.Render(wlPath))
	fmt.Println(dimStyle.Render("  Add your apps under 'groups:'. The exampleGroup entry is a template"))
	fmt.Println(dimStyle.Render("  and is never polled.\n"))

	// Save config.
	cfgPath, _ := config.ConfigPath(cfgFile)
	if err := config.Save(cfg, cfgPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Println(headerStyle.Render("  Setup complete!"))
	fmt.Printf("  Config saved to: %s\n\n", dimStyle.Render(cfgPath))

	fmt.Println(dimStyle.Render("  Next steps:"))
	fmt.Println(dimStyle.Render("    tfwatch doctor   — verify channels and watchlist"))
	fmt.Println(dimStyle.Render("    tfwatch check    — poll everything once"))
	fmt.Println(dimStyle.Render("    tfwatch watch    — start the loop"))
	fmt.Println(dimStyle.Render("    tfwatch ui       — terminal dashboard"))
	fmt.Println()
	return nil
}

func onboardBark(cfg *config.Config) error {
	endpoint := ""
	if len(cfg.Notify.Bark) > 0 {
		endpoint = cfg.Notify.Bark[0]
	}
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Bark endpoint").
			Description("Your device URL from the Bark app, e.g. https://api.day.app/yourkey. A base64-encoded URL is also accepted.").
			Placeholder("https://api.day.app/xxxxxxxx").
			Value(&endpoint),
	))
	if err := form.Run(); err != nil {
		return err
	}
	if endpoint = strings.TrimSpace(endpoint); endpoint != "" {
		cfg.Notify.Bark = []string{endpoint}
	}
	return nil
}

func onboardWebhook(cfg *config.Config) error {
	endpoint := ""
	if len(cfg.Notify.Webhooks) > 0 {
		endpoint = cfg.Notify.Webhooks[0]
	}
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Webhook URL").
			Description(`Receives POST {"title": ..., "content": ...} on every alert.`).
			Placeholder("https://example.com/hooks/tfwatch").
			Value(&endpoint),
	))
	if err := form.Run(); err != nil {
		return err
	}
	if endpoint = strings.TrimSpace(endpoint); endpoint != "" {
		cfg.Notify.Webhooks = []string{endpoint}
	}
	return nil
}

func onboardWeChat(cfg *config.Config) error {
	var target config.WeChatTarget
	if len(cfg.Notify.WeChat) > 0 {
		target = cfg.Notify.WeChat[0]
	}
	if target.ToUser == "" {
		target.ToUser = "@all"
	}
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Corp ID").
			Placeholder("ww1234567890abcdef").
			Value(&target.CorpID),
		huh.NewInput().
			Title("Agent ID").
			Placeholder("1000002").
			Value(&target.AgentID),
		huh.NewInput().
			Title("App secret (AES-encrypted, base64)").
			Description("The app secret encrypted with your AES key. The key itself is read from the NOTIFY_WECHAT_KEY environment variable at send time.").
			EchoMode(huh.EchoModePassword).
			Value(&target.Secret),
		huh.NewInput().
			Title("Recipients").
			Description("'@all' or a 'user1|user2' list").
			Value(&target.ToUser),
	))
	if err := form.Run(); err != nil {
		return err
	}
	if target.CorpID != "" {
		cfg.Notify.WeChat = []config.WeChatTarget{target}
	}
	if os.Getenv("NOTIFY_WECHAT_KEY") == "" && cfg.Notify.WeChatKey == "" {
		fmt.Println(warnStyle.Render("  NOTIFY_WECHAT_KEY is not set; wechat sends will fail until it is."))
	}
	return nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fmt.Errorf("enter a positive number of seconds")
	}
	return nil
}
