package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Version is stamped by the release build via -ldflags.
var Version = "dev"

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "tfwatch",
	Short: "Watch TestFlight betas and get notified the moment a slot opens",
	Long: `tfwatch polls the public join pages of TestFlight betas, reads the
beta-status fragment from each page, and pushes a notification through your
configured channels (Bark, WeChat Work, plain webhooks) whenever a beta
stops being full.

Get started:
  tfwatch onboard     Interactive setup wizard
  tfwatch doctor      Verify config, watchlist, and channels
  tfwatch check       Poll every target once and print the results
  tfwatch watch       Run the poll loop until interrupted
  tfwatch ui          Launch the terminal dashboard`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI; main defers here.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ~/.tfwatch/config.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable debug output")
	rootCmd.Version = Version

	cobra.OnInitialize(func() {
		if verbose {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	})

	rootCmd.AddCommand(
		watchCmd,
		checkCmd,
		sendCmd,
		onboardCmd,
		doctorCmd,
		uiCmd,
		configCmd,
	)
}
