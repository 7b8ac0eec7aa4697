package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"

	"github.com/CosmoTheDev/tfwatch/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit the tfwatch configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration with secrets masked",
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print where the config and watchlist files live",
	RunE:  runConfigPath,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the config file in your editor",
	RunE:  runConfigEdit,
}

func init() {
	configCmd.AddCommand(configShowCmd, configPathCmd, configEditCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	masked := *cfg
	masked.Notify.WeChat = append([]config.WeChatTarget(nil), cfg.Notify.WeChat...)
	for i := range masked.Notify.WeChat {
		if masked.Notify.WeChat[i].Secret != "" {
			masked.Notify.WeChat[i].Secret = "<encrypted>"
		}
	}
	if masked.Notify.WeChatKey != "" {
		masked.Notify.WeChatKey = "<set>"
	}

	out, err := json.MarshalIndent(masked, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	cfgPath, err := config.ConfigPath(cfgFile)
	if err != nil {
		return err
	}
	// Best effort for the watchlist location: a broken config file must not
	// hide where the config file itself lives.
	cfg, err := config.Load(cfgFile)
	if err != nil {
		cfg = nil
	}
	wlPath, err := config.WatchlistPath(cfg)
	if err != nil {
		return err
	}
	fmt.Printf("config     %s\n", cfgPath)
	fmt.Printf("watchlist  %s\n", wlPath)
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	path, err := config.ConfigPath(cfgFile)
	if err != nil {
		return err
	}
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}
	edit := exec.Command(editor, path) // #nosec G204 -- the user's own editor choice
	edit.Stdin, edit.Stdout, edit.Stderr = os.Stdin, os.Stdout, os.Stderr
	return edit.Run()
}
