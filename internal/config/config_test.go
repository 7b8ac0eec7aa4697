package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `{}`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Watch.IntervalSeconds != 60 {
		t.Errorf("interval = %d, want 60", cfg.Watch.IntervalSeconds)
	}
	if cfg.Watch.Concurrency != 500 {
		t.Errorf("concurrency = %d, want 500", cfg.Watch.Concurrency)
	}
	if cfg.Watch.CountdownStepSeconds != 1 {
		t.Errorf("countdown step = %d, want 1", cfg.Watch.CountdownStepSeconds)
	}
	if cfg.Watch.DurationSeconds != 0 {
		t.Errorf("duration = %d, want 0", cfg.Watch.DurationSeconds)
	}
	if cfg.Watch.Sentinel != "full" {
		t.Errorf("sentinel = %q, want %q", cfg.Watch.Sentinel, "full")
	}
	if len(cfg.Notify.Platforms) != 1 || cfg.Notify.Platforms[0] != "bark" {
		t.Errorf("platforms = %v, want [bark]", cfg.Notify.Platforms)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("home dir: %v", err)
	}
	if want := filepath.Join(home, ".tfwatch", "watchlist.yaml"); cfg.Watch.WatchlistPath != want {
		t.Errorf("watchlist path = %q, want %q", cfg.Watch.WatchlistPath, want)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Watch.IntervalSeconds != 60 || cfg.Watch.Concurrency != 500 {
		t.Fatalf("defaults not applied: %+v", cfg.Watch)
	}
}

func TestLoadReadsFileValues(t *testing.T) {
	cfg, err := Load(writeConfig(t, `{
  "watch": {"interval_seconds": 5, "sentinel": "已满"},
  "notify": {
    "platforms": ["webhook", "bark"],
    "webhooks": ["https://example.com/hook"],
    "wechat": [{"corp_id": "ww1", "agent_id": "1000002", "secret_enc": "abc", "to_user": "@all"}]
  }
}`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Watch.IntervalSeconds != 5 {
		t.Errorf("interval = %d, want 5", cfg.Watch.IntervalSeconds)
	}
	if cfg.Watch.Sentinel != "已满" {
		t.Errorf("sentinel = %q, want %q", cfg.Watch.Sentinel, "已满")
	}
	// Unset keys still fall back to defaults.
	if cfg.Watch.Concurrency != 500 {
		t.Errorf("concurrency = %d, want default 500", cfg.Watch.Concurrency)
	}
	if len(cfg.Notify.Webhooks) != 1 || cfg.Notify.Webhooks[0] != "https://example.com/hook" {
		t.Errorf("webhooks = %v", cfg.Notify.Webhooks)
	}
	if len(cfg.Notify.WeChat) != 1 {
		t.Fatalf("wechat = %+v", cfg.Notify.WeChat)
	}
	wx := cfg.Notify.WeChat[0]
	if wx.CorpID != "ww1" || wx.AgentID != "1000002" || wx.Secret != "abc" || wx.ToUser != "@all" {
		t.Errorf("wechat = %+v", wx)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("WATCH_CONCURRENCY", "25")
	cfg, err := Load(writeConfig(t, `{"watch": {"concurrency": 9}}`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Watch.Concurrency != 25 {
		t.Errorf("concurrency = %d, want env override 25", cfg.Watch.Concurrency)
	}
}

func TestLoadWeChatKeyFromEnv(t *testing.T) {
	t.Setenv("NOTIFY_WECHAT_KEY", "0123456789abcdef")
	cfg, err := Load(writeConfig(t, `{}`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Notify.WeChatKey != "0123456789abcdef" {
		t.Errorf("wechat key = %q, want env value", cfg.Notify.WeChatKey)
	}
}

func TestLoadExpandsHomeInWatchlistPath(t *testing.T) {
	cfg, err := Load(writeConfig(t, `{"watch": {"watchlist_path": "~/lists/wl.yaml"}}`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("home dir: %v", err)
	}
	if want := filepath.Join(home, "lists", "wl.yaml"); cfg.Watch.WatchlistPath != want {
		t.Errorf("watchlist path = %q, want %q", cfg.Watch.WatchlistPath, want)
	}
}

func TestLoadMalformedConfigErrors(t *testing.T) {
	if _, err := Load(writeConfig(t, `{"watch": `)); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestSaveRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	in := &Config{}
	in.Watch.IntervalSeconds = 30
	in.Notify.Bark = []string{"https://api.day.app/abc"}
	if err := Save(in, path); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.Watch.IntervalSeconds != 30 {
		t.Errorf("interval = %d, want 30", out.Watch.IntervalSeconds)
	}
	if len(out.Notify.Bark) != 1 || out.Notify.Bark[0] != "https://api.day.app/abc" {
		t.Errorf("bark = %v", out.Notify.Bark)
	}
}
