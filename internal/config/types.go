package config

// Config is the root configuration structure for tfwatch.
// Serialised to ~/.tfwatch/config.json.
type Config struct {
	Watch  WatchConfig  `mapstructure:"watch"  json:"watch"`
	Notify NotifyConfig `mapstructure:"notify" json:"notify"`
}

// WatchConfig controls the poll loop and the fetch pipeline.
type WatchConfig struct {
	// IntervalSeconds is the wait between rounds in loop mode.
	IntervalSeconds int `mapstructure:"interval_seconds" json:"interval_seconds"`
	// DurationSeconds caps total loop runtime; 0 means run until interrupted.
	DurationSeconds int `mapstructure:"duration_seconds" json:"duration_seconds"`
	// Concurrency bounds simultaneous in-flight page fetches.
	Concurrency int `mapstructure:"concurrency" json:"concurrency"`
	// CountdownStepSeconds is the refresh step of the inter-round countdown display.
	CountdownStepSeconds int `mapstructure:"countdown_step_seconds" json:"countdown_step_seconds"`
	// Sentinel is the substring (matched case-insensitively) that marks a
	// beta as full and suppresses notification.
	Sentinel string `mapstructure:"sentinel" json:"sentinel"`
	// WatchlistPath overrides the default ~/.tfwatch/watchlist.yaml.
	WatchlistPath string `mapstructure:"watchlist_path" json:"watchlist_path"`
}

// NotifyConfig lists the configured notification endpoints per channel.
type NotifyConfig struct {
	// Platforms are the channel names dispatched by default: webhook,
	// wechat, bark. Empty means every configured channel.
	Platforms []string `mapstructure:"platforms" json:"platforms"`
	// Webhooks are plain JSON-POST endpoints.
	Webhooks []string `mapstructure:"webhooks" json:"webhooks"`
	// WeChat lists WeChat Work apps to message.
	WeChat []WeChatTarget `mapstructure:"wechat" json:"wechat"`
	// Bark lists Bark push endpoints; an entry may be base64-encoded.
	Bark []string `mapstructure:"bark" json:"bark"`
	// WeChatKey is the AES key (16/24/32 bytes) used to decrypt WeChat
	// secrets. Usually supplied via the NOTIFY_WECHAT_KEY environment
	// variable rather than stored on disk.
	WeChatKey string `mapstructure:"wechat_key" json:"wechat_key,omitempty"`
}

// WeChatTarget holds one WeChat Work app's send parameters. Secret is the
// app secret encrypted with AES-ECB and base64-encoded; it is decrypted at
// send time with NotifyConfig.WeChatKey.
type WeChatTarget struct {
	CorpID  string `mapstructure:"corp_id"  json:"corp_id"`
	AgentID string `mapstructure:"agent_id" json:"agent_id"`
	Secret  string `mapstructure:"secret_enc" json:"secret_enc"`
	// ToUser is the recipient list, e.g. "@all" or "user1|user2".
	ToUser string `mapstructure:"to_user" json:"to_user"`
}
