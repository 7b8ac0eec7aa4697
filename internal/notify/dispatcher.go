package notify

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/CosmoTheDev/tfwatch/internal/config"
	"github.com/CosmoTheDev/tfwatch/models"
)

// knownPlatforms guards against typos in platform filters.
var knownPlatforms = map[string]bool{"webhook": true, "wechat": true, "bark": true}

// Dispatcher fans a Batch out to every configured endpoint of the requested
// channel types. Sends are best effort, fully observed: every endpoint is
// tried, every outcome is logged and returned, and no failure aborts the
// batch or a sibling send.
type Dispatcher struct {
	channels []Channel
}

// NewDispatcher builds one Channel per configured endpoint. All channels
// share one HTTP client so a batch's sends reuse connections.
func NewDispatcher(cfg config.NotifyConfig) *Dispatcher {
	client := &http.Client{Timeout: 5 * time.Second}

	var channels []Channel
	for _, u := range cfg.Webhooks {
		channels = append(channels, NewWebhook(u, client))
	}
	for _, wc := range cfg.WeChat {
		channels = append(channels, NewWeChat(wc, cfg.WeChatKey, client))
	}
	for _, endpoint := range cfg.Bark {
		channels = append(channels, NewBark(endpoint, client))
	}

	d := &Dispatcher{}
	for _, ch := range channels {
		if ch.IsConfigured() {
			d.channels = append(d.channels, ch)
		}
	}
	return d
}

// IsAnyConfigured reports whether at least one endpoint is ready to send.
func (d *Dispatcher) IsAnyConfigured() bool {
	return len(d.channels) > 0
}

// Notify sends batch to every endpoint of the requested platforms
// concurrently and returns one SendOutcome per endpoint attempted.
func (d *Dispatcher) Notify(ctx context.Context, batch Batch) []models.SendOutcome {
	all := len(batch.Platforms) == 0
	want := make(map[string]bool, len(batch.Platforms))
	for _, p := range batch.Platforms {
		if !knownPlatforms[p] {
			slog.Warn("notify: unknown platform in filter", "platform", p)
			continue
		}
		want[p] = true
	}

	outCh := make(chan models.SendOutcome, len(d.channels))
	var wg sync.WaitGroup
	for _, ch := range d.channels {
		if !all && !want[ch.Name()] {
			continue
		}
		wg.Add(1)
		go func(ch Channel) {
			defer wg.Done()
			outCh <- ch.Send(ctx, batch)
		}(ch)
	}
	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make([]models.SendOutcome, 0, len(d.channels))
	for o := range outCh {
		if o.OK {
			slog.Info("notify: delivered", "channel", o.Channel, "endpoint", o.Endpoint, "detail", o.Detail)
		} else {
			slog.Warn("notify: send failed", "channel", o.Channel, "endpoint", o.Endpoint, "error", o.Detail)
		}
		outcomes = append(outcomes, o)
	}

	delivered, failed := models.CountOutcomes(outcomes)
	slog.Info("notify: batch dispatched", "delivered", delivered, "failed", failed)
	return outcomes
}

// redactEndpoint reduces a credential-bearing URL to a loggable form: the
// host plus at most a few leading characters of the path.
func redactEndpoint(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		if len(raw) > 24 {
			return raw[:24] + "..."
		}
		return raw
	}
	p := strings.TrimPrefix(u.Path, "/")
	if len(p) > 8 {
		p = p[:8] + "..."
	}
	if p == "" {
		return u.Host
	}
	return u.Host + "/" + p
}

// responseDetail summarises an HTTP response for the outcome record. Bodies
// are recorded, not validated; a non-2xx reply still counts as delivered.
func responseDetail(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
	snippet := strings.TrimSpace(string(body))
	if snippet == "" {
		return resp.Status
	}
	return resp.Status + " " + snippet
}
