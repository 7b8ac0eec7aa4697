package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/CosmoTheDev/tfwatch/models"
)

// WebhookChannel POSTs the batch as a {"title", "content"} JSON payload to
// one user-configured endpoint.
type WebhookChannel struct {
	url    string
	client *http.Client
}

// NewWebhook creates a WebhookChannel for one endpoint URL.
func NewWebhook(url string, client *http.Client) *WebhookChannel {
	return &WebhookChannel{url: url, client: client}
}

func (w *WebhookChannel) Name() string       { return "webhook" }
func (w *WebhookChannel) Endpoint() string   { return redactEndpoint(w.url) }
func (w *WebhookChannel) IsConfigured() bool { return w.url != "" }

func (w *WebhookChannel) Send(ctx context.Context, batch Batch) models.SendOutcome {
	out := models.SendOutcome{Channel: w.Name(), Endpoint: w.Endpoint()}

	b, err := json.Marshal(map[string]string{
		"title":   batch.Title,
		"content": batch.Content,
	})
	if err != nil {
		out.Detail = err.Error()
		return out
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(b))
	if err != nil {
		out.Detail = err.Error()
		return out
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req) // #nosec G107 -- URL is a user-configured webhook endpoint
	if err != nil {
		out.Detail = err.Error()
		return out
	}
	defer resp.Body.Close()

	out.OK = true
	out.Detail = responseDetail(resp)
	return out
}
