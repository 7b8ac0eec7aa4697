package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/CosmoTheDev/tfwatch/internal/config"
	"github.com/CosmoTheDev/tfwatch/models"
)

func countingServer(t *testing.T, hits *atomic.Int32, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNotifyReturnsOneOutcomePerEndpointWithIndependentFailure(t *testing.T) {
	var hits atomic.Int32
	ok1 := countingServer(t, &hits, http.StatusOK, "ok")
	ok2 := countingServer(t, &hits, http.StatusOK, "ok")

	d := NewDispatcher(config.NotifyConfig{
		Webhooks: []string{ok1.URL, ok2.URL, "http://127.0.0.1:1/unreachable"},
	})

	outcomes := d.Notify(context.Background(), Batch{
		Title:     "Status Update",
		Content:   "beta - http://b: Open",
		Platforms: []string{"webhook"},
	})

	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d: %+v", len(outcomes), outcomes)
	}
	delivered, failed := models.CountOutcomes(outcomes)
	if delivered != 2 || failed != 1 {
		t.Fatalf("expected 2 delivered / 1 failed, got %d/%d: %+v", delivered, failed, outcomes)
	}
	if hits.Load() != 2 {
		t.Fatalf("expected both live endpoints hit, got %d", hits.Load())
	}
}

func TestNotifyNon2xxResponseCountsAsDelivered(t *testing.T) {
	var hits atomic.Int32
	srv := countingServer(t, &hits, http.StatusInternalServerError, "boom")

	d := NewDispatcher(config.NotifyConfig{Webhooks: []string{srv.URL}})
	outcomes := d.Notify(context.Background(), Batch{Title: "t", Content: "c"})

	if len(outcomes) != 1 || !outcomes[0].OK {
		t.Fatalf("response-received must count as delivered: %+v", outcomes)
	}
	if outcomes[0].Detail == "" {
		t.Fatal("expected the 500 status recorded in Detail")
	}
}

func TestNotifyPlatformFilterSkipsUnrequestedChannels(t *testing.T) {
	var webhookHits, barkHits atomic.Int32
	webhookSrv := countingServer(t, &webhookHits, http.StatusOK, "ok")
	barkSrv := countingServer(t, &barkHits, http.StatusOK, `{"code":200}`)

	d := NewDispatcher(config.NotifyConfig{
		Webhooks: []string{webhookSrv.URL},
		Bark:     []string{barkSrv.URL + "/devicekey"},
	})

	outcomes := d.Notify(context.Background(), Batch{
		Title:     "t",
		Content:   "c",
		Platforms: []string{"bark"},
	})

	if len(outcomes) != 1 || outcomes[0].Channel != "bark" {
		t.Fatalf("expected a single bark outcome, got %+v", outcomes)
	}
	if webhookHits.Load() != 0 {
		t.Fatalf("webhook endpoint must not be hit, got %d hits", webhookHits.Load())
	}
	if barkHits.Load() != 1 {
		t.Fatalf("bark endpoint expected exactly one hit, got %d", barkHits.Load())
	}
}

func TestNotifyEmptyPlatformsSendsToAllConfigured(t *testing.T) {
	var hits atomic.Int32
	webhookSrv := countingServer(t, &hits, http.StatusOK, "ok")
	barkSrv := countingServer(t, &hits, http.StatusOK, `{"code":200}`)

	d := NewDispatcher(config.NotifyConfig{
		Webhooks: []string{webhookSrv.URL},
		Bark:     []string{barkSrv.URL + "/devicekey"},
	})

	outcomes := d.Notify(context.Background(), Batch{Title: "t", Content: "c"})
	if len(outcomes) != 2 {
		t.Fatalf("expected both channels to send, got %+v", outcomes)
	}
}

func TestNotifyUnknownPlatformProducesNoOutcomes(t *testing.T) {
	var hits atomic.Int32
	srv := countingServer(t, &hits, http.StatusOK, "ok")

	d := NewDispatcher(config.NotifyConfig{Webhooks: []string{srv.URL}})
	outcomes := d.Notify(context.Background(), Batch{
		Title:     "t",
		Content:   "c",
		Platforms: []string{"pigeon"},
	})

	if len(outcomes) != 0 {
		t.Fatalf("unknown platform must dispatch nothing, got %+v", outcomes)
	}
	if hits.Load() != 0 {
		t.Fatalf("no endpoint should be hit, got %d", hits.Load())
	}
}

func TestDispatcherSkipsBlankEndpoints(t *testing.T) {
	d := NewDispatcher(config.NotifyConfig{
		Webhooks: []string{""},
		Bark:     []string{""},
	})
	if d.IsAnyConfigured() {
		t.Fatal("blank endpoints must not register channels")
	}
}

func TestRedactEndpointHidesCredentialPath(t *testing.T) {
	got := redactEndpoint("https://api.day.app/secretdevicekey123")
	if got != "api.day.app/secretde..." {
		t.Fatalf("unexpected redaction: %q", got)
	}
	if redactEndpoint("https://example.com") != "example.com" {
		t.Fatalf("bare host should pass through, got %q", redactEndpoint("https://example.com"))
	}
}
