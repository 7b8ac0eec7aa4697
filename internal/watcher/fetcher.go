package watcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/CosmoTheDev/tfwatch/models"
)

const (
	maxAttempts    = 3
	initialBackoff = 500 * time.Millisecond

	// Join pages are small; cap the read regardless.
	maxBodyBytes = 1 << 20
)

// Fetcher retrieves and parses the status fragment for single targets. The
// permit bounds in-flight fetches across the whole round; every fetch holds
// one slot for its full duration, retries included.
type Fetcher struct {
	client  *http.Client
	permit  chan struct{}
	backoff time.Duration

	// fetchPage is swappable so the retry policy is testable without sockets.
	fetchPage func(ctx context.Context, url string) (string, error)
}

// NewFetcher creates a Fetcher whose permit admits at most concurrency
// simultaneous fetches.
func NewFetcher(client *http.Client, concurrency int) *Fetcher {
	if concurrency < 1 {
		concurrency = 1
	}
	f := &Fetcher{
		client:  client,
		permit:  make(chan struct{}, concurrency),
		backoff: initialBackoff,
	}
	f.fetchPage = f.fetchPageHTTP
	return f
}

// FetchStatus polls one target: acquire a permit slot, fetch with retry,
// extract the fragment. It never returns an error; every failure degrades
// to a Finding with no status.
func (f *Fetcher) FetchStatus(ctx context.Context, target models.Target) models.Finding {
	select {
	case f.permit <- struct{}{}:
	case <-ctx.Done():
		return models.Finding{Target: target, Err: ctx.Err().Error()}
	}
	defer func() { <-f.permit }()

	body, err := f.fetchWithRetry(ctx, target.URL)
	if err != nil {
		slog.Error("watcher: fetch failed", "group", target.Group, "url", target.URL, "error", err)
		return models.Finding{Target: target, Err: err.Error()}
	}

	status := extractStatus(body)
	slog.Debug("watcher: fetched", "group", target.Group, "url", target.URL, "status", status)
	return models.Finding{Target: target, Status: status}
}

// fetchWithRetry is the three-strikes policy: transport errors are retried
// with doubling delays (0.5s, then 1s); HTTP error codes are not errors at
// all, their bodies simply lack the fragment.
func (f *Fetcher) fetchWithRetry(ctx context.Context, url string) (string, error) {
	delay := f.backoff
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		body, err := f.fetchPage(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if attempt == maxAttempts {
			break
		}
		slog.Debug("watcher: retrying fetch", "url", url, "attempt", attempt, "delay", delay, "error", err)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
		delay *= 2
	}
	return "", fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr)
}

func (f *Fetcher) fetchPageHTTP(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}
	return string(body), nil
}
