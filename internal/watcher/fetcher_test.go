package watcher

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/CosmoTheDev/tfwatch/models"
)

func TestFetchStatusGivesUpAfterThreeAttempts(t *testing.T) {
	attempts := 0
	f := NewFetcher(nil, 1)
	f.backoff = time.Millisecond
	f.fetchPage = func(ctx context.Context, url string) (string, error) {
		attempts++
		return "", errors.New("connection refused")
	}

	finding := f.FetchStatus(context.Background(), models.Target{Group: "apps", URL: "http://x"})
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	if finding.Status != "" {
		t.Fatalf("expected no status after exhausted retries, got %q", finding.Status)
	}
	if !strings.Contains(finding.Err, "after 3 attempts") || !strings.Contains(finding.Err, "connection refused") {
		t.Fatalf("unexpected error detail: %q", finding.Err)
	}
}

func TestFetchStatusRecoversOnRetry(t *testing.T) {
	attempts := 0
	f := NewFetcher(nil, 1)
	f.backoff = time.Millisecond
	f.fetchPage = func(ctx context.Context, url string) (string, error) {
		attempts++
		if attempts == 1 {
			return "", errors.New("timeout")
		}
		return `<div class="beta-status"><span>Open</span></div>`, nil
	}

	finding := f.FetchStatus(context.Background(), models.Target{Group: "apps", URL: "http://x"})
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
	if finding.Err != "" || finding.Status != "Open" {
		t.Fatalf("unexpected finding after recovery: %+v", finding)
	}
}

func TestFetchStatusReleasesPermitAfterFailure(t *testing.T) {
	f := NewFetcher(nil, 1)
	f.backoff = time.Millisecond
	f.fetchPage = func(ctx context.Context, url string) (string, error) {
		return "", errors.New("boom")
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		f.FetchStatus(context.Background(), models.Target{URL: "http://a"})
		f.FetchStatus(context.Background(), models.Target{URL: "http://b"})
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("second fetch blocked, permit was not released")
	}
}

func TestFetchStatusPermitCapsConcurrency(t *testing.T) {
	var inflight, maxInflight atomic.Int32
	f := NewFetcher(nil, 2)
	f.fetchPage = func(ctx context.Context, url string) (string, error) {
		cur := inflight.Add(1)
		for {
			prev := maxInflight.Load()
			if cur <= prev || maxInflight.CompareAndSwap(prev, cur) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		inflight.Add(-1)
		return `<div class="beta-status"><span>Open</span></div>`, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.FetchStatus(context.Background(), models.Target{URL: "http://x"})
		}()
	}
	wg.Wait()

	// Exactly the permit capacity: more means the cap leaked, fewer means
	// the fetches were needlessly serialized.
	if got := maxInflight.Load(); got != 2 {
		t.Fatalf("expected 2 fetches in flight at peak, saw %d", got)
	}
}

func TestFetchStatusCancelInterruptsBackoff(t *testing.T) {
	f := NewFetcher(nil, 1)
	f.backoff = time.Minute
	f.fetchPage = func(ctx context.Context, url string) (string, error) {
		return "", errors.New("unreachable")
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	finding := f.FetchStatus(ctx, models.Target{URL: "http://x"})
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("cancel did not interrupt backoff, took %s", elapsed)
	}
	if finding.Err == "" {
		t.Fatalf("expected an error finding after cancel, got %+v", finding)
	}
}
