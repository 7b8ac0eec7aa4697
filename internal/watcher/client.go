// Package watcher implements the poll pipeline: permit-gated page fetches
// with retry, status fragment extraction, round orchestration, and the
// interval run loop.
package watcher

import (
	"net"
	"net/http"
	"time"
)

// Per-attempt timeouts. A page that exceeds them is a failed attempt and
// goes through the normal retry policy.
const (
	requestTimeout = 15 * time.Second
	connectTimeout = 5 * time.Second
	readTimeout    = 10 * time.Second
)

// Connection pooling limits; join pages live on a handful of hosts, so
// idle reuse matters more than per-host caps. The fetch permit is the only
// concurrency brake.
const (
	maxIdleConns        = 100
	maxIdleConnsPerHost = 100
	idleConnTimeout     = 60 * time.Second
)

// NewClient builds the HTTP client shared by every fetch task in a round:
// keep-alive enabled, pooled connections, and split connect/read deadlines
// under one overall request timeout.
func NewClient() *http.Client {
	return &http.Client{
		Timeout: requestTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   connectTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			ResponseHeaderTimeout: readTimeout,
			MaxIdleConns:          maxIdleConns,
			MaxIdleConnsPerHost:   maxIdleConnsPerHost,
			IdleConnTimeout:       idleConnTimeout,
			DisableKeepAlives:     false,
		},
	}
}
