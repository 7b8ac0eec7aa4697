package notify

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestBarkBuildURLEncodesPathAndQuery(t *testing.T) {
	ch := NewBark("https://api.day.app/devkey", &http.Client{})
	built := ch.buildURL(Batch{
		Title:   "Status Update",
		Content: "beta - https://testflight.apple.com/join/abc: Open",
	})

	u, err := url.Parse(built)
	if err != nil {
		t.Fatalf("built URL does not parse: %v", err)
	}
	if u.Host != "api.day.app" {
		t.Fatalf("unexpected host %q", u.Host)
	}

	q := u.Query()
	if q.Get("group") != "testflightTracker" || q.Get("level") != "timeSensitive" {
		t.Fatalf("missing fixed query params: %q", built)
	}
	if q.Get("url") != "https://testflight.apple.com/join/abc" {
		t.Fatalf("deep link not extracted from content: %q", q.Get("url"))
	}

	// Path decodes back to /devkey/title/content.
	segments := strings.Split(strings.TrimPrefix(u.EscapedPath(), "/"), "/")
	if len(segments) != 3 {
		t.Fatalf("expected 3 path segments, got %v", segments)
	}
	title, err := url.PathUnescape(segments[1])
	if err != nil || title != "Status Update" {
		t.Fatalf("title segment: %q err %v", segments[1], err)
	}
	content, err := url.PathUnescape(segments[2])
	if err != nil || content != "beta - https://testflight.apple.com/join/abc: Open" {
		t.Fatalf("content segment: %q err %v", segments[2], err)
	}
}

func TestBarkBase64EndpointDecodedBeforeUse(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("https://api.day.app/devkey/"))
	if !strings.HasPrefix(encoded, base64URLPrefix) {
		t.Fatalf("test endpoint does not exercise the prefix: %q", encoded)
	}

	ch := NewBark(encoded, &http.Client{})
	built := ch.buildURL(Batch{Title: "t", Content: "c"})
	if !strings.HasPrefix(built, "https://api.day.app/devkey/") {
		t.Fatalf("endpoint not decoded: %q", built)
	}
}

func TestBarkPlainEndpointKeptVerbatim(t *testing.T) {
	ch := NewBark("https://api.day.app/devkey", &http.Client{})
	if !strings.HasPrefix(ch.buildURL(Batch{Title: "t", Content: "c"}), "https://api.day.app/devkey/") {
		t.Fatal("plain endpoint must be used as-is")
	}
}

func TestFirstLink(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"no links here", ""},
		{"beta - https://testflight.apple.com/join/abc: Open", "https://testflight.apple.com/join/abc"},
		{"x - http://a: Full\ny - http://b: Open", "http://a"},
		{"plain http mention without scheme separator", ""},
	}
	for _, c := range cases {
		if got := firstLink(c.text); got != c.want {
			t.Fatalf("firstLink(%q) = %q, want %q", c.text, got, c.want)
		}
	}
}

func TestBarkSendDeliversGET(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"code":200}`))
	}))
	defer srv.Close()

	ch := NewBark(srv.URL+"/devkey", &http.Client{Timeout: 5 * time.Second})
	out := ch.Send(context.Background(), Batch{Title: "Status Update", Content: "beta - http://b: Open"})

	if !out.OK {
		t.Fatalf("expected delivered, got %+v", out)
	}
	if !strings.HasPrefix(gotPath, "/devkey/Status%20Update/") {
		t.Fatalf("unexpected request path %q", gotPath)
	}
}
