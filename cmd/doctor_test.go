package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// captureStdout runs fn with os.Stdout redirected to a pipe and returns
// everything it printed alongside fn's error.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	runErr := fn()
	w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("reading captured output: %v", err)
	}
	return string(out), runErr
}

// The watchlist accepts any non-blank string, so the reachability check may
// be handed something that does not even parse as a URL. Doctor must flag
// it, not crash on it.
func TestDoctorReportsMalformedWatchlistURL(t *testing.T) {
	dir := t.TempDir()
	wlPath := filepath.Join(dir, "watchlist.yaml")
	wlYAML := "groups:\n  beta:\n    - https://testflight.apple.com/join/%zz\n"
	if err := os.WriteFile(wlPath, []byte(wlYAML), 0o600); err != nil {
		t.Fatalf("write watchlist: %v", err)
	}

	// A configured webhook keeps every other check green, so the rollup
	// verdict below can only come from the network check.
	cfgPath := filepath.Join(dir, "config.json")
	cfgJSON := fmt.Sprintf(
		`{"watch": {"watchlist_path": %q}, "notify": {"webhooks": ["https://example.com/hook"]}}`,
		wlPath)
	if err := os.WriteFile(cfgPath, []byte(cfgJSON), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	orig := cfgFile
	cfgFile = cfgPath
	t.Cleanup(func() { cfgFile = orig })

	out, err := captureStdout(t, func() error { return runDoctor(doctorCmd, nil) })
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if !strings.Contains(out, "invalid URL escape") {
		t.Errorf("network check did not surface the URL parse error:\n%s", out)
	}
	if !strings.Contains(out, "Some checks failed") {
		t.Errorf("malformed watchlist URL should fail the doctor rollup:\n%s", out)
	}
}
