package models

import "testing"

func TestClassifyStatus(t *testing.T) {
	cases := []struct {
		status, sentinel string
		want             SlotState
	}{
		{"This beta is full.", "full", StateFull},
		{"This beta is accepting new testers.", "full", StateOpen},
		{"Beta FULL right now", "full", StateFull},
		{"This beta is full.", "FULL", StateFull},
		{"测试人员已满", "已满", StateFull},
		{"", "full", StateUnknown},
	}
	for _, c := range cases {
		if got := ClassifyStatus(c.status, c.sentinel); got != c.want {
			t.Errorf("ClassifyStatus(%q, %q) = %s, want %s", c.status, c.sentinel, got, c.want)
		}
	}
}

func TestFindingLineFormat(t *testing.T) {
	f := Finding{
		Target: Target{Group: "beta", URL: "https://testflight.apple.com/join/abc"},
		Status: "This beta is accepting new testers.",
	}
	want := "beta - https://testflight.apple.com/join/abc: This beta is accepting new testers."
	if got := f.Line(); got != want {
		t.Fatalf("Line() = %q, want %q", got, want)
	}
}

func TestFindingPresent(t *testing.T) {
	if (Finding{}).Present() {
		t.Fatal("empty finding must not be present")
	}
	if !(Finding{Status: "This beta is full."}).Present() {
		t.Fatal("finding with a status must be present")
	}
}

func TestCountOutcomes(t *testing.T) {
	ok, failed := CountOutcomes([]SendOutcome{
		{Channel: "webhook", OK: true},
		{Channel: "bark", OK: false, Detail: "timeout"},
		{Channel: "bark", OK: true},
	})
	if ok != 2 || failed != 1 {
		t.Fatalf("CountOutcomes = %d ok, %d failed; want 2 ok, 1 failed", ok, failed)
	}
}
