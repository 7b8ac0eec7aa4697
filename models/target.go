package models

import (
	"strings"
	"time"
)

// Target identifies one TestFlight public join page to poll. Targets come
// from the watchlist and never change during a run.
type Target struct {
	// Group is the logical bucket the URL belongs to (an app or product line).
	Group string `json:"group"`
	// URL is the public join page, e.g. https://testflight.apple.com/join/xxxx.
	URL string `json:"url"`
}

func (t Target) String() string {
	return t.Group + " - " + t.URL
}

// Finding is the raw result of polling one Target once. An empty Status
// means the beta status was not observable this round: the fetch failed,
// the page lacked the status fragment, or the fragment did not parse.
// Callers must never treat an empty Status as a status value.
type Finding struct {
	Target Target `json:"target"`
	Status string `json:"status,omitempty"`
	// Err records why Status is empty, for logs and JSON output. Empty
	// Status with empty Err means the page simply has no status fragment.
	Err string `json:"error,omitempty"`
}

// Present reports whether a status was actually observed.
func (f Finding) Present() bool {
	return f.Status != ""
}

// Line renders the finding as a notification line: "group - url: status".
func (f Finding) Line() string {
	return f.Target.Group + " - " + f.Target.URL + ": " + f.Status
}

// SlotState describes what one poll learned about a beta's availability.
type SlotState string

const (
	StateOpen    SlotState = "OPEN"    // joinable, enters the notification set
	StateFull    SlotState = "FULL"    // default state, suppressed from notification
	StateUnknown SlotState = "UNKNOWN" // status not observable this round
)

func (s SlotState) String() string {
	return string(s)
}

// ClassifyStatus maps a raw status string to a SlotState. A status that
// case-insensitively contains the sentinel word (normally "full") is the
// default state; anything else that was observed at all counts as open.
func ClassifyStatus(status, sentinel string) SlotState {
	if status == "" {
		return StateUnknown
	}
	if strings.Contains(strings.ToLower(status), strings.ToLower(sentinel)) {
		return StateFull
	}
	return StateOpen
}

// ClassifiedFinding is a Finding plus its derived SlotState.
type ClassifiedFinding struct {
	Finding
	State SlotState `json:"state"`
}

// RoundSummary aggregates one complete poll-and-notify round.
type RoundSummary struct {
	Round     int           `json:"round"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	// Checked is the number of targets polled; Open counts findings that
	// entered the notification set after dedup; Notified is the number of
	// lines actually dispatched (0 when no batch was sent).
	Checked  int                 `json:"checked"`
	Open     int                 `json:"open"`
	Notified int                 `json:"notified"`
	Findings []ClassifiedFinding `json:"findings,omitempty"`
	Outcomes []SendOutcome       `json:"outcomes,omitempty"`
}
