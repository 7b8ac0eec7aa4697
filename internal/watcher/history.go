package watcher

import (
	"sync"

	"github.com/CosmoTheDev/tfwatch/models"
)

const defaultHistoryCapacity = 50

// History keeps recent round summaries in memory for the dashboard and
// status views. Nothing is persisted; restart starts a fresh window.
type History struct {
	mu       sync.Mutex
	rounds   []*models.RoundSummary
	capacity int
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = defaultHistoryCapacity
	}
	return &History{capacity: capacity}
}

// Add records a finished round, evicting the oldest once full.
func (h *History) Add(summary *models.RoundSummary) {
	if summary == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rounds = append(h.rounds, summary)
	if len(h.rounds) > h.capacity {
		h.rounds = h.rounds[len(h.rounds)-h.capacity:]
	}
}

// Recent returns up to n summaries, newest first.
func (h *History) Recent(n int) []*models.RoundSummary {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n <= 0 || n > len(h.rounds) {
		n = len(h.rounds)
	}
	out := make([]*models.RoundSummary, 0, n)
	for i := len(h.rounds) - 1; i >= len(h.rounds)-n; i-- {
		out = append(out, h.rounds[i])
	}
	return out
}

// Latest returns the most recent round, or nil before the first completes.
func (h *History) Latest() *models.RoundSummary {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.rounds) == 0 {
		return nil
	}
	return h.rounds[len(h.rounds)-1]
}

// Len reports how many rounds are currently retained.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rounds)
}
