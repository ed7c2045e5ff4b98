// Package liveview serves the operator-facing recent-alerts page and
// JSON API.
package liveview

import (
	"sync"

	"milwatch/internal/alert"
)

// Ring keeps the most recent alerts in memory, newest first.
type Ring struct {
	mu     sync.Mutex
	max    int
	alerts []alert.Alert
}

// NewRing creates a ring that keeps at most max alerts.
func NewRing(max int) *Ring {
	return &Ring{max: max}
}

// Push adds an alert at the front, discarding the oldest when full.
func (r *Ring) Push(a alert.Alert) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.alerts = append([]alert.Alert{a}, r.alerts...)
	if len(r.alerts) > r.max {
		r.alerts = r.alerts[:r.max]
	}
}

// Snapshot returns a copy of the current contents, newest first.
func (r *Ring) Snapshot() []alert.Alert {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]alert.Alert, len(r.alerts))
	copy(out, r.alerts)
	return out
}
