package liveview

import (
	"fmt"

	"milwatch/internal/alert"
	"milwatch/internal/history"
)

// Feeder is the live-view sink: it pushes each alert into the ring and
// appends it to the history database. The HTTP server reads both; the
// feeder itself never blocks ingestion because it drains its own
// dispatcher queue like every other sink.
type Feeder struct {
	Ring *Ring
	Hist *history.DB // optional
}

func (f *Feeder) Name() string { return "liveview" }

func (f *Feeder) Deliver(a alert.Alert) error {
	f.Ring.Push(a)
	if f.Hist != nil {
		if err := f.Hist.Append(a); err != nil {
			return fmt.Errorf("record alert history: %w", err)
		}
	}
	return nil
}

// SeedRing preloads the ring with the most recent persisted alerts so
// the page is not empty after a restart. A nil history is a no-op.
func SeedRing(r *Ring, hist *history.DB) error {
	if hist == nil {
		return nil
	}
	recent, err := hist.Recent(r.max)
	if err != nil {
		return fmt.Errorf("load alert history: %w", err)
	}
	// Recent is newest first; push oldest first so the ring ends up
	// newest first again.
	for i := len(recent) - 1; i >= 0; i-- {
		r.Push(recent[i])
	}
	return nil
}
