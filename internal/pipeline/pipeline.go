// Package pipeline wires the decode, merge, match, dedupe and dispatch
// stages into the per-line processing engine.
package pipeline

import (
	"sync/atomic"
	"time"

	"milwatch/internal/alert"
	"milwatch/internal/geo"
	"milwatch/internal/match"
	"milwatch/internal/sbs"
	"milwatch/internal/state"
)

// Engine consumes feed lines strictly in arrival order. Everything up
// to dispatch runs on the caller's goroutine; only sink delivery is
// concurrent.
type Engine struct {
	store      *state.Store
	matcher    *match.Matcher
	deduper    alert.Deduper
	origin     *geo.Origin
	dispatcher *alert.Dispatcher

	lines      atomic.Uint64
	decoded    atomic.Uint64
	alerts     atomic.Uint64
	suppressed atomic.Uint64
}

// New assembles an engine from its already-constructed parts.
func New(store *state.Store, matcher *match.Matcher, deduper alert.Deduper,
	origin *geo.Origin, dispatcher *alert.Dispatcher) *Engine {
	return &Engine{
		store:      store,
		matcher:    matcher,
		deduper:    deduper,
		origin:     origin,
		dispatcher: dispatcher,
	}
}

// Process handles one transport line at the given time. It re-evaluates
// interest on every merged update, so an aircraft that became complete
// or left its cooldown on this line fires immediately.
func (e *Engine) Process(line string, now time.Time) {
	e.lines.Add(1)

	u, ok := sbs.Decode(line)
	if !ok {
		return
	}
	e.decoded.Add(1)

	ac := e.store.Merge(u, now)

	callsign := ""
	if ac.Callsign != nil {
		callsign = *ac.Callsign
	}
	label, interested := e.matcher.Classify(ac.Hex, callsign)
	if !interested {
		return
	}

	if !ac.Complete() {
		// Of interest but not yet fully known; the next qualifying
		// update re-triggers this evaluation.
		return
	}

	if e.deduper.Suppressed(ac.LastAlert, now) {
		e.suppressed.Add(1)
		return
	}

	e.store.MarkAlerted(ac.Hex, now)
	a := alert.Build(ac, label, e.origin.Get(), now)
	e.dispatcher.Dispatch(a)
	e.alerts.Add(1)
}

// Stats is a point-in-time snapshot of the engine counters.
type Stats struct {
	Lines      uint64 `json:"lines"`
	Decoded    uint64 `json:"decoded"`
	Alerts     uint64 `json:"alerts"`
	Suppressed uint64 `json:"suppressed"`
	Aircraft   int    `json:"aircraft"`
}

// Stats returns the current counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Lines:      e.lines.Load(),
		Decoded:    e.decoded.Load(),
		Alerts:     e.alerts.Load(),
		Suppressed: e.suppressed.Load(),
		Aircraft:   e.store.Len(),
	}
}
