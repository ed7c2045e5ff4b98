// Package state holds the per-aircraft records reconstructed from the
// partial updates carried by the feed.
package state

import (
	"sync"
	"time"

	"milwatch/internal/sbs"
)

// Aircraft is the merged view of everything seen so far for one hex
// identifier. Field pointers are nil until the field has been observed
// at least once; after that they only ever move forward
// (last-write-wins, no rollback).
type Aircraft struct {
	Hex         string
	Callsign    *string
	Altitude    *int
	GroundSpeed *float64
	Lat         *float64
	Lon         *float64

	// LastAlert is the zero time until the first alert fires for this
	// aircraft. It drives the cooldown window.
	LastAlert time.Time

	FirstSeen time.Time
	LastSeen  time.Time
	MsgCount  int
}

// Complete reports whether every field required to assemble an alert
// has been observed. An empty callsign counts as not yet decoded.
func (a *Aircraft) Complete() bool {
	return a.Callsign != nil && *a.Callsign != "" &&
		a.Altitude != nil && a.GroundSpeed != nil &&
		a.Lat != nil && a.Lon != nil
}

// Store owns the aircraft map. Records are created lazily on first
// reference and never removed for the lifetime of the process; growth
// is bounded only by feed diversity. Eviction is deliberately out of
// scope.
type Store struct {
	mu       sync.Mutex
	aircraft map[string]*Aircraft
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{aircraft: make(map[string]*Aircraft)}
}

// Merge applies a partial update to the record for u.Hex, creating it
// if this is the first reference, and returns a snapshot of the merged
// record. Only the fields the update carries are touched.
func (s *Store) Merge(u sbs.Update, now time.Time) Aircraft {
	s.mu.Lock()
	defer s.mu.Unlock()

	ac, ok := s.aircraft[u.Hex]
	if !ok {
		ac = &Aircraft{Hex: u.Hex, FirstSeen: now}
		s.aircraft[u.Hex] = ac
	}

	if u.Callsign != nil {
		cs := *u.Callsign
		ac.Callsign = &cs
	}
	if u.Altitude != nil {
		alt := *u.Altitude
		ac.Altitude = &alt
	}
	if u.GroundSpeed != nil {
		gs := *u.GroundSpeed
		ac.GroundSpeed = &gs
	}
	if u.Position != nil {
		lat, lon := u.Position.Lat, u.Position.Lon
		ac.Lat = &lat
		ac.Lon = &lon
	}

	ac.LastSeen = now
	ac.MsgCount++

	return snapshot(ac)
}

// Get returns a snapshot of the record for hex, if one exists.
func (s *Store) Get(hex string) (Aircraft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ac, ok := s.aircraft[hex]
	if !ok {
		return Aircraft{}, false
	}
	return snapshot(ac), true
}

// MarkAlerted stamps the last-alert time for hex. Called by the
// pipeline after an alert fires; the deduplication check itself never
// writes.
func (s *Store) MarkAlerted(hex string, t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ac, ok := s.aircraft[hex]; ok {
		ac.LastAlert = t
	}
}

// Len returns the number of aircraft seen so far.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.aircraft)
}

// snapshot copies the record, including fresh pointers, so callers
// never share memory with the live map entry.
func snapshot(ac *Aircraft) Aircraft {
	out := Aircraft{
		Hex:       ac.Hex,
		LastAlert: ac.LastAlert,
		FirstSeen: ac.FirstSeen,
		LastSeen:  ac.LastSeen,
		MsgCount:  ac.MsgCount,
	}
	if ac.Callsign != nil {
		v := *ac.Callsign
		out.Callsign = &v
	}
	if ac.Altitude != nil {
		v := *ac.Altitude
		out.Altitude = &v
	}
	if ac.GroundSpeed != nil {
		v := *ac.GroundSpeed
		out.GroundSpeed = &v
	}
	if ac.Lat != nil {
		v := *ac.Lat
		out.Lat = &v
	}
	if ac.Lon != nil {
		v := *ac.Lon
		out.Lon = &v
	}
	return out
}
