// Package alert assembles alert records for aircraft of interest and
// fans them out to the configured sinks.
package alert

import (
	"fmt"
	"strings"
	"time"

	"milwatch/internal/geo"
	"milwatch/internal/state"
)

// Alert is the canonical record handed to every sink. It is assembled
// once, never mutated afterwards, and passed by value; sinks own their
// formatting and delivery entirely.
type Alert struct {
	Timestamp   time.Time `json:"timestamp"`
	ICAO        string    `json:"icao"`
	Callsign    string    `json:"callsign"`
	Label       string    `json:"label"` // affiliation or "Callsign Match"
	Altitude    int       `json:"altitude"`
	GroundSpeed float64   `json:"ground_speed"`
	Lat         float64   `json:"lat"`
	Lon         float64   `json:"lon"`
	DistanceMi  float64   `json:"distance_mi"`
	BearingDeg  int       `json:"bearing_deg"`
	Cardinal    string    `json:"cardinal"`
	MapLink     string    `json:"map_link"`
}

// PositionString renders distance and bearing the way the console and
// push sinks display them, e.g. "12.4 mi, 87° E".
func (a Alert) PositionString() string {
	return fmt.Sprintf("%.1f mi, %d° %s", a.DistanceMi, a.BearingDeg, a.Cardinal)
}

// Build assembles the alert record for a fully-populated aircraft. The
// caller guarantees ac.Complete(); Build itself performs no I/O and no
// state changes.
func Build(ac state.Aircraft, label string, origin geo.Point, now time.Time) Alert {
	pt := geo.Point{Lat: *ac.Lat, Lon: *ac.Lon}
	miles, bearing, cardinal := geo.DistanceAndBearing(origin, pt)

	icao := strings.ToUpper(ac.Hex)
	return Alert{
		Timestamp:   now,
		ICAO:        icao,
		Callsign:    *ac.Callsign,
		Label:       label,
		Altitude:    *ac.Altitude,
		GroundSpeed: *ac.GroundSpeed,
		Lat:         pt.Lat,
		Lon:         pt.Lon,
		DistanceMi:  miles,
		BearingDeg:  bearing,
		Cardinal:    cardinal,
		MapLink: fmt.Sprintf(
			"https://globe.adsbexchange.com/?lat=%v&lon=%v&zoom=8&icao=%s",
			pt.Lat, pt.Lon, icao),
	}
}
