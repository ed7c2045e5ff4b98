// Package sbs decodes BaseStation (SBS-1) CSV records as emitted by
// dump1090 and friends on port 30003.
package sbs

import (
	"strconv"
	"strings"
)

// Field offsets within a BaseStation record.
const (
	fieldMessageType      = 0
	fieldTransmissionType = 1
	fieldHexIdent         = 4
	fieldCallsign         = 10
	fieldAltitude         = 11
	fieldGroundSpeed      = 12
	fieldLatitude         = 14
	fieldLongitude        = 15
)

// Position is a latitude/longitude pair in decimal degrees. Positions
// are only ever carried as a pair; a record with one half missing
// yields no position at all.
type Position struct {
	Lat float64
	Lon float64
}

// Update is a sparse set of fields decoded from one transmission for
// one aircraft. Nil means the transmission did not carry that field.
type Update struct {
	Hex         string
	Callsign    *string
	Altitude    *int
	GroundSpeed *float64
	Position    *Position
}

// Decode parses one BaseStation line into an Update. ok is false for
// anything that is not a well-formed MSG record carrying at least one
// recognised field: wrong field count, wrong discriminator, and
// non-numeric values are all expected transport noise and are skipped
// silently rather than surfaced as errors.
func Decode(line string) (Update, bool) {
	parts := strings.Split(strings.TrimSpace(line), ",")
	if len(parts) < 5 || parts[fieldMessageType] != "MSG" {
		return Update{}, false
	}

	hex := strings.TrimSpace(parts[fieldHexIdent])
	if hex == "" {
		return Update{}, false
	}

	u := Update{Hex: hex}

	switch parts[fieldTransmissionType] {
	case "1": // ES Identification and Category
		if len(parts) < 11 {
			return Update{}, false
		}
		cs := strings.TrimSpace(parts[fieldCallsign])
		u.Callsign = &cs

	case "3": // ES Airborne Position
		if len(parts) < 16 {
			return Update{}, false
		}
		latStr := strings.TrimSpace(parts[fieldLatitude])
		lonStr := strings.TrimSpace(parts[fieldLongitude])
		if latStr == "" || lonStr == "" {
			return Update{}, false
		}
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return Update{}, false
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			return Update{}, false
		}
		u.Position = &Position{Lat: lat, Lon: lon}
		// Altitude rides along when usable; a bad altitude field must
		// not cost us the position.
		if alt, err := strconv.Atoi(strings.TrimSpace(parts[fieldAltitude])); err == nil {
			u.Altitude = &alt
		}

	case "4": // ES Airborne Velocity
		if len(parts) < 13 {
			return Update{}, false
		}
		gs, err := strconv.ParseFloat(strings.TrimSpace(parts[fieldGroundSpeed]), 64)
		if err != nil {
			return Update{}, false
		}
		u.GroundSpeed = &gs

	default:
		return Update{}, false
	}

	return u, true
}
