// Package gps refreshes the observer origin from a gpsd-style raw NMEA
// stream. A missing or silent receiver is never fatal; the fallback
// coordinate stays authoritative until a fix arrives.
package gps

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	"milwatch/internal/geo"
)

// Fix is one parsed GGA position report.
type Fix struct {
	Lat float64
	Lon float64
}

// ParseGGA parses a $GPGGA/$GNGGA sentence into a fix. ok is false for
// other sentence types, sentences without a fix, and malformed fields.
//
// GGA layout: $GPGGA,time,lat,N/S,lon,E/W,quality,...
func ParseGGA(line string) (Fix, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "$GPGGA") && !strings.HasPrefix(line, "$GNGGA") {
		return Fix{}, false
	}
	// Strip the optional checksum suffix.
	if i := strings.IndexByte(line, '*'); i >= 0 {
		line = line[:i]
	}

	parts := strings.Split(line, ",")
	if len(parts) < 7 {
		return Fix{}, false
	}
	if q := strings.TrimSpace(parts[6]); q == "" || q == "0" {
		return Fix{}, false // no fix yet
	}

	lat, ok := parseCoord(parts[2], parts[3], 2)
	if !ok {
		return Fix{}, false
	}
	lon, ok := parseCoord(parts[4], parts[5], 3)
	if !ok {
		return Fix{}, false
	}
	return Fix{Lat: lat, Lon: lon}, true
}

// parseCoord converts NMEA ddmm.mmmm (or dddmm.mmmm for longitude)
// plus a hemisphere letter into signed decimal degrees.
func parseCoord(value, hemisphere string, degDigits int) (float64, bool) {
	value = strings.TrimSpace(value)
	if len(value) <= degDigits {
		return 0, false
	}
	deg, err := strconv.ParseFloat(value[:degDigits], 64)
	if err != nil {
		return 0, false
	}
	min, err := strconv.ParseFloat(value[degDigits:], 64)
	if err != nil {
		return 0, false
	}
	out := deg + min/60
	switch strings.TrimSpace(hemisphere) {
	case "N", "E":
	case "S", "W":
		out = -out
	default:
		return 0, false
	}
	return out, true
}

// Watcher periodically refreshes an Origin from the NMEA endpoint.
type Watcher struct {
	Addr     string        // host:port of the gpsd raw feed
	Interval time.Duration // pause between refresh attempts
	Origin   *geo.Origin
}

// Run loops until ctx is cancelled: grab one fix, update the origin,
// sleep the interval. Every failure is a warning and a retry.
func (w *Watcher) Run(ctx context.Context) {
	for {
		if fix, err := w.fetchFix(ctx); err != nil {
			log.Printf("Warning: GPS refresh failed: %v (keeping previous origin)", err)
		} else {
			w.Origin.Set(fix.Lat, fix.Lon)
			log.Printf("GPS origin updated to: Lat %.4f, Lon %.4f", fix.Lat, fix.Lon)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.Interval):
		}
	}
}

// fetchFix dials the receiver and reads until the first usable GGA
// sentence, giving up after a minute.
func (w *Watcher) fetchFix(ctx context.Context) (Fix, error) {
	dialer := net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", w.Addr)
	if err != nil {
		return Fix{}, fmt.Errorf("connect %s: %w", w.Addr, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(60 * time.Second)
	_ = conn.SetReadDeadline(deadline)

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		if fix, ok := ParseGGA(scanner.Text()); ok {
			return fix, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return Fix{}, fmt.Errorf("read %s: %w", w.Addr, err)
	}
	return Fix{}, fmt.Errorf("no GGA fix from %s within 60s", w.Addr)
}
