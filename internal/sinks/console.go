// Package sinks contains the alert delivery adapters. Every sink is
// fed through its own dispatcher queue and handles its own failures;
// none of them contain decision logic.
package sinks

import (
	"fmt"
	"io"
	"strings"

	"milwatch/internal/alert"
)

// Console prints a human-readable alert block, the operator-facing
// default sink.
type Console struct {
	W io.Writer
}

func (c *Console) Name() string { return "console" }

func (c *Console) Deliver(a alert.Alert) error {
	rule := strings.Repeat("---", 15)
	_, err := fmt.Fprintf(c.W,
		"%s\nALERT: Aircraft of Interest Detected!\n"+
			"  ICAO:      %s (%s)\n"+
			"  Callsign:  %s\n"+
			"  Position:  %s\n"+
			"  Altitude:  %d ft | Speed: %.0f kts\n"+
			"  Map Link:  %s\n%s\n\n",
		rule, a.ICAO, a.Label, a.Callsign, a.PositionString(),
		a.Altitude, a.GroundSpeed, a.MapLink, rule)
	return err
}
