package alert

import "time"

// DefaultCooldown is the minimum gap between two alerts for the same
// aircraft.
const DefaultCooldown = 600 * time.Second

// Deduper is the per-aircraft cooldown gate. It is read-only: the
// pipeline stamps the new last-alert time after a fired alert, which
// keeps Suppressed idempotent for preview and dry-run use.
type Deduper struct {
	Window time.Duration
}

// Suppressed reports whether an alert at now must be swallowed because
// the previous alert at lastAlert is still inside the cooldown window.
// A zero lastAlert means no alert has ever fired. The window is
// half-open: suppressed for [lastAlert, lastAlert+Window), eligible
// again at exactly lastAlert+Window.
func (d Deduper) Suppressed(lastAlert, now time.Time) bool {
	if lastAlert.IsZero() {
		return false
	}
	return now.Sub(lastAlert) < d.Window
}
