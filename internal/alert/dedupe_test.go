package alert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSuppressedWindow(t *testing.T) {
	d := Deduper{Window: 600 * time.Second}
	fired := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	// Suppressed for [T, T+window), eligible at T+window and after.
	assert.True(t, d.Suppressed(fired, fired))
	assert.True(t, d.Suppressed(fired, fired.Add(time.Second)))
	assert.True(t, d.Suppressed(fired, fired.Add(599*time.Second)))
	assert.True(t, d.Suppressed(fired, fired.Add(600*time.Second-time.Nanosecond)))
	assert.False(t, d.Suppressed(fired, fired.Add(600*time.Second)))
	assert.False(t, d.Suppressed(fired, fired.Add(time.Hour)))
}

func TestSuppressedNeverFired(t *testing.T) {
	d := Deduper{Window: 600 * time.Second}
	assert.False(t, d.Suppressed(time.Time{}, time.Now()))
}

func TestSuppressedIsReadOnlyIdempotent(t *testing.T) {
	d := Deduper{Window: 600 * time.Second}
	fired := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	now := fired.Add(30 * time.Second)

	// Repeated checks with the same inputs always agree; nothing is
	// stamped by the check itself.
	for i := 0; i < 10; i++ {
		assert.True(t, d.Suppressed(fired, now))
	}
}
