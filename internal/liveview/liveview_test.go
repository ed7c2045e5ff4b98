package liveview

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milwatch/internal/alert"
	"milwatch/internal/history"
	"milwatch/internal/pipeline"
)

func ringAlert(i int) alert.Alert {
	return alert.Alert{
		Timestamp:   time.Date(2026, 8, 31, 12, 0, i, 0, time.UTC),
		ICAO:        fmt.Sprintf("AE01%02d", i),
		Callsign:    "RCH4",
		Label:       "USAF",
		Altitude:    10000,
		GroundSpeed: 350,
		DistanceMi:  12.4,
		BearingDeg:  87,
		Cardinal:    "E",
		MapLink:     "https://example.invalid/track",
	}
}

func TestRingNewestFirstBounded(t *testing.T) {
	r := NewRing(3)
	for i := 0; i < 5; i++ {
		r.Push(ringAlert(i))
	}

	got := r.Snapshot()
	require.Len(t, got, 3)
	assert.Equal(t, "AE0104", got[0].ICAO)
	assert.Equal(t, "AE0103", got[1].ICAO)
	assert.Equal(t, "AE0102", got[2].ICAO)
}

func TestFeederPushesRingAndHistory(t *testing.T) {
	hist, err := history.Open(":memory:")
	require.NoError(t, err)
	defer hist.Close()

	f := &Feeder{Ring: NewRing(25), Hist: hist}
	require.NoError(t, f.Deliver(ringAlert(1)))

	assert.Len(t, f.Ring.Snapshot(), 1)
	n, err := hist.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSeedRingRestoresPersistedAlerts(t *testing.T) {
	hist, err := history.Open(":memory:")
	require.NoError(t, err)
	defer hist.Close()

	for i := 0; i < 4; i++ {
		require.NoError(t, hist.Append(ringAlert(i)))
	}

	// A fresh ring after a restart picks up the persisted tail,
	// newest first and bounded by the ring size.
	r := NewRing(3)
	require.NoError(t, SeedRing(r, hist))

	got := r.Snapshot()
	require.Len(t, got, 3)
	assert.Equal(t, "AE0103", got[0].ICAO)
	assert.Equal(t, "AE0102", got[1].ICAO)
	assert.Equal(t, "AE0101", got[2].ICAO)

	// New alerts land in front of the restored ones.
	r.Push(ringAlert(9))
	assert.Equal(t, "AE0109", r.Snapshot()[0].ICAO)
}

func TestSeedRingWithoutHistory(t *testing.T) {
	r := NewRing(3)
	require.NoError(t, SeedRing(r, nil))
	assert.Empty(t, r.Snapshot())
}

func TestFeederWithoutHistory(t *testing.T) {
	f := &Feeder{Ring: NewRing(25)}
	require.NoError(t, f.Deliver(ringAlert(1)))
	assert.Len(t, f.Ring.Snapshot(), 1)
}

func testServer() *Server {
	ring := NewRing(25)
	ring.Push(ringAlert(1))
	stats := func() pipeline.Stats {
		return pipeline.Stats{Lines: 10, Decoded: 8, Alerts: 1, Aircraft: 2}
	}
	return NewServer(ring, stats, 0)
}

func TestHandleAlerts(t *testing.T) {
	s := testServer()
	rec := httptest.NewRecorder()
	s.handleAlerts(rec, httptest.NewRequest(http.MethodGet, "/api/alerts", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var got []alert.Alert
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "AE0101", got[0].ICAO)
}

func TestHandleStats(t *testing.T) {
	s := testServer()
	rec := httptest.NewRecorder()
	s.handleStats(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	var got pipeline.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, uint64(10), got.Lines)
	assert.Equal(t, 2, got.Aircraft)
}

func TestHandleIndex(t *testing.T) {
	s := testServer()
	rec := httptest.NewRecorder()
	s.handleIndex(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	body := rec.Body.String()
	assert.Contains(t, body, "Recent Aircraft Alerts")
	assert.Contains(t, body, "AE0101")
	assert.Contains(t, body, "USAF")
	assert.Contains(t, body, "https://example.invalid/track")
}
