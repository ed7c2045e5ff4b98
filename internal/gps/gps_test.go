package gps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGGA(t *testing.T) {
	fix, ok := ParseGGA("$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47")
	require.True(t, ok)
	assert.InDelta(t, 48.1173, fix.Lat, 0.0001)
	assert.InDelta(t, 11.5167, fix.Lon, 0.0001)
}

func TestParseGGASouthWest(t *testing.T) {
	fix, ok := ParseGGA("$GNGGA,020000,3350.000,S,15110.000,W,1,10,0.8,10.0,M,0.0,M,,*00")
	require.True(t, ok)
	assert.InDelta(t, -33.8333, fix.Lat, 0.0001)
	assert.InDelta(t, -151.1667, fix.Lon, 0.0001)
}

func TestParseGGARejects(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"wrong sentence type", "$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6A"},
		{"no fix", "$GPGGA,123519,4807.038,N,01131.000,E,0,00,,,M,,M,,*00"},
		{"empty quality", "$GPGGA,123519,4807.038,N,01131.000,E,,,,,M,,M,,"},
		{"bad latitude", "$GPGGA,123519,xx07.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,"},
		{"bad hemisphere", "$GPGGA,123519,4807.038,Q,01131.000,E,1,08,0.9,545.4,M,46.9,M,,"},
		{"truncated", "$GPGGA,123519,4807.038"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ParseGGA(tt.line)
			assert.False(t, ok)
		})
	}
}

func TestParseCoordDegreeSplit(t *testing.T) {
	// Latitude uses two degree digits, longitude three.
	lat, ok := parseCoord("0702.500", "N", 2)
	require.True(t, ok)
	assert.InDelta(t, 7.0417, lat, 0.0001)

	lon, ok := parseCoord("00702.500", "E", 3)
	require.True(t, ok)
	assert.InDelta(t, 7.0417, lon, 0.0001)
}
