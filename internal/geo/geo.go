// Package geo computes great-circle distance and bearing between the
// observer and an aircraft, on a spherical Earth model.
package geo

import (
	"math"
	"sync"
)

// earthRadiusMiles is the mean Earth radius in statute miles.
const earthRadiusMiles = 3958.8

// cardinals are the 16 compass points, 22.5 degrees apart, starting at
// north and proceeding clockwise.
var cardinals = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// Point is a coordinate pair in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// DistanceAndBearing returns the great-circle distance in statute
// miles from origin to pt, the initial bearing of that path in whole
// degrees within [0, 360), and the nearest of the 16 compass points.
// Pure and deterministic for identical inputs.
func DistanceAndBearing(origin, pt Point) (miles float64, bearingDeg int, cardinal string) {
	lat1 := radians(origin.Lat)
	lon1 := radians(origin.Lon)
	lat2 := radians(pt.Lat)
	lon2 := radians(pt.Lon)

	// Haversine distance.
	dLat := lat2 - lat1
	dLon := lon2 - lon1
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	miles = earthRadiusMiles * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	// Forward azimuth.
	x := math.Sin(dLon) * math.Cos(lat2)
	y := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	bearing := math.Mod(degrees(math.Atan2(x, y))+360, 360)

	bearingDeg = int(bearing)
	cardinal = Cardinal(bearing)
	return miles, bearingDeg, cardinal
}

// Cardinal maps a bearing in degrees to the nearest compass point.
// Each point owns a 22.5 degree sector centred on it, so 348.75 up to
// 11.25 is "N".
func Cardinal(bearing float64) string {
	ix := int(math.Round(bearing/22.5)) % 16
	if ix < 0 {
		ix += 16
	}
	return cardinals[ix]
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
func degrees(rad float64) float64 { return rad * 180 / math.Pi }

// Origin holds the observer's current best-known coordinate. Reads and
// writes go through one mutex so a reader can never combine an old
// latitude with a new longitude.
type Origin struct {
	mu sync.Mutex
	pt Point
}

// NewOrigin creates an origin at the configured fallback coordinate.
func NewOrigin(lat, lon float64) *Origin {
	return &Origin{pt: Point{Lat: lat, Lon: lon}}
}

// Set replaces the coordinate pair atomically.
func (o *Origin) Set(lat, lon float64) {
	o.mu.Lock()
	o.pt = Point{Lat: lat, Lon: lon}
	o.mu.Unlock()
}

// Get returns the current coordinate pair as a single consistent read.
func (o *Origin) Get() Point {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.pt
}
