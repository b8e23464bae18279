// Package geo holds the coordinate type shared by the server and the client
// and the great-circle distance used to score guesses.
package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// EarthRadiusKm is the mean Earth radius used for all distances.
const EarthRadiusKm = 6371.0

var (
	ErrLongitudeRange = errors.New("longitude must be within [-180, 180]")
	ErrLatitudeRange  = errors.New("latitude must be within [-90, 90]")
)

// Coordinate is a point on the Earth's surface in degrees.
type Coordinate struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// Validate rejects out-of-range and non-finite values. Nothing is clamped.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lng) || c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("lng %v: %w", c.Lng, ErrLongitudeRange)
	}
	if math.IsNaN(c.Lat) || c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("lat %v: %w", c.Lat, ErrLatitudeRange)
	}
	return nil
}

// FromPoint converts an orb point ([lng, lat]) into a Coordinate.
func FromPoint(p orb.Point) Coordinate {
	return Coordinate{Lng: p.Lon(), Lat: p.Lat()}
}

// DistanceKm returns the haversine distance between a and b in kilometers.
func DistanceKm(a, b Coordinate) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLng*sinLng

	// Rounding can push sqrt(h) just past 1 for antipodal points.
	return 2 * EarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
