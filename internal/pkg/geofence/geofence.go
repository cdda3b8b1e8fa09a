package geofence

import (
	"errors"
	"math"
)

// EarthRadiusMeters is the mean Earth radius used for great-circle distance.
const EarthRadiusMeters = 6371000.0

var (
	ErrInvalidLatitude  = errors.New("latitude must be between -90 and 90")
	ErrInvalidLongitude = errors.New("longitude must be between -180 and 180")
	ErrInvalidRadius    = errors.New("radius must be greater than zero")
)

// Point is a GPS coordinate in decimal degrees.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks that the coordinate lies within the WGS84 ranges.
func (p Point) Validate() error {
	if math.IsNaN(p.Latitude) || p.Latitude < -90 || p.Latitude > 90 {
		return ErrInvalidLatitude
	}
	if math.IsNaN(p.Longitude) || p.Longitude < -180 || p.Longitude > 180 {
		return ErrInvalidLongitude
	}
	return nil
}

type Result struct {
	Inside         bool    `json:"inside"`
	DistanceMeters float64 `json:"distance_meters"`
}

// Distance returns the haversine distance between a and b in meters.
func Distance(a, b Point) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := toRadians(b.Latitude - a.Latitude)
	dLng := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	// Rounding can push h a hair past 1 for antipodal points.
	h = math.Min(1, h)

	return 2 * EarthRadiusMeters * math.Asin(math.Sqrt(h))
}

// IsWithinGeofence reports whether point lies inside the circle of radiusMeters
// around center. The boundary is inclusive.
func IsWithinGeofence(point, center Point, radiusMeters float64) (Result, error) {
	if err := point.Validate(); err != nil {
		return Result{}, err
	}
	if err := center.Validate(); err != nil {
		return Result{}, err
	}
	if math.IsNaN(radiusMeters) || radiusMeters <= 0 {
		return Result{}, ErrInvalidRadius
	}

	distance := Distance(point, center)
	return Result{
		Inside:         distance <= radiusMeters,
		DistanceMeters: distance,
	}, nil
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
