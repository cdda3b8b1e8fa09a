package location

import (
	"time"

	"github.com/nexts-consulting/fms-attendance/internal/pkg/geofence"
)

// Location is location-master data. The engine only reads it.
type Location struct {
	ID           string
	ProjectID    string
	Name         string
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (l Location) Center() geofence.Point {
	return geofence.Point{Latitude: l.Latitude, Longitude: l.Longitude}
}

// Check reports whether point lies inside the location's check-in radius.
func (l Location) Check(point geofence.Point) (geofence.Result, error) {
	return geofence.IsWithinGeofence(point, l.Center(), l.RadiusMeters)
}
