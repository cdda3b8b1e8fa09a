package attendance

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyCheckedIn        = errors.New("you already have an open attendance in this project")
	ErrNotCheckedIn            = errors.New("you have not checked in yet")
	ErrAttendanceAlreadyClosed = errors.New("attendance has already been closed")
	ErrAttendanceNotFound      = errors.New("attendance record not found")
	ErrOutOfRange              = errors.New("you are outside the allowed check-in radius")
)

// OutOfRangeError is returned when a check-in falls outside the geofence. It
// matches ErrOutOfRange with errors.Is.
type OutOfRangeError struct {
	DistanceMeters float64
	RadiusMeters   float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("you are %.0fm away, check-in radius is %.0fm", e.DistanceMeters, e.RadiusMeters)
}

func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}
