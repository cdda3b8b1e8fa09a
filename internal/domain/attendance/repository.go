package attendance

import (
	"context"
	"time"
)

//go:generate mockgen -source=repository.go -destination=mock/repository_mock.go -package=mock

// AttendanceRepository persists attendance records. Implementations enforce
// the one-open-attendance-per-(user, project) rule themselves.
type AttendanceRepository interface {
	// Create inserts a record. It returns ErrAlreadyCheckedIn when a
	// CHECKED_IN record already exists for the same user and project.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetOpen returns nil, nil when the user has no open attendance.
	GetOpen(ctx context.Context, userID, projectID string) (*Attendance, error)

	// Close applies a check-out only if the record is still CHECKED_IN and
	// returns ErrAttendanceAlreadyClosed otherwise.
	Close(ctx context.Context, id string, checkOut CheckOut) (Attendance, error)

	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)

	// ListOpenEndedBefore returns open attendances whose shift ended before
	// cutoff, oldest shift end first.
	ListOpenEndedBefore(ctx context.Context, cutoff time.Time, limit int) ([]Attendance, error)

	// HasAttendanceForShift reports whether the user has any record tied to
	// the shift id or, for records without one, overlapping [start, end).
	HasAttendanceForShift(ctx context.Context, userID, shiftID string, start, end time.Time) (bool, error)
}
