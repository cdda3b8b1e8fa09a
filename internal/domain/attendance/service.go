package attendance

import (
	"context"

	"github.com/nexts-consulting/fms-attendance/internal/domain/shift"
)

// AttendanceService drives the check-in / check-out state machine.
type AttendanceService interface {
	// CheckIn opens an attendance after shift resolution and the geofence check.
	CheckIn(ctx context.Context, req CheckInRequest) (Attendance, error)

	// CheckOut closes the caller's attendance. It is not geofence-gated.
	CheckOut(ctx context.Context, req CheckOutRequest) (Attendance, error)

	// AutoCheckOut force-closes an attendance whose shift has elapsed.
	AutoCheckOut(ctx context.Context, attendanceID string) (Attendance, error)

	// MarkAbsent records an absence for an assigned shift nobody checked in
	// to. created is false when an attendance for the shift already exists.
	MarkAbsent(ctx context.Context, assigned shift.AssignedShift) (a Attendance, created bool, err error)

	GetOpenAttendance(ctx context.Context, userID, projectID string) (*Attendance, error)

	GetAttendance(ctx context.Context, userID, id string) (Attendance, error)

	ListAttendances(ctx context.Context, filter AttendanceFilter) (ListAttendanceResult, error)
}
