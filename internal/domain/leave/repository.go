package leave

import "context"

//go:generate mockgen -source=repository.go -destination=mock/repository_mock.go -package=mock

// LeaveRepository persists leave records. Implementations enforce at most one
// open record per attendance.
type LeaveRepository interface {
	// Create returns ErrLeaveAlreadyActive when the attendance already has
	// an open record.
	Create(ctx context.Context, record LeaveRecord) (LeaveRecord, error)

	GetByID(ctx context.Context, id string) (LeaveRecord, error)

	// GetOpenByAttendance returns nil, nil when no leave is open.
	GetOpenByAttendance(ctx context.Context, attendanceID string) (*LeaveRecord, error)

	// Close sets the end fields only if the record is still open and returns
	// ErrLeaveAlreadyEnded otherwise.
	Close(ctx context.Context, id string, end LeaveEnd) (LeaveRecord, error)

	ListByAttendance(ctx context.Context, attendanceID string) ([]LeaveRecord, error)

	ListByAttendances(ctx context.Context, attendanceIDs []string) (map[string][]LeaveRecord, error)
}
