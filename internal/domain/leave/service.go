package leave

import (
	"context"
)

// LeaveService tracks temporary leaves inside an open attendance.
type LeaveService interface {
	StartLeave(ctx context.Context, req StartLeaveRequest) (LeaveRecord, error)

	// EndLeave closes the record. Replaying it against a closed record
	// returns the stored record unchanged.
	EndLeave(ctx context.Context, req EndLeaveRequest) (LeaveRecord, error)

	// EndOpenLeave closes whichever leave is open on the attendance.
	EndOpenLeave(ctx context.Context, req EndOpenLeaveRequest) (LeaveRecord, error)

	ListLeaves(ctx context.Context, userID, attendanceID string) ([]LeaveRecord, error)
}

