package leave

import "errors"

var (
	ErrLeaveAlreadyActive  = errors.New("a leave is already in progress for this attendance")
	ErrNoOpenLeave         = errors.New("there is no open leave to end")
	ErrAttendanceNotOpen   = errors.New("attendance is not checked in")
	ErrLeaveRecordNotFound = errors.New("leave record not found")
	ErrLeaveAlreadyEnded   = errors.New("leave record has already ended")
)
