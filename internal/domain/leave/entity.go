package leave

import (
	"time"
)

type LeaveType string

const (
	TypeBreak      LeaveType = "BREAK"
	TypeMeal       LeaveType = "MEAL"
	TypePersonal   LeaveType = "PERSONAL"
	TypeWorkErrand LeaveType = "WORK_ERRAND"
	TypeOther      LeaveType = "OTHER"
)

func (t LeaveType) IsValid() bool {
	switch t {
	case TypeBreak, TypeMeal, TypePersonal, TypeWorkErrand, TypeOther:
		return true
	}
	return false
}

// LeaveRecord is a temporary departure inside an open attendance. EndTime is
// nil while the leave is open. Records are never deleted.
type LeaveRecord struct {
	ID           string
	AttendanceID string
	LeaveType    LeaveType
	Note         *string

	StartTime      time.Time
	StartLatitude  float64
	StartLongitude float64
	StartPhotoRef  string

	EndTime      *time.Time
	EndLatitude  *float64
	EndLongitude *float64
	EndPhotoRef  *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (l LeaveRecord) IsOpen() bool {
	return l.EndTime == nil
}

// Duration is live for an open leave and frozen at EndTime once closed.
func (l LeaveRecord) Duration(now time.Time) time.Duration {
	if l.EndTime != nil {
		return Elapsed(*l.EndTime, l.StartTime)
	}
	return Elapsed(now, l.StartTime)
}

// LeaveEnd carries the fields written when a leave is closed.
type LeaveEnd struct {
	Time      time.Time
	Latitude  *float64
	Longitude *float64
	PhotoRef  *string
}
