package attendance

import (
	"time"

	"github.com/nexts-consulting/fms-attendance/internal/domain/shift"
)

type Status string

const (
	StatusCheckedIn      Status = "CHECKED_IN"
	StatusCheckedOut     Status = "CHECKED_OUT"
	StatusAutoCheckedOut Status = "AUTO_CHECKED_OUT"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusCheckedIn, StatusCheckedOut, StatusAutoCheckedOut:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed from s.
func (s Status) IsTerminal() bool {
	return s == StatusCheckedOut || s == StatusAutoCheckedOut
}

type TimingStatus string

const (
	TimingOnTime TimingStatus = "ON_TIME"
	TimingLate   TimingStatus = "LATE"
	TimingEarly  TimingStatus = "EARLY"
	TimingAbsent TimingStatus = "ABSENT"
)

// Attendance is one check-in to check-out lifecycle. Records are never deleted.
// CheckInTime is nil only for absence records written by the absence sweep.
type Attendance struct {
	ID           string
	UserID       string
	ProjectID    string
	LocationID   string
	ShiftID      *string
	ShiftSource  shift.Source
	ShiftStart   time.Time
	ShiftEnd     time.Time
	Status       Status
	TimingStatus TimingStatus

	CheckInTime           *time.Time
	CheckInLatitude       *float64
	CheckInLongitude      *float64
	CheckInPhotoRef       *string
	CheckInDistanceMeters *float64

	CheckOutTime      *time.Time
	CheckOutLatitude  *float64
	CheckOutLongitude *float64
	CheckOutPhotoRef  *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a Attendance) IsOpen() bool {
	return a.Status == StatusCheckedIn
}

// WorkedMinutes returns whole minutes between check-in and check-out, or now
// while the attendance is still open.
func (a Attendance) WorkedMinutes(now time.Time) int {
	if a.CheckInTime == nil {
		return 0
	}
	end := now
	if a.CheckOutTime != nil {
		end = *a.CheckOutTime
	}
	d := end.Sub(*a.CheckInTime)
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}

// CheckOut carries the fields written when an attendance is closed.
type CheckOut struct {
	Status    Status
	Time      time.Time
	Latitude  *float64
	Longitude *float64
	PhotoRef  *string
}
