package leave

import (
	"time"

	"github.com/nexts-consulting/fms-attendance/internal/pkg/validator"
)

type StartLeaveRequest struct {
	UserID       string   `json:"-" validate:"required"`
	AttendanceID string   `json:"-" validate:"required"`
	LeaveType    string   `json:"leave_type" validate:"required,oneof=BREAK MEAL PERSONAL WORK_ERRAND OTHER"`
	Note         *string  `json:"note,omitempty" validate:"omitempty,max=500"`
	Latitude     *float64 `json:"latitude" validate:"required,latitude"`
	Longitude    *float64 `json:"longitude" validate:"required,longitude"`
	PhotoRef     string   `json:"photo_ref" validate:"required,max=1024"`
}

func (r StartLeaveRequest) Validate() error {
	return validator.Struct(r)
}

type EndLeaveRequest struct {
	UserID        string   `json:"-" validate:"required"`
	LeaveRecordID string   `json:"-" validate:"required"`
	Latitude      *float64 `json:"latitude" validate:"required,latitude"`
	Longitude     *float64 `json:"longitude" validate:"required,longitude"`
	PhotoRef      string   `json:"photo_ref" validate:"required,max=1024"`
}

func (r EndLeaveRequest) Validate() error {
	return validator.Struct(r)
}

type EndOpenLeaveRequest struct {
	UserID       string   `json:"-" validate:"required"`
	AttendanceID string   `json:"-" validate:"required"`
	Latitude     *float64 `json:"latitude" validate:"required,latitude"`
	Longitude    *float64 `json:"longitude" validate:"required,longitude"`
	PhotoRef     string   `json:"photo_ref" validate:"required,max=1024"`
}

func (r EndOpenLeaveRequest) Validate() error {
	return validator.Struct(r)
}

type LeaveRecordResponse struct {
	ID              string     `json:"id"`
	AttendanceID    string     `json:"attendance_id"`
	LeaveType       LeaveType  `json:"leave_type"`
	Note            *string    `json:"note"`
	StartTime       time.Time  `json:"start_time"`
	StartLatitude   float64    `json:"start_latitude"`
	StartLongitude  float64    `json:"start_longitude"`
	StartPhotoRef   string     `json:"start_photo_ref"`
	EndTime         *time.Time `json:"end_time"`
	EndLatitude     *float64   `json:"end_latitude"`
	EndLongitude    *float64   `json:"end_longitude"`
	EndPhotoRef     *string    `json:"end_photo_ref"`
	IsOpen          bool       `json:"is_open"`
	DurationSeconds int64      `json:"duration_seconds"`
	DurationText    string     `json:"duration_text"`
}

func NewLeaveRecordResponse(l LeaveRecord, now time.Time) LeaveRecordResponse {
	d := l.Duration(now)
	return LeaveRecordResponse{
		ID:              l.ID,
		AttendanceID:    l.AttendanceID,
		LeaveType:       l.LeaveType,
		Note:            l.Note,
		StartTime:       l.StartTime,
		StartLatitude:   l.StartLatitude,
		StartLongitude:  l.StartLongitude,
		StartPhotoRef:   l.StartPhotoRef,
		EndTime:         l.EndTime,
		EndLatitude:     l.EndLatitude,
		EndLongitude:    l.EndLongitude,
		EndPhotoRef:     l.EndPhotoRef,
		IsOpen:          l.IsOpen(),
		DurationSeconds: int64(d / time.Second),
		DurationText:    FormatDuration(d),
	}
}

func NewLeaveRecordResponses(records []LeaveRecord, now time.Time) []LeaveRecordResponse {
	out := make([]LeaveRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, NewLeaveRecordResponse(r, now))
	}
	return out
}
