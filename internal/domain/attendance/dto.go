package attendance

import (
	"strings"
	"time"

	"github.com/nexts-consulting/fms-attendance/internal/domain/shift"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/geofence"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/validator"
)

// ========================================
// REQUESTS
// ========================================

type CheckInRequest struct {
	UserID     string   `json:"-" validate:"required"`
	ProjectID  string   `json:"-" validate:"required"`
	LocationID string   `json:"location_id" validate:"required"`
	ShiftID    *string  `json:"shift_id,omitempty" validate:"omitempty,min=1"`
	Latitude   *float64 `json:"latitude" validate:"required,latitude"`
	Longitude  *float64 `json:"longitude" validate:"required,longitude"`
	PhotoRef   string   `json:"photo_ref" validate:"required,max=1024"`
}

func (r CheckInRequest) Validate() error {
	return validator.Struct(r)
}

func (r CheckInRequest) Point() geofence.Point {
	return pointOf(r.Latitude, r.Longitude)
}

type CheckOutRequest struct {
	UserID       string   `json:"-" validate:"required"`
	ProjectID    string   `json:"-" validate:"required"`
	AttendanceID *string  `json:"attendance_id,omitempty" validate:"omitempty,min=1"`
	Latitude     *float64 `json:"latitude" validate:"required,latitude"`
	Longitude    *float64 `json:"longitude" validate:"required,longitude"`
	PhotoRef     string   `json:"photo_ref" validate:"required,max=1024"`
}

func (r CheckOutRequest) Validate() error {
	return validator.Struct(r)
}

func (r CheckOutRequest) Point() geofence.Point {
	return pointOf(r.Latitude, r.Longitude)
}

func pointOf(lat, lng *float64) geofence.Point {
	var p geofence.Point
	if lat != nil {
		p.Latitude = *lat
	}
	if lng != nil {
		p.Longitude = *lng
	}
	return p
}

type AttendanceFilter struct {
	UserID    string  `json:"-"`
	ProjectID string  `json:"-"`
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status    *string `json:"status,omitempty"`

	// Set by the service from StartDate/EndDate in the project timezone.
	From *time.Time `json:"-"`
	To   *time.Time `json:"-"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // check_in_time, shift_start, status
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Status != nil && !Status(*f.Status).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: CHECKED_IN, CHECKED_OUT, AUTO_CHECKED_OUT",
		})
	}

	var start, end time.Time
	var hasStart, hasEnd bool
	if f.StartDate != nil && *f.StartDate != "" {
		if start, hasStart = validator.IsValidDate(*f.StartDate); !hasStart {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if f.EndDate != nil && *f.EndDate != "" {
		if end, hasEnd = validator.IsValidDate(*f.EndDate); !hasEnd {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}
	if hasStart && hasEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if f.SortBy != "" {
		validSortFields := []string{"check_in_time", "shift_start", "status"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: check_in_time, shift_start, status",
			})
		}
	} else {
		f.SortBy = "shift_start"
	}

	if f.SortOrder != "" {
		f.SortOrder = strings.ToLower(f.SortOrder)
		if !validator.IsInSlice(f.SortOrder, []string{"asc", "desc"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "desc"
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ApplyDateRange converts StartDate/EndDate into the half-open instant range
// [From, To) using loc for day boundaries.
func (f *AttendanceFilter) ApplyDateRange(loc *time.Location) {
	if f.StartDate != nil && *f.StartDate != "" {
		if d, ok := validator.IsValidDate(*f.StartDate); ok {
			from := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
			f.From = &from
		}
	}
	if f.EndDate != nil && *f.EndDate != "" {
		if d, ok := validator.IsValidDate(*f.EndDate); ok {
			to := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
			f.To = &to
		}
	}
}

type ListAttendanceResult struct {
	Attendances []Attendance
	TotalCount  int64
	Page        int
	Limit       int
}

func (r ListAttendanceResult) TotalPages() int {
	if r.Limit <= 0 {
		return 0
	}
	return int((r.TotalCount + int64(r.Limit) - 1) / int64(r.Limit))
}

// ========================================
// RESPONSES
// ========================================

type AttendanceResponse struct {
	ID                    string       `json:"id"`
	UserID                string       `json:"user_id"`
	ProjectID             string       `json:"project_id"`
	LocationID            string       `json:"location_id"`
	ShiftID               *string      `json:"shift_id"`
	ShiftSource           shift.Source `json:"shift_source"`
	ShiftStart            time.Time    `json:"shift_start"`
	ShiftEnd              time.Time    `json:"shift_end"`
	Status                Status       `json:"status"`
	TimingStatus          TimingStatus `json:"timing_status"`
	CheckInTime           *time.Time   `json:"check_in_time"`
	CheckInLatitude       *float64     `json:"check_in_latitude"`
	CheckInLongitude      *float64     `json:"check_in_longitude"`
	CheckInPhotoRef       *string      `json:"check_in_photo_ref"`
	CheckInDistanceMeters *float64     `json:"check_in_distance_meters,omitempty"`
	CheckOutTime          *time.Time   `json:"check_out_time"`
	CheckOutLatitude      *float64     `json:"check_out_latitude"`
	CheckOutLongitude     *float64     `json:"check_out_longitude"`
	CheckOutPhotoRef      *string      `json:"check_out_photo_ref"`
	WorkedMinutes         int          `json:"worked_minutes"`
	CreatedAt             time.Time    `json:"created_at"`
	UpdatedAt             time.Time    `json:"updated_at"`
}

func NewAttendanceResponse(a Attendance, now time.Time) AttendanceResponse {
	return AttendanceResponse{
		ID:                    a.ID,
		UserID:                a.UserID,
		ProjectID:             a.ProjectID,
		LocationID:            a.LocationID,
		ShiftID:               a.ShiftID,
		ShiftSource:           a.ShiftSource,
		ShiftStart:            a.ShiftStart,
		ShiftEnd:              a.ShiftEnd,
		Status:                a.Status,
		TimingStatus:          a.TimingStatus,
		CheckInTime:           a.CheckInTime,
		CheckInLatitude:       a.CheckInLatitude,
		CheckInLongitude:      a.CheckInLongitude,
		CheckInPhotoRef:       a.CheckInPhotoRef,
		CheckInDistanceMeters: a.CheckInDistanceMeters,
		CheckOutTime:          a.CheckOutTime,
		CheckOutLatitude:      a.CheckOutLatitude,
		CheckOutLongitude:     a.CheckOutLongitude,
		CheckOutPhotoRef:      a.CheckOutPhotoRef,
		WorkedMinutes:         a.WorkedMinutes(now),
		CreatedAt:             a.CreatedAt,
		UpdatedAt:             a.UpdatedAt,
	}
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"attendances"`
}

func NewListAttendanceResponse(r ListAttendanceResult, now time.Time) ListAttendanceResponse {
	items := make([]AttendanceResponse, 0, len(r.Attendances))
	for _, a := range r.Attendances {
		items = append(items, NewAttendanceResponse(a, now))
	}
	return ListAttendanceResponse{
		TotalCount:  r.TotalCount,
		Page:        r.Page,
		Limit:       r.Limit,
		TotalPages:  r.TotalPages(),
		Attendances: items,
	}
}
