package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/nexts-consulting/fms-attendance/internal/domain/attendance"
	"github.com/nexts-consulting/fms-attendance/internal/domain/leave"
	"github.com/nexts-consulting/fms-attendance/internal/domain/location"
	"github.com/nexts-consulting/fms-attendance/internal/domain/shift"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/database"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/geofence"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/idempotency"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/jwt"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/validator"
)

// RetryAfterSeconds is advertised on 503 responses.
const RetryAfterSeconds = 2

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var outOfRange *attendance.OutOfRangeError
	if errors.As(err, &outOfRange) {
		Error(w, http.StatusForbidden, "OUT_OF_RANGE", outOfRange.Error(), map[string]string{
			"distance_meters": fmt.Sprintf("%.1f", outOfRange.DistanceMeters),
			"radius_meters":   fmt.Sprintf("%.1f", outOfRange.RadiusMeters),
		})
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, jwt.ErrInvalidClaims):
		Unauthorized(w, "Invalid token")

	// Attendance state errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		ConflictWithCode(w, "ALREADY_CHECKED_IN", err.Error())
	case errors.Is(err, attendance.ErrNotCheckedIn):
		ConflictWithCode(w, "NOT_CHECKED_IN", err.Error())
	case errors.Is(err, attendance.ErrAttendanceAlreadyClosed):
		ConflictWithCode(w, "ATTENDANCE_ALREADY_CLOSED", err.Error())
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance not found")

	// Leave errors
	case errors.Is(err, leave.ErrLeaveAlreadyActive):
		ConflictWithCode(w, "LEAVE_ALREADY_ACTIVE", err.Error())
	case errors.Is(err, leave.ErrNoOpenLeave):
		ConflictWithCode(w, "NO_OPEN_LEAVE", err.Error())
	case errors.Is(err, leave.ErrAttendanceNotOpen):
		ConflictWithCode(w, "ATTENDANCE_NOT_OPEN", err.Error())
	case errors.Is(err, leave.ErrLeaveAlreadyEnded):
		ConflictWithCode(w, "LEAVE_ALREADY_ENDED", err.Error())
	case errors.Is(err, leave.ErrLeaveRecordNotFound):
		NotFound(w, "Leave record not found")

	// Shift and location errors
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, shift.ErrLocationMismatch):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, location.ErrLocationNotFound):
		NotFound(w, "Location not found")
	case errors.Is(err, geofence.ErrInvalidRadius),
		errors.Is(err, geofence.ErrInvalidLatitude),
		errors.Is(err, geofence.ErrInvalidLongitude):
		Error(w, http.StatusUnprocessableEntity, "INVALID_GEOFENCE", err.Error(), nil)

	// Retried requests
	case errors.Is(err, idempotency.ErrInProgress):
		ConflictWithCode(w, "PROCESSING", err.Error())

	// Default
	case database.IsTransient(err):
		ServiceUnavailable(w, "Service temporarily unavailable, please retry")
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
