package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nexts-consulting/fms-attendance/internal/domain/attendance"
	"github.com/nexts-consulting/fms-attendance/internal/domain/leave"
	"github.com/nexts-consulting/fms-attendance/internal/domain/location"
	"github.com/nexts-consulting/fms-attendance/internal/domain/shift"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/clock"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/database"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/events"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/retry"
)

type AttendanceServiceImpl struct {
	tx database.Transactor
	attendance.AttendanceRepository
	leave.LeaveRepository
	location.LocationRepository
	shiftService shift.ShiftService
	publisher    events.Publisher
	retry        retry.Policy
	clock        clock.Clock
	logger       *slog.Logger
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.Attendance, error) {
	if err := req.Validate(); err != nil {
		return attendance.Attendance{}, err
	}

	window, err := s.resolveWindow(ctx, req)
	if err != nil {
		return attendance.Attendance{}, err
	}

	loc, err := s.LocationRepository.GetByID(ctx, window.LocationID)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("get location: %w", err)
	}
	if loc.ProjectID != req.ProjectID {
		return attendance.Attendance{}, location.ErrLocationNotFound
	}

	cfg, err := s.shiftService.ProjectConfig(ctx, req.ProjectID)
	if err != nil {
		return attendance.Attendance{}, err
	}

	point := req.Point()
	var created attendance.Attendance
	err = s.retry.Do(ctx, func(ctx context.Context) error {
		return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			open, err := s.AttendanceRepository.GetOpen(ctx, req.UserID, req.ProjectID)
			if err != nil {
				return fmt.Errorf("get open attendance: %w", err)
			}
			if open != nil {
				return attendance.ErrAlreadyCheckedIn
			}

			result, err := loc.Check(point)
			if err != nil {
				return fmt.Errorf("geofence check: %w", err)
			}
			if !result.Inside {
				return &attendance.OutOfRangeError{
					DistanceMeters: result.DistanceMeters,
					RadiusMeters:   loc.RadiusMeters,
				}
			}

			now := s.clock.Now()
			timing := attendance.TimingOnTime
			if window.Source != shift.SourceFlexible {
				timing = attendance.ClassifyTiming(now, window.Start, cfg.ToleranceMinutes)
			}

			lat, lng, photo, distance := point.Latitude, point.Longitude, req.PhotoRef, result.DistanceMeters
			created, err = s.AttendanceRepository.Create(ctx, attendance.Attendance{
				ID:                    uuid.NewString(),
				UserID:                req.UserID,
				ProjectID:             req.ProjectID,
				LocationID:            loc.ID,
				ShiftID:               window.ShiftID,
				ShiftSource:           window.Source,
				ShiftStart:            window.Start,
				ShiftEnd:              window.End,
				Status:                attendance.StatusCheckedIn,
				TimingStatus:          timing,
				CheckInTime:           &now,
				CheckInLatitude:       &lat,
				CheckInLongitude:      &lng,
				CheckInPhotoRef:       &photo,
				CheckInDistanceMeters: &distance,
			})
			if err != nil {
				return fmt.Errorf("create attendance: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return attendance.Attendance{}, err
	}

	s.logger.InfoContext(ctx, "attendance checked in",
		slog.String("attendance_id", created.ID),
		slog.String("user_id", created.UserID),
		slog.String("project_id", created.ProjectID),
		slog.String("shift_source", string(created.ShiftSource)),
		slog.String("timing_status", string(created.TimingStatus)),
	)
	s.publish(ctx, events.AttendanceCheckedIn, created)

	return created, nil
}

func (s *AttendanceServiceImpl) resolveWindow(ctx context.Context, req attendance.CheckInRequest) (shift.Window, error) {
	if req.ShiftID == nil {
		return s.shiftService.ResolveShiftForToday(ctx, req.UserID, req.LocationID)
	}

	window, err := s.shiftService.ResolveShiftByID(ctx, *req.ShiftID)
	if err != nil {
		return shift.Window{}, err
	}
	if window.ProjectID != req.ProjectID {
		return shift.Window{}, shift.ErrShiftNotFound
	}
	if window.LocationID != req.LocationID {
		return shift.Window{}, shift.ErrLocationMismatch
	}
	return window, nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.Attendance, error) {
	if err := req.Validate(); err != nil {
		return attendance.Attendance{}, err
	}

	point := req.Point()
	var closed attendance.Attendance
	var closedLeave *leave.LeaveRecord
	err := s.retry.Do(ctx, func(ctx context.Context) error {
		return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			current, err := s.findForCheckOut(ctx, req)
			if err != nil {
				return err
			}

			now := s.clock.Now()
			lat, lng, photo := point.Latitude, point.Longitude, req.PhotoRef

			// Close the attendance first: once it is no longer CHECKED_IN no new
			// leave can start, so the lookup below sees every leave there is.
			closed, err = s.AttendanceRepository.Close(ctx, current.ID, attendance.CheckOut{
				Status:    attendance.StatusCheckedOut,
				Time:      now,
				Latitude:  &lat,
				Longitude: &lng,
				PhotoRef:  &photo,
			})
			if err != nil {
				return fmt.Errorf("close attendance: %w", err)
			}

			closedLeave, err = s.closeOpenLeave(ctx, current.ID, leave.LeaveEnd{
				Time:      now,
				Latitude:  &lat,
				Longitude: &lng,
				PhotoRef:  &photo,
			})
			return err
		})
	})
	if err != nil {
		return attendance.Attendance{}, err
	}

	s.logger.InfoContext(ctx, "attendance checked out",
		slog.String("attendance_id", closed.ID),
		slog.String("user_id", closed.UserID),
		slog.Int("worked_minutes", closed.WorkedMinutes(*closed.CheckOutTime)),
	)
	if closedLeave != nil {
		s.publishLeaveEnded(ctx, *closedLeave)
	}
	s.publish(ctx, events.AttendanceCheckedOut, closed)

	return closed, nil
}

func (s *AttendanceServiceImpl) findForCheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.Attendance, error) {
	if req.AttendanceID == nil {
		open, err := s.AttendanceRepository.GetOpen(ctx, req.UserID, req.ProjectID)
		if err != nil {
			return attendance.Attendance{}, fmt.Errorf("get open attendance: %w", err)
		}
		if open == nil {
			return attendance.Attendance{}, attendance.ErrNotCheckedIn
		}
		return *open, nil
	}

	current, err := s.AttendanceRepository.GetByID(ctx, *req.AttendanceID)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if current.UserID != req.UserID || current.ProjectID != req.ProjectID {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	if current.Status.IsTerminal() {
		return attendance.Attendance{}, attendance.ErrAttendanceAlreadyClosed
	}
	return current, nil
}

// AutoCheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) AutoCheckOut(ctx context.Context, attendanceID string) (attendance.Attendance, error) {
	var closed attendance.Attendance
	var closedLeave *leave.LeaveRecord
	err := s.retry.Do(ctx, func(ctx context.Context) error {
		return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			current, err := s.AttendanceRepository.GetByID(ctx, attendanceID)
			if err != nil {
				return err
			}
			if current.Status.IsTerminal() {
				return attendance.ErrAttendanceAlreadyClosed
			}

			at := autoCheckOutTime(current, s.clock.Now())

			closed, err = s.AttendanceRepository.Close(ctx, current.ID, attendance.CheckOut{
				Status: attendance.StatusAutoCheckedOut,
				Time:   at,
			})
			if err != nil {
				return fmt.Errorf("close attendance: %w", err)
			}

			closedLeave, err = s.closeOpenLeave(ctx, current.ID, leave.LeaveEnd{Time: at})
			return err
		})
	})
	if err != nil {
		return attendance.Attendance{}, err
	}

	s.logger.InfoContext(ctx, "attendance auto checked out",
		slog.String("attendance_id", closed.ID),
		slog.String("user_id", closed.UserID),
		slog.Time("check_out_time", *closed.CheckOutTime),
	)
	if closedLeave != nil {
		s.publishLeaveEnded(ctx, *closedLeave)
	}
	s.publish(ctx, events.AttendanceAutoCheckedOut, closed)

	return closed, nil
}

// autoCheckOutTime is the shift end, or now when the shift has not ended yet,
// and never earlier than the check-in.
func autoCheckOutTime(a attendance.Attendance, now time.Time) time.Time {
	at := a.ShiftEnd
	if now.Before(at) {
		at = now
	}
	if a.CheckInTime != nil && at.Before(*a.CheckInTime) {
		at = *a.CheckInTime
	}
	return at
}

// closeOpenLeave returns nil when the attendance has no open leave. The end
// time is clamped so a leave never ends before it started.
func (s *AttendanceServiceImpl) closeOpenLeave(ctx context.Context, attendanceID string, end leave.LeaveEnd) (*leave.LeaveRecord, error) {
	open, err := s.LeaveRepository.GetOpenByAttendance(ctx, attendanceID)
	if err != nil {
		return nil, fmt.Errorf("get open leave: %w", err)
	}
	if open == nil {
		return nil, nil
	}
	if end.Time.Before(open.StartTime) {
		end.Time = open.StartTime
	}

	closed, err := s.LeaveRepository.Close(ctx, open.ID, end)
	if errors.Is(err, leave.ErrLeaveAlreadyEnded) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("close open leave: %w", err)
	}
	return &closed, nil
}

// MarkAbsent implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkAbsent(ctx context.Context, assigned shift.AssignedShift) (attendance.Attendance, bool, error) {
	sh := assigned.Shift
	var created attendance.Attendance
	var wrote bool
	err := s.retry.Do(ctx, func(ctx context.Context) error {
		return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			exists, err := s.AttendanceRepository.HasAttendanceForShift(ctx, assigned.UserID, sh.ID, sh.StartTime, sh.EndTime)
			if err != nil {
				return fmt.Errorf("check existing attendance: %w", err)
			}
			if exists {
				wrote = false
				return nil
			}

			shiftID := sh.ID
			created, err = s.AttendanceRepository.Create(ctx, attendance.Attendance{
				ID:           uuid.NewString(),
				UserID:       assigned.UserID,
				ProjectID:    sh.ProjectID,
				LocationID:   sh.LocationID,
				ShiftID:      &shiftID,
				ShiftSource:  shift.SourceAssigned,
				ShiftStart:   sh.StartTime,
				ShiftEnd:     sh.EndTime,
				Status:       attendance.StatusAutoCheckedOut,
				TimingStatus: attendance.TimingAbsent,
			})
			if err != nil {
				return fmt.Errorf("create absence: %w", err)
			}
			wrote = true
			return nil
		})
	})
	if err != nil {
		return attendance.Attendance{}, false, err
	}
	if !wrote {
		return attendance.Attendance{}, false, nil
	}

	s.logger.InfoContext(ctx, "attendance marked absent",
		slog.String("attendance_id", created.ID),
		slog.String("user_id", created.UserID),
		slog.String("shift_id", sh.ID),
	)
	s.publish(ctx, events.AttendanceMarkedAbsent, created)

	return created, true, nil
}

// GetOpenAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetOpenAttendance(ctx context.Context, userID, projectID string) (*attendance.Attendance, error) {
	open, err := s.AttendanceRepository.GetOpen(ctx, userID, projectID)
	if err != nil {
		return nil, fmt.Errorf("get open attendance: %w", err)
	}
	return open, nil
}

// GetAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendance(ctx context.Context, userID, id string) (attendance.Attendance, error) {
	a, err := s.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if a.UserID != userID {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

// ListAttendances implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendances(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResult, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResult{}, err
	}

	cfg, err := s.shiftService.ProjectConfig(ctx, filter.ProjectID)
	if err != nil {
		return attendance.ListAttendanceResult{}, err
	}
	filter.ApplyDateRange(cfg.Location())

	items, total, err := s.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResult{}, fmt.Errorf("list attendances: %w", err)
	}

	return attendance.ListAttendanceResult{
		Attendances: items,
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
	}, nil
}

// publish never fails the transition; a lost event is logged.
func (s *AttendanceServiceImpl) publish(ctx context.Context, eventType string, a attendance.Attendance) {
	err := s.publisher.Publish(ctx, events.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Key:        a.UserID,
		OccurredAt: s.clock.Now(),
		Payload:    attendance.NewAttendanceResponse(a, s.clock.Now()),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to publish attendance event",
			slog.String("event_type", eventType),
			slog.String("attendance_id", a.ID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *AttendanceServiceImpl) publishLeaveEnded(ctx context.Context, l leave.LeaveRecord) {
	err := s.publisher.Publish(ctx, events.Event{
		ID:         uuid.NewString(),
		Type:       events.LeaveEnded,
		Key:        l.AttendanceID,
		OccurredAt: s.clock.Now(),
		Payload:    leave.NewLeaveRecordResponse(l, s.clock.Now()),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to publish leave event",
			slog.String("leave_record_id", l.ID),
			slog.String("error", err.Error()),
		)
	}
}

// DefaultRetryPolicy retries transient storage failures three times, 200ms apart.
func DefaultRetryPolicy() retry.Policy {
	return retry.Policy{Attempts: 3, Delay: 200 * time.Millisecond, Retryable: database.IsTransient}
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	leaveRepo leave.LeaveRepository,
	locationRepo location.LocationRepository,
	shiftService shift.ShiftService,
	publisher events.Publisher,
	policy retry.Policy,
	clk clock.Clock,
	logger *slog.Logger,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:                   tx,
		AttendanceRepository: attendanceRepo,
		LeaveRepository:      leaveRepo,
		LocationRepository:   locationRepo,
		shiftService:         shiftService,
		publisher:            publisher,
		retry:                policy,
		clock:                clk,
		logger:               logger,
	}
}
