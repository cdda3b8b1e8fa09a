package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nexts-consulting/fms-attendance/internal/domain/attendance"
	"github.com/nexts-consulting/fms-attendance/internal/domain/leave"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/clock"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/database"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/events"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/retry"
)

type LeaveServiceImpl struct {
	tx database.Transactor
	leave.LeaveRepository
	attendance.AttendanceRepository
	publisher events.Publisher
	retry     retry.Policy
	clock     clock.Clock
	logger    *slog.Logger
}

// StartLeave implements leave.LeaveService.
func (s *LeaveServiceImpl) StartLeave(ctx context.Context, req leave.StartLeaveRequest) (leave.LeaveRecord, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRecord{}, err
	}

	var created leave.LeaveRecord
	err := s.retry.Do(ctx, func(ctx context.Context) error {
		return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			parent, err := s.ownedAttendance(ctx, req.UserID, req.AttendanceID)
			if err != nil {
				return err
			}
			if !parent.IsOpen() {
				return leave.ErrAttendanceNotOpen
			}

			open, err := s.LeaveRepository.GetOpenByAttendance(ctx, parent.ID)
			if err != nil {
				return fmt.Errorf("get open leave: %w", err)
			}
			if open != nil {
				return leave.ErrLeaveAlreadyActive
			}

			created, err = s.LeaveRepository.Create(ctx, leave.LeaveRecord{
				ID:             uuid.NewString(),
				AttendanceID:   parent.ID,
				LeaveType:      leave.LeaveType(req.LeaveType),
				Note:           req.Note,
				StartTime:      s.clock.Now(),
				StartLatitude:  *req.Latitude,
				StartLongitude: *req.Longitude,
				StartPhotoRef:  req.PhotoRef,
			})
			if err != nil {
				return fmt.Errorf("create leave record: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return leave.LeaveRecord{}, err
	}

	s.logger.InfoContext(ctx, "leave started",
		slog.String("leave_record_id", created.ID),
		slog.String("attendance_id", created.AttendanceID),
		slog.String("leave_type", string(created.LeaveType)),
	)
	s.publish(ctx, events.LeaveStarted, created)

	return created, nil
}

// EndLeave implements leave.LeaveService.
func (s *LeaveServiceImpl) EndLeave(ctx context.Context, req leave.EndLeaveRequest) (leave.LeaveRecord, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRecord{}, err
	}

	var ended leave.LeaveRecord
	var replayed bool
	err := s.retry.Do(ctx, func(ctx context.Context) error {
		return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			record, err := s.LeaveRepository.GetByID(ctx, req.LeaveRecordID)
			if errors.Is(err, leave.ErrLeaveRecordNotFound) {
				return leave.ErrNoOpenLeave
			}
			if err != nil {
				return fmt.Errorf("get leave record: %w", err)
			}
			if _, err := s.ownedAttendance(ctx, req.UserID, record.AttendanceID); err != nil {
				if errors.Is(err, attendance.ErrAttendanceNotFound) {
					return leave.ErrNoOpenLeave
				}
				return err
			}

			if !record.IsOpen() {
				ended, replayed = record, true
				return nil
			}

			ended, replayed, err = s.close(ctx, record, req.Latitude, req.Longitude, req.PhotoRef)
			return err
		})
	})
	if err != nil {
		return leave.LeaveRecord{}, err
	}

	if replayed {
		s.logger.DebugContext(ctx, "end leave replayed on closed record",
			slog.String("leave_record_id", ended.ID),
		)
		return ended, nil
	}

	s.logEnded(ctx, ended)
	s.publish(ctx, events.LeaveEnded, ended)

	return ended, nil
}

// EndOpenLeave implements leave.LeaveService.
func (s *LeaveServiceImpl) EndOpenLeave(ctx context.Context, req leave.EndOpenLeaveRequest) (leave.LeaveRecord, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRecord{}, err
	}

	var ended leave.LeaveRecord
	var replayed bool
	err := s.retry.Do(ctx, func(ctx context.Context) error {
		return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			parent, err := s.ownedAttendance(ctx, req.UserID, req.AttendanceID)
			if err != nil {
				return err
			}

			open, err := s.LeaveRepository.GetOpenByAttendance(ctx, parent.ID)
			if err != nil {
				return fmt.Errorf("get open leave: %w", err)
			}
			if open == nil {
				return leave.ErrNoOpenLeave
			}

			ended, replayed, err = s.close(ctx, *open, req.Latitude, req.Longitude, req.PhotoRef)
			return err
		})
	})
	if err != nil {
		return leave.LeaveRecord{}, err
	}
	if replayed {
		return ended, nil
	}

	s.logEnded(ctx, ended)
	s.publish(ctx, events.LeaveEnded, ended)

	return ended, nil
}

// close ends record. A concurrent close that won the race is reported as a
// replay of the stored record.
func (s *LeaveServiceImpl) close(ctx context.Context, record leave.LeaveRecord, lat, lng *float64, photoRef string) (leave.LeaveRecord, bool, error) {
	end := s.clock.Now()
	if end.Before(record.StartTime) {
		end = record.StartTime
	}

	closed, err := s.LeaveRepository.Close(ctx, record.ID, leave.LeaveEnd{
		Time:      end,
		Latitude:  lat,
		Longitude: lng,
		PhotoRef:  &photoRef,
	})
	if errors.Is(err, leave.ErrLeaveAlreadyEnded) {
		stored, err := s.LeaveRepository.GetByID(ctx, record.ID)
		if err != nil {
			return leave.LeaveRecord{}, false, fmt.Errorf("reload leave record: %w", err)
		}
		return stored, true, nil
	}
	if err != nil {
		return leave.LeaveRecord{}, false, fmt.Errorf("close leave record: %w", err)
	}
	return closed, false, nil
}

// ListLeaves implements leave.LeaveService.
func (s *LeaveServiceImpl) ListLeaves(ctx context.Context, userID, attendanceID string) ([]leave.LeaveRecord, error) {
	parent, err := s.ownedAttendance(ctx, userID, attendanceID)
	if err != nil {
		return nil, err
	}

	records, err := s.LeaveRepository.ListByAttendance(ctx, parent.ID)
	if err != nil {
		return nil, fmt.Errorf("list leave records: %w", err)
	}
	return records, nil
}

func (s *LeaveServiceImpl) ownedAttendance(ctx context.Context, userID, attendanceID string) (attendance.Attendance, error) {
	a, err := s.AttendanceRepository.GetByID(ctx, attendanceID)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if a.UserID != userID {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (s *LeaveServiceImpl) logEnded(ctx context.Context, l leave.LeaveRecord) {
	s.logger.InfoContext(ctx, "leave ended",
		slog.String("leave_record_id", l.ID),
		slog.String("attendance_id", l.AttendanceID),
		slog.Duration("duration", l.Duration(s.clock.Now())),
	)
}

func (s *LeaveServiceImpl) publish(ctx context.Context, eventType string, l leave.LeaveRecord) {
	err := s.publisher.Publish(ctx, events.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Key:        l.AttendanceID,
		OccurredAt: s.clock.Now(),
		Payload:    leave.NewLeaveRecordResponse(l, s.clock.Now()),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to publish leave event",
			slog.String("event_type", eventType),
			slog.String("leave_record_id", l.ID),
			slog.String("error", err.Error()),
		)
	}
}

func NewLeaveService(
	tx database.Transactor,
	leaveRepo leave.LeaveRepository,
	attendanceRepo attendance.AttendanceRepository,
	publisher events.Publisher,
	policy retry.Policy,
	clk clock.Clock,
	logger *slog.Logger,
) leave.LeaveService {
	return &LeaveServiceImpl{
		tx:                   tx,
		LeaveRepository:      leaveRepo,
		AttendanceRepository: attendanceRepo,
		publisher:            publisher,
		retry:                policy,
		clock:                clk,
		logger:               logger,
	}
}
