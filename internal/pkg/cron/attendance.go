package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/nexts-consulting/fms-attendance/internal/domain/attendance"
	"github.com/nexts-consulting/fms-attendance/internal/domain/shift"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/clock"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/retry"
	"golang.org/x/sync/errgroup"
)

const (
	JobAutoCheckOut = "auto_checkout_stale_attendances"
	JobMarkAbsent   = "mark_absent_users"
)

type AttendanceJobsConfig struct {
	// Grace is how long after shift end an open attendance is left alone.
	Grace time.Duration
	// LookBack bounds how far back ended shifts are scanned for absences.
	LookBack         time.Duration
	BatchSize        int
	Concurrency      int
	AutoCheckOutSpec string
	AbsenceSpec      string
}

func DefaultAttendanceJobsConfig() AttendanceJobsConfig {
	return AttendanceJobsConfig{
		Grace:            2 * time.Hour,
		LookBack:         24 * time.Hour,
		BatchSize:        200,
		Concurrency:      4,
		AutoCheckOutSpec: "*/15 * * * *",
		AbsenceSpec:      "5 * * * *",
	}
}

type AttendanceJobs struct {
	attendanceService attendance.AttendanceService
	attendanceRepo    attendance.AttendanceRepository
	shiftRepo         shift.ShiftRepository
	retry             retry.Policy
	clock             clock.Clock
	cfg               AttendanceJobsConfig
	logger            *slog.Logger
}

func NewAttendanceJobs(
	attendanceService attendance.AttendanceService,
	attendanceRepo attendance.AttendanceRepository,
	shiftRepo shift.ShiftRepository,
	policy retry.Policy,
	clk clock.Clock,
	cfg AttendanceJobsConfig,
	logger *slog.Logger,
) *AttendanceJobs {
	defaults := DefaultAttendanceJobsConfig()
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaults.BatchSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaults.Concurrency
	}
	if cfg.LookBack <= 0 {
		cfg.LookBack = defaults.LookBack
	}
	if cfg.AutoCheckOutSpec == "" {
		cfg.AutoCheckOutSpec = defaults.AutoCheckOutSpec
	}
	if cfg.AbsenceSpec == "" {
		cfg.AbsenceSpec = defaults.AbsenceSpec
	}
	return &AttendanceJobs{
		attendanceService: attendanceService,
		attendanceRepo:    attendanceRepo,
		shiftRepo:         shiftRepo,
		retry:             policy,
		clock:             clk,
		cfg:               cfg,
		logger:            logger,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) error {
	if err := scheduler.AddJob(JobAutoCheckOut, j.cfg.AutoCheckOutSpec, j.AutoCheckOutStale); err != nil {
		return err
	}
	return scheduler.AddJob(JobMarkAbsent, j.cfg.AbsenceSpec, j.MarkAbsent)
}

// AutoCheckOutStale closes every attendance still open past its shift end
// plus the grace period. Records closed concurrently by their owner are
// skipped.
func (j *AttendanceJobs) AutoCheckOutStale(ctx context.Context) error {
	cutoff := j.clock.Now().Add(-j.cfg.Grace)
	j.logger.InfoContext(ctx, "Cron: Starting auto check-out job", slog.Time("cutoff", cutoff))

	var closedCount, failedCount int
	var errs []error
	for {
		var stale []attendance.Attendance
		err := j.retry.Do(ctx, func(ctx context.Context) error {
			var err error
			stale, err = j.attendanceRepo.ListOpenEndedBefore(ctx, cutoff, j.cfg.BatchSize)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to list stale attendances: %w", err)
		}

		progressed := false
		for _, a := range stale {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			_, err := j.attendanceService.AutoCheckOut(ctx, a.ID)
			switch {
			case err == nil:
				closedCount++
				progressed = true
			case errors.Is(err, attendance.ErrAttendanceAlreadyClosed):
				progressed = true
			default:
				failedCount++
				errs = append(errs, fmt.Errorf("auto check-out %s: %w", a.ID, err))
				j.logger.ErrorContext(ctx, "Cron: Failed to auto check-out attendance",
					slog.String("attendance_id", a.ID),
					slog.String("error", err.Error()),
				)
			}
		}

		if len(stale) < j.cfg.BatchSize || !progressed {
			break
		}
	}

	j.logger.InfoContext(ctx, "Cron: Auto check-out job completed",
		slog.Int("closed", closedCount),
		slog.Int("failed", failedCount),
	)
	return errors.Join(errs...)
}

// MarkAbsent records an absence for every assigned shift that ended within
// the look-back window without any attendance. Projects are processed
// concurrently.
func (j *AttendanceJobs) MarkAbsent(ctx context.Context) error {
	now := j.clock.Now()
	from := now.Add(-j.cfg.LookBack)
	j.logger.InfoContext(ctx, "Cron: Starting mark absent job",
		slog.Time("from", from),
		slog.Time("to", now),
	)

	var assigned []shift.AssignedShift
	err := j.retry.Do(ctx, func(ctx context.Context) error {
		var err error
		assigned, err = j.shiftRepo.ListAssignedEndedBetween(ctx, from, now)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to list ended shifts: %w", err)
	}

	if len(assigned) == 0 {
		j.logger.InfoContext(ctx, "Cron: No ended shifts found")
		return nil
	}

	byProject := make(map[string][]shift.AssignedShift)
	order := make([]string, 0)
	for _, a := range assigned {
		if _, ok := byProject[a.Shift.ProjectID]; !ok {
			order = append(order, a.Shift.ProjectID)
		}
		byProject[a.Shift.ProjectID] = append(byProject[a.Shift.ProjectID], a)
	}

	var markedCount atomic.Int64
	var g errgroup.Group
	g.SetLimit(j.cfg.Concurrency)
	for _, projectID := range order {
		items := byProject[projectID]
		g.Go(func() error {
			var errs []error
			for _, a := range items {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				_, marked, err := j.attendanceService.MarkAbsent(ctx, a)
				if err != nil {
					errs = append(errs, fmt.Errorf("mark absent user %s shift %s: %w", a.UserID, a.Shift.ID, err))
					j.logger.ErrorContext(ctx, "Cron: Failed to mark absence",
						slog.String("project_id", projectID),
						slog.String("user_id", a.UserID),
						slog.String("shift_id", a.Shift.ID),
						slog.String("error", err.Error()),
					)
					continue
				}
				if marked {
					markedCount.Add(1)
				}
			}
			return errors.Join(errs...)
		})
	}
	err = g.Wait()

	j.logger.InfoContext(ctx, "Cron: Mark absent job completed",
		slog.Int("projects", len(order)),
		slog.Int64("marked", markedCount.Load()),
	)
	return err
}
