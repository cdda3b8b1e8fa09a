// Package app builds the storage, event and service graph shared by the api
// and worker binaries.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nexts-consulting/fms-attendance/internal/config"
	"github.com/nexts-consulting/fms-attendance/internal/domain/attendance"
	"github.com/nexts-consulting/fms-attendance/internal/domain/leave"
	"github.com/nexts-consulting/fms-attendance/internal/domain/location"
	"github.com/nexts-consulting/fms-attendance/internal/domain/shift"
	"github.com/nexts-consulting/fms-attendance/internal/domain/timesheet"
	"github.com/nexts-consulting/fms-attendance/internal/fixtures"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/clock"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/cron"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/database"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/events"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/logger"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/retry"
	"github.com/nexts-consulting/fms-attendance/internal/repository/memory"
	"github.com/nexts-consulting/fms-attendance/internal/repository/postgresql"
	attendanceService "github.com/nexts-consulting/fms-attendance/internal/service/attendance"
	leaveService "github.com/nexts-consulting/fms-attendance/internal/service/leave"
	shiftService "github.com/nexts-consulting/fms-attendance/internal/service/shift"
	timesheetService "github.com/nexts-consulting/fms-attendance/internal/service/timesheet"
)

// demoSeedDays is how many days of demo shifts the memory driver starts with.
const demoSeedDays = 7

type App struct {
	Config *config.Config
	Logger *slog.Logger
	Clock  clock.Clock

	AttendanceRepository attendance.AttendanceRepository
	LeaveRepository      leave.LeaveRepository
	LocationRepository   location.LocationRepository
	ShiftRepository      shift.ShiftRepository

	// Demo is set when the memory driver seeded fixtures.
	Demo *fixtures.SeededDataIDs

	Publisher   events.Publisher
	RetryPolicy retry.Policy

	ShiftService      shift.ShiftService
	AttendanceService attendance.AttendanceService
	LeaveService      leave.LeaveService
	TimesheetService  timesheet.TimesheetService

	closers []func() error
}

// LoggerOptions maps the app config onto logger options. The suffix is
// appended to the app name, e.g. "-worker".
func LoggerOptions(cfg *config.Config, suffix string) logger.Options {
	return logger.Options{
		App:     cfg.App.Name + suffix,
		Version: cfg.App.Version,
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
	}
}

// New connects storage and the event publisher and wires the services.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, clk clock.Clock) (*App, error) {
	if clk == nil {
		clk = clock.Real()
	}
	a := &App{Config: cfg, Logger: logger, Clock: clk}

	var tx database.Transactor
	switch cfg.Database.Driver {
	case config.DriverMemory:
		store := memory.NewStore(clk)
		seeded := fixtures.Seed(store, clk.Now(), demoSeedDays)
		logger.Warn("Using in-memory storage; data is lost on restart",
			slog.String("project_id", fixtures.DemoProjectID),
			slog.Int("locations", len(seeded.LocationIDs)),
			slog.Int("shifts", len(seeded.ShiftIDs)),
		)
		a.Demo = &seeded
		tx = store
		a.AttendanceRepository = memory.NewAttendanceRepository(store)
		a.LeaveRepository = memory.NewLeaveRepository(store)
		a.LocationRepository = memory.NewLocationRepository(store)
		a.ShiftRepository = memory.NewShiftRepository(store)
	default:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		a.closers = append(a.closers, func() error { db.Close(); return nil })
		logger.Info("Connected to database", slog.String("host", cfg.Database.Host), slog.String("name", cfg.Database.Name))

		tx = postgresql.NewTransactor(db)
		a.AttendanceRepository = postgresql.NewAttendanceRepository(db)
		a.LeaveRepository = postgresql.NewLeaveRepository(db)
		a.LocationRepository = postgresql.NewLocationRepository(db)
		a.ShiftRepository = postgresql.NewShiftRepository(db)
	}

	if len(cfg.Kafka.Brokers) > 0 {
		writer := events.NewKafkaWriter(events.KafkaConfig{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic})
		a.Publisher = events.NewKafkaPublisher(writer, cfg.Kafka.Topic)
		logger.Info("Publishing events to Kafka", slog.String("topic", cfg.Kafka.Topic))
	} else {
		a.Publisher = events.Noop()
		logger.Info("KAFKA_BROKERS not set; events are dropped")
	}
	// Flush pending events before the pool goes away.
	a.closers = append([]func() error{a.Publisher.Close}, a.closers...)

	a.RetryPolicy = retry.Policy{
		Attempts:  cfg.Attendance.RetryAttempts,
		Delay:     cfg.Attendance.RetryDelay,
		Retryable: database.IsTransient,
	}

	a.ShiftService = shiftService.NewShiftService(a.ShiftRepository, a.LocationRepository, clk, logger)
	a.AttendanceService = attendanceService.NewAttendanceService(
		tx,
		a.AttendanceRepository,
		a.LeaveRepository,
		a.LocationRepository,
		a.ShiftService,
		a.Publisher,
		a.RetryPolicy,
		clk,
		logger,
	)
	a.LeaveService = leaveService.NewLeaveService(
		tx,
		a.LeaveRepository,
		a.AttendanceRepository,
		a.Publisher,
		a.RetryPolicy,
		clk,
		logger,
	)
	a.TimesheetService = timesheetService.NewTimesheetService(a.AttendanceRepository, a.LeaveRepository, a.ShiftService, clk)

	return a, nil
}

// AttendanceJobs builds the sweep jobs from the cron and attendance config.
func (a *App) AttendanceJobs() *cron.AttendanceJobs {
	return cron.NewAttendanceJobs(
		a.AttendanceService,
		a.AttendanceRepository,
		a.ShiftRepository,
		a.RetryPolicy,
		a.Clock,
		cron.AttendanceJobsConfig{
			Grace:            a.Config.Attendance.AutoCheckOutGrace,
			LookBack:         a.Config.Attendance.AbsenceLookBack,
			BatchSize:        a.Config.Cron.BatchSize,
			Concurrency:      a.Config.Cron.Concurrency,
			AutoCheckOutSpec: a.Config.Cron.AutoCheckOutSpec,
			AbsenceSpec:      a.Config.Cron.AbsenceSpec,
		},
		a.Logger,
	)
}

// Close releases resources in reverse dependency order.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
