package shift

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nexts-consulting/fms-attendance/internal/domain/location"
	"github.com/nexts-consulting/fms-attendance/internal/domain/shift"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/clock"
)

type ShiftServiceImpl struct {
	shift.ShiftRepository
	location.LocationRepository
	clock  clock.Clock
	logger *slog.Logger
}

// ResolveShiftForToday implements shift.ShiftService.
func (s *ShiftServiceImpl) ResolveShiftForToday(ctx context.Context, userID, locationID string) (shift.Window, error) {
	loc, err := s.LocationRepository.GetByID(ctx, locationID)
	if err != nil {
		return shift.Window{}, fmt.Errorf("get location: %w", err)
	}

	cfg, err := s.ShiftRepository.GetProjectConfig(ctx, loc.ProjectID)
	if err != nil {
		return shift.Window{}, fmt.Errorf("get project config: %w", err)
	}

	now := s.clock.Now()
	dayStart, dayEnd := shift.DayBounds(now, cfg.Location())

	assigned, err := s.ShiftRepository.FindAssignedToUser(ctx, userID, dayStart, dayEnd)
	if err != nil {
		return shift.Window{}, fmt.Errorf("find assigned shifts: %w", err)
	}
	if picked, ok := pickAssigned(assigned, loc.ProjectID, locationID); ok {
		return shift.WindowFromShift(picked, shift.SourceAssigned), nil
	}

	locationDefault, err := s.ShiftRepository.FindLocationDefault(ctx, locationID, dayStart, dayEnd)
	if err != nil {
		return shift.Window{}, fmt.Errorf("find location default shift: %w", err)
	}
	if locationDefault != nil {
		return shift.WindowFromShift(*locationDefault, shift.SourceLocationDefault), nil
	}

	window, err := shift.ProjectDefaultWindow(cfg, locationID, now)
	if err == nil {
		return window, nil
	}
	if errors.Is(err, shift.ErrShiftConfigMissing) {
		s.logger.DebugContext(ctx, "no project default shift, using flexible window",
			slog.String("project_id", cfg.ProjectID),
			slog.String("location_id", locationID),
		)
	} else {
		s.logger.WarnContext(ctx, "invalid project default shift, using flexible window",
			slog.String("project_id", cfg.ProjectID),
			slog.String("error", err.Error()),
		)
	}

	return shift.FlexibleWindow(cfg, locationID, now), nil
}

// pickAssigned prefers a shift at the requested location and falls back to
// the earliest assigned shift of the day in the same project.
func pickAssigned(assigned []shift.Shift, projectID, locationID string) (shift.Shift, bool) {
	for _, sh := range assigned {
		if sh.LocationID == locationID {
			return sh, true
		}
	}
	for _, sh := range assigned {
		if sh.ProjectID == projectID {
			return sh, true
		}
	}
	return shift.Shift{}, false
}

// ResolveShiftByID implements shift.ShiftService.
func (s *ShiftServiceImpl) ResolveShiftByID(ctx context.Context, shiftID string) (shift.Window, error) {
	sh, err := s.ShiftRepository.GetByID(ctx, shiftID)
	if err != nil {
		return shift.Window{}, fmt.Errorf("get shift: %w", err)
	}

	source := shift.SourceAssigned
	if sh.IsLocationDefault {
		source = shift.SourceLocationDefault
	}
	return shift.WindowFromShift(sh, source), nil
}

// ProjectConfig implements shift.ShiftService.
func (s *ShiftServiceImpl) ProjectConfig(ctx context.Context, projectID string) (shift.ProjectConfig, error) {
	cfg, err := s.ShiftRepository.GetProjectConfig(ctx, projectID)
	if err != nil {
		return shift.ProjectConfig{}, fmt.Errorf("get project config: %w", err)
	}
	return cfg, nil
}

func NewShiftService(
	shiftRepo shift.ShiftRepository,
	locationRepo location.LocationRepository,
	clk clock.Clock,
	logger *slog.Logger,
) shift.ShiftService {
	return &ShiftServiceImpl{
		ShiftRepository:    shiftRepo,
		LocationRepository: locationRepo,
		clock:              clk,
		logger:             logger,
	}
}
