package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/nexts-consulting/fms-attendance/internal/domain/shift"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/database"
)

const shiftColumns = `s.id, s.project_id, s.location_id, s.name, s.start_time, s.end_time, s.is_location_default, s.created_at, s.updated_at`

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepository{db: db}
}

func scanShift(row pgx.Row, extra ...any) (shift.Shift, error) {
	var s shift.Shift
	dest := []any{
		&s.ID, &s.ProjectID, &s.LocationID, &s.Name, &s.StartTime, &s.EndTime,
		&s.IsLocationDefault, &s.CreatedAt, &s.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return s, err
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepository) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + ` FROM shifts s WHERE s.id::text = $1`

	s, err := scanShift(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift: %w", err)
	}
	return s, nil
}

// FindAssignedToUser implements shift.ShiftRepository.
func (r *shiftRepository) FindAssignedToUser(ctx context.Context, userID string, from, to time.Time) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + shiftColumns + `
		FROM shifts s
		JOIN shift_assignments sa ON sa.shift_id = s.id
		WHERE sa.user_id = $1
		  AND s.start_time >= $2
		  AND s.start_time < $3
		ORDER BY s.start_time ASC
	`

	rows, err := q.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to find assigned shifts: %w", err)
	}
	defer rows.Close()

	shifts := make([]shift.Shift, 0)
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

// FindLocationDefault implements shift.ShiftRepository.
func (r *shiftRepository) FindLocationDefault(ctx context.Context, locationID string, from, to time.Time) (*shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + shiftColumns + `
		FROM shifts s
		WHERE s.location_id::text = $1
		  AND s.is_location_default
		  AND s.start_time >= $2
		  AND s.start_time < $3
		ORDER BY s.start_time ASC
		LIMIT 1
	`

	s, err := scanShift(q.QueryRow(ctx, query, locationID, from, to))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find location default shift: %w", err)
	}
	return &s, nil
}

// GetProjectConfig implements shift.ShiftRepository.
func (r *shiftRepository) GetProjectConfig(ctx context.Context, projectID string) (shift.ProjectConfig, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT project_id, timezone, default_start_time, default_end_time, tolerance_minutes
		FROM project_configs
		WHERE project_id = $1
	`

	var cfg shift.ProjectConfig
	err := q.QueryRow(ctx, query, projectID).Scan(
		&cfg.ProjectID, &cfg.Timezone, &cfg.DefaultStartTime, &cfg.DefaultEndTime, &cfg.ToleranceMinutes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.ProjectConfig{ProjectID: projectID}, nil
		}
		return shift.ProjectConfig{}, fmt.Errorf("failed to get project config: %w", err)
	}
	return cfg, nil
}

// ListAssignedEndedBetween implements shift.ShiftRepository.
func (r *shiftRepository) ListAssignedEndedBetween(ctx context.Context, from, to time.Time) ([]shift.AssignedShift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + shiftColumns + `, sa.user_id
		FROM shifts s
		JOIN shift_assignments sa ON sa.shift_id = s.id
		WHERE s.end_time >= $1
		  AND s.end_time < $2
		ORDER BY s.end_time ASC, sa.user_id ASC
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list ended assignments: %w", err)
	}
	defer rows.Close()

	out := make([]shift.AssignedShift, 0)
	for rows.Next() {
		var userID string
		s, err := scanShift(rows, &userID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		out = append(out, shift.AssignedShift{UserID: userID, Shift: s})
	}
	return out, rows.Err()
}
