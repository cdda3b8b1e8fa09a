package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nexts-consulting/fms-attendance/internal/domain/attendance"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/database"
)

const attendanceOneOpenIndex = "attendances_one_open_idx"

const attendanceColumns = `
	id, user_id, project_id, location_id, shift_id, shift_source, shift_start, shift_end,
	status, timing_status,
	check_in_time, check_in_latitude, check_in_longitude, check_in_photo_ref, check_in_distance_meters,
	check_out_time, check_out_latitude, check_out_longitude, check_out_photo_ref,
	created_at, updated_at`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID, &a.UserID, &a.ProjectID, &a.LocationID, &a.ShiftID, &a.ShiftSource, &a.ShiftStart, &a.ShiftEnd,
		&a.Status, &a.TimingStatus,
		&a.CheckInTime, &a.CheckInLatitude, &a.CheckInLongitude, &a.CheckInPhotoRef, &a.CheckInDistanceMeters,
		&a.CheckOutTime, &a.CheckOutLatitude, &a.CheckOutLongitude, &a.CheckOutPhotoRef,
		&a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

func collectAttendances(rows pgx.Rows) ([]attendance.Attendance, error) {
	defer rows.Close()

	items := make([]attendance.Attendance, 0)
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	query := `
		INSERT INTO attendances (
			id, user_id, project_id, location_id, shift_id, shift_source, shift_start, shift_end,
			status, timing_status,
			check_in_time, check_in_latitude, check_in_longitude, check_in_photo_ref, check_in_distance_meters
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		a.ID, a.UserID, a.ProjectID, a.LocationID, a.ShiftID, a.ShiftSource, a.ShiftStart, a.ShiftEnd,
		a.Status, a.TimingStatus,
		a.CheckInTime, a.CheckInLatitude, a.CheckInLongitude, a.CheckInPhotoRef, a.CheckInDistanceMeters,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, attendanceOneOpenIndex) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return a, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE id::text = $1`

	a, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return a, nil
}

// GetOpen implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetOpen(ctx context.Context, userID, projectID string) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE user_id = $1
		  AND project_id = $2
		  AND status = 'CHECKED_IN'
		LIMIT 1
	`

	a, err := scanAttendance(q.QueryRow(ctx, query, userID, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open attendance: %w", err)
	}
	return &a, nil
}

// Close implements attendance.AttendanceRepository.
func (r *attendanceRepository) Close(ctx context.Context, id string, checkOut attendance.CheckOut) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET status = $2,
			check_out_time = $3,
			check_out_latitude = $4,
			check_out_longitude = $5,
			check_out_photo_ref = $6,
			updated_at = NOW()
		WHERE id::text = $1
		  AND status = 'CHECKED_IN'
		RETURNING ` + attendanceColumns

	a, err := scanAttendance(q.QueryRow(ctx, query,
		id, checkOut.Status, checkOut.Time, checkOut.Latitude, checkOut.Longitude, checkOut.PhotoRef,
	))
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return attendance.Attendance{}, fmt.Errorf("failed to close attendance: %w", err)
	}

	// Nothing updated: either the record is gone or it is no longer open.
	if _, err := r.GetByID(ctx, id); err != nil {
		return attendance.Attendance{}, err
	}
	return attendance.Attendance{}, attendance.ErrAttendanceAlreadyClosed
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argPos := 1

	add := func(cond string, value interface{}) {
		conditions = append(conditions, fmt.Sprintf(cond, argPos))
		args = append(args, value)
		argPos++
	}

	if filter.UserID != "" {
		add("user_id = $%d", filter.UserID)
	}
	if filter.ProjectID != "" {
		add("project_id = $%d", filter.ProjectID)
	}
	if filter.Status != nil && *filter.Status != "" {
		add("status = $%d", *filter.Status)
	}
	if filter.From != nil {
		add("shift_start >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("shift_start < $%d", *filter.To)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM attendances " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	sortColumn := "shift_start"
	switch filter.SortBy {
	case "check_in_time", "status":
		sortColumn = filter.SortBy
	}
	sortOrder := "DESC"
	if filter.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM attendances
		%s
		ORDER BY %s %s NULLS LAST, shift_start %s, id %s
	`, attendanceColumns, where, sortColumn, sortOrder, sortOrder, sortOrder)

	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1)
		args = append(args, filter.Limit, (page-1)*filter.Limit)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendances: %w", err)
	}
	items, err := collectAttendances(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan attendances: %w", err)
	}

	return items, total, nil
}

// ListOpenEndedBefore implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListOpenEndedBefore(ctx context.Context, cutoff time.Time, limit int) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE status = 'CHECKED_IN'
		  AND shift_end < $1
		ORDER BY shift_end ASC
		LIMIT $2
	`

	rows, err := q.Query(ctx, query, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale attendances: %w", err)
	}
	items, err := collectAttendances(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan stale attendances: %w", err)
	}
	return items, nil
}

// HasAttendanceForShift implements attendance.AttendanceRepository.
func (r *attendanceRepository) HasAttendanceForShift(ctx context.Context, userID, shiftID string, start, end time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM attendances
			WHERE user_id = $1
			  AND (
				shift_id::text = $2
				OR (shift_id IS NULL AND shift_start < $4 AND shift_end > $3)
			  )
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, userID, shiftID, start, end).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check attendance for shift: %w", err)
	}
	return exists, nil
}
