package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nexts-consulting/fms-attendance/internal/domain/leave"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/database"
)

const leaveOneOpenIndex = "leave_records_one_open_idx"

const leaveColumns = `
	id, attendance_id, leave_type, note,
	start_time, start_latitude, start_longitude, start_photo_ref,
	end_time, end_latitude, end_longitude, end_photo_ref,
	created_at, updated_at`

type leaveRepository struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepository{db: db}
}

func scanLeave(row pgx.Row) (leave.LeaveRecord, error) {
	var l leave.LeaveRecord
	err := row.Scan(
		&l.ID, &l.AttendanceID, &l.LeaveType, &l.Note,
		&l.StartTime, &l.StartLatitude, &l.StartLongitude, &l.StartPhotoRef,
		&l.EndTime, &l.EndLatitude, &l.EndLongitude, &l.EndPhotoRef,
		&l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}

func collectLeaves(rows pgx.Rows) ([]leave.LeaveRecord, error) {
	defer rows.Close()

	items := make([]leave.LeaveRecord, 0)
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	return items, rows.Err()
}

// Create implements leave.LeaveRepository.
func (r *leaveRepository) Create(ctx context.Context, record leave.LeaveRecord) (leave.LeaveRecord, error) {
	q := GetQuerier(ctx, r.db)

	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	// FOR SHARE waits for an in-flight checkout and then re-reads the status,
	// so a leave is never inserted under a closed attendance.
	query := `
		INSERT INTO leave_records (
			id, attendance_id, leave_type, note,
			start_time, start_latitude, start_longitude, start_photo_ref
		)
		SELECT $1::uuid, a.id, $3::text, $4::text, $5::timestamptz, $6::double precision, $7::double precision, $8::text
		FROM attendances a
		WHERE a.id::text = $2
		  AND a.status = 'CHECKED_IN'
		FOR SHARE OF a
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.ID, record.AttendanceID, record.LeaveType, record.Note,
		record.StartTime, record.StartLatitude, record.StartLongitude, record.StartPhotoRef,
	).Scan(&record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRecord{}, leave.ErrAttendanceNotOpen
		}
		if database.IsUniqueViolation(err, leaveOneOpenIndex) {
			return leave.LeaveRecord{}, leave.ErrLeaveAlreadyActive
		}
		return leave.LeaveRecord{}, fmt.Errorf("failed to create leave record: %w", err)
	}

	return record, nil
}

// GetByID implements leave.LeaveRepository.
func (r *leaveRepository) GetByID(ctx context.Context, id string) (leave.LeaveRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveColumns + ` FROM leave_records WHERE id::text = $1`

	l, err := scanLeave(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRecord{}, leave.ErrLeaveRecordNotFound
		}
		return leave.LeaveRecord{}, fmt.Errorf("failed to get leave record: %w", err)
	}
	return l, nil
}

// GetOpenByAttendance implements leave.LeaveRepository.
func (r *leaveRepository) GetOpenByAttendance(ctx context.Context, attendanceID string) (*leave.LeaveRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveColumns + `
		FROM leave_records
		WHERE attendance_id::text = $1
		  AND end_time IS NULL
		LIMIT 1
	`

	l, err := scanLeave(q.QueryRow(ctx, query, attendanceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open leave record: %w", err)
	}
	return &l, nil
}

// Close implements leave.LeaveRepository.
func (r *leaveRepository) Close(ctx context.Context, id string, end leave.LeaveEnd) (leave.LeaveRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_records
		SET end_time = $2,
			end_latitude = $3,
			end_longitude = $4,
			end_photo_ref = $5,
			updated_at = NOW()
		WHERE id::text = $1
		  AND end_time IS NULL
		RETURNING ` + leaveColumns

	l, err := scanLeave(q.QueryRow(ctx, query, id, end.Time, end.Latitude, end.Longitude, end.PhotoRef))
	if err == nil {
		return l, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return leave.LeaveRecord{}, fmt.Errorf("failed to close leave record: %w", err)
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return leave.LeaveRecord{}, err
	}
	return leave.LeaveRecord{}, leave.ErrLeaveAlreadyEnded
}

// ListByAttendance implements leave.LeaveRepository.
func (r *leaveRepository) ListByAttendance(ctx context.Context, attendanceID string) ([]leave.LeaveRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveColumns + `
		FROM leave_records
		WHERE attendance_id::text = $1
		ORDER BY start_time ASC
	`

	rows, err := q.Query(ctx, query, attendanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave records: %w", err)
	}
	items, err := collectLeaves(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan leave records: %w", err)
	}
	return items, nil
}

// ListByAttendances implements leave.LeaveRepository.
func (r *leaveRepository) ListByAttendances(ctx context.Context, attendanceIDs []string) (map[string][]leave.LeaveRecord, error) {
	out := make(map[string][]leave.LeaveRecord, len(attendanceIDs))
	if len(attendanceIDs) == 0 {
		return out, nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveColumns + `
		FROM leave_records
		WHERE attendance_id::text = ANY($1)
		ORDER BY attendance_id, start_time ASC
	`

	rows, err := q.Query(ctx, query, attendanceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave records: %w", err)
	}
	items, err := collectLeaves(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan leave records: %w", err)
	}

	for _, l := range items {
		out[l.AttendanceID] = append(out[l.AttendanceID], l)
	}
	return out, nil
}
