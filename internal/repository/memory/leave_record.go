package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/nexts-consulting/fms-attendance/internal/domain/leave"
)

type leaveRepository struct {
	store *Store
}

func NewLeaveRepository(store *Store) leave.LeaveRepository {
	return &leaveRepository{store: store}
}

func (r *leaveRepository) Create(_ context.Context, record leave.LeaveRecord) (leave.LeaveRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	// Same lock as attendance Close, so a checkout cannot slip in between.
	parent, ok := r.store.attendances[record.AttendanceID]
	if !ok || !parent.IsOpen() {
		return leave.LeaveRecord{}, leave.ErrAttendanceNotOpen
	}

	for _, existing := range r.store.leaves {
		if existing.AttendanceID == record.AttendanceID && existing.IsOpen() {
			return leave.LeaveRecord{}, leave.ErrLeaveAlreadyActive
		}
	}

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := r.store.now()
	record.CreatedAt, record.UpdatedAt = now, now
	r.store.leaves[record.ID] = record
	return record, nil
}

func (r *leaveRepository) GetByID(_ context.Context, id string) (leave.LeaveRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	record, ok := r.store.leaves[id]
	if !ok {
		return leave.LeaveRecord{}, leave.ErrLeaveRecordNotFound
	}
	return record, nil
}

func (r *leaveRepository) GetOpenByAttendance(_ context.Context, attendanceID string) (*leave.LeaveRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, record := range r.store.leaves {
		if record.AttendanceID == attendanceID && record.IsOpen() {
			record := record
			return &record, nil
		}
	}
	return nil, nil
}

func (r *leaveRepository) Close(_ context.Context, id string, end leave.LeaveEnd) (leave.LeaveRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	record, ok := r.store.leaves[id]
	if !ok {
		return leave.LeaveRecord{}, leave.ErrLeaveRecordNotFound
	}
	if !record.IsOpen() {
		return leave.LeaveRecord{}, leave.ErrLeaveAlreadyEnded
	}

	t := end.Time
	record.EndTime = &t
	record.EndLatitude = end.Latitude
	record.EndLongitude = end.Longitude
	record.EndPhotoRef = end.PhotoRef
	record.UpdatedAt = r.store.now()
	r.store.leaves[id] = record
	return record, nil
}

func (r *leaveRepository) ListByAttendance(_ context.Context, attendanceID string) ([]leave.LeaveRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := r.byAttendance(attendanceID)
	return out, nil
}

func (r *leaveRepository) ListByAttendances(_ context.Context, attendanceIDs []string) (map[string][]leave.LeaveRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make(map[string][]leave.LeaveRecord, len(attendanceIDs))
	for _, id := range attendanceIDs {
		if records := r.byAttendance(id); len(records) > 0 {
			out[id] = records
		}
	}
	return out, nil
}

// byAttendance expects the read lock to be held.
func (r *leaveRepository) byAttendance(attendanceID string) []leave.LeaveRecord {
	out := []leave.LeaveRecord{}
	for _, record := range r.store.leaves {
		if record.AttendanceID == attendanceID {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}
