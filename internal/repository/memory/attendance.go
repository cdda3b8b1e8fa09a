package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/nexts-consulting/fms-attendance/internal/domain/attendance"
)

type attendanceRepository struct {
	store *Store
}

func NewAttendanceRepository(store *Store) attendance.AttendanceRepository {
	return &attendanceRepository{store: store}
}

func (r *attendanceRepository) Create(_ context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if a.Status == attendance.StatusCheckedIn {
		for _, existing := range r.store.attendances {
			if existing.IsOpen() && existing.UserID == a.UserID && existing.ProjectID == a.ProjectID {
				return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
			}
		}
	}

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := r.store.now()
	a.CreatedAt, a.UpdatedAt = now, now
	r.store.attendances[a.ID] = a
	return a, nil
}

func (r *attendanceRepository) GetByID(_ context.Context, id string) (attendance.Attendance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	a, ok := r.store.attendances[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (r *attendanceRepository) GetOpen(_ context.Context, userID, projectID string) (*attendance.Attendance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, a := range r.store.attendances {
		if a.IsOpen() && a.UserID == userID && a.ProjectID == projectID {
			a := a
			return &a, nil
		}
	}
	return nil, nil
}

func (r *attendanceRepository) Close(_ context.Context, id string, checkOut attendance.CheckOut) (attendance.Attendance, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	a, ok := r.store.attendances[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	if !a.IsOpen() {
		return attendance.Attendance{}, attendance.ErrAttendanceAlreadyClosed
	}

	t := checkOut.Time
	a.Status = checkOut.Status
	a.CheckOutTime = &t
	a.CheckOutLatitude = checkOut.Latitude
	a.CheckOutLongitude = checkOut.Longitude
	a.CheckOutPhotoRef = checkOut.PhotoRef
	a.UpdatedAt = r.store.now()
	r.store.attendances[id] = a
	return a, nil
}

func (r *attendanceRepository) List(_ context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matched []attendance.Attendance
	for _, a := range r.store.attendances {
		if filter.ProjectID != "" && a.ProjectID != filter.ProjectID {
			continue
		}
		if filter.UserID != "" && a.UserID != filter.UserID {
			continue
		}
		if filter.Status != nil && string(a.Status) != *filter.Status {
			continue
		}
		if filter.From != nil && a.ShiftStart.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !a.ShiftStart.Before(*filter.To) {
			continue
		}
		matched = append(matched, a)
	}

	desc := filter.SortOrder != "asc"
	sort.SliceStable(matched, func(i, j int) bool {
		if desc {
			return lessBy(filter.SortBy, matched[j], matched[i])
		}
		return lessBy(filter.SortBy, matched[i], matched[j])
	})

	total := int64(len(matched))
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * filter.Limit
		if start >= len(matched) {
			return []attendance.Attendance{}, total, nil
		}
		end := start + filter.Limit
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[start:end]
	}
	return matched, total, nil
}

func lessBy(field string, a, b attendance.Attendance) bool {
	switch field {
	case "check_in_time":
		at, bt := timeOrZero(a.CheckInTime), timeOrZero(b.CheckInTime)
		if !at.Equal(bt) {
			return at.Before(bt)
		}
	case "status":
		if a.Status != b.Status {
			return a.Status < b.Status
		}
	}
	if !a.ShiftStart.Equal(b.ShiftStart) {
		return a.ShiftStart.Before(b.ShiftStart)
	}
	return a.ID < b.ID
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func (r *attendanceRepository) ListOpenEndedBefore(_ context.Context, cutoff time.Time, limit int) ([]attendance.Attendance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []attendance.Attendance
	for _, a := range r.store.attendances {
		if a.IsOpen() && a.ShiftEnd.Before(cutoff) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ShiftEnd.Before(out[j].ShiftEnd) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *attendanceRepository) HasAttendanceForShift(_ context.Context, userID, shiftID string, start, end time.Time) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, a := range r.store.attendances {
		if a.UserID != userID {
			continue
		}
		if a.ShiftID != nil && *a.ShiftID == shiftID {
			return true, nil
		}
		if a.ShiftID == nil && a.ShiftStart.Before(end) && start.Before(a.ShiftEnd) {
			return true, nil
		}
	}
	return false, nil
}
