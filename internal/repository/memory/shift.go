package memory

import (
	"context"
	"sort"
	"time"

	"github.com/nexts-consulting/fms-attendance/internal/domain/shift"
)

type shiftRepository struct {
	store *Store
}

func NewShiftRepository(store *Store) shift.ShiftRepository {
	return &shiftRepository{store: store}
}

func (r *shiftRepository) GetByID(_ context.Context, id string) (shift.Shift, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	sh, ok := r.store.shifts[id]
	if !ok {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return sh, nil
}

func (r *shiftRepository) FindAssignedToUser(_ context.Context, userID string, from, to time.Time) ([]shift.Shift, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []shift.Shift
	for _, a := range r.store.assignments {
		if a.UserID != userID {
			continue
		}
		sh, ok := r.store.shifts[a.ShiftID]
		if ok && startsIn(sh, from, to) {
			out = append(out, sh)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *shiftRepository) FindLocationDefault(_ context.Context, locationID string, from, to time.Time) (*shift.Shift, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var found *shift.Shift
	for _, sh := range r.store.shifts {
		if !sh.IsLocationDefault || sh.LocationID != locationID || !startsIn(sh, from, to) {
			continue
		}
		if found == nil || sh.StartTime.Before(found.StartTime) {
			sh := sh
			found = &sh
		}
	}
	return found, nil
}

func (r *shiftRepository) GetProjectConfig(_ context.Context, projectID string) (shift.ProjectConfig, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	cfg, ok := r.store.configs[projectID]
	if !ok {
		return shift.ProjectConfig{ProjectID: projectID}, nil
	}
	return cfg, nil
}

func (r *shiftRepository) ListAssignedEndedBetween(_ context.Context, from, to time.Time) ([]shift.AssignedShift, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []shift.AssignedShift
	for _, a := range r.store.assignments {
		sh, ok := r.store.shifts[a.ShiftID]
		if !ok || sh.EndTime.Before(from) || !sh.EndTime.Before(to) {
			continue
		}
		out = append(out, shift.AssignedShift{UserID: a.UserID, Shift: sh})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Shift.EndTime.Before(out[j].Shift.EndTime) })
	return out, nil
}

func startsIn(sh shift.Shift, from, to time.Time) bool {
	return !sh.StartTime.Before(from) && sh.StartTime.Before(to)
}
