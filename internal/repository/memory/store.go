// Package memory holds mutex-guarded repositories used by tests and by the
// memory database driver. They enforce the same one-open-record rules as the
// PostgreSQL partial unique indexes.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nexts-consulting/fms-attendance/internal/domain/attendance"
	"github.com/nexts-consulting/fms-attendance/internal/domain/leave"
	"github.com/nexts-consulting/fms-attendance/internal/domain/location"
	"github.com/nexts-consulting/fms-attendance/internal/domain/shift"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/clock"
)

type Store struct {
	mu    sync.RWMutex
	clock clock.Clock

	locations   map[string]location.Location
	shifts      map[string]shift.Shift
	assignments []shift.Assignment
	configs     map[string]shift.ProjectConfig
	attendances map[string]attendance.Attendance
	leaves      map[string]leave.LeaveRecord
}

func NewStore(clk clock.Clock) *Store {
	if clk == nil {
		clk = clock.Real()
	}
	return &Store{
		clock:       clk,
		locations:   make(map[string]location.Location),
		shifts:      make(map[string]shift.Shift),
		configs:     make(map[string]shift.ProjectConfig),
		attendances: make(map[string]attendance.Attendance),
		leaves:      make(map[string]leave.LeaveRecord),
	}
}

// WithinTransaction runs fn directly. Each repository call is atomic on its
// own and the conditional writes carry the invariants.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *Store) AddLocation(l location.Location) location.Location {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	now := s.clock.Now()
	l.CreatedAt, l.UpdatedAt = now, now
	s.locations[l.ID] = l
	return l
}

func (s *Store) AddShift(sh shift.Shift, userIDs ...string) shift.Shift {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sh.ID == "" {
		sh.ID = uuid.NewString()
	}
	now := s.clock.Now()
	sh.CreatedAt, sh.UpdatedAt = now, now
	s.shifts[sh.ID] = sh
	for _, userID := range userIDs {
		s.assignments = append(s.assignments, shift.Assignment{
			ID:        uuid.NewString(),
			ShiftID:   sh.ID,
			UserID:    userID,
			CreatedAt: now,
		})
	}
	return sh
}

func (s *Store) SetProjectConfig(cfg shift.ProjectConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[cfg.ProjectID] = cfg
}

func (s *Store) now() time.Time {
	return s.clock.Now()
}
