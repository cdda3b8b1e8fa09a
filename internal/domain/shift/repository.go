package shift

import (
	"context"
	"time"
)

type ShiftRepository interface {
	// GetByID returns ErrShiftNotFound when no shift has the id.
	GetByID(ctx context.Context, id string) (Shift, error)

	// FindAssignedToUser returns shifts assigned to userID that start in
	// [from, to), ordered by start time.
	FindAssignedToUser(ctx context.Context, userID string, from, to time.Time) ([]Shift, error)

	// FindLocationDefault returns the location-default shift starting in
	// [from, to), or nil when there is none.
	FindLocationDefault(ctx context.Context, locationID string, from, to time.Time) (*Shift, error)

	// GetProjectConfig returns a zero config carrying only the project id when
	// the project has none stored.
	GetProjectConfig(ctx context.Context, projectID string) (ProjectConfig, error)

	// ListAssignedEndedBetween returns every (user, shift) assignment whose
	// shift ended in [from, to).
	ListAssignedEndedBetween(ctx context.Context, from, to time.Time) ([]AssignedShift, error)
}
