package shift

import "context"

// ShiftService resolves the shift window a check-in is measured against.
type ShiftService interface {
	// ResolveShiftForToday applies assigned, location-default, project-default
	// and flexible precedence for the current day in the project's timezone.
	ResolveShiftForToday(ctx context.Context, userID, locationID string) (Window, error)

	// ResolveShiftByID returns the window of a persisted shift.
	ResolveShiftByID(ctx context.Context, shiftID string) (Window, error)

	ProjectConfig(ctx context.Context, projectID string) (ProjectConfig, error)
}
