package location

import "context"

type LocationRepository interface {
	// GetByID returns ErrLocationNotFound when no location has the id.
	GetByID(ctx context.Context, id string) (Location, error)
}
