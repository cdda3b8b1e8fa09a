package memory

import (
	"context"

	"github.com/nexts-consulting/fms-attendance/internal/domain/location"
)

type locationRepository struct {
	store *Store
}

func NewLocationRepository(store *Store) location.LocationRepository {
	return &locationRepository{store: store}
}

func (r *locationRepository) GetByID(_ context.Context, id string) (location.Location, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	l, ok := r.store.locations[id]
	if !ok {
		return location.Location{}, location.ErrLocationNotFound
	}
	return l, nil
}
