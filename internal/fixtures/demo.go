// Package fixtures seeds a memory store with a small demo project so the
// memory database driver is usable without any master data service.
package fixtures

import (
	"time"

	"github.com/nexts-consulting/fms-attendance/internal/domain/location"
	"github.com/nexts-consulting/fms-attendance/internal/domain/shift"
	"github.com/nexts-consulting/fms-attendance/internal/repository/memory"
)

const (
	DemoProjectID = "demo-project"
	DemoTimezone  = "Asia/Jakarta"
	DemoUserID    = "demo-user"
)

// SeededDataIDs tracks the ids created by Seed.
type SeededDataIDs struct {
	LocationIDs []string
	ShiftIDs    []string
}

func strPtr(s string) *string { return &s }

func GetDemoProjectConfig() shift.ProjectConfig {
	return shift.ProjectConfig{
		ProjectID:        DemoProjectID,
		Timezone:         DemoTimezone,
		DefaultStartTime: strPtr("08:00"),
		DefaultEndTime:   strPtr("17:00"),
		ToleranceMinutes: 15,
	}
}

func GetDemoLocations() []location.Location {
	return []location.Location{
		{ProjectID: DemoProjectID, Name: "Central Store", Latitude: -6.2088, Longitude: 106.8456, RadiusMeters: 100},
		{ProjectID: DemoProjectID, Name: "Warehouse", Latitude: -6.1751, Longitude: 106.8650, RadiusMeters: 250},
	}
}

// Seed adds the demo project config, its locations and, for each of the next
// days, a location-default morning shift at the first location plus a night
// shift at the warehouse assigned to DemoUserID.
func Seed(store *memory.Store, now time.Time, days int) SeededDataIDs {
	ids := SeededDataIDs{}

	cfg := GetDemoProjectConfig()
	store.SetProjectConfig(cfg)

	var locs []location.Location
	for _, l := range GetDemoLocations() {
		l = store.AddLocation(l)
		locs = append(locs, l)
		ids.LocationIDs = append(ids.LocationIDs, l.ID)
	}

	tz := cfg.Location()
	local := now.In(tz)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, tz)

	for i := 0; i < days; i++ {
		d := midnight.AddDate(0, 0, i)

		morning := store.AddShift(shift.Shift{
			ProjectID:         DemoProjectID,
			LocationID:        locs[0].ID,
			Name:              "Morning",
			StartTime:         d.Add(7 * time.Hour).UTC(),
			EndTime:           d.Add(15 * time.Hour).UTC(),
			IsLocationDefault: true,
		})

		night := store.AddShift(shift.Shift{
			ProjectID:  DemoProjectID,
			LocationID: locs[1].ID,
			Name:       "Night",
			StartTime:  d.Add(22 * time.Hour).UTC(),
			EndTime:    d.Add(30 * time.Hour).UTC(),
		}, DemoUserID)

		ids.ShiftIDs = append(ids.ShiftIDs, morning.ID, night.ID)
	}

	return ids
}
