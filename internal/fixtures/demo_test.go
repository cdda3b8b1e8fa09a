package fixtures

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/nexts-consulting/fms-attendance/internal/pkg/clock"
	"github.com/nexts-consulting/fms-attendance/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	now := time.Date(2026, 10, 19, 3, 0, 0, 0, time.UTC)
	store := memory.NewStore(clock.NewManual(now))

	ids := Seed(store, now, 2)
	require.Len(t, ids.LocationIDs, 2)
	require.Len(t, ids.ShiftIDs, 4)

	ctx := context.Background()
	shifts := memory.NewShiftRepository(store)

	cfg, err := shifts.GetProjectConfig(ctx, DemoProjectID)
	require.NoError(t, err)
	assert.True(t, cfg.HasDefaultTimes())

	// 07:00 Asia/Jakarta is 00:00 UTC.
	def, err := shifts.FindLocationDefault(ctx, ids.LocationIDs[0], now.Add(-12*time.Hour), now.Add(12*time.Hour))
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), def.StartTime)

	assigned, err := shifts.FindAssignedToUser(ctx, DemoUserID, now, now.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Len(t, assigned, 2)

	loc, err := memory.NewLocationRepository(store).GetByID(ctx, ids.LocationIDs[1])
	require.NoError(t, err)
	assert.Equal(t, "Warehouse", loc.Name)
}
