package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyTiming(t *testing.T) {
	shiftStart := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		checkIn   time.Time
		tolerance int
		want      TimingStatus
	}{
		{name: "exactly on start", checkIn: shiftStart, tolerance: 15, want: TimingOnTime},
		{name: "15 minutes early is on time", checkIn: shiftStart.Add(-15 * time.Minute), tolerance: 15, want: TimingOnTime},
		{name: "16 minutes early", checkIn: shiftStart.Add(-16 * time.Minute), tolerance: 15, want: TimingEarly},
		{name: "15 minutes late is on time", checkIn: shiftStart.Add(15 * time.Minute), tolerance: 15, want: TimingOnTime},
		{name: "16 minutes late", checkIn: shiftStart.Add(16 * time.Minute), tolerance: 15, want: TimingLate},
		{name: "partial minute is truncated", checkIn: shiftStart.Add(15*time.Minute + 59*time.Second), tolerance: 15, want: TimingOnTime},
		{name: "zero tolerance uses default", checkIn: shiftStart.Add(10 * time.Minute), tolerance: 0, want: TimingOnTime},
		{name: "negative tolerance uses default", checkIn: shiftStart.Add(16 * time.Minute), tolerance: -5, want: TimingLate},
		{name: "custom tolerance", checkIn: shiftStart.Add(6 * time.Minute), tolerance: 5, want: TimingLate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyTiming(tt.checkIn, shiftStart, tt.tolerance))
		})
	}
}
