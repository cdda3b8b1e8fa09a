package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{d: 0, want: "1 minute"},
		{d: 59 * time.Second, want: "1 minute"},
		{d: time.Minute, want: "1 minute"},
		{d: 20 * time.Minute, want: "20 minutes"},
		{d: 20*time.Minute + 59*time.Second, want: "20 minutes"},
		{d: time.Hour, want: "1 hour"},
		{d: time.Hour + 5*time.Minute, want: "1 hour 5 minutes"},
		{d: 3*time.Hour + time.Minute, want: "3 hours 1 minute"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.d))
		})
	}
}

func TestElapsed_ClampsNegative(t *testing.T) {
	start := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Duration(0), Elapsed(start.Add(-time.Minute), start))
	assert.Equal(t, 20*time.Minute, Elapsed(start.Add(20*time.Minute), start))
}

func TestLeaveRecord_Duration(t *testing.T) {
	start := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	open := LeaveRecord{StartTime: start}

	assert.True(t, open.IsOpen())
	assert.Equal(t, 7*time.Minute, open.Duration(start.Add(7*time.Minute)))

	end := start.Add(20 * time.Minute)
	closed := LeaveRecord{StartTime: start, EndTime: &end}

	assert.False(t, closed.IsOpen())
	assert.Equal(t, 20*time.Minute, closed.Duration(start.Add(3*time.Hour)))
	assert.Equal(t, "20 minutes", NewLeaveRecordResponse(closed, start.Add(3*time.Hour)).DurationText)
}

func TestLeaveType_IsValid(t *testing.T) {
	assert.True(t, TypeMeal.IsValid())
	assert.False(t, LeaveType("NAP").IsValid())
}
