package attendance

import "time"

const DefaultToleranceMinutes = 15

// ClassifyTiming compares a check-in against the shift start. The difference
// is truncated to whole minutes and a tolerance of zero or less falls back to
// DefaultToleranceMinutes.
func ClassifyTiming(checkInTime, shiftStart time.Time, toleranceMinutes int) TimingStatus {
	if toleranceMinutes <= 0 {
		toleranceMinutes = DefaultToleranceMinutes
	}

	d := int(checkInTime.Sub(shiftStart) / time.Minute)
	switch {
	case d > toleranceMinutes:
		return TimingLate
	case d < -toleranceMinutes:
		return TimingEarly
	default:
		return TimingOnTime
	}
}
