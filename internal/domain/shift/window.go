package shift

import (
	"fmt"
	"time"
)

// Flexible windows open one minute after midnight and close one minute before
// the next, so a check-in is never blocked by missing configuration.
const (
	flexibleStartOffset = time.Minute
	flexibleEndOffset   = 24*time.Hour - time.Minute
)

// DayBounds returns midnight of now's date in loc and the following midnight.
func DayBounds(now time.Time, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// ParseTimeOfDay parses "HH:MM" (or "HH:MM:SS") into an offset from midnight.
func ParseTimeOfDay(s string) (time.Duration, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", s, ErrInvalidTimeOfDay)
}

func WindowFromShift(s Shift, source Source) Window {
	id := s.ID
	return Window{
		ShiftID:    &id,
		Name:       s.Name,
		ProjectID:  s.ProjectID,
		LocationID: s.LocationID,
		Start:      s.StartTime,
		End:        s.EndTime,
		Source:     source,
	}
}

// ProjectDefaultWindow anchors the project's default start/end times to day.
// An end earlier than the start rolls over to the next calendar day.
func ProjectDefaultWindow(cfg ProjectConfig, locationID string, day time.Time) (Window, error) {
	if !cfg.HasDefaultTimes() {
		return Window{}, ErrShiftConfigMissing
	}
	startOffset, err := ParseTimeOfDay(*cfg.DefaultStartTime)
	if err != nil {
		return Window{}, fmt.Errorf("default start time: %w", err)
	}
	endOffset, err := ParseTimeOfDay(*cfg.DefaultEndTime)
	if err != nil {
		return Window{}, fmt.Errorf("default end time: %w", err)
	}

	midnight, _ := DayBounds(day, cfg.Location())
	start := atOffset(midnight, startOffset)
	end := atOffset(midnight, endOffset)
	if end.Before(start) {
		end = atOffset(midnight.AddDate(0, 0, 1), endOffset)
	}

	return Window{
		Name:       "Project default",
		ProjectID:  cfg.ProjectID,
		LocationID: locationID,
		Start:      start,
		End:        end,
		Source:     SourceProjectDefault,
	}, nil
}

func FlexibleWindow(cfg ProjectConfig, locationID string, day time.Time) Window {
	midnight, _ := DayBounds(day, cfg.Location())
	return Window{
		Name:       "Flexible",
		ProjectID:  cfg.ProjectID,
		LocationID: locationID,
		Start:      midnight.Add(flexibleStartOffset),
		End:        midnight.Add(flexibleEndOffset),
		Source:     SourceFlexible,
	}
}

// atOffset uses wall-clock fields so DST transitions keep the configured time.
func atOffset(midnight time.Time, offset time.Duration) time.Time {
	h := int(offset / time.Hour)
	m := int(offset % time.Hour / time.Minute)
	s := int(offset % time.Minute / time.Second)
	return time.Date(midnight.Year(), midnight.Month(), midnight.Day(), h, m, s, 0, midnight.Location())
}
