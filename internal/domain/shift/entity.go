package shift

import (
	"time"
)

// Source records which precedence rule produced a shift window.
type Source string

const (
	SourceAssigned        Source = "ASSIGNED"
	SourceLocationDefault Source = "LOCATION_DEFAULT"
	SourceProjectDefault  Source = "PROJECT_DEFAULT"
	SourceFlexible        Source = "FLEXIBLE"
)

type Shift struct {
	ID                string
	ProjectID         string
	LocationID        string
	Name              string
	StartTime         time.Time
	EndTime           time.Time
	IsLocationDefault bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type Assignment struct {
	ID        string
	ShiftID   string
	UserID    string
	CreatedAt time.Time
}

// AssignedShift pairs a shift with one of the users it is assigned to.
type AssignedShift struct {
	UserID string
	Shift  Shift
}

type ProjectConfig struct {
	ProjectID string
	// Timezone is an IANA name. Empty or unknown zones resolve to UTC.
	Timezone         string
	DefaultStartTime *string
	DefaultEndTime   *string
	ToleranceMinutes int
}

func (c ProjectConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// HasDefaultTimes reports whether both default start and end are configured.
func (c ProjectConfig) HasDefaultTimes() bool {
	return c.DefaultStartTime != nil && *c.DefaultStartTime != "" &&
		c.DefaultEndTime != nil && *c.DefaultEndTime != ""
}

// Window is the resolved [Start, End) range a check-in is classified against.
type Window struct {
	ShiftID    *string
	Name       string
	ProjectID  string
	LocationID string
	Start      time.Time
	End        time.Time
	Source     Source
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}
