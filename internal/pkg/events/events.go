package events

import (
	"context"
	"time"
)

//go:generate mockgen -source=events.go -destination=mock/publisher_mock.go -package=mock

const (
	AttendanceCheckedIn      = "attendance.checked_in"
	AttendanceCheckedOut     = "attendance.checked_out"
	AttendanceAutoCheckedOut = "attendance.auto_checked_out"
	AttendanceMarkedAbsent   = "attendance.marked_absent"
	LeaveStarted             = "leave.started"
	LeaveEnded               = "leave.ended"
)

// Event is a state transition notification. Key orders events per user on the
// broker side.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
	Close() error
}

type noopPublisher struct{}

// Noop returns a Publisher that drops every event.
func Noop() Publisher { return noopPublisher{} }

func (noopPublisher) Publish(context.Context, ...Event) error { return nil }

func (noopPublisher) Close() error { return nil }
