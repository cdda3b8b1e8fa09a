package shift

import "errors"

var (
	ErrShiftNotFound      = errors.New("shift not found")
	ErrShiftConfigMissing = errors.New("project has no default shift times configured")
	ErrInvalidTimeOfDay   = errors.New("time of day must be in HH:MM format")
	ErrLocationMismatch   = errors.New("shift does not belong to this location")
)
