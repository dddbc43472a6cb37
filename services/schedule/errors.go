package schedule

import (
	"errors"
	"fmt"
)

// ErrInvalidSchedule is the sentinel wrapped by every InvalidScheduleError.
var ErrInvalidSchedule = errors.New("invalid schedule")

// InvalidScheduleError describes the first schedule item that failed validation.
type InvalidScheduleError struct {
	Index  int    `json:"index"`
	Field  string `json:"field"`
	Value  string `json:"value,omitempty"`
	Reason string `json:"reason"`
}

func (e *InvalidScheduleError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("schedule item %d: %s %q: %s", e.Index, e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("schedule item %d: %s: %s", e.Index, e.Field, e.Reason)
}

func (e *InvalidScheduleError) Unwrap() error {
	return ErrInvalidSchedule
}
