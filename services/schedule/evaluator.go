// Package schedule evaluates a school's bell schedule against the wall clock:
// which period is active, how long until the next boundary, and whether the
// bell rings on this tick.
package schedule

import (
	"time"

	"chronoboard/models"
)

// Countdown is the time left until the next schedule boundary.
type Countdown struct {
	Label   string `json:"label"`
	Time    string `json:"time"`
	Seconds int64  `json:"seconds"`
}

// State is the evaluator output for a single tick.
type State struct {
	ActiveItemID *string    `json:"activeItemId"`
	NextItemID   *string    `json:"nextItemId,omitempty"`
	Countdown    *Countdown `json:"countdown"`
	Ring         bool       `json:"ring"`
}

// Evaluate computes the display state of items at now. The schedule is taken
// as-is: the first item (in sequence order) whose [startTime, endTime) window
// contains now's "HH:MM" is active. When none is, the nearest upcoming item is
// counted down to, wrapping to the earliest item of the day after the last one.
func Evaluate(items []models.ScheduleItem, now time.Time, labels Labels) State {
	var st State
	if len(items) == 0 {
		return st
	}
	clock := ClockOf(now)

	var (
		target  time.Time
		ok      bool
		label   string
		pending bool
	)
	if active := findActive(items, clock); active != nil {
		id := active.ID
		st.ActiveItemID = &id
		target, ok = atClock(now, active.EndTime)
		label = labels.pick(true, active.IsBreak())
		pending = ok
	} else if next := findNext(items, clock); next != nil {
		id := next.ID
		st.NextItemID = &id
		target, ok = atClock(now, next.StartTime)
		if ok && target.Before(now) {
			target = target.AddDate(0, 0, 1)
		}
		label = labels.pick(false, next.IsBreak())
		pending = ok
	}

	if pending {
		if diff := target.Sub(now); diff >= 0 {
			secs := int64(diff / time.Second)
			st.Countdown = &Countdown{
				Label:   label,
				Time:    FormatCountdown(secs),
				Seconds: secs,
			}
		}
	}

	st.Ring = ShouldRing(items, now)
	return st
}

// ShouldRing reports whether a bell fires at now: only on the zeroth second of
// a minute that equals some item's start or end time. Any number of matching
// boundaries yields a single ring.
func ShouldRing(items []models.ScheduleItem, now time.Time) bool {
	return now.Second() == 0 && IsBoundary(items, now)
}

// IsBoundary reports whether the minute of now is a start or end time of any
// item, ignoring seconds.
func IsBoundary(items []models.ScheduleItem, now time.Time) bool {
	clock := ClockOf(now)
	for _, item := range items {
		if item.StartTime == clock || item.EndTime == clock {
			return true
		}
	}
	return false
}

func findActive(items []models.ScheduleItem, clock string) *models.ScheduleItem {
	for i := range items {
		if items[i].StartTime <= clock && clock < items[i].EndTime {
			return &items[i]
		}
	}
	return nil
}

// findNext picks the item with the smallest start after clock. Past the last
// start of the day it wraps to the item with the smallest start overall.
// Ties keep sequence order.
func findNext(items []models.ScheduleItem, clock string) *models.ScheduleItem {
	var next, first *models.ScheduleItem
	for i := range items {
		item := &items[i]
		if first == nil || item.StartTime < first.StartTime {
			first = item
		}
		if item.StartTime > clock && (next == nil || item.StartTime < next.StartTime) {
			next = item
		}
	}
	if next != nil {
		return next
	}
	return first
}
