package schedule

import (
	"sort"
	"strconv"
	"strings"

	"chronoboard/models"

	"github.com/google/uuid"
)

// breakTokens mark a period as a break when an item arrives without a kind.
// Every localized synonym must be listed here.
var breakTokens = []string{
	"break",
	"recess",
	"დასვენება",
	"შესვენება",
}

// ClassifyKind infers an item kind from its display name.
func ClassifyKind(name string) string {
	lower := strings.ToLower(name)
	for _, token := range breakTokens {
		if strings.Contains(lower, token) {
			return models.KindBreak
		}
	}
	return models.KindLesson
}

// Validate checks every item of a schedule and returns the first problem as
// an *InvalidScheduleError. Overlapping windows are allowed; the evaluator
// resolves them by sequence order.
func Validate(items []models.ScheduleItem) error {
	seen := make(map[string]int, len(items))
	for i, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			return &InvalidScheduleError{Index: i, Field: "name", Reason: "name is required"}
		}
		if !IsClock(item.StartTime) {
			return &InvalidScheduleError{Index: i, Field: "startTime", Value: item.StartTime, Reason: "expected HH:MM"}
		}
		if !IsClock(item.EndTime) {
			return &InvalidScheduleError{Index: i, Field: "endTime", Value: item.EndTime, Reason: "expected HH:MM"}
		}
		if item.EndTime <= item.StartTime {
			return &InvalidScheduleError{Index: i, Field: "endTime", Value: item.EndTime, Reason: "must be after startTime " + item.StartTime}
		}
		switch item.Kind {
		case "", models.KindLesson, models.KindBreak:
		default:
			return &InvalidScheduleError{Index: i, Field: "kind", Value: item.Kind, Reason: "must be lesson or break"}
		}
		if item.ID != "" {
			if prev, dup := seen[item.ID]; dup {
				return &InvalidScheduleError{Index: i, Field: "id", Value: item.ID, Reason: "duplicates item " + strconv.Itoa(prev)}
			}
			seen[item.ID] = i
		}
	}
	return nil
}

// Prepare normalizes a schedule for storage: clock strings are padded, the
// result is validated, missing ids are assigned, missing kinds are inferred
// from the name, and items are sorted stably by start time.
// The input slice is not modified.
func Prepare(items []models.ScheduleItem) ([]models.ScheduleItem, error) {
	out := make([]models.ScheduleItem, len(items))
	for i, item := range items {
		item.ID = strings.TrimSpace(item.ID)
		item.Name = strings.TrimSpace(item.Name)
		item.Kind = strings.ToLower(strings.TrimSpace(item.Kind))
		item.StartTime = NormalizeClock(item.StartTime)
		item.EndTime = NormalizeClock(item.EndTime)
		out[i] = item
	}
	if err := Validate(out); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = uuid.NewString()
		}
		if out[i].Kind == "" {
			out[i].Kind = ClassifyKind(out[i].Name)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].StartTime < out[b].StartTime
	})
	return out, nil
}

// Classify fills in missing kinds on a schedule read from storage, for
// documents written before items carried an explicit kind.
func Classify(items []models.ScheduleItem) []models.ScheduleItem {
	for i := range items {
		if items[i].Kind == "" {
			items[i].Kind = ClassifyKind(items[i].Name)
		}
	}
	return items
}
