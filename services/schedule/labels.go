package schedule

import "strings"

// Labels are the countdown captions for one locale.
type Labels struct {
	LessonEnds   string `json:"lessonEnds"`
	BreakEnds    string `json:"breakEnds"`
	LessonStarts string `json:"lessonStarts"`
	BreakStarts  string `json:"breakStarts"`
}

var labelSets = map[string]Labels{
	"en": {
		LessonEnds:   "until lesson ends",
		BreakEnds:    "until break ends",
		LessonStarts: "until lesson starts",
		BreakStarts:  "until break starts",
	},
	"ka": {
		LessonEnds:   "გაკვეთილის დასრულებამდე",
		BreakEnds:    "შესვენების დასრულებამდე",
		LessonStarts: "გაკვეთილის დაწყებამდე",
		BreakStarts:  "შესვენების დაწყებამდე",
	},
}

// DefaultLocale is used for unknown or empty locales.
const DefaultLocale = "en"

// LabelsFor returns the label set for locale, falling back to English.
func LabelsFor(locale string) Labels {
	if l, ok := labelSets[strings.ToLower(locale)]; ok {
		return l
	}
	return labelSets[DefaultLocale]
}

func (l Labels) pick(active, isBreak bool) string {
	switch {
	case active && isBreak:
		return l.BreakEnds
	case active:
		return l.LessonEnds
	case isBreak:
		return l.BreakStarts
	default:
		return l.LessonStarts
	}
}
