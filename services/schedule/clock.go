package schedule

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// clockPattern matches a zero-padded 24h "HH:MM" string.
var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// looseClockPattern also accepts a single-digit hour, as typed into time inputs.
var looseClockPattern = regexp.MustCompile(`^([0-9]|[01][0-9]|2[0-3]):[0-5][0-9]$`)

// IsClock reports whether s is a valid zero-padded "HH:MM" string.
func IsClock(s string) bool {
	return clockPattern.MatchString(s)
}

// NormalizeClock trims s and zero-pads a single-digit hour ("8:05" -> "08:05").
// Strings that are not clock-like are returned trimmed but otherwise untouched.
func NormalizeClock(s string) string {
	s = strings.TrimSpace(s)
	if looseClockPattern.MatchString(s) && len(s) == 4 {
		return "0" + s
	}
	return s
}

// ClockOf renders t's wall-clock minute as "HH:MM".
func ClockOf(t time.Time) string {
	return t.Format("15:04")
}

func parseClock(s string) (hour, minute int, ok bool) {
	if !IsClock(s) {
		return 0, 0, false
	}
	h, err := strconv.Atoi(s[:2])
	if err != nil {
		return 0, 0, false
	}
	m, err := strconv.Atoi(s[3:])
	if err != nil {
		return 0, 0, false
	}
	return h, m, true
}

// atClock returns the instant on now's calendar day, in now's location, at the
// given "HH:MM" with zero seconds.
func atClock(now time.Time, clock string) (time.Time, bool) {
	h, m, ok := parseClock(clock)
	if !ok {
		return time.Time{}, false
	}
	y, mo, d := now.Date()
	return time.Date(y, mo, d, h, m, 0, 0, now.Location()), true
}

// FormatCountdown renders whole seconds as "MM:SS", or "HH:MM:SS" once an hour or more remains.
func FormatCountdown(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return pad2(h) + ":" + pad2(m) + ":" + pad2(s)
	}
	return pad2(m) + ":" + pad2(s)
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
