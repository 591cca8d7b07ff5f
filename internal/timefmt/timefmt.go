package timefmt

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// To12Hour converts a 24-hour clock string ("14:30:00" or "14:30") into a
// 12-hour display label ("2:30 PM"). Midnight renders as 12 AM, noon as
// 12 PM. Malformed input is returned unchanged.
func To12Hour(clock string) string {
	if clock == "" {
		return ""
	}

	parts := strings.Split(clock, ":")
	if len(parts) < 2 {
		return clock
	}

	hoursNum, err := strconv.Atoi(parts[0])
	if err != nil {
		return clock
	}

	period := "AM"
	if hoursNum >= 12 {
		period = "PM"
	}

	hours12 := hoursNum % 12
	if hours12 == 0 {
		hours12 = 12
	}

	return fmt.Sprintf("%d:%s %s", hours12, parts[1], period)
}

// ParseSlotLabel is the inverse of To12Hour: it parses a display label like
// "2:30 PM" and pins it onto the given calendar date. 12 AM maps to hour 0,
// 12 PM stays at hour 12.
func ParseSlotLabel(label string, date time.Time) (time.Time, error) {
	const op = "timefmt.ParseSlotLabel"

	fields := strings.Fields(label)
	if len(fields) != 2 {
		return time.Time{}, fmt.Errorf("%s: malformed label %q", op, label)
	}

	hm := strings.Split(fields[0], ":")
	if len(hm) != 2 {
		return time.Time{}, fmt.Errorf("%s: malformed label %q", op, label)
	}

	hours, err := strconv.Atoi(hm[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", op, err)
	}

	minutes, err := strconv.Atoi(hm[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", op, err)
	}

	switch fields[1] {
	case "PM":
		if hours != 12 {
			hours += 12
		}
	case "AM":
		if hours == 12 {
			hours = 0
		}
	default:
		return time.Time{}, fmt.Errorf("%s: unknown meridian in %q", op, label)
	}

	return time.Date(date.Year(), date.Month(), date.Day(), hours, minutes, 0, 0, date.Location()), nil
}

// Clock is an explicit hour/minute pair, the structured alternative to an
// "HH:MM" string in form submissions.
type Clock struct {
	Hour   int
	Minute int
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:00", c.Hour, c.Minute)
}

// NormalizeClock turns "H:M", "HH:MM" or "HH:MM:SS" into the zero-padded
// "HH:MM:00" form the upstream API expects.
func NormalizeClock(s string) (string, error) {
	const op = "timefmt.NormalizeClock"

	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return "", fmt.Errorf("%s: malformed clock %q", op, s)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return "", fmt.Errorf("%s: clock %q out of range", op, s)
	}

	return Clock{Hour: hours, Minute: minutes}.String(), nil
}

// CombineDateClock builds a precise instant from a calendar date and an
// "HH:MM" or "HH:MM:SS" clock string.
func CombineDateClock(date time.Time, clock string) (time.Time, error) {
	const op = "timefmt.CombineDateClock"

	parts := strings.Split(clock, ":")
	if len(parts) < 2 {
		return time.Time{}, fmt.Errorf("%s: malformed clock %q", op, clock)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", op, err)
	}

	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", op, err)
	}

	return time.Date(date.Year(), date.Month(), date.Day(), hours, minutes, 0, 0, date.Location()), nil
}

// TruncateToDate drops the time-of-day component in the given location.
func TruncateToDate(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// SameDate reports whether two instants fall on the same calendar day,
// ignoring time-of-day entirely.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
