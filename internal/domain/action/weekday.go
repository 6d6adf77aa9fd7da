package action

import (
	"slices"
	"time"
)

// AppWeekday converts Go's Sunday-first weekday to the Monday-first index used
// by FrequencyDays: Monday is 0 and Sunday is 6.
func AppWeekday(date time.Time) int {
	return (int(date.Weekday()) + 6) % 7
}

// AllowedOn reports whether date falls on one of days. An empty set allows every day.
func AllowedOn(date time.Time, days []int) bool {
	if len(days) == 0 {
		return true
	}
	return slices.Contains(days, AppWeekday(date))
}
