package signal

import "time"

const dateLayout = "2006-01-02"

// remeasureAfter is the minimum number of whole days between measurements.
var remeasureAfter = map[Frequency]int{
	FrequencyTwiceWeekly: 2,
	FrequencyWeekly:      7,
}

// ShouldMeasure reports whether a signal with frequency freq should be prompted
// on date. now supplies today; now and last are read in date's location and
// every comparison is between midnight-normalized days. Dates before today are
// never prompted, and an unknown frequency is never due.
func ShouldMeasure(freq Frequency, date time.Time, last *time.Time, now time.Time) bool {
	loc := date.Location()
	if civilDay(date).Before(civilDay(now.In(loc))) {
		return false
	}

	f := NormalizeFrequency(string(freq))
	if f == FrequencyDaily {
		return true
	}
	minDays, ok := remeasureAfter[f]
	if !ok {
		return false
	}
	if last == nil {
		return true
	}
	return DaysBetween(date, last.In(loc)) >= minDays
}

// DaysBetween counts whole calendar days from earlier to later. It is negative
// when later is the earlier day.
func DaysBetween(later, earlier time.Time) int {
	return int(civilDay(later).Sub(civilDay(earlier)) / (24 * time.Hour))
}

// civilDay maps t's calendar date onto a UTC midnight so day arithmetic is
// unaffected by DST transitions in t's zone.
func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
