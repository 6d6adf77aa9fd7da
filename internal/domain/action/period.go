package action

import "time"

// DateLayout is the calendar-date format used for daily keys and date inputs.
const DateLayout = "2006-01-02"

// OncePeriodKey is the single lifetime period of a once action.
const OncePeriodKey = "ONCE"

// PeriodKey returns the bucket identifier for date under freq. Two dates share a
// key exactly when they fall in the same period. The calendar fields of date are
// read in date's own location, so callers convert to the local zone first.
// Unrecognized frequencies use the daily scheme.
func PeriodKey(date time.Time, freq FrequencyType) string {
	switch freq {
	case FrequencyWeekly:
		return "W_" + weekStart(date).Format(DateLayout)
	case FrequencyMonthly:
		return "M_" + date.Format("2006-01")
	case FrequencyOnce:
		return OncePeriodKey
	default:
		return date.Format(DateLayout)
	}
}

// weekStart returns the Monday on or before date, at noon to stay clear of DST gaps.
func weekStart(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d-AppWeekday(date), 12, 0, 0, 0, date.Location())
}

// periodKeysFor lists the distinct keys date maps to across every frequency type.
func periodKeysFor(date time.Time) []string {
	return []string{
		PeriodKey(date, FrequencyDaily),
		PeriodKey(date, FrequencyWeekly),
		PeriodKey(date, FrequencyMonthly),
		OncePeriodKey,
	}
}
