package action

import "time"

// Evaluate classifies a for date given which period keys already hold a
// completion. A completed period wins over the weekday filter, and the weekday
// filter applies to daily actions only: weekly, monthly and once actions are due
// on any day of their period until completed.
func Evaluate(a Action, date time.Time, completed map[string]bool) DueState {
	if !a.Active || a.Status == StatusPaused || a.Status == StatusArchived {
		return StateNotDue
	}

	key := PeriodKey(date, a.FrequencyType)
	if completed[key] {
		return StateCompleted
	}

	if a.FrequencyType == FrequencyDaily && !AllowedOn(date, a.FrequencyDays) {
		return StateNotDue
	}
	return StateDue
}
