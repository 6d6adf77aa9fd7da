package action

import (
	"fmt"
	"slices"
	"strings"
)

// ValidateCreateInput validates fields required to create an action and returns
// the normalized frequency type and weekday set.
func ValidateCreateInput(req CreateRequest) (FrequencyType, []int, error) {
	if strings.TrimSpace(req.Name) == "" {
		return "", nil, ErrInvalidInput
	}
	freq, err := ParseFrequencyType(req.FrequencyType)
	if err != nil {
		return "", nil, err
	}
	if err := ValidateInterval(req.FrequencyInterval); err != nil {
		return "", nil, err
	}
	days, err := NormalizeDays(req.FrequencyDays)
	if err != nil {
		return "", nil, err
	}
	return freq, days, nil
}

// ValidateInterval accepts the reserved interval: unset (0) or 1.
func ValidateInterval(interval int) error {
	switch {
	case interval < 0:
		return ErrInvalidInput
	case interval > DefaultInterval:
		return ErrUnsupportedInterval
	default:
		return nil
	}
}

// NormalizeDays checks weekday indices are in 0..6 and returns them sorted
// without duplicates. Nil and empty both mean "every day" and yield nil.
func NormalizeDays(days []int) ([]int, error) {
	if len(days) == 0 {
		return nil, nil
	}
	out := make([]int, 0, len(days))
	for _, d := range days {
		if d < 0 || d > 6 {
			return nil, fmt.Errorf("%w: weekday index %d out of range 0-6", ErrInvalidInput, d)
		}
		out = append(out, d)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}
