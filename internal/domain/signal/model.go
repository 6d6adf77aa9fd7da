package signal

import (
	"fmt"
	"strings"
	"time"
)

// Frequency is how often a signal should be re-measured.
type Frequency string

const (
	FrequencyDaily       Frequency = "daily"
	FrequencyTwiceWeekly Frequency = "2-3_weekly"
	FrequencyWeekly      Frequency = "weekly"
)

// NormalizeFrequency lowercases and trims f and accepts "2-3 weekly" as a
// spelling of FrequencyTwiceWeekly.
func NormalizeFrequency(f string) Frequency {
	s := strings.ToLower(strings.TrimSpace(f))
	return Frequency(strings.Join(strings.Fields(s), "_"))
}

func (f Frequency) IsValid() bool {
	switch NormalizeFrequency(string(f)) {
	case FrequencyDaily, FrequencyTwiceWeekly, FrequencyWeekly:
		return true
	default:
		return false
	}
}

// ParseFrequency normalizes user input into a known frequency.
func ParseFrequency(input string) (Frequency, error) {
	f := NormalizeFrequency(input)
	if !f.IsValid() {
		return "", fmt.Errorf("%w: frequency %q", ErrInvalidInput, input)
	}
	return f, nil
}

// Signal is a periodically measured value, tracked apart from actions.
type Signal struct {
	ID             string     `json:"id"`
	TenantID       string     `json:"tenant_id"`
	Name           string     `json:"name"`
	Unit           string     `json:"unit,omitempty"`
	Frequency      Frequency  `json:"frequency"`
	LastMeasuredAt *time.Time `json:"last_measured_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Measurement is one recorded value of a signal.
type Measurement struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"tenant_id"`
	SignalID   string    `json:"signal_id"`
	Value      float64   `json:"value"`
	MeasuredAt time.Time `json:"measured_at"`
}

// Status is the gate decision for a signal on a date.
type Status struct {
	Signal        Signal `json:"signal"`
	Date          string `json:"date"`
	ShouldMeasure bool   `json:"should_measure"`
	DaysSinceLast *int   `json:"days_since_last,omitempty"`
}
