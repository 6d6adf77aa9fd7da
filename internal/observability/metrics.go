package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// DueEvaluations counts due-state evaluations by resulting state.
	DueEvaluations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cadence",
		Name:      "due_evaluations_total",
		Help:      "Number of action due-state evaluations grouped by state.",
	}, []string{"state"})

	// CompletionsRecorded counts completions written to the store.
	CompletionsRecorded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cadence",
		Name:      "completions_recorded_total",
		Help:      "Number of completions recorded.",
	})

	// CompletionsRejected counts completion writes refused, grouped by reason.
	CompletionsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cadence",
		Name:      "completions_rejected_total",
		Help:      "Number of completion writes rejected grouped by reason.",
	}, []string{"reason"})

	// ReminderPrompts counts prompts emitted by the reminder sweep.
	ReminderPrompts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cadence",
		Subsystem: "reminder",
		Name:      "prompts_total",
		Help:      "Number of reminder prompts sent grouped by kind.",
	}, []string{"kind"})

	reminderSweepGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "cadence",
		Subsystem: "reminder",
		Name:      "last_sweep_timestamp_seconds",
		Help:      "Unix timestamp of the most recent completed reminder sweep.",
	})
)

func init() {
	prometheus.MustRegister(DueEvaluations, CompletionsRecorded, CompletionsRejected, ReminderPrompts, reminderSweepGauge)
}

// RecordEvaluation counts one evaluation that produced state.
func RecordEvaluation(state string) {
	DueEvaluations.WithLabelValues(state).Inc()
}

// RecordCompletion counts one recorded completion.
func RecordCompletion() {
	CompletionsRecorded.Inc()
}

// RecordCompletionRejected counts a refused completion write.
func RecordCompletionRejected(reason string) {
	CompletionsRejected.WithLabelValues(reason).Inc()
}

// RecordPrompt counts one reminder prompt of the given kind.
func RecordPrompt(kind string) {
	ReminderPrompts.WithLabelValues(kind).Inc()
}

// RecordSweep updates the reminder sweep watermark gauge.
func RecordSweep(ts time.Time) {
	if ts.IsZero() {
		return
	}
	reminderSweepGauge.Set(float64(ts.Unix()))
}
