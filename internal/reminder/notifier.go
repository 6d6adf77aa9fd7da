package reminder

import (
	"context"
	"fmt"
	"log/slog"
)

// Kind distinguishes what a prompt is about.
type Kind string

const (
	KindActionDue Kind = "action_due"
	KindSignalDue Kind = "signal_due"
)

// Prompt is one reminder for one tenant.
type Prompt struct {
	TenantID  string
	Date      string
	Kind      Kind
	SubjectID string
	Name      string
	PeriodKey string
}

// Message renders the prompt for humans.
func (p Prompt) Message() string {
	switch p.Kind {
	case KindSignalDue:
		return fmt.Sprintf("time to measure %q", p.Name)
	default:
		return fmt.Sprintf("%q is due (%s)", p.Name, p.PeriodKey)
	}
}

// Notifier delivers prompts.
type Notifier interface {
	Notify(ctx context.Context, p Prompt) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, p Prompt) error

func (f NotifierFunc) Notify(ctx context.Context, p Prompt) error { return f(ctx, p) }

// LogNotifier writes prompts to a structured logger.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(ctx context.Context, p Prompt) error {
	n.log.InfoContext(ctx, "reminder",
		slog.String("tenant_id", p.TenantID),
		slog.String("date", p.Date),
		slog.String("kind", string(p.Kind)),
		slog.String("subject_id", p.SubjectID),
		slog.String("message", p.Message()),
	)
	return nil
}
