package action

import (
	"log/slog"
	"time"
)

// ListActionsOptions provides filtering options for listing actions.
type ListActionsOptions struct {
	Statuses []Status
	Limit    int
	Offset   int
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the source of "now"; tests pin it to a fixed instant.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the zone whose calendar defines local days.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
