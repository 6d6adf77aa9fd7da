package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"

	"github.com/rpggio/cadence/internal/domain/action"
	"github.com/rpggio/cadence/internal/domain/activity"
	"github.com/rpggio/cadence/internal/domain/signal"
	"github.com/rpggio/cadence/internal/observability"
)

// DefaultSchedule prompts once a day at 08:00 local time.
const DefaultSchedule = "0 8 * * *"

var ErrNotStarted = errors.New("reminder scheduler not started")

// Config controls the sweep schedule and prompt throughput.
type Config struct {
	Schedule   string
	RatePerSec int
}

// TenantLister enumerates tenants to sweep.
type TenantLister interface {
	ListTenants(ctx context.Context) ([]string, error)
}

// ActionEvaluator returns every non-archived action with its state on date.
type ActionEvaluator interface {
	Today(ctx context.Context, tenantID string, date time.Time) ([]action.ActionState, error)
}

// SignalGate returns the signals that should be measured on date.
type SignalGate interface {
	DueToday(ctx context.Context, tenantID string, date time.Time) ([]signal.Status, error)
}

// ActivityLogger records sent prompts.
type ActivityLogger interface {
	Log(ctx context.Context, tenantID string, entry *activity.ActivityEntry) error
}

// Deps are the collaborators a Service sweeps over. Activities may be nil.
type Deps struct {
	Tenants    TenantLister
	Actions    ActionEvaluator
	Signals    SignalGate
	Notifier   Notifier
	Activities ActivityLogger
}

// Service runs the reminder sweep on a cron schedule.
type Service struct {
	mu sync.Mutex

	log  *slog.Logger
	cfg  Config
	deps Deps
	loc  *time.Location
	now  func() time.Time

	parser  cron.Parser
	c       *cron.Cron
	limiter *rate.Limiter
}

// New creates a reminder service. A nil loc means time.Local.
func New(cfg Config, deps Deps, loc *time.Location, log *slog.Logger) *Service {
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if deps.Notifier == nil {
		deps.Notifier = NewLogNotifier(log)
	}

	limit := rate.Inf
	burst := 1
	if cfg.RatePerSec > 0 {
		limit = rate.Limit(cfg.RatePerSec)
		burst = cfg.RatePerSec
	}

	return &Service{
		log:     log,
		cfg:     cfg,
		deps:    deps,
		loc:     loc,
		now:     time.Now,
		parser:  cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		limiter: rate.NewLimiter(limit, burst),
	}
}

// SetClock replaces the time source used by scheduled sweeps.
func (s *Service) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now != nil {
		s.now = now
	}
}

func (s *Service) clock() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now()
}

// Start validates the schedule and begins running sweeps. Calling Start on a
// running service is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.c != nil {
		return nil
	}

	sched, err := s.parser.Parse(s.cfg.Schedule)
	if err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", s.cfg.Schedule, err)
	}

	c := cron.New(cron.WithParser(s.parser), cron.WithLocation(s.loc))
	c.Schedule(sched, cron.FuncJob(func() {
		if _, err := s.Sweep(ctx, s.clock()); err != nil {
			s.log.Warn("reminder sweep failed", "error", err)
		}
	}))
	c.Start()
	s.c = c

	s.log.Info("reminder scheduler started", slog.String("schedule", s.cfg.Schedule), slog.String("tz", s.loc.String()))
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Service) Stop() error {
	s.mu.Lock()
	c := s.c
	s.c = nil
	s.mu.Unlock()
	if c == nil {
		return ErrNotStarted
	}
	<-c.Stop().Done()
	s.log.Info("reminder scheduler stopped")
	return nil
}

// Sweep evaluates every tenant on the local day containing now and sends one
// prompt per due action and per signal to measure. Failures for one tenant do
// not stop the others; the returned error joins them.
func (s *Service) Sweep(ctx context.Context, now time.Time) (int, error) {
	tenants, err := s.deps.Tenants.ListTenants(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing tenants: %w", err)
	}

	local := now.In(s.loc)
	sent := 0
	var errs []error
	for _, tenantID := range tenants {
		prompts, err := s.collect(ctx, tenantID, local)
		if err != nil {
			s.log.Warn("reminder collection failed", "tenant_id", tenantID, "error", err)
			errs = append(errs, err)
		}
		for _, p := range prompts {
			if err := s.send(ctx, p); err != nil {
				if ctx.Err() != nil {
					return sent, errors.Join(append(errs, ctx.Err())...)
				}
				s.log.Warn("reminder prompt failed", "tenant_id", tenantID, "kind", p.Kind, "subject_id", p.SubjectID, "error", err)
				errs = append(errs, err)
				continue
			}
			sent++
		}
	}

	observability.RecordSweep(now)
	s.log.Debug("reminder sweep finished", "tenants", len(tenants), "prompts", sent)
	return sent, errors.Join(errs...)
}

func (s *Service) collect(ctx context.Context, tenantID string, local time.Time) ([]Prompt, error) {
	date := local.Format(action.DateLayout)
	var prompts []Prompt
	var errs []error

	if s.deps.Actions != nil {
		states, err := s.deps.Actions.Today(ctx, tenantID, local)
		if err != nil {
			errs = append(errs, fmt.Errorf("evaluating actions for %s: %w", tenantID, err))
		}
		for _, st := range states {
			if st.State != action.StateDue {
				continue
			}
			prompts = append(prompts, Prompt{
				TenantID:  tenantID,
				Date:      date,
				Kind:      KindActionDue,
				SubjectID: st.Action.ID,
				Name:      st.Action.Name,
				PeriodKey: st.PeriodKey,
			})
		}
	}

	if s.deps.Signals != nil {
		due, err := s.deps.Signals.DueToday(ctx, tenantID, local)
		if err != nil {
			errs = append(errs, fmt.Errorf("checking signals for %s: %w", tenantID, err))
		}
		for _, st := range due {
			prompts = append(prompts, Prompt{
				TenantID:  tenantID,
				Date:      date,
				Kind:      KindSignalDue,
				SubjectID: st.Signal.ID,
				Name:      st.Signal.Name,
			})
		}
	}

	return prompts, errors.Join(errs...)
}

func (s *Service) send(ctx context.Context, p Prompt) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	if err := s.deps.Notifier.Notify(ctx, p); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	observability.RecordPrompt(string(p.Kind))

	if s.deps.Activities == nil {
		return nil
	}
	entry := &activity.ActivityEntry{
		ActivityType: activity.TypePromptSent,
		Summary:      p.Message(),
		CreatedAt:    s.clock(),
	}
	id := p.SubjectID
	switch p.Kind {
	case KindActionDue:
		entry.ActionID = &id
	case KindSignalDue:
		entry.SignalID = &id
	}
	if err := s.deps.Activities.Log(ctx, p.TenantID, entry); err != nil {
		s.log.Warn("failed to log activity", "type", entry.ActivityType, "subject_id", id, "error", err)
	}
	return nil
}
