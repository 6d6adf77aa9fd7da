package signal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/cadence/internal/domain/activity"
	"github.com/rpggio/cadence/internal/repository"
)

// Service handles signal operations.
type Service struct {
	repo       Repository
	activities ActivityRepository
	logger     *slog.Logger
	now        func() time.Time
	loc        *time.Location
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the source of "now".
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

// NewService creates a new signal service. activities and logger may be nil.
func NewService(repo Repository, activities ActivityRepository, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{
		repo:       repo,
		activities: activities,
		logger:     logger,
		now:        time.Now,
		loc:        time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateRequest defines signal creation inputs.
type CreateRequest struct {
	ID        string
	Name      string
	Unit      string
	Frequency string
}

// MeasureRequest records one value of a signal. A zero At means now.
type MeasureRequest struct {
	SignalID string
	Value    float64
	At       time.Time
}

// Create creates a new signal.
func (s *Service) Create(ctx context.Context, tenantID string, req CreateRequest) (*Signal, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidInput
	}
	freq, err := ParseFrequency(req.Frequency)
	if err != nil {
		return nil, err
	}

	id := req.ID
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}

	sig := &Signal{
		ID:        id,
		TenantID:  tenantID,
		Name:      strings.TrimSpace(req.Name),
		Unit:      req.Unit,
		Frequency: freq,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, tenantID, sig); err != nil {
		return nil, fmt.Errorf("creating signal: %w", err)
	}

	s.logActivity(ctx, tenantID, sig.ID, activity.TypeSignalCreated, fmt.Sprintf("created %s signal %q", sig.Frequency, sig.Name))
	return sig, nil
}

// Get fetches a signal by ID.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*Signal, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidInput
	}
	sig, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSignalNotFound
		}
		return nil, fmt.Errorf("getting signal: %w", err)
	}
	return sig, nil
}

// List returns all signals for a tenant.
func (s *Service) List(ctx context.Context, tenantID string) ([]Signal, error) {
	return s.repo.List(ctx, tenantID)
}

// RecordMeasurement stores a measurement and advances the signal's last-measured time.
func (s *Service) RecordMeasurement(ctx context.Context, tenantID string, req MeasureRequest) (*Measurement, error) {
	if _, err := s.Get(ctx, tenantID, req.SignalID); err != nil {
		return nil, err
	}
	at := req.At
	if at.IsZero() {
		at = s.now()
	}

	m := &Measurement{
		ID:         uuid.NewString(),
		TenantID:   tenantID,
		SignalID:   req.SignalID,
		Value:      req.Value,
		MeasuredAt: at,
	}
	if err := s.repo.AddMeasurement(ctx, tenantID, m); err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, ErrSignalNotFound
		}
		return nil, fmt.Errorf("recording measurement: %w", err)
	}

	s.logActivity(ctx, tenantID, m.SignalID, activity.TypeMeasurementRecorded, fmt.Sprintf("measured %g", m.Value))
	return m, nil
}

// ShouldMeasure applies the frequency gate to one signal on date.
func (s *Service) ShouldMeasure(ctx context.Context, tenantID, id string, date time.Time) (*Status, error) {
	sig, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	st := s.status(*sig, date)
	return &st, nil
}

// DueToday returns the signals that should be measured on date.
func (s *Service) DueToday(ctx context.Context, tenantID string, date time.Time) ([]Status, error) {
	signals, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing signals: %w", err)
	}
	due := []Status{}
	for _, sig := range signals {
		if st := s.status(sig, date); st.ShouldMeasure {
			due = append(due, st)
		}
	}
	return due, nil
}

// Measurements lists recorded values for a signal, newest first.
func (s *Service) Measurements(ctx context.Context, tenantID, id string, limit int) ([]Measurement, error) {
	if _, err := s.Get(ctx, tenantID, id); err != nil {
		return nil, err
	}
	return s.repo.ListMeasurements(ctx, tenantID, id, limit)
}

func (s *Service) status(sig Signal, date time.Time) Status {
	local := date.In(s.loc)
	st := Status{
		Signal:        sig,
		Date:          local.Format(dateLayout),
		ShouldMeasure: ShouldMeasure(sig.Frequency, local, sig.LastMeasuredAt, s.now()),
	}
	if sig.LastMeasuredAt != nil {
		days := DaysBetween(local, sig.LastMeasuredAt.In(s.loc))
		st.DaysSinceLast = &days
	}
	return st
}

func (s *Service) logActivity(ctx context.Context, tenantID, signalID string, typ activity.ActivityType, summary string) {
	if s.activities == nil {
		return
	}
	id := signalID
	if err := s.activities.Log(ctx, tenantID, &activity.ActivityEntry{
		SignalID:     &id,
		ActivityType: typ,
		Summary:      summary,
		CreatedAt:    s.now(),
	}); err != nil {
		s.logger.Warn("failed to log activity", "type", typ, "signal_id", signalID, "error", err)
	}
}
