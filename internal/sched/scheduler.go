// Package sched runs the background loops: the event-state poll, the
// periodic reconciliation pass, and the idle-reminder check. Each tick body
// is a plain method so the loops stay trivially testable.
package sched

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/example/cruisebot/internal/apperr"
	"github.com/example/cruisebot/internal/ports/primary"
	"github.com/example/cruisebot/internal/ports/secondary"
)

// Intervals carries the loop periods.
type Intervals struct {
	EventPoll    time.Duration
	Reconcile    time.Duration
	IdleReminder time.Duration
}

// DefaultIntervals returns the production loop periods.
func DefaultIntervals() Intervals {
	return Intervals{
		EventPoll:    time.Minute,
		Reconcile:    5 * time.Minute,
		IdleReminder: time.Minute,
	}
}

// Scheduler drives the ledger service on timers.
type Scheduler struct {
	svc       primary.LedgerService
	probe     secondary.EventProbe
	logger    *zap.Logger
	intervals Intervals
}

// NewScheduler creates a scheduler over the given service and probe.
func NewScheduler(svc primary.LedgerService, probe secondary.EventProbe, logger *zap.Logger, intervals Intervals) *Scheduler {
	d := DefaultIntervals()
	if intervals.EventPoll <= 0 {
		intervals.EventPoll = d.EventPoll
	}
	if intervals.Reconcile <= 0 {
		intervals.Reconcile = d.Reconcile
	}
	if intervals.IdleReminder <= 0 {
		intervals.IdleReminder = d.IdleReminder
	}
	return &Scheduler{svc: svc, probe: probe, logger: logger, intervals: intervals}
}

// Run blocks until ctx is cancelled, firing each tick on its own timer.
func (s *Scheduler) Run(ctx context.Context) error {
	eventTicker := time.NewTicker(s.intervals.EventPoll)
	defer eventTicker.Stop()
	reconcileTicker := time.NewTicker(s.intervals.Reconcile)
	defer reconcileTicker.Stop()
	reminderTicker := time.NewTicker(s.intervals.IdleReminder)
	defer reminderTicker.Stop()

	s.logger.Info("scheduler started",
		zap.Duration("event_poll", s.intervals.EventPoll),
		zap.Duration("reconcile", s.intervals.Reconcile),
		zap.Duration("idle_reminder", s.intervals.IdleReminder))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-eventTicker.C:
			s.PollEvent(ctx)
		case <-reconcileTicker.C:
			s.TickReconcile(ctx)
		case <-reminderTicker.C:
			s.TickReminder(ctx)
		}
	}
}

// PollEvent asks the external endpoint for the event flag and records it.
// A probe failure means "unknown": the stored state is left alone.
func (s *Scheduler) PollEvent(ctx context.Context) {
	if s.probe == nil {
		return
	}
	active, err := s.probe.EventActive(ctx)
	if err != nil {
		s.logger.Warn("event-state poll failed", zap.Error(err))
		return
	}
	if err := s.svc.SetEventActive(ctx, active); err != nil {
		s.logger.Error("failed to record event state", zap.Error(err))
	}
}

// TickReconcile runs one reconciliation pass while the event is on. An
// unconfigured source or a raised suspension is the normal quiet state
// between events, not a fault.
func (s *Scheduler) TickReconcile(ctx context.Context) {
	status, err := s.svc.EventStatus(ctx)
	if err != nil {
		s.logger.Error("failed to read event status", zap.Error(err))
		return
	}
	if !status.Active {
		return
	}

	_, err = s.svc.Reconcile(ctx)
	switch {
	case err == nil:
	case errors.Is(err, apperr.ErrSourceNotConfigured), errors.Is(err, apperr.ErrUpdatesSuspended):
		s.logger.Debug("reconciliation skipped", zap.Error(err))
	default:
		s.logger.Error("reconciliation pass failed", zap.Error(err))
	}
}

// TickReminder runs one idle-reminder check.
func (s *Scheduler) TickReminder(ctx context.Context) {
	sent, err := s.svc.IdleReminderCheck(ctx)
	if err != nil {
		s.logger.Error("idle-reminder check failed", zap.Error(err))
		return
	}
	if sent {
		s.logger.Info("idle reminder fired")
	}
}
