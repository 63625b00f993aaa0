package sched

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/example/cruisebot/internal/apperr"
	"github.com/example/cruisebot/internal/ports/primary"
)

// Ensure mockService implements the interface
var _ primary.LedgerService = (*mockService)(nil)

// mockService counts calls; only the methods the scheduler drives matter.
type mockService struct {
	eventActive  bool
	reconciles   int
	reconcileErr error
	reminders    int
	reminderSent bool
	reminderErr  error
	eventFlags   []bool
	setEventErr  error
}

func (m *mockService) Reconcile(ctx context.Context) (*primary.ReconcileResult, error) {
	m.reconciles++
	if m.reconcileErr != nil {
		return nil, m.reconcileErr
	}
	return &primary.ReconcileResult{}, nil
}

func (m *mockService) IdleReminderCheck(ctx context.Context) (bool, error) {
	m.reminders++
	return m.reminderSent, m.reminderErr
}

func (m *mockService) SetEventActive(ctx context.Context, active bool) error {
	if m.setEventErr != nil {
		return m.setEventErr
	}
	m.eventFlags = append(m.eventFlags, active)
	return nil
}

func (m *mockService) StartUnload(ctx context.Context, req primary.StartUnloadRequest) (*primary.Carrier, error) {
	return nil, errors.New("not driven by the scheduler")
}

func (m *mockService) CompleteUnload(ctx context.Context, carrierID string) (*primary.CompleteUnloadResult, error) {
	return nil, errors.New("not driven by the scheduler")
}

func (m *mockService) ForceComplete(ctx context.Context, carrierID string) (*primary.Carrier, error) {
	return nil, errors.New("not driven by the scheduler")
}

func (m *mockService) DeleteCarrier(ctx context.Context, carrierID string) error {
	return errors.New("not driven by the scheduler")
}

func (m *mockService) Archive(ctx context.Context, windowStart, outcome string) error {
	return errors.New("not driven by the scheduler")
}

func (m *mockService) ConfigureSource(ctx context.Context, ptr primary.SourcePointer) (*primary.ReconcileResult, error) {
	return nil, errors.New("not driven by the scheduler")
}

func (m *mockService) GetSource(ctx context.Context) (*primary.SourcePointer, bool, error) {
	return nil, false, nil
}

func (m *mockService) EventStatus(ctx context.Context) (*primary.EventStatus, error) {
	return &primary.EventStatus{Active: m.eventActive}, nil
}

func (m *mockService) RemainingDuration(ctx context.Context) (time.Duration, error) {
	return 0, nil
}

func (m *mockService) GetCarrier(ctx context.Context, carrierID string) (*primary.Carrier, error) {
	return nil, nil
}

func (m *mockService) ListCarriers(ctx context.Context) ([]*primary.Carrier, error) {
	return nil, nil
}

func (m *mockService) PinReport(ctx context.Context, channelID, messageID string) error {
	return nil
}

func (m *mockService) UnpinReport(ctx context.Context, channelID, messageID string) error {
	return nil
}

func (m *mockService) ListPinnedReports(ctx context.Context) ([]*primary.PinnedReport, error) {
	return nil, nil
}

type mockProbe struct {
	active   bool
	probeErr error
}

func (m *mockProbe) EventActive(ctx context.Context) (bool, error) {
	if m.probeErr != nil {
		return false, m.probeErr
	}
	return m.active, nil
}

func TestPollEventRecordsFlag(t *testing.T) {
	svc := &mockService{}
	probe := &mockProbe{active: true}
	s := NewScheduler(svc, probe, zap.NewNop(), Intervals{})

	s.PollEvent(context.Background())

	if len(svc.eventFlags) != 1 || !svc.eventFlags[0] {
		t.Errorf("recorded flags = %v, want [true]", svc.eventFlags)
	}
}

func TestPollEventKeepsStateOnProbeFailure(t *testing.T) {
	svc := &mockService{}
	probe := &mockProbe{probeErr: errors.New("endpoint down")}
	s := NewScheduler(svc, probe, zap.NewNop(), Intervals{})

	s.PollEvent(context.Background())

	if len(svc.eventFlags) != 0 {
		t.Errorf("probe failure must not record a flag, got %v", svc.eventFlags)
	}
}

func TestTickReconcileToleratesQuietStates(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "unconfigured", err: fmt.Errorf("%w: no source", apperr.ErrSourceNotConfigured)},
		{name: "suspended", err: fmt.Errorf("%w: archived", apperr.ErrUpdatesSuspended)},
		{name: "healthy", err: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{eventActive: true, reconcileErr: tt.err}
			s := NewScheduler(svc, &mockProbe{}, zap.NewNop(), Intervals{})

			s.TickReconcile(context.Background())

			if svc.reconciles != 1 {
				t.Errorf("reconciles = %d, want 1", svc.reconciles)
			}
		})
	}
}

func TestTickReconcileSkipsWhileEventInactive(t *testing.T) {
	svc := &mockService{}
	s := NewScheduler(svc, &mockProbe{}, zap.NewNop(), Intervals{})

	s.TickReconcile(context.Background())

	if svc.reconciles != 0 {
		t.Errorf("reconciles = %d, want 0 while the event is off", svc.reconciles)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	svc := &mockService{eventActive: true}
	s := NewScheduler(svc, &mockProbe{}, zap.NewNop(), Intervals{
		EventPoll:    time.Millisecond,
		Reconcile:    time.Millisecond,
		IdleReminder: time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	if svc.reconciles == 0 || svc.reminders == 0 {
		t.Errorf("ticks did not fire: reconciles %d reminders %d", svc.reconciles, svc.reminders)
	}
}
