package app

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/example/cruisebot/internal/ports/secondary"
)

// Ensure mockLedger implements the interface
var _ secondary.Ledger = (*mockLedger)(nil)

// mockLedger implements secondary.Ledger in memory for testing. InTx runs
// the body against the same state; transactional atomicity is exercised by
// the sqlite adapter tests, not here.
type mockLedger struct {
	carriers map[string]*secondary.CarrierRecord
	history  map[string][]*secondary.HistoryRecord
	state    secondary.EventStateRecord
	source   secondary.SourceConfigRecord
	pins     []*secondary.PinnedReportRecord

	listErr   error
	insertErr error
	updateErr error
	txErr     error
}

func newMockLedger() *mockLedger {
	return &mockLedger{
		carriers: make(map[string]*secondary.CarrierRecord),
		history:  make(map[string][]*secondary.HistoryRecord),
	}
}

func (m *mockLedger) InTx(ctx context.Context, fn func(tx secondary.Ledger) error) error {
	if m.txErr != nil {
		return m.txErr
	}
	return fn(m)
}

func (m *mockLedger) ListCarriers(ctx context.Context) ([]*secondary.CarrierRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	ids := make([]string, 0, len(m.carriers))
	for id := range m.carriers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*secondary.CarrierRecord, len(ids))
	for i, id := range ids {
		cp := *m.carriers[id]
		out[i] = &cp
	}
	return out, nil
}

func (m *mockLedger) GetCarriersByID(ctx context.Context, id string) ([]*secondary.CarrierRecord, error) {
	rec, ok := m.carriers[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return []*secondary.CarrierRecord{&cp}, nil
}

func (m *mockLedger) InsertCarrier(ctx context.Context, rec *secondary.CarrierRecord) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	cp := *rec
	m.carriers[rec.ID] = &cp
	return nil
}

func (m *mockLedger) UpdateCarrierFields(ctx context.Context, rec *secondary.CarrierRecord) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	cur, ok := m.carriers[rec.ID]
	if !ok {
		return sql.ErrNoRows
	}
	// Write through only the externally sourced fields, per the contract.
	cur.Name = rec.Name
	cur.WineTotal = rec.WineTotal
	cur.DiscordUsername = rec.DiscordUsername
	cur.SourceTimestamp = rec.SourceTimestamp
	cur.RunCount = rec.RunCount
	cur.Timezone = rec.Timezone
	return nil
}

func (m *mockLedger) DeleteCarrier(ctx context.Context, id string) error {
	if _, ok := m.carriers[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.carriers, id)
	return nil
}

func (m *mockLedger) DeleteAllCarriers(ctx context.Context) (int, error) {
	n := len(m.carriers)
	m.carriers = make(map[string]*secondary.CarrierRecord)
	return n, nil
}

func (m *mockLedger) CountCarriers(ctx context.Context) (int, error) {
	return len(m.carriers), nil
}

func (m *mockLedger) SetUnloadInProgress(ctx context.Context, id, ref, startedBy string, startedAt time.Time, marketOpensAt sql.NullTime) error {
	rec, ok := m.carriers[id]
	if !ok {
		return sql.ErrNoRows
	}
	rec.UnloadRef = sql.NullString{String: ref, Valid: true}
	rec.UnloadStartedBy = sql.NullString{String: startedBy, Valid: true}
	rec.UnloadStartedAt = sql.NullTime{Time: startedAt, Valid: true}
	rec.UnloadMarketOpens = marketOpensAt
	rec.TotalUnloads++
	return nil
}

func (m *mockLedger) IncrementTotalUnloads(ctx context.Context, id string) error {
	rec, ok := m.carriers[id]
	if !ok {
		return sql.ErrNoRows
	}
	rec.TotalUnloads++
	return nil
}

func (m *mockLedger) ClearUnload(ctx context.Context, id string) error {
	rec, ok := m.carriers[id]
	if !ok {
		return sql.ErrNoRows
	}
	rec.UnloadRef = sql.NullString{}
	rec.UnloadStartedBy = sql.NullString{}
	rec.UnloadStartedAt = sql.NullTime{}
	rec.UnloadMarketOpens = sql.NullTime{}
	return nil
}

func (m *mockLedger) AnyUnloadInProgress(ctx context.Context) (bool, error) {
	for _, rec := range m.carriers {
		if rec.UnloadRef.Valid {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockLedger) HistoryWindowExists(ctx context.Context, windowStart string) (bool, error) {
	return len(m.history[windowStart]) > 0, nil
}

func (m *mockLedger) CopyCarriersToHistory(ctx context.Context, windowStart, windowEnd, outcome string) (int, error) {
	for _, rec := range m.carriers {
		m.history[windowStart] = append(m.history[windowStart], &secondary.HistoryRecord{
			WindowStart: windowStart,
			WindowEnd:   windowEnd,
			Outcome:     outcome,
			Carrier:     *rec,
		})
	}
	return len(m.carriers), nil
}

func (m *mockLedger) ListHistory(ctx context.Context, windowStart string) ([]*secondary.HistoryRecord, error) {
	return m.history[windowStart], nil
}

func (m *mockLedger) GetEventState(ctx context.Context) (*secondary.EventStateRecord, error) {
	cp := m.state
	return &cp, nil
}

func (m *mockLedger) SetEventActive(ctx context.Context, active bool, flippedAt time.Time) error {
	m.state.Active = active
	m.state.FlippedAt = flippedAt
	return nil
}

func (m *mockLedger) SetUpdatesSuspended(ctx context.Context, suspended bool) error {
	m.state.UpdatesSuspended = suspended
	return nil
}

func (m *mockLedger) SetLastUnloadCompleted(ctx context.Context, at sql.NullTime) error {
	m.state.LastUnloadCompletedAt = at
	return nil
}

func (m *mockLedger) GetSourceConfig(ctx context.Context) (*secondary.SourceConfigRecord, error) {
	cp := m.source
	return &cp, nil
}

func (m *mockLedger) SetSourceConfig(ctx context.Context, rec *secondary.SourceConfigRecord) error {
	m.source = *rec
	m.source.Configured = true
	return nil
}

func (m *mockLedger) PinReport(ctx context.Context, channelID, messageID string) error {
	for _, p := range m.pins {
		if p.ChannelID == channelID && p.MessageID == messageID {
			return nil
		}
	}
	m.pins = append(m.pins, &secondary.PinnedReportRecord{ChannelID: channelID, MessageID: messageID})
	return nil
}

func (m *mockLedger) UnpinReport(ctx context.Context, channelID, messageID string) error {
	for i, p := range m.pins {
		if p.ChannelID == channelID && p.MessageID == messageID {
			m.pins = append(m.pins[:i], m.pins[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *mockLedger) ListPinnedReports(ctx context.Context) ([]*secondary.PinnedReportRecord, error) {
	return m.pins, nil
}

// Ensure mockSource implements the interface
var _ secondary.SnapshotSource = (*mockSource)(nil)

// mockSource implements secondary.SnapshotSource for testing.
type mockSource struct {
	rows     []map[string]string
	fetchErr error
	fetches  int
}

func (m *mockSource) FetchSnapshot(ctx context.Context, cfg secondary.SourceConfigRecord) ([]map[string]string, error) {
	m.fetches++
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.rows, nil
}

// Ensure mockNotifier implements the interface
var _ secondary.Notifier = (*mockNotifier)(nil)

// mockNotifier records every delivered event.
type mockNotifier struct {
	events    []secondary.Event
	notifyErr error
}

func (m *mockNotifier) Notify(ctx context.Context, events []secondary.Event) error {
	if m.notifyErr != nil {
		return m.notifyErr
	}
	m.events = append(m.events, events...)
	return nil
}

func (m *mockNotifier) has(kind secondary.EventKind) bool {
	for _, e := range m.events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// Ensure mockDump implements the interface
var _ secondary.DumpWriter = (*mockDump)(nil)

// mockDump records the last written payload.
type mockDump struct {
	writes   int
	last     *secondary.DumpPayload
	writeErr error
}

func (m *mockDump) WriteDump(ctx context.Context, payload *secondary.DumpPayload) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes++
	m.last = payload
	return nil
}

// Ensure mockConfirmer implements the interface
var _ secondary.Confirmer = (*mockConfirmer)(nil)

// mockConfirmer answers every prompt the same way.
type mockConfirmer struct {
	answer     bool
	confirmErr error
	prompts    []string
}

func (m *mockConfirmer) Confirm(ctx context.Context, prompt, preview string) (bool, error) {
	m.prompts = append(m.prompts, prompt)
	if m.confirmErr != nil {
		return false, m.confirmErr
	}
	return m.answer, nil
}

// testEnv bundles a service with its mocks.
type testEnv struct {
	svc      *LedgerServiceImpl
	ledger   *mockLedger
	source   *mockSource
	notifier *mockNotifier
	dump     *mockDump
	confirm  *mockConfirmer
}

func newTestEnv() *testEnv {
	env := &testEnv{
		ledger:   newMockLedger(),
		source:   &mockSource{},
		notifier: &mockNotifier{},
		dump:     &mockDump{},
		confirm:  &mockConfirmer{answer: true},
	}
	env.svc = NewLedgerService(env.ledger, env.source, env.notifier, env.dump, env.confirm, zap.NewNop(), DefaultOptions())
	return env
}

// configured seeds a usable source config so reconciliation can run.
func (env *testEnv) configured() *testEnv {
	env.ledger.source = secondary.SourceConfigRecord{
		SpreadsheetID: "sheet-1",
		Worksheet:     "March 2026",
		Configured:    true,
	}
	return env
}

// withCarrier seeds one active row.
func (env *testEnv) withCarrier(id, name string, runCount, totalUnloads int) *testEnv {
	env.ledger.carriers[id] = &secondary.CarrierRecord{
		ID:           id,
		Name:         name,
		WineTotal:    sql.NullInt64{Int64: 100, Valid: true},
		Platform:     "PC",
		RunCount:     runCount,
		TotalUnloads: totalUnloads,
	}
	return env
}

// sheetRow builds one flat snapshot record.
func sheetRow(name, id, wine, runs string) map[string]string {
	row := map[string]string{
		"Carrier Name": name,
		"Carrier ID":   id,
		"Wine Total":   wine,
	}
	if runs != "" {
		row["Run Count"] = runs
	}
	return row
}
