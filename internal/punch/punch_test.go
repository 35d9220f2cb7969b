package punch

import (
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/emilianohg/punchclock/internal/clock"
	"github.com/emilianohg/punchclock/internal/models"
	"github.com/emilianohg/punchclock/internal/state"
)

// ── test helpers ──

type mockRecordStore struct {
	records []models.PunchRecord
	err     error
}

func (m *mockRecordStore) Add(r models.PunchRecord) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, r)
	return nil
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

var t0 = time.Date(2026, 10, 14, 9, 0, 0, 0, time.Local)

func setupTestEngine(opts ...Option) (*Engine, *mockRecordStore, *state.State, *fakeClock) {
	st := state.New()
	st.SetEmployees([]models.Employee{
		{ID: "E1", Name: "Alice", Card: "C1", Password: "P1"},
		{ID: "E2", Name: "Bob", Card: "C2", Password: "P2"},
	})
	st.SetShifts([]models.Shift{{ID: 7, Name: "Day", Start: "08:00", End: "17:00"}})
	store := &mockRecordStore{}
	clk := &fakeClock{now: t0}
	opts = append([]Option{WithPicker(func(int) int { return 0 })}, opts...)
	return NewEngine(store, st, clk, zap.NewNop(), opts...), store, st, clk
}

// ── RecordPunch ──

func TestRecordPunch_Scenario(t *testing.T) {
	engine, store, _, clk := setupTestEngine()

	first, err := engine.RecordPunch("C1", AutoDirection, 0)
	if err != nil {
		t.Fatalf("first punch: %v", err)
	}
	if first.Record.Type != models.PunchIn || first.Record.Status != models.StatusNormal {
		t.Fatalf("first punch = %+v, want in/normal", first.Record)
	}

	clk.advance(30 * time.Second)
	second, err := engine.RecordPunch("C1", AutoDirection, 0)
	if err != nil {
		t.Fatalf("second punch: %v", err)
	}
	if !second.Duplicate || second.Record.Type != models.PunchIn || second.Record.Status != models.StatusDuplicate {
		t.Fatalf("second punch = %+v, want in/duplicate", second.Record)
	}

	clk.advance(90 * time.Second) // T = 120s
	third, err := engine.RecordPunch("C1", AutoDirection, 0)
	if err != nil {
		t.Fatalf("third punch: %v", err)
	}
	if third.Record.Type != models.PunchOut || third.Record.Status != models.StatusNormal {
		t.Fatalf("third punch = %+v, want out/normal", third.Record)
	}

	if len(store.records) != 3 {
		t.Fatalf("persisted %d records, want 3", len(store.records))
	}
}

func TestRecordPunch_DuplicateCopiesPreviousTypeNotOverride(t *testing.T) {
	engine, _, _, clk := setupTestEngine()

	if _, err := engine.RecordPunch("P1", "out", 0); err != nil {
		t.Fatal(err)
	}
	clk.advance(59 * time.Second)
	res, err := engine.RecordPunch("P1", "in", 0)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Duplicate || res.Record.Type != models.PunchOut {
		t.Fatalf("duplicate = %+v, want type copied from previous (out)", res.Record)
	}
}

func TestRecordPunch_WindowBoundaryIsExclusive(t *testing.T) {
	engine, _, _, clk := setupTestEngine()

	_, _ = engine.RecordPunch("C1", AutoDirection, 0)
	clk.advance(60 * time.Second)
	res, err := engine.RecordPunch("C1", AutoDirection, 0)
	if err != nil {
		t.Fatal(err)
	}
	if res.Duplicate {
		t.Fatal("a punch exactly 60000ms later is not a duplicate")
	}
}

func TestRecordPunch_ParityInvariant(t *testing.T) {
	engine, _, st, clk := setupTestEngine()

	gaps := []time.Duration{0, 10 * time.Second, 5 * time.Minute, 20 * time.Second, time.Hour, 2 * time.Hour, 30 * time.Second}
	for _, gap := range gaps {
		clk.advance(gap)
		before := ValidPunchesToday(st.Records(), "E1", clk.now)

		res, err := engine.RecordPunch("C1", AutoDirection, 0)
		if err != nil {
			t.Fatal(err)
		}
		if res.Duplicate {
			continue
		}
		if res.Record.Type == models.PunchIn && before%2 != 0 {
			t.Fatalf("in assigned with %d valid punches before", before)
		}
		if res.Record.Type == models.PunchOut && before%2 != 1 {
			t.Fatalf("out assigned with %d valid punches before", before)
		}
	}
}

func TestRecordPunch_YesterdayDoesNotCount(t *testing.T) {
	engine, _, st, _ := setupTestEngine()
	st.SetRecords([]models.PunchRecord{
		{EmployeeID: "E1", Timestamp: t0.Add(-20 * time.Hour), Type: models.PunchIn, Status: models.StatusNormal},
	})

	res, err := engine.RecordPunch("C1", AutoDirection, 0)
	if err != nil {
		t.Fatal(err)
	}
	if res.Record.Type != models.PunchIn {
		t.Fatalf("type = %s, want in (yesterday's punch is not counted)", res.Record.Type)
	}
}

func TestRecordPunch_DuplicatesExcludedFromCount(t *testing.T) {
	engine, _, st, _ := setupTestEngine()
	st.SetRecords([]models.PunchRecord{
		{EmployeeID: "E1", Timestamp: t0.Add(-2 * time.Hour), Type: models.PunchIn, Status: models.StatusNormal},
		{EmployeeID: "E1", Timestamp: t0.Add(-2*time.Hour + 10*time.Second), Type: models.PunchIn, Status: models.StatusDuplicate},
	})

	res, err := engine.RecordPunch("C1", AutoDirection, 0)
	if err != nil {
		t.Fatal(err)
	}
	if res.Record.Type != models.PunchOut {
		t.Fatalf("type = %s, want out", res.Record.Type)
	}
}

func TestRecordPunch_NotFound(t *testing.T) {
	engine, store, st, _ := setupTestEngine()

	_, err := engine.RecordPunch("nobody", AutoDirection, 0)
	if !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("err = %v, want ErrEmployeeNotFound", err)
	}
	if len(store.records) != 0 || len(st.Records()) != 0 {
		t.Fatal("not-found punch must not write anything")
	}
}

func TestRecordPunch_StorageFailureLeavesStateUntouched(t *testing.T) {
	engine, store, st, _ := setupTestEngine()
	store.err = errors.New("disk full")

	_, err := engine.RecordPunch("C1", AutoDirection, 0)
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("err = %v", err)
	}
	if len(st.Records()) != 0 {
		t.Fatal("state mutated after storage failure")
	}
}

func TestRecordPunch_InvalidOverride(t *testing.T) {
	engine, _, _, _ := setupTestEngine()
	if _, err := engine.RecordPunch("C1", "lunch", 0); !errors.Is(err, ErrInvalidPunchType) {
		t.Fatalf("err = %v", err)
	}
}

func TestRecordPunch_ShiftSnapshotAndFallback(t *testing.T) {
	engine, _, _, clk := setupTestEngine()

	res, _ := engine.RecordPunch("C1", AutoDirection, 7)
	if res.Record.Shift != "Day" {
		t.Errorf("shift = %q, want Day", res.Record.Shift)
	}

	clk.advance(time.Hour)
	res, _ = engine.RecordPunch("C1", AutoDirection, 0)
	if res.Record.Shift != "Unassigned" {
		t.Errorf("shift = %q, want fallback", res.Record.Shift)
	}
}

func TestRecordPunch_GreetingWithEffect(t *testing.T) {
	engine, _, st, _ := setupTestEngine()
	st.SetGreetings(models.Greetings{models.PunchIn: {"Have a good day."}})
	st.SetSpecialEffects([]models.SpecialEffect{
		{ID: "off", Prefix: "NO", StartDate: "2026-01-01", EndDate: "2026-12-31", Enabled: false},
		{ID: "fall", Prefix: "🍂", Suffix: "🎃", StartDate: "2026-10-14", EndDate: "2026-10-31", Enabled: true},
	})

	res, err := engine.RecordPunch("C1", AutoDirection, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := "🍂 Alice, punched in successfully! Have a good day. 🎃"
	if res.Message != want {
		t.Fatalf("message = %q, want %q", res.Message, want)
	}
}

// ── RecordManualPunch ──

func TestRecordManualPunch(t *testing.T) {
	engine, store, st, _ := setupTestEngine()
	st.SetRecords([]models.PunchRecord{
		{EmployeeID: "E1", Timestamp: t0, Type: models.PunchIn, Status: models.StatusNormal},
	})

	res, err := engine.RecordManualPunch("E1", "2026-10-14", "08:59:50", "out", 0)
	if err != nil {
		t.Fatal(err)
	}
	rec := res.Record
	if rec.Source != models.SourceManual || rec.Status != models.StatusNormal || rec.Shift != "Manual entry" {
		t.Fatalf("record = %+v", rec)
	}
	if len(store.records) != 1 {
		t.Fatal("manual punch not persisted")
	}

	records := st.Records()
	if !records[0].Timestamp.Equal(t0) || records[1].Source != models.SourceManual {
		t.Fatalf("records not re-sorted newest first: %+v", records)
	}
}

func TestRecordManualPunch_Validation(t *testing.T) {
	engine, _, _, _ := setupTestEngine()

	tests := []struct {
		name    string
		ident   string
		date    string
		time    string
		typ     string
		wantErr error
	}{
		{"missing date", "E1", "", "08:00", "in", ErrMissingFields},
		{"bad type", "E1", "2026-10-14", "08:00", "auto", ErrInvalidPunchType},
		{"bad date", "E1", "2026-13-40", "08:00", "in", ErrInvalidDateTime},
		{"unknown", "E9", "2026-10-14", "08:00", "in", ErrEmployeeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.RecordManualPunch(tt.ident, tt.date, tt.time, tt.typ, 0)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestActiveEffect(t *testing.T) {
	effects := []models.SpecialEffect{{ID: "a", StartDate: "2026-10-01", EndDate: "2026-10-14", Enabled: true}}
	if ActiveEffect(effects, t0) == nil {
		t.Error("end date is inclusive")
	}
	if ActiveEffect(effects, t0.Add(24*time.Hour)) != nil {
		t.Error("effect should be over the next day")
	}
}

var _ clock.Clock = (*fakeClock)(nil)
