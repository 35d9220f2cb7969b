package bell

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/emilianohg/punchclock/internal/clock"
	"github.com/emilianohg/punchclock/internal/models"
	"github.com/emilianohg/punchclock/internal/notify"
)

// ── test helpers ──

type mockStore struct {
	schedules  []models.BellSchedule
	history    []models.BellHistory
	loadErr    error
	historyErr map[string]error // schedule id -> AddHistory error
}

func (m *mockStore) GetSchedules() ([]models.BellSchedule, error) {
	return m.schedules, m.loadErr
}

func (m *mockStore) RecentHistory(since time.Time) ([]models.BellHistory, error) {
	var out []models.BellHistory
	for _, h := range m.history {
		if h.Timestamp.After(since) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *mockStore) AddHistory(h models.BellHistory) error {
	if err := m.historyErr[h.ScheduleID]; err != nil {
		return err
	}
	m.history = append(m.history, h)
	return nil
}

// 2026-10-12 is a Monday.
var monday = time.Date(2026, 10, 12, 8, 0, 0, 0, time.Local)

func morningBell() models.BellSchedule {
	return models.BellSchedule{
		ID: "b1", Title: "Start", Time: "08:00", Days: []string{"1"},
		Sound: "chime.wav", Duration: 5, Enabled: true,
	}
}

func setupTestScheduler(store *mockStore, now *time.Time) (*Scheduler, *notify.Recorder) {
	rec := &notify.Recorder{}
	clk := clock.Func(func() time.Time { return *now })
	return NewScheduler(store, clk, rec, zap.NewNop()), rec
}

func pollMinute(t *testing.T, s *Scheduler, now *time.Time, start time.Time) int {
	t.Helper()
	total := 0
	for sec := 0; sec < 60; sec++ {
		*now = start.Add(time.Duration(sec) * time.Second)
		n, err := s.Tick(context.Background())
		if err != nil {
			t.Fatalf("tick at %s: %v", now.Format("15:04:05"), err)
		}
		total += n
	}
	return total
}

// ── tests ──

func TestTick_FiresOnceOnMonday(t *testing.T) {
	store := &mockStore{schedules: []models.BellSchedule{morningBell()}}
	now := monday
	s, rec := setupTestScheduler(store, &now)

	if got := pollMinute(t, s, &now, monday); got != 1 {
		t.Fatalf("rang %d times, want 1", got)
	}
	if rec.Count(notify.KindPlaySound) != 1 || rec.Count(notify.KindBellHistoryUpdated) != 1 {
		t.Fatalf("events = %+v", rec.Events)
	}
	ev := rec.Events[0]
	if ev.Sound != "chime.wav" || ev.Duration != 5 {
		t.Errorf("play-sound event = %+v", ev)
	}
	if len(store.history) != 1 || store.history[0].ScheduleID != "b1" {
		t.Errorf("history = %+v", store.history)
	}
}

func TestTick_SilentOnTuesday(t *testing.T) {
	store := &mockStore{schedules: []models.BellSchedule{morningBell()}}
	tuesday := monday.AddDate(0, 0, 1)
	now := tuesday
	s, rec := setupTestScheduler(store, &now)

	if got := pollMinute(t, s, &now, tuesday); got != 0 {
		t.Fatalf("rang %d times on Tuesday", got)
	}
	if len(rec.Events) != 0 {
		t.Fatalf("unexpected events: %+v", rec.Events)
	}
}

func TestTick_SkipsDisabled(t *testing.T) {
	b := morningBell()
	b.Enabled = false
	store := &mockStore{schedules: []models.BellSchedule{b}}
	now := monday
	s, _ := setupTestScheduler(store, &now)

	if n, _ := s.Tick(context.Background()); n != 0 {
		t.Fatal("disabled schedule rang")
	}
}

func TestTick_RecentHistorySuppressesRepeat(t *testing.T) {
	store := &mockStore{
		schedules: []models.BellSchedule{morningBell()},
		history:   []models.BellHistory{{Timestamp: monday.Add(-30 * time.Second), ScheduleID: "b1"}},
	}
	now := monday
	s, rec := setupTestScheduler(store, &now)

	if n, _ := s.Tick(context.Background()); n != 0 {
		t.Fatal("bell rang despite a firing 30s ago")
	}
	if len(rec.Events) != 0 {
		t.Fatal("no event expected")
	}
}

func TestTick_OtherScheduleHistoryDoesNotSuppress(t *testing.T) {
	store := &mockStore{
		schedules: []models.BellSchedule{morningBell()},
		history:   []models.BellHistory{{Timestamp: monday.Add(-10 * time.Second), ScheduleID: "other"}},
	}
	now := monday
	s, _ := setupTestScheduler(store, &now)

	if n, _ := s.Tick(context.Background()); n != 1 {
		t.Fatal("history of another schedule must not suppress")
	}
}

func TestTick_FailureDoesNotAbortOthers(t *testing.T) {
	second := morningBell()
	second.ID = "b2"
	store := &mockStore{
		schedules:  []models.BellSchedule{morningBell(), second},
		historyErr: map[string]error{"b1": errors.New("disk full")},
	}
	now := monday
	s, _ := setupTestScheduler(store, &now)

	if _, err := s.Tick(context.Background()); err != nil {
		t.Fatalf("per-schedule failure leaked out of tick: %v", err)
	}
	if len(store.history) != 1 || store.history[0].ScheduleID != "b2" {
		t.Fatalf("second schedule not evaluated: %+v", store.history)
	}
}

func TestTick_LoadFailure(t *testing.T) {
	store := &mockStore{loadErr: errors.New("locked")}
	now := monday
	s, _ := setupTestScheduler(store, &now)

	if _, err := s.Tick(context.Background()); err == nil {
		t.Fatal("expected load error")
	}
}

func TestDue(t *testing.T) {
	b := morningBell()
	tests := []struct {
		weekday, hms string
		want         bool
	}{
		{"1", "08:00:00", true},
		{"1", "08:00:01", false},
		{"2", "08:00:00", false},
		{"1", "07:59:59", false},
	}
	for _, tt := range tests {
		if got := Due(b, tt.weekday, tt.hms); got != tt.want {
			t.Errorf("Due(%s, %s) = %v, want %v", tt.weekday, tt.hms, got, tt.want)
		}
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	store := &mockStore{}
	now := monday
	s, _ := setupTestScheduler(store, &now)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, 10*time.Millisecond)
		close(done)
	}()
	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
