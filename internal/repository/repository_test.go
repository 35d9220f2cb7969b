package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/emilianohg/punchclock/internal/db"
	"github.com/emilianohg/punchclock/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewStore(database)
}

func at(hour, min int) time.Time {
	return time.Date(2026, 10, 12, hour, min, 0, 0, time.Local)
}

func TestEmployeeRepo_SaveAllReplacesRoster(t *testing.T) {
	store := setupTestStore(t)

	first := []models.Employee{
		{ID: "E2", Name: "Bo", Card: "C2", Password: "P2", Department: "Ops"},
		{ID: "E1", Name: "Al", Card: "C1", Password: "P1", Department: "Ops", Notes: "lead"},
	}
	if err := store.Employees.SaveAll(first); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}

	got, err := store.Employees.GetAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "E1" || got[0].Notes != "lead" {
		t.Fatalf("GetAll = %+v, want E1 first", got)
	}

	if err := store.Employees.SaveAll(first[:1]); err != nil {
		t.Fatal(err)
	}
	got, _ = store.Employees.GetAll()
	if len(got) != 1 || got[0].ID != "E2" {
		t.Fatalf("after replace = %+v", got)
	}

	missing, err := store.Employees.GetByID("E1")
	if err != nil || missing != nil {
		t.Fatalf("GetByID(E1) = %v, %v; want nil, nil", missing, err)
	}

	n, err := store.Employees.DeleteAll()
	if err != nil || n != 1 {
		t.Fatalf("DeleteAll = %d, %v", n, err)
	}
}

func TestEmployeeRepo_DuplicateCardRejected(t *testing.T) {
	store := setupTestStore(t)

	err := store.Employees.SaveAll([]models.Employee{
		{ID: "E1", Name: "Al", Card: "C1"},
		{ID: "E2", Name: "Bo", Card: "C1"},
	})
	if err == nil {
		t.Fatal("expected unique constraint error")
	}
	got, _ := store.Employees.GetAll()
	if len(got) != 0 {
		t.Fatalf("failed save must roll back, got %+v", got)
	}
}

func TestPunchRepo_QueriesAndDeletes(t *testing.T) {
	store := setupTestStore(t)

	records := []models.PunchRecord{
		{EmployeeID: "E1", Timestamp: at(8, 0), Type: models.PunchIn, Status: models.StatusNormal, Source: models.SourceAuto},
		{EmployeeID: "E1", Timestamp: at(17, 0), Type: models.PunchOut, Status: models.StatusNormal, Source: models.SourceManual},
		{EmployeeID: "E2", Timestamp: at(9, 0).AddDate(0, 0, -10), Type: models.PunchIn, Status: models.StatusNormal, Source: models.SourceAuto},
	}
	for _, r := range records {
		if err := store.Punches.Add(r); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	if err := store.Punches.Add(records[0]); err == nil {
		t.Error("same employee and millisecond should violate the primary key")
	}

	all, err := store.Punches.GetAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || !all[0].Timestamp.Equal(at(17, 0)) {
		t.Fatalf("GetAll not newest first: %+v", all)
	}

	inRange, _ := store.Punches.GetInRange(at(0, 0), at(23, 59))
	if len(inRange) != 2 {
		t.Errorf("GetInRange = %d records, want 2", len(inRange))
	}

	n, err := store.Punches.DeleteBySource(models.SourceManual)
	if err != nil || n != 1 {
		t.Fatalf("DeleteBySource = %d, %v", n, err)
	}

	n, err = store.Punches.DeleteByDateRange(at(0, 0), at(23, 59))
	if err != nil || n != 1 {
		t.Fatalf("DeleteByDateRange = %d, %v", n, err)
	}

	n, err = store.Punches.DeleteAll()
	if err != nil || n != 1 {
		t.Fatalf("DeleteAll = %d, %v", n, err)
	}
}

func TestShiftRepo_SkipsIncomplete(t *testing.T) {
	store := setupTestStore(t)

	err := store.Shifts.SaveAll([]models.Shift{
		{Name: "Night", Start: "22:00", End: "06:00"},
		{Name: "Day", Start: "08:00", End: "17:00"},
		{Name: "Broken", Start: "10:00"},
	})
	if err != nil {
		t.Fatal(err)
	}

	shifts, err := store.Shifts.GetAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(shifts) != 2 || shifts[0].Name != "Day" {
		t.Fatalf("GetAll = %+v", shifts)
	}
}

func TestBellRepo_RecentHistory(t *testing.T) {
	store := setupTestStore(t)

	err := store.Bells.SaveSchedules([]models.BellSchedule{
		{ID: "b1", Title: "Start", Time: "08:00", Days: []string{"1", "2"}, Sound: "chime.wav", Duration: 5, Enabled: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	schedules, _ := store.Bells.GetSchedules()
	if len(schedules) != 1 || !schedules[0].RingsOn("2") || !schedules[0].Enabled {
		t.Fatalf("GetSchedules = %+v", schedules)
	}

	_ = store.Bells.AddHistory(models.BellHistory{Timestamp: at(8, 0), ScheduleID: "b1", Time: "08:00"})
	_ = store.Bells.AddHistory(models.BellHistory{Timestamp: at(7, 0), ScheduleID: "b1", Time: "07:00"})

	recent, err := store.Bells.RecentHistory(at(7, 30))
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 || recent[0].Time != "08:00" {
		t.Fatalf("RecentHistory = %+v", recent)
	}

	if err := store.Bells.ClearHistory(); err != nil {
		t.Fatal(err)
	}
	all, _ := store.Bells.GetHistory()
	if len(all) != 0 {
		t.Fatalf("history not cleared: %+v", all)
	}
}

func TestAutomationRepo_TasksAndLog(t *testing.T) {
	store := setupTestStore(t)

	tasks := []models.AutomationTask{
		{ID: "t1", Frequency: models.FrequencyMonthly, Day: "1", Time: "00:00", TaskType: models.TaskExport, Target: models.TargetLastMonthRecords, Enabled: true},
	}
	if err := store.Automation.SaveTasks(tasks); err != nil {
		t.Fatal(err)
	}
	got, _ := store.Automation.GetTasks()
	if len(got) != 1 || got[0] != tasks[0] {
		t.Fatalf("GetTasks = %+v", got)
	}

	_ = store.Automation.AddLog(models.AutomationLog{Timestamp: at(0, 0), Message: "old", Status: models.LogInfo})
	_ = store.Automation.AddLog(models.AutomationLog{Timestamp: at(0, 10), Message: "new", Status: models.LogSuccess})

	recent, err := store.Automation.RecentLog(at(0, 5))
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 || recent[0].Message != "new" {
		t.Fatalf("RecentLog = %+v", recent)
	}

	n, err := store.Automation.ClearLog()
	if err != nil || n != 2 {
		t.Fatalf("ClearLog = %d, %v", n, err)
	}
}

func TestSettingsRepo_JSONValues(t *testing.T) {
	store := setupTestStore(t)

	var value string
	found, err := store.Settings.Get("adminPassword", &value)
	if err != nil || found {
		t.Fatalf("unset key: found=%v err=%v", found, err)
	}

	if err := store.Settings.Set("adminPassword", "secret"); err != nil {
		t.Fatal(err)
	}
	found, err = store.Settings.Get("adminPassword", &value)
	if err != nil || !found || value != "secret" {
		t.Fatalf("Get = %q, %v, %v", value, found, err)
	}
}

func TestGreetingRepo_RoundTrip(t *testing.T) {
	store := setupTestStore(t)

	err := store.Greetings.Save(models.Greetings{
		models.PunchIn:  {"Good morning"},
		models.PunchOut: {"See you", "Rest well"},
	})
	if err != nil {
		t.Fatal(err)
	}
	got, err := store.Greetings.Get()
	if err != nil {
		t.Fatal(err)
	}
	if len(got[models.PunchIn]) != 1 || len(got[models.PunchOut]) != 2 {
		t.Fatalf("Get = %+v", got)
	}
}

func TestEffectRepo_RoundTrip(t *testing.T) {
	store := setupTestStore(t)

	effects := []models.SpecialEffect{{ID: "x", Name: "Xmas", Prefix: "*", Suffix: "*", StartDate: "2026-12-20", EndDate: "2026-12-26", Enabled: true}}
	if err := store.Effects.SaveSpecialEffects(effects); err != nil {
		t.Fatal(err)
	}
	gotEffects, _ := store.Effects.GetSpecialEffects()
	if len(gotEffects) != 1 || gotEffects[0] != effects[0] {
		t.Fatalf("GetSpecialEffects = %+v", gotEffects)
	}

	themes := []models.ThemeSchedule{{ID: "t", Name: "Winter", ThemeName: "frost", StartDate: "2026-12-01", EndDate: "2027-02-28", Enabled: false}}
	if err := store.Effects.SaveThemeSchedules(themes); err != nil {
		t.Fatal(err)
	}
	gotThemes, _ := store.Effects.GetThemeSchedules()
	if len(gotThemes) != 1 || gotThemes[0] != themes[0] {
		t.Fatalf("GetThemeSchedules = %+v", gotThemes)
	}
}
