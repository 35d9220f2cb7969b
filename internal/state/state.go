// Package state holds the in-memory mirror of the roster, punch records and
// display settings. The kiosk, the punch engine and the refresh path all run
// on different goroutines, so every accessor copies under the lock.
package state

import (
	"slices"
	"sort"
	"sync"

	"github.com/emilianohg/punchclock/internal/models"
)

type State struct {
	mu        sync.RWMutex
	employees []models.Employee
	records   []models.PunchRecord // newest first
	shifts    []models.Shift
	greetings models.Greetings
	effects   []models.SpecialEffect
	themes    []models.ThemeSchedule
}

func New() *State {
	return &State{greetings: models.Greetings{}}
}

func (s *State) Employees() []models.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.employees)
}

func (s *State) SetEmployees(employees []models.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees = slices.Clone(employees)
}

// FindByCredential returns the first employee whose card or password equals
// value.
func (s *State) FindByCredential(value string) (models.Employee, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.employees {
		if e.Card == value || e.Password == value {
			return e, true
		}
	}
	return models.Employee{}, false
}

// FindByIdentifier is FindByCredential that also accepts the employee id.
func (s *State) FindByIdentifier(value string) (models.Employee, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.employees {
		if e.ID == value || e.Card == value || e.Password == value {
			return e, true
		}
	}
	return models.Employee{}, false
}

func (s *State) EmployeeName(id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.employees {
		if e.ID == id {
			return e.Name, true
		}
	}
	return "", false
}

func (s *State) Records() []models.PunchRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.records)
}

// SetRecords replaces the records, keeping them newest first.
func (s *State) SetRecords(records []models.PunchRecord) {
	sorted := slices.Clone(records)
	sortNewestFirst(sorted)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = sorted
}

// PrependRecord adds a record that is known to be the newest.
func (s *State) PrependRecord(r models.PunchRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]models.PunchRecord{r}, s.records...)
}

// InsertRecord adds a record at any point in time and re-sorts.
func (s *State) InsertRecord(r models.PunchRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]models.PunchRecord{r}, s.records...)
	sortNewestFirst(s.records)
}

func (s *State) Shifts() []models.Shift {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.shifts)
}

func (s *State) SetShifts(shifts []models.Shift) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shifts = slices.Clone(shifts)
}

func (s *State) Greetings() models.Greetings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(models.Greetings, len(s.greetings))
	for k, v := range s.greetings {
		out[k] = slices.Clone(v)
	}
	return out
}

func (s *State) SetGreetings(g models.Greetings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.greetings = g
}

func (s *State) SpecialEffects() []models.SpecialEffect {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.effects)
}

func (s *State) SetSpecialEffects(effects []models.SpecialEffect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.effects = slices.Clone(effects)
}

func (s *State) ThemeSchedules() []models.ThemeSchedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.themes)
}

func (s *State) SetThemeSchedules(themes []models.ThemeSchedule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.themes = slices.Clone(themes)
}

func sortNewestFirst(records []models.PunchRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
}
