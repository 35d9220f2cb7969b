package repository

import "database/sql"

// Store bundles the per-table repos over one database handle.
type Store struct {
	Employees  *EmployeeRepo
	Punches    *PunchRepo
	Shifts     *ShiftRepo
	Bells      *BellRepo
	Automation *AutomationRepo
	Settings   *SettingsRepo
	Greetings  *GreetingRepo
	Effects    *EffectRepo
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		Employees:  NewEmployeeRepo(db),
		Punches:    NewPunchRepo(db),
		Shifts:     NewShiftRepo(db),
		Bells:      NewBellRepo(db),
		Automation: NewAutomationRepo(db),
		Settings:   NewSettingsRepo(db),
		Greetings:  NewGreetingRepo(db),
		Effects:    NewEffectRepo(db),
	}
}
