package models

import "time"

type PunchType string

const (
	PunchIn  PunchType = "in"
	PunchOut PunchType = "out"
)

type PunchStatus string

const (
	StatusNormal    PunchStatus = "normal"
	StatusDuplicate PunchStatus = "duplicate"
)

type PunchSource string

const (
	SourceAuto   PunchSource = "auto"
	SourceManual PunchSource = "manual"
)

type Employee struct {
	ID              string
	Name            string
	Gender          string
	Department      string
	Card            string
	Password        string
	Nationality     string
	BirthDate       string // YYYY-MM-DD, may be empty
	HireDate        string
	TerminationDate string
	Notes           string
}

// PunchRecord is identified by (EmployeeID, Timestamp at millisecond precision).
type PunchRecord struct {
	EmployeeID string
	Timestamp  time.Time
	Type       PunchType
	Shift      string // snapshot of the shift name at punch time
	Status     PunchStatus
	Source     PunchSource
}

func (r PunchRecord) Valid() bool {
	return r.Status != StatusDuplicate
}

type Shift struct {
	ID    int64
	Name  string
	Start string // HH:MM
	End   string // HH:MM, End < Start means overnight
}

type BellSchedule struct {
	ID       string
	Title    string
	Time     string // HH:MM
	Days     []string
	Sound    string
	Duration int // seconds
	Enabled  bool
}

func (b BellSchedule) RingsOn(weekday string) bool {
	for _, d := range b.Days {
		if d == weekday {
			return true
		}
	}
	return false
}

type BellHistory struct {
	Timestamp  time.Time
	ScheduleID string
	Time       string
	Sound      string
}

type Frequency string

const (
	FrequencyImmediate Frequency = "immediate"
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
)

type TaskType string

const (
	TaskExport TaskType = "export"
	TaskDelete TaskType = "delete"
)

type TaskTarget string

const (
	TargetLastWeekRecords  TaskTarget = "last_week_records"
	TargetLastMonthRecords TaskTarget = "last_month_records"
	TargetManualRecords    TaskTarget = "manual_records"
	TargetAllRecords       TaskTarget = "all_records"
	TargetAllEmployees     TaskTarget = "all_employees"
	TargetLog              TaskTarget = "log"
)

var TaskTargets = []TaskTarget{
	TargetLastWeekRecords,
	TargetLastMonthRecords,
	TargetManualRecords,
	TargetAllRecords,
	TargetAllEmployees,
	TargetLog,
}

type AutomationTask struct {
	ID        string
	Frequency Frequency
	Day       string // weekday digit for weekly, day of month for monthly
	Time      string // HH:MM, empty for immediate
	TaskType  TaskType
	Target    TaskTarget
	Enabled   bool
}

type LogStatus string

const (
	LogSuccess LogStatus = "success"
	LogError   LogStatus = "error"
	LogInfo    LogStatus = "info"
)

type AutomationLog struct {
	Timestamp time.Time
	Message   string
	Status    LogStatus
}

// Greetings holds the messages shown after a successful punch, per direction.
type Greetings map[PunchType][]string

type SpecialEffect struct {
	ID        string
	Name      string
	Prefix    string
	Suffix    string
	StartDate string // YYYY-MM-DD
	EndDate   string
	Enabled   bool
}

type ThemeSchedule struct {
	ID        string
	Name      string
	ThemeName string
	StartDate string
	EndDate   string
	Enabled   bool
}
