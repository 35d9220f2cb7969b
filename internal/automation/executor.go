package automation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/emilianohg/punchclock/internal/clock"
	"github.com/emilianohg/punchclock/internal/export"
	"github.com/emilianohg/punchclock/internal/models"
	"github.com/emilianohg/punchclock/internal/notify"
)

var (
	ErrUnknownTarget   = errors.New("unknown task target")
	ErrUnknownTaskType = errors.New("unknown task type")
	ErrTaskFailed      = errors.New("automation task failed")
)

type EmployeeStore interface {
	GetAll() ([]models.Employee, error)
	DeleteAll() (int64, error)
}

type PunchStore interface {
	GetAll() ([]models.PunchRecord, error)
	GetInRange(from, to time.Time) ([]models.PunchRecord, error)
	GetBySource(source models.PunchSource) ([]models.PunchRecord, error)
	DeleteByDateRange(from, to time.Time) (int64, error)
	DeleteBySource(source models.PunchSource) (int64, error)
	DeleteAll() (int64, error)
}

type LogStore interface {
	AddLog(entry models.AutomationLog) error
	GetLog() ([]models.AutomationLog, error)
	ClearLog() (int64, error)
}

// Outcome is what one execution did. Domain is set when a delete removed
// rows the UI is showing.
type Outcome struct {
	Status   models.LogStatus
	Message  string
	Domain   notify.Domain
	Affected int64
	File     string
}

type Executor struct {
	employees EmployeeStore
	punches   PunchStore
	log       LogStore
	exportDir string
	clock     clock.Clock
	notifier  notify.Notifier
	logger    *zap.Logger
}

func NewExecutor(employees EmployeeStore, punches PunchStore, log LogStore, exportDir string,
	clk clock.Clock, notifier notify.Notifier, logger *zap.Logger) *Executor {
	return &Executor{
		employees: employees,
		punches:   punches,
		log:       log,
		exportDir: exportDir,
		clock:     clk,
		notifier:  notifier,
		logger:    logger,
	}
}

// scope is a target resolved against the current time.
type scope struct {
	label     string // human-readable, used in log messages
	fileLabel string
	rng       *clock.Range
}

func resolveScope(target models.TaskTarget, now time.Time) (scope, error) {
	switch target {
	case models.TargetLastWeekRecords:
		r := clock.LastWeek(now)
		from, to := clock.ISODate(r.Start), clock.ISODate(r.End)
		return scope{
			label:     fmt.Sprintf("last week %s to %s", from, to),
			fileLabel: fmt.Sprintf("Attendance_LastWeek_%s_to_%s", from, to),
			rng:       &r,
		}, nil
	case models.TargetLastMonthRecords:
		r := clock.LastMonth(now)
		month := r.Start.Format("2006-01")
		return scope{
			label:     "last month " + month,
			fileLabel: "Attendance_LastMonth_" + month,
			rng:       &r,
		}, nil
	case models.TargetManualRecords:
		return scope{label: "manual entries", fileLabel: "Attendance_ManualEntries"}, nil
	case models.TargetAllRecords:
		return scope{label: "all punch records", fileLabel: "Attendance_All"}, nil
	case models.TargetAllEmployees:
		return scope{label: "employee roster", fileLabel: "Roster"}, nil
	case models.TargetLog:
		return scope{label: "task log", fileLabel: "TaskLog"}, nil
	}
	return scope{}, fmt.Errorf("%w: %q", ErrUnknownTarget, target)
}

// Execute runs one task and appends exactly one entry to the automation
// log describing the result. Failures end up in the returned Outcome and
// the log; they are never returned as errors.
func (e *Executor) Execute(ctx context.Context, task models.AutomationTask) Outcome {
	now := e.clock.Now()
	e.logger.Info("executing automation task",
		zap.String("task", task.ID),
		zap.String("type", string(task.TaskType)),
		zap.String("target", string(task.Target)),
	)

	out, err := e.dispatch(task, now)
	if err != nil {
		out = Outcome{Status: models.LogError, Message: err.Error()}
	}
	out.Message = fmt.Sprintf("[%s %s] %s", task.TaskType, task.Target, out.Message)

	if err := e.log.AddLog(models.AutomationLog{Timestamp: now, Message: out.Message, Status: out.Status}); err != nil {
		e.logger.Error("failed to append automation log", zap.Error(err))
	}

	if out.Status == models.LogError {
		e.logger.Error("automation task failed", zap.String("task", task.ID), zap.String("message", out.Message))
	} else {
		e.logger.Info("automation task finished", zap.String("task", task.ID), zap.String("message", out.Message))
	}

	e.notifier.Notify(ctx, notify.DataUpdated(notify.DomainAutomationLog))
	if out.Domain != "" {
		e.notifier.Notify(ctx, notify.DataUpdated(out.Domain))
	}
	return out
}

// RunNow executes a task on demand without persisting it. An error is
// returned when the execution logged a failure.
func (e *Executor) RunNow(ctx context.Context, taskType models.TaskType, target models.TaskTarget) (Outcome, error) {
	task := models.AutomationTask{
		ID:        uuid.NewString(),
		Frequency: models.FrequencyImmediate,
		TaskType:  taskType,
		Target:    target,
		Enabled:   true,
	}
	out := e.Execute(ctx, task)
	if out.Status == models.LogError {
		return out, fmt.Errorf("%w: %s", ErrTaskFailed, out.Message)
	}
	return out, nil
}

func (e *Executor) dispatch(task models.AutomationTask, now time.Time) (Outcome, error) {
	sc, err := resolveScope(task.Target, now)
	if err != nil {
		return Outcome{}, err
	}
	switch task.TaskType {
	case models.TaskExport:
		return e.export(task.Target, sc, now)
	case models.TaskDelete:
		return e.delete(task.Target, sc)
	}
	return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownTaskType, task.TaskType)
}

func (e *Executor) export(target models.TaskTarget, sc scope, now time.Time) (Outcome, error) {
	switch target {
	case models.TargetAllEmployees:
		employees, err := e.employees.GetAll()
		if err != nil {
			return Outcome{}, fmt.Errorf("failed to load employees: %w", err)
		}
		if len(employees) == 0 {
			return Outcome{Status: models.LogInfo, Message: "no employees to export"}, nil
		}
		path, err := e.writeFile(sc.fileLabel, now, func(f *os.File) error {
			return export.WriteEmployees(f, employees)
		})
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{
			Status:   models.LogSuccess,
			Message:  fmt.Sprintf("exported %d employees (%s) to %s", len(employees), sc.label, path),
			Affected: int64(len(employees)),
			File:     path,
		}, nil

	case models.TargetLog:
		entries, err := e.log.GetLog()
		if err != nil {
			return Outcome{}, fmt.Errorf("failed to load task log: %w", err)
		}
		if len(entries) == 0 {
			return Outcome{Status: models.LogInfo, Message: "no task log entries to export"}, nil
		}
		path, err := e.writeFile(sc.fileLabel, now, func(f *os.File) error {
			return export.WriteLog(f, entries)
		})
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{
			Status:   models.LogSuccess,
			Message:  fmt.Sprintf("exported %d task log entries (%s) to %s", len(entries), sc.label, path),
			Affected: int64(len(entries)),
			File:     path,
		}, nil
	}

	records, err := e.selectRecords(target, sc)
	if err != nil {
		return Outcome{}, err
	}
	if len(records) == 0 {
		return Outcome{Status: models.LogInfo, Message: fmt.Sprintf("no punch records to export (%s)", sc.label)}, nil
	}
	employees, err := e.employees.GetAll()
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to load employees: %w", err)
	}
	path, err := e.writeFile(sc.fileLabel, now, func(f *os.File) error {
		return export.WritePunchRecords(f, records, export.NamesFrom(employees))
	})
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Status:   models.LogSuccess,
		Message:  fmt.Sprintf("exported %d punch records (%s) to %s", len(records), sc.label, path),
		Affected: int64(len(records)),
		File:     path,
	}, nil
}

func (e *Executor) selectRecords(target models.TaskTarget, sc scope) ([]models.PunchRecord, error) {
	var (
		records []models.PunchRecord
		err     error
	)
	switch {
	case sc.rng != nil:
		records, err = e.punches.GetInRange(sc.rng.Start, sc.rng.End)
	case target == models.TargetManualRecords:
		records, err = e.punches.GetBySource(models.SourceManual)
	default:
		records, err = e.punches.GetAll()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load punch records: %w", err)
	}
	return records, nil
}

func (e *Executor) delete(target models.TaskTarget, sc scope) (Outcome, error) {
	var (
		n      int64
		err    error
		noun   = "punch records"
		domain = notify.DomainPunchRecords
	)
	switch {
	case sc.rng != nil:
		n, err = e.punches.DeleteByDateRange(sc.rng.Start, sc.rng.End)
	case target == models.TargetManualRecords:
		n, err = e.punches.DeleteBySource(models.SourceManual)
	case target == models.TargetAllRecords:
		n, err = e.punches.DeleteAll()
	case target == models.TargetAllEmployees:
		noun, domain = "employees", notify.DomainEmployees
		n, err = e.employees.DeleteAll()
	case target == models.TargetLog:
		n, err = e.log.ClearLog()
		if err != nil {
			return Outcome{}, fmt.Errorf("failed to clear task log: %w", err)
		}
		return Outcome{
			Status:   models.LogSuccess,
			Message:  fmt.Sprintf("cleared %d task log entries", n),
			Affected: n,
		}, nil
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to delete %s: %w", noun, err)
	}

	out := Outcome{
		Status:   models.LogSuccess,
		Message:  fmt.Sprintf("deleted %d %s (%s)", n, noun, sc.label),
		Affected: n,
	}
	if n > 0 {
		out.Domain = domain
	}
	return out, nil
}

func (e *Executor) writeFile(label string, now time.Time, write func(f *os.File) error) (string, error) {
	if err := os.MkdirAll(e.exportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(e.exportDir, export.Filename(label, now, "csv"))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", filepath.Base(path), err)
	}
	return path, nil
}

// mentions reports whether a log message names both the task type and the
// target. This is a plain substring check.
func mentions(message string, task models.AutomationTask) bool {
	return strings.Contains(message, string(task.Target)) && strings.Contains(message, string(task.TaskType))
}
