package repository

import (
	"database/sql"
	"time"

	"github.com/emilianohg/punchclock/internal/models"
)

type AutomationRepo struct {
	db *sql.DB
}

func NewAutomationRepo(db *sql.DB) *AutomationRepo {
	return &AutomationRepo{db: db}
}

func (r *AutomationRepo) GetTasks() ([]models.AutomationTask, error) {
	rows, err := r.db.Query(`
		SELECT id, frequency, day, time, task_type, target, enabled
		FROM automation_tasks
		ORDER BY time
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.AutomationTask
	for rows.Next() {
		var t models.AutomationTask
		if err := rows.Scan(&t.ID, &t.Frequency, &t.Day, &t.Time, &t.TaskType, &t.Target, &t.Enabled); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *AutomationRepo) SaveTasks(tasks []models.AutomationTask) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM automation_tasks"); err != nil {
		return err
	}

	for _, t := range tasks {
		if _, err := tx.Exec(`
			INSERT INTO automation_tasks (id, frequency, day, time, task_type, target, enabled)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, t.ID, t.Frequency, t.Day, t.Time, t.TaskType, t.Target, t.Enabled); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *AutomationRepo) AddLog(entry models.AutomationLog) error {
	_, err := r.db.Exec(
		"INSERT INTO automation_log (timestamp, message, status) VALUES (?, ?, ?)",
		entry.Timestamp.UnixMilli(), entry.Message, entry.Status,
	)
	return err
}

func (r *AutomationRepo) GetLog() ([]models.AutomationLog, error) {
	return r.getLogWithFilter("", nil)
}

// RecentLog returns entries strictly after since, newest first.
func (r *AutomationRepo) RecentLog(since time.Time) ([]models.AutomationLog, error) {
	return r.getLogWithFilter("WHERE timestamp > ?", []interface{}{since.UnixMilli()})
}

func (r *AutomationRepo) getLogWithFilter(filter string, args []interface{}) ([]models.AutomationLog, error) {
	rows, err := r.db.Query(`
		SELECT timestamp, message, status
		FROM automation_log
		`+filter+`
		ORDER BY timestamp DESC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.AutomationLog
	for rows.Next() {
		var l models.AutomationLog
		var ts int64
		if err := rows.Scan(&ts, &l.Message, &l.Status); err != nil {
			return nil, err
		}
		l.Timestamp = time.UnixMilli(ts)
		entries = append(entries, l)
	}
	return entries, rows.Err()
}

func (r *AutomationRepo) ClearLog() (int64, error) {
	result, err := r.db.Exec("DELETE FROM automation_log")
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
