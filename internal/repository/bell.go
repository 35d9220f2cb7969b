package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/emilianohg/punchclock/internal/models"
)

type BellRepo struct {
	db *sql.DB
}

func NewBellRepo(db *sql.DB) *BellRepo {
	return &BellRepo{db: db}
}

func (r *BellRepo) GetSchedules() ([]models.BellSchedule, error) {
	rows, err := r.db.Query(`
		SELECT id, title, time, days, sound, duration, enabled
		FROM bell_schedules
		ORDER BY time
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []models.BellSchedule
	for rows.Next() {
		var s models.BellSchedule
		var daysJSON string
		if err := rows.Scan(&s.ID, &s.Title, &s.Time, &daysJSON, &s.Sound, &s.Duration, &s.Enabled); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(daysJSON), &s.Days); err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

func (r *BellRepo) SaveSchedules(schedules []models.BellSchedule) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM bell_schedules"); err != nil {
		return err
	}

	for _, s := range schedules {
		days := s.Days
		if days == nil {
			days = []string{}
		}
		daysJSON, err := json.Marshal(days)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`
			INSERT INTO bell_schedules (id, title, time, days, sound, duration, enabled)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, s.ID, s.Title, s.Time, string(daysJSON), s.Sound, s.Duration, s.Enabled); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *BellRepo) AddHistory(h models.BellHistory) error {
	_, err := r.db.Exec(`
		INSERT INTO bell_history (timestamp, schedule_id, time, sound)
		VALUES (?, ?, ?, ?)
	`, h.Timestamp.UnixMilli(), h.ScheduleID, h.Time, h.Sound)
	return err
}

func (r *BellRepo) GetHistory() ([]models.BellHistory, error) {
	return r.getHistoryWithFilter("", nil)
}

// RecentHistory returns firings strictly after since, newest first.
func (r *BellRepo) RecentHistory(since time.Time) ([]models.BellHistory, error) {
	return r.getHistoryWithFilter("WHERE timestamp > ?", []interface{}{since.UnixMilli()})
}

func (r *BellRepo) getHistoryWithFilter(filter string, args []interface{}) ([]models.BellHistory, error) {
	rows, err := r.db.Query(`
		SELECT timestamp, schedule_id, time, sound
		FROM bell_history
		`+filter+`
		ORDER BY timestamp DESC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []models.BellHistory
	for rows.Next() {
		var h models.BellHistory
		var ts int64
		if err := rows.Scan(&ts, &h.ScheduleID, &h.Time, &h.Sound); err != nil {
			return nil, err
		}
		h.Timestamp = time.UnixMilli(ts)
		history = append(history, h)
	}
	return history, rows.Err()
}

func (r *BellRepo) ClearHistory() error {
	_, err := r.db.Exec("DELETE FROM bell_history")
	return err
}
