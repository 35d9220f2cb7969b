package repository

import (
	"database/sql"
	"time"

	"github.com/emilianohg/punchclock/internal/models"
)

type PunchRepo struct {
	db *sql.DB
}

func NewPunchRepo(db *sql.DB) *PunchRepo {
	return &PunchRepo{db: db}
}

func (r *PunchRepo) Add(record models.PunchRecord) error {
	_, err := r.db.Exec(`
		INSERT INTO punch_records (employee_id, timestamp, type, shift, status, source)
		VALUES (?, ?, ?, ?, ?, ?)
	`, record.EmployeeID, record.Timestamp.UnixMilli(), record.Type, record.Shift, record.Status, record.Source)
	return err
}

// GetAll returns every record, newest first.
func (r *PunchRepo) GetAll() ([]models.PunchRecord, error) {
	return r.getRecordsWithFilter("", nil)
}

// GetInRange returns records with from <= timestamp <= to, newest first.
func (r *PunchRepo) GetInRange(from, to time.Time) ([]models.PunchRecord, error) {
	return r.getRecordsWithFilter(
		"WHERE timestamp >= ? AND timestamp <= ?",
		[]interface{}{from.UnixMilli(), to.UnixMilli()},
	)
}

func (r *PunchRepo) GetBySource(source models.PunchSource) ([]models.PunchRecord, error) {
	return r.getRecordsWithFilter("WHERE source = ?", []interface{}{source})
}

func (r *PunchRepo) getRecordsWithFilter(filter string, args []interface{}) ([]models.PunchRecord, error) {
	query := `
		SELECT employee_id, timestamp, type, shift, status, source
		FROM punch_records
		` + filter + `
		ORDER BY timestamp DESC
	`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.PunchRecord
	for rows.Next() {
		var rec models.PunchRecord
		var ts int64
		if err := rows.Scan(&rec.EmployeeID, &ts, &rec.Type, &rec.Shift, &rec.Status, &rec.Source); err != nil {
			return nil, err
		}
		rec.Timestamp = time.UnixMilli(ts)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *PunchRepo) DeleteByDateRange(from, to time.Time) (int64, error) {
	return r.exec("DELETE FROM punch_records WHERE timestamp >= ? AND timestamp <= ?", from.UnixMilli(), to.UnixMilli())
}

func (r *PunchRepo) DeleteBySource(source models.PunchSource) (int64, error) {
	return r.exec("DELETE FROM punch_records WHERE source = ?", source)
}

func (r *PunchRepo) DeleteAll() (int64, error) {
	return r.exec("DELETE FROM punch_records")
}

func (r *PunchRepo) exec(query string, args ...interface{}) (int64, error) {
	result, err := r.db.Exec(query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
