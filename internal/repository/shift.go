package repository

import (
	"database/sql"

	"github.com/emilianohg/punchclock/internal/models"
)

type ShiftRepo struct {
	db *sql.DB
}

func NewShiftRepo(db *sql.DB) *ShiftRepo {
	return &ShiftRepo{db: db}
}

func (r *ShiftRepo) GetAll() ([]models.Shift, error) {
	rows, err := r.db.Query("SELECT id, name, start, end FROM shifts ORDER BY start")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []models.Shift
	for rows.Next() {
		var s models.Shift
		if err := rows.Scan(&s.ID, &s.Name, &s.Start, &s.End); err != nil {
			return nil, err
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

// SaveAll replaces the shift list. Shifts missing a name, start or end are
// dropped; ids are reassigned.
func (r *ShiftRepo) SaveAll(shifts []models.Shift) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM shifts"); err != nil {
		return err
	}

	for _, s := range shifts {
		if s.Name == "" || s.Start == "" || s.End == "" {
			continue
		}
		if _, err := tx.Exec("INSERT INTO shifts (name, start, end) VALUES (?, ?, ?)", s.Name, s.Start, s.End); err != nil {
			return err
		}
	}

	return tx.Commit()
}
