package repository

import (
	"database/sql"

	"github.com/emilianohg/punchclock/internal/models"
)

// EffectRepo covers the date-windowed cosmetic tables: seasonal greeting
// effects and theme schedules.
type EffectRepo struct {
	db *sql.DB
}

func NewEffectRepo(db *sql.DB) *EffectRepo {
	return &EffectRepo{db: db}
}

func (r *EffectRepo) GetSpecialEffects() ([]models.SpecialEffect, error) {
	rows, err := r.db.Query(`
		SELECT id, name, prefix, suffix, start_date, end_date, enabled
		FROM special_effects
		ORDER BY start_date
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var effects []models.SpecialEffect
	for rows.Next() {
		var e models.SpecialEffect
		if err := rows.Scan(&e.ID, &e.Name, &e.Prefix, &e.Suffix, &e.StartDate, &e.EndDate, &e.Enabled); err != nil {
			return nil, err
		}
		effects = append(effects, e)
	}
	return effects, rows.Err()
}

func (r *EffectRepo) SaveSpecialEffects(effects []models.SpecialEffect) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM special_effects"); err != nil {
		return err
	}
	for _, e := range effects {
		if _, err := tx.Exec(`
			INSERT INTO special_effects (id, name, prefix, suffix, start_date, end_date, enabled)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, e.ID, e.Name, e.Prefix, e.Suffix, e.StartDate, e.EndDate, e.Enabled); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *EffectRepo) GetThemeSchedules() ([]models.ThemeSchedule, error) {
	rows, err := r.db.Query(`
		SELECT id, name, theme_name, start_date, end_date, enabled
		FROM theme_schedules
		ORDER BY start_date
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []models.ThemeSchedule
	for rows.Next() {
		var s models.ThemeSchedule
		if err := rows.Scan(&s.ID, &s.Name, &s.ThemeName, &s.StartDate, &s.EndDate, &s.Enabled); err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

func (r *EffectRepo) SaveThemeSchedules(schedules []models.ThemeSchedule) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM theme_schedules"); err != nil {
		return err
	}
	for _, s := range schedules {
		if _, err := tx.Exec(`
			INSERT INTO theme_schedules (id, name, theme_name, start_date, end_date, enabled)
			VALUES (?, ?, ?, ?, ?, ?)
		`, s.ID, s.Name, s.ThemeName, s.StartDate, s.EndDate, s.Enabled); err != nil {
			return err
		}
	}

	return tx.Commit()
}
