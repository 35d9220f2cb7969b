package repository

import (
	"database/sql"
	"fmt"

	"github.com/emilianohg/punchclock/internal/models"
)

type EmployeeRepo struct {
	db *sql.DB
}

func NewEmployeeRepo(db *sql.DB) *EmployeeRepo {
	return &EmployeeRepo{db: db}
}

// GetAll returns the roster ordered by id. Credential lookups take the first
// match in this order.
func (r *EmployeeRepo) GetAll() ([]models.Employee, error) {
	rows, err := r.db.Query(`
		SELECT id, name, gender, department, COALESCE(card, ''), password, nationality,
		       birth_date, hire_date, termination_date, notes
		FROM employees
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []models.Employee
	for rows.Next() {
		var e models.Employee
		if err := rows.Scan(
			&e.ID, &e.Name, &e.Gender, &e.Department, &e.Card, &e.Password, &e.Nationality,
			&e.BirthDate, &e.HireDate, &e.TerminationDate, &e.Notes,
		); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (r *EmployeeRepo) GetByID(id string) (*models.Employee, error) {
	var e models.Employee
	err := r.db.QueryRow(`
		SELECT id, name, gender, department, COALESCE(card, ''), password, nationality,
		       birth_date, hire_date, termination_date, notes
		FROM employees
		WHERE id = ?
	`, id).Scan(
		&e.ID, &e.Name, &e.Gender, &e.Department, &e.Card, &e.Password, &e.Nationality,
		&e.BirthDate, &e.HireDate, &e.TerminationDate, &e.Notes,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// SaveAll replaces the whole roster in one transaction.
func (r *EmployeeRepo) SaveAll(employees []models.Employee) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM employees"); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO employees (id, name, gender, department, card, password, nationality,
		                       birth_date, hire_date, termination_date, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range employees {
		var card any
		if e.Card != "" {
			card = e.Card
		}
		if _, err := stmt.Exec(
			e.ID, e.Name, e.Gender, e.Department, card, e.Password, e.Nationality,
			e.BirthDate, e.HireDate, e.TerminationDate, e.Notes,
		); err != nil {
			return fmt.Errorf("failed to save employee %s: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

func (r *EmployeeRepo) DeleteAll() (int64, error) {
	result, err := r.db.Exec("DELETE FROM employees")
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
