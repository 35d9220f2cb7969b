package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/emilianohg/punchclock/internal/export"
	"github.com/emilianohg/punchclock/internal/models"
	"github.com/emilianohg/punchclock/internal/notify"
)

var (
	ErrMissingFields  = errors.New("id, name, department, card and password are required")
	ErrDuplicateCard  = errors.New("card is already assigned to another employee")
	ErrNothingToWrite = errors.New("roster is empty")
)

// SaveEmployee adds or replaces one employee, keeping card numbers unique.
func (a *App) SaveEmployee(ctx context.Context, e models.Employee) error {
	e = sanitizeEmployee(e)
	if e.ID == "" || e.Name == "" || e.Department == "" || e.Card == "" || e.Password == "" {
		return ErrMissingFields
	}

	roster := a.state.Employees()
	replaced := false
	for i := range roster {
		if roster[i].Card == e.Card && roster[i].ID != e.ID {
			return fmt.Errorf("%w: %s has card %s", ErrDuplicateCard, roster[i].ID, e.Card)
		}
		if roster[i].ID == e.ID {
			roster[i] = e
			replaced = true
		}
	}
	if !replaced {
		roster = append(roster, e)
	}
	return a.saveRoster(ctx, roster)
}

// DeleteEmployee removes an employee from the roster. Their punch records
// are kept.
func (a *App) DeleteEmployee(ctx context.Context, id string) error {
	roster := a.state.Employees()
	kept := roster[:0]
	for _, e := range roster {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(roster) {
		return fmt.Errorf("employee %s not found", id)
	}
	return a.saveRoster(ctx, kept)
}

// ImportEmployees merges the new rows of a roster CSV into the roster.
func (a *App) ImportEmployees(ctx context.Context, r io.Reader) (export.ImportResult, error) {
	incoming, err := export.ReadEmployees(r)
	if err != nil {
		return export.ImportResult{}, fmt.Errorf("failed to read roster file: %w", err)
	}
	for i := range incoming {
		incoming[i] = sanitizeEmployee(incoming[i])
	}

	res := export.Merge(a.state.Employees(), incoming)
	a.logger.Info("roster import",
		zap.Int("added", res.Added),
		zap.Int("conflicts", res.Conflicts),
		zap.Int("incomplete", res.Incomplete),
	)
	if res.Added == 0 {
		return res, nil
	}
	return res, a.saveRoster(ctx, res.Employees)
}

// ExportEmployees writes the roster as CSV.
func (a *App) ExportEmployees(w io.Writer) (int, error) {
	roster := a.state.Employees()
	if len(roster) == 0 {
		return 0, ErrNothingToWrite
	}
	if err := export.WriteEmployees(w, roster); err != nil {
		return 0, fmt.Errorf("failed to write roster: %w", err)
	}
	return len(roster), nil
}

func (a *App) saveRoster(ctx context.Context, roster []models.Employee) error {
	if err := a.store.Employees.SaveAll(roster); err != nil {
		return fmt.Errorf("failed to save employees: %w", err)
	}
	a.state.SetEmployees(roster)
	a.notifier.Notify(ctx, notify.DataUpdated(notify.DomainEmployees))
	return nil
}

// sanitizeEmployees cleans whitespace and stray quotes left in employee
// fields by older spreadsheet imports, saving only when something changed.
func (a *App) sanitizeEmployees() error {
	employees, err := a.store.Employees.GetAll()
	if err != nil {
		return fmt.Errorf("failed to load employees: %w", err)
	}

	changed := false
	for i, e := range employees {
		clean := sanitizeEmployee(e)
		if clean != e {
			employees[i] = clean
			changed = true
		}
	}
	if changed {
		if err := a.store.Employees.SaveAll(employees); err != nil {
			return fmt.Errorf("failed to save sanitized employees: %w", err)
		}
		a.logger.Info("employee data sanitized")
	}
	a.state.SetEmployees(employees)
	return nil
}

func sanitizeEmployee(e models.Employee) models.Employee {
	for _, field := range []*string{
		&e.ID, &e.Name, &e.Gender, &e.Department, &e.Card, &e.Password,
		&e.Nationality, &e.BirthDate, &e.HireDate, &e.TerminationDate, &e.Notes,
	} {
		*field = cleanField(*field)
	}
	return e
}

func cleanField(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, `"`)
	return strings.TrimSuffix(v, `"`)
}
