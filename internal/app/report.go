package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/emilianohg/punchclock/internal/clock"
	"github.com/emilianohg/punchclock/internal/export"
	"github.com/emilianohg/punchclock/internal/models"
)

var (
	ErrBadCredential = errors.New("card or password not recognised")
	ErrBadRange      = errors.New("start date is after end date")
)

// Identity is who opened the attendance report. An empty EmployeeID means
// the administrator.
type Identity struct {
	EmployeeID string
	Name       string
}

func (i Identity) Admin() bool { return i.EmployeeID == "" }

// ReportLogin accepts the admin password, or an employee id, card or
// password.
func (a *App) ReportLogin(credential string) (Identity, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return Identity{}, ErrBadCredential
	}

	admin, err := a.auth.VerifyAdmin(credential)
	if err != nil {
		return Identity{}, err
	}
	if admin {
		return Identity{Name: "Administrator"}, nil
	}

	employee, ok := a.state.FindByIdentifier(credential)
	if !ok {
		return Identity{}, ErrBadCredential
	}
	return Identity{EmployeeID: employee.ID, Name: employee.Name}, nil
}

// Report collects the records visible to who between two ISO dates, both
// inclusive, newest first.
func (a *App) Report(who Identity, from, to string) (export.Report, error) {
	start, err := time.ParseInLocation("2006-01-02", from, time.Local)
	if err != nil {
		return export.Report{}, fmt.Errorf("invalid start date %q: %w", from, err)
	}
	end, err := time.ParseInLocation("2006-01-02", to, time.Local)
	if err != nil {
		return export.Report{}, fmt.Errorf("invalid end date %q: %w", to, err)
	}
	rng := clock.Range{Start: clock.StartOfDay(start), End: clock.EndOfDay(end)}
	if rng.Start.After(rng.End) {
		return export.Report{}, ErrBadRange
	}

	var records []models.PunchRecord
	for _, r := range a.state.Records() {
		if !rng.Contains(r.Timestamp) {
			continue
		}
		if !who.Admin() && r.EmployeeID != who.EmployeeID {
			continue
		}
		records = append(records, r)
	}

	title := fmt.Sprintf("Attendance %s to %s", from, to)
	subject := "All"
	if !who.Admin() {
		title = fmt.Sprintf("%s (%s)", title, who.Name)
		subject = who.EmployeeID
	}
	return export.Report{
		Title:   title,
		Subject: subject,
		Records: records,
		Names:   export.NamesFrom(a.state.Employees()),
	}, nil
}

// SaveReport writes the report as a workbook under the reports directory
// and returns its path.
func (a *App) SaveReport(r export.Report) (string, error) {
	buf, err := r.Workbook()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(a.cfg.ReportsOutput, 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	path := filepath.Join(a.cfg.ReportsOutput, export.Filename("Attendance_"+r.Subject, a.clock.Now(), "xlsx"))
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
