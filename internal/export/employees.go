package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/emilianohg/punchclock/internal/models"
)

var (
	ErrEmptyFile   = errors.New("file has no rows")
	ErrNoKnownKeys = errors.New("header has no recognised columns")
)

// EmployeeKeys is the column order of every roster file.
var EmployeeKeys = []string{
	"id", "name", "gender", "department", "card", "password",
	"nationality", "birth_date", "hire_date", "termination_date", "notes",
}

// EmployeeHeaders are the display headers written on export, in EmployeeKeys
// order.
var EmployeeHeaders = []string{
	"Employee ID", "Name", "Gender", "Department", "Card", "Password",
	"Nationality", "Birth Date", "Hire Date", "Termination Date", "Notes",
}

// headerKeys maps both machine keys and display headers to a field key.
var headerKeys = func() map[string]string {
	m := make(map[string]string, 2*len(EmployeeKeys))
	for i, key := range EmployeeKeys {
		m[key] = key
		m[strings.ToLower(EmployeeHeaders[i])] = key
	}
	return m
}()

func employeeFields(e models.Employee) []string {
	return []string{
		e.ID, e.Name, e.Gender, e.Department, e.Card, e.Password,
		e.Nationality, e.BirthDate, e.HireDate, e.TerminationDate, e.Notes,
	}
}

func setEmployeeField(e *models.Employee, key, value string) {
	switch key {
	case "id":
		e.ID = value
	case "name":
		e.Name = value
	case "gender":
		e.Gender = value
	case "department":
		e.Department = value
	case "card":
		e.Card = value
	case "password":
		e.Password = value
	case "nationality":
		e.Nationality = value
	case "birth_date":
		e.BirthDate = value
	case "hire_date":
		e.HireDate = value
	case "termination_date":
		e.TerminationDate = value
	case "notes":
		e.Notes = value
	}
}

// WriteEmployees writes the roster with display headers.
func WriteEmployees(w io.Writer, employees []models.Employee) error {
	cw := NewWriter(w)
	rows := make([][]string, 0, len(employees)+1)
	rows = append(rows, EmployeeHeaders)
	for _, e := range employees {
		rows = append(rows, employeeFields(e))
	}
	return cw.WriteAll(rows)
}

// ReadEmployees parses a roster CSV, mapping columns by header name. Columns
// with unknown headers are ignored. Rows are returned as-is; see Merge for
// the import rules.
func ReadEmployees(r io.Reader) ([]models.Employee, error) {
	reader := csv.NewReader(stripBOM(r))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	keys := make([]string, len(header))
	known := 0
	for i, h := range header {
		keys[i] = headerKeys[strings.ToLower(strings.TrimSpace(h))]
		if keys[i] != "" {
			known++
		}
	}
	if known == 0 {
		return nil, ErrNoKnownKeys
	}

	var employees []models.Employee
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", line, err)
		}
		if isBlank(record) {
			continue
		}

		var e models.Employee
		for i, value := range record {
			if i < len(keys) && keys[i] != "" {
				setEmployeeField(&e, keys[i], strings.TrimSpace(value))
			}
		}
		employees = append(employees, e)
	}
	return employees, nil
}

// ImportResult summarises a Merge.
type ImportResult struct {
	Employees  []models.Employee // existing roster followed by the new rows
	Added      int
	Incomplete int // rows missing a required field
	Conflicts  int // rows whose id or card is already taken
}

// Merge appends the incoming rows that carry id, name, department, card
// and password, and whose id and card are not already used by the roster
// or by an earlier accepted row.
func Merge(existing, incoming []models.Employee) ImportResult {
	ids := make(map[string]bool, len(existing))
	cards := make(map[string]bool, len(existing))
	for _, e := range existing {
		ids[e.ID] = true
		if e.Card != "" {
			cards[e.Card] = true
		}
	}

	res := ImportResult{Employees: append([]models.Employee(nil), existing...)}
	for _, e := range incoming {
		if e.ID == "" || e.Name == "" || e.Department == "" || e.Card == "" || e.Password == "" {
			res.Incomplete++
			continue
		}
		if ids[e.ID] || cards[e.Card] {
			res.Conflicts++
			continue
		}
		ids[e.ID] = true
		cards[e.Card] = true
		res.Employees = append(res.Employees, e)
		res.Added++
	}
	return res
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
