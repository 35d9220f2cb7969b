package export

import (
	"fmt"
	"io"
	"time"

	"github.com/emilianohg/punchclock/internal/models"
)

// UnknownEmployee is shown for records whose employee no longer exists.
const UnknownEmployee = "Unknown employee"

var (
	PunchRecordHeaders = []string{"Employee ID", "Name", "Date", "Time", "Shift", "Status", "Source"}
	LogHeaders         = []string{"Timestamp", "Status", "Message"}
)

// NameLookup resolves an employee id to a display name.
type NameLookup func(id string) (string, bool)

// NamesFrom builds a NameLookup over a roster snapshot.
func NamesFrom(employees []models.Employee) NameLookup {
	names := make(map[string]string, len(employees))
	for _, e := range employees {
		names[e.ID] = e.Name
	}
	return func(id string) (string, bool) {
		name, ok := names[id]
		return name, ok
	}
}

func punchRecordFields(r models.PunchRecord, names NameLookup) []string {
	name, ok := names(r.EmployeeID)
	if !ok {
		name = UnknownEmployee
	}
	source := r.Source
	if source == "" {
		source = models.SourceAuto
	}
	return []string{
		r.EmployeeID,
		name,
		r.Timestamp.Format("2006-01-02"),
		r.Timestamp.Format("15:04:05"),
		r.Shift,
		string(r.Status),
		string(source),
	}
}

func WritePunchRecords(w io.Writer, records []models.PunchRecord, names NameLookup) error {
	cw := NewWriter(w)
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, PunchRecordHeaders)
	for _, r := range records {
		rows = append(rows, punchRecordFields(r, names))
	}
	return cw.WriteAll(rows)
}

func WriteLog(w io.Writer, entries []models.AutomationLog) error {
	cw := NewWriter(w)
	rows := make([][]string, 0, len(entries)+1)
	rows = append(rows, LogHeaders)
	for _, e := range entries {
		rows = append(rows, []string{
			e.Timestamp.Format("2006-01-02 15:04:05"),
			string(e.Status),
			e.Message,
		})
	}
	return cw.WriteAll(rows)
}

// Filename builds "<label>_<YYYY-MM-DD>.<ext>".
func Filename(label string, now time.Time, ext string) string {
	return fmt.Sprintf("%s_%s.%s", label, now.Format("2006-01-02"), ext)
}
