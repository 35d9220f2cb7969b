package screens

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/emilianohg/punchclock/internal/app"
	"github.com/emilianohg/punchclock/internal/clock"
	"github.com/emilianohg/punchclock/internal/export"
)

// reportLifetime closes an open report so it is not left on the kiosk.
const reportLifetime = 5 * time.Minute

type reportMode int

const (
	reportModeLogin reportMode = iota
	reportModeRange
	reportModeView
)

type Report struct {
	app    *app.App
	width  int
	height int

	mode     reportMode
	login    textinput.Model
	from     textinput.Model
	to       textinput.Model
	rangeIdx int
	who      app.Identity
	report   export.Report
	records  table.Model
	closesAt time.Time
	now      time.Time
	viewSeq  int
	err      error
	message  string
}

type reportTimeoutMsg struct{ seq int }

func NewReport(a *app.App) *Report {
	login := textinput.New()
	login.Placeholder = "Admin password, or your id, card or password"
	login.EchoMode = textinput.EchoPassword
	login.EchoCharacter = '•'
	login.CharLimit = 64
	login.Width = 40


	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 8},
			{Title: "Name", Width: 18},
			{Title: "Date", Width: 10},
			{Title: "Time", Width: 8},
			{Title: "Type", Width: 4},
			{Title: "Shift", Width: 14},
			{Title: "Status", Width: 9},
		}),
		table.WithHeight(15),
		table.WithFocused(true),
	)

	return &Report{app: a, login: login, from: dateInput(), to: dateInput(), records: t}
}

func dateInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "YYYY-MM-DD"
	ti.CharLimit = 10
	ti.Width = 12
	return ti
}

func (r *Report) SetSize(width, height int) {
	r.width = width
	r.height = height
	if height > 12 {
		r.records.SetHeight(height - 12)
	}
}

func (r *Report) Init() tea.Cmd {
	r.mode = reportModeLogin
	r.err = nil
	r.message = ""
	r.viewSeq++
	r.login.SetValue("")
	r.login.Focus()
	return textinput.Blink
}

func (r *Report) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ClockMsg:
		r.now = time.Time(msg)
		return nil
	case reportTimeoutMsg:
		if msg.seq == r.viewSeq && r.mode == reportModeView {
			return Navigate("kiosk")
		}
		return nil
	case tea.KeyMsg:
		if msg.String() == "esc" {
			return Navigate("kiosk")
		}
	}

	switch r.mode {
	case reportModeLogin:
		return r.updateLogin(msg)
	case reportModeRange:
		return r.updateRange(msg)
	case reportModeView:
		return r.updateView(msg)
	}
	return nil
}

func (r *Report) updateLogin(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		who, err := r.app.ReportLogin(r.login.Value())
		r.login.SetValue("")
		if err != nil {
			r.err = err
			return nil
		}
		r.err = nil
		r.who = who
		today := clock.ISODate(r.app.Now())
		r.from.SetValue(today)
		r.to.SetValue(today)
		r.rangeIdx = 0
		r.login.Blur()
		r.from.Focus()
		r.mode = reportModeRange
		return nil
	}
	var cmd tea.Cmd
	r.login, cmd = r.login.Update(msg)
	return cmd
}

func (r *Report) updateRange(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "shift+tab":
			r.rangeIdx = 1 - r.rangeIdx
			if r.rangeIdx == 0 {
				r.to.Blur()
				r.from.Focus()
			} else {
				r.from.Blur()
				r.to.Focus()
			}
			return nil
		case "enter":
			return r.open()
		}
	}
	var cmd tea.Cmd
	if r.rangeIdx == 0 {
		r.from, cmd = r.from.Update(msg)
	} else {
		r.to, cmd = r.to.Update(msg)
	}
	return cmd
}

func (r *Report) open() tea.Cmd {
	report, err := r.app.Report(r.who, strings.TrimSpace(r.from.Value()), strings.TrimSpace(r.to.Value()))
	if err != nil {
		r.err = err
		return nil
	}
	r.err = nil
	r.report = report

	rows := make([]table.Row, 0, len(report.Records))
	for _, rec := range report.Records {
		name, ok := report.Names(rec.EmployeeID)
		if !ok {
			name = export.UnknownEmployee
		}
		rows = append(rows, table.Row{
			rec.EmployeeID, name,
			rec.Timestamp.Format("2006-01-02"), rec.Timestamp.Format("15:04:05"),
			string(rec.Type), rec.Shift, string(rec.Status),
		})
	}
	r.records.SetRows(rows)
	r.records.GotoTop()
	r.mode = reportModeView

	// only the newest report's timer may close the screen
	r.viewSeq++
	seq := r.viewSeq
	r.closesAt = r.app.Now().Add(reportLifetime)
	return tea.Tick(reportLifetime, func(time.Time) tea.Msg { return reportTimeoutMsg{seq: seq} })
}

func (r *Report) updateView(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "x":
			path, err := r.app.SaveReport(r.report)
			if err != nil {
				r.err = err
			} else {
				r.message = "Saved " + path
			}
			return nil
		case "q":
			return Navigate("kiosk")
		}
	}
	var cmd tea.Cmd
	r.records, cmd = r.records.Update(msg)
	return cmd
}

func (r *Report) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("ATTENDANCE REPORT"))
	b.WriteString("\n\n")

	if r.err != nil {
		msg := r.err.Error()
		if errors.Is(r.err, app.ErrBadCredential) {
			msg = "Card or password not recognised."
		}
		b.WriteString(ErrorStyle.Render(msg))
		b.WriteString("\n\n")
	}

	switch r.mode {
	case reportModeLogin:
		b.WriteString("Sign in:\n")
		b.WriteString(r.login.View())
		b.WriteString("\n\n")
		b.WriteString(HelpStyle.Render("[enter] Continue  [esc] Back"))

	case reportModeRange:
		b.WriteString(NormalStyle.Render("Signed in as " + r.who.Name))
		b.WriteString("\n\n")
		b.WriteString("From: " + r.from.View() + "\n")
		b.WriteString("To:   " + r.to.View() + "\n\n")
		b.WriteString(HelpStyle.Render("[tab] Switch field  [enter] Show  [esc] Back"))

	case reportModeView:
		b.WriteString(SubtitleStyle.Render(r.report.Title))
		b.WriteString("\n")
		if len(r.report.Records) == 0 {
			b.WriteString(DimStyle.Render("No records."))
			b.WriteString("\n")
		} else {
			b.WriteString(r.records.View())
			b.WriteString("\n")
		}
		if r.message != "" {
			b.WriteString(SuccessStyle.Render(r.message))
			b.WriteString("\n")
		}
		if !r.now.IsZero() {
			left := r.closesAt.Sub(r.now).Round(time.Second)
			if left < 0 {
				left = 0
			}
			b.WriteString(DimStyle.Render(fmt.Sprintf("Closes in %s", left)))
			b.WriteString("\n")
		}
		b.WriteString(HelpStyle.Render("[↑/↓] Scroll  [x] Save .xlsx  [q] Close"))
	}

	return b.String()
}
