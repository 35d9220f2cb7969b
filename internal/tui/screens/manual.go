package screens

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/emilianohg/punchclock/internal/app"
	"github.com/emilianohg/punchclock/internal/clock"
	"github.com/emilianohg/punchclock/internal/models"
)

const (
	manualFieldEmployee = iota
	manualFieldDate
	manualFieldTime
	manualFieldType
	manualFieldCount
)

var manualLabels = []string{"Employee (id, card or password)", "Date (YYYY-MM-DD)", "Time (HH:MM[:SS])", "Type (in/out)"}

// Manual back-fills a forgotten punch. It is behind the admin password.
type Manual struct {
	app    *app.App
	width  int
	height int

	gate    gate
	fields  []textinput.Model
	focus   int
	err     error
	message string
}

func NewManual(a *app.App) *Manual {
	fields := make([]textinput.Model, manualFieldCount)
	for i := range fields {
		ti := textinput.New()
		ti.Placeholder = manualLabels[i]
		ti.CharLimit = 64
		ti.Width = 32
		fields[i] = ti
	}
	return &Manual{
		app:    a,
		gate:   newGate("Admin password", a.Auth().VerifyAdmin),
		fields: fields,
	}
}

func (m *Manual) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Manual) Init() tea.Cmd {
	m.err = nil
	m.message = ""
	m.resetForm()
	return m.gate.reset()
}

func (m *Manual) resetForm() {
	now := m.app.Now()
	for i := range m.fields {
		m.fields[i].SetValue("")
		m.fields[i].Blur()
	}
	m.fields[manualFieldDate].SetValue(clock.ISODate(now))
	m.fields[manualFieldTime].SetValue(clock.HHMM(now))
	m.fields[manualFieldType].SetValue(string(models.PunchIn))
	m.focus = manualFieldEmployee
	m.fields[m.focus].Focus()
}

func (m *Manual) Update(msg tea.Msg) tea.Cmd {
	if !m.gate.open {
		cmd, back := m.gate.update(msg)
		if back {
			return Navigate("kiosk")
		}
		return cmd
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return Navigate("kiosk")
		case "tab", "down":
			m.moveFocus(1)
			return nil
		case "shift+tab", "up":
			m.moveFocus(-1)
			return nil
		case "enter":
			if m.focus < manualFieldCount-1 {
				m.moveFocus(1)
				return nil
			}
			m.submit()
			return nil
		}
	}

	var cmd tea.Cmd
	m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
	return cmd
}

func (m *Manual) moveFocus(delta int) {
	m.fields[m.focus].Blur()
	m.focus = (m.focus + delta + manualFieldCount) % manualFieldCount
	m.fields[m.focus].Focus()
}

func (m *Manual) submit() {
	value := func(i int) string { return strings.TrimSpace(m.fields[i].Value()) }

	res, err := m.app.ManualPunch(
		value(manualFieldEmployee),
		value(manualFieldDate),
		value(manualFieldTime),
		strings.ToLower(value(manualFieldType)),
		0,
	)
	if err != nil {
		m.err = err
		m.message = ""
		return
	}
	m.err = nil
	m.message = fmt.Sprintf("%s (%s %s)", res.Message, res.Record.Type, res.Record.Timestamp.Format("2006-01-02 15:04:05"))
	m.resetForm()
}

func (m *Manual) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("MANUAL ENTRY"))
	b.WriteString("\n\n")

	if !m.gate.open {
		b.WriteString(m.gate.view("Enter the admin password:"))
		return b.String()
	}

	if m.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	}
	if m.message != "" {
		b.WriteString(SuccessStyle.Render(m.message))
		b.WriteString("\n\n")
	}

	for i, f := range m.fields {
		label := NormalStyle
		if i == m.focus {
			label = SelectedStyle
		}
		b.WriteString(label.Render(manualLabels[i]))
		b.WriteString("\n")
		b.WriteString(f.View())
		b.WriteString("\n\n")
	}

	b.WriteString(HelpStyle.Render("[tab] Next field  [enter] Save  [esc] Back"))
	return b.String()
}
