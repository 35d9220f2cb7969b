package screens

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/emilianohg/punchclock/internal/app"
	"github.com/emilianohg/punchclock/internal/models"
)

const historyRows = 15

var weekdayNames = map[string]string{
	"0": "Sun", "1": "Mon", "2": "Tue", "3": "Wed", "4": "Thu", "5": "Fri", "6": "Sat",
}

type Bells struct {
	app    *app.App
	width  int
	height int

	schedules []models.BellSchedule
	history   []models.BellHistory
	confirm   bool
	loading   bool
	err       error
	message   string
}

func NewBells(a *app.App) *Bells {
	return &Bells{app: a}
}

func (b *Bells) SetSize(width, height int) {
	b.width = width
	b.height = height
}

type bellsDataMsg struct {
	schedules []models.BellSchedule
	history   []models.BellHistory
	err       error
}

type bellsClearedMsg struct {
	err error
}

func (b *Bells) Init() tea.Cmd {
	b.loading = true
	b.confirm = false
	b.message = ""
	return b.loadData
}

func (b *Bells) loadData() tea.Msg {
	schedules, err := b.app.Store().Bells.GetSchedules()
	if err != nil {
		return bellsDataMsg{err: err}
	}
	history, err := b.app.Store().Bells.GetHistory()
	return bellsDataMsg{schedules: schedules, history: history, err: err}
}

// clearHistory runs off the update loop: it publishes an event on the
// channel that loop drains.
func (b *Bells) clearHistory() tea.Msg {
	return bellsClearedMsg{err: b.app.ClearBellHistory(context.Background())}
}

func (b *Bells) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case bellsDataMsg:
		b.loading = false
		b.err = msg.err
		b.schedules = msg.schedules
		b.history = msg.history
		return nil

	case bellsClearedMsg:
		b.err = msg.err
		if msg.err == nil {
			b.message = "Bell history cleared."
		}
		return b.loadData

	case RefreshMsg:
		return b.loadData

	case tea.KeyMsg:
		if b.confirm {
			switch msg.String() {
			case "y", "Y":
				b.confirm = false
				return b.clearHistory
			case "n", "N", "esc":
				b.confirm = false
			}
			return nil
		}
		switch msg.String() {
		case "c":
			b.confirm = true
		case "q", "esc":
			return Navigate("kiosk")
		}
	}
	return nil
}

func (b *Bells) View() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("BELLS"))
	s.WriteString("\n\n")

	if b.loading {
		s.WriteString("Loading...\n")
		return s.String()
	}
	if b.err != nil {
		s.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", b.err)))
		s.WriteString("\n\n")
	}
	if b.message != "" {
		s.WriteString(SuccessStyle.Render(b.message))
		s.WriteString("\n\n")
	}
	if b.confirm {
		s.WriteString(WarningStyle.Render("Clear the bell history? (y/n)"))
		s.WriteString("\n")
		return s.String()
	}

	s.WriteString(SubtitleStyle.Render("Schedules"))
	s.WriteString("\n")
	if len(b.schedules) == 0 {
		s.WriteString(DimStyle.Render("  No bells configured."))
		s.WriteString("\n")
	}
	for _, sched := range b.schedules {
		days := make([]string, 0, len(sched.Days))
		for _, d := range sched.Days {
			days = append(days, weekdayNames[d])
		}
		style := NormalStyle
		if !sched.Enabled {
			style = DimStyle
		}
		s.WriteString(style.Render(fmt.Sprintf("  %s  %-20s %-28s %s (%ds)",
			sched.Time, sched.Title, strings.Join(days, ","), sched.Sound, sched.Duration)))
		s.WriteString("\n")
	}
	s.WriteString("\n")

	s.WriteString(SubtitleStyle.Render("History"))
	s.WriteString("\n")
	if len(b.history) == 0 {
		s.WriteString(DimStyle.Render("  Nothing rang yet."))
		s.WriteString("\n")
	}
	for i, h := range b.history {
		if i == historyRows {
			break
		}
		s.WriteString(NormalStyle.Render(fmt.Sprintf("  %s  %s  %s",
			h.Timestamp.Format(time.DateTime), h.Time, h.Sound)))
		s.WriteString("\n")
	}

	s.WriteString(HelpStyle.Render("[c] Clear history  [q] Back"))
	return s.String()
}
