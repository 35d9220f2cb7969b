package screens

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/emilianohg/punchclock/internal/app"
	"github.com/emilianohg/punchclock/internal/models"
	"github.com/emilianohg/punchclock/internal/punch"
)

const (
	recentRows      = 10
	messageLifetime = 6 * time.Second
	idleTimeout     = 10 * time.Second
)

var directions = []string{punch.AutoDirection, string(models.PunchIn), string(models.PunchOut)}

type Kiosk struct {
	app    *app.App
	width  int
	height int

	now       time.Time
	input     textinput.Model
	recent    table.Model
	direction int
	shifts    []models.Shift
	shiftIdx  int // -1 when no shift is selected

	message    string
	messageErr bool
	messageSeq int

	bell    *BellMsg
	bellSeq int

	idleSeq int
}

type clearMessageMsg struct{ seq int }

type clearBellMsg struct{ seq int }

// idleMsg drops a half-typed credential and manual selections once the
// kiosk has seen no key for idleTimeout.
type idleMsg struct{ seq int }

func NewKiosk(a *app.App) *Kiosk {
	ti := textinput.New()
	ti.Placeholder = "Swipe card or type password"
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 64
	ti.Width = 32

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 8},
			{Title: "Name", Width: 18},
			{Title: "Time", Width: 19},
			{Title: "Type", Width: 4},
			{Title: "Shift", Width: 14},
			{Title: "Status", Width: 9},
		}),
		table.WithHeight(recentRows),
	)

	return &Kiosk{
		app:      a,
		input:    ti,
		recent:   t,
		shiftIdx: -1,
		now:      a.Now(),
	}
}

func (k *Kiosk) SetSize(width, height int) {
	k.width = width
	k.height = height
}

func (k *Kiosk) Init() tea.Cmd {
	k.input.Focus()
	k.selectShift()
	k.loadRecent()
	return textinput.Blink
}

// selectShift re-resolves the active shift; called on entry and every 30s.
func (k *Kiosk) selectShift() {
	k.shifts = k.app.State().Shifts()
	k.shiftIdx = -1
	if current := k.app.CurrentShift(); current != nil {
		for i := range k.shifts {
			if k.shifts[i].ID == current.ID {
				k.shiftIdx = i
				break
			}
		}
	}
}

func (k *Kiosk) selectedShiftID() int64 {
	if k.shiftIdx < 0 || k.shiftIdx >= len(k.shifts) {
		return 0
	}
	return k.shifts[k.shiftIdx].ID
}

func (k *Kiosk) loadRecent() {
	records := k.app.State().Records()
	if len(records) > recentRows {
		records = records[:recentRows]
	}
	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		name, ok := k.app.State().EmployeeName(r.EmployeeID)
		if !ok {
			name = "?"
		}
		rows = append(rows, table.Row{
			r.EmployeeID,
			name,
			r.Timestamp.Format("2006-01-02 15:04:05"),
			string(r.Type),
			r.Shift,
			string(r.Status),
		})
	}
	k.recent.SetRows(rows)
}

func (k *Kiosk) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ClockMsg:
		k.now = time.Time(msg)
		return nil

	case ShiftMsg:
		k.selectShift()
		return nil

	case RefreshMsg:
		k.selectShift()
		k.loadRecent()
		return nil

	case BellMsg:
		// a newer bell replaces the banner and its timer
		k.bellSeq++
		k.bell = &msg
		seq := k.bellSeq
		d := time.Duration(max(msg.Event.Duration, 1)) * time.Second
		return tea.Tick(d, func(time.Time) tea.Msg { return clearBellMsg{seq: seq} })

	case clearBellMsg:
		if msg.seq == k.bellSeq {
			k.bell = nil
		}
		return nil

	case clearMessageMsg:
		if msg.seq == k.messageSeq {
			k.message = ""
		}
		return nil

	case idleMsg:
		if msg.seq == k.idleSeq {
			k.input.SetValue("")
			k.resetSelectors()
		}
		return nil

	case tea.KeyMsg:
		idle := k.armIdle()
		if cmd, handled := k.handleKey(msg); handled {
			return tea.Batch(cmd, idle)
		}
		var cmd tea.Cmd
		k.input, cmd = k.input.Update(msg)
		return tea.Batch(cmd, idle)
	}

	var cmd tea.Cmd
	k.input, cmd = k.input.Update(msg)
	return cmd
}

func (k *Kiosk) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "enter":
		return k.punch(), true
	case "tab":
		k.direction = (k.direction + 1) % len(directions)
		return nil, true
	case "left":
		if len(k.shifts) > 0 {
			k.shiftIdx--
			if k.shiftIdx < -1 {
				k.shiftIdx = len(k.shifts) - 1
			}
		}
		return nil, true
	case "right":
		if len(k.shifts) > 0 {
			k.shiftIdx++
			if k.shiftIdx >= len(k.shifts) {
				k.shiftIdx = -1
			}
		}
		return nil, true
	case "esc":
		k.input.SetValue("")
		return nil, true
	case "ctrl+e":
		return Navigate("manual"), true
	case "ctrl+r":
		return Navigate("report"), true
	case "ctrl+l":
		return Navigate("log"), true
	case "ctrl+b":
		return Navigate("bells"), true
	}
	return nil, false
}

func (k *Kiosk) punch() tea.Cmd {
	credential := k.input.Value()
	k.input.SetValue("")
	if strings.TrimSpace(credential) == "" {
		return nil
	}

	res, err := k.app.Punch(credential, directions[k.direction], k.selectedShiftID())
	k.resetSelectors()
	switch {
	case errors.Is(err, punch.ErrEmployeeNotFound):
		return k.flash("Card or password not found.", true)
	case err != nil:
		return k.flash(fmt.Sprintf("Punch failed: %v", err), true)
	}

	k.loadRecent()
	return k.flash(res.Message, res.Duplicate)
}

// resetSelectors puts direction back to auto and the shift back to the
// one active now.
func (k *Kiosk) resetSelectors() {
	k.direction = 0
	k.selectShift()
}

// armIdle restarts the idle countdown; an older countdown is ignored when
// it fires.
func (k *Kiosk) armIdle() tea.Cmd {
	k.idleSeq++
	seq := k.idleSeq
	return tea.Tick(idleTimeout, func(time.Time) tea.Msg { return idleMsg{seq: seq} })
}

func (k *Kiosk) flash(message string, isErr bool) tea.Cmd {
	k.messageSeq++
	k.message = message
	k.messageErr = isErr
	seq := k.messageSeq
	return tea.Tick(messageLifetime, func(time.Time) tea.Msg { return clearMessageMsg{seq: seq} })
}

func (k *Kiosk) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("PUNCH CLOCK"))
	b.WriteString("\n")
	b.WriteString(ClockStyle.Render(k.now.Format("Monday, 2006-01-02  15:04:05")))
	b.WriteString("\n\n")

	if k.bell != nil {
		title := k.bell.Event.Title
		if title == "" {
			title = "Bell"
		}
		b.WriteString(BannerStyle.Render(fmt.Sprintf("♪ %s (%s)", title, k.bell.Event.Sound)))
		b.WriteString("\n\n")
	}

	shiftLabel := "No shift"
	if k.shiftIdx >= 0 && k.shiftIdx < len(k.shifts) {
		s := k.shifts[k.shiftIdx]
		shiftLabel = fmt.Sprintf("%s (%s-%s)", s.Name, s.Start, s.End)
	}
	status := lipgloss.JoinHorizontal(lipgloss.Top,
		NormalStyle.Render("Shift: "), SelectedStyle.Render(shiftLabel),
		NormalStyle.Render("   Direction: "), SelectedStyle.Render(directions[k.direction]),
	)
	b.WriteString(status)
	b.WriteString("\n\n")

	b.WriteString(BoxStyle.Render(k.input.View()))
	b.WriteString("\n\n")

	if k.message != "" {
		style := SuccessStyle
		if k.messageErr {
			style = WarningStyle
		}
		b.WriteString(style.Render(k.message))
		b.WriteString("\n\n")
	}

	b.WriteString(SubtitleStyle.Render("Recent punches"))
	b.WriteString("\n")
	b.WriteString(k.recent.View())
	b.WriteString("\n")

	help := "[enter] Punch  [tab] Direction  [←/→] Shift  [ctrl+e] Manual entry  [ctrl+r] Report  [ctrl+l] Task log  [ctrl+b] Bells  [ctrl+c] Quit"
	b.WriteString(HelpStyle.Render(help))

	return b.String()
}
