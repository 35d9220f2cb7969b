package screens

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/emilianohg/punchclock/internal/app"
	"github.com/emilianohg/punchclock/internal/automation"
	"github.com/emilianohg/punchclock/internal/models"
	"github.com/emilianohg/punchclock/internal/notify"
)

const logRows = 12

type logMode int

const (
	logModeList logMode = iota
	logModeRunning
	logModeConfirmClear
)

type runAction struct {
	taskType models.TaskType
	target   models.TaskTarget
}

var runActions = func() []runAction {
	var actions []runAction
	for _, typ := range []models.TaskType{models.TaskExport, models.TaskDelete} {
		for _, target := range models.TaskTargets {
			actions = append(actions, runAction{taskType: typ, target: target})
		}
	}
	return actions
}()

// TaskLog shows the automation tasks and their log, and runs a task on
// demand. It is behind the system password.
type TaskLog struct {
	app    *app.App
	width  int
	height int

	gate    gate
	mode    logMode
	cursor  int
	tasks   []models.AutomationTask
	entries []models.AutomationLog
	loading bool
	err     error
	message string
}

func NewTaskLog(a *app.App) *TaskLog {
	return &TaskLog{
		app:  a,
		gate: newGate("System password", a.Auth().VerifySystem),
	}
}

func (l *TaskLog) SetSize(width, height int) {
	l.width = width
	l.height = height
}

type taskLogDataMsg struct {
	tasks   []models.AutomationTask
	entries []models.AutomationLog
	err     error
}

type taskRunMsg struct {
	outcome automation.Outcome
	err     error
}

func (l *TaskLog) Init() tea.Cmd {
	l.mode = logModeList
	l.message = ""
	l.loading = true
	return tea.Batch(l.gate.reset(), l.loadData)
}

func (l *TaskLog) loadData() tea.Msg {
	tasks, err := l.app.Store().Automation.GetTasks()
	if err != nil {
		return taskLogDataMsg{err: err}
	}
	entries, err := l.app.Store().Automation.GetLog()
	return taskLogDataMsg{tasks: tasks, entries: entries, err: err}
}

func (l *TaskLog) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case taskLogDataMsg:
		l.loading = false
		l.err = msg.err
		l.tasks = msg.tasks
		l.entries = msg.entries
		return nil

	case taskRunMsg:
		l.mode = logModeList
		l.err = msg.err
		if msg.err == nil {
			l.message = msg.outcome.Message
		}
		return l.loadData

	case RefreshMsg:
		if msg.Domain == notify.DomainAutomationLog {
			return l.loadData
		}
		return nil
	}

	if !l.gate.open {
		cmd, back := l.gate.update(msg)
		if back {
			return Navigate("kiosk")
		}
		return cmd
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		return l.handleKey(key)
	}
	return nil
}

func (l *TaskLog) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch l.mode {
	case logModeRunning:
		return nil
	case logModeConfirmClear:
		switch msg.String() {
		case "y", "Y":
			l.mode = logModeRunning
			return l.run(runAction{taskType: models.TaskDelete, target: models.TargetLog})
		case "n", "N", "esc":
			l.mode = logModeList
		}
		return nil
	}

	switch msg.String() {
	case "up", "k":
		if l.cursor > 0 {
			l.cursor--
		}
	case "down", "j":
		if l.cursor < len(runActions)-1 {
			l.cursor++
		}
	case "enter":
		l.mode = logModeRunning
		l.message = ""
		return l.run(runActions[l.cursor])
	case "c":
		l.mode = logModeConfirmClear
	case "q", "esc":
		return Navigate("kiosk")
	}
	return nil
}

func (l *TaskLog) run(action runAction) tea.Cmd {
	return func() tea.Msg {
		out, err := l.app.Executor().RunNow(context.Background(), action.taskType, action.target)
		return taskRunMsg{outcome: out, err: err}
	}
}

func (l *TaskLog) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("AUTOMATION"))
	b.WriteString("\n\n")

	if !l.gate.open {
		b.WriteString(l.gate.view("Enter the system password:"))
		return b.String()
	}

	if l.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if l.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", l.err)))
		b.WriteString("\n\n")
	}
	if l.message != "" {
		b.WriteString(SuccessStyle.Render(l.message))
		b.WriteString("\n\n")
	}

	if l.mode == logModeRunning {
		b.WriteString(WarningStyle.Render("Running task..."))
		b.WriteString("\n")
		return b.String()
	}
	if l.mode == logModeConfirmClear {
		b.WriteString(WarningStyle.Render("Clear the whole task log? (y/n)"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(SubtitleStyle.Render("Scheduled tasks"))
	b.WriteString("\n")
	if len(l.tasks) == 0 {
		b.WriteString(DimStyle.Render("  No scheduled tasks."))
		b.WriteString("\n")
	}
	for _, t := range l.tasks {
		style := NormalStyle
		if !t.Enabled {
			style = DimStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("  %-8s %-3s %-5s %s %s", t.Frequency, t.Day, t.Time, t.TaskType, t.Target)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(SubtitleStyle.Render("Run now"))
	b.WriteString("\n")
	for i, a := range runActions {
		cursor := "  "
		style := NormalStyle
		if i == l.cursor {
			cursor = "> "
			style = SelectedStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%s %s", cursor, a.taskType, a.target)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(SubtitleStyle.Render("Task log"))
	b.WriteString("\n")
	if len(l.entries) == 0 {
		b.WriteString(DimStyle.Render("  Empty."))
		b.WriteString("\n")
	}
	for i, e := range l.entries {
		if i == logRows {
			b.WriteString(DimStyle.Render(fmt.Sprintf("  ... %d more", len(l.entries)-logRows)))
			b.WriteString("\n")
			break
		}
		style := NormalStyle
		switch e.Status {
		case models.LogError:
			style = ErrorStyle
		case models.LogInfo:
			style = DimStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("  %s  %s", e.Timestamp.Format("2006-01-02 15:04"), e.Message)))
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render("[enter] Run selected  [c] Clear log  [q] Back"))
	return b.String()
}
