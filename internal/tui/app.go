package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/emilianohg/punchclock/internal/app"
	"github.com/emilianohg/punchclock/internal/notify"
	"github.com/emilianohg/punchclock/internal/tui/screens"
)

const (
	shiftInterval = 30 * time.Second
	themeInterval = time.Minute
)

type Screen int

const (
	ScreenKiosk Screen = iota
	ScreenManual
	ScreenReport
	ScreenLog
	ScreenBells
)

type App struct {
	core          *app.App
	events        <-chan notify.Event
	logger        *zap.Logger
	currentScreen Screen
	width         int
	height        int
	themeName     string

	// Screen models
	kiosk  *screens.Kiosk
	manual *screens.Manual
	report *screens.Report
	log    *screens.TaskLog
	bells  *screens.Bells
}

type eventMsg notify.Event

type themeMsg struct{}

func NewApp(core *app.App, events <-chan notify.Event, logger *zap.Logger) *App {
	return &App{
		core:          core,
		events:        events,
		logger:        logger,
		currentScreen: ScreenKiosk,
	}
}

func (a *App) Init() tea.Cmd {
	a.kiosk = screens.NewKiosk(a.core)
	a.manual = screens.NewManual(a.core)
	a.report = screens.NewReport(a.core)
	a.log = screens.NewTaskLog(a.core)
	a.bells = screens.NewBells(a.core)

	a.applyTheme()

	return tea.Batch(
		a.kiosk.Init(),
		a.waitForEvent(),
		clockTick(),
		tea.Tick(shiftInterval, func(time.Time) tea.Msg { return screens.ShiftMsg{} }),
		tea.Tick(themeInterval, func(time.Time) tea.Msg { return themeMsg{} }),
	)
}

// waitForEvent delivers the next core notification as a message.
func (a *App) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-a.events
		if !ok {
			return nil
		}
		return eventMsg(ev)
	}
}

func clockTick() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg { return screens.ClockMsg(t) })
}

func (a *App) applyTheme() {
	palette := a.core.ActiveTheme()
	if palette.Name == a.themeName {
		return
	}
	a.themeName = palette.Name
	screens.ApplyPalette(palette)
	a.logger.Info("theme applied", zap.String("theme", palette.Name))
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.kiosk.SetSize(msg.Width, msg.Height)
		a.manual.SetSize(msg.Width, msg.Height)
		a.report.SetSize(msg.Width, msg.Height)
		a.log.SetSize(msg.Width, msg.Height)
		a.bells.SetSize(msg.Width, msg.Height)

	case screens.NavigateMsg:
		return a.handleNavigation(msg)

	case screens.ClockMsg:
		a.kiosk.Update(msg)
		a.report.Update(msg)
		return a, clockTick()

	case screens.ShiftMsg:
		a.kiosk.Update(msg)
		return a, tea.Tick(shiftInterval, func(time.Time) tea.Msg { return screens.ShiftMsg{} })

	case themeMsg:
		a.applyTheme()
		return a, tea.Tick(themeInterval, func(time.Time) tea.Msg { return themeMsg{} })

	case eventMsg:
		return a, tea.Batch(a.handleEvent(notify.Event(msg)), a.waitForEvent())
	}

	cmd := a.updateCurrent(msg)
	// the kiosk's message and bell timers must land even while it is hidden
	if _, isKey := msg.(tea.KeyMsg); !isKey && a.currentScreen != ScreenKiosk {
		return a, tea.Batch(cmd, a.kiosk.Update(msg))
	}
	return a, cmd
}

func (a *App) updateCurrent(msg tea.Msg) tea.Cmd {
	switch a.currentScreen {
	case ScreenKiosk:
		return a.kiosk.Update(msg)
	case ScreenManual:
		return a.manual.Update(msg)
	case ScreenReport:
		return a.report.Update(msg)
	case ScreenLog:
		return a.log.Update(msg)
	case ScreenBells:
		return a.bells.Update(msg)
	}
	return nil
}

// handleEvent routes a core notification. Bells always reach the kiosk;
// data changes reload state first and then refresh the screens.
func (a *App) handleEvent(ev notify.Event) tea.Cmd {
	switch ev.Kind {
	case notify.KindPlaySound:
		return a.kiosk.Update(screens.BellMsg{Event: ev})

	case notify.KindBellHistoryUpdated:
		if a.currentScreen == ScreenBells {
			return a.bells.Update(screens.RefreshMsg{})
		}

	case notify.KindDataUpdated:
		if err := a.core.Refresh(ev.Domain); err != nil {
			a.logger.Error("failed to refresh state", zap.String("domain", string(ev.Domain)), zap.Error(err))
			return nil
		}
		refresh := screens.RefreshMsg{Domain: ev.Domain}
		cmds := []tea.Cmd{a.kiosk.Update(refresh)}
		if a.currentScreen == ScreenLog {
			cmds = append(cmds, a.log.Update(refresh))
		}
		return tea.Batch(cmds...)
	}
	return nil
}

func (a *App) handleNavigation(msg screens.NavigateMsg) (tea.Model, tea.Cmd) {
	switch msg.Screen {
	case "kiosk":
		a.currentScreen = ScreenKiosk
		return a, a.kiosk.Init()
	case "manual":
		a.currentScreen = ScreenManual
		return a, a.manual.Init()
	case "report":
		a.currentScreen = ScreenReport
		return a, a.report.Init()
	case "log":
		a.currentScreen = ScreenLog
		return a, a.log.Init()
	case "bells":
		a.currentScreen = ScreenBells
		return a, a.bells.Init()
	}
	return a, nil
}

func (a *App) View() string {
	var content string

	switch a.currentScreen {
	case ScreenKiosk:
		content = a.kiosk.View()
	case ScreenManual:
		content = a.manual.View()
	case ScreenReport:
		content = a.report.View()
	case ScreenLog:
		content = a.log.View()
	case ScreenBells:
		content = a.bells.View()
	}

	return lipgloss.NewStyle().
		Width(a.width).
		Height(a.height).
		Render(content)
}

// Run shows the kiosk until the user quits.
func Run(core *app.App, events <-chan notify.Event, logger *zap.Logger) error {
	p := tea.NewProgram(NewApp(core, events, logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
