// Package app owns the application state and wires the punch engine, the
// two pollers and the roster operations over one store.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/emilianohg/punchclock/internal/auth"
	"github.com/emilianohg/punchclock/internal/automation"
	"github.com/emilianohg/punchclock/internal/bell"
	"github.com/emilianohg/punchclock/internal/clock"
	"github.com/emilianohg/punchclock/internal/config"
	"github.com/emilianohg/punchclock/internal/models"
	"github.com/emilianohg/punchclock/internal/notify"
	"github.com/emilianohg/punchclock/internal/punch"
	"github.com/emilianohg/punchclock/internal/repository"
	"github.com/emilianohg/punchclock/internal/shift"
	"github.com/emilianohg/punchclock/internal/state"
	"github.com/emilianohg/punchclock/internal/theme"
)

type App struct {
	cfg      *config.Config
	store    *repository.Store
	state    *state.State
	clock    clock.Clock
	notifier notify.Notifier
	logger   *zap.Logger

	engine   *punch.Engine
	executor *automation.Executor
	auth     *auth.Service

	wg sync.WaitGroup
}

func New(cfg *config.Config, store *repository.Store, clk clock.Clock, notifier notify.Notifier, logger *zap.Logger) *App {
	st := state.New()
	return &App{
		cfg:      cfg,
		store:    store,
		state:    st,
		clock:    clk,
		notifier: notifier,
		logger:   logger,
		engine: punch.NewEngine(store.Punches, st, clk, logger.Named("punch"),
			punch.WithDuplicateWindow(cfg.DuplicateWindow.Duration)),
		executor: automation.NewExecutor(store.Employees, store.Punches, store.Automation,
			cfg.ExportDir, clk, notifier, logger.Named("automation")),
		auth: auth.NewService(store.Settings, logger.Named("auth")),
	}
}

func (a *App) State() *state.State { return a.state }
func (a *App) Store() *repository.Store { return a.store }
func (a *App) Executor() *automation.Executor { return a.executor }
func (a *App) Auth() *auth.Service { return a.auth }
func (a *App) Notifier() notify.Notifier { return a.notifier }
func (a *App) Now() time.Time { return a.clock.Now() }

// Load fills the in-memory state from the store. Employee fields are
// sanitized first.
func (a *App) Load() error {
	if err := a.auth.EnsureDefaults(); err != nil {
		return err
	}
	if err := a.sanitizeEmployees(); err != nil {
		return err
	}
	if err := a.loadRecords(); err != nil {
		return err
	}

	shifts, err := a.store.Shifts.GetAll()
	if err != nil {
		return fmt.Errorf("failed to load shifts: %w", err)
	}
	a.state.SetShifts(shifts)

	greetings, err := a.store.Greetings.Get()
	if err != nil {
		return fmt.Errorf("failed to load greetings: %w", err)
	}
	a.state.SetGreetings(greetings)

	effects, err := a.store.Effects.GetSpecialEffects()
	if err != nil {
		return fmt.Errorf("failed to load special effects: %w", err)
	}
	a.state.SetSpecialEffects(effects)

	themes, err := a.store.Effects.GetThemeSchedules()
	if err != nil {
		return fmt.Errorf("failed to load theme schedules: %w", err)
	}
	a.state.SetThemeSchedules(themes)

	a.logger.Info("state loaded",
		zap.Int("employees", len(a.state.Employees())),
		zap.Int("records", len(a.state.Records())),
		zap.Int("shifts", len(shifts)),
	)
	return nil
}

// Refresh reloads the part of the state a data-updated event names.
func (a *App) Refresh(domain notify.Domain) error {
	switch domain {
	case notify.DomainEmployees:
		return a.loadEmployees()
	case notify.DomainPunchRecords:
		return a.loadRecords()
	}
	return nil
}

func (a *App) loadEmployees() error {
	employees, err := a.store.Employees.GetAll()
	if err != nil {
		return fmt.Errorf("failed to load employees: %w", err)
	}
	a.state.SetEmployees(employees)
	return nil
}

func (a *App) loadRecords() error {
	records, err := a.store.Punches.GetAll()
	if err != nil {
		return fmt.Errorf("failed to load punch records: %w", err)
	}
	a.state.SetRecords(records)
	return nil
}

// Start runs the bell and automation pollers until ctx is cancelled.
func (a *App) Start(ctx context.Context) {
	bells := bell.NewScheduler(a.store.Bells, a.clock, a.notifier, a.logger.Named("bell"))
	tasks := automation.NewScheduler(a.store.Automation, a.executor, a.clock, a.logger.Named("automation"))

	a.wg.Add(2)
	go func() {
		defer a.wg.Done()
		bells.Run(ctx, a.cfg.BellInterval.Duration)
	}()
	go func() {
		defer a.wg.Done()
		tasks.Run(ctx, a.cfg.AutomationInterval.Duration)
	}()
}

// Wait blocks until the pollers started by Start have returned.
func (a *App) Wait() {
	a.wg.Wait()
}

func (a *App) Punch(credential, override string, shiftID int64) (*punch.Result, error) {
	return a.engine.RecordPunch(credential, override, shiftID)
}

func (a *App) ManualPunch(identifier, date, timeOfDay, punchType string, shiftID int64) (*punch.Result, error) {
	return a.engine.RecordManualPunch(identifier, date, timeOfDay, punchType, shiftID)
}

// ClearBellHistory empties the bell history.
func (a *App) ClearBellHistory(ctx context.Context) error {
	if err := a.store.Bells.ClearHistory(); err != nil {
		return fmt.Errorf("failed to clear bell history: %w", err)
	}
	a.notifier.Notify(ctx, notify.BellHistoryUpdated())
	return nil
}

// CurrentShift resolves the shift for the kiosk's shift selector.
func (a *App) CurrentShift() *models.Shift {
	return shift.ResolveActive(a.state.Shifts(), a.clock.Now())
}

func (a *App) ActiveTheme() theme.Palette {
	return theme.Lookup(theme.Active(a.state.ThemeSchedules(), a.clock.Now()))
}
