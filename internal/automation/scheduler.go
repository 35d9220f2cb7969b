// Package automation runs the recurring export and delete tasks. The
// scheduler polls once a minute; a task fires when its day and HH:MM match
// and the task log has no entry from the last five minutes naming it.
package automation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/emilianohg/punchclock/internal/clock"
	"github.com/emilianohg/punchclock/internal/models"
)

const (
	DefaultInterval = time.Minute
	DedupWindow     = 5 * time.Minute
)

type TaskStore interface {
	GetTasks() ([]models.AutomationTask, error)
	RecentLog(since time.Time) ([]models.AutomationLog, error)
}

type Scheduler struct {
	tasks    TaskStore
	executor *Executor
	clock    clock.Clock
	logger   *zap.Logger
}

func NewScheduler(tasks TaskStore, executor *Executor, clk clock.Clock, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		tasks:    tasks,
		executor: executor,
		clock:    clk,
		logger:   logger,
	}
}

// Run polls every interval until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("automation scheduler started", zap.Duration("interval", interval))
	for {
		select {
		case <-ticker.C:
			s.safeTick(ctx)
		case <-ctx.Done():
			s.logger.Info("automation scheduler stopped")
			return
		}
	}
}

func (s *Scheduler) safeTick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("automation tick panicked", zap.Any("panic", r))
		}
	}()
	if _, err := s.Tick(ctx); err != nil {
		s.logger.Error("automation tick failed", zap.Error(err))
	}
}

// Tick runs every due task once and returns the outcomes of the tasks it
// executed.
func (s *Scheduler) Tick(ctx context.Context) ([]Outcome, error) {
	tasks, err := s.tasks.GetTasks()
	if err != nil {
		return nil, fmt.Errorf("failed to load automation tasks: %w", err)
	}
	if len(tasks) == 0 {
		return nil, nil
	}

	now := s.clock.Now()
	weekday := clock.WeekdayDigit(now)
	dayOfMonth := clock.DayOfMonthDigit(now)
	hhmm := clock.HHMM(now)

	var outcomes []Outcome
	for _, task := range tasks {
		if !Due(task, weekday, dayOfMonth, hhmm) {
			continue
		}

		ran, err := s.ranRecently(task, now)
		if err != nil {
			s.logger.Error("failed to read task log", zap.String("task", task.ID), zap.Error(err))
			continue
		}
		if ran {
			s.logger.Debug("automation task already ran", zap.String("task", task.ID))
			continue
		}

		outcomes = append(outcomes, s.executor.Execute(ctx, task))
	}
	return outcomes, nil
}

// Due reports whether an enabled recurring task matches the given weekday
// digit, day-of-month digit and HH:MM. Immediate tasks are never due.
func Due(task models.AutomationTask, weekday, dayOfMonth, hhmm string) bool {
	if !task.Enabled || task.Frequency == models.FrequencyImmediate {
		return false
	}
	if task.Time != hhmm {
		return false
	}
	switch task.Frequency {
	case models.FrequencyDaily:
		return true
	case models.FrequencyWeekly:
		return task.Day == weekday
	case models.FrequencyMonthly:
		return task.Day == dayOfMonth
	}
	return false
}

func (s *Scheduler) ranRecently(task models.AutomationTask, now time.Time) (bool, error) {
	recent, err := s.tasks.RecentLog(now.Add(-DedupWindow))
	if err != nil {
		return false, err
	}
	for _, entry := range recent {
		if mentions(entry.Message, task) {
			return true, nil
		}
	}
	return false, nil
}
