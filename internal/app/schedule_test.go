package app

import (
	"errors"
	"testing"

	"github.com/emilianohg/punchclock/internal/models"
)

func TestAddBellSchedule(t *testing.T) {
	ta := setupTestApp(t)

	s, err := ta.AddBellSchedule(models.BellSchedule{Title: "Break", Time: "9:30", Days: []string{"1", "3"}, Enabled: true})
	if err != nil {
		t.Fatalf("AddBellSchedule: %v", err)
	}
	if s.ID == "" || s.Time != "09:30" || s.Duration != 5 {
		t.Fatalf("schedule = %+v", s)
	}

	stored, err := ta.Store().Bells.GetSchedules()
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 1 || stored[0].ID != s.ID || len(stored[0].Days) != 2 {
		t.Fatalf("stored = %+v", stored)
	}
}

func TestAddBellSchedule_Invalid(t *testing.T) {
	ta := setupTestApp(t)

	tests := []struct {
		name string
		s    models.BellSchedule
		want error
	}{
		{"no days", models.BellSchedule{Time: "08:00"}, ErrInvalidDay},
		{"day out of range", models.BellSchedule{Time: "08:00", Days: []string{"7"}}, ErrInvalidDay},
		{"padded day", models.BellSchedule{Time: "08:00", Days: []string{"01"}}, ErrInvalidDay},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ta.AddBellSchedule(tt.s); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := ta.AddBellSchedule(models.BellSchedule{Time: "25:00", Days: []string{"1"}}); err == nil {
		t.Fatal("expected error for invalid time")
	}
}

func TestAddTask(t *testing.T) {
	ta := setupTestApp(t)

	monthly, err := ta.AddTask(models.AutomationTask{
		Frequency: models.FrequencyMonthly, Day: "1", Time: "0:00",
		TaskType: models.TaskExport, Target: models.TargetLastMonthRecords, Enabled: true,
	})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if monthly.Time != "00:00" || monthly.ID == "" {
		t.Fatalf("task = %+v", monthly)
	}

	daily, err := ta.AddTask(models.AutomationTask{
		Frequency: models.FrequencyDaily, Day: "3", Time: "23:00",
		TaskType: models.TaskDelete, Target: models.TargetLog, Enabled: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if daily.Day != "" {
		t.Errorf("daily task kept day %q", daily.Day)
	}

	tasks, err := ta.Store().Automation.GetTasks()
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 2 {
		t.Fatalf("stored %d tasks, want 2", len(tasks))
	}
}

func TestAddTask_Invalid(t *testing.T) {
	ta := setupTestApp(t)

	tests := []struct {
		name string
		task models.AutomationTask
		want error
	}{
		{"unknown type", models.AutomationTask{Frequency: models.FrequencyDaily, Time: "08:00", TaskType: "archive", Target: models.TargetLog}, ErrInvalidTask},
		{"unknown target", models.AutomationTask{Frequency: models.FrequencyDaily, Time: "08:00", TaskType: models.TaskExport, Target: "payroll"}, ErrInvalidTask},
		{"unknown frequency", models.AutomationTask{Frequency: "hourly", Time: "08:00", TaskType: models.TaskExport, Target: models.TargetLog}, ErrInvalidFrequency},
		{"weekly day", models.AutomationTask{Frequency: models.FrequencyWeekly, Day: "8", Time: "08:00", TaskType: models.TaskExport, Target: models.TargetLog}, ErrInvalidDay},
		{"monthly day", models.AutomationTask{Frequency: models.FrequencyMonthly, Day: "0", Time: "08:00", TaskType: models.TaskExport, Target: models.TargetLog}, ErrInvalidDay},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ta.AddTask(tt.task); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
