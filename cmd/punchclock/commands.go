package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emilianohg/punchclock/internal/models"
	"github.com/emilianohg/punchclock/internal/punch"
)

var punchCmd = &cobra.Command{
	Use:   "punch <credential>",
	Short: "Record a punch for a card code or password",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		core, log := headless()
		defer shutdown(log)

		direction, _ := cmd.Flags().GetString("type")
		shiftID, _ := cmd.Flags().GetInt64("shift")
		if !cmd.Flags().Changed("shift") {
			if current := core.CurrentShift(); current != nil {
				shiftID = current.ID
			}
		}

		res, err := core.Punch(args[0], direction, shiftID)
		if err != nil {
			fail(log, "punch failed", err)
		}
		fmt.Println(res.Message)
		fmt.Printf("%s  %s  %s  %s\n", res.Record.EmployeeID, res.Record.Timestamp.Format("2006-01-02 15:04:05"),
			res.Record.Type, res.Record.Shift)
	},
}

var manualPunchCmd = &cobra.Command{
	Use:   "manual-punch <employee> <YYYY-MM-DD> <HH:MM>",
	Short: "Back-fill a punch (requires the admin password)",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		core, log := headless()
		defer shutdown(log)

		password, _ := cmd.Flags().GetString("password")
		ok, err := core.Auth().VerifyAdmin(password)
		if err != nil {
			fail(log, "password check failed", err)
		}
		if !ok {
			fmt.Fprintln(os.Stderr, "Error: incorrect admin password")
			shutdown(log)
			os.Exit(1)
		}

		direction, _ := cmd.Flags().GetString("type")
		shiftID, _ := cmd.Flags().GetInt64("shift")
		res, err := core.ManualPunch(args[0], args[1], args[2], direction, shiftID)
		if err != nil {
			fail(log, "manual punch failed", err)
		}
		fmt.Println(res.Message)
	},
}

var shiftCmd = &cobra.Command{
	Use:   "shift",
	Short: "Inspect shifts",
}

var shiftCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Print the shift active right now",
	Run: func(cmd *cobra.Command, args []string) {
		core, log := headless()
		defer shutdown(log)

		current := core.CurrentShift()
		if current == nil {
			fmt.Println("No shift is active.")
			return
		}
		fmt.Printf("%s (%s-%s)\n", current.Name, current.Start, current.End)
	},
}

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage export and delete tasks",
}

var taskRunCmd = &cobra.Command{
	Use:   "run <export|delete> <target>",
	Short: "Run a task immediately",
	Long: `Run an export or delete task immediately.

Targets: last_week_records, last_month_records, manual_records, all_records,
all_employees, log`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		core, log := headless()
		defer shutdown(log)

		out, err := core.Executor().RunNow(context.Background(), models.TaskType(args[0]), models.TaskTarget(args[1]))
		if err != nil {
			fail(log, "task failed", err)
		}
		fmt.Println(out.Message)
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scheduled tasks",
	Run: func(cmd *cobra.Command, args []string) {
		core, log := headless()
		defer shutdown(log)

		tasks, err := core.Store().Automation.GetTasks()
		if err != nil {
			fail(log, "failed to list tasks", err)
		}
		if len(tasks) == 0 {
			fmt.Println("No tasks scheduled.")
			return
		}
		for _, t := range tasks {
			fmt.Printf("%s  %-9s %-3s %-5s %-6s %-18s %s\n",
				t.ID, t.Frequency, t.Day, t.Time, t.TaskType, t.Target, enabledText(t.Enabled))
		}
	},
}

var taskAddCmd = &cobra.Command{
	Use:   "add <export|delete> <target>",
	Short: "Schedule a recurring task",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		core, log := headless()
		defer shutdown(log)

		frequency, _ := cmd.Flags().GetString("frequency")
		day, _ := cmd.Flags().GetString("day")
		at, _ := cmd.Flags().GetString("time")

		task, err := core.AddTask(models.AutomationTask{
			Frequency: models.Frequency(frequency),
			Day:       day,
			Time:      at,
			TaskType:  models.TaskType(args[0]),
			Target:    models.TaskTarget(args[1]),
			Enabled:   true,
		})
		if err != nil {
			fail(log, "failed to add task", err)
		}
		fmt.Printf("Added task %s\n", task.ID)
	},
}

var bellCmd = &cobra.Command{
	Use:   "bell",
	Short: "Manage bell schedules",
}

var bellListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bell schedules and recent rings",
	Run: func(cmd *cobra.Command, args []string) {
		core, log := headless()
		defer shutdown(log)

		schedules, err := core.Store().Bells.GetSchedules()
		if err != nil {
			fail(log, "failed to list bells", err)
		}
		for _, s := range schedules {
			fmt.Printf("%s  %s  %-20s days=%s sound=%s %ds %s\n",
				s.ID, s.Time, s.Title, strings.Join(s.Days, ","), s.Sound, s.Duration, enabledText(s.Enabled))
		}

		history, err := core.Store().Bells.GetHistory()
		if err != nil {
			fail(log, "failed to read bell history", err)
		}
		fmt.Printf("\n%d rings in history\n", len(history))
		for i, h := range history {
			if i == 10 {
				break
			}
			fmt.Printf("  %s  %s  %s\n", h.Timestamp.Format("2006-01-02 15:04:05"), h.Time, h.Sound)
		}
	},
}

var bellAddCmd = &cobra.Command{
	Use:   "add <HH:MM> <title>",
	Short: "Add a bell schedule",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		core, log := headless()
		defer shutdown(log)

		days, _ := cmd.Flags().GetStringSlice("days")
		sound, _ := cmd.Flags().GetString("sound")
		duration, _ := cmd.Flags().GetInt("duration")

		s, err := core.AddBellSchedule(models.BellSchedule{
			Title:    args[1],
			Time:     args[0],
			Days:     days,
			Sound:    sound,
			Duration: duration,
			Enabled:  true,
		})
		if err != nil {
			fail(log, "failed to add bell", err)
		}
		fmt.Printf("Added bell %s at %s\n", s.ID, s.Time)
	},
}

var bellClearCmd = &cobra.Command{
	Use:   "clear-history",
	Short: "Delete the bell history",
	Run: func(cmd *cobra.Command, args []string) {
		core, log := headless()
		defer shutdown(log)

		if err := core.ClearBellHistory(context.Background()); err != nil {
			fail(log, "failed to clear bell history", err)
		}
		fmt.Println("Bell history cleared.")
	},
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Inspect the task log",
}

var logListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the task log, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		core, log := headless()
		defer shutdown(log)

		limit, _ := cmd.Flags().GetInt("limit")
		entries, err := core.Store().Automation.GetLog()
		if err != nil {
			fail(log, "failed to read task log", err)
		}
		for i, e := range entries {
			if limit > 0 && i == limit {
				break
			}
			fmt.Printf("%s  %-7s %s\n", e.Timestamp.Format("2006-01-02 15:04:05"), e.Status, e.Message)
		}
	},
}

var logClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the task log",
	Run: func(cmd *cobra.Command, args []string) {
		core, log := headless()
		defer shutdown(log)

		out, err := core.Executor().RunNow(context.Background(), models.TaskDelete, models.TargetLog)
		if err != nil {
			fail(log, "failed to clear task log", err)
		}
		fmt.Println(out.Message)
	},
}

var employeesCmd = &cobra.Command{
	Use:   "employees",
	Short: "Manage the employee roster",
}

var employeesImportCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Add new employees from a roster CSV",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		core, log := headless()
		defer shutdown(log)

		f, err := os.Open(args[0])
		if err != nil {
			fail(log, "failed to open roster file", err)
		}
		defer f.Close()

		res, err := core.ImportEmployees(context.Background(), f)
		if err != nil {
			fail(log, "roster import failed", err)
		}
		fmt.Printf("Added: %d\n", res.Added)
		fmt.Printf("Skipped: %d (id or card already used)\n", res.Conflicts)
		fmt.Printf("Skipped: %d (missing required fields)\n", res.Incomplete)
	},
}

var employeesExportCmd = &cobra.Command{
	Use:   "export <file.csv>",
	Short: "Write the roster to a CSV file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		core, log := headless()
		defer shutdown(log)

		f, err := os.Create(args[0])
		if err != nil {
			fail(log, "failed to create roster file", err)
		}
		n, err := core.ExportEmployees(f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(args[0])
			fail(log, "roster export failed", err)
		}
		fmt.Printf("Exported %d employees to %s\n", n, args[0])
	},
}

var employeesAddCmd = &cobra.Command{
	Use:   "add <id> <name>",
	Short: "Add or replace an employee",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		core, log := headless()
		defer shutdown(log)

		e := models.Employee{ID: args[0], Name: args[1]}
		e.Department, _ = cmd.Flags().GetString("department")
		e.Card, _ = cmd.Flags().GetString("card")
		e.Password, _ = cmd.Flags().GetString("password")
		e.Gender, _ = cmd.Flags().GetString("gender")
		e.HireDate, _ = cmd.Flags().GetString("hire-date")

		if err := core.SaveEmployee(context.Background(), e); err != nil {
			fail(log, "failed to save employee", err)
		}
		fmt.Printf("Saved %s (%s)\n", e.Name, e.ID)
	},
}

var employeesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove an employee",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		core, log := headless()
		defer shutdown(log)

		if err := core.DeleteEmployee(context.Background(), args[0]); err != nil {
			fail(log, "failed to delete employee", err)
		}
		fmt.Printf("Deleted %s\n", args[0])
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Save an attendance workbook",
	Long: `Save an attendance workbook for a date range.

Log in with the admin password to report on everyone, or with an employee
id, card or password to report on that employee only.`,
	Run: func(cmd *cobra.Command, args []string) {
		core, log := headless()
		defer shutdown(log)

		login, _ := cmd.Flags().GetString("login")
		today := core.Now().Format("2006-01-02")
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		if from == "" {
			from = today
		}
		if to == "" {
			to = today
		}

		who, err := core.ReportLogin(login)
		if err != nil {
			fail(log, "report login failed", err)
		}
		r, err := core.Report(who, from, to)
		if err != nil {
			fail(log, "report failed", err)
		}
		path, err := core.SaveReport(r)
		if err != nil {
			fail(log, "failed to save report", err)
		}
		fmt.Printf("%s: %d records\n", r.Title, len(r.Records))
		fmt.Printf("Saved to %s\n", path)
	},
}

func enabledText(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

func init() {
	punchCmd.Flags().StringP("type", "t", punch.AutoDirection, "Direction: auto, in or out")
	punchCmd.Flags().Int64P("shift", "s", 0, "Shift id (default: the shift active now)")

	manualPunchCmd.Flags().StringP("type", "t", string(models.PunchIn), "Direction: in or out")
	manualPunchCmd.Flags().Int64P("shift", "s", 0, "Shift id")
	manualPunchCmd.Flags().StringP("password", "p", "", "Admin password")

	shiftCmd.AddCommand(shiftCurrentCmd)

	taskAddCmd.Flags().StringP("frequency", "f", string(models.FrequencyDaily), "daily, weekly or monthly")
	taskAddCmd.Flags().StringP("day", "d", "", "Weekday 0-6 (weekly) or day of month 1-31 (monthly)")
	taskAddCmd.Flags().String("time", "00:00", "Time of day, HH:MM")
	taskCmd.AddCommand(taskRunCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskAddCmd)

	bellAddCmd.Flags().StringSlice("days", []string{"1", "2", "3", "4", "5"}, "Weekdays 0-6, Sunday is 0")
	bellAddCmd.Flags().String("sound", "bell", "Sound name")
	bellAddCmd.Flags().Int("duration", 5, "Seconds the bell banner stays up")
	bellCmd.AddCommand(bellListCmd)
	bellCmd.AddCommand(bellAddCmd)
	bellCmd.AddCommand(bellClearCmd)

	logListCmd.Flags().IntP("limit", "n", 50, "Entries to print (0 for all)")
	logCmd.AddCommand(logListCmd)
	logCmd.AddCommand(logClearCmd)

	employeesAddCmd.Flags().String("department", "", "Department (required)")
	employeesAddCmd.Flags().String("card", "", "Card code (required, unique)")
	employeesAddCmd.Flags().String("password", "", "Punch password (required)")
	employeesAddCmd.Flags().String("gender", "", "Gender")
	employeesAddCmd.Flags().String("hire-date", "", "Hire date, YYYY-MM-DD")
	employeesCmd.AddCommand(employeesImportCmd)
	employeesCmd.AddCommand(employeesExportCmd)
	employeesCmd.AddCommand(employeesAddCmd)
	employeesCmd.AddCommand(employeesDeleteCmd)

	reportCmd.Flags().StringP("login", "l", "", "Admin password or employee id, card or password")
	reportCmd.Flags().String("from", "", "First day, YYYY-MM-DD (default: today)")
	reportCmd.Flags().String("to", "", "Last day, YYYY-MM-DD (default: today)")
}
