package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/emilianohg/punchclock/internal/app"
	"github.com/emilianohg/punchclock/internal/clock"
	"github.com/emilianohg/punchclock/internal/config"
	"github.com/emilianohg/punchclock/internal/db"
	"github.com/emilianohg/punchclock/internal/logger"
	"github.com/emilianohg/punchclock/internal/notify"
	"github.com/emilianohg/punchclock/internal/repository"
	"github.com/emilianohg/punchclock/internal/tui"
)

// eventBuffer is how many notifications may queue while the kiosk redraws.
const eventBuffer = 64

var rootCmd = &cobra.Command{
	Use:   "punchclock",
	Short: "Attendance kiosk with scheduled bells and housekeeping tasks",
	Long: `Punchclock runs a terminal kiosk where employees punch in and out with a
card code or password. Bells ring on schedule and export/delete tasks run
in the background while the kiosk is open.`,
	Run: func(cmd *cobra.Command, args []string) {
		events := notify.NewChannel(eventBuffer)
		core, log := mustBootstrap(func(*zap.Logger) notify.Notifier { return events })
		defer shutdown(log)

		ctx, cancel := context.WithCancel(context.Background())
		core.Start(ctx)

		err := tui.Run(core, events.Events(), log.Named("tui"))
		cancel()
		core.Wait()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the bell and task schedulers without the kiosk",
	Run: func(cmd *cobra.Command, args []string) {
		core, log := mustBootstrap(func(l *zap.Logger) notify.Notifier { return notify.NewLog(l.Named("notify")) })
		defer shutdown(log)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Info("schedulers started")
		core.Start(ctx)
		<-ctx.Done()
		core.Wait()
		log.Info("schedulers stopped")
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := db.Open(""); err != nil {
			fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()

		before, err := db.Status()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading migration status: %v\n", err)
			os.Exit(1)
		}
		if !before.Pending {
			fmt.Printf("Database is up to date (version %d).\n", before.CurrentVersion)
			return
		}
		if err := db.Migrate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Migrated from version %d to %d.\n", before.CurrentVersion, before.LatestVersion)
	},
}

func init() {
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(punchCmd)
	rootCmd.AddCommand(manualPunchCmd)
	rootCmd.AddCommand(shiftCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(bellCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(employeesCmd)
	rootCmd.AddCommand(reportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads config, opens the migrated database and loads the
// application state. newNotifier picks where core events go.
func bootstrap(newNotifier func(*zap.Logger) notify.Notifier) (*app.App, *zap.Logger, error) {
	config.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logPath, err := config.LogPath()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, logPath)
	if err != nil {
		return nil, nil, err
	}

	database, err := db.OpenAndMigrate()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	core := app.New(cfg, repository.NewStore(database), clock.System(), newNotifier(log), log)
	if err := core.Load(); err != nil {
		db.Close()
		return nil, nil, err
	}
	return core, log, nil
}

func mustBootstrap(newNotifier func(*zap.Logger) notify.Notifier) (*app.App, *zap.Logger) {
	core, log, err := bootstrap(newNotifier)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return core, log
}

// headless bootstraps for one-shot commands; events only reach the log.
func headless() (*app.App, *zap.Logger) {
	return mustBootstrap(func(l *zap.Logger) notify.Notifier { return notify.NewLog(l.Named("notify")) })
}

func shutdown(log *zap.Logger) {
	db.Close()
	_ = log.Sync()
}

func fail(log *zap.Logger, msg string, err error) {
	log.Error(msg, zap.Error(err))
	shutdown(log)
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
