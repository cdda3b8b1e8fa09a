package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/nexts-consulting/fms-attendance/internal/app"
	"github.com/nexts-consulting/fms-attendance/internal/config"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/cron"
	"github.com/nexts-consulting/fms-attendance/internal/pkg/logger"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var sweepJobs = map[string]string{
	"auto-checkout": cron.JobAutoCheckOut,
	"absence":       cron.JobMarkAbsent,
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "worker",
		Short:         "Attendance background jobs",
		SilenceUsage:  true,
	}

	root.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Run the auto check-out and absence sweeps on their cron schedules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withScheduler(cmd.Context(), func(ctx context.Context, scheduler *cron.Scheduler, log *slog.Logger) error {
				scheduler.Start()
				log.Info("Worker started", slog.Int("jobs", len(scheduler.Jobs())))
				<-ctx.Done()
				log.Info("Stopping worker")
				scheduler.Stop()
				return nil
			})
		},
	})

	root.AddCommand(&cobra.Command{
		Use:       "sweep auto-checkout|absence",
		Short:     "Run one sweep immediately and exit",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"auto-checkout", "absence"},
		RunE: func(cmd *cobra.Command, args []string) error {
			name := sweepJobs[args[0]]
			return withScheduler(cmd.Context(), func(ctx context.Context, scheduler *cron.Scheduler, _ *slog.Logger) error {
				return scheduler.Run(ctx, name)
			})
		},
	})

	return root
}

// withScheduler loads config, builds the app and registers the attendance
// jobs before handing the scheduler to fn.
func withScheduler(ctx context.Context, fn func(ctx context.Context, scheduler *cron.Scheduler, log *slog.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(app.LoggerOptions(cfg, "-worker"))
	slog.SetDefault(log)

	application, err := app.New(ctx, cfg, log, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.Error("Failed to release resources", slog.String("error", err.Error()))
		}
	}()

	scheduler := cron.NewScheduler(log)
	if err := application.AttendanceJobs().RegisterJobs(scheduler); err != nil {
		return fmt.Errorf("register jobs: %w", err)
	}

	return fn(ctx, scheduler, log)
}
