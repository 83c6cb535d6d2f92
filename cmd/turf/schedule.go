package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/yourusername/turf-analytics/internal/health"
	"github.com/yourusername/turf-analytics/internal/metrics"
	"github.com/yourusername/turf-analytics/internal/scheduler"
)

func newScheduleCmd() *cobra.Command {
	var runNow bool

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the daily import and scoring job until interrupted",
		Long:  `Imports the day's exports and scores every race on the configured cron schedule, serving health and metrics endpoints meanwhile.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			return withApp(ctx, func(a *app) error {
				return runSchedule(ctx, cancel, a, runNow)
			})
		},
	}

	cmd.Flags().BoolVar(&runNow, "run-now", false, "Run today's job once before waiting for the schedule")
	return cmd
}

func runSchedule(ctx context.Context, cancel context.CancelFunc, a *app, runNow bool) error {
	loc := time.UTC
	if tz := a.cfg.Ingestion.Timezone; tz != "" {
		var err error
		if loc, err = time.LoadLocation(tz); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", tz, err)
		}
	}

	sched := scheduler.NewScheduler(a.ingestion, a.predictions, loc, a.log)
	if err := sched.ScheduleDailyRun(a.cfg.Ingestion.Schedule); err != nil {
		return err
	}

	healthCfg := health.Config{
		ServiceName: a.cfg.App.Name,
		Version:     Version,
		Port:        a.cfg.Metrics.Port,
		MetricsPath: a.cfg.Metrics.Path,
		Logger:      a.log,
		DB:          a.db,
		Jobs:        sched,
	}
	if a.cfg.Metrics.Enabled {
		healthCfg.Metrics = metrics.Handler()
	}
	healthServer := health.NewServer(healthCfg)
	if err := healthServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start health server: %w", err)
	}

	if err := sched.Start(); err != nil {
		return err
	}
	healthServer.SetReady(true)

	a.log.WithFields(logrus.Fields{
		"schedule": a.cfg.Ingestion.Schedule,
		"timezone": loc.String(),
		"sources":  a.ingestion.SourceNames(),
		"next_run": sched.GetNextRun().Format(time.RFC3339),
	}).Info("Scheduler running")

	if runNow {
		go func() {
			day := time.Now().In(loc)
			if err := sched.RunDay(ctx, time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)); err != nil {
				a.log.WithError(err).Warn("Immediate run finished with errors")
			}
		}()
	}

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		a.log.WithField("signal", sig).Info("Shutdown signal received")
	case <-ctx.Done():
	}

	healthServer.SetReady(false)
	if err := sched.Stop(); err != nil {
		a.log.WithError(err).Warn("Scheduler did not stop cleanly")
	}
	cancel()

	a.log.Info("Scheduler stopped")
	return nil
}
